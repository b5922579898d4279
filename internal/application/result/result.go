// Package result define el resultado uniforme de las llamadas a los servicios
// REST: Ok(datos), Empty (sin datos) o Failed(motivo).
package result

import (
	"errors"

	"github.com/jhoicas/sisvam-web/internal/domain"
)

// Kind variante del resultado.
type Kind int

const (
	KindOk Kind = iota
	KindEmpty
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Result resultado de una operación contra un backend.
type Result[T any] struct {
	kind Kind
	data T
	err  error
}

// Ok resultado con datos.
func Ok[T any](data T) Result[T] {
	return Result[T]{kind: KindOk, data: data}
}

// Empty resultado válido pero sin datos (lista vacía, 404 en lectura).
func Empty[T any]() Result[T] {
	return Result[T]{kind: KindEmpty}
}

// Failed resultado fallido. err nunca queda en nil.
func Failed[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("error desconocido")
	}
	return Result[T]{kind: KindFailed, err: err}
}

func (r Result[T]) Kind() Kind     { return r.kind }
func (r Result[T]) IsOk() bool     { return r.kind == KindOk }
func (r Result[T]) IsEmpty() bool  { return r.kind == KindEmpty }
func (r Result[T]) IsFailed() bool { return r.kind == KindFailed }
func (r Result[T]) Data() T        { return r.data }
func (r Result[T]) Err() error     { return r.err }

// MsgConexion texto para fallos de red; el detalle técnico queda en el log.
const MsgConexion = "Error de conexión. Verifica que el servidor esté funcionando."

// Message texto para mostrar al usuario. Para errores del servidor devuelve
// el mensaje del cuerpo de la respuesta; un fallo de red nunca expone la URL
// ni el detalle del transporte.
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	var apiErr *domain.APIError
	if errors.As(r.err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(r.err, domain.ErrConexion) {
		return MsgConexion
	}
	return r.err.Error()
}

// SessionLost indica que el fallo invalida la sesión (token vencido o ausente).
func (r Result[T]) SessionLost() bool {
	return r.err != nil && (errors.Is(r.err, domain.ErrTokenExpired) || errors.Is(r.err, domain.ErrNoToken))
}
