package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNoToken           = errors.New("no hay token de sesión")
	ErrTokenExpired      = errors.New("sesión expirada, inicie sesión nuevamente")
	ErrPerfilIncompleto  = errors.New("datos de usuario incompletos")
	ErrSesionCorrupta    = errors.New("registro de sesión ilegible")
	ErrConexion          = errors.New("error de conexión")
	ErrInvalidTransition = errors.New("transición de estado inválida")
)

// APIError operación rechazada por un backend (respuesta no 2xx o no JSON).
// Message es el texto que se muestra al usuario tal cual. Err, si existe, es
// la causa técnica (p. ej. ErrConexion) y solo va a los logs.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend HTTP %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }
