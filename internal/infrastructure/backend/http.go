// Package backend clientes de los servicios REST que consume el panel:
// autenticación, inventario, sucursales y valores municipales.
package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/sisvam-web/internal/domain"
)

// maxBody límite de lectura de respuestas.
const maxBody = 4 << 20

// Requester ejecuta una petición HTTP. auth.Provider lo implementa añadiendo
// el token de la sesión que viaja en el contexto.
type Requester interface {
	Do(req *http.Request) (*http.Response, error)
}

func ok2xx(status int) bool { return status >= 200 && status < 300 }

// invalidResponse respuesta que no es JSON.
func invalidResponse(status int) *domain.APIError {
	return &domain.APIError{Status: status, Message: fmt.Sprintf("Error del servidor (%d): Respuesta no válida", status)}
}

// bodyMessage extrae el campo message (o error) de un cuerpo JSON.
func bodyMessage(raw []byte) string {
	var b struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &b) != nil {
		return ""
	}
	if m := strings.TrimSpace(b.Message); m != "" {
		return m
	}
	return strings.TrimSpace(b.Error)
}

// httpError error de un estado no 2xx; usa el mensaje del cuerpo si lo hay.
func httpError(status int, raw []byte, fallback string) *domain.APIError {
	msg := bodyMessage(raw)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = fmt.Sprintf("Error HTTP %d", status)
	}
	return &domain.APIError{Status: status, Message: msg}
}
