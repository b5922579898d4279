package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MutationResponse cuerpo que devuelven los backends al crear, editar o eliminar.
// Success es nil cuando el backend no incluye el campo.
type MutationResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// Rejected indica que el backend respondió 2xx pero con success=false.
func (m MutationResponse) Rejected() bool {
	return m.Success != nil && !*m.Success
}
