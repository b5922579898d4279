package dto

import (
	"encoding/json"

	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// LoginRequest credenciales enviadas a POST /auth/login.
type LoginRequest struct {
	CI       string `json:"ci" form:"ci"`
	Password string `json:"password" form:"password"`
}

// LoginEnvelope respuesta del servicio de autenticación.
// Raw conserva el cuerpo completo tal como llegó (loginResponse).
type LoginEnvelope struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    *entity.User    `json:"user"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"-"`
}

// LoginResult resultado del login para la capa de presentación.
type LoginResult struct {
	Success       bool
	User          *entity.User
	Token         string
	Message       string
	LoginResponse json.RawMessage
}

// ProfileData lectura agregada de la sesión para hidratar el estado de auth.
type ProfileData struct {
	User                   *entity.User
	Token                  string
	LoginResponse          json.RawMessage
	RequiresPasswordChange bool
	PasswordExpired        bool
}

// SessionResponse estado de sesión expuesto en GET /api/v1/session.
type SessionResponse struct {
	IsAuthenticated        bool         `json:"is_authenticated"`
	User                   *entity.User `json:"user,omitempty"`
	ExpiresAt              string       `json:"expires_at,omitempty"`
	RequiresPasswordChange bool         `json:"requires_password_change"`
	PasswordExpired        bool         `json:"password_expired"`
}

// PasswordChangeRequest formulario de cambio de contraseña del perfil.
type PasswordChangeRequest struct {
	NewPassword     string `form:"new_password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=NewPassword"`
}
