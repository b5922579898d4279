package entity

import (
	"encoding/json"
	"time"
)

// SessionVersion versión actual del registro de sesión serializado.
const SessionVersion = 1

// Session registro único de sesión del panel. Reúne los seis datos que antes
// vivían en claves sueltas (token, user, loginResponse, tokenExpiry,
// requiresPasswordChange, passwordExpired) y se guarda de forma atómica.
type Session struct {
	Version                int             `json:"version"`
	Token                  string          `json:"token"`
	User                   *User           `json:"user"`
	LoginResponse          json.RawMessage `json:"loginResponse,omitempty"`
	TokenExpiry            int64           `json:"tokenExpiry"` // epoch en milisegundos
	RequiresPasswordChange bool            `json:"requiresPasswordChange"`
	PasswordExpired        bool            `json:"passwordExpired"`
}

// Expiry instante de vencimiento; cero si no hay.
func (s *Session) Expiry() time.Time {
	if s == nil || s.TokenExpiry == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.TokenExpiry)
}

// ExpiredAt indica si la sesión está vencida en el instante now.
func (s *Session) ExpiredAt(now time.Time) bool {
	exp := s.Expiry()
	return !exp.IsZero() && now.After(exp)
}
