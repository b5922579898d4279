package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia del registro de sesión (DIP).
// Get devuelve (nil, nil) cuando no existe.
type SessionRepository interface {
	Get(ctx context.Context, sid string) (*entity.Session, error)
	Save(ctx context.Context, sid string, session *entity.Session, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

// FormTokenRepository registra tokens de formulario de un solo uso.
// Claim devuelve true solo la primera vez que se presenta un token.
type FormTokenRepository interface {
	Claim(ctx context.Context, token string, ttl time.Duration) (bool, error)
}
