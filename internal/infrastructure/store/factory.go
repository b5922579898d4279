package store

import (
	"context"

	"github.com/jhoicas/sisvam-web/internal/domain/repository"
	"github.com/jhoicas/sisvam-web/pkg/config"
)

// Stores almacenes que usa el panel y su función de cierre.
type Stores struct {
	Sessions   repository.SessionRepository
	FormTokens repository.FormTokenRepository
	Close      func() error
}

// New construye los almacenes según SESSION_STORE (memory | redis).
func New(ctx context.Context, sessionCfg config.SessionConfig, redisCfg config.RedisConfig) (*Stores, error) {
	if sessionCfg.Store == "redis" {
		client, err := NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Sessions:   NewRedisSessionRepository(client),
			FormTokens: NewRedisFormTokenRepository(client),
			Close:      client.Close,
		}, nil
	}
	return &Stores{
		Sessions:   NewMemorySessionRepository(),
		FormTokens: NewMemoryFormTokenRepository(),
		Close:      func() error { return nil },
	}, nil
}
