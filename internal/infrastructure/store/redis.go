package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/domain/repository"
	"github.com/jhoicas/sisvam-web/pkg/config"
)

const (
	sessionKeyPrefix   = "sisvam:session:"
	formTokenKeyPrefix = "sisvam:form:"
)

var (
	_ repository.SessionRepository   = (*RedisSessionRepo)(nil)
	_ repository.FormTokenRepository = (*RedisFormTokenRepo)(nil)
)

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// RedisSessionRepo almacén de sesiones compartido entre instancias del panel.
type RedisSessionRepo struct {
	client *redis.Client
}

// NewRedisSessionRepository construye el adaptador sobre un cliente existente.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{client: client}
}

// Get obtiene la sesión; (nil, nil) si la clave no existe.
func (r *RedisSessionRepo) Get(ctx context.Context, sid string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(raw)
}

// Save escribe el registro completo con SET ... EX.
func (r *RedisSessionRepo) Save(ctx context.Context, sid string, session *entity.Session, ttl time.Duration) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+sid, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete elimina la sesión.
func (r *RedisSessionRepo) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RedisFormTokenRepo tokens de formulario con SETNX.
type RedisFormTokenRepo struct {
	client *redis.Client
}

// NewRedisFormTokenRepository construye el adaptador.
func NewRedisFormTokenRepository(client *redis.Client) *RedisFormTokenRepo {
	return &RedisFormTokenRepo{client: client}
}

// Claim marca el token como usado en una sola operación atómica.
func (r *RedisFormTokenRepo) Claim(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, formTokenKeyPrefix+token, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim form token: %w", err)
	}
	return ok, nil
}
