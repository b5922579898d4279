package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/domain/repository"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// SessionStorage adaptador de almacenamiento de sesión. No devuelve errores:
// los fallos del almacén se registran y se tratan como ausencia.
type SessionStorage struct {
	repo repository.SessionRepository
	ttl  time.Duration
	log  *logger.Logger
	now  func() time.Time
}

// NewSessionStorage construye el adaptador. ttl es la vida máxima del registro.
func NewSessionStorage(repo repository.SessionRepository, ttl time.Duration, log *logger.Logger) *SessionStorage {
	return &SessionStorage{
		repo: repo,
		ttl:  ttl,
		log:  log.Component("session_storage"),
		now:  time.Now,
	}
}

// Get lee la sesión; nil si no existe o no se pudo leer. Un registro
// ilegible se elimina.
func (s *SessionStorage) Get(ctx context.Context, sid string) *entity.Session {
	if sid == "" {
		return nil
	}
	sess, err := s.repo.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSesionCorrupta) {
			s.log.Warn().Err(err).Msg("registro de sesión descartado")
			s.Remove(ctx, sid)
			return nil
		}
		s.log.Error().Err(err).Msg("leer sesión")
		return nil
	}
	return sess
}

// Set guarda el registro completo. El TTL del almacén nunca supera el
// vencimiento de la sesión.
func (s *SessionStorage) Set(ctx context.Context, sid string, sess *entity.Session) {
	if sid == "" || sess == nil {
		return
	}
	ttl := s.ttl
	if exp := sess.Expiry(); !exp.IsZero() {
		if left := exp.Sub(s.now()); left < ttl {
			ttl = left
		}
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := s.repo.Save(ctx, sid, sess, ttl); err != nil {
		s.log.Error().Err(err).Msg("guardar sesión")
	}
}

// Remove borra el registro; los errores solo se registran.
func (s *SessionStorage) Remove(ctx context.Context, sid string) {
	if sid == "" {
		return
	}
	if err := s.repo.Delete(ctx, sid); err != nil {
		s.log.Error().Err(err).Msg("eliminar sesión")
	}
}
