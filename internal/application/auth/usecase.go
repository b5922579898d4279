package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/pkg/jwt"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// Mensajes de login que ve el usuario.
const (
	MsgErrorDesconocido = "Error desconocido"
	MsgErrorConexion    = "Error de conexión. Verifica que el servidor esté funcionando."
)

// AuthGateway puerto hacia el servicio de autenticación remoto.
type AuthGateway interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginEnvelope, error)
	Logout(ctx context.Context, token string) error
}

// Option configura el Service.
type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.storage.now = now
	}
}

// WithHTTPClient reemplaza el cliente usado en las peticiones autenticadas.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

// Service servicio de autenticación: login, logout, estado de sesión y
// peticiones con token.
type Service struct {
	api     AuthGateway
	storage *SessionStorage
	ttl     time.Duration
	client  *http.Client
	log     *logger.Logger
	now     func() time.Time
}

// NewService construye el servicio. ttl es la vida de la sesión desde el login.
func NewService(api AuthGateway, storage *SessionStorage, ttl time.Duration, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		api:     api,
		storage: storage,
		ttl:     ttl,
		client:  &http.Client{},
		log:     log.Component("auth"),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login envía las credenciales y, si el servidor las acepta, guarda la sesión.
// Nunca devuelve error: los fallos se reportan en LoginResult.Message.
func (s *Service) Login(ctx context.Context, sid string, in dto.LoginRequest) dto.LoginResult {
	env, err := s.api.Login(ctx, in)
	if err != nil {
		var apiErr *domain.APIError
		switch {
		case errors.As(err, &apiErr):
			return dto.LoginResult{Message: apiErr.Message}
		default:
			s.log.Warn().Err(err).Msg("login: servicio de autenticación no disponible")
			return dto.LoginResult{Message: MsgErrorConexion}
		}
	}
	if !env.Success || env.Token == "" {
		msg := env.Message
		if msg == "" {
			msg = MsgErrorDesconocido
		}
		return dto.LoginResult{Message: msg, LoginResponse: env.Raw}
	}

	sess := &entity.Session{
		Version:       entity.SessionVersion,
		Token:         env.Token,
		User:          env.User,
		LoginResponse: env.Raw,
		TokenExpiry:   s.expiryFor(env.Token).UnixMilli(),
	}
	if env.User != nil {
		sess.RequiresPasswordChange = env.User.RequiereCambioPassword.On()
		sess.PasswordExpired = env.User.PasswordVencida.On()
	}
	s.storage.Set(ctx, sid, sess)

	s.log.Info().Str("ci", in.CI).Msg("sesión iniciada")
	return dto.LoginResult{
		Success:       true,
		User:          env.User,
		Token:         env.Token,
		Message:       env.Message,
		LoginResponse: env.Raw,
	}
}

// expiryFor now+ttl, recortado al exp del JWT cuando el token lo trae.
func (s *Service) expiryFor(token string) time.Time {
	exp := s.now().Add(s.ttl)
	if tokExp, err := jwt.ExpiresAt(token); err == nil && tokExp.Before(exp) {
		return tokExp
	}
	return exp
}

// Logout avisa al servidor si hay token (best effort) y siempre borra la sesión local.
func (s *Service) Logout(ctx context.Context, sid string) {
	if sess := s.storage.Get(ctx, sid); sess != nil && sess.Token != "" {
		if err := s.api.Logout(ctx, sess.Token); err != nil {
			s.log.Warn().Err(err).Msg("logout remoto")
		}
	}
	s.storage.Remove(ctx, sid)
}

// Forget borra el registro local de sid sin avisar al servidor.
func (s *Service) Forget(ctx context.Context, sid string) {
	s.storage.Remove(ctx, sid)
}

// IsAuthenticated true si hay token y vencimiento no alcanzado. Una sesión
// vencida se limpia localmente, sin llamar al servidor.
func (s *Service) IsAuthenticated(ctx context.Context, sid string) bool {
	sess := s.storage.Get(ctx, sid)
	if sess == nil || sess.Token == "" || sess.TokenExpiry == 0 {
		return false
	}
	if sess.ExpiredAt(s.now()) {
		s.log.Info().Msg("sesión vencida")
		s.storage.Remove(ctx, sid)
		return false
	}
	return true
}

// GetProfileData devuelve lo guardado en la sesión; campos vacíos si no hay.
func (s *Service) GetProfileData(ctx context.Context, sid string) dto.ProfileData {
	sess := s.storage.Get(ctx, sid)
	if sess == nil {
		return dto.ProfileData{}
	}
	return dto.ProfileData{
		User:                   sess.User,
		Token:                  sess.Token,
		LoginResponse:          sess.LoginResponse,
		RequiresPasswordChange: sess.RequiresPasswordChange,
		PasswordExpired:        sess.PasswordExpired,
	}
}

// Expiry vencimiento de la sesión; cero si no hay.
func (s *Service) Expiry(ctx context.Context, sid string) time.Time {
	return s.storage.Get(ctx, sid).Expiry()
}

// AuthenticatedRequest ejecuta req con el token de la sesión. Authorization y
// Content-Type solo se fijan si el llamador no los puso. Un 401 borra la
// sesión y devuelve domain.ErrTokenExpired.
func (s *Service) AuthenticatedRequest(ctx context.Context, sid string, req *http.Request) (*http.Response, error) {
	sess := s.storage.Get(ctx, sid)
	if sess == nil || sess.Token == "" {
		return nil, domain.ErrNoToken
	}
	req = req.WithContext(ctx)
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConexion, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		s.log.Info().Str("url", req.URL.String()).Msg("token rechazado, cerrando sesión")
		s.storage.Remove(ctx, sid)
		return nil, domain.ErrTokenExpired
	}
	return resp, nil
}

// UpdateUser mezcla partial sobre el usuario guardado y lo persiste. Las
// banderas de contraseña se recalculan solo si partial las trae.
// Devuelve el usuario resultante o nil si no hay sesión.
func (s *Service) UpdateUser(ctx context.Context, sid string, partial map[string]any) *entity.User {
	sess := s.storage.Get(ctx, sid)
	if sess == nil || sess.User == nil {
		return nil
	}

	merged, err := mergeUser(sess.User, partial)
	if err != nil {
		s.log.Error().Err(err).Msg("actualizar usuario")
		return nil
	}
	sess.User = merged
	if _, ok := partial["requiere_cambio_password"]; ok {
		sess.RequiresPasswordChange = merged.RequiereCambioPassword.On()
	}
	if _, ok := partial["password_vencida"]; ok {
		sess.PasswordExpired = merged.PasswordVencida.On()
	}
	s.storage.Set(ctx, sid, sess)
	return merged
}

func mergeUser(u *entity.User, partial map[string]any) (*entity.User, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range partial {
		fields[k] = v
	}
	if raw, err = json.Marshal(fields); err != nil {
		return nil, err
	}
	var out entity.User
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
