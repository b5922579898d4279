package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// State estado de autenticación que ven las páginas.
type State struct {
	User                   *entity.User
	Loading                bool
	IsAuthenticated        bool
	Token                  string
	LoginResponse          json.RawMessage
	RequiresPasswordChange bool
	PasswordExpired        bool
}

// Pending estado inicial, antes de resolver la sesión.
func Pending() State { return State{Loading: true} }

func anonymous() State { return State{} }

// Provider expone el estado de autenticación y sus mutaciones a la capa HTTP.
// Se construye una vez y se resuelve por petición con el id de sesión.
type Provider struct {
	svc   *Service
	log   *logger.Logger
	newID func() string
}

// NewProvider construye el provider sobre el servicio de autenticación.
func NewProvider(svc *Service, log *logger.Logger) *Provider {
	return &Provider{svc: svc, log: log.Component("auth_provider"), newID: uuid.NewString}
}

// Resolve calcula el estado de la sesión sid. Si los datos guardados del
// usuario están incompletos se fuerza el logout.
func (p *Provider) Resolve(ctx context.Context, sid string) State {
	if !p.svc.IsAuthenticated(ctx, sid) {
		return anonymous()
	}
	data := p.svc.GetProfileData(ctx, sid)
	if missing := data.User.MissingFields(); len(missing) > 0 {
		p.log.Warn().Strs("faltan", missing).Msg("perfil guardado incompleto, cerrando sesión")
		p.svc.Logout(ctx, sid)
		return anonymous()
	}
	return State{
		User:                   data.User,
		IsAuthenticated:        true,
		Token:                  data.Token,
		LoginResponse:          data.LoginResponse,
		RequiresPasswordChange: data.RequiresPasswordChange,
		PasswordExpired:        data.PasswordExpired,
	}
}

// Login delega en el servicio y valida el usuario devuelto antes de aceptar
// la sesión. La sesión autenticada se guarda bajo un id nuevo y el registro
// de sid se descarta; el tercer valor es el id que debe llevar la cookie
// (sid si el login falla).
func (p *Provider) Login(ctx context.Context, sid string, in dto.LoginRequest) (State, dto.LoginResult, string) {
	fresh := p.newID()
	res := p.svc.Login(ctx, fresh, in)
	if !res.Success {
		return anonymous(), res, sid
	}
	if missing := res.User.MissingFields(); len(missing) > 0 {
		p.log.Warn().Strs("faltan", missing).Msg("login con perfil incompleto")
		p.svc.Logout(ctx, fresh)
		return anonymous(), dto.LoginResult{Message: perfilIncompleto(missing)}, sid
	}
	p.svc.Forget(ctx, sid)
	return p.Resolve(ctx, fresh), res, fresh
}

func perfilIncompleto(missing []string) string {
	msg := domain.ErrPerfilIncompleto.Error()
	return strings.ToUpper(msg[:1]) + msg[1:] + ": " + strings.Join(missing, ", ")
}

// Logout cierra la sesión; el estado resultante siempre es anónimo.
func (p *Provider) Logout(ctx context.Context, sid string) State {
	p.svc.Logout(ctx, sid)
	return anonymous()
}

// UpdateUser mezcla partial en el usuario de la sesión y devuelve el estado nuevo.
func (p *Provider) UpdateUser(ctx context.Context, sid string, partial map[string]any) (State, *entity.User) {
	u := p.svc.UpdateUser(ctx, sid, partial)
	return p.Resolve(ctx, sid), u
}

// Expiry vencimiento de la sesión sid.
func (p *Provider) Expiry(ctx context.Context, sid string) time.Time {
	return p.svc.Expiry(ctx, sid)
}

// AuthenticatedRequest como Service.AuthenticatedRequest, pero un token
// vencido además cierra la sesión a nivel de provider.
func (p *Provider) AuthenticatedRequest(ctx context.Context, sid string, req *http.Request) (*http.Response, error) {
	resp, err := p.svc.AuthenticatedRequest(ctx, sid, req)
	if errors.Is(err, domain.ErrTokenExpired) {
		p.Logout(ctx, sid)
	}
	return resp, err
}

// Do ejecuta req con la sesión que viaja en su contexto (WithSessionID).
// Permite usar el provider como cliente HTTP de los servicios de recursos.
func (p *Provider) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	return p.AuthenticatedRequest(ctx, SessionIDFrom(ctx), req)
}
