package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

var _ auth.AuthGateway = (*AuthClient)(nil)

// AuthClient adaptador del servicio de autenticación ({auth}/auth/login, /auth/logout).
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewAuthClient construye el cliente. timeout se aplica a cada llamada.
func NewAuthClient(baseURL string, timeout time.Duration, log *logger.Logger) *AuthClient {
	return &AuthClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("auth_client"),
	}
}

// Login envía POST /auth/login. Los rechazos llegan como *domain.APIError con
// el mensaje listo para mostrar; los fallos de red envuelven domain.ErrConexion.
func (c *AuthClient) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginEnvelope, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("auth: serializar credenciales: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("auth: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: login: %v", domain.ErrConexion, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta de login: %v", domain.ErrConexion, err)
	}

	var env dto.LoginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn().Int("status", resp.StatusCode).Msg("login: respuesta no JSON")
		return nil, invalidResponse(resp.StatusCode)
	}
	if !ok2xx(resp.StatusCode) {
		return nil, httpError(resp.StatusCode, raw, "")
	}
	env.Raw = json.RawMessage(raw)
	return &env, nil
}

// Logout envía POST /auth/logout con el token.
func (c *AuthClient) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("auth: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: logout: %v", domain.ErrConexion, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if !ok2xx(resp.StatusCode) {
		return httpError(resp.StatusCode, raw, "")
	}
	return nil
}
