package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
)

// Locals keys del estado de sesión en Fiber.
const (
	LocalSessionID = "session_id"
	LocalAuthState = "auth_state"
)

// CookieConfig cookie que lleva el id de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SessionMiddleware asegura un id de sesión (cookie HTTP-only), lo pone en el
// contexto de la petición y resuelve el estado de autenticación antes de
// ejecutar cualquier handler.
func SessionMiddleware(p *auth.Provider, cfg CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cfg.Name)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			setSessionCookie(c, cfg, sid)
		}
		c.Locals(LocalSessionID, sid)
		c.SetUserContext(auth.WithSessionID(c.UserContext(), sid))
		c.Locals(LocalAuthState, p.Resolve(c.UserContext(), sid))
		return c.Next()
	}
}

func setSessionCookie(c *fiber.Ctx, cfg CookieConfig, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(cfg.TTL),
	})
}

// RequireAuth deja pasar solo sesiones autenticadas. Las páginas redirigen al
// login; la API responde 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := GetAuthState(c)
		if st.Loading {
			return c.Status(fiber.StatusServiceUnavailable).SendString("cargando sesión")
		}
		if !st.IsAuthenticated {
			return unauthenticated(c)
		}
		return c.Next()
	}
}

// GuestOnly manda al inicio a quien ya tiene sesión (página de login).
func GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetAuthState(c).IsAuthenticated {
			return c.Redirect(HomeRoute, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no iniciada o vencida"})
	}
	return c.Redirect(DefaultRoute(), fiber.StatusSeeOther)
}

// sessionLost responde a un error de sesión devuelto por un caso de uso.
// Devuelve false si err no es de sesión.
func sessionLost(c *fiber.Ctx, err error) (bool, error) {
	if !usecase.IsSessionError(err) {
		return false, nil
	}
	return true, unauthenticated(c)
}

// GetSessionID id de sesión del contexto (después de SessionMiddleware).
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetAuthState estado de autenticación (después de SessionMiddleware).
func GetAuthState(c *fiber.Ctx) auth.State {
	st, ok := c.Locals(LocalAuthState).(auth.State)
	if !ok {
		return auth.Pending()
	}
	return st
}
