package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/pkg/metrics"
)

// Mensajes del formulario de login.
const (
	MsgCamposVacios   = "Por favor completa todos los campos"
	MsgCarnetNumerico = "El número de carnet debe contener solo números"
	MsgDemasiados     = "Demasiados intentos. Espera un momento e inténtalo de nuevo."
)

// AuthHandler maneja login, logout y el estado de sesión.
type AuthHandler struct {
	provider *auth.Provider
	metrics  *metrics.Metrics
	cookie   CookieConfig
}

// NewAuthHandler construye el handler de auth; cookie es la configuración con
// la que se reemite el id de sesión tras el login.
func NewAuthHandler(p *auth.Provider, m *metrics.Metrics, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{provider: p, metrics: m, cookie: cookie}
}

type signInData struct {
	CI    string
	Error string
}

// SignInPage GET /auth/sign-in
func (h *AuthHandler) SignInPage(c *fiber.Ctx) error {
	return renderAuth(c, "auth/sign-in", "Iniciar sesión", signInData{})
}

// SignIn POST /auth/sign-in. Las validaciones locales no llaman al servidor.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		c.Status(fiber.StatusBadRequest)
		return renderAuth(c, "auth/sign-in", "Iniciar sesión", signInData{Error: MsgCamposVacios})
	}
	in.CI = strings.TrimSpace(in.CI)
	if msg := validateCredentials(in); msg != "" {
		c.Status(fiber.StatusBadRequest)
		return renderAuth(c, "auth/sign-in", "Iniciar sesión", signInData{CI: in.CI, Error: msg})
	}

	st, res, sid := h.provider.Login(c.UserContext(), GetSessionID(c), in)
	if !res.Success {
		h.metrics.Login("rejected")
		c.Status(fiber.StatusUnauthorized)
		return renderAuth(c, "auth/sign-in", "Iniciar sesión", signInData{CI: in.CI, Error: res.Message})
	}
	h.metrics.Login("ok")
	setSessionCookie(c, h.cookie, sid)
	c.Locals(LocalSessionID, sid)
	c.Locals(LocalAuthState, st)
	c.SetUserContext(auth.WithSessionID(c.UserContext(), sid))
	return c.Redirect(HomeRoute, fiber.StatusSeeOther)
}

// RateLimited respuesta cuando una IP excede los intentos de login.
func (h *AuthHandler) RateLimited(c *fiber.Ctx) error {
	h.metrics.Login("limited")
	c.Status(fiber.StatusTooManyRequests)
	return renderAuth(c, "auth/sign-in", "Iniciar sesión", signInData{Error: MsgDemasiados})
}

// Logout POST /auth/logout. Siempre termina en el login.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.provider.Logout(c.UserContext(), GetSessionID(c))
	return c.Redirect(DefaultRoute(), fiber.StatusSeeOther)
}

// Session godoc
// @Summary      Estado de la sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	st := GetAuthState(c)
	out := dto.SessionResponse{
		IsAuthenticated:        st.IsAuthenticated,
		User:                   st.User,
		RequiresPasswordChange: st.RequiresPasswordChange,
		PasswordExpired:        st.PasswordExpired,
	}
	if exp := h.provider.Expiry(c.UserContext(), GetSessionID(c)); !exp.IsZero() {
		out.ExpiresAt = exp.UTC().Format(time.RFC3339)
	}
	return c.JSON(out)
}

func validateCredentials(in dto.LoginRequest) string {
	if in.CI == "" || in.Password == "" {
		return MsgCamposVacios
	}
	for _, r := range in.CI {
		if r < '0' || r > '9' {
			return MsgCarnetNumerico
		}
	}
	return ""
}
