package http

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// ProfileHandler página "Mi Perfil" y cambio de contraseña.
type ProfileHandler struct {
	provider *auth.Provider
	val      *usecase.Validator
	ttl      time.Duration
}

// NewProfileHandler construye el handler; ttl es la duración de sesión que se muestra.
func NewProfileHandler(p *auth.Provider, val *usecase.Validator, ttl time.Duration) *ProfileHandler {
	return &ProfileHandler{provider: p, val: val, ttl: ttl}
}

type profileCard struct {
	Nombre       string
	Rol          string
	CI           string
	Email        string
	Telefono     string
	Sucursal     string
	UltimoAcceso string
	Iniciales    string
}

type sessionInfo struct {
	Mensaje     string
	Exitoso     bool
	Inicio      string
	Vence       string
	Duracion    string
	Dispositivo string
}

type profileData struct {
	Card                   profileCard
	Session                sessionInfo
	RequiresPasswordChange bool
	PasswordExpired        bool
	Errors                 usecase.FieldErrors
	Aviso                  string
}

// Show GET /dashboard/profile
func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	return render(c, "dashboard/profile", "Mi Perfil", h.data(c, GetAuthState(c)))
}

// MsgCambioNoDisponible aviso tras validar el formulario de contraseña: el
// servicio de autenticación no expone el cambio, así que la sesión y sus
// banderas de política quedan como estaban.
const MsgCambioNoDisponible = "El cambio de contraseña aún no está disponible. Tu contraseña no fue modificada."

// ChangePassword POST /dashboard/profile/password. Valida el formulario; no
// hay endpoint remoto de cambio de contraseña.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.PasswordChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	data := h.data(c, GetAuthState(c))
	if errs := h.val.Struct(in); !errs.Empty() {
		data.Errors = errs
		c.Status(fiber.StatusUnprocessableEntity)
		return render(c, "dashboard/profile", "Mi Perfil", data)
	}
	data.Aviso = MsgCambioNoDisponible
	c.Status(fiber.StatusNotImplemented)
	return render(c, "dashboard/profile", "Mi Perfil", data)
}

func (h *ProfileHandler) data(c *fiber.Ctx, st auth.State) profileData {
	return profileData{
		Card:                   card(st.User),
		Session:                h.session(c, st),
		RequiresPasswordChange: st.RequiresPasswordChange,
		PasswordExpired:        st.PasswordExpired,
	}
}

func card(u *entity.User) profileCard {
	if u == nil {
		return profileCard{}
	}
	return profileCard{
		Nombre:       u.NombreCompleto(),
		Rol:          u.Rol,
		CI:           protectData(u.CI, 3),
		Email:        protectData(u.Email, 3),
		Telefono:     protectData(u.Telefono, 2),
		Sucursal:     orNoDisponible(u.Sucursal),
		UltimoAcceso: formatFecha(u.UltimoAcceso),
		Iniciales:    iniciales(u),
	}
}

// loginInfo campos de la respuesta de login que muestra la pestaña de sesión.
type loginInfo struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

func (h *ProfileHandler) session(c *fiber.Ctx, st auth.State) sessionInfo {
	var li loginInfo
	if len(st.LoginResponse) > 0 {
		_ = json.Unmarshal(st.LoginResponse, &li)
	}
	out := sessionInfo{
		Mensaje:     orNoDisponible(li.Message),
		Exitoso:     li.Success,
		Inicio:      formatFecha(li.Timestamp),
		Vence:       "No disponible",
		Duracion:    duracion(h.ttl),
		Dispositivo: dispositivo(c.Get(fiber.HeaderUserAgent)),
	}
	if exp := h.provider.Expiry(c.UserContext(), GetSessionID(c)); !exp.IsZero() {
		out.Vence = formatTime(exp.Local())
	}
	return out
}

func orNoDisponible(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No disponible"
	}
	return s
}

func iniciales(u *entity.User) string {
	var b strings.Builder
	for _, s := range []string{u.Nombres, u.Apellidos} {
		if r := []rune(strings.TrimSpace(s)); len(r) > 0 {
			b.WriteString(strings.ToUpper(string(r[0])))
		}
	}
	return b.String()
}

func duracion(d time.Duration) string {
	h := int(d.Hours())
	switch {
	case h == 1:
		return "1 hora"
	case h > 1:
		return fmt.Sprintf("%d horas", h)
	default:
		return fmt.Sprintf("%d minutos", int(d.Minutes()))
	}
}

// dispositivo descripción corta del navegador y sistema a partir del User-Agent.
func dispositivo(ua string) string {
	if ua == "" {
		return "Desconocido"
	}
	nav := "Navegador"
	switch {
	case strings.Contains(ua, "Edg/"):
		nav = "Edge"
	case strings.Contains(ua, "Firefox/"):
		nav = "Firefox"
	case strings.Contains(ua, "Chrome/"):
		nav = "Chrome"
	case strings.Contains(ua, "Safari/"):
		nav = "Safari"
	}
	so := ""
	switch {
	case strings.Contains(ua, "Android"):
		so = "Android"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		so = "iOS"
	case strings.Contains(ua, "Windows"):
		so = "Windows"
	case strings.Contains(ua, "Mac OS"):
		so = "macOS"
	case strings.Contains(ua, "Linux"):
		so = "Linux"
	}
	if so == "" {
		return nav
	}
	return nav + " en " + so
}
