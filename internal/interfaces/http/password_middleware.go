package http

import (
	"github.com/gofiber/fiber/v2"
)

// LocalPasswordNotice aviso de política de contraseña para el layout.
const LocalPasswordNotice = "password_notice"

// PasswordPolicy marca las páginas del panel con un aviso cuando la sesión
// exige cambiar la contraseña o la tiene vencida. No bloquea la navegación.
// Debe usarse DESPUÉS de SessionMiddleware.
func PasswordPolicy() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := GetAuthState(c)
		switch {
		case st.PasswordExpired:
			c.Locals(LocalPasswordNotice, "Tu contraseña ha vencido. Actualízala desde Mi Perfil.")
		case st.RequiresPasswordChange:
			c.Locals(LocalPasswordNotice, "Debes cambiar tu contraseña. Hazlo desde Mi Perfil.")
		}
		return c.Next()
	}
}

func passwordNotice(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalPasswordNotice).(string)
	return s
}
