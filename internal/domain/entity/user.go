package entity

import "strings"

// User usuario autenticado tal como lo devuelve el servicio de autenticación.
type User struct {
	ID                     ID     `json:"id"`
	Nombres                string `json:"nombres"`
	Apellidos              string `json:"apellidos"`
	CI                     string `json:"ci"`
	Email                  string `json:"email"`
	Rol                    string `json:"rol"`
	Sucursal               string `json:"sucursal,omitempty"`
	Telefono               string `json:"telefono,omitempty"`
	UltimoAcceso           string `json:"ultimo_acceso,omitempty"`
	RequiereCambioPassword Flag   `json:"requiere_cambio_password"`
	PasswordVencida        Flag   `json:"password_vencida"`
}

// NombreCompleto nombres y apellidos separados por espacio.
func (u *User) NombreCompleto() string {
	return strings.TrimSpace(u.Nombres + " " + u.Apellidos)
}

// MissingFields lista los campos obligatorios vacíos (id, nombres, apellidos, ci, email, rol).
func (u *User) MissingFields() []string {
	if u == nil {
		return []string{"id", "nombres", "apellidos", "ci", "email", "rol"}
	}
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("id", string(u.ID))
	check("nombres", u.Nombres)
	check("apellidos", u.Apellidos)
	check("ci", u.CI)
	check("email", u.Email)
	check("rol", u.Rol)
	return missing
}
