package http

// Page página del menú.
type Page struct {
	Name         string
	Path         string // relativo a la sección
	Icon         string // nombre del icono heroicons
	IsDefault    bool
	HideFromMenu bool
}

// Section grupo de páginas bajo un mismo prefijo (/auth, /dashboard).
type Section struct {
	Title  string
	Layout string
	Pages  []Page
}

// Href ruta absoluta de una página de la sección.
func (s Section) Href(p Page) string { return "/" + s.Layout + p.Path }

// Routes tabla de rutas estática del panel.
var Routes = []Section{
	{
		Title:  "auth pages",
		Layout: "auth",
		Pages: []Page{
			{Name: "sign in", Path: "/sign-in", Icon: "server-stack", IsDefault: true, HideFromMenu: true},
		},
	},
	{
		Layout: "dashboard",
		Pages: []Page{
			{Name: "dashboard", Path: "/home", Icon: "home"},
			{Name: "inventario", Path: "/inventario", Icon: "table-cells"},
			{Name: "valores", Path: "/valores", Icon: "rectangle-stack"},
			{Name: "sucursales", Path: "/sucursales", Icon: "building-office"},
			{Name: "Mi Perfil", Path: "/profile", Icon: "user-circle"},
		},
	},
}

// DefaultRoute primera página marcada como predeterminada; /auth/sign-in si no hay.
func DefaultRoute() string {
	for _, s := range Routes {
		for _, p := range s.Pages {
			if p.IsDefault {
				return s.Href(p)
			}
		}
	}
	return "/auth/sign-in"
}

// VisibleRoutes menú sin páginas ocultas ni secciones vacías.
func VisibleRoutes() []Section {
	var out []Section
	for _, s := range Routes {
		visible := Section{Title: s.Title, Layout: s.Layout}
		for _, p := range s.Pages {
			if !p.HideFromMenu {
				visible.Pages = append(visible.Pages, p)
			}
		}
		if len(visible.Pages) > 0 {
			out = append(out, visible)
		}
	}
	return out
}

// HomeRoute destino tras un login exitoso.
const HomeRoute = "/dashboard/home"
