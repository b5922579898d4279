package http

import (
	"embed"
	"io/fs"
	nethttp "net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

//go:embed views
var viewsFS embed.FS

// NewViewEngine motor de plantillas html/template sobre las vistas embebidas.
func NewViewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic("vistas embebidas: " + err.Error())
	}
	engine := html.NewFileSystem(nethttp.FS(sub), ".html")
	engine.AddFunc("hasPrefix", strings.HasPrefix)
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })
	return engine
}

// View datos comunes a todas las páginas.
type View struct {
	Title  string
	Path   string
	Menu   []Section
	User   *entity.User
	Notice string // aviso de política de contraseña
	Data   any
}

// render pinta una página del panel con el layout principal.
func render(c *fiber.Ctx, name, title string, data any) error {
	st := GetAuthState(c)
	return c.Render(name, View{
		Title:  title,
		Path:   c.Path(),
		Menu:   VisibleRoutes(),
		User:   st.User,
		Notice: passwordNotice(c),
		Data:   data,
	}, "layouts/main")
}

// renderAuth pinta una página pública con el layout de autenticación.
func renderAuth(c *fiber.Ctx, name, title string, data any) error {
	return c.Render(name, View{Title: title, Path: c.Path(), Data: data}, "layouts/auth")
}
