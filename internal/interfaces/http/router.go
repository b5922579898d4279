package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/pkg/metrics"
)

// PanelRoutes panel CRUD montable (CatalogHandler de cualquier recurso).
type PanelRoutes interface {
	Slug() string
	Register(r fiber.Router)
	APIList(c *fiber.Ctx) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Provider  *auth.Provider
	Home      *usecase.HomeUseCase
	Validator *usecase.Validator
	Panels    []PanelRoutes
	Limiter   *LoginLimiter
	Metrics   *metrics.Metrics
	Cookie    CookieConfig
}

// Router registra las páginas del panel y la API JSON.
func Router(app *fiber.App, deps RouterDeps) {
	session := SessionMiddleware(deps.Provider, deps.Cookie)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(HomeRoute, fiber.StatusSeeOther)
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.Provider, deps.Metrics, deps.Cookie)
	authGroup := app.Group("/auth", session)
	authGroup.Get("/sign-in", GuestOnly(), authHandler.SignInPage)
	authGroup.Post("/sign-in", deps.Limiter.Middleware(authHandler.RateLimited), authHandler.SignIn)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/logout", authHandler.Logout)

	// Dashboard (protegido)
	dashboard := app.Group("/dashboard", session, RequireAuth(), PasswordPolicy())
	dashboardHandler := NewDashboardHandler(deps.Home)
	dashboard.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(HomeRoute, fiber.StatusSeeOther)
	})
	dashboard.Get("/home", dashboardHandler.Home)

	profileHandler := NewProfileHandler(deps.Provider, deps.Validator, deps.Cookie.TTL)
	dashboard.Get("/profile", profileHandler.Show)
	dashboard.Post("/profile/password", profileHandler.ChangePassword)

	for _, p := range deps.Panels {
		p.Register(dashboard)
	}

	// API JSON (protegido)
	api := app.Group("/api/v1", session, RequireAuth())
	api.Get("/session", authHandler.Session)
	api.Get("/summary", dashboardHandler.Summary)
	for _, p := range deps.Panels {
		api.Get("/"+p.Slug(), p.APIList)
	}
}
