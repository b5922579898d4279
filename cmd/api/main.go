package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/sisvam-web/internal/infrastructure/pdf"
	"github.com/jhoicas/sisvam-web/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/sisvam-web/internal/interfaces/http"
	"github.com/jhoicas/sisvam-web/pkg/config"
	"github.com/jhoicas/sisvam-web/pkg/logger"
	"github.com/jhoicas/sisvam-web/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("session_store", cfg.Session.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	stores, err := store.New(ctx, cfg.Session, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesiones")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacén de sesiones")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Sesión: registro único por id de cookie, vida fija desde el login.
	storage := auth.NewSessionStorage(stores.Sessions, cfg.Session.TTL, log)
	authClient := backend.NewAuthClient(cfg.Backends.AuthURL, cfg.Backends.Timeout, log)
	authSvc := auth.NewService(authClient, storage, cfg.Session.TTL, log,
		auth.WithHTTPClient(&http.Client{Timeout: cfg.Backends.Timeout}))
	provider := auth.NewProvider(authSvc, log)

	// Los clientes de recursos firman cada petición a través del provider.
	val := usecase.NewValidator()
	inventarioUC := usecase.NewInventarioUseCase(
		backend.NewInventarioClient(cfg.Backends.InventarioURL, cfg.Backends.Timeout, provider, log, m), val, log)
	sucursalUC := usecase.NewSucursalUseCase(
		backend.NewSucursalClient(cfg.Backends.SucursalURL, cfg.Backends.Timeout, provider, log, m), val, log)
	valorUC := usecase.NewValorUseCase(
		backend.NewValorClient(cfg.Backends.ValoresURL, cfg.Backends.Timeout, provider, log, m), val, log)
	homeUC := usecase.NewHomeUseCase(inventarioUC, valorUC, sucursalUC)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	delay := cfg.UI.ModalCloseDelay
	panels := []httpRouter.PanelRoutes{
		httpRouter.NewCatalogHandler(inventarioUC, httpRouter.InventarioPresenter, stores.FormTokens, pdfGenerator, delay, log),
		httpRouter.NewCatalogHandler(valorUC, httpRouter.ValorPresenter, stores.FormTokens, pdfGenerator, delay, log),
		httpRouter.NewCatalogHandler(sucursalUC, httpRouter.SucursalPresenter, stores.FormTokens, pdfGenerator, delay, log),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        httpRouter.NewViewEngine(),
		ErrorHandler: httpRouter.ErrorHandler(log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// Detrás de un proxy el límite de login va por la IP real del cliente.
		ProxyHeader:             cfg.HTTP.ProxyHeader,
		EnableTrustedProxyCheck: len(cfg.HTTP.TrustedProxies) > 0,
		TrustedProxies:          cfg.HTTP.TrustedProxies,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "SISVAM 2.0 API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Provider:  provider,
		Home:      homeUC,
		Validator: val,
		Panels:    panels,
		Limiter:   httpRouter.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst),
		Metrics:   m,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
