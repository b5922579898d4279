package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sisvam-web/pkg/logger"
	"github.com/jhoicas/sisvam-web/pkg/metrics"
)

// RequestLogger registra cada petición (método, ruta, estado, latencia,
// request id) y alimenta las métricas HTTP.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		done := m.RequestStarted()

		err := c.Next()
		if err != nil {
			// El error handler aún no ha escrito la respuesta.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		route := c.Route().Path
		done(c.Method(), route, status)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		rid, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", rid).
			Msg("petición")
		return nil
	}
}
