package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
)

// DashboardHandler página de inicio del panel.
type DashboardHandler struct {
	uc *usecase.HomeUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.HomeUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

type resumenCard struct {
	dto.Resumen
	Title string
	Href  string
}

var resumenTitulos = map[string]string{
	"inventario": "Inventario",
	"sucursales": "Sucursales",
	"valores":    "Valores Municipales",
}

// Home GET /dashboard/home. Muestra bienvenida y totales por recurso; un
// recurso caído no impide pintar los demás.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	resumen, err := h.uc.Resumen(c.UserContext())
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return err
	}
	cards := make([]resumenCard, 0, len(resumen))
	for _, r := range resumen {
		cards = append(cards, resumenCard{Resumen: r, Title: resumenTitulos[r.Recurso], Href: "/dashboard/" + r.Recurso})
	}
	return render(c, "dashboard/home", "Inicio", cards)
}

// Summary godoc
// @Summary      Totales por recurso
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   dto.Resumen
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	resumen, err := h.uc.Resumen(c.UserContext())
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKEND", Message: err.Error()})
	}
	return c.JSON(resumen)
}
