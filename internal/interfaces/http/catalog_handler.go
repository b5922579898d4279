package http

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/domain/repository"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// FormTokenField campo oculto con el token de un solo uso del formulario.
const FormTokenField = "_token"

const formTokenTTL = 2 * time.Hour

// PDFGenerator genera el reporte de un panel.
type PDFGenerator interface {
	GeneratePanelPDF(ctx context.Context, r dto.PanelReport) ([]byte, error)
}

// CatalogHandler páginas CRUD de un recurso: lista con búsqueda, filtro y
// paginación, formularios de alta y edición, confirmación de borrado y PDF.
type CatalogHandler[T entity.Recurso, F any] struct {
	uc     *usecase.CatalogUseCase[T, F]
	p      Presenter[T, F]
	tokens repository.FormTokenRepository
	pdf    PDFGenerator
	delay  time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewCatalogHandler construye el handler; delay es la espera antes de volver
// a la lista tras una operación exitosa.
func NewCatalogHandler[T entity.Recurso, F any](
	uc *usecase.CatalogUseCase[T, F],
	p Presenter[T, F],
	tokens repository.FormTokenRepository,
	pdf PDFGenerator,
	delay time.Duration,
	log *logger.Logger,
) *CatalogHandler[T, F] {
	return &CatalogHandler[T, F]{uc: uc, p: p, tokens: tokens, pdf: pdf, delay: delay, log: log.Component("panel_" + p.Slug), now: time.Now}
}

// Register monta las rutas del panel sobre el grupo /dashboard.
func (h *CatalogHandler[T, F]) Register(g fiber.Router) {
	r := g.Group("/" + h.p.Slug)
	r.Get("/", h.List)
	r.Get("/pdf", h.PDF)
	r.Get("/new", h.NewForm)
	r.Post("/", h.Create)
	r.Get("/:id/edit", h.EditForm)
	r.Post("/:id", h.Update)
	r.Get("/:id/delete", h.ConfirmDelete)
	r.Post("/:id/delete", h.Delete)
}

// Slug segmento de URL del panel.
func (h *CatalogHandler[T, F]) Slug() string { return h.p.Slug }

func (h *CatalogHandler[T, F]) base() string { return "/dashboard/" + h.p.Slug }

type listData[T any] struct {
	Slug        string
	Title       string
	Singular    string
	Placeholder string
	Base        string
	Headers     []string
	Rows        []Row
	View        dto.PanelView[T]
	Pages       []int
	PageSizes   []int
	Filtros     []Option
	QueryString string
}

// load trae la lista y aplica los parámetros de la petición.
func (h *CatalogHandler[T, F]) load(c *fiber.Ctx) (*usecase.Panel[T], string, error) {
	var q dto.PanelQuery
	if err := c.QueryParser(&q); err != nil {
		q = dto.PanelQuery{}
	}
	loaded, err := h.uc.Load(c.UserContext())
	if err != nil {
		return nil, "", err
	}
	panel := usecase.NewPanel(loaded.Items)
	panel.Apply(q)
	return panel, loaded.Error, nil
}

// List GET /dashboard/<panel>
func (h *CatalogHandler[T, F]) List(c *fiber.Ctx) error {
	panel, loadErr, err := h.load(c)
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return err
	}
	v := panel.View()
	v.LoadError = loadErr

	filtros := []Option{
		{Value: string(usecase.FiltroTodos), Label: "Todos"},
		{Value: string(usecase.FiltroActivos), Label: "Activos"},
		{Value: string(usecase.FiltroInactivos), Label: "Inactivos"},
	}
	for i := range filtros {
		filtros[i].Selected = filtros[i].Value == v.Filtro
	}
	qs := url.Values{}
	qs.Set("q", v.Query)
	qs.Set("filtro", v.Filtro)

	return render(c, "catalog/list", h.p.Title, listData[T]{
		Slug:        h.p.Slug,
		Title:       h.p.Title,
		Singular:    h.p.Singular,
		Placeholder: h.p.Placeholder,
		Base:        h.base(),
		Headers:     h.p.Headers(),
		Rows:        h.p.Rows(v.Items),
		View:        v,
		Pages:       pageNumbers(v.TotalPages),
		PageSizes:   usecase.PageSizes,
		Filtros:     filtros,
		QueryString: qs.Encode(),
	})
}

// APIList godoc
// @Summary      Lista paginada de un panel
// @Tags         paneles
// @Produce      json
// @Param        q       query  string  false  "búsqueda"
// @Param        filtro  query  string  false  "all | active | inactive"
// @Param        page    query  int     false  "página"
// @Param        size    query  int     false  "4 | 8 | 12 | 16"
// @Success      200  {object}  dto.PanelView
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/{panel} [get]
func (h *CatalogHandler[T, F]) APIList(c *fiber.Ctx) error {
	panel, loadErr, err := h.load(c)
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	v := panel.View()
	v.LoadError = loadErr
	if loadErr != "" {
		return c.Status(fiber.StatusBadGateway).JSON(v)
	}
	return c.JSON(v)
}

// PDF GET /dashboard/<panel>/pdf. Exporta todos los elementos filtrados, no
// solo la página visible.
func (h *CatalogHandler[T, F]) PDF(c *fiber.Ctx) error {
	panel, loadErr, err := h.load(c)
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return err
	}
	if loadErr != "" {
		return fiber.NewError(fiber.StatusBadGateway, loadErr)
	}
	v := panel.View()
	rows := h.p.Rows(panel.Filtered())
	report := dto.PanelReport{
		Title:    h.p.Title,
		Filtros:  describeFiltros(v),
		Generado: formatTime(h.now()),
		Headers:  h.p.Headers(),
		Resumen:  fmt.Sprintf("Total: %d  |  Activos: %d  |  Inactivos: %d  |  En el reporte: %d", v.Total, v.Activos, v.Inactivos, v.Filtered),
	}
	if u := GetAuthState(c).User; u != nil {
		report.Usuario = u.NombreCompleto()
	}
	for _, r := range rows {
		report.Rows = append(report.Rows, r.Cells)
	}

	pdf, err := h.pdf.GeneratePanelPDF(c.UserContext(), report)
	if err != nil {
		h.log.Error().Err(err).Msg("generar PDF")
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar el PDF")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.pdf"`, h.p.Slug, h.now().Format("20060102-1504")))
	return c.Send(pdf)
}

var filtroTexto = map[string]string{
	string(usecase.FiltroTodos):     "todos",
	string(usecase.FiltroActivos):   "activos",
	string(usecase.FiltroInactivos): "inactivos",
}

func describeFiltros[T any](v dto.PanelView[T]) string {
	out := "Estado: " + filtroTexto[v.Filtro]
	if v.Query != "" {
		out += "  |  Búsqueda: \"" + v.Query + "\""
	}
	return out
}

type formData struct {
	Slug     string
	Title    string
	Singular string
	Base     string
	Mode     string
	Action   string
	Token    string
	Fields   []Field
	Error    string
	Describe string
}

func (h *CatalogHandler[T, F]) formView(mode usecase.ModalMode, id string, form F, errs usecase.FieldErrors, msg string) formData {
	action := h.base()
	switch mode {
	case usecase.ModeEdit:
		action = h.base() + "/" + url.PathEscape(id)
	case usecase.ModeDelete:
		action = h.base() + "/" + url.PathEscape(id) + "/delete"
	}
	return formData{
		Slug:     h.p.Slug,
		Title:    h.p.Title,
		Singular: h.p.Singular,
		Base:     h.base(),
		Mode:     string(mode),
		Action:   action,
		Token:    uuid.NewString(),
		Fields:   h.p.Fields(form, errs),
		Error:    msg,
		Describe: h.p.Describe(form),
	}
}

func titulo(mode usecase.ModalMode, singular string) string {
	switch mode {
	case usecase.ModeEdit:
		return "Editar " + singular
	case usecase.ModeDelete:
		return "Eliminar " + singular
	default:
		return "Nuevo " + singular
	}
}

// showForm carga el formulario del modo y lo pinta.
func (h *CatalogHandler[T, F]) showForm(c *fiber.Ctx, mode usecase.ModalMode) error {
	id := c.Params("id")
	form, err := h.uc.FormFor(c.UserContext(), mode, entity.ID(id))
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "No se encontró el "+h.p.Singular+" "+id)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	tpl := "catalog/form"
	if mode == usecase.ModeDelete {
		tpl = "catalog/delete"
	}
	return render(c, tpl, titulo(mode, h.p.Singular), h.formView(mode, id, form, nil, ""))
}

// NewForm GET /dashboard/<panel>/new
func (h *CatalogHandler[T, F]) NewForm(c *fiber.Ctx) error { return h.showForm(c, usecase.ModeCreate) }

// EditForm GET /dashboard/<panel>/:id/edit
func (h *CatalogHandler[T, F]) EditForm(c *fiber.Ctx) error { return h.showForm(c, usecase.ModeEdit) }

// ConfirmDelete GET /dashboard/<panel>/:id/delete
func (h *CatalogHandler[T, F]) ConfirmDelete(c *fiber.Ctx) error {
	return h.showForm(c, usecase.ModeDelete)
}

// Create POST /dashboard/<panel>
func (h *CatalogHandler[T, F]) Create(c *fiber.Ctx) error { return h.save(c, usecase.ModeCreate) }

// Update POST /dashboard/<panel>/:id
func (h *CatalogHandler[T, F]) Update(c *fiber.Ctx) error { return h.save(c, usecase.ModeEdit) }

// claim consume el token del formulario. Un token repetido o ausente indica
// un reenvío: se vuelve a la lista sin repetir la operación.
func (h *CatalogHandler[T, F]) claim(c *fiber.Ctx) (bool, error) {
	token := c.FormValue(FormTokenField)
	if _, err := uuid.Parse(token); err != nil {
		h.log.Warn().Str("token", token).Msg("formulario sin token válido")
		return false, nil
	}
	first, err := h.tokens.Claim(c.UserContext(), token, formTokenTTL)
	if err != nil {
		return false, fmt.Errorf("token de formulario: %w", err)
	}
	if !first {
		h.log.Info().Msg("envío repetido ignorado")
	}
	return first, nil
}

func (h *CatalogHandler[T, F]) save(c *fiber.Ctx, mode usecase.ModalMode) error {
	id := c.Params("id")
	var form F
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	first, err := h.claim(c)
	if err != nil {
		return err
	}
	if !first {
		return c.Redirect(h.base(), fiber.StatusSeeOther)
	}

	out, err := h.uc.Save(c.UserContext(), mode, entity.ID(id), form)
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return err
	}
	if !out.Errors.Empty() {
		c.Status(fiber.StatusUnprocessableEntity)
		return render(c, "catalog/form", titulo(mode, h.p.Singular), h.formView(mode, id, form, out.Errors, ""))
	}
	return h.finish(c, out, func() error {
		return render(c, "catalog/form", titulo(mode, h.p.Singular), h.formView(mode, id, form, nil, out.Modal.Message()))
	})
}

// Delete POST /dashboard/<panel>/:id/delete
func (h *CatalogHandler[T, F]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	first, err := h.claim(c)
	if err != nil {
		return err
	}
	if !first {
		return c.Redirect(h.base(), fiber.StatusSeeOther)
	}

	out, err := h.uc.Delete(c.UserContext(), entity.ID(id))
	if lost, rerr := sessionLost(c, err); lost {
		return rerr
	}
	if err != nil {
		return err
	}
	return h.finish(c, out, func() error {
		form, _ := h.uc.FormFor(c.UserContext(), usecase.ModeDelete, entity.ID(id))
		return render(c, "catalog/delete", titulo(usecase.ModeDelete, h.p.Singular), h.formView(usecase.ModeDelete, id, form, nil, out.Modal.Message()))
	})
}

type successData struct {
	Title    string
	Message  string
	Resumen  string
	Redirect string
	Seconds  string
	DelayMs  int64
}

// finish pinta la confirmación con el resumen de la lista recargada (y vuelve
// sola a la lista tras el retardo) o, si el servidor rechazó la operación, el
// formulario con el mensaje.
func (h *CatalogHandler[T, F]) finish(c *fiber.Ctx, out usecase.Outcome[T], onError func() error) error {
	m := out.Modal
	if m.State() != usecase.ModalSuccess {
		_ = m.Retry()
		return onError()
	}
	v := usecase.NewPanel(out.Items).View()
	return render(c, "catalog/success", "¡Operación exitosa!", successData{
		Title:    "¡Operación exitosa!",
		Message:  m.Message(),
		Resumen:  fmt.Sprintf("%s: %d registros · %d activos · %d inactivos", h.p.Title, v.Total, v.Activos, v.Inactivos),
		Redirect: h.base(),
		Seconds:  fmt.Sprintf("%.1f", h.delay.Seconds()),
		DelayMs:  h.delay.Milliseconds(),
	})
}
