package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/result"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/pkg/logger"
	"github.com/jhoicas/sisvam-web/pkg/metrics"
)

// Mensajes textos por defecto cuando el servidor rechaza una mutación sin mensaje.
type Mensajes struct {
	Crear      string
	Actualizar string
	Eliminar   string
}

// ResourceConfig parámetros de un servicio de recursos.
type ResourceConfig struct {
	Name     string // inventario, sucursales, valores (etiqueta de logs y métricas)
	BaseURL  string
	Timeout  time.Duration
	Mensajes Mensajes
}

// ResourceClient cliente CRUD de un servicio REST:
// GET/POST {base}, GET/PUT/DELETE {base}/{id}.
type ResourceClient[T any] struct {
	cfg     ResourceConfig
	http    Requester
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewResourceClient construye el cliente. r suele ser el auth.Provider.
func NewResourceClient[T any](cfg ResourceConfig, r Requester, log *logger.Logger, m *metrics.Metrics) *ResourceClient[T] {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ResourceClient[T]{cfg: cfg, http: r, log: log.Component(cfg.Name + "_client"), metrics: m}
}

// NewInventarioClient cliente de {INVENTARIO_API_URL}.
func NewInventarioClient(baseURL string, timeout time.Duration, r Requester, log *logger.Logger, m *metrics.Metrics) *ResourceClient[entity.Inventario] {
	return NewResourceClient[entity.Inventario](ResourceConfig{
		Name:    "inventario",
		BaseURL: baseURL,
		Timeout: timeout,
		Mensajes: Mensajes{
			Crear:      "No se pudo crear el inventario",
			Actualizar: "No se pudo actualizar el inventario",
			Eliminar:   "No se pudo eliminar el inventario",
		},
	}, r, log, m)
}

// NewSucursalClient cliente de {SUCURSAL_API_URL}.
func NewSucursalClient(baseURL string, timeout time.Duration, r Requester, log *logger.Logger, m *metrics.Metrics) *ResourceClient[entity.Sucursal] {
	return NewResourceClient[entity.Sucursal](ResourceConfig{
		Name:    "sucursales",
		BaseURL: baseURL,
		Timeout: timeout,
		Mensajes: Mensajes{
			Crear:      "No se pudo crear la sucursal",
			Actualizar: "No se pudo actualizar la sucursal",
			Eliminar:   "No se pudo eliminar la sucursal",
		},
	}, r, log, m)
}

// NewValorClient cliente de {VALORES_API_URL}.
func NewValorClient(baseURL string, timeout time.Duration, r Requester, log *logger.Logger, m *metrics.Metrics) *ResourceClient[entity.ValorMunicipal] {
	return NewResourceClient[entity.ValorMunicipal](ResourceConfig{
		Name:    "valores",
		BaseURL: baseURL,
		Timeout: timeout,
		Mensajes: Mensajes{
			Crear:      "No se pudo crear el valor municipal",
			Actualizar: "No se pudo actualizar el valor municipal",
			Eliminar:   "No se pudo eliminar el valor municipal",
		},
	}, r, log, m)
}

// Name etiqueta del recurso.
func (c *ResourceClient[T]) Name() string { return c.cfg.Name }

// List GET {base}. Acepta un arreglo o {"data": [...]}. Lista vacía: Empty.
func (c *ResourceClient[T]) List(ctx context.Context) (res result.Result[[]T]) {
	defer c.observe("list", time.Now(), func() result.Kind { return res.Kind() })

	status, raw, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return result.Failed[[]T](err)
	}
	if !ok2xx(status) {
		return result.Failed[[]T](httpError(status, raw, ""))
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return result.Failed[[]T](invalidResponse(status))
	}
	if len(items) == 0 {
		return result.Empty[[]T]()
	}
	return result.Ok(items)
}

// GetByID GET {base}/{id}. 404: Empty.
func (c *ResourceClient[T]) GetByID(ctx context.Context, id entity.ID) (res result.Result[T]) {
	defer c.observe("get", time.Now(), func() result.Kind { return res.Kind() })

	status, raw, err := c.do(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return result.Failed[T](err)
	}
	if status == http.StatusNotFound {
		return result.Empty[T]()
	}
	if !ok2xx(status) {
		return result.Failed[T](httpError(status, raw, ""))
	}
	item, err := decodeItem[T](raw)
	if err != nil {
		return result.Failed[T](invalidResponse(status))
	}
	return result.Ok(item)
}

// Create POST {base}.
func (c *ResourceClient[T]) Create(ctx context.Context, item T) (res result.Result[dto.MutationResponse]) {
	defer c.observe("create", time.Now(), func() result.Kind { return res.Kind() })
	return c.mutate(ctx, http.MethodPost, c.cfg.BaseURL, item, c.cfg.Mensajes.Crear)
}

// Update PUT {base}/{id}.
func (c *ResourceClient[T]) Update(ctx context.Context, id entity.ID, item T) (res result.Result[dto.MutationResponse]) {
	defer c.observe("update", time.Now(), func() result.Kind { return res.Kind() })
	return c.mutate(ctx, http.MethodPut, c.itemURL(id), item, c.cfg.Mensajes.Actualizar)
}

// Delete DELETE {base}/{id}.
func (c *ResourceClient[T]) Delete(ctx context.Context, id entity.ID) (res result.Result[dto.MutationResponse]) {
	defer c.observe("delete", time.Now(), func() result.Kind { return res.Kind() })
	return c.mutate(ctx, http.MethodDelete, c.itemURL(id), nil, c.cfg.Mensajes.Eliminar)
}

// mutate Ok cuando el estado es 2xx y el cuerpo no trae success=false.
func (c *ResourceClient[T]) mutate(ctx context.Context, method, target string, payload any, fallback string) result.Result[dto.MutationResponse] {
	status, raw, err := c.do(ctx, method, target, payload)
	if errors.Is(err, domain.ErrConexion) {
		return result.Failed[dto.MutationResponse](&domain.APIError{Message: fallback, Err: err})
	}
	if err != nil {
		return result.Failed[dto.MutationResponse](err)
	}
	if !ok2xx(status) {
		return result.Failed[dto.MutationResponse](httpError(status, raw, fallback))
	}
	var out dto.MutationResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		// Un 2xx con cuerpo no JSON (o vacío) se acepta.
		_ = json.Unmarshal(raw, &out)
	}
	if out.Rejected() {
		msg := out.Message
		if msg == "" {
			msg = fallback
		}
		return result.Failed[dto.MutationResponse](&domain.APIError{Status: status, Message: msg})
	}
	return result.Ok(out)
}

// do ejecuta la petición con el timeout del recurso y lee el cuerpo completo.
func (c *ResourceClient[T]) do(ctx context.Context, method, target string, payload any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: serializar: %w", c.cfg.Name, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: crear request: %w", c.cfg.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrNoToken) || errors.Is(err, domain.ErrConexion) {
			return 0, nil, err
		}
		if ctx.Err() != nil {
			return 0, nil, fmt.Errorf("%w: %s: %v", domain.ErrConexion, c.cfg.Name, ctx.Err())
		}
		return 0, nil, fmt.Errorf("%w: %s: %v", domain.ErrConexion, c.cfg.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, nil, ctxErr
	}
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: leer respuesta: %v", domain.ErrConexion, c.cfg.Name, err)
	}
	return resp.StatusCode, raw, nil
}

func (c *ResourceClient[T]) itemURL(id entity.ID) string {
	return c.cfg.BaseURL + "/" + url.PathEscape(string(id))
}

func (c *ResourceClient[T]) observe(op string, start time.Time, kind func() result.Kind) {
	k := kind()
	c.metrics.BackendCall(c.cfg.Name, op, k.String(), time.Since(start))
	c.log.Debug().Str("op", op).Str("resultado", k.String()).Dur("duracion", time.Since(start)).Msg("llamada al servicio")
}

func decodeList[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func decodeItem[T any](raw []byte) (T, error) {
	var env struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return *env.Data, nil
	}
	var item T
	err := json.Unmarshal(raw, &item)
	return item, err
}
