package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/result"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// Gateway puerto hacia el servicio REST de un recurso.
type Gateway[T any] interface {
	Name() string
	List(ctx context.Context) result.Result[[]T]
	GetByID(ctx context.Context, id entity.ID) result.Result[T]
	Create(ctx context.Context, item T) result.Result[dto.MutationResponse]
	Update(ctx context.Context, id entity.ID, item T) result.Result[dto.MutationResponse]
	Delete(ctx context.Context, id entity.ID) result.Result[dto.MutationResponse]
}

// LoadStatus estado de carga de la lista de un panel.
type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadLoaded  LoadStatus = "loaded"
	LoadError   LoadStatus = "error"
)

// Loaded resultado de cargar la lista.
type Loaded[T any] struct {
	Status LoadStatus
	Items  []T
	Error  string
}

// Textos mensajes de éxito que ve el usuario.
type Textos struct {
	Creado      string
	Actualizado string
	Eliminado   string
}

// Outcome resultado de un envío de formulario.
type Outcome[T any] struct {
	Modal  *Modal
	Errors FieldErrors // validación; no hubo llamada de red
	Items  []T         // lista recargada tras el éxito
}

// CatalogUseCase casos de uso de un panel CRUD: cargar, leer para editar,
// guardar y eliminar. Tras cada mutación exitosa vuelve a pedir la lista.
type CatalogUseCase[T entity.Recurso, F any] struct {
	gw     Gateway[T]
	mapper Mapper[T, F]
	val    *Validator
	textos Textos
	log    *logger.Logger
}

// NewCatalogUseCase construye el caso de uso sobre un gateway.
func NewCatalogUseCase[T entity.Recurso, F any](gw Gateway[T], mapper Mapper[T, F], val *Validator, textos Textos, log *logger.Logger) *CatalogUseCase[T, F] {
	return &CatalogUseCase[T, F]{gw: gw, mapper: mapper, val: val, textos: textos, log: log.Component(gw.Name())}
}

// NewInventarioUseCase panel de inventario.
func NewInventarioUseCase(gw Gateway[entity.Inventario], val *Validator, log *logger.Logger) *CatalogUseCase[entity.Inventario, dto.InventarioForm] {
	return NewCatalogUseCase(gw, InventarioMapper, val, Textos{
		Creado:      "¡Registro de inventario creado exitosamente!",
		Actualizado: "¡Registro de inventario actualizado exitosamente!",
		Eliminado:   "El registro de inventario ha sido eliminado exitosamente.",
	}, log)
}

// NewSucursalUseCase panel de sucursales.
func NewSucursalUseCase(gw Gateway[entity.Sucursal], val *Validator, log *logger.Logger) *CatalogUseCase[entity.Sucursal, dto.SucursalForm] {
	return NewCatalogUseCase(gw, SucursalMapper, val, Textos{
		Creado:      "¡Sucursal creada exitosamente!",
		Actualizado: "¡Sucursal actualizada exitosamente!",
		Eliminado:   "La sucursal ha sido eliminada exitosamente.",
	}, log)
}

// NewValorUseCase panel de valores municipales.
func NewValorUseCase(gw Gateway[entity.ValorMunicipal], val *Validator, log *logger.Logger) *CatalogUseCase[entity.ValorMunicipal, dto.ValorForm] {
	return NewCatalogUseCase(gw, ValorMapper, val, Textos{
		Creado:      "¡Valor municipal creado exitosamente!",
		Actualizado: "¡Valor municipal actualizado exitosamente!",
		Eliminado:   "El valor municipal ha sido eliminado exitosamente.",
	}, log)
}

// Name nombre del recurso.
func (uc *CatalogUseCase[T, F]) Name() string { return uc.gw.Name() }

// Mapper conversión formulario <-> entidad.
func (uc *CatalogUseCase[T, F]) Mapper() Mapper[T, F] { return uc.mapper }

// Load pide la lista completa. Vacío es Loaded sin elementos; un fallo es
// LoadError con el motivo. Solo los errores de sesión se devuelven como error.
func (uc *CatalogUseCase[T, F]) Load(ctx context.Context) (Loaded[T], error) {
	res := uc.gw.List(ctx)
	switch {
	case res.IsOk():
		return Loaded[T]{Status: LoadLoaded, Items: res.Data()}, nil
	case res.IsEmpty():
		return Loaded[T]{Status: LoadLoaded, Items: []T{}}, nil
	case res.SessionLost():
		return Loaded[T]{Status: LoadError}, res.Err()
	default:
		uc.log.Warn().Err(res.Err()).Msg("cargar lista")
		return Loaded[T]{Status: LoadError, Items: []T{}, Error: res.Message()}, nil
	}
}

// Summary totales para la página de inicio.
func (uc *CatalogUseCase[T, F]) Summary(ctx context.Context) (dto.Resumen, error) {
	out := dto.Resumen{Recurso: uc.Name()}
	loaded, err := uc.Load(ctx)
	if err != nil {
		return out, err
	}
	if loaded.Status == LoadError {
		out.Error = loaded.Error
		return out, nil
	}
	out.Total = len(loaded.Items)
	for _, it := range loaded.Items {
		if it.Activo() {
			out.Activos++
		} else {
			out.Inactivos++
		}
	}
	return out, nil
}

// Find lee un registro; domain.ErrNotFound si el servidor no lo tiene.
func (uc *CatalogUseCase[T, F]) Find(ctx context.Context, id entity.ID) (T, error) {
	res := uc.gw.GetByID(ctx, id)
	switch {
	case res.IsOk():
		return res.Data(), nil
	case res.IsEmpty():
		var zero T
		return zero, domain.ErrNotFound
	default:
		var zero T
		return zero, res.Err()
	}
}

// FormFor formulario para el modo: vacío con valores por defecto al crear,
// cargado desde el servidor al editar o eliminar.
func (uc *CatalogUseCase[T, F]) FormFor(ctx context.Context, mode ModalMode, id entity.ID) (F, error) {
	if mode == ModeCreate {
		return uc.mapper.New(), nil
	}
	item, err := uc.Find(ctx, id)
	if err != nil {
		var zero F
		return zero, err
	}
	return uc.mapper.ToForm(item), nil
}

// Save valida y envía un alta (id vacío) o una edición. La validación corre
// antes de cualquier llamada de red.
func (uc *CatalogUseCase[T, F]) Save(ctx context.Context, mode ModalMode, id entity.ID, form F) (Outcome[T], error) {
	modal := NewModal()
	out := Outcome[T]{Modal: modal}
	if err := modal.Open(mode); err != nil {
		return out, err
	}
	if mode != ModeCreate && mode != ModeEdit {
		return out, fmt.Errorf("%w: modo %s", domain.ErrInvalidInput, mode)
	}

	item, errs := uc.mapper.FromForm(form, uc.val)
	if !errs.Empty() {
		out.Errors = errs
		return out, nil
	}

	if err := modal.Submit(); err != nil {
		return out, err
	}
	var res result.Result[dto.MutationResponse]
	msg := uc.textos.Creado
	if mode == ModeCreate {
		res = uc.gw.Create(ctx, item)
	} else {
		res = uc.gw.Update(ctx, id, item)
		msg = uc.textos.Actualizado
	}
	return uc.finish(ctx, out, res, msg)
}

// Delete elimina el registro id (paso de confirmación ya hecho por el usuario).
func (uc *CatalogUseCase[T, F]) Delete(ctx context.Context, id entity.ID) (Outcome[T], error) {
	modal := NewModal()
	out := Outcome[T]{Modal: modal}
	if err := modal.Open(ModeDelete); err != nil {
		return out, err
	}
	if err := modal.Submit(); err != nil {
		return out, err
	}
	return uc.finish(ctx, out, uc.gw.Delete(ctx, id), uc.textos.Eliminado)
}

func (uc *CatalogUseCase[T, F]) finish(ctx context.Context, out Outcome[T], res result.Result[dto.MutationResponse], msg string) (Outcome[T], error) {
	if res.SessionLost() {
		_ = out.Modal.Fail(res.Message())
		return out, res.Err()
	}
	if !res.IsOk() {
		uc.log.Warn().Err(res.Err()).Str("modo", string(out.Modal.Mode())).Msg("operación rechazada")
		_ = out.Modal.Fail(res.Message())
		return out, nil
	}
	if m := res.Data().Message; m != "" && msg == "" {
		msg = m
	}
	_ = out.Modal.Succeed(msg)

	loaded, err := uc.Load(ctx)
	if err != nil {
		return out, err
	}
	out.Items = loaded.Items
	return out, nil
}

// IsSessionError indica si err exige volver a iniciar sesión.
func IsSessionError(err error) bool {
	return errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrNoToken)
}
