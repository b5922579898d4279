package usecase

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// Mapper conversión entre el formulario de texto y la entidad.
type Mapper[T any, F any] struct {
	New      func() F
	ToForm   func(T) F
	FromForm func(F, *Validator) (T, FieldErrors)
}

// checkbox "1", "on" o "true" -> FlagOn.
func checkbox(s string) entity.Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "on", "true":
		return entity.FlagOn
	}
	return entity.FlagOff
}

func flagText(f entity.Flag) string {
	if f.On() {
		return "1"
	}
	return "0"
}

func intOrZero(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func intText(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// ── Inventario ───────────────────────────────────────────────────────────────

type inventarioInput struct {
	Lote            string `json:"lote" validate:"required"`
	StockActual     *int   `json:"stock_actual" validate:"required,gte=0"`
	UbicacionFisica string `json:"ubicacion_fisica" validate:"required"`
}

// InventarioMapper formulario de inventario. Un alta nueva nace activa.
var InventarioMapper = Mapper[entity.Inventario, dto.InventarioForm]{
	New: func() dto.InventarioForm {
		return dto.InventarioForm{Estado: "1"}
	},
	ToForm: func(i entity.Inventario) dto.InventarioForm {
		return dto.InventarioForm{
			ID:               string(i.ID),
			Lote:             i.Lote,
			StockActual:      strconv.Itoa(i.StockActual),
			UbicacionFisica:  i.UbicacionFisica,
			FechaVencimiento: i.FechaVencimiento,
			StockMinimo:      intText(i.StockMinimo),
			StockMaximo:      intText(i.StockMaximo),
			StockInicial:     intText(i.StockInicial),
			SucursalID:       string(i.SucursalID),
			ValorMunicipalID: string(i.ValorMunicipalID),
			Observaciones:    i.Observaciones,
			Estado:           flagText(i.Estado),
		}
	},
	FromForm: func(f dto.InventarioForm, val *Validator) (entity.Inventario, FieldErrors) {
		in := inventarioInput{
			Lote:            strings.TrimSpace(f.Lote),
			UbicacionFisica: strings.TrimSpace(f.UbicacionFisica),
		}
		if n, err := strconv.Atoi(strings.TrimSpace(f.StockActual)); err == nil {
			in.StockActual = &n
		}
		if errs := val.Struct(in); errs != nil {
			return entity.Inventario{}, errs
		}
		return entity.Inventario{
			ID:               entity.ID(strings.TrimSpace(f.ID)),
			Lote:             in.Lote,
			StockActual:      *in.StockActual,
			UbicacionFisica:  in.UbicacionFisica,
			FechaVencimiento: strings.TrimSpace(f.FechaVencimiento),
			StockMinimo:      intOrZero(f.StockMinimo),
			StockMaximo:      intOrZero(f.StockMaximo),
			StockInicial:     intOrZero(f.StockInicial),
			SucursalID:       entity.ID(strings.TrimSpace(f.SucursalID)),
			ValorMunicipalID: entity.ID(strings.TrimSpace(f.ValorMunicipalID)),
			Observaciones:    strings.TrimSpace(f.Observaciones),
			Estado:           checkbox(f.Estado),
		}, nil
	},
}

// ── Sucursales ───────────────────────────────────────────────────────────────

type sucursalInput struct {
	Nombre string `json:"nombre" validate:"required"`
	Tipo   string `json:"tipo" validate:"required,oneof=DISTRITO CAJA_RECAUDADORA OTRO"`
	Codigo string `json:"codigo" validate:"required"`
}

// SucursalMapper formulario de sucursal. Un alta nueva es DISTRITO y activa.
var SucursalMapper = Mapper[entity.Sucursal, dto.SucursalForm]{
	New: func() dto.SucursalForm {
		return dto.SucursalForm{Tipo: string(entity.TipoDistrito), Estado: "1"}
	},
	ToForm: func(s entity.Sucursal) dto.SucursalForm {
		return dto.SucursalForm{
			ID:          string(s.ID),
			Nombre:      s.Nombre,
			Tipo:        string(s.Tipo),
			Codigo:      s.Codigo,
			Direccion:   s.Direccion,
			Distrito:    s.Distrito,
			Responsable: s.Responsable,
			Telefono:    s.Telefono,
			Estado:      flagText(s.Estado),
		}
	},
	FromForm: func(f dto.SucursalForm, val *Validator) (entity.Sucursal, FieldErrors) {
		in := sucursalInput{
			Nombre: strings.TrimSpace(f.Nombre),
			Tipo:   strings.TrimSpace(f.Tipo),
			Codigo: strings.TrimSpace(f.Codigo),
		}
		if errs := val.Struct(in); errs != nil {
			return entity.Sucursal{}, errs
		}
		return entity.Sucursal{
			ID:          entity.ID(strings.TrimSpace(f.ID)),
			Nombre:      in.Nombre,
			Tipo:        entity.TipoSucursal(in.Tipo),
			Codigo:      in.Codigo,
			Direccion:   strings.TrimSpace(f.Direccion),
			Distrito:    strings.TrimSpace(f.Distrito),
			Responsable: strings.TrimSpace(f.Responsable),
			Telefono:    strings.TrimSpace(f.Telefono),
			Estado:      checkbox(f.Estado),
		}, nil
	},
}

// ── Valores municipales ──────────────────────────────────────────────────────

type valorInput struct {
	Nombre string          `json:"nombre" validate:"required"`
	Sigla  string          `json:"sigla" validate:"required"`
	Costo  decimal.Decimal `json:"costo" validate:"gt=0"`
}

// ValorMapper formulario de valor municipal. Un alta nueva nace activa.
var ValorMapper = Mapper[entity.ValorMunicipal, dto.ValorForm]{
	New: func() dto.ValorForm {
		return dto.ValorForm{Estado: "1", Timbre: "0"}
	},
	ToForm: func(v entity.ValorMunicipal) dto.ValorForm {
		return dto.ValorForm{
			ID:          string(v.ID),
			Nombre:      v.Nombre,
			Sigla:       v.Sigla,
			Descripcion: v.Descripcion,
			Tipo:        v.Tipo,
			Medida:      v.Medida,
			Costo:       v.Costo.String(),
			Timbre:      flagText(v.Timbre),
			Estado:      flagText(v.Estado),
		}
	},
	FromForm: func(f dto.ValorForm, val *Validator) (entity.ValorMunicipal, FieldErrors) {
		in := valorInput{
			Nombre: strings.TrimSpace(f.Nombre),
			Sigla:  strings.TrimSpace(f.Sigla),
		}
		// Acepta coma decimal ("12,50").
		if d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.Costo), ",", ".")); err == nil {
			in.Costo = d
		}
		if errs := val.Struct(in); errs != nil {
			return entity.ValorMunicipal{}, errs
		}
		return entity.ValorMunicipal{
			ID:          entity.ID(strings.TrimSpace(f.ID)),
			Nombre:      in.Nombre,
			Sigla:       in.Sigla,
			Descripcion: strings.TrimSpace(f.Descripcion),
			Tipo:        strings.TrimSpace(f.Tipo),
			Medida:      strings.TrimSpace(f.Medida),
			Costo:       in.Costo,
			Timbre:      checkbox(f.Timbre),
			Estado:      checkbox(f.Estado),
		}, nil
	},
}
