package http

import (
	"strconv"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// Column columna de la tabla de un panel.
type Column[T any] struct {
	Header string
	Cell   func(T) string
}

// Option opción de un select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field campo de formulario tal como lo pinta la plantilla.
type Field struct {
	Name        string
	Label       string
	Type        string // text, number, date, select, checkbox, textarea
	Value       string
	Placeholder string
	Step        string
	Required    bool
	Checked     bool
	Options     []Option
	Error       string
}

// Row fila de la tabla ya formateada.
type Row struct {
	ID     string
	Cells  []string
	Activo bool
	Alerta bool
}

// Presenter describe cómo se muestra un recurso: columnas, campos del
// formulario y textos. Las plantillas son las mismas para los tres paneles.
type Presenter[T entity.Recurso, F any] struct {
	Slug        string // segmento de URL
	Title       string
	Singular    string // "registro de inventario"
	Placeholder string // del buscador
	Columns     []Column[T]
	Fields      func(F, usecase.FieldErrors) []Field
	Describe    func(F) string
	Alerta      func(T) bool
}

// Headers encabezados de la tabla.
func (p Presenter[T, F]) Headers() []string {
	out := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = c.Header
	}
	return out
}

// Rows formatea los elementos.
func (p Presenter[T, F]) Rows(items []T) []Row {
	out := make([]Row, 0, len(items))
	for _, it := range items {
		r := Row{ID: string(it.Clave()), Activo: it.Activo()}
		for _, c := range p.Columns {
			r.Cells = append(r.Cells, c.Cell(it))
		}
		if p.Alerta != nil {
			r.Alerta = p.Alerta(it)
		}
		out = append(out, r)
	}
	return out
}

func estadoTexto(activo bool) string {
	if activo {
		return "Activo"
	}
	return "Inactivo"
}

func textField(name, label, value string, required bool, errs usecase.FieldErrors) Field {
	return Field{Name: name, Label: label, Type: "text", Value: value, Required: required, Error: errs[name]}
}

func numberField(name, label, value string, required bool, errs usecase.FieldErrors) Field {
	return Field{Name: name, Label: label, Type: "number", Value: value, Required: required, Step: "1", Error: errs[name]}
}

func checkboxField(name, label, value string) Field {
	return Field{Name: name, Label: label, Type: "checkbox", Value: "1", Checked: value == "1"}
}

// InventarioPresenter panel de inventario.
var InventarioPresenter = Presenter[entity.Inventario, dto.InventarioForm]{
	Slug:        "inventario",
	Title:       "Inventario",
	Singular:    "registro de inventario",
	Placeholder: "Buscar por lote, ubicación, observaciones, ID o stock",
	Columns: []Column[entity.Inventario]{
		{"ID", func(i entity.Inventario) string { return string(i.ID) }},
		{"Lote", func(i entity.Inventario) string { return i.Lote }},
		{"Stock actual", func(i entity.Inventario) string { return formatInt(i.StockActual) }},
		{"Ubicación física", func(i entity.Inventario) string { return i.UbicacionFisica }},
		{"Vencimiento", func(i entity.Inventario) string { return i.FechaVencimiento }},
		{"Estado", func(i entity.Inventario) string { return estadoTexto(i.Activo()) }},
	},
	Fields: func(f dto.InventarioForm, errs usecase.FieldErrors) []Field {
		return []Field{
			textField("lote", "Lote", f.Lote, true, errs),
			numberField("stock_actual", "Stock actual", f.StockActual, true, errs),
			textField("ubicacion_fisica", "Ubicación física", f.UbicacionFisica, true, errs),
			{Name: "fecha_vencimiento", Label: "Fecha de vencimiento", Type: "date", Value: f.FechaVencimiento},
			numberField("stock_minimo", "Stock mínimo", f.StockMinimo, false, errs),
			numberField("stock_maximo", "Stock máximo", f.StockMaximo, false, errs),
			numberField("stock_inicial", "Stock inicial", f.StockInicial, false, errs),
			numberField("sucursal_id", "ID de sucursal", f.SucursalID, false, errs),
			numberField("valor_municipal_id", "ID de valor municipal", f.ValorMunicipalID, false, errs),
			{Name: "observaciones", Label: "Observaciones", Type: "textarea", Value: f.Observaciones},
			checkboxField("estado", "Activo", f.Estado),
		}
	},
	Describe: func(f dto.InventarioForm) string { return "Lote " + f.Lote },
	Alerta:   func(i entity.Inventario) bool { return i.BajoMinimo() },
}

// SucursalPresenter panel de sucursales.
var SucursalPresenter = Presenter[entity.Sucursal, dto.SucursalForm]{
	Slug:        "sucursales",
	Title:       "Sucursales",
	Singular:    "sucursal",
	Placeholder: "Buscar por nombre, dirección, teléfono, código, responsable o ID",
	Columns: []Column[entity.Sucursal]{
		{"ID", func(s entity.Sucursal) string { return string(s.ID) }},
		{"Nombre", func(s entity.Sucursal) string { return s.Nombre }},
		{"Tipo", func(s entity.Sucursal) string { return s.Tipo.Etiqueta() }},
		{"Código", func(s entity.Sucursal) string { return s.Codigo }},
		{"Responsable", func(s entity.Sucursal) string { return s.Responsable }},
		{"Teléfono", func(s entity.Sucursal) string { return s.Telefono }},
		{"Estado", func(s entity.Sucursal) string { return estadoTexto(s.Activo()) }},
	},
	Fields: func(f dto.SucursalForm, errs usecase.FieldErrors) []Field {
		tipos := make([]Option, 0, len(entity.TiposSucursal))
		for _, t := range entity.TiposSucursal {
			tipos = append(tipos, Option{Value: string(t), Label: t.Etiqueta(), Selected: string(t) == f.Tipo})
		}
		return []Field{
			textField("nombre", "Nombre", f.Nombre, true, errs),
			{Name: "tipo", Label: "Tipo", Type: "select", Value: f.Tipo, Required: true, Options: tipos, Error: errs["tipo"]},
			textField("codigo", "Código", f.Codigo, true, errs),
			textField("direccion", "Dirección", f.Direccion, false, errs),
			textField("distrito", "Distrito", f.Distrito, false, errs),
			textField("responsable", "Responsable", f.Responsable, false, errs),
			textField("telefono", "Teléfono", f.Telefono, false, errs),
			checkboxField("estado", "Activa", f.Estado),
		}
	},
	Describe: func(f dto.SucursalForm) string { return f.Nombre + " (" + f.Codigo + ")" },
}

// ValorPresenter panel de valores municipales.
var ValorPresenter = Presenter[entity.ValorMunicipal, dto.ValorForm]{
	Slug:        "valores",
	Title:       "Valores Municipales",
	Singular:    "valor municipal",
	Placeholder: "Buscar por nombre, sigla, descripción, tipo, medida, ID o costo",
	Columns: []Column[entity.ValorMunicipal]{
		{"ID", func(v entity.ValorMunicipal) string { return string(v.ID) }},
		{"Nombre", func(v entity.ValorMunicipal) string { return v.Nombre }},
		{"Sigla", func(v entity.ValorMunicipal) string { return v.Sigla }},
		{"Tipo", func(v entity.ValorMunicipal) string { return v.Tipo }},
		{"Medida", func(v entity.ValorMunicipal) string { return v.Medida }},
		{"Costo", func(v entity.ValorMunicipal) string { return formatMoney(v.Costo) }},
		{"Timbre", func(v entity.ValorMunicipal) string { return siNo(v.Timbre.On()) }},
		{"Estado", func(v entity.ValorMunicipal) string { return estadoTexto(v.Activo()) }},
	},
	Fields: func(f dto.ValorForm, errs usecase.FieldErrors) []Field {
		return []Field{
			textField("nombre", "Nombre", f.Nombre, true, errs),
			textField("sigla", "Sigla", f.Sigla, true, errs),
			{Name: "descripcion", Label: "Descripción", Type: "textarea", Value: f.Descripcion},
			textField("tipo", "Tipo", f.Tipo, false, errs),
			textField("medida", "Medida", f.Medida, false, errs),
			{Name: "costo", Label: "Costo (Bs)", Type: "number", Step: "0.01", Value: f.Costo, Required: true, Error: errs["costo"]},
			checkboxField("timbre", "Lleva timbre", f.Timbre),
			checkboxField("estado", "Activo", f.Estado),
		}
	},
	Describe: func(f dto.ValorForm) string { return f.Nombre + " (" + f.Sigla + ")" },
}

// pageNumbers 1..total para la paginación.
func pageNumbers(total int) []int {
	out := make([]int, total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
