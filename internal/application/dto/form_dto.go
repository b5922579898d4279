package dto

// Los formularios llegan como texto; la conversión y validación ocurre en
// los casos de uso para poder reportar errores por campo.

// InventarioForm campos del formulario de inventario.
type InventarioForm struct {
	ID               string `form:"id"`
	Lote             string `form:"lote"`
	StockActual      string `form:"stock_actual"`
	UbicacionFisica  string `form:"ubicacion_fisica"`
	FechaVencimiento string `form:"fecha_vencimiento"`
	StockMinimo      string `form:"stock_minimo"`
	StockMaximo      string `form:"stock_maximo"`
	StockInicial     string `form:"stock_inicial"`
	SucursalID       string `form:"sucursal_id"`
	ValorMunicipalID string `form:"valor_municipal_id"`
	Observaciones    string `form:"observaciones"`
	Estado           string `form:"estado"` // checkbox: "1" si está marcado
}

// SucursalForm campos del formulario de sucursal.
type SucursalForm struct {
	ID          string `form:"id"`
	Nombre      string `form:"nombre"`
	Tipo        string `form:"tipo"`
	Codigo      string `form:"codigo"`
	Direccion   string `form:"direccion"`
	Distrito    string `form:"distrito"`
	Responsable string `form:"responsable"`
	Telefono    string `form:"telefono"`
	Estado      string `form:"estado"`
}

// ValorForm campos del formulario de valor municipal.
type ValorForm struct {
	ID          string `form:"id"`
	Nombre      string `form:"nombre"`
	Sigla       string `form:"sigla"`
	Descripcion string `form:"descripcion"`
	Tipo        string `form:"tipo"`
	Medida      string `form:"medida"`
	Costo       string `form:"costo"`
	Timbre      string `form:"timbre"`
	Estado      string `form:"estado"`
}
