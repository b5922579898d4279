package entity

import "strconv"

// Inventario lote de valores en una ubicación física.
type Inventario struct {
	ID               ID     `json:"id,omitempty"`
	Lote             string `json:"lote"`
	StockActual      int    `json:"stock_actual"`
	UbicacionFisica  string `json:"ubicacion_fisica"`
	FechaVencimiento string `json:"fecha_vencimiento,omitempty"`
	StockMinimo      int    `json:"stock_minimo"`
	StockMaximo      int    `json:"stock_maximo"`
	StockInicial     int    `json:"stock_inicial"`
	SucursalID       ID     `json:"sucursal_id,omitempty"`
	ValorMunicipalID ID     `json:"valor_municipal_id,omitempty"`
	Observaciones    string `json:"observaciones,omitempty"`
	Estado           Flag   `json:"estado"`
}

var _ Recurso = Inventario{}

func (i Inventario) Clave() ID    { return i.ID }
func (i Inventario) Activo() bool { return i.Estado.On() }

func (i Inventario) TextoBusqueda() []string {
	return []string{i.Lote, i.UbicacionFisica, i.Observaciones}
}

func (i Inventario) NumerosBusqueda() []string {
	return []string{string(i.ID), strconv.Itoa(i.StockActual)}
}

// BajoMinimo indica stock por debajo del mínimo configurado.
func (i Inventario) BajoMinimo() bool {
	return i.StockMinimo > 0 && i.StockActual < i.StockMinimo
}
