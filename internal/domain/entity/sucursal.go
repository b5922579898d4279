package entity

import "strings"

// TipoSucursal tipo de oficina municipal.
type TipoSucursal string

const (
	TipoDistrito        TipoSucursal = "DISTRITO"
	TipoCajaRecaudadora TipoSucursal = "CAJA_RECAUDADORA"
	TipoOtro            TipoSucursal = "OTRO"
)

// TiposSucursal valores válidos en el orden en que se ofrecen en el formulario.
var TiposSucursal = []TipoSucursal{TipoDistrito, TipoCajaRecaudadora, TipoOtro}

// Etiqueta "CAJA_RECAUDADORA" -> "CAJA RECAUDADORA".
func (t TipoSucursal) Etiqueta() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Sucursal oficina o caja del gobierno municipal.
type Sucursal struct {
	ID          ID           `json:"id,omitempty"`
	Nombre      string       `json:"nombre"`
	Tipo        TipoSucursal `json:"tipo"`
	Codigo      string       `json:"codigo"`
	Direccion   string       `json:"direccion,omitempty"`
	Distrito    string       `json:"distrito,omitempty"`
	Responsable string       `json:"responsable,omitempty"`
	Telefono    string       `json:"telefono,omitempty"`
	Estado      Flag         `json:"estado"`
}

var _ Recurso = Sucursal{}

func (s Sucursal) Clave() ID    { return s.ID }
func (s Sucursal) Activo() bool { return s.Estado.On() }

func (s Sucursal) TextoBusqueda() []string {
	return []string{s.Nombre, s.Direccion, s.Telefono, s.Codigo, s.Responsable}
}

func (s Sucursal) NumerosBusqueda() []string {
	return []string{string(s.ID)}
}
