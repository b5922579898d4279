package entity

import "github.com/shopspring/decimal"

func init() {
	// Los backends esperan costo como número JSON, no como cadena.
	decimal.MarshalJSONWithoutQuotes = true
}

// ValorMunicipal tasa o valor municipal (formulario, timbre, etc.).
type ValorMunicipal struct {
	ID          ID              `json:"id,omitempty"`
	Nombre      string          `json:"nombre"`
	Sigla       string          `json:"sigla"`
	Descripcion string          `json:"descripcion,omitempty"`
	Tipo        string          `json:"tipo"`
	Medida      string          `json:"medida"`
	Costo       decimal.Decimal `json:"costo"`
	Timbre      Flag            `json:"timbre"`
	Estado      Flag            `json:"estado"`
}

var _ Recurso = ValorMunicipal{}

func (v ValorMunicipal) Clave() ID    { return v.ID }
func (v ValorMunicipal) Activo() bool { return v.Estado.On() }

func (v ValorMunicipal) TextoBusqueda() []string {
	return []string{v.Nombre, v.Sigla, v.Descripcion, v.Tipo, v.Medida}
}

func (v ValorMunicipal) NumerosBusqueda() []string {
	return []string{string(v.ID), v.Costo.String()}
}
