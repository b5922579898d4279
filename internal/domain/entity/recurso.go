package entity

// Recurso contrato común de los registros que se listan en los paneles.
type Recurso interface {
	Clave() ID
	Activo() bool
	// TextoBusqueda campos de texto comparados sin distinguir mayúsculas.
	TextoBusqueda() []string
	// NumerosBusqueda campos numéricos comparados como subcadena.
	NumerosBusqueda() []string
}
