package dto

// PanelQuery parámetros de búsqueda, filtro y paginación de un panel.
type PanelQuery struct {
	Q      string `query:"q"`
	Filtro string `query:"filtro"`
	Page   int    `query:"page"`
	Size   int    `query:"size"`
}

// PanelView página calculada sobre la lista en memoria.
type PanelView[T any] struct {
	Items      []T    `json:"items"`
	Query      string `json:"q"`
	Filtro     string `json:"filtro"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalPages int    `json:"total_pages"`
	Filtered   int    `json:"filtered"`
	Total      int    `json:"total"`
	Activos    int    `json:"activos"`
	Inactivos  int    `json:"inactivos"`
	From       int    `json:"from"` // "Mostrando From-To de Filtered"
	To         int    `json:"to"`
	LoadError  string `json:"load_error,omitempty"`
}

// Resumen totales de un recurso para la página de inicio.
type Resumen struct {
	Recurso   string `json:"recurso"`
	Total     int    `json:"total"`
	Activos   int    `json:"activos"`
	Inactivos int    `json:"inactivos"`
	Error     string `json:"error,omitempty"`
}

// PanelReport contenido del PDF de un panel: la lista filtrada tal como se ve.
type PanelReport struct {
	Title    string
	Filtros  string
	Usuario  string
	Generado string
	Headers  []string
	Rows     [][]string
	Resumen  string
}
