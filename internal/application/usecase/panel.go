package usecase

import (
	"strings"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

// Filtro filtro por estado de un panel.
type Filtro string

const (
	FiltroTodos     Filtro = "all"
	FiltroActivos   Filtro = "active"
	FiltroInactivos Filtro = "inactive"
)

// PageSizes tamaños de página ofrecidos.
var PageSizes = []int{4, 8, 12, 16}

// DefaultPageSize tamaño de página inicial.
const DefaultPageSize = 8

// Panel búsqueda, filtro y paginación en memoria sobre la lista completa de
// un recurso. No hace E/S.
type Panel[T entity.Recurso] struct {
	items  []T
	search string
	filtro Filtro
	size   int
	page   int
}

// NewPanel crea un panel en la página 1 con filtro "all" y 8 por página.
func NewPanel[T entity.Recurso](items []T) *Panel[T] {
	return &Panel[T]{items: items, filtro: FiltroTodos, size: DefaultPageSize, page: 1}
}

// SetItems reemplaza la lista (p. ej. tras volver a cargarla).
func (p *Panel[T]) SetItems(items []T) {
	p.items = items
	p.SetPage(p.page)
}

// SetSearch cambia el texto de búsqueda y vuelve a la página 1.
func (p *Panel[T]) SetSearch(q string) {
	p.search = strings.TrimSpace(q)
	p.page = 1
}

// SetFilter cambia el filtro y vuelve a la página 1. Un valor desconocido es "all".
func (p *Panel[T]) SetFilter(f Filtro) {
	switch f {
	case FiltroActivos, FiltroInactivos:
		p.filtro = f
	default:
		p.filtro = FiltroTodos
	}
	p.page = 1
}

// SetPageSize acepta solo 4, 8, 12 o 16; cualquier otro valor usa 8.
func (p *Panel[T]) SetPageSize(n int) {
	p.size = DefaultPageSize
	for _, s := range PageSizes {
		if s == n {
			p.size = n
		}
	}
	p.page = 1
}

// SetPage fija la página dentro de [1, TotalPages].
func (p *Panel[T]) SetPage(n int) {
	total := p.totalPages(len(p.Filtered()))
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	p.page = n
}

// Apply aplica los parámetros de una petición en el orden en que los fijaría
// el usuario: búsqueda, filtro, tamaño y por último página.
func (p *Panel[T]) Apply(q dto.PanelQuery) {
	p.SetSearch(q.Q)
	p.SetFilter(Filtro(q.Filtro))
	if q.Size != 0 {
		p.SetPageSize(q.Size)
	}
	p.SetPage(q.Page)
}

// Filtered elementos que pasan la búsqueda y el filtro, en el orden original.
func (p *Panel[T]) Filtered() []T {
	q := strings.ToLower(p.search)
	out := make([]T, 0, len(p.items))
	for _, it := range p.items {
		if p.filtro == FiltroActivos && !it.Activo() {
			continue
		}
		if p.filtro == FiltroInactivos && it.Activo() {
			continue
		}
		if q != "" && !matches(it, q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(it entity.Recurso, q string) bool {
	for _, s := range it.TextoBusqueda() {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, n := range it.NumerosBusqueda() {
		if n != "" && strings.Contains(n, q) {
			return true
		}
	}
	return false
}

func (p *Panel[T]) totalPages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + p.size - 1) / p.size
}

// View página actual con totales y contadores.
func (p *Panel[T]) View() dto.PanelView[T] {
	filtered := p.Filtered()
	v := dto.PanelView[T]{
		Query:      p.search,
		Filtro:     string(p.filtro),
		Page:       p.page,
		Size:       p.size,
		TotalPages: p.totalPages(len(filtered)),
		Filtered:   len(filtered),
		Total:      len(p.items),
	}
	for _, it := range p.items {
		if it.Activo() {
			v.Activos++
		} else {
			v.Inactivos++
		}
	}
	start := (p.page - 1) * p.size
	end := start + p.size
	if end > len(filtered) {
		end = len(filtered)
	}
	if start < end {
		v.Items = filtered[start:end]
		v.From = start + 1
		v.To = end
	} else {
		v.Items = []T{}
	}
	return v
}
