// Package pdf genera el reporte PDF de un panel del SISVAM.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: SISVAM 2.0 + título   │  Fecha + usuario           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FILTROS aplicados                                          │
//	│  TABLA: una columna por campo visible del panel             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total / activos / inactivos                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// gridCols columnas de la grilla de maroto.
const gridCols = 12

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera reportes de panel con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GeneratePanelPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePanelPDF(_ context.Context, rep dto.PanelReport) ([]byte, error) {
	if len(rep.Headers) == 0 {
		return nil, fmt.Errorf("pdf: reporte sin columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("SISVAM 2.0 - "+rep.Title, true).
		WithAuthor(nonEmpty(rep.Usuario, "SISVAM"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if rep.Filtros != "" {
		m.AddRows(row.New(7).Add(col.New(gridCols).Add(
			text.New("Filtros: "+rep.Filtros, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	sizes := columnSizes(len(rep.Headers))
	m.AddRows(tableHeaderRow(rep.Headers, sizes))
	m.AddRows(tableRows(rep.Rows, sizes)...)
	if len(rep.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(gridCols).Add(
			text.New("No hay registros para mostrar", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(gridCols).Add(
		text.New(rep.Resumen, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: sistema + título (izq) y fecha + usuario (der).
func headerRow(rep dto.PanelReport) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("SISVAM 2.0", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(rep.Title, props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.Generado, props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New(nonEmpty(rep.Usuario, "No disponible"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 9,
			}),
		),
	)
}

// tableHeaderRow: cabecera con fondo de color primario.
func tableHeaderRow(headers []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(sizes))
	for i, size := range sizes {
		cols = append(cols, col.New(size).Add(text.New(headers[i], props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por registro, con fondo alterno.
func tableRows(rows [][]string, sizes []int) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for n, cells := range rows {
		cols := make([]core.Col, 0, len(sizes))
		for i, size := range sizes {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			cols = append(cols, col.New(size).Add(text.New(v, props.Text{
				Size: 8, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(7).Add(cols...)
		if n%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, r)
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnSizes reparte las 12 columnas de la grilla; el resto va a la primera.
// Más de 12 campos no caben: se muestran los 12 primeros.
func columnSizes(n int) []int {
	if n > gridCols {
		n = gridCols
	}
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = gridCols / n
	}
	sizes[0] += gridCols % n
	return sizes
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
