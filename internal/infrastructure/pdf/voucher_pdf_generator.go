// Package pdf implementa la generación del vale de picking imprimible que
// acompaña el despacho de una orden de salida.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: VALE DE PICKING  │  N° Documento + Bodega          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / DESTINO / OPERARIO / TIEMPOS                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Solic. | Pick. | Ubic. | T   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: líneas / unidades pickeadas / tiempo total        │
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
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jcastano/Bodega-api/internal/application/outbound"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ outbound.VoucherPDFGenerator = (*MarotoVoucherGenerator)(nil)

// MarotoVoucherGenerator implementa outbound.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct{}

// NewMarotoVoucherGenerator construye el generador.
func NewMarotoVoucherGenerator() *MarotoVoucherGenerator { return &MarotoVoucherGenerator{} }

// GenerateVoucherPDF genera el PDF del vale y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucherPDF(_ context.Context, v *outbound.Voucher) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Vale de Picking "+v.DocumentNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(v.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(v))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del vale (izq) y documento + bodega (der).
func headerRow(v *outbound.Voucher) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("VALE DE PICKING", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de preparación de pedido", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(v.DocumentNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Bodega: "+nonEmpty(v.WarehouseID, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// infoRow: cliente, destino, operario y tiempos del picking.
func infoRow(v *outbound.Voucher) core.Row {
	started, completed := "—", "—"
	if v.StartedAt != nil {
		started = v.StartedAt.Format("02/01/2006 15:04")
	}
	if v.CompletedAt != nil {
		completed = v.CompletedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s   |   Destino: %s",
				nonEmpty(v.Client, "—"),
				nonEmpty(v.Destination, "—"),
			), props.Text{Size: 9, Top: 1}),
			text.New("Operario: "+nonEmpty(v.Picker, "—"), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 7,
			}),
			text.New(fmt.Sprintf("Inicio: %s   |   Fin: %s   |   Duración: %s",
				started, completed, nonEmpty(v.Elapsed, "—"),
			), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Solic.", 1, align.Right),
		h("Pick.", 1, align.Right),
		h("Ubicación", 2, align.Center),
		h("Tiempo", 2, align.Right),
	)
}

// tableLineRows: una fila por línea pickeada.
func tableLineRows(lines []outbound.VoucherLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.ProductCode,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				nonEmpty(l.Description, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.RequestedQty.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.PickedQty.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.Location, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.Elapsed,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(v *outbound.Voucher) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(4), // espacio izquierdo
		col.New(4).Add(
			label("Líneas:"),
			label("Unidades pickeadas:"),
			label("Tiempo total:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", v.TotalLines)),
			value(v.TotalPicked.String()),
			value(nonEmpty(v.Elapsed, "—")),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
