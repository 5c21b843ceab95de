// Package render implementa los backends de documento de factura. El caso de
// uso los sondea en orden de prioridad: Maroto (PDF principal), gofpdf (PDF
// alterno) y texto plano (siempre disponible, cierre de la cadena).
//
// Layout de la página A4 (backends PDF):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa            │  N° Factura + Fecha + Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  CLIENTE: Nombre + contacto + dirección                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Total                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Cargos / Envío / Impuesto / TOTAL      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: enlace de pago + notas + términos                  │
//	└─────────────────────────────────────────────────────────────┘
package render

import (
	"fmt"
	"sync"
	"time"

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

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Backend ───────────────────────────────────────────────────────────────────

var _ billing.DocumentBackend = (*MarotoBackend)(nil)

// MarotoBackend genera el PDF de la factura con Maroto v2.
type MarotoBackend struct {
	probeOnce sync.Once
	probeOK   bool
}

// NewMarotoBackend construye el backend.
func NewMarotoBackend() *MarotoBackend { return &MarotoBackend{} }

func (b *MarotoBackend) Name() string { return "maroto" }
func (b *MarotoBackend) Kind() string { return entity.DocumentTypePDF }
func (b *MarotoBackend) Ext() string  { return "pdf" }

// Available sondea la capacidad real: genera un PDF mínimo de prueba una sola
// vez y cachea el resultado. Un entorno sin soporte (fuentes, memoria) queda
// fuera de la cadena sin romper la generación.
func (b *MarotoBackend) Available() bool {
	b.probeOnce.Do(func() {
		probe := &billing.InvoiceDocument{
			Number:   "PROBE-0",
			IssuedAt: time.Now(),
		}
		_, err := b.Render(probe)
		b.probeOK = err == nil
	})
	return b.probeOK
}

// Render genera el PDF y devuelve sus bytes.
func (b *MarotoBackend) Render(doc *billing.InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+doc.Number, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(companyRow(doc.Company))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(doc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalRows(doc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render: generar pdf: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y número + fecha + estado (der).
func headerRow(doc *billing.InvoiceDocument) core.Row {
	fecha := doc.IssuedAt.Format("02/01/2006")

	right := []core.Component{
		text.New("FACTURA", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(doc.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
		text.New("Fecha: "+fecha, props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	}
	if doc.DueDate != nil {
		right = append(right, text.New("Vence: "+doc.DueDate.Format("02/01/2006"), props.Text{
			Size: 8, Align: align.Right, Top: 19, Color: colorGray,
		}))
	}

	return row.New(24).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+statusLabel(doc.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(right...),
	)
}

// companyRow: datos de contacto del emisor.
func companyRow(c billing.CompanyBlock) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(c.Address, "-"),
				nonEmpty(c.Phone, "-"),
				nonEmpty(c.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// customerRow: snapshot de facturación del cliente.
func customerRow(c billing.CustomerBlock) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   %s",
				nonEmpty(c.Email, "-"),
				nonEmpty(c.Phone, "-"),
				nonEmpty(customerAddress(c), "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
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
		h("Cant.", 2, align.Center),
		h("Descripción", 7, align.Left),
		h("Total", 3, align.Right),
	)
}

// tableLineRows: una fila por línea (productos, personalizadas, fees, envío, impuesto).
func tableLineRows(doc *billing.InvoiceDocument) []core.Row {
	lines := make([]billing.DocumentLine, 0, len(doc.Lines)+len(doc.Fees)+2)
	lines = append(lines, doc.Lines...)
	lines = append(lines, doc.Fees...)
	if doc.Shipping != nil {
		lines = append(lines, *doc.Shipping)
	}
	if doc.Tax != nil {
		lines = append(lines, *doc.Tax)
	}

	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := l.Name
		if l.Description != "" {
			name += " - " + l.Description
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(7).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				"$"+l.Total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRows: bloque de totales alineado a la derecha.
func totalRows(doc *billing.InvoiceDocument) []core.Row {
	pair := func(label, value string) core.Row {
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Size: 9, Align: align.Right, Right: 1,
			})),
		)
	}

	rows := []core.Row{pair("Subtotal:", "$"+doc.Subtotal.StringFixed(2))}
	for _, f := range doc.Fees {
		rows = append(rows, pair(f.Name+":", "$"+f.Total.StringFixed(2)))
	}
	if doc.Shipping != nil {
		rows = append(rows, pair("Envío:", "$"+doc.Shipping.Total.StringFixed(2)))
	}
	if doc.Tax != nil {
		rows = append(rows, pair(doc.Tax.Name+":", "$"+doc.Tax.Total.StringFixed(2)))
	}
	rows = append(rows, row.New(8).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+doc.GrandTotal.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	))
	return rows
}

// footerRows: enlace de pago + notas + términos + pie configurado.
func footerRows(doc *billing.InvoiceDocument) []core.Row {
	var rows []core.Row

	if doc.PayURL != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Paga esta factura en línea:", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.PayURL, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	if doc.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(doc.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	if doc.Terms != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Términos:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(doc.Terms, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	if doc.Company.Footer != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(doc.Company.Footer, props.Text{
				Size: 6.5, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func statusLabel(status string) string {
	switch status {
	case entity.StatusPending:
		return "Pendiente de pago"
	case entity.StatusPaid:
		return "Pagada"
	case entity.StatusCancelled:
		return "Anulada"
	}
	return status
}

func customerAddress(c billing.CustomerBlock) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{c.Address, c.City, c.State, c.Postal, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
