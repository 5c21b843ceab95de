package render

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
)

var _ billing.DocumentBackend = (*GofpdfBackend)(nil)

// GofpdfBackend genera el PDF con gofpdf directo. Layout más simple que el de
// Maroto; entra en juego cuando aquel no está disponible.
type GofpdfBackend struct {
	probeOnce sync.Once
	probeOK   bool
}

func NewGofpdfBackend() *GofpdfBackend { return &GofpdfBackend{} }

func (b *GofpdfBackend) Name() string { return "gofpdf" }
func (b *GofpdfBackend) Kind() string { return entity.DocumentTypePDF }
func (b *GofpdfBackend) Ext() string  { return "pdf" }

// Available sondea con un render de prueba, una sola vez.
func (b *GofpdfBackend) Available() bool {
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

func (b *GofpdfBackend) Render(doc *billing.InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Cabecera
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(120, 8, doc.Company.Name, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "FACTURA "+doc.Number, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(120, 5, statusLabel(doc.Status), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Fecha: "+doc.IssuedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	if doc.DueDate != nil {
		pdf.CellFormat(0, 5, "Vence: "+doc.DueDate.Format("02/01/2006"), "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	// Emisor y cliente
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Emisor", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("%s | %s | %s",
		nonEmpty(doc.Company.Address, "-"),
		nonEmpty(doc.Company.Phone, "-"),
		nonEmpty(doc.Company.Email, "-")), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Cliente: "+doc.Customer.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("%s | %s | %s",
		nonEmpty(doc.Customer.Email, "-"),
		nonEmpty(doc.Customer.Phone, "-"),
		nonEmpty(customerAddress(doc.Customer), "-")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Tabla de líneas
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0, 70, 127)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(20, 6, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(130, 6, "Descripción", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 6, "Total", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8)

	writeLine := func(l billing.DocumentLine) {
		name := l.Name
		if l.Description != "" {
			name += " - " + l.Description
		}
		pdf.CellFormat(20, 6, l.Quantity.StringFixed(0), "1", 0, "C", false, 0, "")
		pdf.CellFormat(130, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, "$"+l.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	for _, l := range doc.Lines {
		writeLine(l)
	}
	for _, f := range doc.Fees {
		writeLine(f)
	}
	if doc.Shipping != nil {
		writeLine(*doc.Shipping)
	}
	if doc.Tax != nil {
		writeLine(*doc.Tax)
	}
	pdf.Ln(4)

	// Totales
	total := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(150, 5, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, value, "", 1, "R", false, 0, "")
	}
	total("Subtotal:", "$"+doc.Subtotal.StringFixed(2), false)
	for _, f := range doc.Fees {
		total(f.Name+":", "$"+f.Total.StringFixed(2), false)
	}
	if doc.Shipping != nil {
		total("Envío:", "$"+doc.Shipping.Total.StringFixed(2), false)
	}
	if doc.Tax != nil {
		total(doc.Tax.Name+":", "$"+doc.Tax.Total.StringFixed(2), false)
	}
	total("TOTAL A PAGAR:", "$"+doc.GrandTotal.StringFixed(2), true)
	pdf.Ln(6)

	// Pie
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	if doc.PayURL != "" {
		pdf.CellFormat(0, 5, "Paga esta factura en línea: "+doc.PayURL, "", 1, "L", false, 0, "")
	}
	if doc.Notes != "" {
		pdf.MultiCell(0, 4, "Notas: "+doc.Notes, "", "L", false)
	}
	if doc.Terms != "" {
		pdf.MultiCell(0, 4, "Términos: "+doc.Terms, "", "L", false)
	}
	if doc.Company.Footer != "" {
		pdf.Ln(2)
		pdf.CellFormat(0, 4, doc.Company.Footer, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: generar pdf (gofpdf): %w", err)
	}
	return buf.Bytes(), nil
}
