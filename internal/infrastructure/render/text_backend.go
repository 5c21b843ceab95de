package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
)

// Ancho total del documento de texto (columnas).
const textWidth = 72

var _ billing.DocumentBackend = (*TextBackend)(nil)

// TextBackend produce la factura como texto plano de ancho fijo. Cierra la
// cadena de backends: no depende de nada y siempre está disponible.
type TextBackend struct {
	printer *message.Printer
}

func NewTextBackend() *TextBackend {
	return &TextBackend{printer: message.NewPrinter(language.Spanish)}
}

func (b *TextBackend) Name() string    { return "text" }
func (b *TextBackend) Kind() string    { return entity.DocumentTypeText }
func (b *TextBackend) Ext() string     { return "txt" }
func (b *TextBackend) Available() bool { return true }

func (b *TextBackend) Render(doc *billing.InvoiceDocument) ([]byte, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", textWidth)
	thin := strings.Repeat("-", textWidth)

	write := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+"\n", args...)
	}

	// Cabecera
	write("%s", rule)
	write("%s", center(doc.Company.Name))
	write("%s", center("FACTURA "+doc.Number))
	write("%s", rule)
	write("Fecha:  %s", doc.IssuedAt.Format("02/01/2006"))
	if doc.DueDate != nil {
		write("Vence:  %s", doc.DueDate.Format("02/01/2006"))
	}
	write("Estado: %s", statusLabel(doc.Status))
	write("")

	// Emisor
	if doc.Company.Address != "" || doc.Company.Phone != "" || doc.Company.Email != "" {
		write("EMISOR")
		if doc.Company.Address != "" {
			write("  %s", doc.Company.Address)
		}
		if doc.Company.Phone != "" {
			write("  Tel: %s", doc.Company.Phone)
		}
		if doc.Company.Email != "" {
			write("  Email: %s", doc.Company.Email)
		}
		write("")
	}

	// Cliente
	write("CLIENTE")
	write("  %s", doc.Customer.Name)
	if doc.Customer.Email != "" {
		write("  Email: %s", doc.Customer.Email)
	}
	if doc.Customer.Phone != "" {
		write("  Tel: %s", doc.Customer.Phone)
	}
	if addr := customerAddress(doc.Customer); addr != "" {
		write("  %s", addr)
	}
	write("")

	// Tabla de líneas: Cant (6) | Descripción (48) | Total (16)
	write("%s", thin)
	write("%-6s %-48s %16s", "Cant.", "Descripción", "Total")
	write("%s", thin)
	writeLine := func(l billing.DocumentLine) {
		name := l.Name
		if l.Description != "" {
			name += " - " + l.Description
		}
		write("%-6s %-48s %16s", l.Quantity.StringFixed(0), clip(name, 48), b.amount(l.Total))
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
	write("%s", thin)

	// Totales
	total := func(label string, v decimal.Decimal) {
		write("%55s %16s", label, b.amount(v))
	}
	total("Subtotal:", doc.Subtotal)
	for _, f := range doc.Fees {
		total(f.Name+":", f.Total)
	}
	if doc.Shipping != nil {
		total("Envío:", doc.Shipping.Total)
	}
	if doc.Tax != nil {
		total(doc.Tax.Name+":", doc.Tax.Total)
	}
	total("TOTAL A PAGAR:", doc.GrandTotal)
	write("%s", rule)

	// Pie
	if doc.PayURL != "" {
		write("")
		write("Paga esta factura en línea:")
		write("  %s", doc.PayURL)
	}
	if doc.Notes != "" {
		write("")
		write("Notas: %s", doc.Notes)
	}
	if doc.Terms != "" {
		write("")
		write("Términos: %s", doc.Terms)
	}
	if doc.Company.Footer != "" {
		write("")
		write("%s", center(doc.Company.Footer))
	}

	return []byte(sb.String()), nil
}

// amount formatea con separadores de miles según la locale ("1.234,50").
func (b *TextBackend) amount(v decimal.Decimal) string {
	f, _ := v.Float64()
	return "$" + b.printer.Sprintf("%.2f", f)
}

func center(s string) string {
	if len(s) >= textWidth {
		return s
	}
	pad := (textWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
