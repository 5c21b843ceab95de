package render

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
)

var _ billing.HTMLRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer arma el cuerpo HTML del email de factura con etree. Construir
// el árbol en vez de concatenar strings garantiza escape correcto de los
// datos capturados por staff.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

const (
	styleBody    = "font-family: Helvetica, Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;"
	styleHeader  = "background: #00467f; color: #fff; padding: 16px 24px;"
	styleTable   = "width: 100%; border-collapse: collapse; margin: 16px 0;"
	styleTh      = "text-align: left; border-bottom: 2px solid #00467f; padding: 6px 8px; color: #00467f;"
	styleThRight = "text-align: right; border-bottom: 2px solid #00467f; padding: 6px 8px; color: #00467f;"
	styleTd      = "border-bottom: 1px solid #ddd; padding: 6px 8px;"
	styleTdRight = "border-bottom: 1px solid #ddd; padding: 6px 8px; text-align: right;"
	styleTotal   = "text-align: right; padding: 4px 8px;"
	styleButton  = "display: inline-block; background: #00467f; color: #fff; padding: 12px 28px; text-decoration: none; border-radius: 4px; font-weight: bold;"
	styleFooter  = "color: #888; font-size: 12px; text-align: center; padding: 16px 0;"
)

// RenderHTML genera el HTML completo del email (cabecera, tabla de líneas,
// totales, botón de pago y pie).
func (r *HTMLRenderer) RenderHTML(doc *billing.InvoiceDocument) (string, error) {
	htmlDoc := etree.NewDocument()
	html := htmlDoc.CreateElement("html")
	body := html.CreateElement("body")
	wrap := elem(body, "div", styleBody)

	// Cabecera
	header := elem(wrap, "div", styleHeader)
	h1 := header.CreateElement("h1")
	h1.CreateAttr("style", "margin: 0; font-size: 20px;")
	h1.SetText(doc.Company.Name)
	p := header.CreateElement("p")
	p.CreateAttr("style", "margin: 4px 0 0;")
	p.SetText(fmt.Sprintf("Factura %s | %s", doc.Number, doc.IssuedAt.Format("02/01/2006")))

	// Saludo
	greet := wrap.CreateElement("p")
	greet.SetText(fmt.Sprintf("Hola %s,", doc.Customer.Name))
	intro := wrap.CreateElement("p")
	if doc.DueDate != nil {
		intro.SetText(fmt.Sprintf(
			"Te compartimos la factura %s por un total de $%s, con vencimiento el %s.",
			doc.Number, doc.GrandTotal.StringFixed(2), doc.DueDate.Format("02/01/2006")))
	} else {
		intro.SetText(fmt.Sprintf(
			"Te compartimos la factura %s por un total de $%s.",
			doc.Number, doc.GrandTotal.StringFixed(2)))
	}

	// Tabla de líneas
	table := elem(wrap, "table", styleTable)
	thead := table.CreateElement("tr")
	th(thead, "Cant.", styleTh)
	th(thead, "Descripción", styleTh)
	th(thead, "Total", styleThRight)

	writeLine := func(l billing.DocumentLine) {
		tr := table.CreateElement("tr")
		td(tr, l.Quantity.StringFixed(0), styleTd)
		name := l.Name
		if l.Description != "" {
			name += " - " + l.Description
		}
		td(tr, name, styleTd)
		td(tr, "$"+l.Total.StringFixed(2), styleTdRight)
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

	// Totales
	totals := elem(wrap, "div", "text-align: right;")
	totalRow := func(label, value string, bold bool) {
		d := totals.CreateElement("div")
		style := styleTotal
		if bold {
			style += " font-weight: bold; color: #00467f; font-size: 16px;"
		}
		d.CreateAttr("style", style)
		d.SetText(label + " $" + value)
	}
	totalRow("Subtotal:", doc.Subtotal.StringFixed(2), false)
	for _, f := range doc.Fees {
		totalRow(f.Name+":", f.Total.StringFixed(2), false)
	}
	if doc.Shipping != nil {
		totalRow("Envío:", doc.Shipping.Total.StringFixed(2), false)
	}
	if doc.Tax != nil {
		totalRow(doc.Tax.Name+":", doc.Tax.Total.StringFixed(2), false)
	}
	totalRow("Total a pagar:", doc.GrandTotal.StringFixed(2), true)

	// Botón de pago
	if doc.PayURL != "" {
		btnWrap := elem(wrap, "div", "text-align: center; margin: 24px 0;")
		a := btnWrap.CreateElement("a")
		a.CreateAttr("href", doc.PayURL)
		a.CreateAttr("style", styleButton)
		a.SetText("Pagar factura")
	}

	// Notas y términos
	if doc.Notes != "" {
		n := wrap.CreateElement("p")
		n.SetText("Notas: " + doc.Notes)
	}
	if doc.Terms != "" {
		t := wrap.CreateElement("p")
		t.CreateAttr("style", "color: #888; font-size: 12px;")
		t.SetText(doc.Terms)
	}

	// Pie
	if doc.Company.Footer != "" {
		f := elem(wrap, "div", styleFooter)
		f.SetText(doc.Company.Footer)
	}

	htmlDoc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	out, err := htmlDoc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("render: serializar html: %w", err)
	}
	return "<!DOCTYPE html>\n" + out, nil
}

func elem(parent *etree.Element, tag, style string) *etree.Element {
	e := parent.CreateElement(tag)
	e.CreateAttr("style", style)
	return e
}

func th(tr *etree.Element, label, style string) {
	c := tr.CreateElement("th")
	c.CreateAttr("style", style)
	c.SetText(label)
}

func td(tr *etree.Element, value, style string) {
	c := tr.CreateElement("td")
	c.CreateAttr("style", style)
	c.SetText(value)
}
