package entity

import "github.com/shopspring/decimal"

// Tipos de línea de una factura manual.
const (
	ItemKindProduct  = "product"  // referencia a un producto del catálogo
	ItemKindCustom   = "custom"   // línea libre escrita por staff
	ItemKindFee      = "fee"      // cargo adicional
	ItemKindShipping = "shipping" // envío (a lo sumo una por factura)
	ItemKindTax      = "tax"      // impuesto (a lo sumo una por factura)
)

// InvoiceItem es una línea de la factura. El precio viene del formulario de
// staff y es autoritativo: nunca se recalcula desde el catálogo.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Kind        string
	ProductID   string // solo para Kind == product
	Name        string
	Description string // solo para líneas personalizadas
	MethodID    string // solo para Kind == shipping (id del método)
	Quantity    decimal.Decimal
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	Position    int // orden de aparición en el documento
}
