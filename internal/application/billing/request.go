package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRef identidad del cliente de la solicitud: o bien un cliente
// registrado (ExistingID) o bien un invitado con datos de facturación en línea.
// Exactamente una de las dos formas está presente tras la validación.
type CustomerRef struct {
	ExistingID string

	// Datos de invitado
	Email   string
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Postal  string
	Country string
}

// IsGuest indica si la solicitud es para un cliente invitado.
func (c CustomerRef) IsGuest() bool { return c.ExistingID == "" }

// LineItem línea validada de producto o personalizada.
type LineItem struct {
	Kind        string // entity.ItemKindProduct | entity.ItemKindCustom
	ProductID   string
	Name        string // solo para líneas personalizadas; el nombre de producto se resuelve al construir
	Description string
	Quantity    decimal.Decimal
	Total       decimal.Decimal
}

// Fee cargo adicional validado.
type Fee struct {
	Name   string
	Amount decimal.Decimal
}

// Shipping bloque de envío validado.
type Shipping struct {
	MethodTitle string
	MethodID    string
	Total       decimal.Decimal
}

// Tax bloque de impuesto validado.
type Tax struct {
	Name  string
	Total decimal.Decimal
}

// InvoiceRequest solicitud de factura ya validada y normalizada, lista para
// el constructor. Invariante: Lines no vacío y Customer resoluble.
type InvoiceRequest struct {
	Customer CustomerRef
	Lines    []LineItem
	Fees     []Fee
	Shipping *Shipping
	Tax      *Tax
	Notes    string
	Terms    string
	DueDate  *time.Time
}
