package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura manual.
const (
	StatusPending   = "pending"   // creada, pendiente de pago (editable y borrable)
	StatusPaid      = "paid"      // pagada vía el enlace de pago (inmutable)
	StatusCancelled = "cancelled" // anulada por staff
)

// Tipos de documento generado.
const (
	DocumentTypePDF  = "pdf"
	DocumentTypeText = "text"
)

// Invoice representa una factura creada manualmente por staff para un cliente
// que no pasó por el checkout. Los datos de facturación del cliente se guardan
// como snapshot: editar el cliente después no altera facturas ya emitidas.
type Invoice struct {
	ID       string
	Prefix   string
	Number   string // consecutivo legible, único (prefijo + secuencia)
	Status   string
	Manual   bool   // true para facturas creadas por esta aplicación
	OrderKey string // clave de propiedad usada en el enlace de pago y descarga
	Revision int    // contador optimista; Update exige la revisión vigente

	// Cliente: referencia opcional + snapshot de facturación
	CustomerID     string // vacío para clientes invitados
	BillingName    string
	BillingEmail   string
	BillingPhone   string
	BillingAddress string
	BillingCity    string
	BillingState   string
	BillingPostal  string
	BillingCountry string

	// Totales (calculados a partir de las líneas al persistir)
	Subtotal      decimal.Decimal // líneas producto + personalizadas
	FeeTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal

	Notes   string
	Terms   string
	DueDate *time.Time

	// Documento generado (caché en disco, por factura)
	DocumentPath        string
	DocumentType        string // pdf | text
	DocumentGeneratedAt *time.Time

	LastSentAt *time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NeedsPayment indica si la factura sigue pendiente de pago
// (condición para editarla o eliminarla).
func (i *Invoice) NeedsPayment() bool {
	return i.Status == StatusPending
}

// FullNumber devuelve el número completo con prefijo (ej. "INV-1024").
func (i *Invoice) FullNumber() string {
	return i.Prefix + i.Number
}
