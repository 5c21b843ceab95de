package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

// BillingTxRunner ejecuta una función con un repositorio de facturas atado a
// una transacción: o se persiste la factura completa (cabecera + líneas) o nada.
type BillingTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// ── Documento ─────────────────────────────────────────────────────────────────

// CompanyBlock datos de la empresa emisora, ya resueltos por settings.
type CompanyBlock struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Footer  string
}

// CustomerBlock datos de facturación del cliente (snapshot de la factura).
type CustomerBlock struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	State   string
	Postal  string
	Country string
}

// DocumentLine línea renderizable (producto, personalizada, fee, envío o impuesto).
type DocumentLine struct {
	Name        string
	Description string
	Quantity    decimal.Decimal
	Total       decimal.Decimal
}

// InvoiceDocument vista semántica de la factura para los backends de render:
// el mismo contenido produce un PDF o un texto plano según el backend elegido.
type InvoiceDocument struct {
	Number   string
	Status   string
	IssuedAt time.Time
	DueDate  *time.Time

	Company  CompanyBlock
	Customer CustomerBlock

	Lines    []DocumentLine // productos + personalizadas, en orden
	Fees     []DocumentLine
	Shipping *DocumentLine
	Tax      *DocumentLine

	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal

	PayURL string
	Notes  string
	Terms  string
}

// DocumentBackend estrategia de render. El caso de uso recorre la lista en
// orden de prioridad y usa el primero disponible; el backend de texto cierra
// la lista y está siempre disponible.
type DocumentBackend interface {
	Name() string
	Kind() string // entity.DocumentTypePDF | entity.DocumentTypeText
	Ext() string  // extensión de archivo sin punto: "pdf" | "txt"
	Available() bool
	Render(doc *InvoiceDocument) ([]byte, error)
}

// ── Correo ────────────────────────────────────────────────────────────────────

// Attachment adjunto de un email saliente.
type Attachment struct {
	Filename string
	MIME     string
	Data     []byte
}

// OutboundEmail mensaje a enviar (cuerpo HTML con el enlace de pago).
type OutboundEmail struct {
	To         string
	ToName     string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// Mailer transporte de correo registrado. Available() refleja si hay
// configuración SMTP; sin transporte el despacho falla con ErrEmailUnavailable.
type Mailer interface {
	Available() bool
	Send(ctx context.Context, msg OutboundEmail) error
}
