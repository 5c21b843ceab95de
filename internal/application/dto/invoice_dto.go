package dto

import "github.com/shopspring/decimal"

// ProductRowInput fila de producto del formulario. La fila cuenta como vacía
// si ProductID está vacío. Total es el precio capturado por staff (autoritativo).
type ProductRowInput struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"` // 0 o ausente -> 1
	Total     decimal.Decimal `json:"total"`
}

// CustomRowInput fila personalizada (texto libre). Vacía si Name está vacío.
type CustomRowInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"` // 0 o ausente -> 1
	Total       decimal.Decimal `json:"total"`
}

// FeeInput cargo adicional. Se incluye solo si Amount viene en el payload.
type FeeInput struct {
	Name   string           `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
}

// ShippingInput bloque de envío. Se incluye solo si Total viene en el payload.
type ShippingInput struct {
	MethodTitle string           `json:"method_title"`
	MethodID    string           `json:"method_id"`
	Total       *decimal.Decimal `json:"total"`
}

// TaxInput bloque de impuesto. Se incluye solo si Total viene en el payload.
type TaxInput struct {
	Name  string           `json:"name"`
	Total *decimal.Decimal `json:"total"`
}

// CreateInvoiceRequest entrada cruda del formulario de factura manual.
// Cliente: CustomerID (existente) o CustomerEmail + datos (invitado).
type CreateInvoiceRequest struct {
	CustomerID      string `json:"customer_id"`
	CustomerEmail   string `json:"customer_email"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	CustomerState   string `json:"customer_state"`
	CustomerPostal  string `json:"customer_postal"`
	CustomerCountry string `json:"customer_country"` // vacío -> "US"

	Items       []ProductRowInput `json:"items"`
	CustomItems []CustomRowInput  `json:"custom_items"`
	Fees        []FeeInput        `json:"fees"`
	Shipping    *ShippingInput    `json:"shipping"`
	Tax         *TaxInput         `json:"tax"`

	Notes   string `json:"notes"`
	Terms   string `json:"terms"`
	DueDate string `json:"due_date"` // YYYY-MM-DD; vacío -> hoy + due_days
}

// InvoiceItemResponse línea de la factura en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	ProductID   string          `json:"product_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MethodID    string          `json:"method_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse factura completa en respuestas.
type InvoiceResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Status   string `json:"status"`
	Revision int    `json:"revision"`

	CustomerID      string `json:"customer_id,omitempty"`
	BillingName     string `json:"billing_name"`
	BillingEmail    string `json:"billing_email"`
	BillingPhone    string `json:"billing_phone,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
	BillingCity     string `json:"billing_city,omitempty"`
	BillingState    string `json:"billing_state,omitempty"`
	BillingPostal   string `json:"billing_postal,omitempty"`
	BillingCountry  string `json:"billing_country,omitempty"`

	Items []InvoiceItemResponse `json:"items"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	FeeTotal      decimal.Decimal `json:"fee_total"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`

	Notes   string `json:"notes,omitempty"`
	Terms   string `json:"terms,omitempty"`
	DueDate string `json:"due_date,omitempty"`

	PayURL       string `json:"pay_url,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	LastSentAt   string `json:"last_sent_at,omitempty"`
	PaidAt       string `json:"paid_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// UpdateStatusRequest cambio de estado de una factura.
type UpdateStatusRequest struct {
	Status string `json:"status"` // paid | cancelled
}

// UpdateInvoiceRequest edición de una factura pendiente. Revision debe ser la
// revisión leída por el cliente; si otra edición ganó, la operación falla.
type UpdateInvoiceRequest struct {
	Revision int `json:"revision"`
	CreateInvoiceRequest
}

// DocumentResponse resultado de generar un documento.
type DocumentResponse struct {
	InvoiceID   string `json:"invoice_id"`
	Type        string `json:"type"` // pdf | text
	DownloadURL string `json:"download_url"`
	GeneratedAt string `json:"generated_at"`
}
