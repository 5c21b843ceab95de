package repository

import "github.com/tu-usuario/factura-manual/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas manuales.
// Create y ReplaceItems reciben cabecera y líneas juntas: la implementación
// debe persistirlas en la misma transacción (ninguna factura a medias visible).
type InvoiceRepository interface {
	Create(invoice *entity.Invoice, items []*entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	List(status string, limit, offset int) ([]*entity.Invoice, error)

	// ReplaceItems sustituye todas las líneas y los campos editables de la
	// cabecera. Exige status pending y la revisión vigente (control optimista);
	// devuelve (false, nil) si otra escritura ganó o la factura ya no es editable.
	ReplaceItems(invoice *entity.Invoice, items []*entity.InvoiceItem, expectedRevision int) (bool, error)

	UpdateStatus(id, status string) error
	UpdateDocumentMeta(invoice *entity.Invoice) error
	StampLastSent(id string) error
	Delete(id string) error
}
