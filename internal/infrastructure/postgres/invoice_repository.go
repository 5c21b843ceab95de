package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, prefix, number, status, is_manual, order_key, revision,
	customer_id, billing_name, billing_email, billing_phone, billing_address,
	billing_city, billing_state, billing_postal, billing_country,
	subtotal, fee_total, shipping_total, tax_total, grand_total,
	notes, terms, due_date,
	document_path, document_type, document_generated_at,
	last_sent_at, paid_at, created_at, updated_at`

// Create persiste cabecera y líneas. Pensado para ejecutarse dentro de una
// transacción (vía TxRunner): o entra todo o no entra nada.
func (r *InvoiceRepo) Create(invoice *entity.Invoice, items []*entity.InvoiceItem) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, prefix, number, status, is_manual, order_key, revision,
			customer_id, billing_name, billing_email, billing_phone, billing_address,
			billing_city, billing_state, billing_postal, billing_country,
			subtotal, fee_total, shipping_total, tax_total, grand_total,
			notes, terms, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Prefix, invoice.Number, invoice.Status, invoice.Manual,
		invoice.OrderKey, invoice.Revision,
		nullIfEmpty(invoice.CustomerID), invoice.BillingName, invoice.BillingEmail,
		nullIfEmpty(invoice.BillingPhone), nullIfEmpty(invoice.BillingAddress),
		nullIfEmpty(invoice.BillingCity), nullIfEmpty(invoice.BillingState),
		nullIfEmpty(invoice.BillingPostal), nullIfEmpty(invoice.BillingCountry),
		invoice.Subtotal, invoice.FeeTotal, invoice.ShippingTotal, invoice.TaxTotal,
		invoice.GrandTotal,
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.Terms), invoice.DueDate,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, item := range items {
		if err := r.insertItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) insertItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, kind, product_id, name, description,
			method_id, quantity, subtotal, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Kind, nullIfEmpty(item.ProductID), item.Name,
		nullIfEmpty(item.Description), nullIfEmpty(item.MethodID),
		item.Quantity, item.Subtotal, item.Total, item.Position,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID (sin líneas).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems obtiene las líneas de una factura en su orden de captura.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, kind, COALESCE(product_id, ''), name,
		       COALESCE(description, ''), COALESCE(method_id, ''),
		       quantity, subtotal, total, position
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Kind, &it.ProductID, &it.Name,
			&it.Description, &it.MethodID, &it.Quantity, &it.Subtotal, &it.Total, &it.Position); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// List lista facturas (más recientes primero), opcionalmente por estado.
func (r *InvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// ReplaceItems sustituye líneas y campos editables de la cabecera con control
// optimista: el UPDATE exige status pending y la revisión esperada. Si no
// afecta filas (edición concurrente o factura cerrada) devuelve (false, nil)
// y no toca las líneas.
func (r *InvoiceRepo) ReplaceItems(invoice *entity.Invoice, items []*entity.InvoiceItem, expectedRevision int) (bool, error) {
	ctx := context.Background()
	query := `
		UPDATE invoices
		SET customer_id = $3, billing_name = $4, billing_email = $5, billing_phone = $6,
		    billing_address = $7, billing_city = $8, billing_state = $9,
		    billing_postal = $10, billing_country = $11,
		    subtotal = $12, fee_total = $13, shipping_total = $14, tax_total = $15,
		    grand_total = $16, notes = $17, terms = $18, due_date = $19,
		    revision = revision + 1, updated_at = now()
		WHERE id = $1 AND status = 'pending' AND revision = $2`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, expectedRevision,
		nullIfEmpty(invoice.CustomerID), invoice.BillingName, invoice.BillingEmail,
		nullIfEmpty(invoice.BillingPhone), nullIfEmpty(invoice.BillingAddress),
		nullIfEmpty(invoice.BillingCity), nullIfEmpty(invoice.BillingState),
		nullIfEmpty(invoice.BillingPostal), nullIfEmpty(invoice.BillingCountry),
		invoice.Subtotal, invoice.FeeTotal, invoice.ShippingTotal, invoice.TaxTotal,
		invoice.GrandTotal,
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.Terms), invoice.DueDate,
	)
	if err != nil {
		return false, fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return false, fmt.Errorf("delete invoice items: %w", err)
	}
	for _, item := range items {
		if err := r.insertItem(item); err != nil {
			return false, err
		}
	}
	return true, nil
}

// UpdateStatus cambia el estado; al pasar a paid estampa paid_at.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	query := `
		UPDATE invoices
		SET status = $2,
		    paid_at = CASE WHEN $2 = 'paid' THEN now() ELSE paid_at END,
		    updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// UpdateDocumentMeta persiste (o limpia) los metadatos del documento generado.
func (r *InvoiceRepo) UpdateDocumentMeta(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET document_path = $2, document_type = $3, document_generated_at = $4,
		    updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, nullIfEmpty(invoice.DocumentPath), nullIfEmpty(invoice.DocumentType),
		invoice.DocumentGeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice document meta: %w", err)
	}
	return nil
}

// StampLastSent estampa la fecha del último envío por email.
func (r *InvoiceRepo) StampLastSent(id string) error {
	query := `UPDATE invoices SET last_sent_at = now(), updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("stamp last sent: %w", err)
	}
	return nil
}

// Delete elimina la factura y sus líneas. El caso de uso ya validó que sigue pendiente.
func (r *InvoiceRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// scanInvoice lee una fila con invoiceColumns.
func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var customerID, phone, address, city, state, postal, country *string
	var notes, terms, docPath, docType *string
	err := row.Scan(
		&inv.ID, &inv.Prefix, &inv.Number, &inv.Status, &inv.Manual, &inv.OrderKey, &inv.Revision,
		&customerID, &inv.BillingName, &inv.BillingEmail, &phone, &address,
		&city, &state, &postal, &country,
		&inv.Subtotal, &inv.FeeTotal, &inv.ShippingTotal, &inv.TaxTotal, &inv.GrandTotal,
		&notes, &terms, &inv.DueDate,
		&docPath, &docType, &inv.DocumentGeneratedAt,
		&inv.LastSentAt, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CustomerID = derefStr(customerID)
	inv.BillingPhone = derefStr(phone)
	inv.BillingAddress = derefStr(address)
	inv.BillingCity = derefStr(city)
	inv.BillingState = derefStr(state)
	inv.BillingPostal = derefStr(postal)
	inv.BillingCountry = derefStr(country)
	inv.Notes = derefStr(notes)
	inv.Terms = derefStr(terms)
	inv.DocumentPath = derefStr(docPath)
	inv.DocumentType = derefStr(docType)
	return &inv, nil
}
