package billing_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de facturación. Implementan los
// puertos de repositorio con el mismo contrato que el adaptador de Postgres
// (ReplaceItems exige estado pending y revisión vigente).
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem

	failCreate bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(invoice *entity.Invoice, items []*entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("fallo simulado de persistencia")
	}
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	r.items[invoice.ID] = cloneItems(items)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneItems(r.items[invoiceID]), nil
}

func (r *fakeInvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if status != "" && inv.Status != status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ReplaceItems(invoice *entity.Invoice, items []*entity.InvoiceItem, expectedRevision int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.invoices[invoice.ID]
	if !ok || current.Status != entity.StatusPending || current.Revision != expectedRevision {
		return false, nil
	}
	cp := *invoice
	cp.UpdatedAt = time.Now()
	r.invoices[invoice.ID] = &cp
	r.items[invoice.ID] = cloneItems(items)
	return true, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return errors.New("factura no encontrada")
	}
	inv.Status = status
	if status == entity.StatusPaid {
		now := time.Now()
		inv.PaidAt = &now
	}
	return nil
}

func (r *fakeInvoiceRepo) UpdateDocumentMeta(invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoice.ID]
	if !ok {
		return errors.New("factura no encontrada")
	}
	inv.DocumentPath = invoice.DocumentPath
	inv.DocumentType = invoice.DocumentType
	inv.DocumentGeneratedAt = invoice.DocumentGeneratedAt
	return nil
}

func (r *fakeInvoiceRepo) StampLastSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return errors.New("factura no encontrada")
	}
	now := time.Now()
	inv.LastSentAt = &now
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	delete(r.items, id)
	return nil
}

func cloneItems(items []*entity.InvoiceItem) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}

// ── Clientes y productos ──────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Search(term string, limit int) ([]*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) Search(term string, limit int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

// ── Settings ──────────────────────────────────────────────────────────────────

type fakeSettingsRepo struct {
	values map[string]string
}

func newFakeSettingsRepo(values map[string]string) *fakeSettingsRepo {
	if values == nil {
		values = make(map[string]string)
	}
	return &fakeSettingsRepo{values: values}
}

func (r *fakeSettingsRepo) Load() (map[string]string, error) {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}

func (r *fakeSettingsRepo) Save(values map[string]string) error {
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

// ── Transacciones ─────────────────────────────────────────────────────────────

// fakeTxRunner pasa el repositorio compartido a la función; los fakes ya son
// atómicos por operación.
type fakeTxRunner struct {
	repo repository.InvoiceRepository
}

func (t *fakeTxRunner) RunInvoice(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

// ── Correo ────────────────────────────────────────────────────────────────────

type fakeMailer struct {
	available bool
	sendErr   error
	sent      []billing.OutboundEmail
}

func (m *fakeMailer) Available() bool { return m.available }

func (m *fakeMailer) Send(ctx context.Context, msg billing.OutboundEmail) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeHTMLRenderer struct{}

func (fakeHTMLRenderer) RenderHTML(doc *billing.InvoiceDocument) (string, error) {
	return "<html><body>Factura " + doc.Number + "</body></html>", nil
}

// ── Backends de documento ─────────────────────────────────────────────────────

type fakeBackend struct {
	name      string
	kind      string
	ext       string
	available bool
	renderErr error
	renders   int
}

func (b *fakeBackend) Name() string    { return b.name }
func (b *fakeBackend) Kind() string    { return b.kind }
func (b *fakeBackend) Ext() string     { return b.ext }
func (b *fakeBackend) Available() bool { return b.available }

func (b *fakeBackend) Render(doc *billing.InvoiceDocument) ([]byte, error) {
	b.renders++
	if b.renderErr != nil {
		return nil, b.renderErr
	}
	return []byte("documento " + doc.Number), nil
}
