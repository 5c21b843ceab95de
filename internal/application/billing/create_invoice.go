package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// InvoiceUseCase construye facturas manuales: valida la entrada, arma el
// borrador completo en memoria (cabecera + líneas) y lo persiste en una sola
// transacción, de modo que un fallo a mitad de camino no deja factura a medias.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	settings     *SettingsUseCase
	payBaseURL   string
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	settings *SettingsUseCase,
	payBaseURL string,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		settings:     settings,
		payBaseURL:   payBaseURL,
		log:          log,
	}
}

// Create valida la entrada cruda y construye la factura.
// Errores de validación (ErrMissingCustomer, ErrMissingItems) se devuelven tal
// cual; cualquier fallo de ensamblado o persistencia sube con su causa.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	req, err := ParseInvoiceRequest(in)
	if err != nil {
		return nil, err
	}
	return uc.build(ctx, req)
}

// Clone lee una factura manual existente y vuelve a pasar su contenido
// (cliente, líneas, fees, envío, impuesto, notas y términos) por el mismo
// constructor. ErrInvalidInvoice si la factura origen no existe o no es manual.
func (uc *InvoiceUseCase) Clone(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	src, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("clonar: obtener factura: %w", err)
	}
	if src == nil || !src.Manual {
		return nil, domain.ErrInvalidInvoice
	}
	items, err := uc.invoiceRepo.GetItems(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("clonar: obtener líneas: %w", err)
	}

	req := requestFromInvoice(src, items)
	return uc.build(ctx, req)
}

// requestFromInvoice reconstruye la solicitud a partir de una factura
// persistida. El plazo de pago no se copia: la copia recibe uno nuevo.
func requestFromInvoice(src *entity.Invoice, items []*entity.InvoiceItem) *InvoiceRequest {
	req := &InvoiceRequest{
		Notes: src.Notes,
		Terms: src.Terms,
	}
	if src.CustomerID != "" {
		req.Customer = CustomerRef{ExistingID: src.CustomerID}
	} else {
		req.Customer = CustomerRef{
			Email:   src.BillingEmail,
			Name:    src.BillingName,
			Phone:   src.BillingPhone,
			Address: src.BillingAddress,
			City:    src.BillingCity,
			State:   src.BillingState,
			Postal:  src.BillingPostal,
			Country: src.BillingCountry,
		}
	}
	for _, it := range items {
		switch it.Kind {
		case entity.ItemKindProduct:
			req.Lines = append(req.Lines, LineItem{
				Kind:      entity.ItemKindProduct,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Total:     it.Total,
			})
		case entity.ItemKindCustom:
			req.Lines = append(req.Lines, LineItem{
				Kind:        entity.ItemKindCustom,
				Name:        it.Name,
				Description: it.Description,
				Quantity:    it.Quantity,
				Total:       it.Total,
			})
		case entity.ItemKindFee:
			req.Fees = append(req.Fees, Fee{Name: it.Name, Amount: it.Total})
		case entity.ItemKindShipping:
			req.Shipping = &Shipping{MethodTitle: it.Name, MethodID: it.MethodID, Total: it.Total}
		case entity.ItemKindTax:
			req.Tax = &Tax{Name: it.Name, Total: it.Total}
		}
	}
	return req
}

// build ensambla el borrador en memoria y lo persiste atómicamente.
func (uc *InvoiceUseCase) build(ctx context.Context, req *InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, items, err := uc.assemble(req)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.Create(inv, items)
	})
	if err != nil {
		return nil, fmt.Errorf("persistir factura: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.FullNumber()).
		Str("customer", inv.BillingEmail).
		Msg("factura manual creada")

	return uc.toResponse(inv, items), nil
}

// assemble arma cabecera y líneas sin tocar almacenamiento de facturas.
// Las lecturas de cliente/producto son solo de consulta (nombre y snapshot);
// el precio de cada línea es el de la solicitud, nunca el del catálogo.
func (uc *InvoiceUseCase) assemble(req *InvoiceRequest) (*entity.Invoice, []*entity.InvoiceItem, error) {
	now := time.Now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		Prefix:    uc.settings.InvoicePrefix(),
		Number:    fmt.Sprintf("%d", now.UnixNano()/1e6),
		Status:    entity.StatusPending,
		Manual:    true,
		OrderKey:  "fm_" + uuid.New().String(),
		Revision:  1,
		Notes:     req.Notes,
		Terms:     req.Terms,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Cliente: snapshot desde el registro o desde la solicitud (invitado)
	if !req.Customer.IsGuest() {
		customer, err := uc.customerRepo.GetByID(req.Customer.ExistingID)
		if err != nil {
			return nil, nil, fmt.Errorf("obtener cliente: %w", err)
		}
		if customer == nil {
			return nil, nil, domain.ErrNotFound
		}
		inv.CustomerID = customer.ID
		inv.BillingName = customer.Name
		inv.BillingEmail = customer.Email
		inv.BillingPhone = customer.Phone
		inv.BillingAddress = customer.Address
		inv.BillingCity = customer.City
		inv.BillingState = customer.State
		inv.BillingPostal = customer.Postal
		inv.BillingCountry = customer.Country
	} else {
		inv.BillingName = req.Customer.Name
		inv.BillingEmail = req.Customer.Email
		inv.BillingPhone = req.Customer.Phone
		inv.BillingAddress = req.Customer.Address
		inv.BillingCity = req.Customer.City
		inv.BillingState = req.Customer.State
		inv.BillingPostal = req.Customer.Postal
		inv.BillingCountry = req.Customer.Country
	}
	if inv.BillingCountry == "" {
		inv.BillingCountry = "US"
	}
	if inv.BillingName == "" {
		inv.BillingName = inv.BillingEmail
	}

	// Plazo de pago: el solicitado o hoy + due_days
	if req.DueDate != nil {
		due := *req.DueDate
		inv.DueDate = &due
	} else if days := uc.settings.DueDays(); days > 0 {
		due := now.AddDate(0, 0, days)
		inv.DueDate = &due
	}

	var items []*entity.InvoiceItem
	position := 0
	appendItem := func(it *entity.InvoiceItem) {
		it.ID = uuid.New().String()
		it.InvoiceID = inv.ID
		it.Position = position
		position++
		items = append(items, it)
	}

	for _, line := range req.Lines {
		switch line.Kind {
		case entity.ItemKindProduct:
			product, err := uc.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, nil, fmt.Errorf("obtener producto %s: %w", line.ProductID, err)
			}
			if product == nil {
				return nil, nil, domain.ErrNotFound
			}
			appendItem(&entity.InvoiceItem{
				Kind:      entity.ItemKindProduct,
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				Subtotal:  line.Total,
				Total:     line.Total,
			})
		case entity.ItemKindCustom:
			appendItem(&entity.InvoiceItem{
				Kind:        entity.ItemKindCustom,
				Name:        line.Name,
				Description: line.Description,
				Quantity:    line.Quantity,
				Subtotal:    line.Total,
				Total:       line.Total,
			})
		}
		inv.Subtotal = inv.Subtotal.Add(line.Total)
	}

	for _, fee := range req.Fees {
		appendItem(&entity.InvoiceItem{
			Kind:     entity.ItemKindFee,
			Name:     fee.Name,
			Quantity: decimal.NewFromInt(1),
			Subtotal: fee.Amount,
			Total:    fee.Amount,
		})
		inv.FeeTotal = inv.FeeTotal.Add(fee.Amount)
	}
	if req.Shipping != nil {
		appendItem(&entity.InvoiceItem{
			Kind:     entity.ItemKindShipping,
			Name:     req.Shipping.MethodTitle,
			MethodID: req.Shipping.MethodID,
			Quantity: decimal.NewFromInt(1),
			Subtotal: req.Shipping.Total,
			Total:    req.Shipping.Total,
		})
		inv.ShippingTotal = req.Shipping.Total
	}
	if req.Tax != nil {
		appendItem(&entity.InvoiceItem{
			Kind:     entity.ItemKindTax,
			Name:     req.Tax.Name,
			Quantity: decimal.NewFromInt(1),
			Subtotal: req.Tax.Total,
			Total:    req.Tax.Total,
		})
		inv.TaxTotal = req.Tax.Total
	}

	inv.GrandTotal = inv.Subtotal.Add(inv.FeeTotal).Add(inv.ShippingTotal).Add(inv.TaxTotal)
	return inv, items, nil
}

// Get obtiene una factura por ID con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, items), nil
}

// List lista facturas, opcionalmente filtradas por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, uc.toResponse(inv, nil))
	}
	return out, nil
}

// PayURL arma el enlace de pago de una factura (checkout externo).
func (uc *InvoiceUseCase) PayURL(inv *entity.Invoice) string {
	return PayLink(uc.payBaseURL, inv)
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.FullNumber(),
		Status:         inv.Status,
		Revision:       inv.Revision,
		CustomerID:     inv.CustomerID,
		BillingName:    inv.BillingName,
		BillingEmail:   inv.BillingEmail,
		BillingPhone:   inv.BillingPhone,
		BillingAddress: inv.BillingAddress,
		BillingCity:    inv.BillingCity,
		BillingState:   inv.BillingState,
		BillingPostal:  inv.BillingPostal,
		BillingCountry: inv.BillingCountry,
		Subtotal:       inv.Subtotal,
		FeeTotal:       inv.FeeTotal,
		ShippingTotal:  inv.ShippingTotal,
		TaxTotal:       inv.TaxTotal,
		GrandTotal:     inv.GrandTotal,
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		PayURL:         uc.PayURL(inv),
		DocumentType:   inv.DocumentType,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format("2006-01-02")
	}
	if inv.LastSentAt != nil {
		resp.LastSentAt = inv.LastSentAt.Format(time.RFC3339)
	}
	if inv.PaidAt != nil {
		resp.PaidAt = inv.PaidAt.Format(time.RFC3339)
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Kind:        it.Kind,
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			MethodID:    it.MethodID,
			Quantity:    it.Quantity,
			Total:       it.Total,
		})
	}
	return resp
}
