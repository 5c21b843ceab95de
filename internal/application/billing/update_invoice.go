package billing

import (
	"context"

	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// UpdateInvoiceUseCase muta facturas existentes: edición completa mientras
// siguen pendientes, transición de estado y eliminación. Reutiliza el
// ensamblado del constructor para que una edición pase por las mismas reglas
// que un alta.
type UpdateInvoiceUseCase struct {
	builder     *InvoiceUseCase
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	docs        *DocumentUseCase
	log         *logger.Logger
}

// NewUpdateInvoiceUseCase construye el caso de uso.
func NewUpdateInvoiceUseCase(
	builder *InvoiceUseCase,
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	docs *DocumentUseCase,
	log *logger.Logger,
) *UpdateInvoiceUseCase {
	return &UpdateInvoiceUseCase{
		builder:     builder,
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		docs:        docs,
		log:         log,
	}
}

// Update reemplaza todas las líneas y metadatos de una factura pendiente y
// recalcula totales. Contrato documentado: devuelve false ante cualquier
// fallo o violación de permiso (factura pagada, revisión obsoleta, entrada
// inválida); la causa se registra en el log, no se propaga.
func (uc *UpdateInvoiceUseCase) Update(ctx context.Context, invoiceID string, in dto.UpdateInvoiceRequest) bool {
	current, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || current == nil || !current.Manual {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("update rechazado: factura inexistente o no manual")
		return false
	}
	if !current.NeedsPayment() {
		uc.log.Warn().Str("invoice_id", invoiceID).Str("status", current.Status).
			Msg("update rechazado: la factura ya no está pendiente de pago")
		return false
	}

	req, err := ParseInvoiceRequest(in.CreateInvoiceRequest)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("update rechazado: entrada inválida")
		return false
	}

	inv, items, err := uc.builder.assemble(req)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("update rechazado: ensamblado fallido")
		return false
	}

	// La identidad de la factura no cambia en una edición
	inv.ID = current.ID
	inv.Prefix = current.Prefix
	inv.Number = current.Number
	inv.OrderKey = current.OrderKey
	inv.Status = current.Status
	inv.CreatedAt = current.CreatedAt
	for _, it := range items {
		it.InvoiceID = current.ID
	}

	expected := in.Revision
	if expected == 0 {
		expected = current.Revision
	}
	inv.Revision = expected + 1

	var replaced bool
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		ok, replaceErr := invoiceRepo.ReplaceItems(inv, items, expected)
		replaced = ok
		return replaceErr
	})
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("update fallido al persistir")
		return false
	}
	if !replaced {
		uc.log.Warn().Str("invoice_id", invoiceID).Int("expected_revision", expected).
			Msg("update rechazado: otra edición ganó o el estado cambió")
		return false
	}

	uc.log.Info().Str("invoice_id", invoiceID).Int("revision", inv.Revision).Msg("factura actualizada")
	return true
}

// UpdateStatus cambia el estado de una factura pendiente: paid (estampa
// paid_at) o cancelled. Transiciones desde paid/cancelled -> ErrConflict.
func (uc *UpdateInvoiceUseCase) UpdateStatus(ctx context.Context, invoiceID, status string) error {
	if status != entity.StatusPaid && status != entity.StatusCancelled {
		return domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if inv == nil || !inv.Manual {
		return domain.ErrInvalidInvoice
	}
	if !inv.NeedsPayment() {
		return domain.ErrConflict
	}
	if err := uc.invoiceRepo.UpdateStatus(invoiceID, status); err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", invoiceID).Str("status", status).Msg("estado de factura actualizado")
	return nil
}

// Delete elimina una factura que sigue pendiente de pago (las pagadas son
// inmutables frente a borrado). También retira su documento cacheado para que
// un render posterior regenere en vez de servir contenido huérfano.
func (uc *UpdateInvoiceUseCase) Delete(ctx context.Context, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if inv == nil || !inv.Manual {
		return domain.ErrInvalidInvoice
	}
	if !inv.NeedsPayment() {
		return domain.ErrConflict
	}
	uc.docs.Delete(ctx, invoiceID) // mejor esfuerzo: la factura se borra igual
	if err := uc.invoiceRepo.Delete(invoiceID); err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", invoiceID).Msg("factura eliminada")
	return nil
}
