package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// HTMLRenderer produce la representación HTML de la factura (cuerpo del email
// y fuente de los backends PDF).
type HTMLRenderer interface {
	RenderHTML(doc *InvoiceDocument) (string, error)
}

// SendUseCase despacha el email de cobro: enlace de pago y, si la
// configuración lo indica, el documento como adjunto. El envío es síncrono;
// con éxito se estampa last_sent_at.
type SendUseCase struct {
	invoiceRepo repository.InvoiceRepository
	docs        *DocumentUseCase
	settings    *SettingsUseCase
	html        HTMLRenderer
	mailer      Mailer
	log         *logger.Logger
}

// NewSendUseCase construye el caso de uso. mailer puede ser nil cuando no hay
// transporte configurado; Send lo reporta como ErrEmailUnavailable.
func NewSendUseCase(
	invoiceRepo repository.InvoiceRepository,
	docs *DocumentUseCase,
	settings *SettingsUseCase,
	html HTMLRenderer,
	mailer Mailer,
	log *logger.Logger,
) *SendUseCase {
	return &SendUseCase{
		invoiceRepo: invoiceRepo,
		docs:        docs,
		settings:    settings,
		html:        html,
		mailer:      mailer,
		log:         log,
	}
}

// Send envía el email de la factura al cliente.
// ErrInvalidInvoice si no existe o no es manual; ErrEmailUnavailable si no
// hay transporte. Un documento que no se pudo generar no bloquea el envío:
// el email sale sin adjunto y el fallo queda en el log.
func (uc *SendUseCase) Send(ctx context.Context, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return fmt.Errorf("enviar: obtener factura: %w", err)
	}
	if inv == nil || !inv.Manual {
		return domain.ErrInvalidInvoice
	}
	if uc.mailer == nil || !uc.mailer.Available() {
		return domain.ErrEmailUnavailable
	}
	if inv.BillingEmail == "" {
		return fmt.Errorf("%w: la factura no tiene email de cliente", domain.ErrInvalidInput)
	}

	items, err := uc.invoiceRepo.GetItems(invoiceID)
	if err != nil {
		return fmt.Errorf("enviar: obtener líneas: %w", err)
	}
	doc := uc.docs.buildDocument(inv, items)

	body, err := uc.html.RenderHTML(doc)
	if err != nil {
		return fmt.Errorf("enviar: generar cuerpo: %w", err)
	}

	msg := OutboundEmail{
		To:      inv.BillingEmail,
		ToName:  inv.BillingName,
		Subject: fmt.Sprintf("Factura %s de %s", doc.Number, doc.Company.Name),
		HTML:    body,
	}

	if uc.settings.AttachPDF() {
		msg.Attachment = uc.attachment(ctx, inv)
	}

	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("enviar email: %w", err)
	}
	if err := uc.invoiceRepo.StampLastSent(invoiceID); err != nil {
		// el email ya salió; el sello fallido solo se registra
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("no se pudo estampar last_sent_at")
	}

	uc.log.Info().Str("invoice_id", invoiceID).Str("to", inv.BillingEmail).Msg("factura enviada por email")
	return nil
}

// attachment obtiene el documento para adjuntar. Una generación fallida no es
// fatal: se envía sin adjunto.
func (uc *SendUseCase) attachment(ctx context.Context, inv *entity.Invoice) *Attachment {
	rendered, err := uc.docs.Render(ctx, inv.ID, false)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("documento no disponible, se envía sin adjunto")
		return nil
	}
	data, err := os.ReadFile(rendered.DocumentPath)
	if err != nil {
		uc.log.Warn().Err(err).Str("path", rendered.DocumentPath).Msg("no se pudo leer el documento, se envía sin adjunto")
		return nil
	}
	mime := "text/plain"
	if rendered.DocumentType == entity.DocumentTypePDF {
		mime = "application/pdf"
	}
	return &Attachment{
		Filename: filepath.Base(rendered.DocumentPath),
		MIME:     mime,
		Data:     data,
	}
}
