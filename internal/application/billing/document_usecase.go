package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// DocumentUseCase materializa una factura como documento descargable.
// Mantiene una caché en disco por factura: sin force, un documento ya
// generado se devuelve tal cual. El backend se elige recorriendo la lista en
// orden de prioridad (PDF principal -> PDF secundario -> texto plano); un
// backend que falla al renderizar cede el turno al siguiente.
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	settings    *SettingsUseCase
	backends    []DocumentBackend
	dir         string
	payBaseURL  string
	log         *logger.Logger
}

// NewDocumentUseCase construye el caso de uso. El orden de backends es el
// orden de prioridad; el último debe estar siempre disponible (texto).
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	settings *SettingsUseCase,
	backends []DocumentBackend,
	dir string,
	payBaseURL string,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		settings:    settings,
		backends:    backends,
		dir:         dir,
		payBaseURL:  payBaseURL,
		log:         log,
	}
}

// Render genera (o devuelve de caché) el documento de una factura.
// Con force se regenera aunque exista. Devuelve la factura con los metadatos
// de documento (ruta, tipo, fecha) ya estampados.
//
// Errores: ErrInvalidInvoice si no existe o no es manual;
// ErrDocumentGeneration si todos los backends fallaron o el archivo no se
// pudo escribir — el caller la reporta como fallo, nunca como stack trace.
func (uc *DocumentUseCase) Render(ctx context.Context, invoiceID string, force bool) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener factura: %w", err)
	}
	if inv == nil || !inv.Manual {
		return nil, domain.ErrInvalidInvoice
	}

	// Caché por factura: sin force, un archivo existente se sirve tal cual
	if !force && inv.DocumentPath != "" {
		if _, statErr := os.Stat(inv.DocumentPath); statErr == nil {
			return inv, nil
		}
	}

	items, err := uc.invoiceRepo.GetItems(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener líneas: %w", err)
	}
	doc := uc.buildDocument(inv, items)

	for _, backend := range uc.backends {
		if !backend.Available() {
			uc.log.Debug().Str("backend", backend.Name()).Msg("backend no disponible, probando el siguiente")
			continue
		}
		data, renderErr := backend.Render(doc)
		if renderErr != nil {
			uc.log.Warn().Err(renderErr).Str("backend", backend.Name()).
				Str("invoice_id", inv.ID).Msg("backend falló al renderizar, probando el siguiente")
			continue
		}

		path := filepath.Join(uc.dir, fmt.Sprintf("invoice_%s.%s", inv.ID, backend.Ext()))
		if writeErr := uc.writeFile(path, data); writeErr != nil {
			uc.log.Error().Err(writeErr).Str("path", path).Msg("no se pudo escribir el documento")
			return nil, domain.ErrDocumentGeneration
		}

		now := time.Now()
		inv.DocumentPath = path
		inv.DocumentType = backend.Kind()
		inv.DocumentGeneratedAt = &now
		if metaErr := uc.invoiceRepo.UpdateDocumentMeta(inv); metaErr != nil {
			return nil, fmt.Errorf("documento: guardar metadatos: %w", metaErr)
		}

		uc.log.Info().Str("invoice_id", inv.ID).Str("backend", backend.Name()).
			Str("type", inv.DocumentType).Msg("documento generado")
		return inv, nil
	}

	uc.log.Error().Str("invoice_id", inv.ID).Msg("ningún backend pudo generar el documento")
	return nil, domain.ErrDocumentGeneration
}

// Delete elimina el archivo cacheado y limpia los metadatos de la factura.
// Devuelve false (no error) si no hay nada que borrar o la limpieza falla.
func (uc *DocumentUseCase) Delete(ctx context.Context, invoiceID string) bool {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return false
	}
	if inv.DocumentPath != "" {
		if rmErr := os.Remove(inv.DocumentPath); rmErr != nil && !os.IsNotExist(rmErr) {
			uc.log.Warn().Err(rmErr).Str("path", inv.DocumentPath).Msg("no se pudo borrar el documento")
			return false
		}
	}
	inv.DocumentPath = ""
	inv.DocumentType = ""
	inv.DocumentGeneratedAt = nil
	if err := uc.invoiceRepo.UpdateDocumentMeta(inv); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("no se pudieron limpiar los metadatos del documento")
		return false
	}
	return true
}

func (uc *DocumentUseCase) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// buildDocument arma la vista semántica que consumen los backends: bloques de
// empresa (resueltos por settings) y cliente, líneas, totales y enlace de pago.
func (uc *DocumentUseCase) buildDocument(inv *entity.Invoice, items []*entity.InvoiceItem) *InvoiceDocument {
	doc := &InvoiceDocument{
		Number:     inv.FullNumber(),
		Status:     inv.Status,
		IssuedAt:   inv.CreatedAt,
		DueDate:    inv.DueDate,
		Company:    uc.settings.CompanyBlock(),
		Subtotal:   inv.Subtotal,
		GrandTotal: inv.GrandTotal,
		Notes:      inv.Notes,
		Terms:      inv.Terms,
		PayURL:     PayLink(uc.payBaseURL, inv),
		Customer: CustomerBlock{
			Name:    inv.BillingName,
			Email:   inv.BillingEmail,
			Phone:   inv.BillingPhone,
			Address: inv.BillingAddress,
			City:    inv.BillingCity,
			State:   inv.BillingState,
			Postal:  inv.BillingPostal,
			Country: inv.BillingCountry,
		},
	}
	for _, it := range items {
		line := DocumentLine{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Total:       it.Total,
		}
		switch it.Kind {
		case entity.ItemKindProduct, entity.ItemKindCustom:
			doc.Lines = append(doc.Lines, line)
		case entity.ItemKindFee:
			doc.Fees = append(doc.Fees, line)
		case entity.ItemKindShipping:
			shipping := line
			doc.Shipping = &shipping
		case entity.ItemKindTax:
			tax := line
			doc.Tax = &tax
		}
	}
	return doc
}

// PayLink arma el enlace de pago hacia el checkout externo. Base vacía = sin enlace.
func PayLink(base string, inv *entity.Invoice) string {
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s?key=%s", base, inv.ID, inv.OrderKey)
}
