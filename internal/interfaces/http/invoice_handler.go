package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// InvoiceHandler maneja el ciclo de vida de facturas manuales (protegido).
type InvoiceHandler struct {
	invoices *billing.InvoiceUseCase
	updates  *billing.UpdateInvoiceUseCase
	sender   *billing.SendUseCase
	settings *billing.SettingsUseCase
	log      *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	invoices *billing.InvoiceUseCase,
	updates *billing.UpdateInvoiceUseCase,
	sender *billing.SendUseCase,
	settings *billing.SettingsUseCase,
	log *logger.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		updates:  updates,
		sender:   sender,
		settings: settings,
		log:      log,
	}
}

// Create crea una factura manual. Si auto_send está activo en la
// configuración, despacha el email de pago como mejor esfuerzo: un fallo de
// envío no deshace la factura ya creada.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoices.Create(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	if h.settings.AutoSend() {
		if err := h.sender.Send(c.Context(), invoice.ID); err != nil {
			h.log.Warn().Err(err).Str("invoice_id", invoice.ID).Msg("auto-envío de factura falló")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID obtiene la factura completa (con líneas y enlace de pago).
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoices.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(invoice)
}

// List lista facturas, opcionalmente por estado.
// GET /api/invoices?status=pending&limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.invoices.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(list)
}

// Clone crea una factura nueva a partir de una existente (nuevo número, nueva
// clave de pago, estado pendiente).
// POST /api/invoices/:id/clone
func (h *InvoiceHandler) Clone(c *fiber.Ctx) error {
	invoice, err := h.invoices.Clone(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Update reemplaza líneas y datos de una factura pendiente. La respuesta
// reporta ok=false ante cualquier causa de fallo (no existe, no pendiente,
// validación, edición concurrente); el detalle queda en los logs.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id := c.Params("id")
	if ok := h.updates.Update(c.Context(), id, in); !ok {
		return c.JSON(dto.OkResponse{Ok: false, Message: "la factura no pudo actualizarse"})
	}
	invoice, err := h.invoices.Get(c.Context(), id)
	if err != nil {
		return c.JSON(dto.OkResponse{Ok: true})
	}
	return c.JSON(dto.OkResponse{Ok: true, Data: invoice})
}

// UpdateStatus marca la factura como pagada o anulada.
// PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.updates.UpdateStatus(c.Context(), c.Params("id"), in.Status); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.OkResponse{Ok: true})
}

// Delete elimina una factura pendiente (y su documento en caché).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.updates.Delete(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.OkResponse{Ok: true})
}

// Send despacha (o reenvía) el email con el enlace de pago.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	if err := h.sender.Send(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.OkResponse{Ok: true, Message: "factura enviada"})
}
