package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/pkg/config"
	"github.com/tu-usuario/factura-manual/pkg/jwt"
)

// DocumentHandler maneja la generación y descarga del documento de factura
// (PDF o texto según el backend disponible).
type DocumentHandler struct {
	docs   *billing.DocumentUseCase
	jwtCfg config.JWTConfig
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(docs *billing.DocumentUseCase, jwtCfg config.JWTConfig) *DocumentHandler {
	return &DocumentHandler{docs: docs, jwtCfg: jwtCfg}
}

// Generate genera (o reutiliza) el documento de la factura y devuelve un
// enlace de descarga de vida corta.
// POST /api/invoices/:id/document?force=1
func (h *DocumentHandler) Generate(c *fiber.Ctx) error {
	id := c.Params("id")
	force := c.QueryBool("force")
	inv, err := h.docs.Render(c.Context(), id, force)
	if err != nil {
		return errorJSON(c, err)
	}
	resp := dto.DocumentResponse{
		InvoiceID: inv.ID,
		Type:      inv.DocumentType,
	}
	if inv.DocumentGeneratedAt != nil {
		resp.GeneratedAt = inv.DocumentGeneratedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	token, err := jwt.GenerateDownload(h.jwtCfg.Secret, inv.ID, h.jwtCfg.Issuer, h.jwtCfg.DownloadExpires)
	if err == nil {
		resp.DownloadURL = fmt.Sprintf("/api/public/invoices/%s/document?key=%s&token=%s",
			inv.ID, inv.OrderKey, token)
	}
	return c.JSON(resp)
}

// Download descarga el documento. Ruta pública: exige la clave de propiedad
// de la factura y un token de descarga vigente. Si el documento no existe
// todavía se genera en el momento.
// GET /api/public/invoices/:id/document?key=...&token=...
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	key := c.Query("key")
	token := c.Query("token")
	if key == "" || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_CREDENTIALS", Message: "key y token requeridos"})
	}
	tokenInvoiceID, err := jwt.ParseDownload(h.jwtCfg.Secret, token)
	if err != nil || tokenInvoiceID != id {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	inv, err := h.docs.Render(c.Context(), id, false)
	if err != nil {
		return errorJSON(c, err)
	}
	if inv.OrderKey != key {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_KEY", Message: "clave de factura inválida"})
	}

	mime := "text/plain; charset=utf-8"
	ext := "txt"
	if inv.DocumentType == entity.DocumentTypePDF {
		mime = "application/pdf"
		ext = "pdf"
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="factura_%s.%s"`, inv.FullNumber(), ext))
	return c.SendFile(inv.DocumentPath)
}
