package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
)

// SettingsHandler maneja la configuración de facturación (solo admin).
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get devuelve la configuración resuelta (guardado sobre defaults).
// GET /api/settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.ResolveAll())
}

// Update guarda valores de configuración; las claves ausentes no se tocan.
// PUT /api/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Values) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "values requerido"})
	}
	if err := h.uc.Update(in.Values); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(h.uc.ResolveAll())
}
