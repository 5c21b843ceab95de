package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
)

// ProductHandler maneja el catálogo de productos (protegido).
type ProductHandler struct {
	uc *billing.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *billing.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create da de alta un producto.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetByID obtiene un producto.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(product)
}

// List lista o busca productos. Con ?q= busca por nombre o SKU.
// GET /api/products?q=cafe&limit=10
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	if term := c.Query("q"); term != "" {
		list, err := h.uc.Search(term, page.Limit)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(list)
}
