package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/factura-manual/internal/application/auth"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/pkg/config"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC  *billing.InvoiceUseCase
	UpdateUC   *billing.UpdateInvoiceUseCase
	DocumentUC *billing.DocumentUseCase
	SendUC     *billing.SendUseCase
	SettingsUC *billing.SettingsUseCase
	CustomerUC *billing.CustomerUseCase
	ProductUC  *billing.ProductUseCase
	AuthUC     *auth.AuthUseCase
	JWTConfig  config.JWTConfig
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Descarga de documentos (público: clave de factura + token de vida corta)
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.JWTConfig)
	api.Get("/public/invoices/:id/document", documentHandler.Download)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTConfig.Secret))

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.UpdateUC, deps.SendUC, deps.SettingsUC, deps.Log)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/clone", invoiceHandler.Clone)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/document", documentHandler.Generate)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Settings (solo admin)
	settings := protected.Group("/settings", RequireRole(entity.RoleAdmin))
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", settingsHandler.Update)
}
