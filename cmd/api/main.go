package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/factura-manual/internal/application/auth"
	"github.com/tu-usuario/factura-manual/internal/application/billing"
	inframail "github.com/tu-usuario/factura-manual/internal/infrastructure/mail"
	"github.com/tu-usuario/factura-manual/internal/infrastructure/postgres"
	"github.com/tu-usuario/factura-manual/internal/infrastructure/render"
	httpRouter "github.com/tu-usuario/factura-manual/internal/interfaces/http"
	"github.com/tu-usuario/factura-manual/pkg/config"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	settingsUC := billing.NewSettingsUseCase(settingsRepo, billing.DefaultsFromConfig(cfg))
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, invoiceRepo, customerRepo, productRepo,
		settingsUC, cfg.Checkout.PayBaseURL, log,
	)

	// Backends de documento en orden de prioridad; el de texto cierra la
	// cadena y siempre está disponible.
	backends := []billing.DocumentBackend{
		render.NewMarotoBackend(),
		render.NewGofpdfBackend(),
		render.NewTextBackend(),
	}
	documentUC := billing.NewDocumentUseCase(
		invoiceRepo, settingsUC, backends,
		cfg.Docs.Dir, cfg.Checkout.PayBaseURL, log,
	)

	updateUC := billing.NewUpdateInvoiceUseCase(invoiceUC, txRunner, invoiceRepo, documentUC, log)

	mailer := inframail.NewGomailSender(cfg.SMTP, cfg.Store.AdminEmail)
	sendUC := billing.NewSendUseCase(
		invoiceRepo, documentUC, settingsUC,
		render.NewHTMLRenderer(), mailer, log,
	)

	customerUC := billing.NewCustomerUseCase(customerRepo)
	productUC := billing.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Factura Manual API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:  invoiceUC,
		UpdateUC:   updateUC,
		DocumentUC: documentUC,
		SendUC:     sendUC,
		SettingsUC: settingsUC,
		CustomerUC: customerUC,
		ProductUC:  productUC,
		AuthUC:     authUC,
		JWTConfig:  cfg.JWT,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
