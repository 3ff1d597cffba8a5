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

	"github.com/tu-usuario/invoice-pro/internal/application/auth"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	infraemail "github.com/tu-usuario/invoice-pro/internal/infrastructure/email"
	infrapdf "github.com/tu-usuario/invoice-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/invoice-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/invoice-pro/internal/infrastructure/storage"
	httpRouter "github.com/tu-usuario/invoice-pro/internal/interfaces/http"
	"github.com/tu-usuario/invoice-pro/pkg/config"
	"github.com/tu-usuario/invoice-pro/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	counterRepo := postgres.NewCounterRepository(pool)

	objectStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de PDFs")
	}

	mailer, err := infraemail.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente SMTP")
	}

	numberSvc := billing.NewInvoiceNumberService(counterRepo)
	clientUC := billing.NewClientUseCase(clientRepo, invoiceRepo)
	lifecycleUC := billing.NewLifecycleUseCase(invoiceRepo, clientRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, clientRepo, userRepo, pdfGenerator, objectStorage)

	emailUC := billing.NewEmailUseCase(invoiceRepo, clientRepo, userRepo, pdfUC, lifecycleUC, mailer)

	// EmailUC también actúa como sender del envío automático tras la creación.
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, clientRepo, numberSvc, emailUC)

	authUC := auth.NewAuthUseCase(userRepo, clientRepo, auth.JWTConfig{
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
		Title:    "Invoice Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ClientUC:    clientUC,
		InvoiceUC:   invoiceUC,
		LifecycleUC: lifecycleUC,
		EmailUC:     emailUC,
		PDFUC:       pdfUC,
		JWTSecret:   cfg.JWT.Secret,
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
