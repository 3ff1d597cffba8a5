package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/auth"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClientUC    *billing.ClientUseCase
	InvoiceUC   *billing.InvoiceUseCase
	LifecycleUC *billing.LifecycleUseCase
	EmailUC     *billing.EmailUseCase
	PDFUC       *billing.PDFUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/user-register", authHandler.Register)
	authGroup.Post("/user-login", authHandler.LoginUser)
	authGroup.Post("/client-login", authHandler.LoginClient)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Cambio de password del usuario emisor autenticado
	protected.Put("/auth/password", RequireUser(), authHandler.ChangePassword)

	// Clients (usuario emisor)
	clients := protected.Group("/clients", RequireUser())
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Invoices (usuario emisor)
	invoices := protected.Group("/invoices", RequireUser())
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.LifecycleUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Get("/overdue", invoiceHandler.ListOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Put("/:id/status", invoiceHandler.ChangeStatus)
	invoices.Post("/:id/payments", invoiceHandler.AddPayment)

	// Emails (usuario emisor)
	emails := protected.Group("/emails", RequireUser())
	emailHandler := NewEmailHandler(deps.EmailUC)
	emails.Post("/send-invoice/:id", emailHandler.SendInvoice)
	emails.Post("/send-reminder/:id", emailHandler.SendReminder)
	emails.Post("/payment-confirmation/:id", emailHandler.SendPaymentConfirmation)
	emails.Post("/bulk-reminders", emailHandler.SendBulkReminders)
	emails.Get("/logs/:id", emailHandler.Logs)

	// PDF: generación y descarga para el emisor, vista inline para el cliente
	pdfGroup := protected.Group("/pdf")
	pdfHandler := NewPDFHandler(deps.PDFUC)
	pdfGroup.Post("/generate/:id", RequireUser(), pdfHandler.Generate)
	pdfGroup.Get("/download/:id", RequireUser(), pdfHandler.Download)
	pdfGroup.Get("/view/:id", RequireClient(), pdfHandler.View)
	pdfGroup.Delete("/delete/:id", RequireUser(), pdfHandler.Delete)

	// Portal del cliente (solo lectura)
	portal := protected.Group("/client", RequireClient())
	portalHandler := NewPortalHandler(deps.ClientUC, deps.InvoiceUC)
	portal.Get("/dashboard", portalHandler.Dashboard)
	portal.Get("/invoices", portalHandler.Invoices)
	portal.Get("/invoices/:id", portalHandler.InvoiceDetail)
}
