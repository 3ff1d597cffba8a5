package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
)

// PortalHandler maneja las rutas de solo lectura del portal del cliente. El
// cliente autenticado solo ve sus propias facturas; el detalle sella la
// primera visita (clientViewedAt).
type PortalHandler struct {
	clientUC  *billing.ClientUseCase
	invoiceUC *billing.InvoiceUseCase
}

// NewPortalHandler construye el handler del portal.
func NewPortalHandler(clientUC *billing.ClientUseCase, invoiceUC *billing.InvoiceUseCase) *PortalHandler {
	return &PortalHandler{clientUC: clientUC, invoiceUC: invoiceUC}
}

// Dashboard devuelve los agregados del portal del cliente.
// GET /api/client/dashboard
func (h *PortalHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.clientUC.Dashboard(c.Context(), GetClientID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dash)
}

// Invoices lista las facturas del cliente, más recientes primero.
// GET /api/client/invoices
func (h *PortalHandler) Invoices(c *fiber.Ctx) error {
	invoices, err := h.invoiceUC.ListForClient(c.Context(), GetClientID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// InvoiceDetail devuelve el detalle de una factura del cliente y registra el
// acceso.
// GET /api/client/invoices/:id
func (h *PortalHandler) InvoiceDetail(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.GetForClient(c.Context(), GetClientID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}
