package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// InvoiceHandler maneja el CRUD de facturas, el cambio de estado y el registro
// de pagos (rutas de usuario emisor).
type InvoiceHandler struct {
	invoiceUC   *billing.InvoiceUseCase
	lifecycleUC *billing.LifecycleUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, lifecycleUC *billing.LifecycleUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, lifecycleUC: lifecycleUC}
}

// Create crea una factura: asigna número, recalcula montos y, salvo que
// send_email sea false, genera el PDF y lo envía al cliente.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	resp, err := h.invoiceUC.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List lista las facturas del emisor, más recientes primero.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.invoiceUC.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// Stats devuelve el dashboard del emisor para el año pedido (query param
// year, por defecto el año en curso).
// GET /api/invoices/stats
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().UTC().Year())
	stats, err := h.invoiceUC.Stats(c.Context(), GetUserID(c), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// ListOverdue lista las facturas vencidas con saldo pendiente del emisor,
// ordenadas por vencimiento.
// GET /api/invoices/overdue
func (h *InvoiceHandler) ListOverdue(c *fiber.Ctx) error {
	invoices, err := h.invoiceUC.ListOverdue(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// GetByID obtiene el detalle completo de una factura del emisor.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.GetByID(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Update edita los campos mutables de la factura y recalcula montos.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	invoice, err := h.invoiceUC.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Delete elimina la factura (solo draft o cancelled y sin pagos).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoiceUC.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "factura eliminada"})
}

// ChangeStatus aplica una transición manual de estado con su entrada de
// auditoría.
// PUT /api/invoices/:id/status
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	actor := entity.UserActor(GetUserID(c))
	invoice, err := h.lifecycleUC.ChangeStatus(c.Context(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// AddPayment registra un pago y confirma la factura como pagada cuando el
// saldo queda en cero.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	actor := entity.UserActor(GetUserID(c))
	invoice, err := h.lifecycleUC.AddPayment(c.Context(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}
