package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// EmailHandler maneja el envío de notificaciones de facturación (rutas de
// usuario emisor).
type EmailHandler struct {
	uc *billing.EmailUseCase
}

// NewEmailHandler construye el handler.
func NewEmailHandler(uc *billing.EmailUseCase) *EmailHandler {
	return &EmailHandler{uc: uc}
}

// SendInvoice envía la factura al cliente con el PDF adjunto. Si estaba en
// draft, el envío exitoso la promueve a sent.
// POST /api/emails/send-invoice/:id
func (h *EmailHandler) SendInvoice(c *fiber.Ctx) error {
	var in dto.SendInvoiceRequest
	if err := bindBody(c, &in, true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	actor := entity.UserActor(GetUserID(c))
	resp, err := h.uc.SendInvoice(c.Context(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// SendReminder envía un recordatorio de pago (gentle, urgent o final).
// POST /api/emails/send-reminder/:id
func (h *EmailHandler) SendReminder(c *fiber.Ctx) error {
	var in dto.SendReminderRequest
	if err := bindBody(c, &in, true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	resp, err := h.uc.SendReminder(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// SendPaymentConfirmation registra el pago y notifica al cliente.
// POST /api/emails/payment-confirmation/:id
func (h *EmailHandler) SendPaymentConfirmation(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	resp, err := h.uc.SendPaymentConfirmation(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// SendBulkReminders envía recordatorios a un lote de facturas, acumulando los
// errores por factura en lugar de abortar.
// POST /api/emails/bulk-reminders
func (h *EmailHandler) SendBulkReminders(c *fiber.Ctx) error {
	var in dto.BulkReminderRequest
	if err := bindBody(c, &in, false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	resp, err := h.uc.SendBulkReminders(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Logs devuelve el historial de notificaciones de una factura, más recientes
// primero.
// GET /api/emails/logs/:id
func (h *EmailHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.uc.GetEmailLogs(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
