package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// InvoiceItemRequest línea de factura en requests. Amount es opcional: si no
// viene, se deriva como quantity × rate en el recálculo.
type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// DueDate en formato 2006-01-02. SendEmail por defecto true: tras crear se
// genera el PDF y se envía al cliente; un fallo de email no anula la creación.
type CreateInvoiceRequest struct {
	ClientID       string               `json:"client_id" validate:"required"`
	DueDate        string               `json:"due_date" validate:"required"`
	Items          []InvoiceItemRequest `json:"items" validate:"dive"`
	Notes          string               `json:"notes,omitempty"`
	Terms          string               `json:"terms,omitempty"`
	DiscountAmount decimal.Decimal      `json:"discount_amount,omitempty"`
	SendEmail      *bool                `json:"send_email,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Solo los campos
// mutables; nil significa "sin cambio".
type UpdateInvoiceRequest struct {
	DueDate        *string               `json:"due_date,omitempty"`
	Items          *[]InvoiceItemRequest `json:"items,omitempty"`
	Notes          *string               `json:"notes,omitempty"`
	Terms          *string               `json:"terms,omitempty"`
	DiscountAmount *decimal.Decimal      `json:"discount_amount,omitempty"`
}

// AddPaymentRequest body para POST /api/invoices/:id/payments.
type AddPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"` // default bank_transfer
	TransactionID string          `json:"transaction_id" validate:"required"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"` // default now
}

// ChangeStatusRequest body para PUT /api/invoices/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	PaidAt        time.Time       `json:"paid_at"`
	RecordedBy    ActorResponse   `json:"recorded_by"`
}

// ActorResponse identidad+rol de quien ejecutó una mutación.
type ActorResponse struct {
	UserID   string `json:"user_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Role     string `json:"role"`
}

// StatusChangeResponse entrada del historial de estados.
type StatusChangeResponse struct {
	ID        string        `json:"id"`
	OldStatus string        `json:"old_status"`
	NewStatus string        `json:"new_status"`
	ChangedBy ActorResponse `json:"changed_by"`
	Reason    string        `json:"reason"`
	ChangedAt time.Time     `json:"changed_at"`
}

// EmailLogResponse intento de notificación registrado.
type EmailLogResponse struct {
	ID           string    `json:"id"`
	EmailType    string    `json:"email_type"`
	SentTo       string    `json:"sent_to"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"`
	EmailID      string    `json:"email_id,omitempty"`
	PDFGenerated bool      `json:"pdf_generated"`
}

// InvoiceResponse factura completa (sistema de registro: conserva los tres
// historiales sin resumir).
type InvoiceResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	ClientID        string                 `json:"client_id"`
	ClientName      string                 `json:"client_name,omitempty"`
	InvoiceNumber   string                 `json:"invoice_number"`
	InvoiceDate     string                 `json:"invoice_date"` // 2006-01-02
	DueDate         string                 `json:"due_date"`
	Status          string                 `json:"status"`
	Items           []InvoiceItemResponse  `json:"items"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxAmount       decimal.Decimal        `json:"tax_amount"`
	DiscountAmount  decimal.Decimal        `json:"discount_amount"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	TotalPaid       decimal.Decimal        `json:"total_paid"`
	RemainingAmount decimal.Decimal        `json:"remaining_amount"`
	Payments        []PaymentResponse      `json:"payments"`
	StatusLog       []StatusChangeResponse `json:"status_log"`
	EmailLog        []EmailLogResponse     `json:"email_log"`
	Notes           string                 `json:"notes,omitempty"`
	Terms           string                 `json:"terms,omitempty"`
	PDFPath         string                 `json:"pdf_path,omitempty"`
	ClientViewedAt  *time.Time             `json:"client_viewed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CreateInvoiceResponse creación + resultado del envío automático de email.
type CreateInvoiceResponse struct {
	Invoice    InvoiceResponse `json:"invoice"`
	EmailSent  bool            `json:"email_sent"`
	EmailError string          `json:"email_error,omitempty"`
}

// InvoiceStatsResponse dashboard del usuario emisor.
type InvoiceStatsResponse struct {
	Stats           repository.InvoiceStats `json:"stats"`
	OverdueInvoices []InvoiceResponse       `json:"overdue_invoices"`
}

// SendInvoiceRequest body para POST /api/emails/send-invoice/:id.
type SendInvoiceRequest struct {
	CustomMessage string `json:"custom_message,omitempty"`
}

// Tipos de recordatorio de pago.
const (
	ReminderGentle = "gentle"
	ReminderUrgent = "urgent"
	ReminderFinal  = "final"
)

// SendReminderRequest body para POST /api/emails/send-reminder/:id.
type SendReminderRequest struct {
	ReminderType  string `json:"reminder_type,omitempty" validate:"omitempty,oneof=gentle urgent final"`
	CustomMessage string `json:"custom_message,omitempty"`
}

// BulkReminderRequest body para POST /api/emails/bulk-reminders.
type BulkReminderRequest struct {
	InvoiceIDs   []string `json:"invoice_ids" validate:"required,min=1"`
	ReminderType string   `json:"reminder_type,omitempty" validate:"omitempty,oneof=gentle urgent final"`
}

// BulkReminderResult resultado por factura del envío masivo.
type BulkReminderResult struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	SentTo        string `json:"sent_to,omitempty"`
	EmailID       string `json:"email_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// BulkReminderResponse respuesta del envío masivo.
type BulkReminderResponse struct {
	TotalSent   int                  `json:"total_sent"`
	TotalErrors int                  `json:"total_errors"`
	Results     []BulkReminderResult `json:"results"`
	Errors      []BulkReminderResult `json:"errors"`
}

// EmailSentResponse confirmación de un envío individual.
type EmailSentResponse struct {
	EmailID string `json:"email_id"`
	SentTo  string `json:"sent_to"`
}

// PDFGeneratedResponse respuesta de generación de PDF.
type PDFGeneratedResponse struct {
	PDFPath  string `json:"pdf_path"`
	Filename string `json:"filename"`
}
