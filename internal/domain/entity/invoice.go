package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
const (
	StatusDraft       = "draft"        // Creada, aún no enviada al cliente
	StatusSent        = "sent"         // Enviada al cliente
	StatusViewed      = "viewed"       // El cliente abrió la factura
	StatusPartialPaid = "partial_paid" // Pagada parcialmente
	StatusPaid        = "paid"         // Pagada en su totalidad
	StatusOverdue     = "overdue"      // Vencida sin pago completo
	StatusCancelled   = "cancelled"    // Anulada; conserva su historial
)

// ValidStatuses enumera los siete estados aceptados para cambios manuales.
var ValidStatuses = []string{
	StatusDraft, StatusSent, StatusViewed, StatusPartialPaid,
	StatusPaid, StatusOverdue, StatusCancelled,
}

// IsValidStatus indica si s pertenece al enum de estados.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalForAuto indica si el estado bloquea la derivación automática:
// una vez en draft o cancelled, el recálculo nunca cambia el estado.
func IsTerminalForAuto(status string) bool {
	return status == StatusDraft || status == StatusCancelled
}

// ClearsPayments indica si la transición manual a status destruye el
// historial de pagos (reset financiero explícito y auditado).
func ClearsPayments(status string) bool {
	switch status {
	case StatusDraft, StatusCancelled, StatusSent, StatusOverdue:
		return true
	}
	return false
}

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheque       = "cheque"
	PaymentMethodUPI          = "upi"
	PaymentMethodCard         = "card"
	PaymentMethodOther        = "other"
)

// IsValidPaymentMethod indica si m es un método de pago conocido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodUPI, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Roles de Actor.
const (
	ActorRoleUser   = "user"
	ActorRoleClient = "client"
	ActorRoleSystem = "system"
)

// Actor identifica quién ejecuta una mutación: el usuario emisor, el cliente
// o el propio sistema (derivación automática). Variante etiquetada por Role;
// solo el ID correspondiente al rol va poblado.
type Actor struct {
	UserID   string `json:"user_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Role     string `json:"role"`
}

// UserActor construye el actor para el usuario emisor.
func UserActor(userID string) Actor { return Actor{UserID: userID, Role: ActorRoleUser} }

// ClientActor construye el actor para un cliente autenticado.
func ClientActor(clientID string) Actor { return Actor{ClientID: clientID, Role: ActorRoleClient} }

// SystemActor construye el actor de las transiciones automáticas.
func SystemActor() Actor { return Actor{Role: ActorRoleSystem} }

// LineItem es una línea de la factura. Amount se deriva de Quantity×Rate
// salvo que venga explícito; TaxRate es porcentaje (19 = 19%).
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// Payment es un pago registrado contra la factura (hecho contable, no se
// verifica contra ninguna pasarela).
type Payment struct {
	ID            string          `json:"id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	PaidAt        time.Time       `json:"paid_at"`
	RecordedBy    Actor           `json:"recorded_by"`
}

// StatusChange es una entrada del historial de estados. Toda transición,
// manual o automática, produce exactamente una.
type StatusChange struct {
	ID        string    `json:"id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy Actor     `json:"changed_by"`
	Reason    string    `json:"reason"`
	ChangedAt time.Time `json:"changed_at"`
}

// Tipos de notificación por email.
const (
	EmailTypeInvoiceSent     = "invoice_sent"
	EmailTypePaymentReminder = "payment_reminder"
	EmailTypePaymentReceived = "payment_received"
	EmailTypeStatusUpdate    = "status_update"
)

// Resultados de un intento de envío.
const (
	EmailStatusSent      = "sent"
	EmailStatusFailed    = "failed"
	EmailStatusDelivered = "delivered"
	EmailStatusOpened    = "opened"
)

// EmailLogEntry registra un intento de notificación al cliente.
type EmailLogEntry struct {
	ID           string    `json:"id"`
	EmailType    string    `json:"email_type"`
	SentTo       string    `json:"sent_to"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"`
	EmailID      string    `json:"email_id,omitempty"` // ID del servicio de correo externo
	PDFGenerated bool      `json:"pdf_generated"`
}

// Invoice es el agregado raíz: items, pagos, historiales y montos derivados
// forman una sola frontera de consistencia, persistida como un documento.
//
// Los montos (Subtotal, TaxAmount, TotalAmount, TotalPaid, RemainingAmount)
// nunca se asignan desde fuera: siempre salen del recálculo
// (internal/domain/invoice).
type Invoice struct {
	ID            string
	UserID        string // usuario emisor; inmutable
	ClientID      string // cliente receptor; inmutable
	InvoiceNumber string // INV-<año>-NNNN; se asigna una sola vez al crear

	InvoiceDate time.Time
	DueDate     time.Time
	Status      string

	Items []LineItem

	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	TotalPaid       decimal.Decimal
	RemainingAmount decimal.Decimal

	Payments  []Payment       // append-only; solo el reset financiero lo vacía
	StatusLog []StatusChange  // append-only
	EmailLog  []EmailLogEntry // append-only

	Notes string
	Terms string

	PDFPath          string // referencia al último artefacto generado; "" si no hay
	ClientViewedAt   *time.Time
	LastClientAccess *time.Time
	AllowClientEdit  bool

	Version   int64 // concurrencia optimista: verificada en cada save
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppendPayment agrega un pago al historial. No recalcula: el caller debe
// pasar el agregado por el recálculo antes de persistir.
func (inv *Invoice) AppendPayment(p Payment) {
	inv.Payments = append(inv.Payments, p)
}

// SetStatus cambia el estado y registra la transición en el StatusLog.
// Única vía válida para mutar Status (invariante 4).
func (inv *Invoice) SetStatus(newStatus string, by Actor, reason string, at time.Time, changeID string) {
	old := inv.Status
	inv.Status = newStatus
	inv.StatusLog = append(inv.StatusLog, StatusChange{
		ID:        changeID,
		OldStatus: old,
		NewStatus: newStatus,
		ChangedBy: by,
		Reason:    reason,
		ChangedAt: at,
	})
}

// ClearPayments vacía el historial de pagos (el reset financiero de las
// transiciones destructivas).
// Destructivo y no reversible; el caller debe haberlo auditado y autorizado.
func (inv *Invoice) ClearPayments() {
	inv.Payments = nil
	inv.TotalPaid = decimal.Zero
}

// AppendEmailLog registra un intento de notificación.
func (inv *Invoice) AppendEmailLog(e EmailLogEntry) {
	inv.EmailLog = append(inv.EmailLog, e)
}

// CanDelete aplica la guarda de borrado: sin pagos y en draft o cancelled.
// Con dinero registrado, o fuera de draft, la factura se cancela, no se borra.
func (inv *Invoice) CanDelete() bool {
	return len(inv.Payments) == 0 && (inv.Status == StatusDraft || inv.Status == StatusCancelled)
}

// MarkClientAccess actualiza los sellos de acceso del cliente; la primera
// visita fija ClientViewedAt.
func (inv *Invoice) MarkClientAccess(at time.Time) {
	t := at
	inv.LastClientAccess = &t
	if inv.ClientViewedAt == nil {
		inv.ClientViewedAt = &t
	}
}
