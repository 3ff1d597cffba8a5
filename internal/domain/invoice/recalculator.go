// Package invoice contiene la lógica financiera pura de la factura:
// derivación de montos, derivación automática de estado y numeración.
// Ninguna función de este paquete toca red ni almacenamiento; el caso de uso
// la invoca de forma explícita antes de cada persistencia (no hay hooks).
package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// Razones registradas en el StatusLog.
const (
	AutoStatusReason   = "Auto-updated based on payment status"
	ManualStatusReason = "Manual status change"
)

var hundred = decimal.NewFromInt(100)

// RecalculateAmounts deriva todos los montos del agregado a partir de
// items, payments y discountAmount (pasos 1–6 del recálculo):
//
//	item.amount   = quantity × rate (si no vino explícito); taxRate default 0
//	subtotal      = Σ item.amount
//	taxAmount     = Σ item.amount × item.taxRate / 100
//	totalAmount   = subtotal + taxAmount − discountAmount (nunca negativo)
//	totalPaid     = Σ payment.amountPaid
//	remaining     = max(0, totalAmount − totalPaid)
//
// Es idempotente: sobre un agregado sin cambios es un no-op.
func RecalculateAmounts(inv *entity.Invoice) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.Items {
		it := &inv.Items[i]
		if it.Amount.IsZero() {
			it.Amount = it.Quantity.Mul(it.Rate)
		}
		subtotal = subtotal.Add(it.Amount)
		tax = tax.Add(it.Amount.Mul(it.TaxRate).Div(hundred))
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax

	total := subtotal.Add(tax).Sub(inv.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	inv.TotalAmount = total

	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.AmountPaid)
	}
	inv.TotalPaid = paid

	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	inv.RemainingAmount = remaining
}

// Recalculate ejecuta el recálculo completo: montos (RecalculateAmounts) más
// la derivación automática de estado (paso 7):
//
//	totalPaid == 0            → overdue si dueDate < now, si no sent
//	0 < totalPaid < total     → partial_paid
//	totalPaid >= total        → remaining forzado a 0; partial_paid, salvo
//	                            que ya estuviera paid
//
// La derivación automática nunca promueve a paid: esa transición final la
// emite siempre el servicio de ciclo de vida como confirmación explícita con
// su propia razón (dos entradas de auditoría: partial_paid y luego paid), en
// vez de depender solo de la derivación silenciosa. Una factura ya paid se
// mantiene paid mientras el pago siga cubriendo el total.
//
// La derivación se omite por completo en draft y cancelled: esos estados son
// terminales frente al recálculo. Si el estado derivado difiere del anterior
// y no es el primer save del agregado, se apendiza una entrada de auditoría
// con actor system. firstSave debe ser true solo en la creación, antes del
// primer persist; no hay marcadores implícitos por instancia.
func Recalculate(inv *entity.Invoice, now time.Time, firstSave bool) {
	RecalculateAmounts(inv)

	if entity.IsTerminalForAuto(inv.Status) {
		return
	}

	old := inv.Status
	var next string
	switch {
	case inv.TotalPaid.IsZero():
		if inv.DueDate.Before(now) {
			next = entity.StatusOverdue
		} else {
			next = entity.StatusSent
		}
	case inv.TotalPaid.GreaterThanOrEqual(inv.TotalAmount):
		inv.RemainingAmount = decimal.Zero
		if old == entity.StatusPaid {
			next = entity.StatusPaid
		} else {
			next = entity.StatusPartialPaid
		}
	default:
		next = entity.StatusPartialPaid
	}

	if next != old && !firstSave {
		inv.SetStatus(next, entity.SystemActor(), AutoStatusReason, now, uuid.New().String())
		return
	}
	inv.Status = next
}
