package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/invoice"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// LifecycleUseCase ejecuta las mutaciones de ciclo de vida de una factura:
// registro de pagos y cambios manuales de estado. Toda mutación deja su rastro
// en los historiales del agregado y pasa por el recálculo antes de persistir.
type LifecycleUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *LifecycleUseCase {
	return &LifecycleUseCase{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// authorizeInvoiceActor verifica que el actor tenga acceso al agregado: el
// usuario emisor dueño de la factura, o el cliente receptor. El actor system
// siempre pasa (lo usa el propio servicio, nunca viene de un request).
func authorizeInvoiceActor(inv *entity.Invoice, actor entity.Actor) error {
	switch actor.Role {
	case entity.ActorRoleUser:
		if actor.UserID != inv.UserID {
			return domain.ErrForbidden
		}
	case entity.ActorRoleClient:
		if actor.ClientID != inv.ClientID {
			return domain.ErrForbidden
		}
	case entity.ActorRoleSystem:
		// sin restricción
	default:
		return domain.ErrForbidden
	}
	return nil
}

// clientNameFor resuelve el nombre del cliente para la respuesta; un fallo de
// lectura no rompe la operación principal.
func clientNameFor(clientRepo repository.ClientRepository, clientID string) string {
	c, err := clientRepo.GetByID(clientID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

// AddPayment registra un pago contra la factura y recalcula el agregado.
// El pago es un hecho contable: no se verifica contra ninguna pasarela.
//
// Si tras el recálculo el saldo queda en cero y la factura aún no está paid,
// el servicio emite la confirmación explícita en dos pasos atribuidos al
// actor: la transición a partial_paid (si la derivación no la dejó ya ahí) y
// el paso final a paid con una razón que nombra el pago. Un pago completo
// produce así siempre dos entradas de auditoría, incluso sobre una factura en
// draft, donde la derivación automática nunca corre.
func (uc *LifecycleUseCase) AddPayment(ctx context.Context, actor entity.Actor, invoiceID string, in dto.AddPaymentRequest) (*dto.InvoiceResponse, error) {
	if invoiceID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.TransactionID == "" {
		return nil, domain.ErrInvalidInput
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodBankTransfer
	}
	if !entity.IsValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := authorizeInvoiceActor(inv, actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	paidAt := now
	if in.PaidAt != nil {
		paidAt = in.PaidAt.UTC()
	}

	inv.AppendPayment(entity.Payment{
		ID:            uuid.New().String(),
		AmountPaid:    in.Amount,
		Method:        method,
		TransactionID: in.TransactionID,
		PaidAt:        paidAt,
		RecordedBy:    actor,
	})
	invoice.Recalculate(inv, now, false)

	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("persistir pago: %w", err)
	}

	// Confirmación explícita del pago completo, con sus propias entradas de
	// auditoría atribuidas al actor que registró el pago.
	if inv.RemainingAmount.IsZero() && inv.Status != entity.StatusPaid {
		if inv.Status != entity.StatusPartialPaid {
			inv.SetStatus(entity.StatusPartialPaid, actor, "Payment recorded", now, uuid.New().String())
		}
		reason := fmt.Sprintf("Payment of %s received", in.Amount.String())
		inv.SetStatus(entity.StatusPaid, actor, reason, now, uuid.New().String())
		invoice.RecalculateAmounts(inv)
		if err := uc.invoiceRepo.Save(inv); err != nil {
			return nil, fmt.Errorf("confirmar pago completo: %w", err)
		}
	}

	return toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)), nil
}

// ChangeStatus aplica un cambio manual de estado. El cambio manual no pasa por
// la derivación automática en este save: solo se recalculan los montos, y la
// transición queda registrada con el actor y la razón dadas.
//
// Las transiciones a draft, cancelled, sent u overdue destruyen el historial
// de pagos (reset financiero) y por eso solo las puede emitir el usuario
// emisor, nunca un cliente.
func (uc *LifecycleUseCase) ChangeStatus(ctx context.Context, actor entity.Actor, invoiceID string, in dto.ChangeStatusRequest) (*dto.InvoiceResponse, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := authorizeInvoiceActor(inv, actor); err != nil {
		return nil, err
	}
	if entity.ClearsPayments(in.Status) && actor.Role != entity.ActorRoleUser {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	reason := in.Reason
	if reason == "" {
		reason = invoice.ManualStatusReason
	}

	inv.SetStatus(in.Status, actor, reason, now, uuid.New().String())
	if entity.ClearsPayments(in.Status) {
		inv.ClearPayments()
	}
	invoice.RecalculateAmounts(inv)

	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("persistir cambio de estado: %w", err)
	}

	return toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)), nil
}
