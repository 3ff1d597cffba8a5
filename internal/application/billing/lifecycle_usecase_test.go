package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/invoice"
)

func seedInvoice(t *testing.T, repo *fakeInvoiceRepo, status string, items []entity.LineItem, payments []entity.Payment) *entity.Invoice {
	t.Helper()
	inv := &entity.Invoice{
		ID:            "inv-1",
		UserID:        "user-1",
		ClientID:      "client-1",
		InvoiceNumber: "INV-2026-0001",
		InvoiceDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:        status,
		Items:         items,
		Payments:      payments,
	}
	invoice.RecalculateAmounts(inv)
	require.NoError(t, repo.Create(inv))
	return inv
}

func seedClient(t *testing.T, repo *fakeClientRepo) {
	t.Helper()
	require.NoError(t, repo.Create(&entity.Client{
		ID:     "client-1",
		UserID: "user-1",
		Name:   "Acme",
		Email:  "acme@example.com",
	}))
}

func newLifecycle(t *testing.T) (*billing.LifecycleUseCase, *fakeInvoiceRepo) {
	t.Helper()
	invoices := newFakeInvoiceRepo()
	clients := newFakeClientRepo()
	seedClient(t, clients)
	return billing.NewLifecycleUseCase(invoices, clients), invoices
}

func lineItems(pairs ...float64) []entity.LineItem {
	var items []entity.LineItem
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, entity.LineItem{
			ID:          "item",
			Description: "servicio",
			Quantity:    decimal.NewFromFloat(pairs[i]),
			Rate:        decimal.NewFromFloat(pairs[i+1]),
		})
	}
	return items
}

func paymentOf(amount float64) entity.Payment {
	return entity.Payment{
		ID:            "pay",
		AmountPaid:    decimal.NewFromFloat(amount),
		Method:        entity.PaymentMethodCash,
		TransactionID: "tx",
		PaidAt:        time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		RecordedBy:    entity.UserActor("user-1"),
	}
}

// Un pago que cubre el total de una factura en draft la confirma en dos
// pasos: partial_paid y luego paid, con dos entradas de auditoría.
func TestAddPayment_PagoCompletoConfirmaEnDosPasos(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusDraft, lineItems(2, 100, 1, 50), nil)

	res, err := uc.AddPayment(context.Background(), entity.UserActor("user-1"), "inv-1", dto.AddPaymentRequest{
		Amount:        decimal.NewFromInt(250),
		TransactionID: "tx-250",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPaid, res.Status)
	assert.True(t, res.TotalPaid.Equal(decimal.NewFromInt(250)))
	assert.True(t, res.RemainingAmount.IsZero())
	require.Len(t, res.StatusLog, 2, "partial_paid y luego paid")
	assert.Equal(t, entity.StatusPartialPaid, res.StatusLog[0].NewStatus)
	assert.Equal(t, entity.StatusPaid, res.StatusLog[1].NewStatus)
	assert.Equal(t, "Payment of 250 received", res.StatusLog[1].Reason)
	assert.Equal(t, "user-1", res.StatusLog[1].ChangedBy.UserID)

	// El agregado persistido coincide con la respuesta.
	stored, err := repo.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, stored.Status)
	assert.Len(t, stored.StatusLog, 2)
}

func TestAddPayment_PagoParcialDerivaAutomaticamente(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(2, 100, 1, 50), nil)

	res, err := uc.AddPayment(context.Background(), entity.UserActor("user-1"), "inv-1", dto.AddPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		TransactionID: "tx-100",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPartialPaid, res.Status)
	assert.True(t, res.RemainingAmount.Equal(decimal.NewFromInt(150)))
	require.Len(t, res.StatusLog, 1)
	assert.Equal(t, entity.ActorRoleSystem, res.StatusLog[0].ChangedBy.Role)
	assert.Equal(t, invoice.AutoStatusReason, res.StatusLog[0].Reason)
}

func TestAddPayment_MetodoPorDefectoYFechas(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(1, 500), nil)

	res, err := uc.AddPayment(context.Background(), entity.UserActor("user-1"), "inv-1", dto.AddPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		TransactionID: "tx-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Payments, 1)
	assert.Equal(t, entity.PaymentMethodBankTransfer, res.Payments[0].Method, "sin método explícito se asume bank_transfer")
	assert.False(t, res.Payments[0].PaidAt.IsZero())
}

func TestAddPayment_Validaciones(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(1, 100), nil)
	actor := entity.UserActor("user-1")
	ctx := context.Background()

	_, err := uc.AddPayment(ctx, actor, "inv-1", dto.AddPaymentRequest{TransactionID: "tx"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = uc.AddPayment(ctx, actor, "inv-1", dto.AddPaymentRequest{
		Amount: decimal.NewFromInt(-10), TransactionID: "tx",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto negativo")

	_, err = uc.AddPayment(ctx, actor, "inv-1", dto.AddPaymentRequest{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin transaction_id")

	_, err = uc.AddPayment(ctx, actor, "inv-1", dto.AddPaymentRequest{
		Amount: decimal.NewFromInt(10), TransactionID: "tx", Method: "bitcoin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método desconocido")
}

func TestAddPayment_ActorAjenoEsForbidden(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(1, 100), nil)

	_, err := uc.AddPayment(context.Background(), entity.UserActor("otro"), "inv-1", dto.AddPaymentRequest{
		Amount: decimal.NewFromInt(10), TransactionID: "tx",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.AddPayment(context.Background(), entity.ClientActor("otro-cliente"), "inv-1", dto.AddPaymentRequest{
		Amount: decimal.NewFromInt(10), TransactionID: "tx",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// La cancelación destruye el historial de pagos y deja exactamente una
// entrada de auditoría con la razón dada.
func TestChangeStatus_CancelledLimpiaPagos(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusPartialPaid, lineItems(1, 300), []entity.Payment{paymentOf(100), paymentOf(50)})

	res, err := uc.ChangeStatus(context.Background(), entity.UserActor("user-1"), "inv-1", dto.ChangeStatusRequest{
		Status: entity.StatusCancelled,
		Reason: "client backed out",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelled, res.Status)
	assert.Empty(t, res.Payments, "el reset financiero vacía los pagos")
	assert.True(t, res.TotalPaid.IsZero())
	assert.True(t, res.RemainingAmount.Equal(decimal.NewFromInt(300)))
	require.Len(t, res.StatusLog, 1)
	assert.Equal(t, "client backed out", res.StatusLog[0].Reason)
	assert.Equal(t, entity.StatusPartialPaid, res.StatusLog[0].OldStatus)
}

func TestChangeStatus_DestructivoRequiereUsuario(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusPartialPaid, lineItems(1, 300), []entity.Payment{paymentOf(100)})

	for _, status := range []string{entity.StatusDraft, entity.StatusCancelled, entity.StatusSent, entity.StatusOverdue} {
		_, err := uc.ChangeStatus(context.Background(), entity.ClientActor("client-1"), "inv-1", dto.ChangeStatusRequest{Status: status})
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "un cliente no puede forzar %s", status)
	}

	// Los pagos siguen intactos.
	stored, err := repo.GetByID("inv-1")
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 1)
}

func TestChangeStatus_ClientePuedeMarcarViewed(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(1, 300), nil)

	res, err := uc.ChangeStatus(context.Background(), entity.ClientActor("client-1"), "inv-1", dto.ChangeStatusRequest{Status: entity.StatusViewed})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusViewed, res.Status)
	require.Len(t, res.StatusLog, 1)
	assert.Equal(t, invoice.ManualStatusReason, res.StatusLog[0].Reason, "sin razón explícita se usa la razón por defecto")
	assert.Equal(t, "client-1", res.StatusLog[0].ChangedBy.ClientID)
}

func TestChangeStatus_EstadoInvalido(t *testing.T) {
	uc, repo := newLifecycle(t)
	seedInvoice(t, repo, entity.StatusSent, lineItems(1, 300), nil)

	_, err := uc.ChangeStatus(context.Background(), entity.UserActor("user-1"), "inv-1", dto.ChangeStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus_FacturaInexistente(t *testing.T) {
	uc, _ := newLifecycle(t)

	_, err := uc.ChangeStatus(context.Background(), entity.UserActor("user-1"), "nope", dto.ChangeStatusRequest{Status: entity.StatusSent})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
