package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []billing.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg billing.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

type fakePDFGenerator struct{}

func (g *fakePDFGenerator) GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, issuer *entity.User, client *entity.Client) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type emailFixture struct {
	uc       *billing.EmailUseCase
	invoices *fakeInvoiceRepo
	mailer   *fakeMailer
	storage  *fakeStorage
}

func newEmailFixture(t *testing.T) *emailFixture {
	t.Helper()
	invoices := newFakeInvoiceRepo()
	clients := newFakeClientRepo()
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	storage := newFakeStorage()

	seedClient(t, clients)
	require.NoError(t, users.Create(&entity.User{
		ID:    "user-1",
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  entity.RoleUser,
		Business: entity.BusinessDetails{
			CompanyName: "Dana Consulting",
		},
	}))

	pdfUC := billing.NewPDFUseCase(invoices, clients, users, &fakePDFGenerator{}, storage)
	lifecycle := billing.NewLifecycleUseCase(invoices, clients)
	uc := billing.NewEmailUseCase(invoices, clients, users, pdfUC, lifecycle, mailer)
	return &emailFixture{uc: uc, invoices: invoices, mailer: mailer, storage: storage}
}

// El envío genera el PDF si no existe, lo adjunta y promueve draft→sent con
// su entrada de auditoría.
func TestSendInvoice_PromueveDraftASent(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusDraft, lineItems(2, 100, 1, 50), nil)

	res, err := f.uc.SendInvoice(context.Background(), entity.UserActor("user-1"), "inv-1", dto.SendInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.EmailID)
	assert.Equal(t, "acme@example.com", res.SentTo)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "Invoice INV-2026-0001 from Dana Consulting", msg.Subject)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "Invoice-INV-2026-0001.pdf", msg.Attachment.Filename)

	stored, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, stored.Status)
	require.Len(t, stored.StatusLog, 1)
	assert.Equal(t, "Invoice emailed to client", stored.StatusLog[0].Reason)
	assert.NotEmpty(t, stored.PDFPath, "el PDF generado queda referenciado")
	require.Len(t, stored.EmailLog, 1)
	assert.Equal(t, entity.EmailTypeInvoiceSent, stored.EmailLog[0].EmailType)
	assert.Equal(t, entity.EmailStatusSent, stored.EmailLog[0].Status)
	assert.True(t, stored.EmailLog[0].PDFGenerated)
}

// El fallo del transporte queda registrado en el emailLog antes de propagarse.
func TestSendInvoice_FalloQuedaEnElLog(t *testing.T) {
	f := newEmailFixture(t)
	f.mailer.err = errors.New("smtp caído")
	seedInvoice(t, f.invoices, entity.StatusSent, lineItems(1, 100), nil)

	_, err := f.uc.SendInvoice(context.Background(), entity.UserActor("user-1"), "inv-1", dto.SendInvoiceRequest{})
	require.Error(t, err)

	stored, getErr := f.invoices.GetByID("inv-1")
	require.NoError(t, getErr)
	require.Len(t, stored.EmailLog, 1)
	assert.Equal(t, entity.EmailStatusFailed, stored.EmailLog[0].Status)
	assert.Empty(t, stored.EmailLog[0].EmailID)
}

func TestSendInvoice_ClienteNoPuedeEnviar(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusSent, lineItems(1, 100), nil)

	_, err := f.uc.SendInvoice(context.Background(), entity.ClientActor("client-1"), "inv-1", dto.SendInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSendReminder_TiposYLog(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusOverdue, lineItems(1, 300), nil)

	res, err := f.uc.SendReminder(context.Background(), "user-1", "inv-1", dto.SendReminderRequest{ReminderType: dto.ReminderUrgent})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.EmailID)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Payment Reminder - Invoice INV-2026-0001", f.mailer.sent[0].Subject)
	assert.Contains(t, f.mailer.sent[0].HTML, "URGENT")

	stored, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	require.Len(t, stored.EmailLog, 1)
	assert.Equal(t, entity.EmailTypePaymentReminder, stored.EmailLog[0].EmailType)
}

func TestSendReminder_TipoDesconocido(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusOverdue, lineItems(1, 300), nil)

	_, err := f.uc.SendReminder(context.Background(), "user-1", "inv-1", dto.SendReminderRequest{ReminderType: "casual"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La confirmación registra el pago por el ciclo de vida y luego notifica.
func TestSendPaymentConfirmation_RegistraYNotifica(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusSent, lineItems(1, 250), nil)

	res, err := f.uc.SendPaymentConfirmation(context.Background(), "user-1", "inv-1", dto.AddPaymentRequest{
		Amount:        decimal.NewFromInt(250),
		TransactionID: "tx-250",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.EmailID)

	stored, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, stored.Status)
	require.Len(t, stored.Payments, 1)
	require.Len(t, stored.EmailLog, 1)
	assert.Equal(t, entity.EmailTypePaymentReceived, stored.EmailLog[0].EmailType)
	assert.Contains(t, f.mailer.sent[0].Subject, "Payment Received")
}

// El lote acumula errores por factura sin abortar los envíos restantes.
func TestSendBulkReminders_AcumulaErrores(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusOverdue, lineItems(1, 300), nil)

	draft := &entity.Invoice{
		ID:            "inv-draft",
		UserID:        "user-1",
		ClientID:      "client-1",
		InvoiceNumber: "INV-2026-0002",
		Status:        entity.StatusDraft,
		Items:         lineItems(1, 100),
	}
	require.NoError(t, f.invoices.Create(draft))

	res, err := f.uc.SendBulkReminders(context.Background(), "user-1", dto.BulkReminderRequest{
		InvoiceIDs: []string{"inv-1", "inv-draft", "inv-missing"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalSent)
	assert.Equal(t, 2, res.TotalErrors)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "inv-1", res.Results[0].InvoiceID)
	assert.Equal(t, "INV-2026-0001", res.Results[0].InvoiceNumber)
}

func TestGetEmailLogs_MasRecientePrimero(t *testing.T) {
	f := newEmailFixture(t)
	seedInvoice(t, f.invoices, entity.StatusOverdue, lineItems(1, 300), nil)
	ctx := context.Background()

	_, err := f.uc.SendReminder(ctx, "user-1", "inv-1", dto.SendReminderRequest{})
	require.NoError(t, err)
	_, err = f.uc.SendInvoice(ctx, entity.UserActor("user-1"), "inv-1", dto.SendInvoiceRequest{})
	require.NoError(t, err)

	logs, err := f.uc.GetEmailLogs(ctx, "user-1", "inv-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.EmailTypeInvoiceSent, logs[0].EmailType, "el envío más reciente va primero")
}
