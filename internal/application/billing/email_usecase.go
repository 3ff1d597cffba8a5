package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// EmailUseCase envía las notificaciones de factura al cliente y mantiene el
// emailLog del agregado. Todo intento, exitoso o fallido, queda registrado.
type EmailUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	pdf         *PDFUseCase
	lifecycle   *LifecycleUseCase
	mailer      Mailer
}

// NewEmailUseCase construye el caso de uso.
func NewEmailUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	pdf *PDFUseCase,
	lifecycle *LifecycleUseCase,
	mailer Mailer,
) *EmailUseCase {
	return &EmailUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		pdf:         pdf,
		lifecycle:   lifecycle,
		mailer:      mailer,
	}
}

// issuerCompany retorna el nombre visible del remitente para el asunto.
func issuerCompany(issuer *entity.User) string {
	if issuer.Business.CompanyName != "" {
		return issuer.Business.CompanyName
	}
	return issuer.Name
}

// loadParties carga emisor y cliente de la factura.
func (uc *EmailUseCase) loadParties(inv *entity.Invoice) (*entity.User, *entity.Client, error) {
	issuer, err := uc.userRepo.GetByID(inv.UserID)
	if err != nil || issuer == nil {
		return nil, nil, fmt.Errorf("email: obtener emisor: %w", err)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, nil, fmt.Errorf("email: obtener cliente: %w", err)
	}
	return issuer, client, nil
}

// send despacha el mensaje y registra el intento en el emailLog. El fallo del
// Mailer también queda registrado (status failed) antes de propagarse.
func (uc *EmailUseCase) send(ctx context.Context, inv *entity.Invoice, emailType string, msg Message) (string, error) {
	now := time.Now().UTC()
	emailID, sendErr := uc.mailer.Send(ctx, msg)

	entry := entity.EmailLogEntry{
		ID:           uuid.New().String(),
		EmailType:    emailType,
		SentTo:       msg.To,
		SentAt:       now,
		Status:       entity.EmailStatusSent,
		EmailID:      emailID,
		PDFGenerated: msg.Attachment != nil,
	}
	if sendErr != nil {
		entry.Status = entity.EmailStatusFailed
		entry.EmailID = ""
	}
	inv.AppendEmailLog(entry)

	if err := uc.invoiceRepo.Save(inv); err != nil {
		return "", fmt.Errorf("email: persistir log: %w", err)
	}
	if sendErr != nil {
		return "", fmt.Errorf("email: enviar %s: %w", emailType, sendErr)
	}
	return emailID, nil
}

// SendInvoice envía la factura al cliente con el PDF adjunto, generándolo si
// aún no existe. Si la factura estaba en draft, el envío la promueve a sent
// con su entrada de auditoría. Implementa InvoiceSender para la creación.
func (uc *EmailUseCase) SendInvoice(ctx context.Context, actor entity.Actor, invoiceID string, in dto.SendInvoiceRequest) (*dto.EmailSentResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := authorizeInvoiceActor(inv, actor); err != nil {
		return nil, err
	}
	if actor.Role == entity.ActorRoleClient {
		return nil, domain.ErrUnauthorized
	}
	issuer, client, err := uc.loadParties(inv)
	if err != nil {
		return nil, err
	}

	pdfData, err := uc.pdf.ensurePDF(ctx, inv)
	if err != nil {
		return nil, err
	}

	html, err := renderTemplate(invoiceEmailTmpl, invoiceEmailData{
		InvoiceNumber: inv.InvoiceNumber,
		ClientCompany: client.Company.Name,
		CustomMessage: in.CustomMessage,
		TotalAmount:   inv.TotalAmount,
		InvoiceDate:   inv.InvoiceDate.Format(emailDateLayout),
		DueDate:       inv.DueDate.Format(emailDateLayout),
		Status:        inv.Status,
		UserName:      issuer.Name,
		CompanyName:   issuer.Business.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	msg := Message{
		To:       client.Email,
		ToName:   client.Name,
		FromName: issuer.Name,
		Subject:  fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, issuerCompany(issuer)),
		HTML:     html,
		Attachment: &Attachment{
			Filename:    fmt.Sprintf("Invoice-%s.pdf", inv.InvoiceNumber),
			Content:     pdfData,
			ContentType: "application/pdf",
		},
	}

	emailID, err := uc.send(ctx, inv, entity.EmailTypeInvoiceSent, msg)
	if err != nil {
		return nil, err
	}

	// Solo el envío exitoso saca la factura de draft.
	if inv.Status == entity.StatusDraft {
		inv.SetStatus(entity.StatusSent, actor, "Invoice emailed to client", time.Now().UTC(), uuid.New().String())
		if err := uc.invoiceRepo.Save(inv); err != nil {
			return nil, fmt.Errorf("email: persistir promoción a sent: %w", err)
		}
	}
	return &dto.EmailSentResponse{EmailID: emailID, SentTo: client.Email}, nil
}

// SendReminder envía un recordatorio de pago (gentle, urgent o final).
func (uc *EmailUseCase) SendReminder(ctx context.Context, userID, invoiceID string, in dto.SendReminderRequest) (*dto.EmailSentResponse, error) {
	reminderType := in.ReminderType
	if reminderType == "" {
		reminderType = dto.ReminderGentle
	}
	message, ok := reminderMessages[reminderType]
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	issuer, client, err := uc.loadParties(inv)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	html, err := renderTemplate(reminderEmailTmpl, reminderEmailData{
		InvoiceNumber:   inv.InvoiceNumber,
		ClientCompany:   client.Company.Name,
		ReminderMessage: message,
		CustomMessage:   in.CustomMessage,
		DueDate:         inv.DueDate.Format(emailDateLayout),
		RemainingAmount: inv.RemainingAmount,
		DaysOverdue:     daysOverdue(inv.DueDate, now),
		UserName:        issuer.Name,
		CompanyName:     issuer.Business.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	msg := Message{
		To:       client.Email,
		ToName:   client.Name,
		FromName: issuer.Name,
		Subject:  fmt.Sprintf("Payment Reminder - Invoice %s", inv.InvoiceNumber),
		HTML:     html,
	}
	emailID, err := uc.send(ctx, inv, entity.EmailTypePaymentReminder, msg)
	if err != nil {
		return nil, err
	}
	return &dto.EmailSentResponse{EmailID: emailID, SentTo: client.Email}, nil
}

// SendPaymentConfirmation registra el pago a través del ciclo de vida y envía
// la confirmación al cliente con el estado resultante.
func (uc *EmailUseCase) SendPaymentConfirmation(ctx context.Context, userID, invoiceID string, in dto.AddPaymentRequest) (*dto.EmailSentResponse, error) {
	if _, err := uc.lifecycle.AddPayment(ctx, entity.UserActor(userID), invoiceID, in); err != nil {
		return nil, err
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	issuer, client, err := uc.loadParties(inv)
	if err != nil {
		return nil, err
	}

	html, err := renderTemplate(paymentReceivedTmpl, paymentEmailData{
		InvoiceNumber:   inv.InvoiceNumber,
		ClientCompany:   client.Company.Name,
		AmountPaid:      in.Amount,
		Method:          inv.Payments[len(inv.Payments)-1].Method,
		PaidAt:          time.Now().UTC().Format(emailDateLayout),
		Status:          inv.Status,
		HasBalance:      inv.RemainingAmount.IsPositive(),
		RemainingAmount: inv.RemainingAmount,
		UserName:        issuer.Name,
		CompanyName:     issuer.Business.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	msg := Message{
		To:       client.Email,
		ToName:   client.Name,
		FromName: issuer.Name,
		Subject:  fmt.Sprintf("Payment Received - Invoice %s", inv.InvoiceNumber),
		HTML:     html,
	}
	emailID, err := uc.send(ctx, inv, entity.EmailTypePaymentReceived, msg)
	if err != nil {
		return nil, err
	}
	return &dto.EmailSentResponse{EmailID: emailID, SentTo: client.Email}, nil
}

// SendBulkReminders envía recordatorios a un lote de facturas. Solo son
// elegibles las facturas del emisor con saldo abierto (sent, viewed, overdue
// o partial_paid); los errores se acumulan por factura sin abortar el lote.
func (uc *EmailUseCase) SendBulkReminders(ctx context.Context, userID string, in dto.BulkReminderRequest) (*dto.BulkReminderResponse, error) {
	if len(in.InvoiceIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.BulkReminderResponse{}

	for _, invoiceID := range in.InvoiceIDs {
		inv, err := uc.invoiceRepo.GetByID(invoiceID)
		if err != nil || inv.UserID != userID {
			out.Errors = append(out.Errors, dto.BulkReminderResult{InvoiceID: invoiceID, Error: "Invoice not found"})
			continue
		}
		switch inv.Status {
		case entity.StatusSent, entity.StatusViewed, entity.StatusOverdue, entity.StatusPartialPaid:
		default:
			out.Errors = append(out.Errors, dto.BulkReminderResult{InvoiceID: invoiceID, Error: "Invoice not found"})
			continue
		}

		res, err := uc.SendReminder(ctx, userID, invoiceID, dto.SendReminderRequest{ReminderType: in.ReminderType})
		if err != nil {
			out.Errors = append(out.Errors, dto.BulkReminderResult{InvoiceID: invoiceID, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, dto.BulkReminderResult{
			InvoiceID:     invoiceID,
			InvoiceNumber: inv.InvoiceNumber,
			SentTo:        res.SentTo,
			EmailID:       res.EmailID,
		})
	}
	out.TotalSent = len(out.Results)
	out.TotalErrors = len(out.Errors)
	return out, nil
}

// GetEmailLogs retorna el historial de notificaciones de la factura, del más
// reciente al más antiguo.
func (uc *EmailUseCase) GetEmailLogs(ctx context.Context, userID, invoiceID string) ([]dto.EmailLogResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	logs := make([]dto.EmailLogResponse, 0, len(inv.EmailLog))
	for _, e := range inv.EmailLog {
		logs = append(logs, toEmailLogResponse(e))
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].SentAt.After(logs[j].SentAt) })
	return logs, nil
}

var _ InvoiceSender = (*EmailUseCase)(nil)
