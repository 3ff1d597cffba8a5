package billing

import (
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toActorResponse(a entity.Actor) dto.ActorResponse {
	return dto.ActorResponse{UserID: a.UserID, ClientID: a.ClientID, Role: a.Role}
}

// toInvoiceResponse mapea el agregado completo, historiales incluidos.
// clientName puede ir vacío si el caller no cargó el cliente.
func toInvoiceResponse(inv *entity.Invoice, clientName string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		UserID:          inv.UserID,
		ClientID:        inv.ClientID,
		ClientName:      clientName,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate.Format(dateLayout),
		DueDate:         inv.DueDate.Format(dateLayout),
		Status:          inv.Status,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		TotalAmount:     inv.TotalAmount,
		TotalPaid:       inv.TotalPaid,
		RemainingAmount: inv.RemainingAmount,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		PDFPath:         inv.PDFPath,
		ClientViewedAt:  inv.ClientViewedAt,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Items:           make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		Payments:        make([]dto.PaymentResponse, 0, len(inv.Payments)),
		StatusLog:       make([]dto.StatusChangeResponse, 0, len(inv.StatusLog)),
		EmailLog:        make([]dto.EmailLogResponse, 0, len(inv.EmailLog)),
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
			TaxRate:     it.TaxRate,
		})
	}
	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:            p.ID,
			AmountPaid:    p.AmountPaid,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			PaidAt:        p.PaidAt,
			RecordedBy:    toActorResponse(p.RecordedBy),
		})
	}
	for _, sc := range inv.StatusLog {
		resp.StatusLog = append(resp.StatusLog, dto.StatusChangeResponse{
			ID:        sc.ID,
			OldStatus: sc.OldStatus,
			NewStatus: sc.NewStatus,
			ChangedBy: toActorResponse(sc.ChangedBy),
			Reason:    sc.Reason,
			ChangedAt: sc.ChangedAt,
		})
	}
	for _, e := range inv.EmailLog {
		resp.EmailLog = append(resp.EmailLog, toEmailLogResponse(e))
	}
	return resp
}

func toEmailLogResponse(e entity.EmailLogEntry) dto.EmailLogResponse {
	return dto.EmailLogResponse{
		ID:           e.ID,
		EmailType:    e.EmailType,
		SentTo:       e.SentTo,
		SentAt:       e.SentAt,
		Status:       e.Status,
		EmailID:      e.EmailID,
		PDFGenerated: e.PDFGenerated,
	}
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Name:   c.Name,
		Email:  c.Email,
		Company: dto.ClientCompanyDTO{
			Name:    c.Company.Name,
			Address: c.Company.Address,
			GSTNo:   c.Company.GSTNo,
		},
	}
}
