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

// InvoiceSender envía la factura recién creada al cliente. Lo implementa el
// caso de uso de email; la creación lo invoca cuando send_email está activo.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, actor entity.Actor, invoiceID string, in dto.SendInvoiceRequest) (*dto.EmailSentResponse, error)
}

// InvoiceUseCase implementa el CRUD del agregado factura para el usuario
// emisor, más las vistas del portal de clientes y el dashboard.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	numbers     *InvoiceNumberService
	sender      InvoiceSender // opcional; nil desactiva el envío al crear
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	numbers *InvoiceNumberService,
	sender InvoiceSender,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		numbers:     numbers,
		sender:      sender,
	}
}

func buildLineItems(in []dto.InvoiceItemRequest) ([]entity.LineItem, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.LineItem, 0, len(in))
	for _, it := range in {
		if it.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity.LessThan(decimal.Zero) || it.Rate.LessThan(decimal.Zero) ||
			it.Amount.LessThan(decimal.Zero) || it.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.LineItem{
			ID:          uuid.New().String(),
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
			TaxRate:     it.TaxRate,
		})
	}
	return items, nil
}

// Create crea la factura en draft, le asigna su número de la secuencia anual
// del emisor y la persiste ya recalculada. Si send_email no viene en false, a
// continuación genera el PDF y la envía al cliente; un fallo del envío no
// anula la creación, solo se reporta en la respuesta.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if userID == "" || in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	items, err := buildLineItems(in.Items)
	if err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()

	// La asignación del número es fail-closed: sin número no hay factura.
	number, err := uc.numbers.Next(userID, now)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		UserID:         userID,
		ClientID:       in.ClientID,
		InvoiceNumber:  number,
		InvoiceDate:    now,
		DueDate:        dueDate,
		Status:         entity.StatusDraft,
		Items:          items,
		DiscountAmount: in.DiscountAmount,
		Notes:          in.Notes,
		Terms:          in.Terms,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	invoice.Recalculate(inv, now, true)

	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	out := &dto.CreateInvoiceResponse{Invoice: *toInvoiceResponse(inv, client.Name)}

	sendEmail := in.SendEmail == nil || *in.SendEmail
	if sendEmail && uc.sender != nil {
		_, sendErr := uc.sender.SendInvoice(ctx, entity.UserActor(userID), inv.ID, dto.SendInvoiceRequest{})
		if sendErr != nil {
			out.EmailError = sendErr.Error()
		} else {
			out.EmailSent = true
			// El envío promueve draft→sent y apendiza al email log;
			// releemos para devolver el agregado actualizado.
			if fresh, err := uc.invoiceRepo.GetByID(inv.ID); err == nil {
				out.Invoice = *toInvoiceResponse(fresh, client.Name)
			}
		}
	}
	return out, nil
}

// GetByID retorna la factura del usuario emisor.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)), nil
}

// GetForClient retorna la factura vista desde el portal del cliente y sella
// los timestamps de acceso (la primera visita fija client_viewed_at). Solo se
// tocan los sellos: el estado y los montos quedan como están.
func (uc *InvoiceUseCase) GetForClient(ctx context.Context, clientID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv.ClientID != clientID {
		return nil, domain.ErrForbidden
	}
	inv.MarkClientAccess(time.Now().UTC())
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("sellar acceso del cliente: %w", err)
	}
	return toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)), nil
}

// List retorna las facturas del usuario emisor, con el nombre del cliente
// resuelto para el listado.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string) ([]dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	clients, err := uc.clientRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv, names[inv.ClientID]))
	}
	return out, nil
}

// ListForClient retorna las facturas del cliente autenticado.
func (uc *InvoiceUseCase) ListForClient(ctx context.Context, clientID string) ([]dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListByClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas del cliente: %w", err)
	}
	name := clientNameFor(uc.clientRepo, clientID)
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv, name))
	}
	return out, nil
}

// Update modifica los campos mutables de la factura y la pasa por el recálculo
// completo. Una factura paid está bloqueada para edición; número, emisor y
// cliente son inmutables siempre.
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if inv.Status == entity.StatusPaid {
		return nil, domain.ErrInvoiceLocked
	}

	if in.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.DueDate = dueDate
	}
	if in.Items != nil {
		items, err := buildLineItems(*in.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.Terms != nil {
		inv.Terms = *in.Terms
	}
	if in.DiscountAmount != nil {
		if in.DiscountAmount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		inv.DiscountAmount = *in.DiscountAmount
	}

	invoice.Recalculate(inv, time.Now().UTC(), false)

	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}
	return toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)), nil
}

// Delete borra la factura solo si nunca registró pagos y está en draft o
// cancelled; cualquier otra debe cancelarse para conservar su historial.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv.UserID != userID {
		return domain.ErrForbidden
	}
	if !inv.CanDelete() {
		return domain.ErrInvoiceNotDeletable
	}
	return uc.invoiceRepo.Delete(id)
}

// Stats arma el dashboard del emisor: agregados por estado y mes del año dado,
// más las cinco facturas vencidas más antiguas.
func (uc *InvoiceUseCase) Stats(ctx context.Context, userID string, year int) (*dto.InvoiceStatsResponse, error) {
	now := time.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	stats, err := uc.invoiceRepo.Stats(userID, year)
	if err != nil {
		return nil, fmt.Errorf("calcular estadísticas: %w", err)
	}
	overdue, err := uc.invoiceRepo.ListOverdue(userID, now, 5)
	if err != nil {
		return nil, fmt.Errorf("listar facturas vencidas: %w", err)
	}
	out := &dto.InvoiceStatsResponse{Stats: *stats}
	for _, inv := range overdue {
		out.OverdueInvoices = append(out.OverdueInvoices, *toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)))
	}
	return out, nil
}

// ListOverdue retorna todas las facturas vencidas con saldo pendiente del
// emisor, ordenadas por vencimiento.
func (uc *InvoiceUseCase) ListOverdue(ctx context.Context, userID string) ([]dto.InvoiceResponse, error) {
	overdue, err := uc.invoiceRepo.ListOverdue(userID, time.Now().UTC(), 0)
	if err != nil {
		return nil, fmt.Errorf("listar facturas vencidas: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(overdue))
	for _, inv := range overdue {
		out = append(out, *toInvoiceResponse(inv, clientNameFor(uc.clientRepo, inv.ClientID)))
	}
	return out, nil
}
