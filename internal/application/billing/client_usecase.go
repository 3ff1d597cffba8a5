package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// ClientUseCase administra los clientes de un usuario emisor y el dashboard
// del portal de clientes.
type ClientUseCase struct {
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository, invoiceRepo repository.InvoiceRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, invoiceRepo: invoiceRepo}
}

// Create registra un cliente del usuario emisor. El password habilita su login
// en el portal y se guarda solo como hash bcrypt.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if userID == "" || in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := uc.clientRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}

	now := time.Now().UTC()
	client := &entity.Client{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Company: entity.ClientCompany{
			Name:    in.Company.Name,
			Address: in.Company.Address,
			GSTNo:   in.Company.GSTNo,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}
	return toClientResponse(client), nil
}

// GetByID retorna un cliente del usuario emisor.
func (uc *ClientUseCase) GetByID(ctx context.Context, userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toClientResponse(client), nil
}

// List retorna los clientes del usuario emisor.
func (uc *ClientUseCase) List(ctx context.Context, userID string) ([]dto.ClientResponse, error) {
	clients, err := uc.clientRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// Update modifica los datos del cliente; el email se normaliza y debe seguir
// siendo único.
func (uc *ClientUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		if email != client.Email {
			if existing, err := uc.clientRepo.GetByEmail(email); err == nil && existing != nil {
				return nil, domain.ErrEmailAlreadyExists
			}
			client.Email = email
		}
	}
	if in.Company != nil {
		client.Company = entity.ClientCompany{
			Name:    in.Company.Name,
			Address: in.Company.Address,
			GSTNo:   in.Company.GSTNo,
		}
	}
	client.UpdatedAt = time.Now().UTC()

	if err := uc.clientRepo.Update(client); err != nil {
		return nil, fmt.Errorf("actualizar cliente: %w", err)
	}
	return toClientResponse(client), nil
}

// Delete borra un cliente solo si no tiene facturas; con facturas emitidas el
// cliente es parte del historial contable y no puede desaparecer.
func (uc *ClientUseCase) Delete(ctx context.Context, userID, id string) error {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return err
	}
	if client.UserID != userID {
		return domain.ErrForbidden
	}
	count, err := uc.invoiceRepo.CountByClient(id)
	if err != nil {
		return fmt.Errorf("contar facturas del cliente: %w", err)
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.clientRepo.Delete(id)
}

// Dashboard arma el resumen del portal del cliente: conteos por estado, montos
// facturados y pendientes, las cinco facturas más recientes y los vencimientos
// de los próximos treinta días.
func (uc *ClientUseCase) Dashboard(ctx context.Context, clientID string) (*dto.ClientDashboardResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.ListByClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas del cliente: %w", err)
	}

	now := time.Now().UTC()
	stats := dto.ClientDashboardStats{
		TotalAmountBilled: decimal.Zero,
		TotalAmountPaid:   decimal.Zero,
		PendingAmount:     decimal.Zero,
	}
	var upcoming []*entity.Invoice
	horizon := now.Add(30 * 24 * time.Hour)

	for _, inv := range invoices {
		stats.TotalInvoices++
		stats.TotalAmountBilled = stats.TotalAmountBilled.Add(inv.TotalAmount)
		switch inv.Status {
		case entity.StatusPaid:
			stats.PaidInvoices++
			stats.TotalAmountPaid = stats.TotalAmountPaid.Add(inv.TotalAmount)
		case entity.StatusSent, entity.StatusViewed:
			stats.UnpaidInvoices++
		}
		if inv.Status != entity.StatusPaid {
			stats.PendingAmount = stats.PendingAmount.Add(inv.RemainingAmount)
		}
		switch inv.Status {
		case entity.StatusSent, entity.StatusViewed, entity.StatusPartialPaid:
			if inv.DueDate.Before(now) {
				stats.OverdueInvoices++
			} else if !inv.DueDate.After(horizon) {
				upcoming = append(upcoming, inv)
			}
		}
	}

	recent := make([]*entity.Invoice, len(invoices))
	copy(recent, invoices)
	sort.Slice(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].DueDate.Before(upcoming[j].DueDate) })
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}

	out := &dto.ClientDashboardResponse{Stats: stats}
	for _, inv := range recent {
		out.RecentInvoices = append(out.RecentInvoices, *toInvoiceResponse(inv, client.Name))
	}
	for _, inv := range upcoming {
		out.UpcomingDueDates = append(out.UpcomingDueDates, *toInvoiceResponse(inv, client.Name))
	}
	return out, nil
}
