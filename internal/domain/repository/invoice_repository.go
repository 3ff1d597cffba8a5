package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// StatusCounts conteo de facturas por estado (incluye los siete estados, en cero si no hay).
type StatusCounts map[string]int

// MonthlyStat agregado mensual del año consultado.
type MonthlyStat struct {
	Month       int             `json:"month"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
}

// InvoiceStats resumen financiero por usuario emisor.
type InvoiceStats struct {
	StatusCounts  StatusCounts    `json:"status_counts"`
	TotalInvoices int             `json:"total_invoices"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	Monthly       []MonthlyStat   `json:"monthly"`
}

// InvoiceRepository define el puerto de persistencia del agregado factura.
// El agregado se guarda completo (incluidos historiales) en una sola escritura
// atómica; Save verifica la versión y retorna domain.ErrVersionMismatch si el
// documento cambió desde la lectura.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	Save(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	ListByUser(userID string) ([]*entity.Invoice, error)
	ListByClient(clientID string) ([]*entity.Invoice, error)
	// ListOverdue: dueDate < now y estado en {sent, viewed, partial_paid},
	// ordenadas por vencimiento ascendente. limit <= 0 significa sin límite.
	ListOverdue(userID string, now time.Time, limit int) ([]*entity.Invoice, error)
	CountByClient(clientID string) (int, error)
	Delete(id string) error
	Stats(userID string, year int) (*InvoiceStats, error)
}
