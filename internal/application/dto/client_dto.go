package dto

import "github.com/shopspring/decimal"

// ClientCompanyDTO datos de la empresa del cliente.
type ClientCompanyDTO struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	GSTNo   string `json:"gst_no" validate:"required"`
}

// CreateClientRequest body para POST /api/clients. El password habilita el
// login del cliente en el portal (acceso de lectura a sus facturas).
type CreateClientRequest struct {
	Name     string           `json:"name" validate:"required"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,min=6"`
	Company  ClientCompanyDTO `json:"company" validate:"required"`
}

// UpdateClientRequest body para PUT /api/clients/:id. nil = sin cambio.
type UpdateClientRequest struct {
	Name    *string           `json:"name,omitempty"`
	Email   *string           `json:"email,omitempty" validate:"omitempty,email"`
	Company *ClientCompanyDTO `json:"company,omitempty"`
}

// ClientResponse cliente en respuestas (nunca incluye el hash de password).
type ClientResponse struct {
	ID      string           `json:"id"`
	UserID  string           `json:"user_id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Company ClientCompanyDTO `json:"company"`
}

// ClientDashboardStats conteos y montos del portal del cliente.
type ClientDashboardStats struct {
	TotalInvoices     int             `json:"total_invoices"`
	PaidInvoices      int             `json:"paid_invoices"`
	UnpaidInvoices    int             `json:"unpaid_invoices"`
	OverdueInvoices   int             `json:"overdue_invoices"`
	TotalAmountBilled decimal.Decimal `json:"total_amount_billed"`
	TotalAmountPaid   decimal.Decimal `json:"total_amount_paid"`
	PendingAmount     decimal.Decimal `json:"pending_amount"`
}

// ClientDashboardResponse dashboard del portal del cliente.
type ClientDashboardResponse struct {
	Stats            ClientDashboardStats `json:"stats"`
	RecentInvoices   []InvoiceResponse    `json:"recent_invoices"`
	UpcomingDueDates []InvoiceResponse    `json:"upcoming_due_dates"`
}
