package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// BankDetails cuenta bancaria del negocio (aparece en el PDF).
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

// BusinessDetails datos del negocio emisor.
type BusinessDetails struct {
	CompanyName string      `json:"company_name"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	GSTNo       string      `json:"gst_no"`
	Bank        BankDetails `json:"bank"`
}

// User representa el negocio emisor de facturas (tenant).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, user
	Business     BusinessDetails
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
