package entity

import "time"

// ClientCompany datos de la empresa del cliente (para PDF y emails).
type ClientCompany struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTNo   string `json:"gst_no"`
}

// Client representa un cliente facturable de un usuario. Tiene acceso de solo
// lectura a sus propias facturas a través del portal (login con email/password).
type Client struct {
	ID           string
	UserID       string // usuario emisor dueño del cliente
	Name         string
	Email        string
	PasswordHash string // bcrypt; nunca plano después de persistir
	Company      ClientCompany
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
