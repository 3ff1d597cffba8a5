package dto

// BankDetailsDTO cuenta bancaria del negocio.
type BankDetailsDTO struct {
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
}

// BusinessDetailsDTO datos del negocio emisor.
type BusinessDetailsDTO struct {
	CompanyName string         `json:"company_name" validate:"required"`
	Address     string         `json:"address" validate:"required"`
	Phone       string         `json:"phone" validate:"required"`
	GSTNo       string         `json:"gst_no" validate:"required"`
	Bank        BankDetailsDTO `json:"bank" validate:"required"`
}

// RegisterRequest body para POST /api/auth/user-register.
type RegisterRequest struct {
	Name     string             `json:"name" validate:"required"`
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required,min=6"`
	Business BusinessDetailsDTO `json:"business" validate:"required"`
}

// LoginRequest body para POST /api/auth/user-login y /api/auth/client-login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest body para PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UserResponse usuario en respuestas (nunca incluye el hash de password).
type UserResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	Business BusinessDetailsDTO `json:"business"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ClientLoginResponse token + cliente autenticado.
type ClientLoginResponse struct {
	Token  string         `json:"token"`
	Client ClientResponse `json:"client"`
}
