package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
	"github.com/tu-usuario/invoice-pro/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login del usuario
// emisor, y login del cliente en el portal de lectura.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, clientRepo repository.ClientRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, clientRepo: clientRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario emisor: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Name == "" || in.Email == "" || len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, _ := uc.userRepo.FindByEmail(email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		Business: entity.BusinessDetails{
			CompanyName: in.Business.CompanyName,
			Address:     in.Business.Address,
			Phone:       in.Business.Phone,
			GSTNo:       in.Business.GSTNo,
			Bank: entity.BankDetails{
				AccountName:   in.Business.Bank.AccountName,
				AccountNumber: in.Business.Bank.AccountNumber,
				BankName:      in.Business.Bank.BankName,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// LoginUser verifica email/password del emisor, genera JWT y retorna token +
// usuario.
func (uc *AuthUseCase) LoginUser(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// LoginClient verifica email/password de un cliente y genera su token del
// portal (rol client: acceso de lectura a sus propias facturas).
func (uc *AuthUseCase) LoginClient(in dto.LoginRequest) (*dto.ClientLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	client, err := uc.clientRepo.GetByEmail(email)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, client.ID, jwt.RoleClient, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.ClientLoginResponse{
		Token: token,
		Client: dto.ClientResponse{
			ID:     client.ID,
			UserID: client.UserID,
			Name:   client.Name,
			Email:  client.Email,
			Company: dto.ClientCompanyDTO{
				Name:    client.Company.Name,
				Address: client.Company.Address,
				GSTNo:   client.Company.GSTNo,
			},
		},
	}, nil
}

// ChangePassword cambia el password del usuario emisor autenticado: verifica
// el password actual contra el hash guardado y persiste el hash del nuevo.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	if userID == "" || in.CurrentPassword == "" || len(in.NewPassword) < 6 {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return uc.userRepo.Update(user)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Business: dto.BusinessDetailsDTO{
			CompanyName: u.Business.CompanyName,
			Address:     u.Business.Address,
			Phone:       u.Business.Phone,
			GSTNo:       u.Business.GSTNo,
			Bank: dto.BankDetailsDTO{
				AccountName:   u.Business.Bank.AccountName,
				AccountNumber: u.Business.Bank.AccountNumber,
				BankName:      u.Business.Bank.BankName,
			},
		},
	}
}
