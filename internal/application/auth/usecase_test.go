package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/application/auth"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeClientRepo struct{}

func (r *fakeClientRepo) Create(c *entity.Client) error                   { return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error)       { return nil, domain.ErrNotFound }
func (r *fakeClientRepo) GetByEmail(email string) (*entity.Client, error) { return nil, domain.ErrNotFound }
func (r *fakeClientRepo) ListByUser(userID string) ([]*entity.Client, error) {
	return nil, nil
}
func (r *fakeClientRepo) Update(c *entity.Client) error { return nil }
func (r *fakeClientRepo) Delete(id string) error        { return nil }

var _ repository.ClientRepository = (*fakeClientRepo)(nil)

func newAuthUC(t *testing.T) (*auth.AuthUseCase, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	uc := auth.NewAuthUseCase(users, &fakeClientRepo{}, auth.JWTConfig{
		Secret:     "secreto-de-test",
		ExpMinutes: 60,
		Issuer:     "invoice-pro-test",
	})
	return uc, users
}

func registerUser(t *testing.T, uc *auth.AuthUseCase, password string) string {
	t.Helper()
	user, err := uc.RegisterUser(dto.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return user.ID
}

// El cambio de password invalida el password anterior para login y habilita
// el nuevo.
func TestChangePassword_RotaElPassword(t *testing.T) {
	uc, _ := newAuthUC(t)
	userID := registerUser(t, uc, "password-vieja")

	err := uc.ChangePassword(userID, dto.ChangePasswordRequest{
		CurrentPassword: "password-vieja",
		NewPassword:     "password-nueva",
	})
	require.NoError(t, err)

	_, err = uc.LoginUser(dto.LoginRequest{Email: "dana@example.com", Password: "password-vieja"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el password anterior deja de servir")

	resp, err := uc.LoginUser(dto.LoginRequest{Email: "dana@example.com", Password: "password-nueva"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestChangePassword_PasswordActualIncorrecto(t *testing.T) {
	uc, _ := newAuthUC(t)
	userID := registerUser(t, uc, "password-vieja")

	err := uc.ChangePassword(userID, dto.ChangePasswordRequest{
		CurrentPassword: "no-es-esa",
		NewPassword:     "password-nueva",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// El password original sigue vigente.
	_, err = uc.LoginUser(dto.LoginRequest{Email: "dana@example.com", Password: "password-vieja"})
	assert.NoError(t, err)
}

func TestChangePassword_Validaciones(t *testing.T) {
	uc, _ := newAuthUC(t)
	userID := registerUser(t, uc, "password-vieja")

	err := uc.ChangePassword(userID, dto.ChangePasswordRequest{
		CurrentPassword: "password-vieja",
		NewPassword:     "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mínimo seis caracteres")

	err = uc.ChangePassword("", dto.ChangePasswordRequest{
		CurrentPassword: "password-vieja",
		NewPassword:     "password-nueva",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin usuario autenticado")
}

func TestChangePassword_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthUC(t)

	err := uc.ChangePassword("nadie", dto.ChangePasswordRequest{
		CurrentPassword: "algo-valido",
		NewPassword:     "password-nueva",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
