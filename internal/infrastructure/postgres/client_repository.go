package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL. Los datos
// de la empresa del cliente van en una columna JSONB.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c       entity.Client
		company []byte
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.PasswordHash, &company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(company, &c.Company); err != nil {
		return nil, fmt.Errorf("unmarshal company: %w", err)
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	company, err := json.Marshal(client.Company)
	if err != nil {
		return fmt.Errorf("marshal company: %w", err)
	}
	query := `
		INSERT INTO clients (id, user_id, name, email, password_hash, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(context.Background(), query,
		client.ID, client.UserID, client.Name, client.Email, client.PasswordHash, company,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `
		SELECT id, user_id, name, email, password_hash, company, created_at, updated_at
		FROM clients WHERE id = $1`
	c, err := scanClient(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByEmail obtiene un cliente por email (login del portal).
func (r *ClientRepo) GetByEmail(email string) (*entity.Client, error) {
	query := `
		SELECT id, user_id, name, email, password_hash, company, created_at, updated_at
		FROM clients WHERE email = $1`
	c, err := scanClient(r.q.QueryRow(context.Background(), query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get client by email: %w", err)
	}
	return c, nil
}

// ListByUser lista los clientes del usuario emisor.
func (r *ClientRepo) ListByUser(userID string) ([]*entity.Client, error) {
	query := `
		SELECT id, user_id, name, email, password_hash, company, created_at, updated_at
		FROM clients WHERE user_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update sobrescribe los datos del cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	company, err := json.Marshal(client.Company)
	if err != nil {
		return fmt.Errorf("marshal company: %w", err)
	}
	query := `
		UPDATE clients SET name = $2, email = $3, password_hash = $4, company = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Email, client.PasswordHash, company, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el cliente. La guarda (sin facturas) es del caso de uso.
func (r *ClientRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
