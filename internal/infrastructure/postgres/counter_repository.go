package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implementación de CounterRepository sobre PostgreSQL.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Increment incrementa el contador de la key y retorna el valor nuevo. El
// UPSERT hace que dos llamadas concurrentes nunca vean el mismo valor: el
// incremento ocurre dentro del statement, bajo el lock de la fila.
func (r *CounterRepo) Increment(key string) (int64, error) {
	var value int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO counters (key, value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1
		RETURNING value`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key, err)
	}
	return value, nil
}
