package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invoice-pro/internal/domain"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "invoices/invoice-INV-2026-0001-20260115.pdf"
	require.NoError(t, ls.Put(ctx, key, []byte("%PDF-1.7"), "application/pdf"))

	data, err := ls.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), data)

	require.NoError(t, ls.Delete(ctx, key))
	_, err = ls.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound, "tras borrar la key no debe existir")

	// Borrar de nuevo no es error.
	assert.NoError(t, ls.Delete(ctx, key))
}

func TestLocalStorage_KeyInvalida(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, ls.Put(ctx, "../fuera.pdf", []byte("x"), "application/pdf"))
	_, err = ls.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}
