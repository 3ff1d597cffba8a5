package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/invoice-pro/internal/domain/invoice"
)

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-0001", invoice.FormatInvoiceNumber(2026, 1))
	assert.Equal(t, "INV-2026-0042", invoice.FormatInvoiceNumber(2026, 42))
	assert.Equal(t, "INV-2027-9999", invoice.FormatInvoiceNumber(2027, 9999))
	// Más de 4 dígitos no trunca: el padding es mínimo, no máximo.
	assert.Equal(t, "INV-2026-12345", invoice.FormatInvoiceNumber(2026, 12345))
}

func TestCounterKey_ParticionaPorUsuarioYAno(t *testing.T) {
	k1 := invoice.CounterKey("user-a", 2026)
	k2 := invoice.CounterKey("user-b", 2026)
	k3 := invoice.CounterKey("user-a", 2027)

	assert.Equal(t, "invoice_user-a_2026", k1)
	assert.NotEqual(t, k1, k2, "usuarios distintos tienen consecutivos independientes")
	assert.NotEqual(t, k1, k3, "el consecutivo reinicia cada año")
}
