package billing

import (
	"fmt"
	"time"

	"github.com/tu-usuario/invoice-pro/internal/domain/invoice"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// InvoiceNumberService asigna números de factura únicos, crecientes y sin
// huecos por scope (usuario emisor + año). Toda la seguridad frente a
// concurrencia vive en el incremento atómico del contador: no hay lock alguno
// en este servicio.
type InvoiceNumberService struct {
	counters repository.CounterRepository
}

// NewInvoiceNumberService construye el servicio.
func NewInvoiceNumberService(counters repository.CounterRepository) *InvoiceNumberService {
	return &InvoiceNumberService{counters: counters}
}

// Next asigna el siguiente número para el usuario en el año de now.
// Si el incremento atómico falla, no hay número y la factura no debe crearse:
// asignación y creación jamás divergen. Un número reservado por una creación
// que luego falla queda sin usar; nunca se reutiliza.
func (s *InvoiceNumberService) Next(userID string, now time.Time) (string, error) {
	year := now.Year()
	seq, err := s.counters.Increment(invoice.CounterKey(userID, year))
	if err != nil {
		return "", fmt.Errorf("asignar número de factura: %w", err)
	}
	return invoice.FormatInvoiceNumber(year, seq), nil
}
