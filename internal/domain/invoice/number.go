package invoice

import "fmt"

// CounterKey arma la clave del contador de numeración. El scope es
// usuario + año: cada emisor reinicia su consecutivo en 1 cada año.
func CounterKey(userID string, year int) string {
	return fmt.Sprintf("invoice_%s_%d", userID, year)
}

// FormatInvoiceNumber produce el número visible: INV-<año>-NNNN.
// seq viene del incremento atómico del contador (el primero es 1).
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
