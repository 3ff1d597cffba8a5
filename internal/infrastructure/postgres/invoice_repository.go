package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL. El
// agregado se persiste como documento: columnas escalares para lo consultable
// y JSONB para items, pagos e historiales, de modo que cada escritura cubra la
// frontera de consistencia completa en un solo statement.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, user_id, client_id, invoice_number, invoice_date, due_date, status,
	items, payments, status_log, email_log,
	subtotal, tax_amount, discount_amount, total_amount, total_paid, remaining_amount,
	notes, terms, pdf_path, client_viewed_at, last_client_access, allow_client_edit,
	version, created_at, updated_at`

type invoiceDoc struct {
	items     []byte
	payments  []byte
	statusLog []byte
	emailLog  []byte
}

func marshalInvoiceDoc(inv *entity.Invoice) (invoiceDoc, error) {
	var doc invoiceDoc
	var err error
	if doc.items, err = json.Marshal(inv.Items); err != nil {
		return doc, fmt.Errorf("marshal items: %w", err)
	}
	if doc.payments, err = json.Marshal(inv.Payments); err != nil {
		return doc, fmt.Errorf("marshal payments: %w", err)
	}
	if doc.statusLog, err = json.Marshal(inv.StatusLog); err != nil {
		return doc, fmt.Errorf("marshal status_log: %w", err)
	}
	if doc.emailLog, err = json.Marshal(inv.EmailLog); err != nil {
		return doc, fmt.Errorf("marshal email_log: %w", err)
	}
	return doc, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv entity.Invoice
		doc invoiceDoc
	)
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.DueDate, &inv.Status,
		&doc.items, &doc.payments, &doc.statusLog, &doc.emailLog,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount, &inv.TotalPaid, &inv.RemainingAmount,
		&inv.Notes, &inv.Terms, &inv.PDFPath, &inv.ClientViewedAt, &inv.LastClientAccess, &inv.AllowClientEdit,
		&inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc.items, &inv.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(doc.payments, &inv.Payments); err != nil {
		return nil, fmt.Errorf("unmarshal payments: %w", err)
	}
	if err := json.Unmarshal(doc.statusLog, &inv.StatusLog); err != nil {
		return nil, fmt.Errorf("unmarshal status_log: %w", err)
	}
	if err := json.Unmarshal(doc.emailLog, &inv.EmailLog); err != nil {
		return nil, fmt.Errorf("unmarshal email_log: %w", err)
	}
	return &inv, nil
}

// Create inserta el agregado completo en versión 0.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	doc, err := marshalInvoiceDoc(inv)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23,
		        $24, $25, $26)`
	_, err = r.q.Exec(context.Background(), query,
		inv.ID, inv.UserID, inv.ClientID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate, inv.Status,
		doc.items, doc.payments, doc.statusLog, doc.emailLog,
		inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount, inv.TotalPaid, inv.RemainingAmount,
		inv.Notes, inv.Terms, inv.PDFPath, inv.ClientViewedAt, inv.LastClientAccess, inv.AllowClientEdit,
		inv.Version, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Save sobrescribe el agregado completo en una sola escritura atómica,
// verificando la versión leída. Si el documento cambió desde la lectura
// retorna domain.ErrVersionMismatch; la versión del agregado en memoria se
// incrementa tras el éxito.
func (r *InvoiceRepo) Save(inv *entity.Invoice) error {
	doc, err := marshalInvoiceDoc(inv)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices SET
			invoice_date = $3, due_date = $4, status = $5,
			items = $6, payments = $7, status_log = $8, email_log = $9,
			subtotal = $10, tax_amount = $11, discount_amount = $12,
			total_amount = $13, total_paid = $14, remaining_amount = $15,
			notes = $16, terms = $17, pdf_path = $18,
			client_viewed_at = $19, last_client_access = $20, allow_client_edit = $21,
			version = version + 1, updated_at = $22
		WHERE id = $1 AND version = $2`
	now := time.Now().UTC()
	tag, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Version,
		inv.InvoiceDate, inv.DueDate, inv.Status,
		doc.items, doc.payments, doc.statusLog, doc.emailLog,
		inv.Subtotal, inv.TaxAmount, inv.DiscountAmount,
		inv.TotalAmount, inv.TotalPaid, inv.RemainingAmount,
		inv.Notes, inv.Terms, inv.PDFPath,
		inv.ClientViewedAt, inv.LastClientAccess, inv.AllowClientEdit,
		now,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := r.q.QueryRow(context.Background(),
			`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, inv.ID).Scan(&exists)
		if checkErr == nil && !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionMismatch
	}
	inv.Version++
	inv.UpdatedAt = now
	return nil
}

// GetByID obtiene el agregado completo.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// ListByUser lista las facturas del emisor, más recientes primero.
func (r *InvoiceRepo) ListByUser(userID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(query, userID)
}

// ListByClient lista las facturas del cliente, más recientes primero.
func (r *InvoiceRepo) ListByClient(clientID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY created_at DESC`
	return r.list(query, clientID)
}

// ListOverdue lista facturas vencidas con saldo abierto, ordenadas por
// vencimiento ascendente. limit <= 0 significa sin límite.
func (r *InvoiceRepo) ListOverdue(userID string, now time.Time, limit int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		  AND due_date < $2
		  AND status IN ('sent', 'viewed', 'partial_paid')
		ORDER BY due_date ASC`
	if limit > 0 {
		return r.list(query+fmt.Sprintf(" LIMIT %d", limit), userID, now)
	}
	return r.list(query, userID, now)
}

// CountByClient cuenta las facturas emitidas a un cliente.
func (r *InvoiceRepo) CountByClient(clientID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM invoices WHERE client_id = $1`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return count, nil
}

// Delete borra la factura. La guarda de negocio (sin pagos, en draft o
// cancelled) es responsabilidad del caso de uso.
func (r *InvoiceRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats agrega conteos por estado, totales y la serie mensual del año dado.
func (r *InvoiceRepo) Stats(userID string, year int) (*repository.InvoiceStats, error) {
	ctx := context.Background()
	stats := &repository.InvoiceStats{StatusCounts: repository.StatusCounts{}}
	for _, s := range entity.ValidStatuses {
		stats.StatusCounts[s] = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM invoices
		WHERE user_id = $1 AND EXTRACT(YEAR FROM invoice_date) = $2
		GROUP BY status`, userID, year)
	if err != nil {
		return nil, fmt.Errorf("stats por estado: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.StatusCounts[status] = count
		stats.TotalInvoices += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(total_paid), 0), COALESCE(SUM(remaining_amount), 0)
		FROM invoices
		WHERE user_id = $1 AND EXTRACT(YEAR FROM invoice_date) = $2`, userID, year).
		Scan(&stats.TotalAmount, &stats.TotalPaid, &stats.TotalPending)
	if err != nil {
		return nil, fmt.Errorf("stats totales: %w", err)
	}

	monthly, err := r.q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM invoice_date)::int AS month,
		       COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(total_paid), 0)
		FROM invoices
		WHERE user_id = $1 AND EXTRACT(YEAR FROM invoice_date) = $2
		GROUP BY month
		ORDER BY month`, userID, year)
	if err != nil {
		return nil, fmt.Errorf("stats mensuales: %w", err)
	}
	defer monthly.Close()
	for monthly.Next() {
		var m repository.MonthlyStat
		if err := monthly.Scan(&m.Month, &m.Count, &m.TotalAmount, &m.TotalPaid); err != nil {
			return nil, fmt.Errorf("scan stats mensuales: %w", err)
		}
		stats.Monthly = append(stats.Monthly, m)
	}
	return stats, monthly.Err()
}
