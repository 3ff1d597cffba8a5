package billing_test

import (
	"errors"
	"sync"
	"time"

	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia. Reproducen el contrato de
// los adaptadores reales: escritura atómica del agregado completo, chequeo de
// versión optimista en Save e incremento atómico del contador.

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.LineItem(nil), inv.Items...)
	cp.Payments = append([]entity.Payment(nil), inv.Payments...)
	cp.StatusLog = append([]entity.StatusChange(nil), inv.StatusLog...)
	cp.EmailLog = append([]entity.EmailLogEntry(nil), inv.EmailLog...)
	return &cp
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) Save(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != inv.Version {
		return domain.ErrVersionMismatch
	}
	inv.Version++
	inv.UpdatedAt = time.Now().UTC()
	r.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (r *fakeInvoiceRepo) ListByUser(userID string) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			out = append(out, cloneInvoice(inv))
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClient(clientID string) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			out = append(out, cloneInvoice(inv))
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListOverdue(userID string, now time.Time, limit int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID != userID || !inv.DueDate.Before(now) {
			continue
		}
		switch inv.Status {
		case entity.StatusSent, entity.StatusViewed, entity.StatusPartialPaid:
			out = append(out, cloneInvoice(inv))
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeInvoiceRepo) CountByClient(clientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) Stats(userID string, year int) (*repository.InvoiceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.InvoiceStats{StatusCounts: repository.StatusCounts{}}
	for _, s := range entity.ValidStatuses {
		stats.StatusCounts[s] = 0
	}
	for _, inv := range r.invoices {
		if inv.UserID != userID || inv.InvoiceDate.Year() != year {
			continue
		}
		stats.TotalInvoices++
		stats.StatusCounts[inv.Status]++
		stats.TotalAmount = stats.TotalAmount.Add(inv.TotalAmount)
		stats.TotalPaid = stats.TotalPaid.Add(inv.TotalPaid)
		stats.TotalPending = stats.TotalPending.Add(inv.RemainingAmount)
	}
	return stats, nil
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[string]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]*entity.Client)}
}

func (r *fakeClientRepo) Create(c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByEmail(email string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeClientRepo) ListByUser(userID string) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.clients {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Update(c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

var _ repository.ClientRepository = (*fakeClientRepo)(nil)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeCounterRepo incrementa bajo lock, igual que el UPSERT atómico del
// adaptador real.
type fakeCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
	err    error // si se fija, Increment falla siempre
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: make(map[string]int64)}
}

func (r *fakeCounterRepo) Increment(key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.values[key]++
	return r.values[key], nil
}

var _ repository.CounterRepository = (*fakeCounterRepo)(nil)

var errCounterDown = errors.New("contador no disponible")
