// Package memory implementa los puertos de persistencia en memoria.
// Se usa con DB_DRIVER=memory (desarrollo local) y en las pruebas de la capa de aplicación.
// Las transacciones se serializan con un único mutex y se deshacen restaurando una copia del estado.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

type state struct {
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	notes     map[int64]*entity.CreditNote
	lines     []*entity.CreditNoteLine
	invoices  map[int64]*entity.Invoice
	payments  []*entity.Payment

	nextProduct  int64
	nextMovement int64
	nextNote     int64
	nextLine     int64
	nextNumber   int64
	nextInvoice  int64
	nextPayment  int64
}

func newState() *state {
	return &state{
		products: make(map[int64]*entity.Product),
		notes:    make(map[int64]*entity.CreditNote),
		invoices: make(map[int64]*entity.Invoice),
	}
}

func (s *state) clone() *state {
	c := *s
	c.products = make(map[int64]*entity.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	c.notes = make(map[int64]*entity.CreditNote, len(s.notes))
	for k, v := range s.notes {
		c.notes[k] = copyNote(v)
	}
	c.invoices = make(map[int64]*entity.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		inv := *v
		c.invoices[k] = &inv
	}
	// Movimientos, líneas y pagos son inmutables: basta copiar el slice.
	c.movements = append([]*entity.StockMovement(nil), s.movements...)
	c.lines = append([]*entity.CreditNoteLine(nil), s.lines...)
	c.payments = append([]*entity.Payment(nil), s.payments...)
	return &c
}

// Store almacén en memoria. Implementa TxRunner para inventario, notas crédito y facturación.
type Store struct {
	mu   sync.Mutex
	data *state

	// failBalance simula una caída al escribir el saldo de una factura.
	failBalance error
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn en una "transacción": serializada y con rollback completo si fn devuelve error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &memTx{store: s, st: s.data}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// FailBalanceUpdates hace que UpdateBalance falle con err (nil lo desactiva).
func (s *Store) FailBalanceUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBalance = err
}

// SeedInvoice registra una factura (el CRUD de facturas es externo a este servicio).
func (s *Store) SeedInvoice(inv *entity.Invoice) *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == 0 {
		s.data.nextInvoice++
		inv.ID = s.data.nextInvoice
	} else if inv.ID > s.data.nextInvoice {
		s.data.nextInvoice = inv.ID
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = time.Now()
	}
	c := *inv
	s.data.invoices[inv.ID] = &c
	return inv
}

// SeedPayment registra un pago aplicado a una factura.
func (s *Store) SeedPayment(invoiceID int64, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextPayment++
	s.data.payments = append(s.data.payments, &entity.Payment{
		ID: s.data.nextPayment, InvoiceID: invoiceID, Amount: amount, PaidAt: time.Now(),
	})
}

type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) Products() repository.ProductRepository        { return productRepo{t} }
func (t *memTx) Movements() repository.StockMovementRepository { return movementRepo{t} }
func (t *memTx) CreditNotes() repository.CreditNoteRepository  { return creditNoteRepo{t} }
func (t *memTx) Invoices() repository.InvoiceRepository        { return invoiceRepo{t} }

func (t *memTx) Savepoint(ctx context.Context, fn func(tx repository.Tx) error) error {
	snapshot := t.st.clone()
	if err := fn(t); err != nil {
		*t.st = *snapshot
		return err
	}
	return nil
}

// ─── productos ───────────────────────────────────────────────────────────────

type productRepo struct{ t *memTx }

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.ReorderLevel != nil {
		v := *p.ReorderLevel
		c.ReorderLevel = &v
	}
	return &c
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	st := r.t.st
	if p.ID == 0 {
		st.nextProduct++
		p.ID = st.nextProduct
	} else if p.ID > st.nextProduct {
		st.nextProduct = p.ID
	}
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	p.UpdatedAt = time.Now()
	st.products[p.ID] = copyProduct(p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.t.st.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("producto", id)
	}
	return copyProduct(p), nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) UpdateStock(_ context.Context, id int64, currentStock, currentStockGrams int64) error {
	p, ok := r.t.st.products[id]
	if !ok {
		return domain.NewNotFoundError("producto", id)
	}
	c := copyProduct(p)
	c.CurrentStock = currentStock
	c.CurrentStockGrams = currentStockGrams
	c.UpdatedAt = time.Now()
	r.t.st.products[id] = c
	return nil
}

// ─── movimientos ─────────────────────────────────────────────────────────────

type movementRepo struct{ t *memTx }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st := r.t.st
	st.nextMovement++
	m.ID = st.nextMovement
	c := *m
	st.movements = append(st.movements, &c)
	return nil
}

func (r movementRepo) ListBySource(_ context.Context, src entity.MovementSource) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.t.st.movements {
		if m.Reference != src.Reference || m.SourceTable != src.Table || m.SourceID == nil || *m.SourceID != src.ID {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return list, nil
}

func (r movementRepo) CountBySource(ctx context.Context, src entity.MovementSource) (int, error) {
	list, err := r.ListBySource(ctx, src)
	return len(list), err
}

func (r movementRepo) ListByProduct(_ context.Context, productID int64, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.t.st.movements) - 1; i >= 0; i-- {
		m := r.t.st.movements[i]
		if m.ProductID != productID {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

// ─── notas crédito ───────────────────────────────────────────────────────────

type creditNoteRepo struct{ t *memTx }

func copyNote(n *entity.CreditNote) *entity.CreditNote {
	c := *n
	if n.InvoiceID != nil {
		v := *n.InvoiceID
		c.InvoiceID = &v
	}
	c.Lines = nil
	return &c
}

func (r creditNoteRepo) NextNumber(_ context.Context) (string, error) {
	r.t.st.nextNumber++
	return fmt.Sprintf("CN-%04d", r.t.st.nextNumber), nil
}

func (r creditNoteRepo) Create(_ context.Context, n *entity.CreditNote) error {
	st := r.t.st
	for _, existing := range st.notes {
		if existing.Number == n.Number {
			return fmt.Errorf("número de nota crédito %s ya existe: %w", n.Number, domain.ErrDuplicate)
		}
	}
	st.nextNote++
	n.ID = st.nextNote
	st.notes[n.ID] = copyNote(n)
	return nil
}

func (r creditNoteRepo) CreateLine(_ context.Context, l *entity.CreditNoteLine) error {
	st := r.t.st
	if _, ok := st.notes[l.CreditNoteID]; !ok {
		return domain.NewNotFoundError("nota crédito", l.CreditNoteID)
	}
	st.nextLine++
	l.ID = st.nextLine
	c := *l
	st.lines = append(st.lines, &c)
	return nil
}

func (r creditNoteRepo) GetByID(_ context.Context, id int64) (*entity.CreditNote, error) {
	n, ok := r.t.st.notes[id]
	if !ok {
		return nil, domain.NewNotFoundError("nota crédito", id)
	}
	return copyNote(n), nil
}

func (r creditNoteRepo) GetForUpdate(ctx context.Context, id int64) (*entity.CreditNote, error) {
	return r.GetByID(ctx, id)
}

func (r creditNoteRepo) GetLines(_ context.Context, creditNoteID int64) ([]*entity.CreditNoteLine, error) {
	var list []*entity.CreditNoteLine
	for _, l := range r.t.st.lines {
		if l.CreditNoteID == creditNoteID {
			c := *l
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r creditNoteRepo) UpdateStatus(_ context.Context, id int64, from []entity.CreditNoteStatus, to entity.CreditNoteStatus) (bool, error) {
	n, ok := r.t.st.notes[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if n.Status == s {
			c := copyNote(n)
			c.Status = to
			c.UpdatedAt = time.Now()
			r.t.st.notes[id] = c
			return true, nil
		}
	}
	return false, nil
}

func (r creditNoteRepo) ListByInvoice(_ context.Context, invoiceID int64) ([]*entity.CreditNote, error) {
	var list []*entity.CreditNote
	for _, n := range r.t.st.notes {
		if n.InvoiceID != nil && *n.InvoiceID == invoiceID {
			list = append(list, copyNote(n))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r creditNoteRepo) SumActiveByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	list, _ := r.ListByInvoice(ctx, invoiceID)
	sum := decimal.Zero
	for _, n := range list {
		if n.Status.Active() {
			sum = sum.Add(n.TotalAmount)
		}
	}
	return sum, nil
}

// ─── facturas ────────────────────────────────────────────────────────────────

type invoiceRepo struct{ t *memTx }

func (r invoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	inv, ok := r.t.st.invoices[id]
	if !ok {
		return nil, domain.NewNotFoundError("factura", id)
	}
	c := *inv
	return &c, nil
}

func (r invoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) SumPayments(_ context.Context, invoiceID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.t.st.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r invoiceRepo) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	if r.t.store.failBalance != nil {
		return r.t.store.failBalance
	}
	inv, ok := r.t.st.invoices[id]
	if !ok {
		return domain.NewNotFoundError("factura", id)
	}
	c := *inv
	c.BalanceRemaining = balance
	c.UpdatedAt = time.Now()
	r.t.st.invoices[id] = &c
	return nil
}
