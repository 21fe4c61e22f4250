package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo lectura de facturas y pagos; sólo escribe balance_remaining.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, customer_id, total_amount, balance_remaining, updated_at`

// GetByID obtiene una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate obtiene la factura bloqueando la fila mientras se recalcula su saldo.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query string, id int64) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.TotalAmount, &inv.BalanceRemaining, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, getErr(err, "get invoice", "factura", id)
	}
	return &inv, nil
}

// Create registra una factura con saldo igual al total (la usan la semilla y las pruebas;
// el CRUD de facturas vive fuera de este servicio).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoices (number, customer_id, total_amount, balance_remaining)
		VALUES ($1, $2, $3, $3)
		RETURNING id, balance_remaining, updated_at`,
		inv.Number, inv.CustomerID, inv.TotalAmount,
	).Scan(&inv.ID, &inv.BalanceRemaining, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("factura %s: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// AddPayment registra un pago; el saldo no cambia hasta la siguiente conciliación.
func (r *InvoiceRepo) AddPayment(ctx context.Context, p *entity.Payment) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO invoice_payments (invoice_id, amount) VALUES ($1, $2) RETURNING id, paid_at`,
		p.InvoiceID, p.Amount,
	).Scan(&p.ID, &p.PaidAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// SumPayments Σ de pagos aplicados a la factura.
func (r *InvoiceRepo) SumPayments(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM invoice_payments WHERE invoice_id = $1`, invoiceID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// UpdateBalance escribe el saldo recalculado.
func (r *InvoiceRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET balance_remaining = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update invoice balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("factura", id)
	}
	return nil
}
