package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo cabeceras y líneas de notas crédito sobre PostgreSQL.
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

const creditNoteColumns = `id, number, issue_date, customer_id, invoice_id, reason, reason_note,
	subtotal, vat_amount, total_amount, status, created_at, updated_at`

// NextNumber toma el siguiente valor de credit_note_number_seq. Los huecos por rollback son aceptables.
func (r *CreditNoteRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('credit_note_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next credit note number: %w", err)
	}
	return fmt.Sprintf("CN-%04d", n), nil
}

// Create inserta la cabecera y completa ID y marcas de tiempo.
func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	query := `
		INSERT INTO credit_notes (number, issue_date, customer_id, invoice_id, reason, reason_note,
			subtotal, vat_amount, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		n.Number, n.Date, n.CustomerID, n.InvoiceID, n.Reason, n.ReasonNote,
		n.Subtotal, n.VATAmount, n.TotalAmount, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nota crédito %s: %w", n.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

// CreateLine inserta una línea.
func (r *CreditNoteRepo) CreateLine(ctx context.Context, l *entity.CreditNoteLine) error {
	query := `
		INSERT INTO credit_note_lines (credit_note_id, product_id, uom, quantity, units_per_box,
			unit_price_excl_vat, unit_vat, unit_price_incl_vat, line_total, total_qty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		l.CreditNoteID, l.ProductID, l.UOM, l.Quantity, l.UnitsPerBox,
		l.UnitPriceExclVAT, l.UnitVAT, l.UnitPriceInclVAT, l.LineTotal, l.TotalQty,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert credit note line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera (sin líneas).
func (r *CreditNoteRepo) GetByID(ctx context.Context, id int64) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera bloqueando la fila: serializa transiciones concurrentes.
func (r *CreditNoteRepo) GetForUpdate(ctx context.Context, id int64) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditNoteRepo) get(ctx context.Context, query string, id int64) (*entity.CreditNote, error) {
	n, err := scanCreditNote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, getErr(err, "get credit note", "nota crédito", id)
	}
	return n, nil
}

func scanCreditNote(row pgx.Row) (*entity.CreditNote, error) {
	var n entity.CreditNote
	err := row.Scan(
		&n.ID, &n.Number, &n.Date, &n.CustomerID, &n.InvoiceID, &n.Reason, &n.ReasonNote,
		&n.Subtotal, &n.VATAmount, &n.TotalAmount, &n.Status, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetLines líneas de la nota en orden de inserción.
func (r *CreditNoteRepo) GetLines(ctx context.Context, creditNoteID int64) ([]*entity.CreditNoteLine, error) {
	query := `
		SELECT id, credit_note_id, product_id, uom, quantity, units_per_box,
			unit_price_excl_vat, unit_vat, unit_price_incl_vat, line_total, total_qty
		FROM credit_note_lines WHERE credit_note_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, creditNoteID)
	if err != nil {
		return nil, fmt.Errorf("list credit note lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditNoteLine
	for rows.Next() {
		var l entity.CreditNoteLine
		if err := rows.Scan(&l.ID, &l.CreditNoteID, &l.ProductID, &l.UOM, &l.Quantity, &l.UnitsPerBox,
			&l.UnitPriceExclVAT, &l.UnitVAT, &l.UnitPriceInclVAT, &l.LineTotal, &l.TotalQty); err != nil {
			return nil, fmt.Errorf("scan credit note line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus UPDATE condicional: sólo cambia si el estado actual está en from.
func (r *CreditNoteRepo) UpdateStatus(ctx context.Context, id int64, from []entity.CreditNoteStatus, to entity.CreditNoteStatus) (bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE credit_notes SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		id, to, allowed,
	)
	if err != nil {
		return false, fmt.Errorf("update credit note status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByInvoice notas vinculadas a la factura, por ID.
func (r *CreditNoteRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.CreditNote, error) {
	rows, err := r.q.Query(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list credit notes by invoice: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditNote
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// SumActiveByInvoice Σ total_amount de las notas ISSUED/PENDING de la factura.
func (r *CreditNoteRepo) SumActiveByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM credit_notes
		WHERE invoice_id = $1 AND status IN ('ISSUED', 'PENDING')`, invoiceID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum active credit notes: %w", err)
	}
	return sum, nil
}
