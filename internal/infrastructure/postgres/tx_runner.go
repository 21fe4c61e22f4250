package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var tracer = otel.Tracer("notas-credito-api/postgres")

// TxRunner implementa los TxRunner de inventario, facturación y notas crédito.
var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ billing.TxRunner    = (*TxRunner)(nil)
	_ creditnote.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + bloqueos de fila).
type TxRunner struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. statementTimeout <= 0 = sin SET LOCAL.
func NewTxRunner(pool *pgxpool.Pool, statementTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, statementTimeout: statementTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) (err error) {
	ctx, span := tracer.Start(ctx, "db.transaction", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("tx.isolation", string(pgx.ReadCommitted)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.statementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.statementTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgTx repos atados a una pgx.Tx (o a un savepoint de ella).
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Products() repository.ProductRepository        { return NewProductRepository(t.tx) }
func (t *pgTx) Movements() repository.StockMovementRepository { return NewStockMovementRepository(t.tx) }
func (t *pgTx) CreditNotes() repository.CreditNoteRepository  { return NewCreditNoteRepository(t.tx) }
func (t *pgTx) Invoices() repository.InvoiceRepository        { return NewInvoiceRepository(t.tx) }

// Savepoint usa la tx anidada de pgx (SAVEPOINT / ROLLBACK TO SAVEPOINT / RELEASE).
func (t *pgTx) Savepoint(ctx context.Context, fn func(tx repository.Tx) error) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(&pgTx{tx: sp}); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback savepoint: %v)", err, rbErr)
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
