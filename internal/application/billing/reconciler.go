package billing

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// Balance resultado de la conciliación de una factura.
type Balance struct {
	InvoiceID        int64
	TotalAmount      decimal.Decimal
	Payments         decimal.Decimal
	ActiveCredits    decimal.Decimal
	BalanceRemaining decimal.Decimal
}

// Reconciler recalcula el saldo de una factura desde las filas fuente:
// balance_remaining = total_amount - Σ pagos - Σ total_amount de notas crédito ISSUED/PENDING.
// Siempre es un recálculo completo, nunca un delta incremental, para que reintentos o
// incrementos perdidos no acumulen deriva.
type Reconciler struct {
	txRunner TxRunner
	log      zerolog.Logger
}

// NewReconciler construye el conciliador.
func NewReconciler(txRunner TxRunner, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		txRunner: txRunner,
		log:      log.With().Str("component", "invoice_reconciler").Logger(),
	}
}

// Reconcile recalcula el saldo en su propia transacción (útil para reconstruir una proyección vieja).
func (r *Reconciler) Reconcile(ctx context.Context, invoiceID int64) (*Balance, error) {
	var b *Balance
	err := r.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		b, err = r.compute(ctx, tx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ReconcileInTx recalcula el saldo dentro de la transacción del caller, aislado en un SAVEPOINT:
// si falla, sólo se deshace la conciliación y el caller decide (la transición sigue en pie).
func (r *Reconciler) ReconcileInTx(ctx context.Context, tx repository.Tx, invoiceID int64) (*Balance, error) {
	var b *Balance
	err := tx.Savepoint(ctx, func(tx repository.Tx) error {
		var err error
		b, err = r.compute(ctx, tx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reconciler) compute(ctx context.Context, tx repository.Tx, invoiceID int64) (*Balance, error) {
	inv, err := tx.Invoices().GetForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := tx.Invoices().SumPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	credits, err := tx.CreditNotes().SumActiveByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	balance := inv.TotalAmount.Sub(payments).Sub(credits)
	if err := tx.Invoices().UpdateBalance(ctx, invoiceID, balance); err != nil {
		return nil, err
	}
	r.log.Debug().
		Int64("invoice_id", invoiceID).
		Str("total", inv.TotalAmount.String()).
		Str("payments", payments.String()).
		Str("credits", credits.String()).
		Str("balance", balance.String()).
		Msg("saldo de factura recalculado")
	return &Balance{
		InvoiceID:        invoiceID,
		TotalAmount:      inv.TotalAmount,
		Payments:         payments,
		ActiveCredits:    credits,
		BalanceRemaining: balance,
	}, nil
}
