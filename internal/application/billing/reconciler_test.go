package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedNote(t *testing.T, store *memory.Store, invoiceID int64, total string, status entity.CreditNoteStatus) {
	t.Helper()
	err := store.Run(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		number, err := tx.CreditNotes().NextNumber(ctx)
		if err != nil {
			return err
		}
		return tx.CreditNotes().Create(ctx, &entity.CreditNote{
			Number:      number,
			CustomerID:  1,
			InvoiceID:   &invoiceID,
			Reason:      "devolución",
			TotalAmount: d(total),
			Status:      status,
		})
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, store *memory.Store, invoiceID int64) decimal.Decimal {
	t.Helper()
	var bal decimal.Decimal
	err := store.Run(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		inv, err := tx.Invoices().GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		bal = inv.BalanceRemaining
		return nil
	})
	require.NoError(t, err)
	return bal
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_TotalMenosPagosMenosNotasActivas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	inv := store.SeedInvoice(&entity.Invoice{Number: "FV-100", CustomerID: 1, TotalAmount: d("1000.00"), BalanceRemaining: d("1000.00")})
	store.SeedPayment(inv.ID, d("300.00"))
	store.SeedPayment(inv.ID, d("50.50"))
	seedNote(t, store, inv.ID, "100.00", entity.CreditNoteStatusIssued)
	seedNote(t, store, inv.ID, "25.25", entity.CreditNoteStatusPending)
	seedNote(t, store, inv.ID, "400.00", entity.CreditNoteStatusVoid)
	seedNote(t, store, inv.ID, "80.00", entity.CreditNoteStatusRefunded)

	r := billing.NewReconciler(store, zerolog.Nop())
	b, err := r.Reconcile(ctx, inv.ID)
	require.NoError(t, err)

	assert.True(t, d("350.50").Equal(b.Payments), "pagos: %s", b.Payments)
	assert.True(t, d("125.25").Equal(b.ActiveCredits), "sólo ISSUED/PENDING: %s", b.ActiveCredits)
	assert.True(t, d("524.25").Equal(b.BalanceRemaining), "saldo: %s", b.BalanceRemaining)
	assert.True(t, d("524.25").Equal(balanceOf(t, store, inv.ID)))
}

func TestReconcile_EsRecalculoCompletoNoDelta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	// Saldo persistido con deriva: el recálculo lo ignora
	inv := store.SeedInvoice(&entity.Invoice{Number: "FV-101", TotalAmount: d("200.00"), BalanceRemaining: d("-999.00")})
	r := billing.NewReconciler(store, zerolog.Nop())

	for i := 0; i < 3; i++ {
		b, err := r.Reconcile(ctx, inv.ID)
		require.NoError(t, err)
		assert.True(t, d("200.00").Equal(b.BalanceRemaining))
	}
}

func TestReconcile_FacturaInexistente(t *testing.T) {
	r := billing.NewReconciler(memory.NewStore(), zerolog.Nop())
	_, err := r.Reconcile(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcileInTx_FalloSoloDeshaceElSavepoint(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	inv := store.SeedInvoice(&entity.Invoice{Number: "FV-102", TotalAmount: d("100.00"), BalanceRemaining: d("100.00")})
	store.FailBalanceUpdates(errors.New("conexión perdida"))
	r := billing.NewReconciler(store, zerolog.Nop())

	var reconcileErr error
	err := store.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.Products().Create(ctx, &entity.Product{SKU: "P-1", Name: "P", StockUnit: entity.StockUnitPCS}); err != nil {
			return err
		}
		_, reconcileErr = r.ReconcileInTx(ctx, tx, inv.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Error(t, reconcileErr)

	// El trabajo previo al savepoint se confirmó
	err = store.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		_, err := tx.Products().GetByID(ctx, 1)
		return err
	})
	assert.NoError(t, err)
	assert.True(t, d("100.00").Equal(balanceOf(t, store, inv.ID)))
}
