package creditnote_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/memory"
)

type fixture struct {
	store     *memory.Store
	auditRepo *memory.AuditRepo
	ledger    *inventory.Ledger
	trail     *audit.Trail
	svc       *creditnote.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	auditRepo := memory.NewAuditRepository()
	ledger := inventory.NewLedger(store, log)
	trail := audit.NewTrail(auditRepo, log, 0)
	svc := creditnote.NewService(store, ledger, billing.NewReconciler(store, log), trail, log)
	return &fixture{store: store, auditRepo: auditRepo, ledger: ledger, trail: trail, svc: svc}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) product(t *testing.T, opening int64) *entity.Product {
	t.Helper()
	p := &entity.Product{SKU: "CAJ-001", Name: "Cajeta 250g", StockUnit: entity.StockUnitPCS, UnitsPerBox: 20}
	require.NoError(t, f.ledger.RegisterProduct(context.Background(), p, opening))
	return p
}

func (f *fixture) invoice(total string) *entity.Invoice {
	return f.store.SeedInvoice(&entity.Invoice{Number: "FV-500", CustomerID: 3, TotalAmount: d(total), BalanceRemaining: d(total)})
}

// issueBox emite una nota de 1 caja (20 piezas) a 100 + 19 de IVA.
func (f *fixture) issueBox(t *testing.T, productID int64, invoiceID *int64) *entity.CreditNote {
	t.Helper()
	res, err := f.svc.Issue(context.Background(), creditnote.IssueRequest{
		CustomerID: 3,
		InvoiceID:  invoiceID,
		Reason:     "producto dañado",
		Lines: []creditnote.IssueLine{{
			ProductID:        productID,
			UOM:              entity.UOMBox,
			Quantity:         decimal.NewFromInt(1),
			UnitPriceExclVAT: d("100.00"),
			UnitVAT:          d("19.00"),
		}},
		ActorID: "u-1",
	})
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	return res.CreditNote
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	snap, err := f.ledger.GetStock(context.Background(), productID)
	require.NoError(t, err)
	return snap.Product.ActiveStock()
}

func (f *fixture) movementCount(t *testing.T, productID int64) int {
	t.Helper()
	movs, err := f.ledger.ListMovements(context.Background(), productID, repository.MovementFilter{})
	require.NoError(t, err)
	return len(movs)
}

func (f *fixture) balance(t *testing.T, invoiceID int64) decimal.Decimal {
	t.Helper()
	var bal decimal.Decimal
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		inv, err := tx.Invoices().GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		bal = inv.BalanceRemaining
		return nil
	}))
	return bal
}

func (f *fixture) actions(t *testing.T, noteID int64) []string {
	t.Helper()
	list, err := f.trail.List(context.Background(), creditnoteAuditEntity, noteID)
	require.NoError(t, err)
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Action)
	}
	return out
}

const creditnoteAuditEntity = "credit_note"

// ──────────────────────────────────────────────────────────────────────────────
// Emisión
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_RegistraEntradaYConcilia(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 80)
	inv := f.invoice("1000.00")

	note := f.issueBox(t, p.ID, &inv.ID)

	assert.Equal(t, "CN-0001", note.Number)
	assert.Equal(t, entity.CreditNoteStatusIssued, note.Status)
	assert.True(t, d("100.00").Equal(note.Subtotal))
	assert.True(t, d("19.00").Equal(note.VATAmount))
	assert.True(t, d("119.00").Equal(note.TotalAmount))
	require.Len(t, note.Lines, 1)
	assert.Equal(t, int64(20), note.Lines[0].TotalQty)
	require.NotNil(t, note.Lines[0].UnitsPerBox)
	assert.Equal(t, 20, *note.Lines[0].UnitsPerBox, "toma unidades por caja del producto")

	assert.Equal(t, int64(100), f.stock(t, p.ID))
	assert.True(t, d("881.00").Equal(f.balance(t, inv.ID)))
	assert.Equal(t, []string{"credit_note.issue"}, f.actions(t, note.ID))

	got, err := f.svc.Get(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
}

func TestIssue_ProductoPorPeso(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := &entity.Product{SKU: "QSO-1", Name: "Queso fresco", StockUnit: entity.StockUnitWeight}
	require.NoError(t, f.ledger.RegisterProduct(ctx, p, 1000))

	res, err := f.svc.Issue(ctx, creditnote.IssueRequest{
		CustomerID: 3,
		Reason:     "devolución",
		Lines: []creditnote.IssueLine{{
			ProductID: p.ID, UOM: entity.UOMKg, Quantity: d("2.5"),
			UnitPriceExclVAT: d("18.40"), UnitVAT: d("0"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), res.CreditNote.Lines[0].TotalQty)
	assert.True(t, d("46.00").Equal(res.CreditNote.TotalAmount))
	assert.False(t, res.Reconciled, "sin factura no hay conciliación")

	snap, err := f.ledger.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), snap.Product.CurrentStockGrams)
}

func TestIssue_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 10)
	missing := int64(77)

	okLine := creditnote.IssueLine{ProductID: p.ID, UOM: entity.UOMPcs, Quantity: d("2"), UnitPriceExclVAT: d("5")}
	cases := []struct {
		name   string
		req    creditnote.IssueRequest
		target error
	}{
		{"sin líneas", creditnote.IssueRequest{CustomerID: 1, Reason: "x"}, domain.ErrInvalidInput},
		{"sin cliente", creditnote.IssueRequest{Reason: "x", Lines: []creditnote.IssueLine{okLine}}, domain.ErrInvalidInput},
		{"sin motivo", creditnote.IssueRequest{CustomerID: 1, Lines: []creditnote.IssueLine{okLine}}, domain.ErrInvalidInput},
		{"estado VOID", creditnote.IssueRequest{CustomerID: 1, Reason: "x", Status: entity.CreditNoteStatusVoid, Lines: []creditnote.IssueLine{okLine}}, domain.ErrInvalidInput},
		{"unidad incompatible", creditnote.IssueRequest{CustomerID: 1, Reason: "x", Lines: []creditnote.IssueLine{{ProductID: p.ID, UOM: entity.UOMKg, Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"cantidad cero", creditnote.IssueRequest{CustomerID: 1, Reason: "x", Lines: []creditnote.IssueLine{{ProductID: p.ID, UOM: entity.UOMPcs, Quantity: d("0")}}}, domain.ErrInvalidInput},
		{"factura inexistente", creditnote.IssueRequest{CustomerID: 1, Reason: "x", InvoiceID: &missing, Lines: []creditnote.IssueLine{okLine}}, domain.ErrNotFound},
		{"producto inexistente", creditnote.IssueRequest{CustomerID: 1, Reason: "x", Lines: []creditnote.IssueLine{{ProductID: 404, UOM: entity.UOMPcs, Quantity: d("1")}}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Issue(ctx, tc.req)
			assert.ErrorIs(t, err, tc.target)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, p.ID), "ninguna emisión fallida deja movimientos")
	assert.Equal(t, 1, f.movementCount(t, p.ID))
}

func TestIssue_NormalizaMotivo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 0)
	res, err := f.svc.Issue(context.Background(), creditnote.IssueRequest{
		CustomerID: 3,
		Reason:     "  producto da\u006e\u0303ado ",
		Lines: []creditnote.IssueLine{{
			ProductID: p.ID, UOM: entity.UOMPcs, Quantity: decimal.NewFromInt(2),
			UnitPriceExclVAT: d("5.00"), UnitVAT: d("0.95"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "producto da\u00f1ado", res.CreditNote.Reason)

	got, err := f.svc.Get(context.Background(), res.CreditNote.ID)
	require.NoError(t, err)
	assert.Equal(t, "producto dañado", got.Reason)
}

func TestIssue_NumeroDuplicado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 0)
	req := creditnote.IssueRequest{
		Number: "NC-2024-001", CustomerID: 1, Reason: "x",
		Lines: []creditnote.IssueLine{{ProductID: p.ID, UOM: entity.UOMPcs, Quantity: d("1")}},
	}
	_, err := f.svc.Issue(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, int64(1), f.stock(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_EscenarioCompleto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 80)
	note := f.issueBox(t, p.ID, nil)
	require.Equal(t, int64(100), f.stock(t, p.ID))

	res, err := f.svc.Void(ctx, note.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusIssued, res.From)
	assert.Equal(t, entity.CreditNoteStatusVoid, res.To)
	assert.Equal(t, 1, res.Movements)
	assert.NotEmpty(t, res.TransitionID)
	assert.Equal(t, int64(80), f.stock(t, p.ID))

	// Segundo void: rechazado sin efectos
	_, err = f.svc.Void(ctx, note.ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(80), f.stock(t, p.ID))

	before := f.movementCount(t, p.ID)
	res, err = f.svc.Restore(ctx, note.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusIssued, res.To)
	assert.Equal(t, int64(100), f.stock(t, p.ID))
	assert.Equal(t, before+1, f.movementCount(t, p.ID), "exactamente un movimiento nuevo")

	got, err := f.svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusIssued, got.Status)

	rep, err := f.ledger.VerifyConsistency(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rep.Consistent)

	assert.Equal(t, []string{
		"credit_note.restore",
		"credit_note.void.rejected",
		"credit_note.void",
		"credit_note.issue",
	}, f.actions(t, note.ID))
}

func TestTransiciones_IdaYVueltaDeSaldo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 0)
	inv := f.invoice("1000.00")
	f.store.SeedPayment(inv.ID, d("200.00"))
	note := f.issueBox(t, p.ID, &inv.ID)
	initial := f.balance(t, inv.ID)
	assert.True(t, d("681.00").Equal(initial), "saldo: %s", initial)

	res, err := f.svc.Void(ctx, note.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.True(t, d("800.00").Equal(f.balance(t, inv.ID)))

	_, err = f.svc.Restore(ctx, note.ID, "")
	require.NoError(t, err)
	assert.True(t, initial.Equal(f.balance(t, inv.ID)))

	_, err = f.svc.Refund(ctx, note.ID, "")
	require.NoError(t, err)
	assert.True(t, d("800.00").Equal(f.balance(t, inv.ID)))
	assert.Equal(t, int64(0), f.stock(t, p.ID))
}

func TestRefund_SobreNotaAnuladaEsRechazado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 80)
	note := f.issueBox(t, p.ID, nil)
	_, err := f.svc.Void(ctx, note.ID, "u-1")
	require.NoError(t, err)
	movs := f.movementCount(t, p.ID)

	_, err = f.svc.Refund(ctx, note.ID, "u-2")
	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, string(entity.CreditNoteStatusVoid), ite.Status)
	assert.Equal(t, "refund", ite.Event)

	assert.Equal(t, movs, f.movementCount(t, p.ID), "sin movimientos nuevos")
	assert.Equal(t, int64(80), f.stock(t, p.ID))

	got, err := f.svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusVoid, got.Status)

	actions := f.actions(t, note.ID)
	require.NotEmpty(t, actions)
	assert.Equal(t, "credit_note.refund.rejected", actions[0])
	assert.Len(t, actions, 3)
}

func TestRestore_SobreNotaEmitidaEsRechazado(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 0)
	note := f.issueBox(t, p.ID, nil)

	_, err := f.svc.Restore(context.Background(), note.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(20), f.stock(t, p.ID))
}

func TestVoid_NotaPendiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 0)
	res, err := f.svc.Issue(ctx, creditnote.IssueRequest{
		CustomerID: 1, Reason: "x", Status: entity.CreditNoteStatusPending,
		Lines: []creditnote.IssueLine{{ProductID: p.ID, UOM: entity.UOMPcs, Quantity: d("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.stock(t, p.ID))

	tr, err := f.svc.Void(ctx, res.CreditNote.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusPending, tr.From)
	assert.Equal(t, int64(0), f.stock(t, p.ID))
}

func TestVoid_NotaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Void(context.Background(), 999, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Void(context.Background(), 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVoid_StockInsuficienteAbortaLaTransicion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 0)
	note := f.issueBox(t, p.ID, nil)
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: 15, Reference: "VENTA-1"})
	require.NoError(t, err)

	_, err = f.svc.Void(ctx, note.ID, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusIssued, got.Status, "estado intacto")
	assert.Equal(t, int64(5), f.stock(t, p.ID))
}

func TestVoid_ReferenciaCompensatoriaAjenaNoDesactivaElReverso(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 100)
	note := f.issueBox(t, p.ID, nil)
	require.Equal(t, int64(120), f.stock(t, p.ID))

	_, err := f.ledger.RecordManualMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 5, Reference: note.Number + entity.ReferenceReverseSuffix})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	// Aun si una fila así existiera, no pertenece a la nota
	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 5, Reference: note.Number + entity.ReferenceReverseSuffix, SourceTable: inventory.SourceManual})
	require.NoError(t, err)

	tr, err := f.svc.Void(ctx, note.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusVoid, tr.To)
	assert.Equal(t, 1, tr.Movements)
	assert.Equal(t, int64(105), f.stock(t, p.ID))
}

func TestVoid_NoRevierteMovimientosAjenosConElMismoNumero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 100)
	note := f.issueBox(t, p.ID, nil)

	_, err := f.ledger.RecordManualMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 50, Reference: note.Number})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 50, Reference: note.Number, SourceTable: inventory.SourceManual})
	require.NoError(t, err)

	tr, err := f.svc.Void(ctx, note.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Movements)
	assert.Equal(t, int64(150), f.stock(t, p.ID))

	tr, err = f.svc.Restore(ctx, note.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Movements)
	assert.Equal(t, int64(170), f.stock(t, p.ID))
}

func TestIssue_RechazaNumerosReservados(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)
	for _, number := range []string{"opening:1", "CN-0009:reverse", "X-1:restore"} {
		t.Run(number, func(t *testing.T) {
			_, err := f.svc.Issue(context.Background(), creditnote.IssueRequest{
				Number:     number,
				CustomerID: 3,
				Reason:     "devolución",
				Lines: []creditnote.IssueLine{{
					ProductID: p.ID, UOM: entity.UOMPcs, Quantity: decimal.NewFromInt(1),
					UnitPriceExclVAT: d("1.00"), UnitVAT: d("0"),
				}},
			})
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "number", ve.Field)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, p.ID))
}

func TestVoid_ConcurrenteSoloUnoGana(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 80)
	note := f.issueBox(t, p.ID, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Void(ctx, note.ID, "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(80), f.stock(t, p.ID), "un solo reverso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Advertencias
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_FalloDeBitacoraEsAdvertencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 80)
	note := f.issueBox(t, p.ID, nil)
	f.auditRepo.FailWith(errors.New("tabla bloqueada"))

	res, err := f.svc.Void(ctx, note.ID, "")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	var warn *domain.AuditWriteWarning
	assert.ErrorAs(t, res.Warnings[0], &warn)
	assert.Equal(t, int64(80), f.stock(t, p.ID), "la transición quedó firme")
}

func TestVoid_FalloDeConciliacionEsAdvertencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, 80)
	inv := f.invoice("500.00")
	note := f.issueBox(t, p.ID, &inv.ID)
	require.True(t, d("381.00").Equal(f.balance(t, inv.ID)))

	f.store.FailBalanceUpdates(errors.New("timeout"))
	res, err := f.svc.Void(ctx, note.ID, "")
	require.NoError(t, err)
	assert.False(t, res.Reconciled)
	require.Len(t, res.Warnings, 1)
	var warn *domain.ReconciliationWarning
	require.ErrorAs(t, res.Warnings[0], &warn)
	assert.Equal(t, inv.ID, warn.InvoiceID)

	got, err := f.svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditNoteStatusVoid, got.Status)
	assert.Equal(t, int64(80), f.stock(t, p.ID))
	assert.True(t, d("381.00").Equal(f.balance(t, inv.ID)), "saldo viejo hasta reconciliar")

	// Una reconciliación posterior repara la proyección
	f.store.FailBalanceUpdates(nil)
	b, err := billing.NewReconciler(f.store, zerolog.Nop()).Reconcile(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, d("500.00").Equal(b.BalanceRemaining))
}

func TestListByInvoice(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 0)
	inv := f.invoice("1000.00")
	f.issueBox(t, p.ID, &inv.ID)
	f.issueBox(t, p.ID, &inv.ID)
	f.issueBox(t, p.ID, nil)

	list, err := f.svc.ListByInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, d("762.00").Equal(f.balance(t, inv.ID)))
}
