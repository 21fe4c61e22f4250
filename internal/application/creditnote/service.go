// Package creditnote casos de uso de la nota crédito: emisión, consulta y el motor de transiciones
// (void / refund / restore) con sus efectos en inventario, saldo de factura y bitácora.
package creditnote

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// SourceTable valor de source_table en los movimientos originados por notas crédito.
const SourceTable = "credit_notes"

// Service agrega la nota crédito y orquesta sus transiciones.
type Service struct {
	txRunner   TxRunner
	ledger     *inventory.Ledger
	reconciler *billing.Reconciler
	trail      *audit.Trail
	log        zerolog.Logger
}

// NewService construye el servicio.
func NewService(
	txRunner TxRunner,
	ledger *inventory.Ledger,
	reconciler *billing.Reconciler,
	trail *audit.Trail,
	log zerolog.Logger,
) *Service {
	return &Service{
		txRunner:   txRunner,
		ledger:     ledger,
		reconciler: reconciler,
		trail:      trail,
		log:        log.With().Str("component", "credit_notes").Logger(),
	}
}

// Get devuelve la cabecera con sus líneas.
func (s *Service) Get(ctx context.Context, id int64) (*entity.CreditNote, error) {
	var note *entity.CreditNote
	err := s.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		note, err = tx.CreditNotes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		note.Lines, err = tx.CreditNotes().GetLines(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListByInvoice lista las notas vinculadas a una factura.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.CreditNote, error) {
	var list []*entity.CreditNote
	err := s.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Invoices().GetByID(ctx, invoiceID); err != nil {
			return err
		}
		var err error
		list, err = tx.CreditNotes().ListByInvoice(ctx, invoiceID)
		return err
	})
	return list, err
}

// reconcileLinked concilia la factura vinculada dentro de tx. Un fallo se devuelve como
// ReconciliationWarning y no aborta la transacción.
func (s *Service) reconcileLinked(ctx context.Context, tx repository.Tx, note *entity.CreditNote) (bool, error) {
	if !note.HasInvoice() {
		return false, nil
	}
	if _, err := s.reconciler.ReconcileInTx(ctx, tx, *note.InvoiceID); err != nil {
		s.log.Warn().Err(err).
			Int64("credit_note_id", note.ID).
			Int64("invoice_id", *note.InvoiceID).
			Msg("no se pudo recalcular el saldo de la factura")
		return false, &domain.ReconciliationWarning{InvoiceID: *note.InvoiceID, Err: err}
	}
	return true, nil
}
