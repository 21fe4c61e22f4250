package creditnote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var tracer = otel.Tracer("notas-credito-api/creditnote")

// TransitionResult resultado de una transición confirmada.
// Warnings contiene ReconciliationWarning / AuditWriteWarning: informativas, la transición ya quedó firme.
type TransitionResult struct {
	TransitionID string
	CreditNote   *entity.CreditNote
	From         entity.CreditNoteStatus
	To           entity.CreditNoteStatus
	Movements    int
	Reconciled   bool
	Warnings     []error
}

// Void anula la nota: revierte su efecto en stock y la deja en VOID.
func (s *Service) Void(ctx context.Context, id int64, actorID string) (*TransitionResult, error) {
	return s.apply(ctx, id, creditnote.EventVoid, actorID)
}

// Refund marca la nota como reembolsada. Mismo reverso de stock que Void; sólo cambian el estado
// final y la etiqueta de auditoría.
func (s *Service) Refund(ctx context.Context, id int64, actorID string) (*TransitionResult, error) {
	return s.apply(ctx, id, creditnote.EventRefund, actorID)
}

// Restore devuelve una nota VOID/REFUNDED a ISSUED y vuelve a aplicar su efecto original en stock.
func (s *Service) Restore(ctx context.Context, id int64, actorID string) (*TransitionResult, error) {
	return s.apply(ctx, id, creditnote.EventRestore, actorID)
}

// apply ejecuta guarda, compensación de stock, escritura de estado y conciliación en una sola
// transacción. La bitácora se escribe después del commit y nunca revierte la transición.
func (s *Service) apply(ctx context.Context, id int64, event creditnote.Event, actorID string) (*TransitionResult, error) {
	res := &TransitionResult{TransitionID: uuid.NewString()}

	ctx, span := tracer.Start(ctx, "creditnote.transition", trace.WithAttributes(
		attribute.Int64("credit_note.id", id),
		attribute.String("credit_note.event", string(event)),
		attribute.String("transition.id", res.TransitionID),
	))
	defer span.End()

	if id <= 0 {
		return nil, domain.NewValidationError("id", "requerido")
	}

	err := s.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		// Estado persistido, con la fila bloqueada: dos llamadores concurrentes no pueden pasar ambos la guarda
		note, err := tx.CreditNotes().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		res.From = note.Status
		to, err := creditnote.Transition(id, note.Status, event)
		if err != nil {
			return err
		}

		src := entity.MovementSource{Reference: note.Number, Table: SourceTable, ID: note.ID}
		var moved inventory.Result
		if event.ReversesStock() {
			moved, err = s.ledger.ReverseInTx(ctx, tx, src)
		} else {
			moved, err = s.ledger.ReapplyInTx(ctx, tx, src)
		}
		if err != nil {
			return err
		}
		res.Movements = len(moved.MovementIDs)

		ok, err := tx.CreditNotes().UpdateStatus(ctx, id, creditnote.AllowedFrom(event), to)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.InvalidTransitionError{CreditNoteID: id, Event: string(event), Status: string(note.Status)}
		}
		note.Status = to
		note.UpdatedAt = time.Now()
		res.To = to
		res.CreditNote = note

		reconciled, warn := s.reconcileLinked(ctx, tx, note)
		res.Reconciled = reconciled
		if warn != nil {
			res.Warnings = append(res.Warnings, warn)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var ite *domain.InvalidTransitionError
		if errors.As(err, &ite) {
			s.recordRejection(ctx, id, event, actorID, ite, res.TransitionID)
		}
		return nil, err
	}

	meta := map[string]any{
		"from":          res.From,
		"to":            res.To,
		"transition_id": res.TransitionID,
		"movements":     res.Movements,
		"reconciled":    res.Reconciled,
	}
	if res.CreditNote.InvoiceID != nil {
		meta["invoice_id"] = *res.CreditNote.InvoiceID
	}
	if warn := s.trail.Append(ctx, creditnote.AuditEntity, id, event.Action(), actorID, meta); warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}

	span.SetAttributes(attribute.Int("credit_note.movements", res.Movements))
	s.log.Info().
		Int64("credit_note_id", id).
		Str("event", string(event)).
		Str("from", string(res.From)).
		Str("to", string(res.To)).
		Int("movements", res.Movements).
		Int("warnings", len(res.Warnings)).
		Str("transition_id", res.TransitionID).
		Msg("transición de nota crédito aplicada")
	return res, nil
}

// recordRejection deja rastro del intento rechazado; sin efectos en stock ni estado.
func (s *Service) recordRejection(ctx context.Context, id int64, event creditnote.Event, actorID string, ite *domain.InvalidTransitionError, transitionID string) {
	s.log.Info().
		Int64("credit_note_id", id).
		Str("event", string(event)).
		Str("status", ite.Status).
		Str("transition_id", transitionID).
		Msg("transición rechazada")
	_ = s.trail.Append(ctx, creditnote.AuditEntity, id, event.Action()+".rejected", actorID, map[string]any{
		"status":        ite.Status,
		"transition_id": transitionID,
	})
}
