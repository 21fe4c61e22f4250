// Package creditnote contiene la máquina de estados de la nota crédito (servicio de dominio puro).
package creditnote

import (
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// Event evento del ciclo de vida.
type Event string

const (
	EventVoid    Event = "void"
	EventRefund  Event = "refund"
	EventRestore Event = "restore"
)

// AuditEntity nombre de entidad usado en la bitácora.
const AuditEntity = "credit_note"

type rule struct {
	from []entity.CreditNoteStatus
	to   entity.CreditNoteStatus
	// reverses: true si la transición deshace el efecto en stock; false si lo vuelve a aplicar.
	reverses bool
}

var rules = map[Event]rule{
	EventVoid: {
		from:     []entity.CreditNoteStatus{entity.CreditNoteStatusIssued, entity.CreditNoteStatusPending},
		to:       entity.CreditNoteStatusVoid,
		reverses: true,
	},
	EventRefund: {
		from:     []entity.CreditNoteStatus{entity.CreditNoteStatusIssued, entity.CreditNoteStatusPending},
		to:       entity.CreditNoteStatusRefunded,
		reverses: true,
	},
	EventRestore: {
		from:     []entity.CreditNoteStatus{entity.CreditNoteStatusVoid, entity.CreditNoteStatusRefunded},
		to:       entity.CreditNoteStatusIssued,
		reverses: false,
	},
}

// Valid indica si e es un evento conocido.
func (e Event) Valid() bool {
	_, ok := rules[e]
	return ok
}

// Action etiqueta de auditoría del evento, ej. "credit_note.void".
func (e Event) Action() string {
	return AuditEntity + "." + string(e)
}

// ReversesStock true para void/refund, false para restore.
func (e Event) ReversesStock() bool {
	return rules[e].reverses
}

// AllowedFrom estados desde los que el evento es válido (predicado del UPDATE condicional).
func AllowedFrom(e Event) []entity.CreditNoteStatus {
	r, ok := rules[e]
	if !ok {
		return nil
	}
	out := make([]entity.CreditNoteStatus, len(r.from))
	copy(out, r.from)
	return out
}

// Transition aplica la guarda: devuelve el estado destino o InvalidTransitionError.
func Transition(id int64, from entity.CreditNoteStatus, e Event) (entity.CreditNoteStatus, error) {
	r, ok := rules[e]
	if !ok {
		return "", domain.NewValidationError("event", "evento desconocido: "+string(e))
	}
	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}
	return "", &domain.InvalidTransitionError{CreditNoteID: id, Event: string(e), Status: string(from)}
}
