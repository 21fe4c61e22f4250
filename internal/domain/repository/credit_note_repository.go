package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para CreditNote y sus líneas.
type CreditNoteRepository interface {
	// NextNumber reserva el siguiente consecutivo legible (CN-0001, CN-0002, ...).
	NextNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, note *entity.CreditNote) error
	CreateLine(ctx context.Context, line *entity.CreditNoteLine) error
	GetByID(ctx context.Context, id int64) (*entity.CreditNote, error)
	// GetForUpdate lee el estado persistido y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.CreditNote, error)
	GetLines(ctx context.Context, creditNoteID int64) ([]*entity.CreditNoteLine, error)
	// UpdateStatus cambia el estado sólo si el actual está en from
	// (UPDATE ... WHERE id = ? AND status IN (...)). false = otro llamador ganó.
	UpdateStatus(ctx context.Context, id int64, from []entity.CreditNoteStatus, to entity.CreditNoteStatus) (bool, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.CreditNote, error)
	// SumActiveByInvoice suma total_amount de las notas ISSUED/PENDING de la factura.
	SumActiveByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error)
}
