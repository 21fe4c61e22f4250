package entity

import (
	"strings"
	"time"
)

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         MovementType = "IN"         // entrada
	MovementTypeOUT        MovementType = "OUT"        // salida
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT" // ajuste relativo (con signo)
)

// Sufijos de referencia de movimientos compensatorios.
const (
	ReferenceReverseSuffix = ":reverse"
	ReferenceRestoreSuffix = ":restore"
)

// Prefijos de referencias que genera el sistema.
const (
	ReferenceOpeningPrefix = "opening:"
	CreditNoteNumberPrefix = "CN-"
)

// MovementSource documento dueño de un grupo de movimientos: la referencia legible y la fila
// de origen (source_table, source_id). Reversos y restauraciones se buscan por los tres campos.
type MovementSource struct {
	Reference string
	Table     string
	ID        int64
}

// WithSuffix misma fuente con la referencia de sus compensatorios.
func (s MovementSource) WithSuffix(suffix string) MovementSource {
	s.Reference += suffix
	return s
}

// IsCompensationReference informa si reference termina en ":reverse" o ":restore".
func IsCompensationReference(reference string) bool {
	r := strings.ToLower(strings.TrimSpace(reference))
	return strings.HasSuffix(r, ReferenceReverseSuffix) || strings.HasSuffix(r, ReferenceRestoreSuffix)
}

// IsOpeningReference informa si reference tiene la forma de un ajuste de apertura.
func IsOpeningReference(reference string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reference)), ReferenceOpeningPrefix)
}

// IsReservedReference informa si reference no puede usarse en un movimiento manual:
// compensatorios, aperturas y números de nota crédito.
func IsReservedReference(reference string) bool {
	if IsCompensationReference(reference) || IsOpeningReference(reference) {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(reference)), CreditNoteNumberPrefix)
}

// StockMovement registro inmutable del libro de inventario. Nunca se actualiza ni se borra.
// Quantity es la magnitud (IN/OUT positivas; ADJUSTMENT con signo). Para productos WEIGHT
// el campo operativo es QuantityGrams y Quantity vale cero.
type StockMovement struct {
	ID            int64        `db:"id"`
	ProductID     int64        `db:"product_id"`
	MovementDate  time.Time    `db:"movement_date"`
	MovementType  MovementType `db:"movement_type"`
	Quantity      int64        `db:"quantity"`
	QuantityGrams *int64       `db:"quantity_grams"`
	Reference     string       `db:"reference"`
	SourceTable   string       `db:"source_table"`
	SourceID      *int64       `db:"source_id"`
	Notes         *string      `db:"notes"`
}

// Delta efecto con signo del movimiento sobre el stock operativo del producto.
func (m *StockMovement) Delta(unit StockUnit) int64 {
	qty := m.Quantity
	if unit == StockUnitWeight {
		qty = 0
		if m.QuantityGrams != nil {
			qty = *m.QuantityGrams
		}
	}
	if m.MovementType == MovementTypeOUT {
		return -qty
	}
	return qty
}
