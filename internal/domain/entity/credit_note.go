package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNoteStatus estado de una nota crédito.
type CreditNoteStatus string

// Estados de la nota crédito.
const (
	CreditNoteStatusIssued   CreditNoteStatus = "ISSUED"   // emitida
	CreditNoteStatusPending  CreditNoteStatus = "PENDING"  // emitida, pendiente de aplicar
	CreditNoteStatusVoid     CreditNoteStatus = "VOID"     // anulada
	CreditNoteStatusRefunded CreditNoteStatus = "REFUNDED" // reembolsada
)

// Valid indica si s es un estado conocido.
func (s CreditNoteStatus) Valid() bool {
	switch s {
	case CreditNoteStatusIssued, CreditNoteStatusPending, CreditNoteStatusVoid, CreditNoteStatusRefunded:
		return true
	}
	return false
}

// Active indica si la nota crédito descuenta del saldo de su factura (ISSUED o PENDING).
func (s CreditNoteStatus) Active() bool {
	return s == CreditNoteStatusIssued || s == CreditNoteStatusPending
}

// UOM unidad de medida de una línea de nota crédito.
type UOM string

const (
	UOMBox UOM = "BOX"
	UOMPcs UOM = "PCS"
	UOMKg  UOM = "KG"
	UOMG   UOM = "G"
	UOMBag UOM = "BAG"
)

// CreditNote cabecera de la nota crédito. Tras la emisión sólo cambia Status.
type CreditNote struct {
	ID          int64
	Number      string // único, ej. CN-0007
	Date        time.Time
	CustomerID  int64
	InvoiceID   *int64
	Reason      string
	ReasonNote  string
	Subtotal    decimal.Decimal
	VATAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Status      CreditNoteStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []*CreditNoteLine
}

// HasInvoice indica si la nota está vinculada a una factura.
func (c *CreditNote) HasInvoice() bool {
	return c.InvoiceID != nil && *c.InvoiceID > 0
}

// CreditNoteLine línea de la nota crédito (inmutable).
// TotalQty es la cantidad normalizada a la unidad de almacenamiento del producto
// (piezas, gramos o bolsas) que usa el libro de inventario.
type CreditNoteLine struct {
	ID               int64
	CreditNoteID     int64
	ProductID        int64
	UOM              UOM
	Quantity         decimal.Decimal // expresada en UOM
	UnitsPerBox      *int            // sólo BOX
	UnitPriceExclVAT decimal.Decimal
	UnitVAT          decimal.Decimal
	UnitPriceInclVAT decimal.Decimal
	LineTotal        decimal.Decimal
	TotalQty         int64
}
