package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// CreateCreditNoteRequest body para POST /api/credit-notes.
type CreateCreditNoteRequest struct {
	Number     string                  `json:"number,omitempty" validate:"omitempty,max=40"`
	Date       string                  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CustomerID int64                   `json:"customer_id" validate:"required,gt=0"`
	InvoiceID  *int64                  `json:"invoice_id,omitempty" validate:"omitempty,gt=0"`
	Reason     string                  `json:"reason" validate:"required,max=200"`
	ReasonNote string                  `json:"reason_note,omitempty" validate:"max=1000"`
	Status     string                  `json:"status,omitempty" validate:"omitempty,oneof=ISSUED PENDING"`
	Lines      []CreditNoteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreditNoteLineRequest línea de la nota. quantity en la UOM de la línea (ej. 2.5 KG).
type CreditNoteLineRequest struct {
	ProductID        int64           `json:"product_id" validate:"required,gt=0"`
	UOM              string          `json:"uom" validate:"required,oneof=BOX PCS KG G BAG"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitsPerBox      *int            `json:"units_per_box,omitempty" validate:"omitempty,gt=0"`
	UnitPriceExclVAT decimal.Decimal `json:"unit_price_excl_vat"`
	UnitVAT          decimal.Decimal `json:"unit_vat"`
}

// CreditNoteLineResponse línea en respuestas.
type CreditNoteLineResponse struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	UOM              string          `json:"uom"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitsPerBox      *int            `json:"units_per_box,omitempty"`
	UnitPriceExclVAT decimal.Decimal `json:"unit_price_excl_vat"`
	UnitVAT          decimal.Decimal `json:"unit_vat"`
	UnitPriceInclVAT decimal.Decimal `json:"unit_price_incl_vat"`
	LineTotal        decimal.Decimal `json:"line_total"`
	TotalQty         int64           `json:"total_qty"`
}

// CreditNoteResponse nota crédito con sus líneas.
type CreditNoteResponse struct {
	ID          int64                    `json:"id"`
	Number      string                   `json:"number"`
	Date        string                   `json:"date"`
	CustomerID  int64                    `json:"customer_id"`
	InvoiceID   *int64                   `json:"invoice_id,omitempty"`
	Reason      string                   `json:"reason"`
	ReasonNote  string                   `json:"reason_note,omitempty"`
	Subtotal    decimal.Decimal          `json:"subtotal"`
	VATAmount   decimal.Decimal          `json:"vat_amount"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Status      string                   `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Lines       []CreditNoteLineResponse `json:"lines,omitempty"`
	Warnings    []WarningDTO             `json:"warnings,omitempty"`
}

// TransitionResponse resultado de void / refund / restore.
type TransitionResponse struct {
	TransitionID string       `json:"transition_id"`
	CreditNoteID int64        `json:"credit_note_id"`
	From         string       `json:"from"`
	To           string       `json:"to"`
	Movements    int          `json:"movements"`
	Reconciled   bool         `json:"reconciled"`
	Warnings     []WarningDTO `json:"warnings,omitempty"`
}

// CreditNoteFromEntity mapea la entidad a la respuesta.
func CreditNoteFromEntity(n *entity.CreditNote) CreditNoteResponse {
	out := CreditNoteResponse{
		ID:          n.ID,
		Number:      n.Number,
		Date:        n.Date.Format("2006-01-02"),
		CustomerID:  n.CustomerID,
		InvoiceID:   n.InvoiceID,
		Reason:      n.Reason,
		ReasonNote:  n.ReasonNote,
		Subtotal:    n.Subtotal,
		VATAmount:   n.VATAmount,
		TotalAmount: n.TotalAmount,
		Status:      string(n.Status),
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
	for _, l := range n.Lines {
		out.Lines = append(out.Lines, CreditNoteLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			UOM:              string(l.UOM),
			Quantity:         l.Quantity,
			UnitsPerBox:      l.UnitsPerBox,
			UnitPriceExclVAT: l.UnitPriceExclVAT,
			UnitVAT:          l.UnitVAT,
			UnitPriceInclVAT: l.UnitPriceInclVAT,
			LineTotal:        l.LineTotal,
			TotalQty:         l.TotalQty,
		})
	}
	return out
}
