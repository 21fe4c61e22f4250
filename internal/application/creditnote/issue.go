package creditnote

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	domaininv "github.com/jhoicas/notas-credito-api/internal/domain/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// IssueLine línea de entrada para emitir una nota crédito.
type IssueLine struct {
	ProductID        int64
	UOM              entity.UOM
	Quantity         decimal.Decimal
	UnitsPerBox      *int
	UnitPriceExclVAT decimal.Decimal
	UnitVAT          decimal.Decimal
}

// IssueRequest entrada para emitir una nota crédito. Number vacío = consecutivo automático;
// Status vacío = ISSUED.
type IssueRequest struct {
	Number     string
	Date       time.Time
	CustomerID int64
	InvoiceID  *int64
	Reason     string
	ReasonNote string
	Status     entity.CreditNoteStatus
	Lines      []IssueLine
	ActorID    string
}

// IssueResult nota emitida más advertencias informativas.
type IssueResult struct {
	CreditNote *entity.CreditNote
	Reconciled bool
	Warnings   []error
}

func (in *IssueRequest) validate() error {
	if in.CustomerID <= 0 {
		return domain.NewValidationError("customer_id", "requerido")
	}
	// NFC: "dañado" escrito con tilde combinada y precompuesta debe quedar igual en bitácora y reportes
	in.Reason = norm.NFC.String(strings.TrimSpace(in.Reason))
	in.ReasonNote = norm.NFC.String(strings.TrimSpace(in.ReasonNote))
	in.Number = strings.TrimSpace(in.Number)
	if entity.IsCompensationReference(in.Number) || entity.IsOpeningReference(in.Number) {
		return domain.NewValidationError("number", "número reservado por el libro de inventario: "+in.Number)
	}
	if in.Reason == "" {
		return domain.NewValidationError("reason", "requerido")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "se requiere al menos una línea")
	}
	if in.Status == "" {
		in.Status = entity.CreditNoteStatusIssued
	}
	if in.Status != entity.CreditNoteStatusIssued && in.Status != entity.CreditNoteStatusPending {
		return domain.NewValidationError("status", "una nota se emite en ISSUED o PENDING")
	}
	if in.InvoiceID != nil && *in.InvoiceID <= 0 {
		in.InvoiceID = nil
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return domain.NewValidationError("lines.product_id", "requerido")
		}
		if l.UnitPriceExclVAT.IsNegative() || l.UnitVAT.IsNegative() {
			return domain.NewValidationError("lines.unit_price", "no puede ser negativo")
		}
	}
	return nil
}

// Issue crea cabecera y líneas de forma atómica, registra un IN por línea en el libro de
// inventario (referencia = número de la nota) y concilia la factura vinculada.
func (s *Service) Issue(ctx context.Context, in IssueRequest) (*IssueResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	if in.Date.IsZero() {
		in.Date = now
	}

	res := &IssueResult{}
	err := s.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		if in.InvoiceID != nil {
			if _, err := tx.Invoices().GetByID(ctx, *in.InvoiceID); err != nil {
				return err
			}
		}

		lines := make([]*entity.CreditNoteLine, 0, len(in.Lines))
		products := make([]*entity.Product, 0, len(in.Lines))
		subtotal, vat := decimal.Zero, decimal.Zero
		for _, l := range in.Lines {
			product, err := tx.Products().GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if !domaininv.UnitCompatible(l.UOM, product.StockUnit) {
				return domain.NewValidationError("lines.uom", string(l.UOM)+" no es compatible con el stock "+string(product.StockUnit))
			}
			upb := l.UnitsPerBox
			if l.UOM == entity.UOMBox && upb == nil && product.UnitsPerBox > 0 {
				v := product.UnitsPerBox
				upb = &v
			}
			if l.UOM != entity.UOMBox {
				upb = nil
			}
			totalQty, err := domaininv.NormalizeQuantity(l.UOM, l.Quantity, upb)
			if err != nil {
				return err
			}
			inclVAT := l.UnitPriceExclVAT.Add(l.UnitVAT)
			lines = append(lines, &entity.CreditNoteLine{
				ProductID:        l.ProductID,
				UOM:              l.UOM,
				Quantity:         l.Quantity,
				UnitsPerBox:      upb,
				UnitPriceExclVAT: l.UnitPriceExclVAT,
				UnitVAT:          l.UnitVAT,
				UnitPriceInclVAT: inclVAT,
				LineTotal:        l.Quantity.Mul(inclVAT).Round(2),
				TotalQty:         totalQty,
			})
			products = append(products, product)
			subtotal = subtotal.Add(l.Quantity.Mul(l.UnitPriceExclVAT))
			vat = vat.Add(l.Quantity.Mul(l.UnitVAT))
		}
		subtotal, vat = subtotal.Round(2), vat.Round(2)

		number := in.Number
		if number == "" {
			var err error
			if number, err = tx.CreditNotes().NextNumber(ctx); err != nil {
				return err
			}
		}
		note := &entity.CreditNote{
			Number:      number,
			Date:        in.Date,
			CustomerID:  in.CustomerID,
			InvoiceID:   in.InvoiceID,
			Reason:      in.Reason,
			ReasonNote:  in.ReasonNote,
			Subtotal:    subtotal,
			VATAmount:   vat,
			TotalAmount: subtotal.Add(vat),
			Status:      in.Status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.CreditNotes().Create(ctx, note); err != nil {
			return err
		}
		for i, line := range lines {
			line.CreditNoteID = note.ID
			if err := tx.CreditNotes().CreateLine(ctx, line); err != nil {
				return err
			}
			// La mercancía devuelta entra al inventario
			mov := inventory.MovementInput{
				ProductID:   line.ProductID,
				Type:        entity.MovementTypeIN,
				Reference:   note.Number,
				SourceTable: SourceTable,
				SourceID:    &note.ID,
				Notes:       "devolución " + note.Number,
			}
			if products[i].StockUnit == entity.StockUnitWeight {
				grams := line.TotalQty
				mov.QuantityGrams = &grams
			} else {
				mov.Quantity = line.TotalQty
			}
			if _, err := s.ledger.RecordMovementInTx(ctx, tx, mov); err != nil {
				return err
			}
		}
		note.Lines = lines

		reconciled, warn := s.reconcileLinked(ctx, tx, note)
		res.Reconciled = reconciled
		if warn != nil {
			res.Warnings = append(res.Warnings, warn)
		}
		res.CreditNote = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	note := res.CreditNote
	meta := map[string]any{
		"number":       note.Number,
		"status":       note.Status,
		"total_amount": note.TotalAmount.String(),
		"lines":        len(note.Lines),
		"reconciled":   res.Reconciled,
	}
	if note.InvoiceID != nil {
		meta["invoice_id"] = *note.InvoiceID
	}
	if warn := s.trail.Append(ctx, creditnote.AuditEntity, note.ID, creditnote.AuditEntity+".issue", in.ActorID, meta); warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}

	s.log.Info().
		Int64("credit_note_id", note.ID).
		Str("number", note.Number).
		Str("status", string(note.Status)).
		Str("total", note.TotalAmount.String()).
		Msg("nota crédito emitida")
	return res, nil
}
