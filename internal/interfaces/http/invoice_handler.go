package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/dto"
)

// InvoiceHandler conciliación de saldo y notas crédito por factura (protegido).
type InvoiceHandler struct {
	reconciler *billing.Reconciler
	notes      *creditnote.Service
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(reconciler *billing.Reconciler, notes *creditnote.Service) *InvoiceHandler {
	return &InvoiceHandler{reconciler: reconciler, notes: notes}
}

// Reconcile recalcula balance_remaining desde pagos y notas crédito activas.
// POST /api/invoices/:id/reconcile
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.reconciler.Reconcile(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InvoiceBalanceResponse{
		InvoiceID:        b.InvoiceID,
		TotalAmount:      b.TotalAmount,
		Payments:         b.Payments,
		ActiveCredits:    b.ActiveCredits,
		BalanceRemaining: b.BalanceRemaining,
	})
}

// ListCreditNotes notas crédito vinculadas a la factura.
// GET /api/invoices/:id/credit-notes
func (h *InvoiceHandler) ListCreditNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.notes.ListByInvoice(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.CreditNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, dto.CreditNoteFromEntity(n))
	}
	return c.JSON(fiber.Map{"total": len(items), "credit_notes": items})
}
