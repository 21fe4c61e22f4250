package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/dto"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// CreditNoteHandler maneja emisión, consulta y transiciones de notas crédito (protegido).
type CreditNoteHandler struct {
	svc *creditnote.Service
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(svc *creditnote.Service) *CreditNoteHandler {
	return &CreditNoteHandler{svc: svc}
}

// Issue godoc
// @Summary      Emitir nota crédito
// @Description  Crea la nota con sus líneas, registra las entradas de inventario y concilia la factura vinculada.
// @Tags         credit-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCreditNoteRequest  true  "cabecera y líneas"
// @Success      201   {object}  dto.CreditNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/credit-notes [post]
func (h *CreditNoteHandler) Issue(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	req := creditnote.IssueRequest{
		Number:     in.Number,
		CustomerID: in.CustomerID,
		InvoiceID:  in.InvoiceID,
		Reason:     in.Reason,
		ReasonNote: in.ReasonNote,
		Status:     entity.CreditNoteStatus(in.Status),
		ActorID:    GetUserID(c),
	}
	if in.Date != "" {
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return writeError(c, domain.NewValidationError("date", "formato esperado 2006-01-02"))
		}
		req.Date = d
	}
	for _, l := range in.Lines {
		req.Lines = append(req.Lines, creditnote.IssueLine{
			ProductID:        l.ProductID,
			UOM:              entity.UOM(l.UOM),
			Quantity:         l.Quantity,
			UnitsPerBox:      l.UnitsPerBox,
			UnitPriceExclVAT: l.UnitPriceExclVAT,
			UnitVAT:          l.UnitVAT,
		})
	}
	res, err := h.svc.Issue(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CreditNoteFromEntity(res.CreditNote)
	out.Warnings = dto.Warnings(res.Warnings)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota crédito
// @Tags         credit-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id de la nota"
// @Success      200  {object}  dto.CreditNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credit-notes/{id} [get]
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	note, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreditNoteFromEntity(note))
}

// Void godoc
// @Summary      Anular nota crédito
// @Description  ISSUED/PENDING -> VOID. Revierte las entradas de inventario y concilia la factura.
// @Tags         credit-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id de la nota"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/credit-notes/{id}/void [post]
func (h *CreditNoteHandler) Void(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Void)
}

// Refund godoc
// @Summary      Reembolsar nota crédito
// @Description  ISSUED/PENDING -> REFUNDED. Mismo efecto de inventario y saldo que anular.
// @Tags         credit-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id de la nota"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/credit-notes/{id}/refund [post]
func (h *CreditNoteHandler) Refund(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Refund)
}

// Restore godoc
// @Summary      Restaurar nota crédito
// @Description  VOID/REFUNDED -> ISSUED. Vuelve a aplicar las entradas de inventario.
// @Tags         credit-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id de la nota"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/credit-notes/{id}/restore [post]
func (h *CreditNoteHandler) Restore(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Restore)
}

type transitionFunc func(ctx context.Context, id int64, actorID string) (*creditnote.TransitionResult, error)

func (h *CreditNoteHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	res, err := fn(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransitionResponse{
		TransitionID: res.TransitionID,
		CreditNoteID: res.CreditNote.ID,
		From:         string(res.From),
		To:           string(res.To),
		Movements:    res.Movements,
		Reconciled:   res.Reconciled,
		Warnings:     dto.Warnings(res.Warnings),
	})
}
