package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/dto"
	"github.com/jhoicas/notas-credito-api/internal/domain"
)

// AuditHandler consulta de la bitácora (protegido).
type AuditHandler struct {
	trail *audit.Trail
}

// NewAuditHandler construye el handler.
func NewAuditHandler(trail *audit.Trail) *AuditHandler {
	return &AuditHandler{trail: trail}
}

// List godoc
// @Summary      Bitácora de una entidad
// @Description  Entradas más recientes primero.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity  path      string  true  "entidad, ej. credit_note"
// @Param        id      path      int     true  "id de la entidad"
// @Success      200     {array}   dto.AuditEntryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/audit/{entity}/{id} [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	entityName := c.Params("entity")
	if entityName == "" {
		return writeError(c, domain.NewValidationError("entity", "requerido"))
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.trail.List(c.UserContext(), entityName, id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.AuditFromEntity(e))
	}
	return c.JSON(out)
}
