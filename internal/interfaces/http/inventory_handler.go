package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/dto"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// InventoryHandler maneja productos y el libro de movimientos (protegido).
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity (o quantity_grams), reference"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	id, err := h.ledger.RecordManualMovement(c.UserContext(), inventory.MovementInput{
		ProductID:     in.ProductID,
		Type:          entity.MovementType(in.Type),
		Quantity:      in.Quantity,
		QuantityGrams: in.QuantityGrams,
		Reference:     in.Reference,
		Notes:         in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}

// CreateProduct godoc
// @Summary      Registrar producto
// @Description  Alta de producto. opening_stock se registra como ajuste de apertura.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "producto"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	p := &entity.Product{
		SKU:          in.SKU,
		Name:         in.Name,
		StockUnit:    entity.StockUnit(in.StockUnit),
		UnitsPerBox:  in.UnitsPerBox,
		ReorderLevel: in.ReorderLevel,
	}
	ctx := c.UserContext()
	if err := h.ledger.RegisterProduct(ctx, p, in.OpeningStock); err != nil {
		return writeError(c, err)
	}
	snap, err := h.ledger.GetStock(ctx, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stockResponse(snap))
}

// GetStock godoc
// @Summary      Stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	snap, err := h.ledger.GetStock(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stockResponse(snap))
}

// ListMovements godoc
// @Summary      Movimientos de un producto
// @Description  Más recientes primero. from/to en RFC3339.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int     true   "id del producto"
// @Param        from    query  string  false  "desde (RFC3339)"
// @Param        to      query  string  false  "hasta (RFC3339)"
// @Param        limit   query  int     false  "máximo de filas"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var q dto.ListMovementsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	page := q.Page()
	filter := repository.MovementFilter{Limit: page.Limit, Offset: page.Offset}
	if q.From != "" {
		t, _ := time.Parse(time.RFC3339, q.From)
		filter.From = &t
	}
	if q.To != "" {
		t, _ := time.Parse(time.RFC3339, q.To)
		filter.To = &t
	}
	list, err := h.ledger.ListMovements(c.UserContext(), id, filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementFromEntity(m))
	}
	return c.JSON(fiber.Map{
		"items":  items,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// Consistency godoc
// @Summary      Verificar consistencia del stock
// @Description  Pliega el libro de movimientos y lo compara con el stock cacheado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del producto"
// @Success      200  {object}  dto.ConsistencyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/consistency [get]
func (h *InventoryHandler) Consistency(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	rep, err := h.ledger.VerifyConsistency(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConsistencyResponse{
		ProductID:  rep.ProductID,
		Cached:     rep.Cached,
		Folded:     rep.Folded,
		Movements:  rep.Movements,
		Consistent: rep.Consistent,
	})
}

func stockResponse(s *inventory.StockSnapshot) dto.StockResponse {
	p := s.Product
	return dto.StockResponse{
		ProductID:         p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		StockUnit:         string(p.StockUnit),
		UnitsPerBox:       p.UnitsPerBox,
		CurrentStock:      p.CurrentStock,
		CurrentStockGrams: p.CurrentStockGrams,
		ReorderLevel:      p.ReorderLevel,
		Display: dto.StockDisplayDTO{
			Boxes:     s.Display.Boxes,
			Units:     s.Display.Units,
			Kilograms: s.Display.Kilograms,
			Grams:     s.Display.Grams,
			Bags:      s.Display.Bags,
		},
		LowStock:  s.LowStock,
		UpdatedAt: p.UpdatedAt,
	}
}
