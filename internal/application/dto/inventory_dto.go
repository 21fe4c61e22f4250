package dto

import (
	"time"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN/OUT: quantity positiva. ADJUSTMENT: delta con signo. Productos por peso usan quantity_grams.
type RegisterMovementRequest struct {
	ProductID     int64  `json:"product_id" validate:"required,gt=0"`
	Type          string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity      int64  `json:"quantity"`
	QuantityGrams *int64 `json:"quantity_grams,omitempty"`
	Reference     string `json:"reference" validate:"required,max=100"`
	Notes         string `json:"notes,omitempty" validate:"max=500"`
}

// CreateProductRequest body para POST /api/products. opening_stock en la unidad de almacenamiento.
type CreateProductRequest struct {
	SKU          string `json:"sku" validate:"required,max=60"`
	Name         string `json:"name" validate:"required,max=200"`
	StockUnit    string `json:"stock_unit" validate:"required,oneof=PCS WEIGHT BAGS"`
	UnitsPerBox  int    `json:"units_per_box" validate:"gte=0"`
	ReorderLevel *int64 `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	OpeningStock int64  `json:"opening_stock" validate:"gte=0"`
}

// ListMovementsQuery query string de GET /api/products/:id/movements (fechas RFC3339).
type ListMovementsQuery struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
	From string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Page devuelve la paginación con valores por defecto.
func (q ListMovementsQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// MovementResponse movimiento del libro de inventario.
type MovementResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	MovementDate  time.Time `json:"movement_date"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	QuantityGrams *int64    `json:"quantity_grams,omitempty"`
	Reference     string    `json:"reference"`
	SourceTable   string    `json:"source_table,omitempty"`
	SourceID      *int64    `json:"source_id,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

// StockDisplayDTO representación legible del stock.
type StockDisplayDTO struct {
	Boxes     int64 `json:"boxes,omitempty"`
	Units     int64 `json:"units,omitempty"`
	Kilograms int64 `json:"kilograms,omitempty"`
	Grams     int64 `json:"grams,omitempty"`
	Bags      int64 `json:"bags,omitempty"`
}

// StockResponse stock cacheado de un producto.
type StockResponse struct {
	ProductID         int64           `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	StockUnit         string          `json:"stock_unit"`
	UnitsPerBox       int             `json:"units_per_box,omitempty"`
	CurrentStock      int64           `json:"current_stock"`
	CurrentStockGrams int64           `json:"current_stock_grams"`
	ReorderLevel      *int64          `json:"reorder_level,omitempty"`
	Display           StockDisplayDTO `json:"display"`
	LowStock          bool            `json:"low_stock"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MovementFromEntity mapea un movimiento.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		MovementDate:  m.MovementDate,
		Type:          string(m.MovementType),
		Quantity:      m.Quantity,
		QuantityGrams: m.QuantityGrams,
		Reference:     m.Reference,
		SourceTable:   m.SourceTable,
		SourceID:      m.SourceID,
		Notes:         m.Notes,
	}
}

// ConsistencyResponse comparación entre stock cacheado y pliegue del libro.
type ConsistencyResponse struct {
	ProductID  int64 `json:"product_id"`
	Cached     int64 `json:"cached"`
	Folded     int64 `json:"folded"`
	Movements  int   `json:"movements"`
	Consistent bool  `json:"consistent"`
}
