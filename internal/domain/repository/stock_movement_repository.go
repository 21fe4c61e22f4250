package repository

import (
	"context"
	"time"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos de un producto. Limit <= 0 = sin límite.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// StockMovementRepository define el puerto del libro de movimientos (sólo inserción, DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListBySource devuelve los movimientos con esa referencia exacta y ese documento de origen
	// (source_table, source_id), en orden de inserción.
	ListBySource(ctx context.Context, src entity.MovementSource) ([]*entity.StockMovement, error)
	CountBySource(ctx context.Context, src entity.MovementSource) (int, error)
	// ListByProduct devuelve los movimientos de un producto, más recientes primero.
	ListByProduct(ctx context.Context, productID int64, filter MovementFilter) ([]*entity.StockMovement, error)
}
