package repository

import (
	"context"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el estado de stock de Product (DIP).
// GetByID/GetForUpdate devuelven domain.NotFoundError si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// UpdateStock reescribe el stock cacheado (current_stock y current_stock_grams).
	UpdateStock(ctx context.Context, id int64, currentStock, currentStockGrams int64) error
}
