package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo estado de stock de productos sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, stock_unit, units_per_box, current_stock, current_stock_grams, reorder_level, updated_at`

// Create persiste un nuevo producto; asigna ID si viene en cero.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (sku, name, stock_unit, units_per_box, current_stock, current_stock_grams, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, updated_at`
	args := []any{p.SKU, p.Name, p.StockUnit, p.UnitsPerBox, p.CurrentStock, p.CurrentStockGrams, p.ReorderLevel}
	if p.ID > 0 {
		query = `
		INSERT INTO products (id, sku, name, stock_unit, units_per_box, current_stock, current_stock_grams, reorder_level)
		VALUES ($8, $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, updated_at`
		args = append(args, p.ID)
	}
	err := r.q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s: %w", p.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query string, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.StockUnit, &p.UnitsPerBox,
		&p.CurrentStock, &p.CurrentStockGrams, &p.ReorderLevel, &p.UpdatedAt,
	)
	if err != nil {
		return nil, getErr(err, "get product", "producto", id)
	}
	return &p, nil
}

// UpdateStock reescribe el stock cacheado.
func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, currentStock, currentStockGrams int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $2, current_stock_grams = $3, updated_at = now() WHERE id = $1`,
		id, currentStock, currentStockGrams,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", id)
	}
	return nil
}
