package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL. Sólo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

var movementColumns = []string{
	"id", "product_id", "movement_date", "movement_type", "quantity",
	"quantity_grams", "reference", "source_table", "source_id", "notes",
}

// Create inserta el movimiento y completa su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	sql, args, err := psql.Insert("stock_movements").
		Columns("product_id", "movement_date", "movement_type", "quantity", "quantity_grams",
			"reference", "source_table", "source_id", "notes").
		Values(m.ProductID, m.MovementDate, m.MovementType, m.Quantity, m.QuantityGrams,
			m.Reference, m.SourceTable, m.SourceID, m.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListBySource movimientos con la referencia exacta del documento de origen, en orden de inserción.
func (r *StockMovementRepo) ListBySource(ctx context.Context, src entity.MovementSource) ([]*entity.StockMovement, error) {
	q := psql.Select(movementColumns...).
		From("stock_movements").
		Where(sourceEq(src)).
		OrderBy("id ASC")
	return r.selectMovements(ctx, q, "list by source")
}

// CountBySource cuenta los movimientos con la referencia exacta del documento de origen.
func (r *StockMovementRepo) CountBySource(ctx context.Context, src entity.MovementSource) (int, error) {
	sql, args, err := psql.Select("count(*)").
		From("stock_movements").
		Where(sourceEq(src)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count by source: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by source: %w", err)
	}
	return n, nil
}

func sourceEq(src entity.MovementSource) squirrel.Eq {
	return squirrel.Eq{
		"reference":    src.Reference,
		"source_table": src.Table,
		"source_id":    src.ID,
	}
}

// ListByProduct movimientos de un producto con filtros opcionales de fecha, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	q := psql.Select(movementColumns...).
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("movement_date DESC", "id DESC")
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return r.selectMovements(ctx, q, "list by product")
}

func (r *StockMovementRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*entity.StockMovement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var list []*entity.StockMovement
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
