package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// OpeningReference referencia del movimiento de apertura de un producto.
func OpeningReference(productID int64) string {
	return fmt.Sprintf("%s%d", entity.ReferenceOpeningPrefix, productID)
}

// RegisterProduct da de alta un producto con stock cero y, si opening != 0, registra un ajuste
// de apertura para que el stock cacheado siga siendo el pliegue de sus movimientos.
func (l *Ledger) RegisterProduct(ctx context.Context, product *entity.Product, opening int64) error {
	switch product.StockUnit {
	case entity.StockUnitPCS, entity.StockUnitWeight, entity.StockUnitBags:
	default:
		return domain.NewValidationError("stock_unit", "modelo de unidad desconocido: "+string(product.StockUnit))
	}
	if opening < 0 {
		return domain.NewValidationError("opening", "no puede ser negativo")
	}
	return l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		product.CurrentStock = 0
		product.CurrentStockGrams = 0
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}
		if opening == 0 {
			return nil
		}
		in := MovementInput{
			ProductID:   product.ID,
			Type:        entity.MovementTypeADJUSTMENT,
			Reference:   OpeningReference(product.ID),
			SourceTable: "products",
			SourceID:    &product.ID,
			Notes:       "stock de apertura",
		}
		if product.StockUnit == entity.StockUnitWeight {
			in.QuantityGrams = &opening
			product.CurrentStockGrams = opening
		} else {
			in.Quantity = opening
			product.CurrentStock = opening
		}
		_, err := l.RecordMovementInTx(ctx, tx, in)
		return err
	})
}

// StockSnapshot stock cacheado de un producto con su representación y alerta de stock bajo.
type StockSnapshot struct {
	Product  *entity.Product
	Display  inventory.StockDisplay
	LowStock bool
}

// GetStock devuelve el stock cacheado de un producto.
func (l *Ledger) GetStock(ctx context.Context, productID int64) (*StockSnapshot, error) {
	var snap *StockSnapshot
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		p, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		snap = &StockSnapshot{Product: p, Display: inventory.Display(p), LowStock: inventory.IsLowStock(p)}
		return nil
	})
	return snap, err
}

// IsLowStock indica si el producto está en o por debajo de su nivel de reorden.
func (l *Ledger) IsLowStock(ctx context.Context, productID int64) (bool, error) {
	snap, err := l.GetStock(ctx, productID)
	if err != nil {
		return false, err
	}
	return snap.LowStock, nil
}

// ListMovements lista los movimientos de un producto, más recientes primero.
func (l *Ledger) ListMovements(ctx context.Context, productID int64, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Products().GetByID(ctx, productID); err != nil {
			return err
		}
		var err error
		list, err = tx.Movements().ListByProduct(ctx, productID, filter)
		return err
	})
	return list, err
}

// ConsistencyReport compara el stock cacheado con el pliegue de los movimientos.
type ConsistencyReport struct {
	ProductID  int64
	Cached     int64
	Folded     int64
	Movements  int
	Consistent bool
}

// VerifyConsistency pliega todos los movimientos del producto y los compara con el stock cacheado.
func (l *Ledger) VerifyConsistency(ctx context.Context, productID int64) (*ConsistencyReport, error) {
	var rep *ConsistencyReport
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		p, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		movs, err := tx.Movements().ListByProduct(ctx, productID, repository.MovementFilter{})
		if err != nil {
			return err
		}
		var folded int64
		for _, m := range movs {
			folded += m.Delta(p.StockUnit)
		}
		rep = &ConsistencyReport{
			ProductID:  productID,
			Cached:     p.ActiveStock(),
			Folded:     folded,
			Movements:  len(movs),
			Consistent: folded == p.ActiveStock(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rep.Consistent {
		l.log.Error().
			Int64("product_id", productID).
			Int64("cached", rep.Cached).
			Int64("folded", rep.Folded).
			Msg("stock cacheado no coincide con el libro de movimientos")
	}
	return rep, nil
}
