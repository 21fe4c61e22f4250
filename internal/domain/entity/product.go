package entity

import "time"

// StockUnit modelo de unidad con que se almacena el stock de un producto.
type StockUnit string

const (
	StockUnitPCS    StockUnit = "PCS"    // piezas (cajas se convierten a piezas)
	StockUnitWeight StockUnit = "WEIGHT" // gramos
	StockUnitBags   StockUnit = "BAGS"   // bolsas
)

// Product estado de stock de un producto.
// Sólo uno de CurrentStock / CurrentStockGrams está activo, según StockUnit.
// ReorderLevel se interpreta en kilogramos cuando StockUnit = WEIGHT.
type Product struct {
	ID                int64
	SKU               string
	Name              string
	StockUnit         StockUnit
	UnitsPerBox       int
	CurrentStock      int64
	CurrentStockGrams int64
	ReorderLevel      *int64
	UpdatedAt         time.Time
}

// ActiveStock devuelve el campo de stock operativo según StockUnit.
func (p *Product) ActiveStock() int64 {
	if p.StockUnit == StockUnitWeight {
		return p.CurrentStockGrams
	}
	return p.CurrentStock
}
