package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// GramsPerKilogram factor de conversión del modelo WEIGHT.
const GramsPerKilogram = 1000

// safeUnitsPerBox evita división por cero: mínimo 1.
func safeUnitsPerBox(upb int) int64 {
	if upb < 1 {
		return 1
	}
	return int64(upb)
}

// CombinePieces piezas = cajas * unidades_por_caja + sueltas.
func CombinePieces(boxes, units int64, unitsPerBox int) int64 {
	return boxes*safeUnitsPerBox(unitsPerBox) + units
}

// SplitPieces separa piezas en (cajas, sueltas) por división entera y módulo.
func SplitPieces(pieces int64, unitsPerBox int) (boxes, units int64) {
	upb := safeUnitsPerBox(unitsPerBox)
	return pieces / upb, pieces % upb
}

// CombineGrams gramos = kilogramos * 1000 + resto.
func CombineGrams(kilograms, grams int64) int64 {
	return kilograms*GramsPerKilogram + grams
}

// SplitGrams separa gramos en (kg, g): floor(g/1000) y g % 1000.
func SplitGrams(grams int64) (kilograms, rest int64) {
	return grams / GramsPerKilogram, grams % GramsPerKilogram
}

// IsLowStock PCS/BAGS: current_stock <= reorder_level. WEIGHT: gramos/1000 <= reorder_level (kg).
// Sin nivel de reorden (nulo o <= 0) nunca está bajo.
func IsLowStock(p *entity.Product) bool {
	if p == nil || p.ReorderLevel == nil || *p.ReorderLevel <= 0 {
		return false
	}
	level := decimal.NewFromInt(*p.ReorderLevel)
	if p.StockUnit == entity.StockUnitWeight {
		kg := decimal.NewFromInt(p.CurrentStockGrams).Div(decimal.NewFromInt(GramsPerKilogram))
		return kg.LessThanOrEqual(level)
	}
	return decimal.NewFromInt(p.CurrentStock).LessThanOrEqual(level)
}

// UnitCompatible indica si una UOM de línea puede almacenarse en el modelo de stock del producto.
func UnitCompatible(uom entity.UOM, unit entity.StockUnit) bool {
	switch uom {
	case entity.UOMBox, entity.UOMPcs:
		return unit == entity.StockUnitPCS
	case entity.UOMKg, entity.UOMG:
		return unit == entity.StockUnitWeight
	case entity.UOMBag:
		return unit == entity.StockUnitBags
	}
	return false
}

// NormalizeQuantity convierte la cantidad de una línea a la unidad de almacenamiento:
// BOX -> qty*upb piezas, PCS -> piezas, KG -> qty*1000 gramos, G -> gramos, BAG -> bolsas.
// Las fracciones se redondean al entero más cercano de la unidad de almacenamiento.
func NormalizeQuantity(uom entity.UOM, qty decimal.Decimal, unitsPerBox *int) (int64, error) {
	if !qty.IsPositive() {
		return 0, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	var total decimal.Decimal
	switch uom {
	case entity.UOMBox:
		if unitsPerBox == nil || *unitsPerBox < 1 {
			return 0, domain.NewValidationError("units_per_box", "requerido para BOX")
		}
		total = qty.Mul(decimal.NewFromInt(int64(*unitsPerBox)))
	case entity.UOMPcs, entity.UOMG, entity.UOMBag:
		total = qty
	case entity.UOMKg:
		total = qty.Mul(decimal.NewFromInt(GramsPerKilogram))
	default:
		return 0, domain.NewValidationError("uom", "unidad de medida desconocida: "+string(uom))
	}
	n := total.Round(0).IntPart()
	if n <= 0 {
		return 0, domain.NewValidationError("quantity", "la cantidad normalizada es cero")
	}
	return n, nil
}

// StockDisplay representación legible del stock según el modelo de unidad.
type StockDisplay struct {
	Boxes     int64
	Units     int64
	Kilograms int64
	Grams     int64
	Bags      int64
}

// Display separa el stock cacheado para mostrarlo (cajas/unidades, kg/g o bolsas).
func Display(p *entity.Product) StockDisplay {
	switch p.StockUnit {
	case entity.StockUnitWeight:
		kg, g := SplitGrams(p.CurrentStockGrams)
		return StockDisplay{Kilograms: kg, Grams: g}
	case entity.StockUnitBags:
		return StockDisplay{Bags: p.CurrentStock}
	default:
		boxes, units := SplitPieces(p.CurrentStock, p.UnitsPerBox)
		return StockDisplay{Boxes: boxes, Units: units}
	}
}
