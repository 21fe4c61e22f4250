package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// SourceManual valor de source_table de los movimientos registrados por operación (compras, ventas, conteos).
const SourceManual = "manual"

// Ledger libro de inventario: historial de movimientos sólo-inserción y stock cacheado por producto.
// Cada escritura bloquea la fila del producto (SELECT FOR UPDATE), inserta el movimiento y
// actualiza el stock cacheado en la misma transacción.
type Ledger struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el libro de inventario.
func NewLedger(txRunner TxRunner, log zerolog.Logger) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		log:      log.With().Str("component", "inventory_ledger").Logger(),
		now:      time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
// IN/OUT llevan magnitud positiva (la dirección la da el tipo); ADJUSTMENT lleva delta con signo.
// Para productos WEIGHT el campo operativo es QuantityGrams y Quantity se ignora.
type MovementInput struct {
	ProductID     int64
	Type          entity.MovementType
	Quantity      int64
	QuantityGrams *int64
	Reference     string
	SourceTable   string
	SourceID      *int64
	Notes         string
}

// Result resultado de Reverse/Reapply. NoOp = ya estaba en el estado pedido, no se escribió nada.
type Result struct {
	NoOp        bool
	MovementIDs []int64
}

// RecordMovement registra un movimiento en su propia transacción.
func (l *Ledger) RecordMovement(ctx context.Context, in MovementInput) (int64, error) {
	var id int64
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		mov, err := l.RecordMovementInTx(ctx, tx, in)
		if err != nil {
			return err
		}
		id = mov.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RecordManualMovement registra un movimiento de operación. Rechaza las referencias que el libro
// reserva para aperturas, notas crédito y sus compensatorios; el origen siempre queda como manual.
func (l *Ledger) RecordManualMovement(ctx context.Context, in MovementInput) (int64, error) {
	in.Reference = strings.TrimSpace(in.Reference)
	if entity.IsReservedReference(in.Reference) {
		return 0, domain.NewValidationError("reference", "referencia reservada por el sistema: "+in.Reference)
	}
	in.SourceTable = SourceManual
	in.SourceID = nil
	return l.RecordMovement(ctx, in)
}

// RecordMovementInTx registra un movimiento usando la transacción del caller.
// Falla con ValidationError si la magnitud es cero o negativa donde el tipo exige positiva,
// y con ErrInsufficientStock si el stock cacheado quedaría negativo.
func (l *Ledger) RecordMovementInTx(ctx context.Context, tx repository.Tx, in MovementInput) (*entity.StockMovement, error) {
	if in.ProductID <= 0 {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.Reference == "" {
		return nil, domain.NewValidationError("reference", "requerida")
	}
	switch in.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
	default:
		return nil, domain.NewValidationError("movement_type", "tipo desconocido: "+string(in.Type))
	}

	// Bloquea la fila del producto para evitar condiciones de carrera
	product, err := tx.Products().GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ProductID:    in.ProductID,
		MovementDate: l.now(),
		MovementType: in.Type,
		Reference:    in.Reference,
		SourceTable:  in.SourceTable,
		SourceID:     in.SourceID,
	}
	if in.Notes != "" {
		notes := in.Notes
		mov.Notes = &notes
	}

	var magnitude int64
	if product.StockUnit == entity.StockUnitWeight {
		if in.QuantityGrams == nil {
			return nil, domain.NewValidationError("quantity_grams", "requerido para productos por peso")
		}
		grams := *in.QuantityGrams
		magnitude = grams
		mov.QuantityGrams = &grams
		mov.Quantity = 0
	} else {
		magnitude = in.Quantity
		mov.Quantity = in.Quantity
	}
	if magnitude == 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser cero")
	}
	if in.Type != entity.MovementTypeADJUSTMENT && magnitude < 0 {
		return nil, domain.NewValidationError("quantity", "IN/OUT requieren magnitud positiva")
	}

	newStock := product.ActiveStock() + mov.Delta(product.StockUnit)
	if newStock < 0 {
		return nil, fmt.Errorf("producto %d: %w", product.ID, domain.ErrInsufficientStock)
	}
	stock, grams := product.CurrentStock, product.CurrentStockGrams
	if product.StockUnit == entity.StockUnitWeight {
		grams = newStock
	} else {
		stock = newStock
	}
	if err := tx.Products().UpdateStock(ctx, product.ID, stock, grams); err != nil {
		return nil, err
	}
	if err := tx.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	l.log.Debug().
		Int64("product_id", product.ID).
		Str("type", string(mov.MovementType)).
		Int64("delta", mov.Delta(product.StockUnit)).
		Int64("stock", newStock).
		Str("reference", mov.Reference).
		Msg("movimiento registrado")
	return mov, nil
}

// Reverse registra en su propia transacción el movimiento compensatorio de cada movimiento
// original del documento src. Ver ReverseInTx.
func (l *Ledger) Reverse(ctx context.Context, src entity.MovementSource) (Result, error) {
	var res Result
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		res, err = l.ReverseInTx(ctx, tx, src)
		return err
	})
	return res, err
}

// ReverseInTx deshace el efecto de los movimientos originales de src (misma referencia, misma
// fila de origen), etiquetando los compensatorios con "<reference>:reverse".
// Idempotente: si el efecto ya está revertido (más reversos que restauraciones) es NoOp.
func (l *Ledger) ReverseInTx(ctx context.Context, tx repository.Tx, src entity.MovementSource) (Result, error) {
	originals, err := l.originals(ctx, tx, src)
	if err != nil {
		return Result{}, err
	}
	if len(originals) == 0 {
		l.log.Warn().Str("reference", src.Reference).Str("source_table", src.Table).Int64("source_id", src.ID).
			Msg("sin movimientos originales que revertir")
		return Result{NoOp: true}, nil
	}
	reversed, err := l.isReversed(ctx, tx, src)
	if err != nil {
		return Result{}, err
	}
	if reversed {
		return Result{NoOp: true}, nil
	}
	return l.post(ctx, tx, originals, src.Reference+entity.ReferenceReverseSuffix, true)
}

// Reapply vuelve a aplicar en su propia transacción el efecto original. Ver ReapplyInTx.
func (l *Ledger) Reapply(ctx context.Context, src entity.MovementSource) (Result, error) {
	var res Result
	err := l.txRunner.Run(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		res, err = l.ReapplyInTx(ctx, tx, src)
		return err
	})
	return res, err
}

// ReapplyInTx vuelve a registrar los movimientos originales de src con referencia "<reference>:restore".
// Es NoOp si el efecto no está revertido, así una segunda restauración no duplica stock.
func (l *Ledger) ReapplyInTx(ctx context.Context, tx repository.Tx, src entity.MovementSource) (Result, error) {
	originals, err := l.originals(ctx, tx, src)
	if err != nil {
		return Result{}, err
	}
	if len(originals) == 0 {
		return Result{NoOp: true}, nil
	}
	reversed, err := l.isReversed(ctx, tx, src)
	if err != nil {
		return Result{}, err
	}
	if !reversed {
		return Result{NoOp: true}, nil
	}
	return l.post(ctx, tx, originals, src.Reference+entity.ReferenceRestoreSuffix, false)
}

func (l *Ledger) originals(ctx context.Context, tx repository.Tx, src entity.MovementSource) ([]*entity.StockMovement, error) {
	if src.Reference == "" || src.Table == "" || src.ID <= 0 {
		return nil, domain.NewValidationError("source", "referencia y documento de origen requeridos")
	}
	return tx.Movements().ListBySource(ctx, src)
}

// isReversed deriva el estado del propio libro: revertido si el documento tiene más movimientos
// de reverso que de restauración.
func (l *Ledger) isReversed(ctx context.Context, tx repository.Tx, src entity.MovementSource) (bool, error) {
	reverses, err := tx.Movements().CountBySource(ctx, src.WithSuffix(entity.ReferenceReverseSuffix))
	if err != nil {
		return false, err
	}
	restores, err := tx.Movements().CountBySource(ctx, src.WithSuffix(entity.ReferenceRestoreSuffix))
	if err != nil {
		return false, err
	}
	return reverses > restores, nil
}

func (l *Ledger) post(ctx context.Context, tx repository.Tx, originals []*entity.StockMovement, reference string, invert bool) (Result, error) {
	res := Result{MovementIDs: make([]int64, 0, len(originals))}
	for _, orig := range originals {
		in := MovementInput{
			ProductID:     orig.ProductID,
			Type:          orig.MovementType,
			Quantity:      orig.Quantity,
			QuantityGrams: orig.QuantityGrams,
			Reference:     reference,
			SourceTable:   orig.SourceTable,
			SourceID:      orig.SourceID,
			Notes:         fmt.Sprintf("movimiento #%d", orig.ID),
		}
		if invert {
			in = inverse(in)
			in.Notes = fmt.Sprintf("reverso de movimiento #%d", orig.ID)
		}
		mov, err := l.RecordMovementInTx(ctx, tx, in)
		if err != nil {
			return Result{}, err
		}
		res.MovementIDs = append(res.MovementIDs, mov.ID)
	}
	return res, nil
}

// inverse IN <-> OUT; ADJUSTMENT cambia de signo.
func inverse(in MovementInput) MovementInput {
	switch in.Type {
	case entity.MovementTypeIN:
		in.Type = entity.MovementTypeOUT
	case entity.MovementTypeOUT:
		in.Type = entity.MovementTypeIN
	case entity.MovementTypeADJUSTMENT:
		in.Quantity = -in.Quantity
		if in.QuantityGrams != nil {
			g := -*in.QuantityGrams
			in.QuantityGrams = &g
		}
	}
	return in
}
