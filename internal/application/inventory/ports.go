package inventory

import (
	"context"

	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}
