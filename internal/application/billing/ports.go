package billing

import (
	"context"

	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos de facturación.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}
