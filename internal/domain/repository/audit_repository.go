package repository

import (
	"context"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// AuditRepository define el puerto de la bitácora (sólo inserción). Opera fuera de la
// transacción de negocio.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	// ListByEntity devuelve las entradas más recientes primero.
	ListByEntity(ctx context.Context, entityName string, entityID int64, limit int) ([]*entity.AuditEntry, error)
}
