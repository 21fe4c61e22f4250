package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria.
type AuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditEntry
	nextID  int64
	failErr error
}

// NewAuditRepository construye la bitácora vacía.
func NewAuditRepository() *AuditRepo {
	return &AuditRepo{}
}

// FailWith hace que Create falle con err (nil lo desactiva).
func (r *AuditRepo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

// Create agrega una entrada.
func (r *AuditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	e.ID = r.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	c := *e
	r.entries = append(r.entries, &c)
	return nil
}

// ListByEntity devuelve las entradas de la entidad, más recientes primero.
func (r *AuditRepo) ListByEntity(_ context.Context, entityName string, entityID int64, limit int) ([]*entity.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.AuditEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.Entity != entityName || e.EntityID != entityID {
			continue
		}
		c := *e
		list = append(list, &c)
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}
