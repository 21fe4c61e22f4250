// Package audit bitácora de mejor esfuerzo: una escritura fallida se registra en el log y se
// devuelve como advertencia, nunca como error de negocio.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

// DefaultListLimit tope de entradas devueltas por List.
const DefaultListLimit = 200

// Trail bitácora de auditoría.
type Trail struct {
	repo      repository.AuditRepository
	log       zerolog.Logger
	listLimit int
}

// NewTrail construye la bitácora. listLimit <= 0 usa DefaultListLimit.
func NewTrail(repo repository.AuditRepository, log zerolog.Logger, listLimit int) *Trail {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Trail{
		repo:      repo,
		log:       log.With().Str("component", "audit_trail").Logger(),
		listLimit: listLimit,
	}
}

// Append agrega una entrada. actorID vacío = acción del sistema.
// Devuelve *domain.AuditWriteWarning si no se pudo escribir; nunca entra en pánico.
func (t *Trail) Append(ctx context.Context, entityName string, entityID int64, action, actorID string, meta map[string]any) (warn error) {
	defer func() {
		if r := recover(); r != nil {
			warn = t.warn(action, entityName, entityID, fmt.Errorf("panic: %v", r))
		}
	}()

	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return t.warn(action, entityName, entityID, fmt.Errorf("marshal meta: %w", err))
	}
	e := &entity.AuditEntry{
		Entity:    entityName,
		EntityID:  entityID,
		Action:    action,
		Meta:      raw,
		CreatedAt: time.Now().UTC(),
	}
	if actorID != "" {
		e.ActorID = &actorID
	}
	if err := t.repo.Create(ctx, e); err != nil {
		return t.warn(action, entityName, entityID, err)
	}
	return nil
}

func (t *Trail) warn(action, entityName string, entityID int64, err error) error {
	t.log.Warn().Err(err).
		Str("entity", entityName).
		Int64("entity_id", entityID).
		Str("action", action).
		Msg("no se pudo escribir la bitácora")
	return &domain.AuditWriteWarning{Action: action, Err: err}
}

// List devuelve las entradas de una entidad, más recientes primero (finita, re-ejecutable).
func (t *Trail) List(ctx context.Context, entityName string, entityID int64) ([]*entity.AuditEntry, error) {
	if entityName == "" || entityID <= 0 {
		return nil, domain.NewValidationError("entity", "entidad e id requeridos")
	}
	list, err := t.repo.ListByEntity(ctx, entityName, entityID, t.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	if list == nil {
		list = []*entity.AuditEntry{}
	}
	return list, nil
}
