package entity

import (
	"encoding/json"
	"time"
)

// AuditEntry registro de la bitácora (sólo inserción). ActorID nulo = acción del sistema.
type AuditEntry struct {
	ID        int64           `db:"id"`
	Entity    string          `db:"entity"`
	EntityID  int64           `db:"entity_id"`
	Action    string          `db:"action"`
	ActorID   *string         `db:"actor_id"`
	Meta      json.RawMessage `db:"meta"`
	CreatedAt time.Time       `db:"created_at"`
}
