package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// AuditEntryResponse entrada de la bitácora.
type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	Entity    string          `json:"entity"`
	EntityID  int64           `json:"entity_id"`
	Action    string          `json:"action"`
	ActorID   *string         `json:"actor_id"`
	Meta      json.RawMessage `json:"meta" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditFromEntity mapea una entrada.
func AuditFromEntity(e *entity.AuditEntry) AuditEntryResponse {
	meta := e.Meta
	if len(meta) == 0 {
		meta = json.RawMessage(`{}`)
	}
	return AuditEntryResponse{
		ID:        e.ID,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Meta:      meta,
		CreatedAt: e.CreatedAt,
	}
}

// InvoiceBalanceResponse resultado de conciliar una factura.
type InvoiceBalanceResponse struct {
	InvoiceID        int64           `json:"invoice_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Payments         decimal.Decimal `json:"payments"`
	ActiveCredits    decimal.Decimal `json:"active_credits"`
	BalanceRemaining decimal.Decimal `json:"balance_remaining"`
}
