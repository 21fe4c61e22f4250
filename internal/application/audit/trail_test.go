package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/domain"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/memory"
)

type panicRepo struct{ *memory.AuditRepo }

func (panicRepo) Create(context.Context, *entity.AuditEntry) error { panic("driver roto") }

func TestAppend_ListaMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	trail := audit.NewTrail(memory.NewAuditRepository(), zerolog.Nop(), 0)

	require.NoError(t, trail.Append(ctx, "credit_note", 1, "credit_note.issue", "u-1", map[string]any{"number": "CN-0001"}))
	require.NoError(t, trail.Append(ctx, "credit_note", 2, "credit_note.issue", "u-1", nil))
	require.NoError(t, trail.Append(ctx, "credit_note", 1, "credit_note.void", "", map[string]any{"from": "ISSUED", "to": "VOID"}))

	list, err := trail.List(ctx, "credit_note", 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "credit_note.void", list[0].Action)
	assert.Nil(t, list[0].ActorID, "acción del sistema")
	assert.Equal(t, "credit_note.issue", list[1].Action)
	require.NotNil(t, list[1].ActorID)
	assert.Equal(t, "u-1", *list[1].ActorID)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(list[0].Meta, &meta))
	assert.Equal(t, "VOID", meta["to"])
}

func TestList_RespetaLimite(t *testing.T) {
	ctx := context.Background()
	trail := audit.NewTrail(memory.NewAuditRepository(), zerolog.Nop(), 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, trail.Append(ctx, "credit_note", 7, "credit_note.void", "", nil))
	}
	list, err := trail.List(ctx, "credit_note", 7)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestList_SinEntradasDevuelveVacio(t *testing.T) {
	trail := audit.NewTrail(memory.NewAuditRepository(), zerolog.Nop(), 0)
	list, err := trail.List(context.Background(), "credit_note", 9)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = trail.List(context.Background(), "", 9)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppend_FalloEsAdvertencia(t *testing.T) {
	repo := memory.NewAuditRepository()
	repo.FailWith(errors.New("disco lleno"))
	trail := audit.NewTrail(repo, zerolog.Nop(), 0)

	err := trail.Append(context.Background(), "credit_note", 1, "credit_note.void", "", nil)
	var warn *domain.AuditWriteWarning
	require.ErrorAs(t, err, &warn)
	assert.Equal(t, "credit_note.void", warn.Action)
	assert.True(t, domain.IsWarning(err))
}

func TestAppend_PanicSeConvierteEnAdvertencia(t *testing.T) {
	trail := audit.NewTrail(panicRepo{memory.NewAuditRepository()}, zerolog.Nop(), 0)

	var err error
	assert.NotPanics(t, func() {
		err = trail.Append(context.Background(), "credit_note", 1, "credit_note.refund", "", nil)
	})
	var warn *domain.AuditWriteWarning
	assert.ErrorAs(t, err, &warn)
}
