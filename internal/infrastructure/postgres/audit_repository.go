package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// Algoritmos de compresión de meta.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// DefaultCompressThreshold meta más grande que esto (bytes) se guarda comprimida.
const DefaultCompressThreshold = 10 * 1024

// AuditRepo bitácora sobre PostgreSQL. Escribe con el pool, fuera de la transacción de negocio.
type AuditRepo struct {
	q                 Querier
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditRepository construye el adaptador. threshold <= 0 usa DefaultCompressThreshold.
func NewAuditRepository(q Querier, threshold int) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &AuditRepo{q: q, encoder: encoder, decoder: decoder, compressThreshold: threshold}, nil
}

type auditRow struct {
	ID              int64     `db:"id"`
	Entity          string    `db:"entity"`
	EntityID        int64     `db:"entity_id"`
	Action          string    `db:"action"`
	ActorID         *string   `db:"actor_id"`
	Meta            []byte    `db:"meta"`
	MetaCompressed  []byte    `db:"meta_compressed"`
	CompressionAlgo string    `db:"compression_algo"`
	CreatedAt       time.Time `db:"created_at"`
}

// Create inserta la entrada; meta por encima del umbral va a meta_compressed (zstd).
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	meta, compressed, algo := []byte(e.Meta), []byte(nil), CompressionNone
	if len(meta) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(meta, nil)
		meta, algo = nil, CompressionZstd
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	sql, args, err := psql.Insert("audit_log").
		Columns("entity", "entity_id", "action", "actor_id", "meta", "meta_compressed", "compression_algo", "created_at").
		Values(e.Entity, e.EntityID, e.Action, e.ActorID, meta, compressed, algo, e.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// ListByEntity entradas de la entidad, más recientes primero.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityName string, entityID int64, limit int) ([]*entity.AuditEntry, error) {
	q := psql.Select("id", "entity", "entity_id", "action", "actor_id", "meta", "meta_compressed", "compression_algo", "created_at").
		From("audit_log").
		Where(squirrel.Eq{"entity": entityName, "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit: %w", err)
	}
	var rows []auditRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}

	list := make([]*entity.AuditEntry, 0, len(rows))
	for _, row := range rows {
		meta := row.Meta
		if row.CompressionAlgo == CompressionZstd && len(row.MetaCompressed) > 0 {
			meta, err = r.decoder.DecodeAll(row.MetaCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit meta %d: %w", row.ID, err)
			}
		}
		list = append(list, &entity.AuditEntry{
			ID:        row.ID,
			Entity:    row.Entity,
			EntityID:  row.EntityID,
			Action:    row.Action,
			ActorID:   row.ActorID,
			Meta:      meta,
			CreatedAt: row.CreatedAt,
		})
	}
	return list, nil
}
