package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// ChangeLogRepo tabla append-only de cambios confirmados (outbox); sequence es BIGSERIAL.
type ChangeLogRepo struct {
	q     Querier
	table string
}

// NewChangeLogRepository construye el adaptador para la tabla <inventario>_changes.
func NewChangeLogRepository(q Querier, inventoryTable string) *ChangeLogRepo {
	return &ChangeLogRepo{q: q, table: pgx.Identifier{changesTable(inventoryTable)}.Sanitize()}
}

// changeLogLockKey clave del advisory lock (espacio de una clave bigint) que serializa Append.
const changeLogLockKey int64 = 0x696e765f6368616e

// Append registra ev y completa Sequence y CreatedAt. Debe ejecutarse dentro de una
// transacción: el lock se mantiene hasta el commit, así el orden de sequence coincide con
// el orden de commit y ChangesAfter nunca deja atrás una secuencia aún no visible.
func (r *ChangeLogRepo) Append(ctx context.Context, ev *entity.ChangeEvent) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1::bigint)`, changeLogLockKey); err != nil {
		return fmt.Errorf("lock change log: %w", err)
	}
	key := imageKey(ev)
	query := `
		INSERT INTO ` + r.table + ` (kind, store, item, before_count, after_count, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING sequence, created_at`
	var seq int64
	err := r.q.QueryRow(ctx, query, ev.Kind, key.Store, key.Item, countOf(ev.Before), countOf(ev.After)).
		Scan(&seq, &ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	ev.Sequence = uint64(seq)
	return nil
}

// ChangesAfter devuelve hasta limit cambios con sequence > after, en orden.
func (r *ChangeLogRepo) ChangesAfter(ctx context.Context, after uint64, limit int) ([]entity.ChangeEvent, error) {
	query := `
		SELECT sequence, kind, store, item, before_count, after_count, created_at
		FROM ` + r.table + `
		WHERE sequence > $1
		ORDER BY sequence LIMIT $2`
	rows, err := r.q.Query(ctx, query, int64(after), limit)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	list := make([]entity.ChangeEvent, 0)
	for rows.Next() {
		var (
			seq                     int64
			kind                    string
			store, item             string
			beforeCount, afterCount *int64
			createdAt               time.Time
		)
		if err := rows.Scan(&seq, &kind, &store, &item, &beforeCount, &afterCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		list = append(list, entity.ChangeEvent{
			Kind:      kind,
			Sequence:  uint64(seq),
			Before:    image(store, item, beforeCount),
			After:     image(store, item, afterCount),
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	return list, nil
}

func imageKey(ev *entity.ChangeEvent) entity.RecordKey {
	if ev.After != nil {
		return ev.After.Key()
	}
	if ev.Before != nil {
		return ev.Before.Key()
	}
	return entity.RecordKey{}
}

func countOf(rec *entity.InventoryRecord) *int64 {
	if rec == nil {
		return nil
	}
	c := rec.Count
	return &c
}

func image(store, item string, count *int64) *entity.InventoryRecord {
	if count == nil {
		return nil
	}
	return &entity.InventoryRecord{Store: store, Item: item, Count: *count}
}
