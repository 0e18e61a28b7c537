package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// InventoryRepo acceso a la tabla de inventario (usable con pool o tx).
type InventoryRepo struct {
	q     Querier
	table string
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier) y el nombre de la tabla.
func NewInventoryRepository(q Querier, table string) *InventoryRepo {
	return &InventoryRepo{q: q, table: pgx.Identifier{table}.Sanitize()}
}

// keyLockNamespace primer argumento del advisory lock por (store, item); el espacio de dos
// claves int4 no se solapa con el de changeLogLockKey.
const keyLockNamespace int32 = 0x696e76

// LockKey toma un advisory lock de transacción sobre la identidad (store, item). Cubre también
// la fila ausente, que SELECT FOR UPDATE no puede bloquear.
func (r *InventoryRepo) LockKey(ctx context.Context, store, item string) error {
	query := `SELECT pg_advisory_xact_lock($1::int, hashtext($2::text || chr(31) || $3::text))`
	if _, err := r.q.Exec(ctx, query, keyLockNamespace, store, item); err != nil {
		return fmt.Errorf("lock inventory key: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE). nil si no existe.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, store, item string) (*entity.InventoryRecord, error) {
	query := `
		SELECT store, item, count, updated_at
		FROM ` + r.table + ` WHERE store = $1 AND item = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, store, item).Scan(&rec.Store, &rec.Item, &rec.Count, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o reemplaza la cantidad en la identidad (store, item).
func (r *InventoryRepo) Upsert(ctx context.Context, rec entity.InventoryRecord) (entity.InventoryRecord, error) {
	query := `
		INSERT INTO ` + r.table + ` (store, item, count, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (store, item)
		DO UPDATE SET count = EXCLUDED.count, updated_at = now()
		RETURNING updated_at`
	if err := r.q.QueryRow(ctx, query, rec.Store, rec.Item, rec.Count).Scan(&rec.UpdatedAt); err != nil {
		return rec, fmt.Errorf("upsert inventory: %w", err)
	}
	return rec, nil
}

// Delete borra el registro; devuelve false si no existía.
func (r *InventoryRepo) Delete(ctx context.Context, store, item string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE store = $1 AND item = $2`, store, item)
	if err != nil {
		return false, fmt.Errorf("delete inventory: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByStore devuelve todos los ítems de una tienda.
func (r *InventoryRepo) ListByStore(ctx context.Context, store string) ([]entity.InventoryRecord, error) {
	query := `SELECT store, item, count, updated_at FROM ` + r.table + ` WHERE store = $1`
	return r.list(ctx, "list inventory by store", query, store)
}

// ListAll recorrido completo, sin paginación.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]entity.InventoryRecord, error) {
	query := `SELECT store, item, count, updated_at FROM ` + r.table
	return r.list(ctx, "list inventory", query)
}

// ListAfter página ordenada por (store, item) a partir de after (exclusivo).
func (r *InventoryRepo) ListAfter(ctx context.Context, after *entity.RecordKey, limit int) ([]entity.InventoryRecord, error) {
	if after == nil {
		query := `
			SELECT store, item, count, updated_at FROM ` + r.table + `
			ORDER BY store, item LIMIT $1`
		return r.list(ctx, "list inventory page", query, limit)
	}
	query := `
		SELECT store, item, count, updated_at FROM ` + r.table + `
		WHERE (store, item) > ($1, $2)
		ORDER BY store, item LIMIT $3`
	return r.list(ctx, "list inventory page", query, after.Store, after.Item, limit)
}

func (r *InventoryRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := make([]entity.InventoryRecord, 0)
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.Store, &rec.Item, &rec.Count, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
