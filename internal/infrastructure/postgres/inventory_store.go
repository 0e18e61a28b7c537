package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
)

var (
	_ repository.InventoryStore = (*InventoryStore)(nil)
	_ repository.ChangeFeed     = (*InventoryStore)(nil)
)

// InventoryStore almacén canónico sobre PostgreSQL: cada escritura y su evento de cambio
// se confirman en la misma transacción.
type InventoryStore struct {
	tx      *TxRunner
	records *InventoryRepo
	changes *ChangeLogRepo
}

// NewInventoryStore construye el almacén sobre el pool y la tabla indicada.
func NewInventoryStore(pool *pgxpool.Pool, table string) *InventoryStore {
	return &InventoryStore{
		tx:      NewTxRunner(pool, table),
		records: NewInventoryRepository(pool, table),
		changes: NewChangeLogRepository(pool, table),
	}
}

// Upsert bloquea la identidad (exista o no la fila), reemplaza la cantidad y registra
// INSERT o MODIFY. Dos primeras escrituras concurrentes de la misma clave dan un solo INSERT.
func (s *InventoryStore) Upsert(ctx context.Context, rec entity.InventoryRecord) (entity.ChangeEvent, error) {
	if !rec.Valid() {
		return entity.ChangeEvent{}, domain.ErrInvalidInput
	}
	var ev entity.ChangeEvent
	err := s.tx.Run(ctx, func(records *InventoryRepo, changes *ChangeLogRepo) error {
		if err := records.LockKey(ctx, rec.Store, rec.Item); err != nil {
			return err
		}
		prev, err := records.GetForUpdate(ctx, rec.Store, rec.Item)
		if err != nil {
			return err
		}
		saved, err := records.Upsert(ctx, rec)
		if err != nil {
			return err
		}
		ev = entity.ChangeEvent{Kind: entity.ChangeKindInsert, Before: prev, After: &saved}
		if prev != nil {
			ev.Kind = entity.ChangeKindModify
		}
		return changes.Append(ctx, &ev)
	})
	if err != nil {
		if isCheckViolation(err) {
			return entity.ChangeEvent{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return entity.ChangeEvent{}, err
	}
	return ev, nil
}

// Remove borra el registro y registra REMOVE con la imagen previa.
func (s *InventoryStore) Remove(ctx context.Context, store, item string) (entity.ChangeEvent, error) {
	var ev entity.ChangeEvent
	err := s.tx.Run(ctx, func(records *InventoryRepo, changes *ChangeLogRepo) error {
		if err := records.LockKey(ctx, store, item); err != nil {
			return err
		}
		prev, err := records.GetForUpdate(ctx, store, item)
		if err != nil {
			return err
		}
		if prev == nil {
			return domain.ErrNotFound
		}
		if _, err := records.Delete(ctx, store, item); err != nil {
			return err
		}
		ev = entity.ChangeEvent{Kind: entity.ChangeKindRemove, Before: prev}
		return changes.Append(ctx, &ev)
	})
	if err != nil {
		return entity.ChangeEvent{}, err
	}
	return ev, nil
}

func (s *InventoryStore) GetByStore(ctx context.Context, store string) ([]entity.InventoryRecord, error) {
	return s.records.ListByStore(ctx, store)
}

func (s *InventoryStore) GetAll(ctx context.Context) ([]entity.InventoryRecord, error) {
	return s.records.ListAll(ctx)
}

func (s *InventoryStore) ListPage(ctx context.Context, after *entity.RecordKey, limit int) ([]entity.InventoryRecord, error) {
	return s.records.ListAfter(ctx, after, limit)
}

func (s *InventoryStore) ChangesAfter(ctx context.Context, after uint64, limit int) ([]entity.ChangeEvent, error) {
	return s.changes.ChangesAfter(ctx, after, limit)
}
