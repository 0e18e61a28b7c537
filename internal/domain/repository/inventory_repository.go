package repository

import (
	"context"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// InventoryStore define el puerto del almacén canónico de inventario (DIP).
// Cada escritura confirmada emite exactamente un ChangeEvent en el change feed.
type InventoryStore interface {
	// Upsert reemplaza el registro en su identidad (store, item).
	// Emite INSERT si no existía registro previo y MODIFY en caso contrario.
	Upsert(ctx context.Context, rec entity.InventoryRecord) (entity.ChangeEvent, error)
	// Remove borra el registro y emite REMOVE. Devuelve domain.ErrNotFound si no existe.
	Remove(ctx context.Context, store, item string) (entity.ChangeEvent, error)
	GetByStore(ctx context.Context, store string) ([]entity.InventoryRecord, error)
	GetAll(ctx context.Context) ([]entity.InventoryRecord, error)
	// ListPage recorre el inventario completo ordenado por (store, item) a partir de after (exclusivo).
	// after nil = desde el inicio.
	ListPage(ctx context.Context, after *entity.RecordKey, limit int) ([]entity.InventoryRecord, error)
}

// ChangeFeed expone los cambios confirmados en orden de secuencia. Entrega al-menos-una-vez.
type ChangeFeed interface {
	// ChangesAfter devuelve hasta limit eventos con Sequence > after.
	ChangesAfter(ctx context.Context, after uint64, limit int) ([]entity.ChangeEvent, error)
}

// CheckpointRepository persiste la última secuencia procesada por consumidor.
type CheckpointRepository interface {
	GetCheckpoint(ctx context.Context, consumer string) (uint64, error)
	SaveCheckpoint(ctx context.Context, consumer string, sequence uint64) error
}
