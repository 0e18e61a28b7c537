// Package memory implementa el almacén de inventario, su change feed y los checkpoints en memoria.
// Pensado para desarrollo local y tests; no persiste entre reinicios.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
)

var (
	_ repository.InventoryStore       = (*Store)(nil)
	_ repository.ChangeFeed           = (*Store)(nil)
	_ repository.CheckpointRepository = (*Store)(nil)
)

// Sequencer entrega números de secuencia monótonamente crecientes.
type Sequencer struct{ n atomic.Uint64 }

// Next devuelve el siguiente número de secuencia.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Store almacén en memoria con un único escritor por operación (mutex).
type Store struct {
	mu          sync.RWMutex
	records     map[entity.RecordKey]entity.InventoryRecord
	changes     []entity.ChangeEvent
	checkpoints map[string]uint64
	seq         Sequencer
	now         func() time.Time
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		records:     make(map[entity.RecordKey]entity.InventoryRecord),
		checkpoints: make(map[string]uint64),
		now:         time.Now,
	}
}

func (s *Store) Upsert(_ context.Context, rec entity.InventoryRecord) (entity.ChangeEvent, error) {
	if !rec.Valid() {
		return entity.ChangeEvent{}, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec.UpdatedAt = now
	prev, existed := s.records[rec.Key()]
	s.records[rec.Key()] = rec

	ev := entity.ChangeEvent{
		Kind:      entity.ChangeKindInsert,
		Sequence:  s.seq.Next(),
		After:     &rec,
		CreatedAt: now,
	}
	if existed {
		ev.Kind = entity.ChangeKindModify
		ev.Before = &prev
	}
	s.changes = append(s.changes, ev)
	return ev, nil
}

func (s *Store) Remove(_ context.Context, store, item string) (entity.ChangeEvent, error) {
	key := entity.RecordKey{Store: store, Item: item}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.records[key]
	if !ok {
		return entity.ChangeEvent{}, domain.ErrNotFound
	}
	delete(s.records, key)
	ev := entity.ChangeEvent{
		Kind:      entity.ChangeKindRemove,
		Sequence:  s.seq.Next(),
		Before:    &prev,
		CreatedAt: s.now(),
	}
	s.changes = append(s.changes, ev)
	return ev, nil
}

func (s *Store) GetByStore(_ context.Context, store string) ([]entity.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.InventoryRecord, 0)
	for k, r := range s.records {
		if k.Store == store {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) GetAll(_ context.Context) ([]entity.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.InventoryRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) ListPage(ctx context.Context, after *entity.RecordKey, limit int) ([]entity.InventoryRecord, error) {
	all, _ := s.GetAll(ctx)
	slices.SortFunc(all, func(a, b entity.InventoryRecord) int {
		return compareKeys(a.Key(), b.Key())
	})
	start := 0
	if after != nil {
		start = sort.Search(len(all), func(i int) bool {
			return compareKeys(all[i].Key(), *after) > 0
		})
	}
	end := min(start+limit, len(all))
	return all[start:end], nil
}

func compareKeys(a, b entity.RecordKey) int {
	if c := cmp.Compare(a.Store, b.Store); c != 0 {
		return c
	}
	return cmp.Compare(a.Item, b.Item)
}

// ChangesAfter devuelve hasta limit cambios con secuencia mayor que after.
func (s *Store) ChangesAfter(_ context.Context, after uint64, limit int) ([]entity.ChangeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := sort.Search(len(s.changes), func(i int) bool { return s.changes[i].Sequence > after })
	end := min(i+limit, len(s.changes))
	return slices.Clone(s.changes[i:end]), nil
}

func (s *Store) GetCheckpoint(_ context.Context, consumer string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpoints[consumer], nil
}

func (s *Store) SaveCheckpoint(_ context.Context, consumer string, sequence uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[consumer] = sequence
	return nil
}
