package inventory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
)

// MaxPageSize límite superior de registros por página en el listado paginado.
const MaxPageSize = 1000

// QueryUseCase fachada de solo lectura sobre el almacén de inventario.
type QueryUseCase struct {
	store repository.InventoryStore
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(store repository.InventoryStore) *QueryUseCase {
	return &QueryUseCase{store: store}
}

// Query devuelve los registros de storeFilter, o todo el inventario si storeFilter está vacío.
// Sin coincidencias devuelve una lista vacía; ante un fallo no devuelve resultados parciales.
func (uc *QueryUseCase) Query(ctx context.Context, storeFilter string) (*dto.ItemsResponse, error) {
	var (
		records []entity.InventoryRecord
		err     error
	)
	if storeFilter != "" {
		records, err = uc.store.GetByStore(ctx, storeFilter)
	} else {
		records, err = uc.store.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return dto.ToItemsResponse(records), nil
}

// QueryPage recorre el inventario completo por páginas ordenadas por (store, item).
func (uc *QueryUseCase) QueryPage(ctx context.Context, q dto.PageQuery) (*dto.ItemsResponse, error) {
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		return nil, fmt.Errorf("%w: limit debe estar entre 1 y %d", domain.ErrInvalidInput, MaxPageSize)
	}
	after, err := DecodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	// Se pide uno extra para saber si existe otra página.
	records, err := uc.store.ListPage(ctx, after, q.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	var next string
	if len(records) > q.Limit {
		records = records[:q.Limit]
		next = EncodeCursor(records[len(records)-1].Key())
	}
	resp := dto.ToItemsResponse(records)
	resp.NextCursor = next
	return resp, nil
}

type cursorPayload struct {
	Store string `json:"s"`
	Item  string `json:"i"`
}

// EncodeCursor serializa la última identidad devuelta como token opaco.
func EncodeCursor(k entity.RecordKey) string {
	b, _ := json.Marshal(cursorPayload{Store: k.Store, Item: k.Item})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor interpreta un token de EncodeCursor. Vacío = desde el inicio.
func DecodeCursor(token string) (*entity.RecordKey, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}
	var p cursorPayload
	if err := json.Unmarshal(b, &p); err != nil || p.Store == "" {
		return nil, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}
	return &entity.RecordKey{Store: p.Store, Item: p.Item}, nil
}
