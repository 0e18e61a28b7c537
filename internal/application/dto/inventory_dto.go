package dto

import "github.com/jhoicas/Inventario-stream/internal/domain/entity"

// ItemDTO registro de inventario tal como se expone en la API de lectura.
// Los nombres de campo conservan la capitalización de la tabla original (Store, Item, Count).
type ItemDTO struct {
	Store string `json:"Store"`
	Item  string `json:"Item"`
	Count int64  `json:"Count"`
}

// ItemsResponse respuesta de GET /items y GET /items/{store}.
// NextCursor solo aparece en listados paginados con más resultados.
type ItemsResponse struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// PageQuery parámetros de paginación por cursor para GET /items.
type PageQuery struct {
	Limit  int    `query:"limit"`
	Cursor string `query:"cursor"`
}

// ToItemsResponse convierte registros de dominio a la respuesta HTTP; nunca devuelve Items nil.
func ToItemsResponse(records []entity.InventoryRecord) *ItemsResponse {
	items := make([]ItemDTO, 0, len(records))
	for _, r := range records {
		items = append(items, ItemDTO{Store: r.Store, Item: r.Item, Count: r.Count})
	}
	return &ItemsResponse{Items: items}
}
