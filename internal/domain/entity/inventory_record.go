package entity

import "time"

// InventoryRecord representa la cantidad actual de un ítem en una tienda.
// La identidad es el par (Store, Item); la última escritura confirmada gana.
type InventoryRecord struct {
	Store     string
	Item      string
	Count     int64
	UpdatedAt time.Time
}

// Key devuelve la identidad del registro.
func (r InventoryRecord) Key() RecordKey {
	return RecordKey{Store: r.Store, Item: r.Item}
}

// Valid indica si el registro cumple las invariantes mínimas (store e item no vacíos, count >= 0).
func (r InventoryRecord) Valid() bool {
	return r.Store != "" && r.Item != "" && r.Count >= 0
}

// RecordKey identidad (store, item) de un registro de inventario.
type RecordKey struct {
	Store string
	Item  string
}
