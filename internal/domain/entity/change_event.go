package entity

import "time"

// Tipos de cambio emitidos por el change feed del inventario.
const (
	ChangeKindInsert = "INSERT" // no existía registro para la identidad
	ChangeKindModify = "MODIFY" // sobrescritura de un registro existente
	ChangeKindRemove = "REMOVE" // borrado
	ChangeKindOther  = "OTHER"
)

// ChangeEvent representa una mutación confirmada en el almacén de inventario.
// Before y After son las imágenes previa y posterior; pueden ser nil según el tipo.
type ChangeEvent struct {
	Kind      string
	Sequence  uint64
	Before    *InventoryRecord
	After     *InventoryRecord
	CreatedAt time.Time
}

// NormalizeChangeKind mapea un nombre de evento externo a uno de los tipos conocidos.
func NormalizeChangeKind(name string) string {
	switch name {
	case ChangeKindInsert, ChangeKindModify, ChangeKindRemove:
		return name
	default:
		return ChangeKindOther
	}
}
