package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Fallas de dependencias externas: se registran y se propagan un nivel hacia arriba.
	ErrStoreUnavailable   = errors.New("almacén de inventario no disponible")
	ErrChannelUnavailable = errors.New("canal de notificaciones no disponible")
	ErrObjectUnavailable  = errors.New("objeto de carga no disponible")
)
