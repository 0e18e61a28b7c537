package alerts

import (
	"context"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// Channel canal fan-out donde se publican las alertas (NATS, SNS...).
// La política de reintentos, si existe, pertenece a la implementación del canal.
type Channel interface {
	Publish(ctx context.Context, n entity.NotificationEvent) error
}

// LowStockNotifier recibe los cruces de umbral detectados por el consumidor.
type LowStockNotifier interface {
	Notify(ctx context.Context, store, item string, count int64) error
}
