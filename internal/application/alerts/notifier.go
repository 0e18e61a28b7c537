package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

var _ LowStockNotifier = (*Notifier)(nil)

// Notifier da formato a la alerta de stock bajo y la publica en el canal configurado.
// Sin canal configurado la llamada es un no-op con advertencia. No reintenta.
type Notifier struct {
	channel Channel
	log     *logger.Logger
	now     func() time.Time
}

// NewNotifier construye el notificador. channel nil = canal deshabilitado.
func NewNotifier(channel Channel, log *logger.Logger) *Notifier {
	return &Notifier{channel: channel, log: log.Named("notifier"), now: time.Now}
}

// FormatLowStockMessage cuerpo fijo de la alerta.
func FormatLowStockMessage(store, item string, count int64) string {
	return fmt.Sprintf("Low stock: store=%s, item=%s, count=%d", store, item, count)
}

// Notify publica una alerta para (store, item, count).
func (n *Notifier) Notify(ctx context.Context, store, item string, count int64) error {
	msg := FormatLowStockMessage(store, item, count)
	if n.channel == nil {
		n.log.Warn().Str("message", msg).Msg("canal de alertas no configurado; se omite publicación")
		return nil
	}

	ev := entity.NotificationEvent{
		ID:        uuid.NewString(),
		Store:     store,
		Item:      item,
		Count:     count,
		Subject:   entity.LowStockSubject,
		Body:      msg,
		CreatedAt: n.now().UTC(),
	}
	n.log.Info().Str("notification_id", ev.ID).Str("message", msg).Msg("enviando notificación")

	if err := n.channel.Publish(ctx, ev); err != nil {
		n.log.Error().Err(err).Str("notification_id", ev.ID).Msg("publicación fallida")
		return fmt.Errorf("%w: %w", domain.ErrChannelUnavailable, err)
	}
	return nil
}
