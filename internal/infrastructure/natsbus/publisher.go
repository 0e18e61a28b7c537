// Package natsbus publica las alertas de inventario en un subject NATS (fan-out a suscriptores).
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/Inventario-stream/internal/application/alerts"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

var _ alerts.Channel = (*Publisher)(nil)

// HeaderSubject cabecera con el asunto legible de la alerta.
const HeaderSubject = "Subject"

const defaultFlushTimeout = 2 * time.Second

// Publisher envía NotificationEvent como JSON al subject configurado.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect abre la conexión con reconexión automática. Se pueden añadir nats.Option extra.
func Connect(url, subject string, opts ...nats.Option) (*Publisher, error) {
	defaults := []nats.Option{
		nats.Name("inventario-stream"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Publisher{conn: nc, subject: subject}, nil
}

// Subject destino de las alertas.
func (p *Publisher) Subject() string { return p.subject }

// Publish serializa n y espera el flush para que un servidor caído se reporte como error.
func (p *Publisher) Publish(ctx context.Context, n entity.NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}
	msg := nats.NewMsg(p.subject)
	msg.Header.Set(HeaderSubject, n.Subject)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}

	if _, ok := ctx.Deadline(); ok {
		err = p.conn.FlushWithContext(ctx)
	} else {
		err = p.conn.FlushTimeout(defaultFlushTimeout)
	}
	if err != nil {
		return fmt.Errorf("flushing to %s: %w", p.subject, err)
	}
	return nil
}

// Close drena y cierra la conexión.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
