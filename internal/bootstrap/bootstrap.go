// Package bootstrap arma las dependencias compartidas por la API y la CLI a partir de la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/Inventario-stream/internal/application/alerts"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/natsbus"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/objectstore"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/stream"
	"github.com/jhoicas/Inventario-stream/pkg/config"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

// Container dependencias listas para usar.
type Container struct {
	Store       repository.InventoryStore
	Feed        repository.ChangeFeed
	Checkpoints repository.CheckpointRepository

	QueryUC    *inventory.QueryUseCase
	IngestUC   *inventory.IngestUseCase
	ConsumerUC *alerts.ConsumerUseCase

	cfg     *config.Config
	log     *logger.Logger
	closers []func()
}

// New abre el almacén según STORE_DRIVER, el canal de alertas (si ALERTS_SUBJECT está definido)
// y el cliente de objetos, y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{cfg: cfg, log: log}

	switch cfg.Inventory.Driver {
	case config.StoreDriverMemory:
		mem := memory.New()
		c.Store, c.Feed, c.Checkpoints = mem, mem, mem
		log.Warn().Msg("almacén en memoria: los datos no persisten entre reinicios")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		pgStore := postgres.NewInventoryStore(pool, cfg.Inventory.Table)
		c.Store, c.Feed = pgStore, pgStore
		c.Checkpoints = postgres.NewCheckpointRepository(pool)
	}

	var channel alerts.Channel
	if cfg.Alerts.Enabled() {
		pub, err := natsbus.Connect(cfg.Alerts.NATSURL, cfg.Alerts.Subject,
			nats.RetryOnFailedConnect(true),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Warn().Err(err).Msg("NATS desconectado")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconectado")
			}),
		)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = pub.Close() })
		channel = pub
		log.Info().Str("subject", pub.Subject()).Msg("canal de alertas NATS configurado")
	} else {
		log.Warn().Msg("ALERTS_SUBJECT vacío: las alertas de stock bajo no se publicarán")
	}

	var objects inventory.ObjectGetter
	getter, err := objectstore.NewS3Getter(ctx, cfg.Objects)
	if err != nil {
		log.Warn().Err(err).Msg("almacenamiento de objetos no disponible; solo ingesta directa")
	} else {
		objects = getter
	}

	c.QueryUC = inventory.NewQueryUseCase(c.Store)
	c.IngestUC = inventory.NewIngestUseCase(c.Store, objects, log)
	c.ConsumerUC = alerts.NewConsumerUseCase(alerts.NewNotifier(channel, log), cfg.Alerts.Threshold, log)
	return c, nil
}

// NewWorker construye el consumidor del change feed con STREAM_*.
func (c *Container) NewWorker() *stream.Worker {
	return stream.NewWorker(c.Feed, c.Checkpoints, c.ConsumerUC, c.cfg.Stream, c.log)
}

// Close libera conexiones en orden inverso de apertura.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
