// Package stream entrega el change feed del inventario al consumidor de alertas por lotes.
package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
	"github.com/jhoicas/Inventario-stream/pkg/config"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

// BatchHandler procesa un lote de cambios (alerts.ConsumerUseCase).
type BatchHandler interface {
	HandleBatch(ctx context.Context, events []entity.ChangeEvent) (dto.StreamBatchResult, error)
}

// Worker sondea el change feed a partir del checkpoint del consumidor.
// El checkpoint solo avanza hasta antes de la primera secuencia fallida, así que los
// eventos fallidos (y los posteriores del lote) se vuelven a entregar: al-menos-una-vez.
type Worker struct {
	feed        repository.ChangeFeed
	checkpoints repository.CheckpointRepository
	handler     BatchHandler
	consumer    string
	batchSize   int
	interval    time.Duration
	log         *logger.Logger
}

// NewWorker construye el worker con los parámetros de STREAM_*.
func NewWorker(
	feed repository.ChangeFeed,
	checkpoints repository.CheckpointRepository,
	handler BatchHandler,
	cfg config.StreamConfig,
	log *logger.Logger,
) *Worker {
	return &Worker{
		feed:        feed,
		checkpoints: checkpoints,
		handler:     handler,
		consumer:    cfg.Consumer,
		batchSize:   cfg.BatchSize,
		interval:    cfg.PollInterval,
		log:         log.Named("stream-worker"),
	}
}

// maxBackoff espera máxima entre reintentos de un lote que sigue fallando.
const maxBackoff = 30 * time.Second

// Run sondea cada intervalo hasta que ctx se cancele. Un lote lleno se sigue drenando sin esperar.
// Tras un lote fallido la espera se duplica hasta maxBackoff y vuelve al intervalo con el primer éxito.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().
		Str("consumer", w.consumer).
		Int("batch_size", w.batchSize).
		Dur("interval", w.interval).
		Msg("consumidor del change feed iniciado")

	failures := 0
	t := time.NewTimer(w.interval)
	defer t.Stop()
	for {
		for {
			n, err := w.PollOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				failures++
				w.log.Error().Err(err).
					Str("consumer", w.consumer).
					Int("failures", failures).
					Dur("retry_in", w.backoff(failures)).
					Msg("error procesando lote del change feed")
				break
			}
			failures = 0
			if n < w.batchSize {
				break
			}
		}
		t.Reset(w.backoff(failures))
		select {
		case <-ctx.Done():
			w.log.Info().Str("consumer", w.consumer).Msg("consumidor del change feed detenido")
			return nil
		case <-t.C:
		}
	}
}

// backoff espera antes del siguiente sondeo tras failures lotes fallidos consecutivos.
func (w *Worker) backoff(failures int) time.Duration {
	d := w.interval
	for range failures {
		if d >= maxBackoff/2 {
			return max(maxBackoff, w.interval)
		}
		d *= 2
	}
	return d
}

// PollOnce lee un lote, lo entrega al handler y guarda el checkpoint.
// Devuelve cuántos eventos se leyeron.
func (w *Worker) PollOnce(ctx context.Context) (int, error) {
	after, err := w.checkpoints.GetCheckpoint(ctx, w.consumer)
	if err != nil {
		return 0, fmt.Errorf("leer checkpoint: %w", err)
	}
	events, err := w.feed.ChangesAfter(ctx, after, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("leer change feed: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	res, handleErr := w.handler.HandleBatch(ctx, events)
	next := commitPoint(after, events, res.FailedSequences)
	if next > after {
		if err := w.checkpoints.SaveCheckpoint(ctx, w.consumer, next); err != nil {
			return len(events), errors.Join(handleErr, fmt.Errorf("guardar checkpoint: %w", err))
		}
	}
	if handleErr != nil {
		return len(events), handleErr
	}
	return len(events), nil
}

// commitPoint última secuencia del lote anterior a la primera fallida.
func commitPoint(after uint64, events []entity.ChangeEvent, failed []uint64) uint64 {
	if len(failed) == 0 {
		return events[len(events)-1].Sequence
	}
	first := failed[0]
	for _, s := range failed[1:] {
		first = min(first, s)
	}
	next := after
	for _, ev := range events {
		if ev.Sequence >= first {
			break
		}
		next = ev.Sequence
	}
	return next
}
