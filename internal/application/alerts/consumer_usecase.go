package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

// DefaultThreshold umbral de stock bajo por defecto.
const DefaultThreshold int64 = 5

// Outcome resultado de evaluar un evento del change feed.
type Outcome int

const (
	OutcomeSkipped        Outcome = iota // tipo distinto de INSERT/MODIFY
	OutcomeDiscarded                     // imagen After ausente o mal formada
	OutcomeAboveThreshold                // count > umbral, no-op
	OutcomeLowStock                      // count <= umbral, hay que notificar
)

// Decision veredicto para un evento; Store/Item/Count solo son válidos si Outcome = OutcomeLowStock
// u OutcomeAboveThreshold.
type Decision struct {
	Outcome Outcome
	Store   string
	Item    string
	Count   int64
}

// Evaluate es una función pura de (Kind, After): recalcular el mismo evento da el mismo veredicto.
func Evaluate(ev entity.ChangeEvent, threshold int64) Decision {
	if ev.Kind != entity.ChangeKindInsert && ev.Kind != entity.ChangeKindModify {
		return Decision{Outcome: OutcomeSkipped}
	}
	if ev.After == nil || !ev.After.Valid() {
		return Decision{Outcome: OutcomeDiscarded}
	}
	d := Decision{Store: ev.After.Store, Item: ev.After.Item, Count: ev.After.Count}
	if d.Count <= threshold {
		d.Outcome = OutcomeLowStock
	} else {
		d.Outcome = OutcomeAboveThreshold
	}
	return d
}

// ConsumerUseCase clasifica cada cambio y notifica los cruces de umbral.
// No guarda estado entre eventos: una entrega duplicada produce una notificación duplicada.
type ConsumerUseCase struct {
	notifier  LowStockNotifier
	threshold int64
	log       *logger.Logger
}

// NewConsumerUseCase construye el consumidor. threshold debe ser >= 0.
func NewConsumerUseCase(notifier LowStockNotifier, threshold int64, log *logger.Logger) *ConsumerUseCase {
	return &ConsumerUseCase{notifier: notifier, threshold: threshold, log: log.Named("stream-consumer")}
}

// Threshold devuelve el umbral configurado.
func (uc *ConsumerUseCase) Threshold() int64 { return uc.threshold }

// HandleBatch aplica la máquina de estados a cada evento, de forma independiente del lote.
// Los fallos de publicación no detienen el lote; se devuelven unidos y sus secuencias
// quedan en FailedSequences.
func (uc *ConsumerUseCase) HandleBatch(ctx context.Context, events []entity.ChangeEvent) (dto.StreamBatchResult, error) {
	res := dto.StreamBatchResult{Received: len(events)}
	var errs []error
	for _, ev := range events {
		d := Evaluate(ev, uc.threshold)
		switch d.Outcome {
		case OutcomeSkipped:
			res.Skipped++
		case OutcomeDiscarded:
			res.Discarded++
			uc.log.Warn().Uint64("sequence", ev.Sequence).Str("kind", ev.Kind).Msg("formato inesperado en stream; evento descartado")
		case OutcomeAboveThreshold:
			res.AboveThreshold++
		case OutcomeLowStock:
			if err := uc.notifier.Notify(ctx, d.Store, d.Item, d.Count); err != nil {
				res.Failed++
				res.FailedSequences = append(res.FailedSequences, ev.Sequence)
				errs = append(errs, fmt.Errorf("secuencia %d: %w", ev.Sequence, err))
				continue
			}
			res.Notified++
		}
	}
	if res.Failed > 0 || res.Notified > 0 || res.Discarded > 0 {
		uc.log.Info().
			Int("received", res.Received).
			Int("notified", res.Notified).
			Int("discarded", res.Discarded).
			Int("failed", res.Failed).
			Msg("lote de cambios procesado")
	}
	return res, errors.Join(errs...)
}
