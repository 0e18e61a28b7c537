package dto

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// StreamBatchRequest lote de registros del change feed en formato de stream DynamoDB.
type StreamBatchRequest struct {
	Records []StreamRecord `json:"Records"`
}

// StreamRecord un cambio confirmado con sus imágenes en forma de mapa de atributos.
type StreamRecord struct {
	EventName string           `json:"eventName"`
	DynamoDB  StreamRecordData `json:"dynamodb"`
}

// StreamRecordData datos del cambio.
type StreamRecordData struct {
	SequenceNumber string                    `json:"SequenceNumber"`
	NewImage       map[string]AttributeValue `json:"NewImage,omitempty"`
	OldImage       map[string]AttributeValue `json:"OldImage,omitempty"`
}

// AttributeValue valor tipado: S = cadena, N = número serializado como cadena.
type AttributeValue struct {
	S *string `json:"S,omitempty"`
	N *string `json:"N,omitempty"`
}

// StreamBatchResult conteo por resultado de un lote procesado por el consumidor.
type StreamBatchResult struct {
	Received        int      `json:"received"`
	Skipped         int      `json:"skipped"`
	Discarded       int      `json:"discarded"`
	AboveThreshold  int      `json:"above_threshold"`
	Notified        int      `json:"notified"`
	Failed          int      `json:"failed"`
	FailedSequences []uint64 `json:"failed_sequences,omitempty"`
}

var errMalformedImage = errors.New("imagen con formato inesperado")

// imageCountDigits dígitos enteros que caben en un int64.
const imageCountDigits = 19

var (
	minImageCount = decimal.NewFromInt(math.MinInt64)
	maxImageCount = decimal.NewFromInt(math.MaxInt64)
)

// ToChangeEvents convierte el lote a eventos de dominio. Una imagen mal formada se entrega
// como nil para que el consumidor la descarte (y la registre) sin abortar el lote.
func (r StreamBatchRequest) ToChangeEvents() []entity.ChangeEvent {
	events := make([]entity.ChangeEvent, 0, len(r.Records))
	for _, rec := range r.Records {
		seq, _ := strconv.ParseUint(rec.DynamoDB.SequenceNumber, 10, 64)
		ev := entity.ChangeEvent{
			Kind:     entity.NormalizeChangeKind(rec.EventName),
			Sequence: seq,
		}
		if img, err := imageToRecord(rec.DynamoDB.NewImage); err == nil {
			ev.After = img
		}
		if img, err := imageToRecord(rec.DynamoDB.OldImage); err == nil {
			ev.Before = img
		}
		events = append(events, ev)
	}
	return events
}

func imageToRecord(img map[string]AttributeValue) (*entity.InventoryRecord, error) {
	if img == nil {
		return nil, errMalformedImage
	}
	store, okS := img["Store"]
	item, okI := img["Item"]
	count, okC := img["Count"]
	if !okS || !okI || !okC || store.S == nil || item.S == nil || count.N == nil {
		return nil, errMalformedImage
	}
	n, err := imageCount(*count.N)
	if err != nil {
		return nil, err
	}
	return &entity.InventoryRecord{Store: *store.S, Item: *item.S, Count: n}, nil
}

// imageCount exige un entero representable en int64. La magnitud se acota por
// dígitos y exponente antes de cualquier reescalado.
func imageCount(n string) (int64, error) {
	d, err := decimal.NewFromString(n)
	if err != nil {
		return 0, errMalformedImage
	}
	if d.IsZero() {
		return 0, nil
	}
	digits := int64(len(new(big.Int).Abs(d.Coefficient()).String()))
	intDigits := digits + int64(d.Exponent())
	if intDigits <= 0 || intDigits > imageCountDigits {
		return 0, errMalformedImage
	}
	if !d.IsInteger() || d.LessThan(minImageCount) || d.GreaterThan(maxImageCount) {
		return 0, errMalformedImage
	}
	return d.IntPart(), nil
}
