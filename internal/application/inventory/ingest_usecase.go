package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-stream/internal/domain/inventory"
	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
	"github.com/jhoicas/Inventario-stream/pkg/idgen"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

// IngestUseCase aplica lotes CSV al almacén de inventario como una secuencia de upserts.
// Es de mejor esfuerzo: un upsert rechazado se registra y se continúa con el resto de filas;
// no hay rollback de las escrituras previas del mismo lote.
type IngestUseCase struct {
	store   repository.InventoryStore
	objects ObjectGetter
	log     *logger.Logger
}

// NewIngestUseCase construye el caso de uso. objects puede ser nil si solo se ingiere por cuerpo directo.
func NewIngestUseCase(store repository.InventoryStore, objects ObjectGetter, log *logger.Logger) *IngestUseCase {
	return &IngestUseCase{store: store, objects: objects, log: log.Named("ingest")}
}

// Ingest decodifica payload como UTF-8, lo parsea y aplica cada registro válido.
// Solo devuelve error si el contexto se cancela; el resultado parcial se devuelve igualmente.
func (uc *IngestUseCase) Ingest(ctx context.Context, payload []byte) (dto.IngestResult, error) {
	batchID, err := idgen.NewBatchID()
	if err != nil {
		return dto.IngestResult{}, err
	}
	res := dto.IngestResult{BatchID: batchID}

	text, err := decodeUTF8(payload)
	if err != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	for rec := range domaininv.ParseRecords(text) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := uc.store.Upsert(ctx, rec); err != nil {
			res.Failed++
			uc.log.Warn().Err(err).
				Str("batch_id", batchID).
				Str("store", rec.Store).
				Str("item", rec.Item).
				Msg("upsert rechazado; se continúa con el lote")
			continue
		}
		res.Processed++
	}

	uc.log.Info().
		Str("batch_id", batchID).
		Int("processed", res.Processed).
		Int("failed", res.Failed).
		Msg("lote aplicado")
	return res, nil
}

// IngestObject descarga bucket/key y lo aplica con Ingest.
func (uc *IngestUseCase) IngestObject(ctx context.Context, bucket, key string) (dto.IngestResult, error) {
	source := fmt.Sprintf("s3://%s/%s", bucket, key)
	if uc.objects == nil {
		return dto.IngestResult{Source: source}, fmt.Errorf("%w: almacenamiento de objetos no configurado", domain.ErrObjectUnavailable)
	}
	uc.log.Info().Str("source", source).Msg("procesando archivo")

	body, err := uc.objects.GetObject(ctx, bucket, key)
	if err != nil {
		uc.log.Error().Err(err).Str("source", source).Msg("no se pudo obtener el objeto")
		return dto.IngestResult{Source: source}, fmt.Errorf("%w: %s: %w", domain.ErrObjectUnavailable, source, err)
	}
	res, err := uc.Ingest(ctx, body)
	res.Source = source
	return res, err
}

// HandleUploadEvent procesa cada objeto de una notificación de carga de forma independiente.
// Los objetos que fallan no impiden procesar el resto; sus errores se devuelven unidos.
func (uc *IngestUseCase) HandleUploadEvent(ctx context.Context, ev dto.S3EventNotification) (dto.UploadEventResult, error) {
	out := dto.UploadEventResult{Status: "ok", Objects: make([]dto.IngestResult, 0, len(ev.Records))}
	var errs []error
	for _, rec := range ev.Records {
		bucket := rec.S3.Bucket.Name
		key := objectKey(rec.S3.Object.Key)
		if bucket == "" || key == "" {
			uc.log.Warn().Str("event", rec.EventName).Msg("registro de carga sin bucket o key; se omite")
			continue
		}
		res, err := uc.IngestObject(ctx, bucket, key)
		out.Objects = append(out.Objects, res)
		out.Processed += res.Processed
		out.Failed += res.Failed
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		out.Status = "error"
	}
	uc.log.Info().Int("processed", out.Processed).Int("objects", len(out.Objects)).Msg("notificación de carga procesada")
	return out, errors.Join(errs...)
}

// Preview decodifica y parsea payload sin escribir en el almacén.
func Preview(payload []byte) ([]entity.InventoryRecord, error) {
	text, err := decodeUTF8(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return slices.Collect(domaininv.ParseRecords(text)), nil
}

// objectKey decodifica la key tal como llega en notificaciones S3 (espacios como '+', %XX).
func objectKey(raw string) string {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return key
}

// decodeUTF8 elimina un BOM inicial y reemplaza secuencias inválidas por U+FFFD.
func decodeUTF8(payload []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
