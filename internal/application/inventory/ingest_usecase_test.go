package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
	"github.com/jhoicas/Inventario-stream/internal/domain"
	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

const sampleCSV = "Store,Item,Count\nA,apple,10\nB,banana,5\nC,carrot,xyz\n"

// flakyStore rechaza los upserts de los ítems indicados y delega el resto en memoria.
type flakyStore struct {
	*memory.Store
	reject map[string]bool
}

func (s *flakyStore) Upsert(ctx context.Context, rec entity.InventoryRecord) (entity.ChangeEvent, error) {
	if s.reject[rec.Item] {
		return entity.ChangeEvent{}, errors.New("conditional check failed")
	}
	return s.Store.Upsert(ctx, rec)
}

type fakeObjects struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeObjects) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	f.calls = append(f.calls, bucket+"/"+key)
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return b, nil
}

func TestIngest_AplicaTodosLosRegistros(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := inventory.NewIngestUseCase(store, nil, logger.Nop())

	res, err := uc.Ingest(ctx, []byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Processed)
	assert.Zero(t, res.Failed)
	assert.NotEmpty(t, res.BatchID)

	byStore, err := store.GetByStore(ctx, "C")
	require.NoError(t, err)
	require.Len(t, byStore, 1)
	assert.Equal(t, int64(0), byStore[0].Count)
}

func TestIngest_FallaParcialContinua(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.New(), reject: map[string]bool{"banana": true}}
	uc := inventory.NewIngestUseCase(store, nil, logger.Nop())

	res, err := uc.Ingest(ctx, []byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed, "solo cuentan las escrituras confirmadas")
	assert.Equal(t, 1, res.Failed)

	all, _ := store.GetAll(ctx)
	assert.Len(t, all, 2, "las escrituras previas no se revierten")
}

func TestIngest_FilasInvalidasNoEmitenEventos(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := inventory.NewIngestUseCase(store, nil, logger.Nop())

	res, err := uc.Ingest(ctx, []byte("Store,Item,Count\n,apple,1\nA,,2\n"))
	require.NoError(t, err)
	assert.Zero(t, res.Processed)

	changes, _ := store.ChangesAfter(ctx, 0, 10)
	assert.Empty(t, changes)
}

func TestIngest_EliminaBOM(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := inventory.NewIngestUseCase(store, nil, logger.Nop())

	res, err := uc.Ingest(ctx, append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
}

func TestIngest_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := inventory.NewIngestUseCase(memory.New(), nil, logger.Nop())

	res, err := uc.Ingest(ctx, []byte(sampleCSV))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Processed)
}

func TestHandleUploadEvent_DescargaYAplica(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	objects := &fakeObjects{objects: map[string][]byte{"uploads/daily inventory.csv": []byte(sampleCSV)}}
	uc := inventory.NewIngestUseCase(store, objects, logger.Nop())

	var ev dto.S3EventNotification
	ev.Records = make([]dto.S3EventRecord, 1)
	ev.Records[0].S3.Bucket.Name = "uploads"
	ev.Records[0].S3.Object.Key = "daily+inventory.csv"

	out, err := uc.HandleUploadEvent(ctx, ev)
	require.NoError(t, err)

	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, 3, out.Processed)
	require.Len(t, out.Objects, 1)
	assert.Equal(t, "s3://uploads/daily inventory.csv", out.Objects[0].Source)
	assert.Equal(t, []string{"uploads/daily inventory.csv"}, objects.calls)
}

func TestHandleUploadEvent_ObjetoFaltanteNoDetieneElResto(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{"uploads/ok.csv": []byte(sampleCSV)}}
	uc := inventory.NewIngestUseCase(memory.New(), objects, logger.Nop())

	var ev dto.S3EventNotification
	ev.Records = make([]dto.S3EventRecord, 2)
	ev.Records[0].S3.Bucket.Name = "uploads"
	ev.Records[0].S3.Object.Key = "missing.csv"
	ev.Records[1].S3.Bucket.Name = "uploads"
	ev.Records[1].S3.Object.Key = "ok.csv"

	out, err := uc.HandleUploadEvent(ctx, ev)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrObjectUnavailable)
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, 3, out.Processed)
	assert.Len(t, out.Objects, 2)
}

func TestIngestObject_SinAlmacenConfigurado(t *testing.T) {
	uc := inventory.NewIngestUseCase(memory.New(), nil, logger.Nop())

	_, err := uc.IngestObject(context.Background(), "uploads", "a.csv")
	assert.ErrorIs(t, err, domain.ErrObjectUnavailable)
}

func TestPreview_NoEscribe(t *testing.T) {
	recs, err := inventory.Preview([]byte("\xef\xbb\xbf" + sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, []entity.InventoryRecord{
		{Store: "A", Item: "apple", Count: 10},
		{Store: "B", Item: "banana", Count: 5},
		{Store: "C", Item: "carrot", Count: 0},
	}, recs)
}
