package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-stream/internal/domain/repository"
)

var _ repository.CheckpointRepository = (*CheckpointRepo)(nil)

// CheckpointRepo última secuencia procesada por consumidor del change feed.
type CheckpointRepo struct {
	q Querier
}

// NewCheckpointRepository construye el adaptador.
func NewCheckpointRepository(q Querier) *CheckpointRepo {
	return &CheckpointRepo{q: q}
}

func (r *CheckpointRepo) GetCheckpoint(ctx context.Context, consumer string) (uint64, error) {
	var seq int64
	err := r.q.QueryRow(ctx, `SELECT sequence FROM stream_checkpoints WHERE consumer = $1`, consumer).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get checkpoint: %w", err)
	}
	return uint64(seq), nil
}

func (r *CheckpointRepo) SaveCheckpoint(ctx context.Context, consumer string, sequence uint64) error {
	query := `
		INSERT INTO stream_checkpoints (consumer, sequence, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (consumer)
		DO UPDATE SET sequence = EXCLUDED.sequence, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, consumer, int64(sequence)); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
