package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	table string
}

// NewTxRunner construye el runner con el pool y la tabla de inventario.
func NewTxRunner(pool *pgxpool.Pool, table string) *TxRunner {
	return &TxRunner{pool: pool, table: table}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La fila de inventario y su entrada en el change log se confirman juntas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	records *InventoryRepo,
	changes *ChangeLogRepo,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryRepository(tx, r.table), NewChangeLogRepository(tx, r.table)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
