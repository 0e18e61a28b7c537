package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-stream/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-stream/pkg/config"
)

func newMigrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes en PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Inventory.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate requiere STORE_DRIVER=%s", config.StoreDriverPostgres)
			}
			if app.cfg.Inventory.Table != "inventory" {
				app.log.Warn().Str("table", app.cfg.Inventory.Table).
					Msg("las migraciones crean la tabla por defecto; INVENTORY_TABLE personalizada debe aprovisionarse aparte")
			}
			if err := postgres.Migrate(app.cfg.DB.ConnectionString()); err != nil {
				return err
			}
			app.log.Info().Msg("migraciones aplicadas")
			return nil
		},
	}
}
