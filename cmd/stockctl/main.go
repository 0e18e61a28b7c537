// Command stockctl opera el pipeline de inventario desde la terminal: migraciones, ingesta de lotes,
// consumo del change feed y bajas de registros.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-stream/internal/bootstrap"
	"github.com/jhoicas/Inventario-stream/pkg/config"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

// cli estado compartido por los subcomandos.
type cli struct {
	jsonOutput bool
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{}
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "CLI del pipeline de inventario",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			level := cfg.Log.Level
			if app.logLevel != "" {
				level = app.logLevel
			}
			app.cfg = cfg
			app.log = logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "salida en JSON")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "nivel de log (por defecto LOG_LEVEL)")

	root.AddCommand(newMigrateCmd(app))
	root.AddCommand(newIngestCmd(app))
	root.AddCommand(newConsumeCmd(app))
	root.AddCommand(newRemoveCmd(app))
	root.AddCommand(newTokenCmd(app))
	return root
}

// container abre almacén, canal y casos de uso; el llamador debe cerrar.
func (a *cli) container(ctx context.Context) (*bootstrap.Container, error) {
	return bootstrap.New(ctx, a.cfg, a.log)
}

// print escribe v como JSON indentado o con el formato de texto indicado.
func (a *cli) print(w io.Writer, v any, format string, args ...any) error {
	if a.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
