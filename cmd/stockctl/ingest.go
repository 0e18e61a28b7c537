package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
)

func newIngestCmd(app *cli) *cobra.Command {
	var (
		bucket string
		key    string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Aplica un lote CSV desde un archivo local o un objeto S3",
		Example: `  stockctl ingest inventory.csv
  stockctl ingest --bucket uploads --key daily/inventory.csv
  stockctl ingest --dry-run inventory.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromObject := bucket != "" || key != ""
			switch {
			case fromObject && len(args) > 0:
				return fmt.Errorf("indique un archivo o --bucket/--key, no ambos")
			case fromObject && (bucket == "" || key == ""):
				return fmt.Errorf("--bucket y --key van juntos")
			case !fromObject && len(args) == 0:
				return fmt.Errorf("falta el archivo a ingerir")
			case fromObject && dryRun:
				return fmt.Errorf("--dry-run solo aplica a archivos locales")
			}

			if dryRun {
				payload, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("leer %s: %w", args[0], err)
				}
				records, err := inventory.Preview(payload)
				if err != nil {
					return err
				}
				items := dto.ToItemsResponse(records)
				if app.jsonOutput {
					return app.print(cmd.OutOrStdout(), items, "")
				}
				for _, it := range items.Items {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", it.Store, it.Item, it.Count)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d registros (sin escribir)\n", len(items.Items))
				return nil
			}

			ctx := cmd.Context()
			deps, err := app.container(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			var res dto.IngestResult
			if fromObject {
				res, err = deps.IngestUC.IngestObject(ctx, bucket, key)
			} else {
				payload, readErr := os.ReadFile(args[0])
				if readErr != nil {
					return fmt.Errorf("leer %s: %w", args[0], readErr)
				}
				res, err = deps.IngestUC.Ingest(ctx, payload)
				res.Source = args[0]
			}
			if err != nil {
				return err
			}
			return app.print(cmd.OutOrStdout(), res, "lote %s: %d aplicados, %d rechazados", res.BatchID, res.Processed, res.Failed)
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket S3 del lote")
	cmd.Flags().StringVar(&key, "key", "", "key del objeto en el bucket")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "solo parsear e imprimir los registros")
	return cmd
}
