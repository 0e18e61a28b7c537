package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newConsumeCmd(app *cli) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Ejecuta el consumidor del change feed (alertas de stock bajo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := app.container(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			worker := deps.NewWorker()
			if !once {
				return worker.Run(ctx)
			}

			// Drena lo pendiente y termina.
			total := 0
			for {
				n, err := worker.PollOnce(ctx)
				if err != nil {
					return err
				}
				total += n
				if n == 0 {
					break
				}
			}
			return app.print(cmd.OutOrStdout(), map[string]int{"processed": total}, "%d cambios procesados", total)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "procesar lo pendiente y salir")
	return cmd
}
