package main

import (
	"github.com/spf13/cobra"
)

func newRemoveCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <store> <item>",
		Short: "Borra un registro de inventario (emite REMOVE en el change feed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := app.container(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			ev, err := deps.Store.Remove(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return app.print(cmd.OutOrStdout(), ev, "eliminado %s/%s (secuencia %d)", args[0], args[1], ev.Sequence)
		},
	}
}
