package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-stream/pkg/jwt"
)

func newTokenCmd(app *cli) *cobra.Command {
	var (
		subject string
		scope   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de servicio para las rutas de ingesta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET no configurado")
			}
			tok, err := jwt.Generate(app.cfg.JWT.Secret, subject, scope, app.cfg.JWT.Issuer, app.cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			return app.print(cmd.OutOrStdout(), map[string]string{"token": tok}, "%s", tok)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "uploader", "cliente de servicio")
	cmd.Flags().StringVar(&scope, "scope", jwt.ScopeIngest, "scope del token")
	return cmd
}
