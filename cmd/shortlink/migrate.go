package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/shortlink/internal/repository"
	"github.com/Siddarth2230/shortlink/internal/server"
)

func newMigrateCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the links table for SQL-backed stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withApp(cmd.Context(), func(app *server.App) error {
				m, ok := app.Store.(repository.Migrator)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "store driver %q has no schema, nothing to do\n", st.cfg.Store.Driver)
					return nil
				}
				if err := m.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
				return nil
			})
		},
	}
}
