package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/shortlink/internal/server"
)

func newResolveCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>",
		Short: "Print the target URL of a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withApp(cmd.Context(), func(app *server.App) error {
				target, err := app.Resolver.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), target)
				return nil
			})
		},
	}
}
