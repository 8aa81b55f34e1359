package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/shortlink/internal/config"
	"github.com/Siddarth2230/shortlink/internal/server"
)

type cliState struct {
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:           "shortlink",
		Short:         "Issue short codes for URLs and redirect them back",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(st.cfgFile)
			if err != nil {
				return err
			}
			st.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&st.cfgFile, "config", "c", "", "config file (default ./configs/config.yaml or ./config.yaml)")

	root.AddCommand(
		newServeCmd(st),
		newCreateCmd(st),
		newResolveCmd(st),
		newMigrateCmd(st),
	)
	return root
}

// withApp builds the app for one command and closes it afterwards.
func (st *cliState) withApp(ctx context.Context, fn func(app *server.App) error) error {
	app, err := server.Build(ctx, st.cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
