package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/shortlink/internal/models"
	"github.com/Siddarth2230/shortlink/internal/server"
)

func newCreateCmd(st *cliState) *cobra.Command {
	var longURL, code string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shorten a URL and print its code",
		Example: `  shortlink create --url "https://example.com/page"
  shortlink create --url "https://example.com/docs" --code my-docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withApp(cmd.Context(), func(app *server.App) error {
				var (
					link *models.Link
					err  error
				)
				if code != "" {
					link, err = app.Shortener.CreateCustom(cmd.Context(), longURL, code)
				} else {
					link, err = app.Shortener.Create(cmd.Context(), longURL)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Code: %s\n", link.Code)
				fmt.Fprintf(out, "Short URL: %s/%s\n", strings.TrimRight(st.cfg.Server.BaseURL, "/"), link.Code)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&longURL, "url", "u", "", "long URL to shorten (required)")
	cmd.Flags().StringVar(&code, "code", "", "custom short code")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
