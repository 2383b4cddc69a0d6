package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bjaus/usersapi/internal/config"
	"github.com/bjaus/usersapi/internal/server"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "usersapi",
		Short:         "Schema-validated users API",
		Long:          `usersapi serves a users resource whose requests and responses are checked against declared schemas, and exports those schemas as an OpenAPI document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "YAML config file (environment: USERSAPI_*)")

	root.AddCommand(newServeCmd(), newSpecCmd(), newRoutesCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// buildOffline assembles the server without a logger, for commands that
// only inspect the bound contracts.
func buildOffline(cmd *cobra.Command) (*server.Server, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return server.New(cfg, zerolog.Nop())
}
