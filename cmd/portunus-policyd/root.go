package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/config"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
)

type globalFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "portunus-policyd",
		Short:         "Portunus access policy server",
		Long:          `Decides badge swipes against the site access policy and serves reader modules over HTTP and gRPC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (env PORTUNUS_* overrides it)")

	root.AddCommand(
		newServeCmd(&g),
		newMigrateCmd(&g),
		newSeedCmd(&g),
		newDecideCmd(&g),
		newSimulateCmd(&g),
		newReadersCmd(&g),
		newEventsCmd(&g),
	)
	return root
}

// setup loads configuration and builds the process logger.
func (g *globalFlags) setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.With("service", "portunus-policyd", "env", cfg.Env), nil
}
