package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/db"
)

func newSeedCmd(g *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the development office policy into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if cfg.Env == "prod" && !force {
				return errors.New("refusing to seed a prod database without --force")
			}

			sqlDB, err := db.Open(cmd.Context(), db.Config{Path: cfg.DBPath, Env: cfg.Env})
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			w := db.NewWorker(sqlDB)
			defer w.Close()

			if err := db.SeedDev(cmd.Context(), w, db.SeedDevOptions{KnownReaders: cfg.KnownReaders}); err != nil {
				return err
			}
			logger.Info("development policy seeded", "path", cfg.DBPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when env is prod")
	return cmd
}
