package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/sqlite"
)

func newReadersCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readers",
		Short: "Inspect and commission reader modules",
	}

	// withStore opens the database for the duration of fn.
	withStore := func(cmd *cobra.Command, fn func(*sqlite.ReaderStore) error) error {
		cfg, _, err := g.setup()
		if err != nil {
			return err
		}
		sqlDB, err := db.Open(cmd.Context(), db.Config{Path: cfg.DBPath, Env: cfg.Env})
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		w := db.NewWorker(sqlDB)
		defer w.Close()
		return fn(sqlite.NewReaderStore(sqlDB, w))
	}

	var name string
	commission := &cobra.Command{
		Use:   "commission READER_ID",
		Short: "Enable a reader so its swipes are decided",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *sqlite.ReaderStore) error {
				return s.Commission(cmd.Context(), args[0], name, time.Now())
			})
		},
	}
	commission.Flags().StringVar(&name, "name", "", "display name")

	revoke := &cobra.Command{
		Use:   "revoke READER_ID",
		Short: "Stop treating a reader as known",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *sqlite.ReaderStore) error {
				return s.Revoke(cmd.Context(), args[0], time.Now())
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List readers and when they were last seen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(s *sqlite.ReaderStore) error {
				readers, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "READER\tKNOWN\tLAST SEEN")
				for _, r := range readers {
					seen := "never"
					if !r.LastSeen.IsZero() {
						seen = r.LastSeen.Format(time.RFC3339)
					}
					fmt.Fprintf(tw, "%s\t%t\t%s\n", r.ReaderID, r.Known, seen)
				}
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(list, commission, revoke)
	return cmd
}
