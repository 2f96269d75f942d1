package main

import (
	"encoding/hex"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/sqlite"
)

func newEventsCmd(g *globalFlags) *cobra.Command {
	var (
		reader string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent access decisions from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			events, err := sqlite.NewAccessEventStore(sqlDB, w).Recent(cmd.Context(), reader, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SWIPED AT\tREADER\tRESOURCE\tBADGE\tGRANTED\tCODE\tPROFILE")
			for _, e := range events {
				badge := hex.EncodeToString(e.BadgeHash)
				if len(badge) > 12 {
					badge = badge[:12]
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
					e.SwipedAt.Format(time.RFC3339), e.ReaderID, e.ResourceID, badge, e.Granted, e.Code, e.Profile)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&reader, "reader", "", "only events from this reader")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of events")
	return cmd
}
