package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
)

func newSimulateCmd(g *globalFlags) *cobra.Command {
	var (
		f     swipeFlags
		step  time.Duration
		audit bool
	)
	cmd := &cobra.Command{
		Use:   "simulate BADGE...",
		Short: "Replay swipes through a simulated reader",
		Long: `Registers a simulated reader with the router, swipes each badge in turn
and prints every decision delivered back to the reader as one JSON line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			at, err := f.time()
			if err != nil {
				return err
			}

			st, err := openStack(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			rt := router.New(st.processor, logger.With("component", "router"))
			rt.AddListener(router.NewLogObserver(logger.With("component", "decisions")))
			if audit {
				rt.AddListener(service.NewAuditObserver(st.events, logger, nil))
			}

			reader := router.NewSimulatedReader(f.reader)
			if err := rt.RegisterReader(reader); err != nil {
				return err
			}
			defer rt.UnregisterReader(f.reader)

			resource := f.resource
			if resource == "" {
				resource, _ = st.processor.Snapshot().ResourceForReader(f.reader)
			}
			for i, badge := range args {
				reader.Swipe(badge, resource, at.Add(time.Duration(i)*step))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, resp := range reader.Delivered() {
				if err := enc.Encode(resp); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&step, "step", time.Minute, "time between consecutive swipes")
	cmd.Flags().BoolVar(&audit, "audit", false, "record the decisions in the audit log")
	return cmd
}
