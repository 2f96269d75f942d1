package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

type swipeFlags struct {
	reader   string
	resource string
	at       string
}

func (f *swipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.reader, "reader", "door-001", "reader id the swipe arrives on")
	cmd.Flags().StringVar(&f.resource, "resource", "", "resource id (defaults to the reader's resource)")
	cmd.Flags().StringVar(&f.at, "at", "", "swipe time, RFC 3339 (defaults to now)")
}

func (f *swipeFlags) time() (time.Time, error) {
	if f.at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, f.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

func newDecideCmd(g *globalFlags) *cobra.Command {
	var f swipeFlags
	cmd := &cobra.Command{
		Use:   "decide BADGE",
		Short: "Decide one swipe against the configured policy",
		Long:  `Decide one swipe against the configured policy and print the decision as JSON. Nothing is audited.`,
		Args:  cobra.ExactArgs(1),
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

			resource := f.resource
			if resource == "" {
				id, ok := st.processor.Snapshot().ResourceForReader(f.reader)
				if !ok {
					return errors.New("reader has no resource; pass --resource")
				}
				resource = id
			}

			resp := st.processor.ProcessRequest(types.AccessRequest{
				BadgeCode:  args[0],
				ReaderID:   f.reader,
				ResourceID: resource,
				Timestamp:  at,
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	f.register(cmd)
	return cmd
}
