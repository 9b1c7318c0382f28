package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qcrbox/shelxcif/internal/ledger"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	var (
		direction string
		outcome   string
		contains  string
		within    time.Duration
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var preds ledger.And
			if direction != "" {
				preds = append(preds, ledger.DirectionIs(direction))
			}
			if outcome != "" {
				preds = append(preds, ledger.OutcomeIs(outcome))
			}
			if contains != "" {
				preds = append(preds, ledger.InputContains(contains))
			}
			if within > 0 {
				preds = append(preds, ledger.Since(time.Now().Add(-within)))
			}
			var filter ledger.Predicate
			if len(preds) > 0 {
				filter = preds
			}
			return runHistory(cmd, opts, filter, limit)
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "filter by direction (to-cif|to-ins|check)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "filter by outcome (ok|error)")
	cmd.Flags().StringVar(&contains, "contains", "", "filter by input name substring")
	cmd.Flags().DurationVar(&within, "within", 0, "only runs newer than this (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to list (0 = all)")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *RootOptions, filter ledger.Predicate, limit int) error {
	path, err := opts.ledgerPath()
	if err != nil {
		return err
	}
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.History(cmd.Context(), filter, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-6s  %-5s  %s", run.RecordedAt.Format(time.RFC3339), run.Direction, run.Outcome, run.Input)
		if run.Outcome == ledger.OutcomeOK {
			fmt.Fprintf(w, "  atoms=%d constraints=%d", run.Atoms, run.Constraints)
		} else if run.Detail != "" {
			fmt.Fprintf(w, "  %s", run.Detail)
		}
		fmt.Fprintln(w)
	}
	return nil
}
