package cli

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/qcrbox/shelxcif/internal/convert"
	"github.com/qcrbox/shelxcif/internal/ledger"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check IN",
		Short: "Verify the embedded instruction stream round-trips",
		Long: `Decode the constraint region of the instruction text embedded in a
CIF block, re-encode it, and report any divergence between the two
streams.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}
}

func runCheck(cmd *cobra.Command, opts *RootOptions, in string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	block, err := loadBlock(in)
	if err != nil {
		return err
	}
	text, ok := convert.EmbeddedInstructions(block)
	if !ok {
		return fmt.Errorf("%s: block embeds no instruction text", in)
	}

	original, regenerated, err := convert.RoundTrip(text)
	if err != nil {
		recordRun(ctx, opts, ledger.Run{
			Direction: ledger.DirectionCheck,
			Input:     in,
			Outcome:   ledger.OutcomeError,
			Detail:    err.Error(),
		})
		return err
	}

	before := strings.Join(original, "\n")
	after := strings.Join(regenerated, "\n")
	if before == after {
		fmt.Fprintln(cmd.OutOrStdout(), "round trip clean")
		logger.Debug("streams identical", "lines", len(original))
		recordRun(ctx, opts, ledger.Run{
			Direction: ledger.DirectionCheck,
			Input:     in,
			Atoms:     len(original),
			Outcome:   ledger.OutcomeOK,
		})
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	fmt.Fprint(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))
	fmt.Fprintln(cmd.OutOrStdout())

	recordRun(ctx, opts, ledger.Run{
		Direction: ledger.DirectionCheck,
		Input:     in,
		Outcome:   ledger.OutcomeError,
		Detail:    "regenerated stream diverges",
	})
	return fmt.Errorf("%s: regenerated stream diverges from the original", in)
}
