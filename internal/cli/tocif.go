package cli

import (
	"github.com/spf13/cobra"

	"github.com/qcrbox/shelxcif/internal/convert"
	"github.com/qcrbox/shelxcif/internal/ledger"
	"github.com/qcrbox/shelxcif/internal/profile"
)

// NewToCIFCommand creates the to-cif command.
func NewToCIFCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-cif IN OUT",
		Short: "Interpret embedded instruction text into constraint columns",
		Long: `Decode the AFIX instruction stream embedded in a CIF block and merge
the resulting attachment, constraint, and displacement information
into the block's atom-site tables.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToCIF(cmd, opts, args[0], args[1])
		},
	}
}

func runToCIF(cmd *cobra.Command, opts *RootOptions, in, out string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pcmd, hasProfile, err := profileCommand(opts, "to-cif")
	if err != nil {
		return err
	}

	block, err := loadBlock(in)
	if err != nil {
		return err
	}
	if hasProfile {
		block, err = profile.Select(block, pcmd.CIFInput)
		if err != nil {
			return err
		}
		logger.Debug("applied input profile", "entries", len(block.ItemNames()))
	}

	summary, err := convert.AfixToCIF(block)
	if err != nil {
		recordRun(ctx, opts, ledger.Run{
			Direction: ledger.DirectionToCIF,
			Input:     in,
			Outcome:   ledger.OutcomeError,
			Detail:    err.Error(),
		})
		return err
	}

	if hasProfile {
		block, err = profile.Select(block, pcmd.CIFOutput)
		if err != nil {
			return err
		}
	}
	if err := writeBlock(out, block); err != nil {
		return err
	}

	logger.Info("interpreted instruction text",
		"atoms", summary.Atoms, "constraints", summary.Constraints, "out", out)
	recordRun(ctx, opts, ledger.Run{
		Direction:   ledger.DirectionToCIF,
		Input:       in,
		Atoms:       summary.Atoms,
		Constraints: summary.Constraints,
		Outcome:     ledger.OutcomeOK,
	})
	return nil
}
