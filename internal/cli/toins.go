package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/qcrbox/shelxcif/internal/convert"
	"github.com/qcrbox/shelxcif/internal/ledger"
	"github.com/qcrbox/shelxcif/internal/profile"
)

// NewToInsCommand creates the to-ins command.
func NewToInsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-ins IN OUT",
		Short: "Render a CIF block as an instruction file",
		Long: `Write the refinement instruction file for a CIF block. A block that
still embeds its original instruction text is written verbatim; a
block carrying constraint columns gets a generated header and a
re-encoded instruction stream.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToIns(cmd, opts, args[0], args[1])
		},
	}
}

func runToIns(cmd *cobra.Command, opts *RootOptions, in, out string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pcmd, hasProfile, err := profileCommand(opts, "to-ins")
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
	}

	atoms := 0
	if siteLoop, ok := block.Loop("_atom_site"); ok {
		atoms = siteLoop.Rows()
	}

	text, err := convert.CIFToIns(block)
	if err != nil {
		recordRun(ctx, opts, ledger.Run{
			Direction: ledger.DirectionToIns,
			Input:     in,
			Outcome:   ledger.OutcomeError,
			Detail:    err.Error(),
		})
		return err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return err
	}

	logger.Info("wrote instruction file", "atoms", atoms, "out", out)
	recordRun(ctx, opts, ledger.Run{
		Direction: ledger.DirectionToIns,
		Input:     in,
		Atoms:     atoms,
		Outcome:   ledger.OutcomeOK,
	})
	return nil
}
