package cli

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Profile  string
	NoLedger bool

	// LedgerPath overrides the default history database location.
	// Empty means ~/.shelxcif/runs.db.
	LedgerPath string
}

// NewRootCommand creates the root command for the shelxcif CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shelxcif",
		Short: "Convert between SHELX instruction text and CIF constraint columns",
		Long: `shelxcif moves hydrogen-constraint information between the AFIX
instruction stream embedded in a CIF file and relational atom-site
columns, and back again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.Verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "conversion profile file")
	cmd.PersistentFlags().BoolVar(&opts.NoLedger, "no-ledger", false, "do not record this run in the history")
	cmd.PersistentFlags().StringVar(&opts.LedgerPath, "ledger", "", "history database path")

	cmd.AddCommand(NewToCIFCommand(opts))
	cmd.AddCommand(NewToInsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewIsoToAnisoCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// ledgerPath resolves the history database location, creating its
// directory when needed.
func (o *RootOptions) ledgerPath() (string, error) {
	if o.LedgerPath != "" {
		return o.LedgerPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".shelxcif")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "runs.db"), nil
}
