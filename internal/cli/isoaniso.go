package cli

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/qcrbox/shelxcif/internal/geom"
)

// NewIsoToAnisoCommand creates the iso-to-aniso command.
func NewIsoToAnisoCommand(opts *RootOptions) *cobra.Command {
	var (
		atoms     []string
		elements  []string
		patterns  []string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "iso-to-aniso IN OUT",
		Short: "Rewrite selected isotropic displacements as anisotropic rows",
		Long: `Convert the isotropic displacement parameter of selected atoms into
the equivalent six anisotropic components, appending rows to the
anisotropic table in atom-site order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			sel := geom.SelectOptions{
				Names:     atoms,
				Elements:  elements,
				Overwrite: overwrite,
			}
			for _, p := range patterns {
				re, err := regexp.Compile(p)
				if err != nil {
					return fmt.Errorf("invalid --pattern %q: %w", p, err)
				}
				sel.Patterns = append(sel.Patterns, re)
			}
			if len(sel.Names) == 0 && len(sel.Elements) == 0 && len(sel.Patterns) == 0 {
				return fmt.Errorf("no atoms selected: pass --atom, --element, or --pattern")
			}

			block, err := loadBlock(args[0])
			if err != nil {
				return err
			}
			if err := geom.ConvertIsoToAniso(block, sel); err != nil {
				return err
			}
			if err := writeBlock(args[1], block); err != nil {
				return err
			}
			logger.Info("converted displacements", "out", args[1])
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&atoms, "atom", nil, "atom label to convert (repeatable)")
	cmd.Flags().StringArrayVar(&elements, "element", nil, "element symbol to convert (repeatable)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "label regexp to convert (repeatable)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing anisotropic rows for selected atoms")
	return cmd
}
