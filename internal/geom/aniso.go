package geom

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/qcrbox/shelxcif/internal/cif"
)

// anisoComponents maps the anisotropic column suffixes to their index
// in the U11 U22 U33 U23 U13 U12 component order.
var anisoComponents = []struct {
	suffix string
	index  int
}{
	{"u_11", 0}, {"u_22", 1}, {"u_33", 2}, {"u_23", 3}, {"u_13", 4}, {"u_12", 5},
}

// SelectOptions pick the atoms whose displacement is converted. The
// three selectors union; an atom matches when any of them names it.
type SelectOptions struct {
	Names    []string
	Elements []string
	Patterns []*regexp.Regexp

	// Overwrite replaces existing anisotropic rows for selected atoms.
	// Without it, atoms that already have a row keep it.
	Overwrite bool
}

// ConvertIsoToAniso rewrites the selected atoms' isotropic displacement
// as equivalent anisotropic components inside the block: their adp type
// becomes Uani and rows are added to the anisotropic loop in atom-site
// order. The block's cell angles supply the reciprocal geometry.
func ConvertIsoToAniso(block *cif.Block, opts SelectOptions) error {
	siteLoop, ok := block.Loop("_atom_site")
	if !ok {
		return fmt.Errorf("block carries no _atom_site loop")
	}
	labels, ok := siteLoop.Column("_atom_site.label")
	if !ok {
		return fmt.Errorf("atom-site loop carries no label column")
	}

	selected, err := selectLabels(siteLoop, labels, opts)
	if err != nil {
		return err
	}

	anisoLoop, ok := block.Loop("_atom_site_aniso")
	if !ok {
		anisoLoop = cif.NewLoop()
		if err := anisoLoop.AddColumn("_atom_site_aniso.label", nil); err != nil {
			return err
		}
		for _, comp := range anisoComponents {
			if err := anisoLoop.AddColumn("_atom_site_aniso."+comp.suffix, nil); err != nil {
				return err
			}
		}
		block.AddLoop(anisoLoop)
	}
	existing, ok := anisoLoop.Column("_atom_site_aniso.label")
	if !ok {
		return fmt.Errorf("anisotropic loop carries no label column")
	}

	if !opts.Overwrite {
		selected = withoutExisting(selected, existing)
	}
	if len(selected) == 0 {
		return nil
	}

	alpha, err := cellAngle(block, "_cell.angle_alpha")
	if err != nil {
		return err
	}
	beta, err := cellAngle(block, "_cell.angle_beta")
	if err != nil {
		return err
	}
	gamma, err := cellAngle(block, "_cell.angle_gamma")
	if err != nil {
		return err
	}

	uisoColumn, ok := siteLoop.Column("_atom_site.u_iso_or_equiv")
	if !ok {
		return fmt.Errorf("atom-site loop carries no u_iso_or_equiv column")
	}

	converted := make(map[string][6]float64, len(selected))
	isSelected := make(map[string]bool, len(selected))
	for _, name := range selected {
		idx := indexOf(labels, name)
		if idx < 0 {
			return fmt.Errorf("selected atom %s is not in the atom-site loop", name)
		}
		uiso, _, err := cif.SplitSU(uisoColumn[idx])
		if err != nil {
			return fmt.Errorf("atom %s: %w", name, err)
		}
		converted[name] = IsoToAniso(uiso, alpha, beta, gamma)
		isSelected[name] = true
		if adp, ok := siteLoop.Column("_atom_site.adp_type"); ok {
			adp[idx] = "Uani"
		}
	}

	// merged label set in atom-site order
	merged := append([]string(nil), existing...)
	for _, name := range selected {
		if indexOf(existing, name) < 0 {
			merged = append(merged, name)
		}
	}
	sort.SliceStable(merged, func(a, b int) bool {
		return indexOf(labels, merged[a]) < indexOf(labels, merged[b])
	})

	rebuilt := cif.NewLoop()
	if err := rebuilt.AddColumn("_atom_site_aniso.label", merged); err != nil {
		return err
	}
	for _, comp := range anisoComponents {
		name := "_atom_site_aniso." + comp.suffix
		oldColumn, _ := anisoLoop.Column(name)
		col := make([]string, len(merged))
		for i, label := range merged {
			if isSelected[label] {
				col[i] = fmt.Sprintf("%.8f", converted[label][comp.index])
				continue
			}
			oldIdx := indexOf(existing, label)
			if oldIdx >= 0 && oldIdx < len(oldColumn) {
				col[i] = oldColumn[oldIdx]
			} else {
				col[i] = "?"
			}
		}
		if err := rebuilt.AddColumn(name, col); err != nil {
			return err
		}
	}
	block.ReplaceLoop(rebuilt)
	return nil
}

func selectLabels(siteLoop *cif.Loop, labels []string, opts SelectOptions) ([]string, error) {
	set := make(map[string]bool)
	var selected []string
	add := func(name string) {
		if !set[name] {
			set[name] = true
			selected = append(selected, name)
		}
	}
	for _, name := range opts.Names {
		add(name)
	}
	if len(opts.Elements) > 0 {
		symbols, ok := siteLoop.Column("_atom_site.type_symbol")
		if !ok {
			return nil, fmt.Errorf("element selection needs a type_symbol column")
		}
		for i, label := range labels {
			for _, el := range opts.Elements {
				if strings.EqualFold(symbols[i], el) {
					add(label)
				}
			}
		}
	}
	for _, re := range opts.Patterns {
		for _, label := range labels {
			if re.MatchString(label) {
				add(label)
			}
		}
	}
	return selected, nil
}

func withoutExisting(selected, existing []string) []string {
	var out []string
	for _, name := range selected {
		if indexOf(existing, name) < 0 {
			out = append(out, name)
		}
	}
	return out
}

func cellAngle(block *cif.Block, name string) (float64, error) {
	value, ok := block.Get(name)
	if !ok {
		return 0, fmt.Errorf("block carries no %s entry", name)
	}
	angle, _, err := cif.SplitSU(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return angle, nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
