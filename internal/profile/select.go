package profile

import (
	"github.com/qcrbox/shelxcif/internal/cif"
)

// Select applies one side of a command to a block: names are unified
// with the spec's custom categories, the entry set is narrowed to the
// required and optional names, and bracketed uncertainties are split
// out unless the spec keeps them merged. Empty required and optional
// lists keep every entry.
func Select(block *cif.Block, spec IOSpec) (*cif.Block, error) {
	unified := cif.UnifyBlock(block, spec.CustomCategories)

	if !spec.MergeSU {
		split, err := cif.SplitSUBlock(unified)
		if err != nil {
			return nil, err
		}
		unified = split
	}

	if len(spec.RequiredEntries) == 0 && len(spec.OptionalEntries) == 0 {
		return unified, nil
	}

	wanted := make(map[string]bool)
	for _, name := range spec.RequiredEntries {
		wanted[name] = true
	}
	for _, name := range spec.OptionalEntries {
		wanted[name] = true
	}
	// split companions travel with their value entry
	if !spec.MergeSU {
		for _, name := range append(append([]string{}, spec.RequiredEntries...), spec.OptionalEntries...) {
			wanted[name+"_su"] = true
		}
	}

	out := cif.NewBlock(unified.Name)
	for _, name := range unified.ItemNames() {
		if !wanted[name] {
			continue
		}
		value, _ := unified.Get(name)
		out.Set(name, value)
	}
	for _, loop := range unified.Loops() {
		narrowed := cif.NewLoop()
		for _, name := range loop.Names() {
			if !wanted[name] {
				continue
			}
			values, _ := loop.Column(name)
			if err := narrowed.AddColumn(name, values); err != nil {
				return nil, err
			}
		}
		if len(narrowed.Names()) > 0 {
			out.AddLoop(narrowed)
		}
	}

	for _, name := range spec.RequiredEntries {
		if _, ok := out.Get(name); ok {
			continue
		}
		if hasColumn(out, name) {
			continue
		}
		return nil, NewMissingEntry(name)
	}
	return out, nil
}

func hasColumn(block *cif.Block, name string) bool {
	for _, loop := range block.Loops() {
		if _, ok := loop.Column(name); ok {
			return true
		}
	}
	return false
}
