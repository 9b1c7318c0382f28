// Package convert binds the constraint codec to the structured-record
// block model: it moves constraint metadata between embedded
// instruction text and relational atom-site columns. Pure functions of
// their block argument; no I/O.
package convert

import (
	"fmt"
	"strconv"

	"github.com/qcrbox/shelxcif/internal/afix"
	"github.com/qcrbox/shelxcif/internal/cif"
	"github.com/qcrbox/shelxcif/internal/ins"
	"github.com/qcrbox/shelxcif/internal/site"
)

const (
	entryRefineInstructions = "_iucr.refine_instructions_details"
	entryResFile            = "_shelx.res_file"
	entryScaleFactor        = "_qcrbox.shelx.scale_factor"

	columnAttached   = "_atom_site.calc_attached_atom"
	columnPosnID     = "_atom_site.qcrbox_constraint_posn_id"
	columnPosnIndex  = "_atom_site.qcrbox_constraint_posn_index"
	columnMultiplier = "_atom_site.qcrbox_calc_uiso_multiplier"
)

// Summary reports what a conversion moved, for callers that log or
// record the run.
type Summary struct {
	Atoms       int
	Constraints int
}

// AfixToCIF decodes the instruction text embedded in the block and
// merges the constraint columns, refined coordinates, and displacement
// values into the block's atom tables. The constraint-definition
// catalogue is appended as its own table and the overall scale factor
// becomes a data item. The embedded text is removed unless it carries
// instructions outside the interpreted set.
func AfixToCIF(block *cif.Block) (Summary, error) {
	text, entryName, ok := embeddedInstructions(block)
	if !ok {
		return Summary{}, NewMissingRefineInstructions()
	}

	prepared := ins.Prepare(text)
	lines := ins.Lines(prepared)
	types, err := ins.ScatteringTypes(lines)
	if err != nil {
		return Summary{}, err
	}
	hydrogenIndex := ins.HydrogenIndex(types)

	region, err := ins.ConstraintRegion(lines)
	if err != nil {
		return Summary{}, err
	}

	records, catalog, err := afix.Decode(region, afix.DecodeOptions{
		IsHydrogen: func(typeIndex int) bool {
			return hydrogenIndex > 0 && typeIndex == hydrogenIndex
		},
		CanonicalLabel: func(label string, typeIndex int) string {
			if typeIndex < 1 || typeIndex > len(types) {
				return label
			}
			return ins.CanonicalLabel(label, types[typeIndex-1])
		},
	})
	if err != nil {
		return Summary{}, err
	}

	if err := mergeAtomSite(block, records); err != nil {
		return Summary{}, err
	}
	if err := mergeAtomSiteAniso(block, records); err != nil {
		return Summary{}, err
	}
	block.AddLoop(catalogLoop(catalog))

	scale, err := ins.ScaleFactor(text)
	if err != nil {
		return Summary{}, err
	}
	block.Set(entryScaleFactor, scale)

	if !ins.KeepInstructions(text) {
		block.Delete(entryName)
	}
	return Summary{Atoms: len(records), Constraints: catalog.Len()}, nil
}

// EmbeddedInstructions returns the instruction text a block embeds,
// when it carries any.
func EmbeddedInstructions(block *cif.Block) (string, bool) {
	text, _, ok := embeddedInstructions(block)
	return text, ok
}

// embeddedInstructions returns the instruction text and the entry it
// came from, preferring the archival entry over the program-specific
// one.
func embeddedInstructions(block *cif.Block) (text, entryName string, ok bool) {
	for _, name := range []string{entryRefineInstructions, entryResFile} {
		if text, ok := block.Get(name); ok {
			return text, name, true
		}
	}
	return "", "", false
}

// mergeAtomSite folds the decoded coordinates, isotropic displacement
// values, and constraint columns into the block's atom-site table.
func mergeAtomSite(block *cif.Block, records []site.AtomRecord) error {
	siteLoop, ok := block.Loop("_atom_site")
	if !ok {
		return fmt.Errorf("block carries no _atom_site loop")
	}

	merged, err := cif.MergeLoops(siteLoop, positionLoop(records), `_atom_site\.label`)
	if err != nil {
		return err
	}
	if uiso := isoLoop(records); uiso.Rows() > 0 {
		merged, err = cif.MergeLoops(merged, uiso, `_atom_site\.label`)
		if err != nil {
			return err
		}
	}
	merged, err = cif.MergeLoops(merged, constraintLoop(records), `_atom_site\.label`)
	if err != nil {
		return err
	}

	if err := cif.UpdateLoop(siteLoop, merged, "_atom_site.label"); err != nil {
		if cif.IsRowSetMismatch(err) {
			return NewRecordCountMismatch("_atom_site", err.Error())
		}
		return err
	}
	return nil
}

// mergeAtomSiteAniso folds the six-component displacement rows into
// the block's anisotropic table. A block without the table gains one
// only when the instruction text carries anisotropic atoms.
func mergeAtomSiteAniso(block *cif.Block, records []site.AtomRecord) error {
	fresh := anisoLoop(records)
	anisoTable, ok := block.Loop("_atom_site_aniso")
	if !ok {
		if fresh.Rows() > 0 {
			block.AddLoop(fresh)
		}
		return nil
	}
	if fresh.Rows() == 0 {
		return nil
	}
	merged, err := cif.MergeLoops(anisoTable, fresh, `_atom_site_aniso\.label`)
	if err != nil {
		return err
	}
	if err := cif.UpdateLoop(anisoTable, merged, "_atom_site_aniso.label"); err != nil {
		if cif.IsRowSetMismatch(err) {
			return NewRecordCountMismatch("_atom_site_aniso", err.Error())
		}
		return err
	}
	return nil
}

func positionLoop(records []site.AtomRecord) *cif.Loop {
	labels := make([]string, len(records))
	xs := make([]string, len(records))
	ys := make([]string, len(records))
	zs := make([]string, len(records))
	for i, rec := range records {
		labels[i] = rec.Label
		xs[i] = formatFloat(rec.Frac[0])
		ys[i] = formatFloat(rec.Frac[1])
		zs[i] = formatFloat(rec.Frac[2])
	}
	loop := cif.NewLoop()
	mustAdd(loop, "_atom_site.label", labels)
	mustAdd(loop, "_atom_site.fract_x", xs)
	mustAdd(loop, "_atom_site.fract_y", ys)
	mustAdd(loop, "_atom_site.fract_z", zs)
	return loop
}

// isoLoop collects the independently refined isotropic values. Riding
// multipliers and anisotropic atoms have no isotropic entry of their
// own.
func isoLoop(records []site.AtomRecord) *cif.Loop {
	var labels, values []string
	for _, rec := range records {
		if rec.Displacement.Kind == site.DisplacementIso {
			labels = append(labels, rec.Label)
			values = append(values, formatFloat(rec.Displacement.Iso))
		}
	}
	loop := cif.NewLoop()
	mustAdd(loop, "_atom_site.label", labels)
	mustAdd(loop, "_atom_site.u_iso_or_equiv", values)
	return loop
}

func anisoLoop(records []site.AtomRecord) *cif.Loop {
	var labels []string
	columns := make([][]string, 6)
	for _, rec := range records {
		if rec.Displacement.Kind != site.DisplacementAniso {
			continue
		}
		labels = append(labels, rec.Label)
		for i, u := range rec.Displacement.Aniso {
			columns[i] = append(columns[i], formatFloat(u))
		}
	}
	loop := cif.NewLoop()
	mustAdd(loop, "_atom_site_aniso.label", labels)
	for i, suffix := range []string{"u_11", "u_22", "u_33", "u_23", "u_13", "u_12"} {
		mustAdd(loop, "_atom_site_aniso."+suffix, columns[i])
	}
	return loop
}

func constraintLoop(records []site.AtomRecord) *cif.Loop {
	n := len(records)
	labels := make([]string, n)
	attached := make([]string, n)
	ids := make([]string, n)
	indexes := make([]string, n)
	multipliers := make([]string, n)
	for i, rec := range records {
		labels[i] = rec.Label
		attached[i] = dotIfEmpty(rec.AttachedTo)
		ids[i] = dotIfEmpty(rec.ConstraintID)
		if rec.ConstraintID != "" {
			indexes[i] = strconv.Itoa(rec.PositionIndex)
		} else {
			indexes[i] = "."
		}
		if rec.Displacement.Kind == site.DisplacementMultiplier {
			multipliers[i] = fmt.Sprintf("%.3f", rec.Displacement.Factor)
		} else {
			multipliers[i] = "."
		}
	}
	loop := cif.NewLoop()
	mustAdd(loop, "_atom_site.label", labels)
	mustAdd(loop, columnAttached, attached)
	mustAdd(loop, columnPosnID, ids)
	mustAdd(loop, columnPosnIndex, indexes)
	mustAdd(loop, columnMultiplier, multipliers)
	return loop
}

func catalogLoop(catalog *site.Catalog) *cif.Loop {
	defs := catalog.Defs()
	ids := make([]string, len(defs))
	policies := make([]string, len(defs))
	descriptions := make([]string, len(defs))
	for i, def := range defs {
		ids[i] = def.ID
		policies[i] = def.DofPolicy
		descriptions[i] = def.ShapeDescription
	}
	loop := cif.NewLoop()
	mustAdd(loop, "_qcrbox_constraint_posn.id", ids)
	mustAdd(loop, "_qcrbox_constraint_posn.refined_pars", policies)
	mustAdd(loop, "_qcrbox_constraint_posn.instruction", descriptions)
	return loop
}

func dotIfEmpty(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// mustAdd appends a freshly built column; the lengths are constructed
// equal, so failure cannot happen outside a programming error.
func mustAdd(loop *cif.Loop, name string, values []string) {
	if err := loop.AddColumn(name, values); err != nil {
		panic(err)
	}
}
