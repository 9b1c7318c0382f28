package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qcrbox/shelxcif/internal/afix"
	"github.com/qcrbox/shelxcif/internal/cif"
	"github.com/qcrbox/shelxcif/internal/ins"
	"github.com/qcrbox/shelxcif/internal/site"
)

// CIFToIns renders a block as instruction-file text. A block that still
// embeds its original instruction text returns it verbatim; otherwise
// the header is generated from the block's entries and the atom table
// is re-encoded from the constraint columns.
func CIFToIns(block *cif.Block) (string, error) {
	if text, _, ok := embeddedInstructions(block); ok {
		return text, nil
	}

	header, err := ins.Header(block)
	if err != nil {
		return "", err
	}

	records, catalog, err := blockRecords(block)
	if err != nil {
		return "", err
	}
	stream, err := afix.Encode(records, catalog)
	if err != nil {
		return "", err
	}

	sections := []string{header}
	sections = append(sections, stream...)
	sections = append(sections, "HKLF 4", "", "END", "")
	return strings.Join(sections, "\n"), nil
}

// blockRecords rebuilds the codec's record list from the block's
// constraint columns. Scattering-type indexes follow the same element
// order the generated header declares.
func blockRecords(block *cif.Block) ([]site.AtomRecord, *site.Catalog, error) {
	siteLoop, ok := block.Loop("_atom_site")
	if !ok {
		return nil, nil, fmt.Errorf("block carries no _atom_site loop")
	}
	labels, ok := siteLoop.Column("_atom_site.label")
	if !ok {
		return nil, nil, fmt.Errorf("atom-site loop carries no label column")
	}
	symbols, ok := siteLoop.Column("_atom_site.type_symbol")
	if !ok {
		return nil, nil, fmt.Errorf("atom-site loop carries no type_symbol column")
	}

	typeIndex, err := scatteringIndexes(symbols)
	if err != nil {
		return nil, nil, err
	}

	frac := make([][]string, 3)
	for i, axis := range []string{"x", "y", "z"} {
		column, ok := siteLoop.Column("_atom_site.fract_" + axis)
		if !ok {
			return nil, nil, fmt.Errorf("atom-site loop carries no fract_%s column", axis)
		}
		frac[i] = column
	}
	uiso, _ := siteLoop.Column("_atom_site.u_iso_or_equiv")
	attached := optionalColumn(siteLoop, columnAttached, len(labels))
	ids := optionalColumn(siteLoop, columnPosnID, len(labels))
	indexes := optionalColumn(siteLoop, columnPosnIndex, len(labels))
	multipliers := optionalColumn(siteLoop, columnMultiplier, len(labels))

	anisoByLabel, err := anisoIndex(block)
	if err != nil {
		return nil, nil, err
	}

	records := make([]site.AtomRecord, len(labels))
	catalog := site.NewCatalog()
	for i, label := range labels {
		rec := site.AtomRecord{
			Label:     label,
			TypeIndex: typeIndex[strings.ToUpper(symbols[i])],
			Occupancy: 11.0,
		}
		for axis := 0; axis < 3; axis++ {
			v, _, err := cif.SplitSU(frac[axis][i])
			if err != nil {
				return nil, nil, fmt.Errorf("atom %s: %w", label, err)
			}
			rec.Frac[axis] = v
		}

		switch {
		case multipliers[i] != ".":
			k, err := strconv.ParseFloat(multipliers[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("atom %s: multiplier %q is not numeric", label, multipliers[i])
			}
			rec.Displacement = site.MultiplierDisplacement(k)
		case anisoByLabel[label] != nil:
			rec.Displacement = site.AnisoDisplacement(*anisoByLabel[label])
		case uiso != nil && uiso[i] != "" && uiso[i] != "." && uiso[i] != "?":
			u, _, err := cif.SplitSU(uiso[i])
			if err != nil {
				return nil, nil, fmt.Errorf("atom %s: %w", label, err)
			}
			rec.Displacement = site.IsoDisplacement(u)
		}

		if ids[i] != "." {
			rec.ConstraintID = ids[i]
			posn, err := strconv.Atoi(indexes[i])
			if err != nil {
				return nil, nil, fmt.Errorf("atom %s: position index %q is not an integer", label, indexes[i])
			}
			rec.PositionIndex = posn
			if attached[i] != "." {
				rec.AttachedTo = attached[i]
			}
			if err := admitFromTable(catalog, rec.ConstraintID); err != nil {
				return nil, nil, err
			}
		}
		records[i] = rec
	}
	return records, catalog, nil
}

// admitFromTable rebuilds a constraint definition from its identifier,
// resolving the description and policy from the static tables. The
// embedded catalogue table is advisory; the tables are authoritative.
func admitFromTable(catalog *site.Catalog, id string) error {
	if _, ok := catalog.ByID(id); ok {
		return nil
	}
	m, n, err := afix.ParseConstraintID(id)
	if err != nil {
		return err
	}
	description, err := afix.ShapeDescription(m)
	if err != nil {
		return err
	}
	policy, err := afix.DofPolicy(n)
	if err != nil {
		return err
	}
	catalog.Add(site.ConstraintDef{ID: id, ShapeDescription: description, DofPolicy: policy})
	return nil
}

// scatteringIndexes assigns each element its 1-based position in the
// header's scattering-type declaration order.
func scatteringIndexes(symbols []string) (map[string]int, error) {
	present := make(map[string]bool)
	for _, sym := range symbols {
		present[strings.ToUpper(sym)] = true
	}
	indexes := make(map[string]int)
	next := 1
	for _, el := range ins.SFACOrder() {
		if present[strings.ToUpper(el)] {
			indexes[strings.ToUpper(el)] = next
			next++
		}
	}
	for sym := range present {
		if _, ok := indexes[sym]; !ok {
			return nil, fmt.Errorf("type symbol %q is not a recognized element", sym)
		}
	}
	return indexes, nil
}

func anisoIndex(block *cif.Block) (map[string]*[6]float64, error) {
	out := make(map[string]*[6]float64)
	anisoTable, ok := block.Loop("_atom_site_aniso")
	if !ok {
		return out, nil
	}
	labels, ok := anisoTable.Column("_atom_site_aniso.label")
	if !ok {
		return out, nil
	}
	for i, label := range labels {
		var u [6]float64
		for j, suffix := range []string{"u_11", "u_22", "u_33", "u_23", "u_13", "u_12"} {
			column, ok := anisoTable.Column("_atom_site_aniso." + suffix)
			if !ok {
				return nil, fmt.Errorf("anisotropic loop carries no %s column", suffix)
			}
			v, _, err := cif.SplitSU(column[i])
			if err != nil {
				return nil, fmt.Errorf("atom %s: %w", label, err)
			}
			u[j] = v
		}
		out[label] = &u
	}
	return out, nil
}

// optionalColumn returns a column or a same-length column of "." when
// the block never carried it.
func optionalColumn(loop *cif.Loop, name string, rows int) []string {
	if column, ok := loop.Column(name); ok {
		return column
	}
	column := make([]string, rows)
	for i := range column {
		column[i] = "."
	}
	return column
}
