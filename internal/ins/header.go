package ins

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qcrbox/shelxcif/internal/cif"
)

// ErrMissingWeightingDetails reports a block without the weighting
// scheme entry the WGHT line is derived from.
var ErrMissingWeightingDetails = errors.New("block carries no _refine_ls.weighting_details entry")

// cellParameters lists the cell entries in CELL/ZERR field order.
var cellParameters = []string{
	"length_a", "length_b", "length_c", "angle_alpha", "angle_beta", "angle_gamma",
}

// weightA matches the a parameter of the weighting scheme, the factor
// inside the squared P term.
var weightA = regexp.MustCompile(`\(([-+.\d]+?)P\)\^2\^`)

// weightB matches candidate b parameters; the squared P term is
// excluded by inspecting what follows each match.
var weightB = regexp.MustCompile(`([+-]?\d+\.\d+)P`)

// fixedRefinementBlock holds the instruction lines every generated
// header carries between SIZE and WGHT.
var fixedRefinementBlock = []string{
	"CONF", "BOND $H", "L.S. 10", "LIST 4", "ACTA", "BOND", "FMAP 2", "MORE -1",
}

// Header generates the instruction-file header from a block: title,
// cell, symmetry, scattering types, and the fixed refinement
// instructions, closed by the WGHT and FVAR lines.
func Header(block *cif.Block) (string, error) {
	lines := []string{"TITL shelxcif generated structure"}

	cellLine, zerrLine, err := cellAndZerr(block)
	if err != nil {
		return "", err
	}
	lines = append(lines, cellLine, zerrLine)

	symbol, ok := block.Get("_space_group.name_h-m_alt")
	if !ok {
		return "", fmt.Errorf("block carries no _space_group.name_h-m_alt entry")
	}
	latt, err := LatticeInstructions(symbol)
	if err != nil {
		return "", err
	}
	lines = append(lines, latt...)

	sfacLine, unitLine, err := sfacAndUnit(block)
	if err != nil {
		return "", err
	}
	lines = append(lines, sfacLine, unitLine)

	if kelvin, ok := block.Get("_diffrn.ambient_temperature"); ok {
		temp, err := strconv.ParseFloat(kelvin, 64)
		if err != nil {
			return "", fmt.Errorf("ambient temperature %q is not numeric", kelvin)
		}
		lines = append(lines, fmt.Sprintf("TEMP %.1f", temp-273))
	}
	if size, ok := crystalSize(block); ok {
		lines = append(lines, size)
	}

	lines = append(lines, fixedRefinementBlock...)

	wght, err := weightingLine(block)
	if err != nil {
		return "", err
	}
	lines = append(lines, wght)

	scale, ok := block.Get("_qcrbox.shelx.scale_factor")
	if !ok {
		scale = "1.0"
	}
	lines = append(lines, "FVAR "+scale)

	return strings.Join(lines, "\n"), nil
}

func cellAndZerr(block *cif.Block) (cell, zerr string, err error) {
	wavelength, ok := block.Get("_diffrn_radiation_wavelength.value")
	if !ok {
		return "", "", fmt.Errorf("block carries no _diffrn_radiation_wavelength.value entry")
	}
	z, ok := block.Get("_cell.formula_units_z")
	if !ok {
		return "", "", fmt.Errorf("block carries no _cell.formula_units_z entry")
	}

	cellFields := []string{wavelength}
	zerrFields := []string{z}
	for _, par := range cellParameters {
		value, ok := block.Get("_cell." + par)
		if !ok {
			return "", "", fmt.Errorf("block carries no _cell.%s entry", par)
		}
		cellFields = append(cellFields, value)
		su, ok := block.Get("_cell." + par + "_su")
		if !ok {
			su = "0.0"
		}
		zerrFields = append(zerrFields, su)
	}
	return "CELL " + strings.Join(cellFields, " "), "ZERR " + strings.Join(zerrFields, " "), nil
}

// sfacAndUnit derives the scattering-type declaration and cell content
// from the atom-site type symbols: C and H first, the rest in periodic
// order, counts scaled by the formula units per cell.
func sfacAndUnit(block *cif.Block) (sfac, unit string, err error) {
	loop, ok := block.Loop("_atom_site")
	if !ok {
		return "", "", fmt.Errorf("block carries no _atom_site loop")
	}
	symbols, ok := loop.Column("_atom_site.type_symbol")
	if !ok {
		return "", "", fmt.Errorf("atom-site loop carries no type_symbol column")
	}
	z, ok := block.Get("_cell.formula_units_z")
	if !ok {
		return "", "", fmt.Errorf("block carries no _cell.formula_units_z entry")
	}
	cellZ, err := strconv.Atoi(z)
	if err != nil {
		return "", "", fmt.Errorf("formula units %q is not an integer", z)
	}

	counts := make(map[string]int)
	for _, sym := range symbols {
		counts[strings.ToUpper(sym)]++
	}

	var els []string
	var totals []string
	for _, el := range SFACOrder() {
		n := counts[strings.ToUpper(el)]
		if n == 0 {
			continue
		}
		els = append(els, el)
		totals = append(totals, strconv.Itoa(n*cellZ))
	}
	if len(els) == 0 {
		return "", "", fmt.Errorf("atom-site loop declares no recognized elements")
	}
	return "SFAC " + strings.Join(els, " "), "UNIT " + strings.Join(totals, " "), nil
}

func crystalSize(block *cif.Block) (string, bool) {
	var fields []string
	for _, dim := range []string{"max", "mid", "min"} {
		value, ok := block.Get("_exptl_crystal.size_" + dim)
		if !ok {
			return "", false
		}
		fields = append(fields, value)
	}
	return "SIZE " + strings.Join(fields, " "), true
}

// weightingLine extracts the a and b parameters from the published
// weighting scheme text. Missing parameters default to zero; a missing
// entry is an error because the scheme cannot be reconstructed.
func weightingLine(block *cif.Block) (string, error) {
	details, ok := block.Get("_refine_ls.weighting_details")
	if !ok {
		return "", ErrMissingWeightingDetails
	}

	a := 0.0
	if m := weightA.FindStringSubmatch(details); m != nil {
		parsed, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			a = parsed
		}
	}

	b := 0.0
	for _, loc := range weightB.FindAllStringSubmatchIndex(details, -1) {
		// skip the aP term inside (...P)^2^
		if strings.HasPrefix(details[loc[1]:], ")^2^") {
			continue
		}
		parsed, err := strconv.ParseFloat(details[loc[2]:loc[3]], 64)
		if err == nil {
			b = parsed
			break
		}
	}
	return fmt.Sprintf("WGHT %g %g", a, b), nil
}
