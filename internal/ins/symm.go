package ins

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSpaceGroup reports a Hermann-Mauguin symbol outside the
// curated table. This package carries no space-group engine; symbols
// are looked up, never derived.
var ErrUnknownSpaceGroup = errors.New("space group symbol is not in the lattice table")

// latticeEntry holds the lattice instructions for one space group.
// The lattice code is positive for centrosymmetric groups and carries
// the centring type in its magnitude; symmetry lines list the
// generators beyond identity, inversion, and lattice translations.
type latticeEntry struct {
	latt int
	symm []string
}

// latticeTable maps normalized Hermann-Mauguin symbols to lattice
// instructions for the space groups the converter supports.
var latticeTable = map[string]latticeEntry{
	"P1":       {latt: -1},
	"P-1":      {latt: 1},
	"P21":      {latt: -1, symm: []string{"-X, 1/2+Y, -Z"}},
	"P21/M":    {latt: 1, symm: []string{"-X, 1/2+Y, -Z"}},
	"P21/C":    {latt: 1, symm: []string{"-X, 1/2+Y, 1/2-Z"}},
	"P21/N":    {latt: 1, symm: []string{"1/2-X, 1/2+Y, 1/2-Z"}},
	"C2":       {latt: -7, symm: []string{"-X, Y, -Z"}},
	"CC":       {latt: -7, symm: []string{"X, -Y, 1/2+Z"}},
	"C2/C":     {latt: 7, symm: []string{"-X, Y, 1/2-Z"}},
	"P212121":  {latt: -1, symm: []string{"1/2+X, 1/2-Y, -Z", "-X, 1/2+Y, 1/2-Z", "1/2-X, -Y, 1/2+Z"}},
	"PNA21":    {latt: -1, symm: []string{"-X, -Y, 1/2+Z", "1/2+X, 1/2-Y, Z", "1/2-X, 1/2+Y, 1/2+Z"}},
	"PBCA":     {latt: 1, symm: []string{"1/2-X, -Y, 1/2+Z", "-X, 1/2+Y, 1/2-Z", "1/2+X, 1/2-Y, -Z"}},
	"PNMA":     {latt: 1, symm: []string{"1/2-X, -Y, 1/2+Z", "-X, 1/2+Y, -Z", "1/2+X, 1/2-Y, 1/2-Z"}},
}

// LatticeInstructions renders the LATT and SYMM lines for a
// Hermann-Mauguin symbol. The symbol is normalized by dropping spaces
// and case before lookup.
func LatticeInstructions(symbol string) ([]string, error) {
	key := strings.ToUpper(strings.ReplaceAll(symbol, " ", ""))
	entry, ok := latticeTable[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpaceGroup, symbol)
	}
	lines := []string{fmt.Sprintf("LATT %d", entry.latt)}
	for _, op := range entry.symm {
		lines = append(lines, "SYMM "+op)
	}
	return lines, nil
}
