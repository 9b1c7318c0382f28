package afix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// descriptionWidth is the column at which shape descriptions are wrapped
// before they are stored in constraint records.
const descriptionWidth = 70

// idPrefix prefixes every synthetic constraint identifier.
const idPrefix = "SXL"

// shapeDescriptions maps each shape code m to its geometric idealization
// wording. The wording is load-bearing: constraint records carry these
// strings verbatim and round-trip identity compares them byte for byte,
// historic misspellings included. Codes 6 and 7 intentionally share one
// description (clockwise and anticlockwise hexagon fits).
var shapeDescriptions = [...]string{
	0:  "Relative posistioning of the atoms was kept fixed.",
	1:  "Idealized tertiary C-H with all equal X-C-H angles for all three substituents of C.",
	2:  "Idealized secondary CH2 with equal X-C-H and Y-C-H angles and H-C-H adapted to X-C-Y",
	3:  "Idealized CH3 group with tetrahedral angles, staggered with respect to the shortest bond to the attached atom.",
	4:  "Aromatic C-H or amide N-H with hydrogen on the external bisector of the X-C-Y or X-N-Y angle.",
	5:  "Atoms are fitted to a regular pentagon",
	6:  "Atoms are fitted to a regular hexagon",
	7:  "Atoms are fitted to a regular hexagon",
	8:  "Idealized OH group with tetrahedral X-O-H angle, choosing hydrogen position based on best hydrogen bonding.",
	9:  "Idealized terminal X=CH2 or X=NH2+ with hydrogens in the plane of the nearest substituent.",
	10: "Atoms are fitted to generate an idealised pentamethylcyclopentadienyl anion. Atoms with _atom_site.qcrbox_constraint_posn_index 1 to 5 form the cyclopentadienyl group while atoms with _atom_site.qcrbox_constraint_posn_index are the methyl groups.",
	11: "Atoms are fitted to generate an idealised napthalene molecule. The values for _atom_site.qcrbox_constraint_posn_index follow a symmetrical figure of eight starting with the alpha and then the beta carbon atoms.",
	12: "Idealized disordered methyl group with two positions rotated by 60 degrees.",
	13: "Idealized CH3 group with tetrahedral angles. The atom position with _atom_site.qcrbox_constraint_posn_index 1 defines the torsion angle.",
	14: "Idealized OH group with tetrahedral X-O-H angle. The atom position with _atom_site.qcrbox_constraint_posn_index 1 defines the torsion angle.",
	15: "BH group with hydrogen placed along the negative sum vector of unit vectors of the other bonds to boron.",
	16: "Acetylenic C-H with linear X-C-H.",
}

// dofPolicies maps each supported degrees-of-freedom code n to its policy
// tag. R frees the group as a rigid body, D the distances, O the
// orientation, T the torsion angle; "." fixes everything.
// Codes 0 and 5 are structural (scope closing and continuation) and carry
// no policy; code 2 (coordinates fixed individually) is not supported.
var dofPolicies = map[int]string{
	1: ".",
	3: "R",
	4: "RD",
	6: "RO",
	7: "RT",
	8: "RDT",
	9: "RDO",
}

// closingDofCodes holds the n digits that close the current scope before
// any other effect of the directive applies.
var closingDofCodes = map[int]bool{
	0: true,
	1: true,
	2: true,
	5: true,
	6: true,
	9: true,
}

// wholeBodyShapeCodes holds the m digits whose fits place the whole group,
// anchor included, rather than hydrogens around a carrier atom.
var wholeBodyShapeCodes = map[int]bool{
	5:  true,
	6:  true,
	7:  true,
	10: true,
	11: true,
}

// SplitCode splits a directive code into its shape digit m and
// degrees-of-freedom digit n.
func SplitCode(code int) (m, n int) {
	return code / 10, code % 10
}

// ClosingDof reports whether the degrees-of-freedom digit closes the
// innermost open scope.
func ClosingDof(n int) bool {
	return closingDofCodes[n]
}

// WholeBodyShape reports whether the shape digit describes a whole-body fit.
func WholeBodyShape(m int) bool {
	return wholeBodyShapeCodes[m]
}

// RigidPair reports whether a definition pair describes a rigid group:
// a whole-body shape closed by a scope-closing degrees-of-freedom digit.
// Non-rigid pairs place hydrogens around the previously listed atom.
func RigidPair(m, n int) bool {
	return WholeBodyShape(m) && ClosingDof(n)
}

// ShapeDescription returns the wrapped description for a shape code.
func ShapeDescription(m int) (string, error) {
	if m < 0 || m >= len(shapeDescriptions) {
		return "", NewUnsupportedShapeCode(m)
	}
	return wordwrap.WrapString(shapeDescriptions[m], descriptionWidth), nil
}

// DofPolicy returns the policy tag for a degrees-of-freedom code.
func DofPolicy(n int) (string, error) {
	policy, ok := dofPolicies[n]
	if !ok {
		return "", NewUnsupportedDofCode(n)
	}
	return policy, nil
}

// ConstraintID builds the synthetic identifier for a definition pair.
func ConstraintID(m, n int) string {
	return fmt.Sprintf("%s%d%d", idPrefix, m, n)
}

// ParseConstraintID recovers the definition pair from an identifier.
// The last digit is n; the remaining digits are m.
func ParseConstraintID(id string) (m, n int, err error) {
	digits, ok := strings.CutPrefix(id, idPrefix)
	if !ok || len(digits) < 2 {
		return 0, 0, fmt.Errorf("malformed constraint id %q", id)
	}
	m, err = strconv.Atoi(digits[:len(digits)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed constraint id %q", id)
	}
	n, err = strconv.Atoi(digits[len(digits)-1:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed constraint id %q", id)
	}
	return m, n, nil
}
