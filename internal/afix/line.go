package afix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/qcrbox/shelxcif/internal/site"
)

// directiveKeyword opens every directive line.
const directiveKeyword = "AFIX"

// atomLineWidth is the column at which emitted atom lines wrap. Continuation
// lines are announced with a trailing "=" and indented two spaces.
const atomLineWidth = 70

// maxDirectiveCode bounds directive codes: 10m+n with the highest known
// shape code. Codes beyond it cannot name any definition.
const maxDirectiveCode = 169

// IsDirective reports whether a stream line is a scope directive.
// Lines are expected to be trimmed; anything else is an atom line.
func IsDirective(line string) bool {
	return strings.HasPrefix(line, directiveKeyword)
}

// ParseDirective extracts the code from a directive line.
func ParseDirective(line string, lineNo int) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, NewMalformedDirective(lineNo, "directive carries no code")
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, NewMalformedDirective(lineNo, fmt.Sprintf("directive code %q is not an integer", fields[1]))
	}
	if code < 0 || code > maxDirectiveCode {
		return 0, NewMalformedDirective(lineNo, fmt.Sprintf("directive code %d is outside [0, %d]", code, maxDirectiveCode))
	}
	return code, nil
}

// atomLine is a parsed atom line before constraint resolution.
type atomLine struct {
	label     string
	typeIndex int
	frac      [3]float64
	occupancy float64
	disp      site.Displacement
}

// parseAtomLine splits an atom line into its fields. Valid lines carry 6
// fields (no displacement), 7 (isotropic value, or attached-atom multiplier
// when negative), or 12 (six anisotropic components).
func parseAtomLine(line string, lineNo int) (atomLine, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 6, 7, 12:
	default:
		return atomLine{}, NewMalformedDirective(lineNo, fmt.Sprintf("atom line has %d fields, want 6, 7 or 12", len(fields)))
	}

	parsed := atomLine{label: fields[0]}

	typeIndex, err := strconv.Atoi(fields[1])
	if err != nil {
		return atomLine{}, NewMalformedDirective(lineNo, fmt.Sprintf("scattering type index %q is not an integer", fields[1]))
	}
	parsed.typeIndex = typeIndex

	numeric := make([]float64, 0, len(fields)-2)
	for _, field := range fields[2:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return atomLine{}, NewMalformedDirective(lineNo, fmt.Sprintf("field %q is not numeric", field))
		}
		numeric = append(numeric, v)
	}

	copy(parsed.frac[:], numeric[:3])
	parsed.occupancy = numeric[3]

	switch len(fields) {
	case 7:
		if u := numeric[4]; u < 0 {
			parsed.disp = site.MultiplierDisplacement(-u)
		} else {
			parsed.disp = site.IsoDisplacement(u)
		}
	case 12:
		var aniso [6]float64
		copy(aniso[:], numeric[4:10])
		parsed.disp = site.AnisoDisplacement(aniso)
	}
	return parsed, nil
}

// FormatDirective renders a directive line for a code.
func FormatDirective(code int) string {
	return fmt.Sprintf("%s %d", directiveKeyword, code)
}

// FormatAtomLine renders a record as a stream atom line: label and type
// index, then coordinates, occupancy, and displacement fields in fixed
// 10.5 columns. The attached-atom multiplier travels as a single negated
// two-decimal field.
func FormatAtomLine(rec site.AtomRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d", rec.Label, rec.TypeIndex)
	for _, v := range rec.Frac {
		fmt.Fprintf(&sb, "%10.5f", v)
	}
	fmt.Fprintf(&sb, "%10.5f", rec.Occupancy)
	switch rec.Displacement.Kind {
	case site.DisplacementIso:
		fmt.Fprintf(&sb, "%10.5f", rec.Displacement.Iso)
	case site.DisplacementAniso:
		for _, u := range rec.Displacement.Aniso {
			fmt.Fprintf(&sb, "%10.5f", u)
		}
	case site.DisplacementMultiplier:
		fmt.Fprintf(&sb, " %.2f", -rec.Displacement.Factor)
	}
	wrapped := wordwrap.WrapString(sb.String(), atomLineWidth)
	return strings.ReplaceAll(wrapped, "\n", " =\n  ")
}
