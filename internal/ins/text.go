package ins

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingScaleFactor reports an instruction text without an FVAR
// scale factor.
var ErrMissingScaleFactor = errors.New("instruction text carries no FVAR scale factor")

// titleBlock matches the title line together with its indented
// continuation lines.
var titleBlock = regexp.MustCompile(`TITL.*(\n  .*)*`)

// scalePattern extracts the overall scale factor from the FVAR line.
var scalePattern = regexp.MustCompile(`FVAR\s+(\d+\.\d+)`)

// Prepare normalizes instruction text for decoding: wrapped lines are
// rejoined (a trailing "=" announces a continuation) and the free-text
// title block is removed so its content can never match a keyword.
func Prepare(text string) string {
	text = strings.ReplaceAll(text, "=\n", " ")
	return titleBlock.ReplaceAllString(text, "")
}

// Lines splits prepared text into trimmed, non-empty lines.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// ScatteringTypes returns the scattering-type symbols declared on the
// SFAC line, in declaration order.
func ScatteringTypes(lines []string) ([]string, error) {
	for _, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), "SFAC") {
			fields := strings.Fields(strings.ToUpper(line))
			return fields[1:], nil
		}
	}
	return nil, fmt.Errorf("instruction text carries no SFAC line")
}

// HydrogenIndex returns the 1-based index of hydrogen in the
// scattering-type list, or 0 when hydrogen is not declared.
func HydrogenIndex(types []string) int {
	for i, sym := range types {
		if strings.EqualFold(sym, "H") {
			return i + 1
		}
	}
	return 0
}

// CanonicalLabel re-cases the leading element letters of an atom label
// to the element symbol, so PT1 from a platinum type becomes Pt1.
func CanonicalLabel(label string, element string) string {
	element = capitalizeSymbol(element)
	if strings.HasPrefix(strings.ToUpper(label), strings.ToUpper(element)) {
		return element + label[len(element):]
	}
	return label
}

// capitalizeSymbol renders an element symbol with its conventional
// casing: first letter upper, the rest lower.
func capitalizeSymbol(sym string) string {
	if sym == "" {
		return sym
	}
	return strings.ToUpper(sym[:1]) + strings.ToLower(sym[1:])
}

// ConstraintRegion extracts the atom table from prepared lines: all
// lines after the last FVAR up to HKLF, with every control line except
// the constraint directives filtered out.
func ConstraintRegion(lines []string) ([]string, error) {
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), "FVAR ") {
			start = i + 1
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("instruction text carries no FVAR line")
	}
	end := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), "HKLF") {
			end = i
			break
		}
	}
	if end < 0 || end < start {
		return nil, fmt.Errorf("instruction text carries no HKLF line after the atom table")
	}

	var region []string
	for _, line := range lines[start:end] {
		if strings.HasPrefix(strings.ToUpper(line), "AFIX") || !IsCommand(line) {
			region = append(region, line)
		}
	}
	return region, nil
}

// ScaleFactor extracts the overall scale factor from the FVAR line.
func ScaleFactor(text string) (string, error) {
	m := scalePattern.FindStringSubmatch(text)
	if m == nil {
		return "", ErrMissingScaleFactor
	}
	return m[1], nil
}
