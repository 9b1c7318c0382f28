package cif

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// suPattern matches a value with a bracketed standard uncertainty:
// integer part, optional fractional digits, uncertainty digits.
var suPattern = regexp.MustCompile(`^([^\.]+)\.?(.*?)\(([\d\.]+)\)`)

// invalidNumSU matches any character that can not appear in a
// value(su) string.
var invalidNumSU = regexp.MustCompile(`[^\d\.\-\+\(\)]`)

// IsNumSU reports whether a string is a numeric value with a bracketed
// standard uncertainty. With allowMissingBrackets, plain numeric values
// qualify as well.
func IsNumSU(s string, allowMissingBrackets bool) bool {
	hasBrackets := strings.Contains(s, "(") && strings.Contains(s, ")")
	return (hasBrackets || allowMissingBrackets) && !invalidNumSU.MatchString(s)
}

// SplitSU splits a value(su) string into the numeric value and its
// standard uncertainty. The uncertainty digits scale with the number of
// fractional digits: "1.23(4)" gives 1.23 and 0.04. Values without
// brackets return a zero uncertainty.
func SplitSU(s string) (value, su float64, err error) {
	if !IsNumSU(s, true) {
		return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
	}
	m := suPattern.FindStringSubmatch(s)
	if m == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
		}
		return v, 0, nil
	}
	if len(m[2]) == 0 {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
		}
		u, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
		}
		return v, u, nil
	}
	intPart, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
	}
	frac, err := strconv.ParseFloat("0."+m[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
	}
	sign := 1.0
	if strings.HasPrefix(m[1], "-") {
		sign = -1.0
	}
	value = intPart + sign*frac
	digits, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ".", ""), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a valid value(su) string", s)
	}
	magnitude := 1.0
	for range m[2] {
		magnitude /= 10
	}
	return value, magnitude * digits, nil
}

// formatSplit renders the numeric halves of a split value. Trailing
// zeros are trimmed so "1.23(4)" yields "1.23" and "0.04".
func formatSplit(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

// SplitSUBlock returns a copy of the block in which every value(su)
// entry is split into a plain value and a companion entry suffixed
// "_su". Loop columns split column-wise when any row carries brackets;
// entry order within the block is retained.
func SplitSUBlock(block *Block) (*Block, error) {
	out := NewBlock(block.Name)
	for _, e := range block.entries {
		if e.loop != nil {
			split, err := splitSULoop(e.loop)
			if err != nil {
				return nil, err
			}
			out.AddLoop(split)
			continue
		}
		if IsNumSU(e.value, false) {
			v, su, err := SplitSU(e.value)
			if err != nil {
				return nil, err
			}
			out.Set(e.name, formatSplit(v))
			out.Set(e.name+"_su", formatSplit(su))
			continue
		}
		out.Set(e.name, e.value)
	}
	return out, nil
}

func splitSULoop(loop *Loop) (*Loop, error) {
	out := NewLoop()
	for _, name := range loop.Names() {
		vals, _ := loop.Column(name)
		bracketed := false
		for _, v := range vals {
			if IsNumSU(v, false) {
				bracketed = true
				break
			}
		}
		if !bracketed {
			if err := out.AddColumn(name, vals); err != nil {
				return nil, err
			}
			continue
		}
		values := make([]string, len(vals))
		sus := make([]string, len(vals))
		for i, v := range vals {
			val, su, err := SplitSU(v)
			if err != nil {
				return nil, err
			}
			values[i] = formatSplit(val)
			sus[i] = formatSplit(su)
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
		if err := out.AddColumn(name+"_su", sus); err != nil {
			return nil, err
		}
	}
	return out, nil
}
