package afix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/shelxcif/internal/site"
)

// TestParseDirective tests code extraction and the malformed variants.
func TestParseDirective(t *testing.T) {
	code, err := ParseDirective("AFIX 137", 1)
	require.NoError(t, err)
	assert.Equal(t, 137, code)

	code, err = ParseDirective("AFIX 0", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = ParseDirective("AFIX 169", 1)
	require.NoError(t, err)
	assert.Equal(t, 169, code, "the highest table code is still in range")

	cases := []struct {
		name string
		line string
	}{
		{"no code", "AFIX"},
		{"non-integer code", "AFIX xy"},
		{"negative code", "AFIX -5"},
		{"code above range", "AFIX 170"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDirective(tc.line, 7)
			require.Error(t, err)
			assert.True(t, IsMalformedDirective(err), "expected malformed-directive, got %v", err)

			var codecErr *CodecError
			require.ErrorAs(t, err, &codecErr)
			assert.Equal(t, 7, codecErr.Line, "error should carry the stream line")
		})
	}
}

// TestParseAtomLine_FieldVariants tests the three valid field counts and
// the displacement variant each one produces.
func TestParseAtomLine_FieldVariants(t *testing.T) {
	bare, err := parseAtomLine("Q1 3 0.1 0.2 0.3 11.0", 1)
	require.NoError(t, err)
	assert.Equal(t, "Q1", bare.label)
	assert.Equal(t, 3, bare.typeIndex)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, bare.frac)
	assert.Equal(t, 11.0, bare.occupancy)
	assert.Equal(t, site.DisplacementNone, bare.disp.Kind)

	iso, err := parseAtomLine("C1 1 0.25 0.33333 0.5 11.0 0.05", 1)
	require.NoError(t, err)
	assert.Equal(t, site.DisplacementIso, iso.disp.Kind)
	assert.Equal(t, 0.05, iso.disp.Iso)

	mult, err := parseAtomLine("H1 2 0.5 0.16667 0.0 11.0 -1.5", 1)
	require.NoError(t, err)
	assert.Equal(t, site.DisplacementMultiplier, mult.disp.Kind)
	assert.Equal(t, 1.5, mult.disp.Factor, "negative single value stores the positive factor")

	aniso, err := parseAtomLine("Fe1 5 0.0 0.0 0.0 11.0 0.02 0.025 0.03 0.001 0.002 0.003", 1)
	require.NoError(t, err)
	assert.Equal(t, site.DisplacementAniso, aniso.disp.Kind)
	assert.Equal(t, [6]float64{0.02, 0.025, 0.03, 0.001, 0.002, 0.003}, aniso.disp.Aniso)
}

// TestParseAtomLine_Malformed tests the rejected shapes: wrong field
// counts and non-numeric fields.
func TestParseAtomLine_Malformed(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"five fields", "C1 1 0.1 0.2 0.3"},
		{"eight fields", "C1 1 0.1 0.2 0.3 11.0 0.05 0.05"},
		{"bad type index", "C1 one 0.1 0.2 0.3 11.0"},
		{"bad coordinate", "C1 1 0.1 x 0.3 11.0"},
		{"bad displacement", "C1 1 0.1 0.2 0.3 11.0 u"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseAtomLine(tc.line, 3)
			require.Error(t, err)
			assert.True(t, IsMalformedDirective(err))
		})
	}
}

// TestFormatAtomLine_FixedColumns tests the emitted column layout against
// known-good rendered lines.
func TestFormatAtomLine_FixedColumns(t *testing.T) {
	iso := site.AtomRecord{
		Label:        "C1",
		TypeIndex:    1,
		Frac:         [3]float64{0.25, 0.33333, 0.5},
		Occupancy:    11.0,
		Displacement: site.IsoDisplacement(0.05),
	}
	assert.Equal(t, "C1 1   0.25000   0.33333   0.50000  11.00000   0.05000", FormatAtomLine(iso))

	mult := site.AtomRecord{
		Label:        "H1",
		TypeIndex:    2,
		Frac:         [3]float64{0.5, 0.16667, 0.0},
		Occupancy:    11.0,
		Displacement: site.MultiplierDisplacement(1.2),
	}
	assert.Equal(t, "H1 2   0.50000   0.16667   0.00000  11.00000 -1.20", FormatAtomLine(mult),
		"multiplier renders as a single negated two-decimal field")
}

// TestFormatAtomLine_WrapsLongLines tests that anisotropic lines wrap at
// the stream width with continuation markers.
func TestFormatAtomLine_WrapsLongLines(t *testing.T) {
	rec := site.AtomRecord{
		Label:        "Fe1",
		TypeIndex:    5,
		Frac:         [3]float64{0.0, 0.0, 0.0},
		Occupancy:    11.0,
		Displacement: site.AnisoDisplacement([6]float64{0.02, 0.025, 0.03, 0.001, 0.002, 0.003}),
	}
	want := "Fe1 5   0.00000   0.00000   0.00000  11.00000   0.02000   0.02500 =\n" +
		"  0.03000   0.00100   0.00200   0.00300"
	assert.Equal(t, want, FormatAtomLine(rec))
}

// TestFormatDirective tests directive rendering.
func TestFormatDirective(t *testing.T) {
	assert.Equal(t, "AFIX 66", FormatDirective(66))
	assert.Equal(t, "AFIX 0", FormatDirective(0))
}

// TestIsDirective tests the line classifier.
func TestIsDirective(t *testing.T) {
	assert.True(t, IsDirective("AFIX 137"))
	assert.False(t, IsDirective("C1 1 0.1 0.2 0.3 11.0"))
	assert.False(t, IsDirective("afix 137"), "directive keyword is case-sensitive")
}
