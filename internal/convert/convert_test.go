package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/shelxcif/internal/afix"
	"github.com/qcrbox/shelxcif/internal/cif"
	"github.com/qcrbox/shelxcif/internal/harness"
	"github.com/qcrbox/shelxcif/internal/ins"
)

const embeddedIns = `TITL methanol fragment
CELL 0.71073 10.0 10.0 10.0 90 90 90
ZERR 4 0.001 0.001 0.001 0 0 0
LATT 1
SFAC C H O
UNIT 4 16 4
WGHT 0.03 0.41
FVAR 0.50000
C1 1 0.10000 0.20000 0.30000 11.0 0.02000 0.02100 =
  0.02200 0.00000 0.00000 0.00000
AFIX 137
H1A 2 0.11000 0.21000 0.31000 11.0 -1.5
H1B 2 0.12000 0.22000 0.32000 11.0 -1.5
H1C 2 0.13000 0.23000 0.33000 11.0 -1.5
AFIX 0
O1 3 0.40000 0.50000 0.60000 11.0 0.03000
HKLF 4
END
`

func conversionBlock(t *testing.T) *cif.Block {
	t.Helper()
	block := cif.NewBlock("structure")
	block.Set("_shelx.res_file", embeddedIns)

	siteLoop := cif.NewLoop()
	require.NoError(t, siteLoop.AddColumn("_atom_site.label",
		[]string{"C1", "H1A", "H1B", "H1C", "O1"}))
	require.NoError(t, siteLoop.AddColumn("_atom_site.type_symbol",
		[]string{"C", "H", "H", "H", "O"}))
	require.NoError(t, siteLoop.AddColumn("_atom_site.fract_x",
		[]string{"0.100", "0.110", "0.120", "0.130", "0.400"}))
	require.NoError(t, siteLoop.AddColumn("_atom_site.fract_y",
		[]string{"0.200", "0.210", "0.220", "0.230", "0.500"}))
	require.NoError(t, siteLoop.AddColumn("_atom_site.fract_z",
		[]string{"0.300", "0.310", "0.320", "0.330", "0.600"}))
	block.AddLoop(siteLoop)

	anisoLoop := cif.NewLoop()
	require.NoError(t, anisoLoop.AddColumn("_atom_site_aniso.label", []string{"C1"}))
	for _, col := range []string{"u_11", "u_22", "u_33", "u_23", "u_13", "u_12"} {
		require.NoError(t, anisoLoop.AddColumn("_atom_site_aniso."+col, []string{"0.019"}))
	}
	block.AddLoop(anisoLoop)
	return block
}

func TestAfixToCIF(t *testing.T) {
	block := conversionBlock(t)
	summary, err := AfixToCIF(block)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Atoms)
	assert.Equal(t, 1, summary.Constraints)

	siteLoop, ok := block.Loop("_atom_site")
	require.True(t, ok)

	attached, _ := siteLoop.Column(columnAttached)
	assert.Equal(t, []string{".", "C1", "C1", "C1", "."}, attached)
	ids, _ := siteLoop.Column(columnPosnID)
	assert.Equal(t, []string{".", "SXL137", "SXL137", "SXL137", "."}, ids)
	indexes, _ := siteLoop.Column(columnPosnIndex)
	assert.Equal(t, []string{".", "1", "2", "3", "."}, indexes)
	multipliers, _ := siteLoop.Column(columnMultiplier)
	assert.Equal(t, []string{".", "1.500", "1.500", "1.500", "."}, multipliers)

	// refined coordinates replace the rounded table values
	xs, _ := siteLoop.Column("_atom_site.fract_x")
	assert.Equal(t, "0.1", xs[0])

	uiso, _ := siteLoop.Column("_atom_site.u_iso_or_equiv")
	assert.Equal(t, "0.03", uiso[4])

	anisoTable, ok := block.Loop("_atom_site_aniso")
	require.True(t, ok)
	u22, _ := anisoTable.Column("_atom_site_aniso.u_22")
	assert.Equal(t, []string{"0.021"}, u22)

	catalogTable, ok := block.Loop("_qcrbox_constraint_posn")
	require.True(t, ok)
	catalogIDs, _ := catalogTable.Column("_qcrbox_constraint_posn.id")
	assert.Equal(t, []string{"SXL137"}, catalogIDs)
	policies, _ := catalogTable.Column("_qcrbox_constraint_posn.refined_pars")
	assert.Equal(t, []string{"RT"}, policies)

	scale, ok := block.Get("_qcrbox.shelx.scale_factor")
	require.True(t, ok)
	assert.Equal(t, "0.50000", scale)

	_, stillThere := block.Get("_shelx.res_file")
	assert.False(t, stillThere, "interpreted instruction text should be removed")
}

func TestAfixToCIFKeepsOpaqueInstructions(t *testing.T) {
	block := conversionBlock(t)
	text, _ := block.Get("_shelx.res_file")
	block.Set("_shelx.res_file", strings.Replace(text, "WGHT", "DFIX 1.54 C1 O1\nWGHT", 1))

	_, err := AfixToCIF(block)
	require.NoError(t, err)
	_, stillThere := block.Get("_shelx.res_file")
	assert.True(t, stillThere, "opaque instructions must ride along verbatim")
}

func TestAfixToCIFMissingInstructions(t *testing.T) {
	block := cif.NewBlock("structure")
	_, err := AfixToCIF(block)
	require.Error(t, err)
	assert.True(t, IsMissingRefineInstructions(err))
}

func TestAfixToCIFRecordCountMismatch(t *testing.T) {
	block := cif.NewBlock("structure")
	block.Set("_shelx.res_file", embeddedIns)

	siteLoop := cif.NewLoop()
	require.NoError(t, siteLoop.AddColumn("_atom_site.label", []string{"C1", "O1"}))
	block.AddLoop(siteLoop)

	_, err := AfixToCIF(block)
	require.Error(t, err)
	assert.True(t, IsRecordCountMismatch(err))
}

func TestCIFToInsReturnsEmbeddedTextVerbatim(t *testing.T) {
	block := cif.NewBlock("structure")
	block.Set("_iucr.refine_instructions_details", "FVAR 1.0\nREM untouched\n")
	text, err := CIFToIns(block)
	require.NoError(t, err)
	assert.Equal(t, "FVAR 1.0\nREM untouched\n", text)
}

func addHeaderEntries(t *testing.T, block *cif.Block) {
	t.Helper()
	block.Set("_diffrn_radiation_wavelength.value", "0.71073")
	block.Set("_cell.length_a", "10.0")
	block.Set("_cell.length_b", "10.0")
	block.Set("_cell.length_c", "10.0")
	block.Set("_cell.angle_alpha", "90")
	block.Set("_cell.angle_beta", "90")
	block.Set("_cell.angle_gamma", "90")
	block.Set("_cell.formula_units_z", "4")
	block.Set("_space_group.name_h-m_alt", "P -1")
	block.Set("_refine_ls.weighting_details",
		"w=1/[\\s^2^(Fo^2^)+(0.0300P)^2^+0.4100P] where P=(Fo^2^+2Fc^2^)/3")
}

func TestCIFToInsRegeneratesStream(t *testing.T) {
	block := conversionBlock(t)
	_, err := AfixToCIF(block)
	require.NoError(t, err)
	addHeaderEntries(t, block)

	text, err := CIFToIns(block)
	require.NoError(t, err)

	assert.Contains(t, text, "SFAC C H O")
	assert.Contains(t, text, "FVAR 0.50000")
	assert.True(t, strings.HasSuffix(text, "HKLF 4\n\nEND\n"))

	// the regenerated stream must decode back to the same constraints
	lines := ins.Lines(ins.Prepare(text))
	types, err := ins.ScatteringTypes(lines)
	require.NoError(t, err)
	region, err := ins.ConstraintRegion(lines)
	require.NoError(t, err)

	hIndex := ins.HydrogenIndex(types)
	records, catalog, err := afix.Decode(region, afix.DecodeOptions{
		IsHydrogen: func(typeIndex int) bool { return typeIndex == hIndex },
	})
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, 1, catalog.Len())

	assert.Equal(t, "C1", records[0].Label)
	assert.Equal(t, "", records[0].AttachedTo)
	for i, label := range []string{"H1A", "H1B", "H1C"} {
		assert.Equal(t, label, records[i+1].Label)
		assert.Equal(t, "C1", records[i+1].AttachedTo)
		assert.Equal(t, "SXL137", records[i+1].ConstraintID)
		assert.Equal(t, i+1, records[i+1].PositionIndex)
	}
	assert.Equal(t, "O1", records[4].Label)
	assert.Equal(t, "", records[4].ConstraintID)
}

func TestCIFToInsGolden(t *testing.T) {
	block := conversionBlock(t)
	_, err := AfixToCIF(block)
	require.NoError(t, err)
	addHeaderEntries(t, block)

	text, err := CIFToIns(block)
	require.NoError(t, err)
	harness.AssertGoldenString(t, "regenerated-stream", text)
}

const canonicalIns = `TITL canonical fixture
CELL 0.71073 10.0 10.0 10.0 90 90 90
SFAC C H O
FVAR 0.50000
C1 1   0.10000   0.20000   0.30000  11.00000   0.02000
AFIX 137
H1A 2   0.11000   0.21000   0.31000  11.00000 -1.50
H1B 2   0.12000   0.22000   0.32000  11.00000 -1.50
H1C 2   0.13000   0.23000   0.33000  11.00000 -1.50
AFIX 0
O1 3   0.40000   0.50000   0.60000  11.00000   0.03000
HKLF 4
END`

func TestRoundTripCanonicalStream(t *testing.T) {
	original, regenerated, err := RoundTrip(canonicalIns)
	require.NoError(t, err)
	harness.RequireEqual(t, original, regenerated)
}
