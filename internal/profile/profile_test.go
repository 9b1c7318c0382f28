package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/shelxcif/internal/cif"
)

const sampleProfile = `
commands:
  - name: to-cif
    cif_input:
      required_entries:
        - _shelx.res_file
        - _atom_site.label
      optional_entries:
        - _cell.volume
      custom_categories:
        - shelx
      merge_su: true
    cif_output:
      required_entries:
        - _atom_site.calc_attached_atom
  - name: to-ins
    cif_input:
      required_entries:
        - _cell.length_a
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)
	require.Len(t, p.Commands, 2)

	cmd, ok := p.Command("to-cif")
	require.True(t, ok)
	assert.Equal(t, []string{"_shelx.res_file", "_atom_site.label"}, cmd.CIFInput.RequiredEntries)
	assert.Equal(t, []string{"shelx"}, cmd.CIFInput.CustomCategories)
	assert.True(t, cmd.CIFInput.MergeSU)
	assert.False(t, cmd.CIFOutput.MergeSU)

	_, ok = p.Command("check")
	assert.False(t, ok)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`
commands:
  - name: to-cif
    cif_input:
      requird_entries:
        - _cell.length_a
`))
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
}

func TestParseRejectsEmptyName(t *testing.T) {
	_, err := Parse([]byte("commands:\n  - name: \"\"\n"))
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("commands: [unclosed"))
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeUnreadable, pe.Code)
}

func selectBlock() *cif.Block {
	block := cif.NewBlock("sample")
	block.Set("_cell_length_a", "10.32(4)")
	block.Set("_shelx_res_file", "TITL x")
	block.Set("_cell_volume", "1099.1")

	loop := cif.NewLoop()
	_ = loop.AddColumn("_atom_site_label", []string{"C1", "O1"})
	_ = loop.AddColumn("_atom_site_fract_x", []string{"0.1", "0.4"})
	block.AddLoop(loop)
	return block
}

func TestSelectNarrowsAndUnifies(t *testing.T) {
	spec := IOSpec{
		RequiredEntries:  []string{"_shelx.res_file", "_atom_site.label"},
		OptionalEntries:  []string{"_cell.volume", "_exptl_crystal.size_max"},
		CustomCategories: []string{"shelx"},
		MergeSU:          true,
	}
	out, err := Select(selectBlock(), spec)
	require.NoError(t, err)

	text, ok := out.Get("_shelx.res_file")
	require.True(t, ok)
	assert.Equal(t, "TITL x", text)

	volume, ok := out.Get("_cell.volume")
	require.True(t, ok)
	assert.Equal(t, "1099.1", volume)

	_, ok = out.Get("_cell.length_a")
	assert.False(t, ok, "unrequested entries are dropped")

	loop, ok := out.Loop("_atom_site")
	require.True(t, ok)
	assert.Equal(t, []string{"_atom_site.label"}, loop.Names())
}

func TestSelectSplitsUncertainties(t *testing.T) {
	spec := IOSpec{RequiredEntries: []string{"_cell.length_a"}}
	out, err := Select(selectBlock(), spec)
	require.NoError(t, err)

	value, ok := out.Get("_cell.length_a")
	require.True(t, ok)
	assert.Equal(t, "10.32", value)
	su, ok := out.Get("_cell.length_a_su")
	require.True(t, ok)
	assert.Equal(t, "0.04", su)
}

func TestSelectMissingRequiredEntry(t *testing.T) {
	spec := IOSpec{RequiredEntries: []string{"_diffrn.ambient_temperature"}}
	_, err := Select(selectBlock(), spec)
	require.Error(t, err)
	assert.True(t, IsMissingEntry(err))
}

func TestSelectKeepsEverythingByDefault(t *testing.T) {
	out, err := Select(selectBlock(), IOSpec{MergeSU: true})
	require.NoError(t, err)
	assert.Len(t, out.ItemNames(), 3)
	assert.Len(t, out.Loops(), 1)
}
