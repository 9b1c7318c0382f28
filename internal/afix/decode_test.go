package afix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/shelxcif/internal/site"
)

// hydrogenType2 marks scattering type index 2 as hydrogen, matching the
// usual C H N O ordering of scattering type lists.
func hydrogenType2(typeIndex int) bool {
	return typeIndex == 2
}

// TestDecode_PlainAtoms tests a stream without directives: every atom is
// unconstrained and the catalog stays empty.
func TestDecode_PlainAtoms(t *testing.T) {
	lines := []string{
		"C1 1 0.1 0.2 0.3 11.0 0.05",
		"O1 4 0.4 0.5 0.6 11.0 0.02 0.025 0.03 0.001 0.002 0.003",
		"Q1 3 0.7 0.8 0.9 11.0",
	}

	records, cat, err := Decode(lines, DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 0, cat.Len(), "stream without directives should not admit definitions")

	for _, rec := range records {
		assert.False(t, rec.Constrained(), "atom %s should be unconstrained", rec.Label)
		assert.Empty(t, rec.AttachedTo)
		assert.Zero(t, rec.PositionIndex)
	}
	assert.Equal(t, site.DisplacementIso, records[0].Displacement.Kind)
	assert.Equal(t, site.DisplacementAniso, records[1].Displacement.Kind)
	assert.Equal(t, site.DisplacementNone, records[2].Displacement.Kind)
}

// TestDecode_HydrogenGroupAttachesToPrecedingAtom tests the torsion-CH3
// scenario: a carrier atom followed by a hydrogen placement directive.
// All three hydrogens attach to the carrier with consecutive positions.
func TestDecode_HydrogenGroupAttachesToPrecedingAtom(t *testing.T) {
	lines := []string{
		"C1 1 0.1 0.2 0.3 11.0 0.05",
		"AFIX 137",
		"H1A 2 0.11 0.21 0.31 11.0 -1.5",
		"H1B 2 0.12 0.22 0.32 11.0 -1.5",
		"H1C 2 0.13 0.23 0.33 11.0 -1.5",
		"AFIX 0",
	}

	records, cat, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.False(t, records[0].Constrained(), "the carrier itself stays unconstrained")

	for i, label := range []string{"H1A", "H1B", "H1C"} {
		rec := records[i+1]
		assert.Equal(t, label, rec.Label)
		assert.Equal(t, "C1", rec.AttachedTo, "%s should attach to the carrier", label)
		assert.Equal(t, "SXL137", rec.ConstraintID)
		assert.Equal(t, i+1, rec.PositionIndex)
		assert.Equal(t, site.DisplacementMultiplier, rec.Displacement.Kind)
		assert.Equal(t, 1.5, rec.Displacement.Factor)
	}

	require.Equal(t, 1, cat.Len())
	def, ok := cat.ByID("SXL137")
	require.True(t, ok)
	assert.Equal(t, "RT", def.DofPolicy)
	assert.Contains(t, def.ShapeDescription, "tetrahedral angles")
}

// TestDecode_RigidRingMembersAttachToAnchor tests the hexagon scenario:
// the first member anchors the group, later members attach to it.
func TestDecode_RigidRingMembersAttachToAnchor(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"C2A 1 0.2 0.3 0.4 11.0 0.05",
	}

	records, cat, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.NoError(t, err)
	require.Len(t, records, 2)

	anchor := records[0]
	assert.True(t, anchor.Anchor())
	assert.Empty(t, anchor.AttachedTo)
	assert.Equal(t, "SXL66", anchor.ConstraintID)
	assert.Equal(t, 1, anchor.PositionIndex)

	member := records[1]
	assert.Equal(t, "C1A", member.AttachedTo, "ring members attach to the anchor")
	assert.Equal(t, "SXL66", member.ConstraintID)
	assert.Equal(t, 2, member.PositionIndex)

	def, ok := cat.ByID("SXL66")
	require.True(t, ok)
	assert.Equal(t, "RO", def.DofPolicy)
	assert.Equal(t, "Atoms are fitted to a regular hexagon", def.ShapeDescription)
}

// TestDecode_ContinuationOpensSiblingGroup tests the continuation corner
// case: after a nested hydrogen scope, the continuation directive starts
// a sibling group under the same definition with a fresh anchor, rather
// than resuming attachment to the first anchor.
func TestDecode_ContinuationOpensSiblingGroup(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"C2A 1 0.2 0.3 0.4 11.0 0.05",
		"AFIX 43",
		"H2A 2 0.21 0.31 0.41 11.0 -1.2",
		"AFIX 65",
		"C3A 1 0.3 0.4 0.5 11.0 0.05",
		"C4A 1 0.4 0.5 0.6 11.0 0.05",
	}

	records, cat, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.NoError(t, err)
	require.Len(t, records, 5)

	h2a := records[2]
	require.Equal(t, "H2A", h2a.Label)
	assert.Equal(t, "C2A", h2a.AttachedTo)
	assert.Equal(t, "SXL43", h2a.ConstraintID)
	assert.Equal(t, 1, h2a.PositionIndex)

	c3a := records[3]
	require.Equal(t, "C3A", c3a.Label)
	assert.Empty(t, c3a.AttachedTo, "continuation starts a sibling group, not a member of the first")
	assert.Equal(t, "SXL66", c3a.ConstraintID, "sibling group reuses the definition")
	assert.Equal(t, 1, c3a.PositionIndex)

	c4a := records[4]
	assert.Equal(t, "C3A", c4a.AttachedTo, "second sibling member attaches to the new anchor")
	assert.Equal(t, 2, c4a.PositionIndex)

	assert.Equal(t, 2, cat.Len(), "both groups share one hexagon definition")
}

// TestDecode_ContinuationWithoutMatchOpensDeadScope tests a continuation
// whose shape matches neither the popped nor the exposed scope: it opens
// a scope under its own pair, so the next atom fails the policy lookup
// for the continuation digit.
func TestDecode_ContinuationWithoutMatchOpensDeadScope(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"AFIX 95",
	}

	_, _, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	assert.NoError(t, err, "a memberless scope is never validated")

	lines = append(lines, "O1 4 0.4 0.5 0.6 11.0 0.03")
	_, _, err = Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.Error(t, err)
	assert.True(t, IsUnsupportedDofCode(err), "expected unsupported-dof, got %v", err)
}

// TestDecode_RidingHydrogenKeepsNoConstraint tests hydrogens inside a
// whole-body scope: they ride without constraint columns, do not advance
// the member count, and do not become carriers for later groups.
func TestDecode_RidingHydrogenKeepsNoConstraint(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"C2A 1 0.2 0.3 0.4 11.0 0.05",
		"H9 2 0.9 0.9 0.9 11.0 -1.2",
		"AFIX 43",
		"H3 2 0.3 0.3 0.3 11.0 -1.2",
	}

	records, _, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.NoError(t, err)
	require.Len(t, records, 4)

	riding := records[2]
	require.Equal(t, "H9", riding.Label)
	assert.False(t, riding.Constrained(), "hydrogen in a rigid scope rides on the skeleton")
	assert.Empty(t, riding.AttachedTo)

	h3 := records[3]
	assert.Equal(t, "C2A", h3.AttachedTo, "riding hydrogens do not become carriers")
	assert.Equal(t, "SXL43", h3.ConstraintID)
}

// TestDecode_ScopeCloseRestoresOuterGroup tests that closing a nested
// hydrogen scope returns membership to the enclosing group with its
// anchor and count intact.
func TestDecode_ScopeCloseRestoresOuterGroup(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"AFIX 43",
		"H1A 2 0.11 0.21 0.31 11.0 -1.2",
		"AFIX 0",
		"C2A 1 0.2 0.3 0.4 11.0 0.05",
	}

	records, _, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2})
	require.NoError(t, err)
	require.Len(t, records, 3)

	h1a := records[1]
	assert.Equal(t, "C1A", h1a.AttachedTo)
	assert.Equal(t, "SXL43", h1a.ConstraintID)

	c2a := records[2]
	assert.Equal(t, "C1A", c2a.AttachedTo, "outer group resumes after the nested scope closes")
	assert.Equal(t, "SXL66", c2a.ConstraintID)
	assert.Equal(t, 2, c2a.PositionIndex, "outer member count survives the nested scope")
}

// TestDecode_CatalogueAdmissionDeduplicates tests that two groups under
// the same definition admit a single catalog entry.
func TestDecode_CatalogueAdmissionDeduplicates(t *testing.T) {
	lines := []string{
		"AFIX 66",
		"C1A 1 0.1 0.2 0.3 11.0 0.05",
		"AFIX 0",
		"AFIX 66",
		"C1B 1 0.5 0.6 0.7 11.0 0.05",
	}

	records, cat, err := Decode(lines, DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, cat.Len())
	assert.True(t, records[0].Anchor())
	assert.True(t, records[1].Anchor(), "each group gets its own anchor")
}

// TestDecode_LazyDefinitionValidation tests that unsupported digits only
// fail once an atom references the definition.
func TestDecode_LazyDefinitionValidation(t *testing.T) {
	carrier := "C0 1 0.1 0.2 0.3 11.0 0.05"

	_, _, err := Decode([]string{carrier, "AFIX 42"}, DecodeOptions{})
	assert.NoError(t, err, "an unreferenced definition is never validated")

	_, _, err = Decode([]string{carrier, "AFIX 42", "H1 2 0.1 0.2 0.3 11.0"}, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, IsUnsupportedDofCode(err))
}

// TestDecode_MalformedStream tests the fatal parse failures.
func TestDecode_MalformedStream(t *testing.T) {
	_, _, err := Decode([]string{"AFIX xy"}, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, IsMalformedDirective(err))

	_, _, err = Decode([]string{"AFIX 500"}, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, IsMalformedDirective(err), "codes beyond the table range fail at parse")

	_, _, err = Decode([]string{"C1 1 0.1 0.2"}, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, IsMalformedDirective(err))

	_, _, err = Decode([]string{"AFIX 43", "H1 2 0.1 0.2 0.3 11.0 -1.2"}, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, IsMalformedDirective(err), "a group cannot open before any carrier atom")
}

// TestDecode_CanonicalLabelRewrite tests that label rewriting applies
// before attachment resolution, so targets use the rewritten form.
func TestDecode_CanonicalLabelRewrite(t *testing.T) {
	canonical := func(label string, typeIndex int) string {
		if typeIndex == 3 {
			return "Pt" + label[2:]
		}
		return label
	}

	lines := []string{
		"PT1 3 0.1 0.2 0.3 11.0 0.05",
		"AFIX 137",
		"H1 2 0.11 0.21 0.31 11.0 -1.5",
	}

	records, _, err := Decode(lines, DecodeOptions{IsHydrogen: hydrogenType2, CanonicalLabel: canonical})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Pt1", records[0].Label)
	assert.Equal(t, "Pt1", records[1].AttachedTo, "attachment should use the rewritten label")
}

// TestDecode_EmptyStream tests the degenerate input.
func TestDecode_EmptyStream(t *testing.T) {
	records, cat, err := Decode(nil, DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, cat.Len())
}
