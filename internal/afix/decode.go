package afix

import (
	"github.com/qcrbox/shelxcif/internal/site"
)

// DecodeOptions customizes stream decoding.
type DecodeOptions struct {
	// IsHydrogen reports whether a scattering type index refers to
	// hydrogen. Hydrogens inside rigid scopes ride on their carrier and
	// keep no constraint columns. Nil means no type is hydrogen.
	IsHydrogen func(typeIndex int) bool

	// CanonicalLabel rewrites an atom label before it enters the records.
	// Attachment targets always use the rewritten form. Nil keeps labels
	// as written.
	CanonicalLabel func(label string, typeIndex int) string
}

// Decode replays an instruction stream and returns one record per atom
// line plus the catalog of constraint definitions the stream referenced.
// Lines must be trimmed and contain only atom lines and directives;
// command filtering happens upstream.
func Decode(lines []string, opts DecodeOptions) ([]site.AtomRecord, *site.Catalog, error) {
	state := &streamState{}
	cat := site.NewCatalog()
	records := make([]site.AtomRecord, 0, len(lines))

	for i, line := range lines {
		lineNo := i + 1
		if IsDirective(line) {
			code, err := ParseDirective(line, lineNo)
			if err != nil {
				return nil, nil, err
			}
			state.applyDirective(SplitCode(code))
			continue
		}

		parsed, err := parseAtomLine(line, lineNo)
		if err != nil {
			return nil, nil, err
		}
		label := parsed.label
		if opts.CanonicalLabel != nil {
			label = opts.CanonicalLabel(label, parsed.typeIndex)
		}
		rec := site.AtomRecord{
			Label:        label,
			TypeIndex:    parsed.typeIndex,
			Frac:         parsed.frac,
			Occupancy:    parsed.occupancy,
			Displacement: parsed.disp,
		}

		if state.depth() == 0 {
			state.notePlain(label)
			records = append(records, rec)
			continue
		}

		f := state.top()
		rigid := RigidPair(f.defM, f.defN)
		if rigid && opts.IsHydrogen != nil && opts.IsHydrogen(parsed.typeIndex) {
			// Hydrogens ride on rigid groups: no constraint columns, no
			// member count, and the carrier atom stays unchanged.
			records = append(records, rec)
			continue
		}
		if !rigid && f.count == 0 && state.lastAtom == "" {
			return nil, nil, NewMalformedDirective(lineNo, "group has no preceding atom to attach to")
		}
		if err := admitDef(cat, f.defM, f.defN); err != nil {
			return nil, nil, err
		}
		rec.ConstraintID = ConstraintID(f.defM, f.defN)
		rec.AttachedTo, rec.PositionIndex = state.admitMember(label)
		records = append(records, rec)
	}
	return records, cat, nil
}

// admitDef catalogues a definition on first reference. Validation of the
// degrees-of-freedom digit is lazy: a pair that never gains a member may
// carry an unsupported digit without failing the stream.
func admitDef(cat *site.Catalog, m, n int) error {
	id := ConstraintID(m, n)
	if _, ok := cat.ByID(id); ok {
		return nil
	}
	desc, err := ShapeDescription(m)
	if err != nil {
		return err
	}
	policy, err := DofPolicy(n)
	if err != nil {
		return err
	}
	cat.Add(site.ConstraintDef{ID: id, ShapeDescription: desc, DofPolicy: policy})
	return nil
}
