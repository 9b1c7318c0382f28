package afix

import (
	"fmt"
	"sort"

	"github.com/qcrbox/shelxcif/internal/site"
)

// Encode derives an instruction stream whose decode reproduces the given
// records and catalog exactly. Unattached atoms keep their original
// order; group members follow their position indexes beneath the atom
// they attach to. Record lists that no single stream can express are
// rejected with a not-encodable error.
func Encode(records []site.AtomRecord, cat *site.Catalog) ([]string, error) {
	enc := &encoder{records: records, cat: cat}
	if err := enc.validate(); err != nil {
		return nil, err
	}
	if err := enc.run(); err != nil {
		return nil, err
	}
	return enc.lines, nil
}

// encoder replays the decoder's scope bookkeeping against the directives
// it emits. Arranging the mirror state before each atom line is what
// guarantees the emitted stream decodes back to the input records.
type encoder struct {
	records []site.AtomRecord
	cat     *site.Catalog

	lines    []string
	state    streamState
	byLabel  map[string]int
	children map[string][]int
	defPairs map[string][2]int
}

func (e *encoder) validate() error {
	if e.cat == nil {
		e.cat = site.NewCatalog()
	}

	e.byLabel = make(map[string]int, len(e.records))
	for i, rec := range e.records {
		if rec.Label == "" {
			return NewGraphNotEncodable("", "record without a label")
		}
		if _, dup := e.byLabel[rec.Label]; dup {
			return NewGraphNotEncodable(rec.Label, "duplicate atom label")
		}
		e.byLabel[rec.Label] = i
	}

	if err := e.cat.Validate(e.records); err != nil {
		return NewGraphNotEncodable("", err.Error())
	}

	e.defPairs = make(map[string][2]int, e.cat.Len())
	for _, def := range e.cat.Defs() {
		m, n, err := ParseConstraintID(def.ID)
		if err != nil {
			return NewGraphNotEncodable("", err.Error())
		}
		if ConstraintID(m, n) != def.ID {
			return NewGraphNotEncodable("", fmt.Sprintf("constraint id %q is not canonical", def.ID))
		}
		if _, err := ShapeDescription(m); err != nil {
			return err
		}
		if _, err := DofPolicy(n); err != nil {
			return err
		}
		e.defPairs[def.ID] = [2]int{m, n}
	}

	e.children = make(map[string][]int)
	for i, rec := range e.records {
		switch {
		case rec.ConstraintID == "":
			if rec.AttachedTo != "" {
				return NewGraphNotEncodable(rec.Label, "attached atom carries no constraint")
			}
			if rec.PositionIndex != 0 {
				return NewGraphNotEncodable(rec.Label, "position index without a constraint")
			}
		case rec.PositionIndex < 1:
			return NewGraphNotEncodable(rec.Label, "constrained atom needs a 1-based position index")
		case rec.AttachedTo == "":
			pair := e.defPairs[rec.ConstraintID]
			if !RigidPair(pair[0], pair[1]) {
				return NewGraphNotEncodable(rec.Label, fmt.Sprintf("%s places atoms on a carrier; the record names none", rec.ConstraintID))
			}
			if rec.PositionIndex != 1 {
				return NewGraphNotEncodable(rec.Label, "group anchor must hold position 1")
			}
		default:
			if _, ok := e.byLabel[rec.AttachedTo]; !ok {
				return NewGraphNotEncodable(rec.Label, fmt.Sprintf("attached to unknown atom %q", rec.AttachedTo))
			}
			e.children[rec.AttachedTo] = append(e.children[rec.AttachedTo], i)
		}
	}

	if path := findAttachmentCycle(e.records); path != nil {
		return NewAttachmentCycle(path)
	}

	for label := range e.children {
		group := e.children[label]
		sort.SliceStable(group, func(a, b int) bool {
			return e.records[group[a]].PositionIndex < e.records[group[b]].PositionIndex
		})
	}
	return nil
}

func (e *encoder) run() error {
	for i, rec := range e.records {
		if rec.AttachedTo != "" {
			continue
		}
		if err := e.emitTree(i); err != nil {
			return err
		}
	}
	e.closeAll()
	return nil
}

// emitTree emits one unattached atom and everything attached beneath it.
func (e *encoder) emitTree(idx int) error {
	rec := e.records[idx]
	if rec.ConstraintID == "" {
		e.closeAll()
		e.state.notePlain(rec.Label)
		e.lines = append(e.lines, FormatAtomLine(rec))
	} else {
		pair := e.defPairs[rec.ConstraintID]
		e.ensureAnchorScope(pair[0], pair[1])
		e.emitMember(rec)
	}
	return e.emitDescendants(rec.Label)
}

func (e *encoder) emitDescendants(label string) error {
	for _, childIdx := range e.children[label] {
		child := e.records[childIdx]
		if err := e.emitChild(child); err != nil {
			return err
		}
		if err := e.emitDescendants(child.Label); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) emitChild(rec site.AtomRecord) error {
	pair := e.defPairs[rec.ConstraintID]
	m, n := pair[0], pair[1]
	if rec.PositionIndex == 1 {
		if RigidPair(m, n) {
			return NewGraphNotEncodable(rec.Label, "attached atom cannot anchor a rigid group")
		}
		if e.state.lastAtom != rec.AttachedTo {
			return NewGraphNotEncodable(rec.Label,
				fmt.Sprintf("group on %q cannot open while the carrier position holds %q", rec.AttachedTo, e.state.lastAtom))
		}
		e.emitDirective(10*m + n)
	} else if err := e.ensureMemberScope(rec, m, n); err != nil {
		return err
	}
	e.emitMember(rec)
	return nil
}

// ensureAnchorScope arranges the mirror stack so the next atom line opens
// a fresh group for the pair. An open scope with the same definition, on
// top or directly beneath a foreign scope, is reopened as a sibling with
// a single continuation directive; otherwise scopes are closed until one
// matches or the stack empties and a fresh directive is emitted.
func (e *encoder) ensureAnchorScope(m, n int) {
	for e.state.depth() > 0 {
		top := e.state.top()
		if top.defM == m && top.defN == n {
			e.emitDirective(10*m + 5)
			return
		}
		if e.state.depth() > 1 {
			second := e.state.stack[e.state.depth()-2]
			if second.defM == m && second.defN == n && top.defM != m {
				e.emitDirective(10*m + 5)
				return
			}
		}
		e.emitDirective(0)
	}
	e.emitDirective(10*m + n)
}

// ensureMemberScope closes inner scopes until the scope holding the
// record's group is back on top, with its member count at the record's
// position. Running out of scopes means the position is unreachable.
func (e *encoder) ensureMemberScope(rec site.AtomRecord, m, n int) error {
	for e.state.depth() > 0 {
		top := e.state.top()
		if top.defM == m && top.defN == n && top.anchor == rec.AttachedTo && top.count == rec.PositionIndex-1 {
			return nil
		}
		e.emitDirective(0)
	}
	return NewGraphNotEncodable(rec.Label,
		fmt.Sprintf("no stream position admits %s at index %d of %s", rec.Label, rec.PositionIndex, rec.ConstraintID))
}

func (e *encoder) emitMember(rec site.AtomRecord) {
	e.state.admitMember(rec.Label)
	e.lines = append(e.lines, FormatAtomLine(rec))
}

func (e *encoder) emitDirective(code int) {
	e.lines = append(e.lines, FormatDirective(code))
	e.state.applyDirective(SplitCode(code))
}

func (e *encoder) closeAll() {
	for e.state.depth() > 0 {
		e.emitDirective(0)
	}
}
