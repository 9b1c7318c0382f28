package site

import "fmt"

// AtomRecord is one row of the relational atom table: an atom with its
// coordinates, displacement spec, and the constraint columns that tie it
// into a rigid group.
type AtomRecord struct {
	// Label uniquely identifies the atom within the structure.
	Label string

	// TypeIndex is the 1-based index into the scattering-type list.
	TypeIndex int

	// Frac holds the fractional coordinates x, y, z.
	Frac [3]float64

	// Occupancy is passed through untouched; instruction files overload it
	// with the free-variable encoding (11.0 = fixed, fully occupied).
	Occupancy float64

	// AttachedTo names the atom this one is rigidly attached to.
	// Empty means unattached: either unconstrained or a group anchor.
	AttachedTo string

	// ConstraintID references a ConstraintDef. Empty means unconstrained.
	ConstraintID string

	// PositionIndex is the 1-based position within the constraint group's
	// atom list. Meaningful only when ConstraintID is set.
	PositionIndex int

	// Displacement is the atomic displacement spec.
	Displacement Displacement
}

// Constrained reports whether the atom belongs to a constraint group.
func (a AtomRecord) Constrained() bool {
	return a.ConstraintID != ""
}

// Anchor reports whether the atom is the reference atom of its group.
func (a AtomRecord) Anchor() bool {
	return a.ConstraintID != "" && a.AttachedTo == ""
}

// DisplacementKind discriminates the displacement variants.
type DisplacementKind int

const (
	// DisplacementNone marks an atom line that carried no displacement field.
	DisplacementNone DisplacementKind = iota

	// DisplacementIso is an independent isotropic parameter.
	DisplacementIso

	// DisplacementAniso is a full set of six anisotropic components.
	DisplacementAniso

	// DisplacementMultiplier ties the isotropic parameter to the attached
	// atom: Uiso = Factor × Ueq(attached). On the wire this is a single
	// negative displacement field holding -Factor.
	DisplacementMultiplier
)

// Displacement is the atomic displacement parameter as a tagged variant.
// The wire format overloads one field's sign; modelling the variants
// explicitly keeps that convention out of every consumer.
type Displacement struct {
	Kind DisplacementKind

	// Iso holds the isotropic parameter for DisplacementIso.
	Iso float64

	// Aniso holds U11, U22, U33, U23, U13, U12 for DisplacementAniso,
	// in wire order.
	Aniso [6]float64

	// Factor holds the positive multiplier for DisplacementMultiplier.
	Factor float64
}

// IsoDisplacement returns an independent isotropic displacement.
func IsoDisplacement(u float64) Displacement {
	return Displacement{Kind: DisplacementIso, Iso: u}
}

// AnisoDisplacement returns an anisotropic displacement from the six
// wire-order components U11, U22, U33, U23, U13, U12.
func AnisoDisplacement(u [6]float64) Displacement {
	return Displacement{Kind: DisplacementAniso, Aniso: u}
}

// MultiplierDisplacement returns a displacement tied to the attached atom.
// The factor is the positive magnitude, not the negated wire value.
func MultiplierDisplacement(k float64) Displacement {
	return Displacement{Kind: DisplacementMultiplier, Factor: k}
}

// ConstraintDef describes one distinct (shape, dof) constraint definition.
type ConstraintDef struct {
	// ID is the synthetic identifier, "SXL" followed by the shape and dof
	// digits of the directive that declared it.
	ID string

	// ShapeDescription is the human-readable geometric idealization,
	// word-wrapped for embedding in structured-record files.
	ShapeDescription string

	// DofPolicy tags the refinement degrees of freedom left free:
	// one of ".", "R", "RD", "RO", "RT", "RDT", "RDO".
	DofPolicy string
}

// Catalog is the de-duplicated, insertion-ordered set of constraint
// definitions referenced by a record list.
type Catalog struct {
	defs  []ConstraintDef
	index map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add admits a definition unless its ID is already present.
// It reports whether the definition was newly added.
func (c *Catalog) Add(def ConstraintDef) bool {
	if _, ok := c.index[def.ID]; ok {
		return false
	}
	c.index[def.ID] = len(c.defs)
	c.defs = append(c.defs, def)
	return true
}

// ByID looks up a definition.
func (c *Catalog) ByID(id string) (ConstraintDef, bool) {
	i, ok := c.index[id]
	if !ok {
		return ConstraintDef{}, false
	}
	return c.defs[i], true
}

// Defs returns the definitions in admission order. The slice is shared;
// callers must not modify it.
func (c *Catalog) Defs() []ConstraintDef {
	return c.defs
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// Validate checks the catalog against a record list: every referenced ID
// must be catalogued and every catalogued definition referenced.
func (c *Catalog) Validate(records []AtomRecord) error {
	referenced := make(map[string]bool, c.Len())
	for _, rec := range records {
		if rec.ConstraintID == "" {
			continue
		}
		if _, ok := c.ByID(rec.ConstraintID); !ok {
			return fmt.Errorf("record %s references unknown constraint %s", rec.Label, rec.ConstraintID)
		}
		referenced[rec.ConstraintID] = true
	}
	for _, def := range c.defs {
		if !referenced[def.ID] {
			return fmt.Errorf("constraint %s is catalogued but never referenced", def.ID)
		}
	}
	return nil
}
