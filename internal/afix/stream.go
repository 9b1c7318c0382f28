package afix

// frame is one open constraint scope on the directive stack.
type frame struct {
	// defM, defN identify the constraint definition the scope's members
	// reference. A matched continuation inherits the pair of the scope it
	// reopened; an unmatched one keeps digit 5, which no member can
	// resolve to a policy.
	defM, defN int

	// anchor is the attachment target captured when the first member was
	// admitted: the member itself for rigid scopes, the preceding atom
	// for hydrogen-style scopes.
	anchor string

	// count is the number of members admitted so far.
	count int
}

// streamState is the scope bookkeeping shared by both codec directions.
// Decode drives it with parsed input; encode drives a mirror of it with
// the directives it emits, so any stream the encoder produces decodes to
// the records it was given.
type streamState struct {
	stack []frame

	// lastAtom is the label of the most recent atom that can serve as a
	// carrier: plain atoms and counted members, but not riding hydrogens.
	lastAtom string
}

func (s *streamState) depth() int {
	return len(s.stack)
}

func (s *streamState) top() *frame {
	return &s.stack[len(s.stack)-1]
}

func (s *streamState) pop() frame {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

func (s *streamState) push(defM, defN int) {
	s.stack = append(s.stack, frame{defM: defM, defN: defN})
}

// applyDirective mutates the stack for a directive with digits m, n.
//
// A scope-closing n pops the innermost scope before anything else. The
// continuation digit then reopens a sibling scope with a fresh member
// count, reusing the definition of the popped scope when its shape
// matches m, or of the newly exposed scope (popping that one as well).
// A continuation that matches neither opens a scope under its own pair,
// whose first member then fails the policy lookup. All other digits
// open a fresh scope for the directive's own pair.
func (s *streamState) applyDirective(m, n int) {
	var popped *frame
	if ClosingDof(n) && s.depth() > 0 {
		f := s.pop()
		popped = &f
	}
	switch n {
	case 0:
		// pure close
	case 5:
		if popped != nil && popped.defM == m {
			s.push(popped.defM, popped.defN)
		} else if s.depth() > 0 && s.top().defM == m {
			f := s.pop()
			s.push(f.defM, f.defN)
		} else {
			s.push(m, n)
		}
	default:
		s.push(m, n)
	}
}

// admitMember books one counted member into the innermost scope and
// returns its attachment target and 1-based position index. The first
// member fixes the scope's anchor: itself for a rigid definition, the
// current carrier atom otherwise.
func (s *streamState) admitMember(label string) (attachedTo string, posn int) {
	f := s.top()
	if f.count == 0 {
		if RigidPair(f.defM, f.defN) {
			f.anchor = label
		} else {
			f.anchor = s.lastAtom
			attachedTo = f.anchor
		}
	} else {
		attachedTo = f.anchor
	}
	f.count++
	s.lastAtom = label
	return attachedTo, f.count
}

// notePlain records an unconstrained atom as the new carrier.
func (s *streamState) notePlain(label string) {
	s.lastAtom = label
}
