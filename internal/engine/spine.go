package engine

import (
	"github.com/roach88/glyph/internal/glyph"
)

// spine is the stack of application ancestors above the node being
// walked. Index 0 is the nearest ancestor, which supplies the first
// argument of a primitive found below it.
type spine struct {
	nodes []*glyph.Node
}

func (s *spine) push(n *glyph.Node) {
	s.nodes = append(s.nodes, n)
}

func (s *spine) pop() {
	s.nodes = s.nodes[:len(s.nodes)-1]
}

func (s *spine) len() int {
	return len(s.nodes)
}

// cyclic reports whether some node occurs twice on the spine. Consecutive
// frames are linked through Fun, so a repeat means the head chain loops
// back on itself. The scan runs only when the depth reaches a power of two
// past minCycleScan.
func (s *spine) cyclic() bool {
	n := len(s.nodes)
	if n < minCycleScan || n&(n-1) != 0 {
		return false
	}
	seen := make(map[*glyph.Node]struct{}, n)
	for _, node := range s.nodes {
		if _, dup := seen[node]; dup {
			return true
		}
		seen[node] = struct{}{}
	}
	return false
}

const minCycleScan = 64

// at returns the i-th ancestor, or nil past the top of the spine.
func (s *spine) at(i int) *glyph.Node {
	if i < 0 || i >= len(s.nodes) {
		return nil
	}
	return s.nodes[len(s.nodes)-1-i]
}

// arg returns the i-th ancestor and fails if the spine is too short.
func (s *spine) arg(i int) *glyph.Node {
	n := s.at(i)
	if n == nil {
		panic(fail(ErrCodeSpineUnderflow, "argument %d requested with spine depth %d", i, len(s.nodes)))
	}
	return n
}

// force reduces n to weak head normal form on a fresh spine.
func (e *Engine) force(n *glyph.Node) {
	var s spine
	e.walk(n, &s)
	if s.len() != 0 {
		panic(fail(ErrCodeSpineLeak, "%d frames left on spine", s.len()).at(n))
	}
}

// walk reduces the left spine starting at n.
//
// It returns nil when n is blocked in weak head normal form and nothing
// below it changed. Otherwise it returns the spine node where reduction
// must resume: a primitive's rewrite target, or the nearest ancestor when n
// itself was rewritten. A caller that gets back its own node loops on it;
// a caller that gets back any other node returns it unchanged, so control
// jumps to the rewritten ancestor without unwinding frame by frame.
func (e *Engine) walk(n *glyph.Node, s *spine) *glyph.Node {
	changed := false
	for {
		switch n.Kind {
		case glyph.KindAlias:
			changed = true
			e.expand(n)
			continue

		case glyph.KindApplication:
			s.push(n)
			if s.cyclic() {
				e.diverge(n)
			}
			next := e.walk(n.Fun, s)
			s.pop()
			switch next {
			case n:
				changed = true
				continue
			case nil:
				// The head is stuck, so n is in weak head normal form.
				// Its pending argument is reduced eagerly.
				e.force(n.Arg)
			default:
				return next
			}

		case glyph.KindPrimitive:
			if s.len() >= n.Prim.Arity() {
				return e.apply(n, s)
			}
		}
		break
	}
	if changed {
		return s.at(0)
	}
	return nil
}

// diverge is reached when n lies on a cycle of heads, as built by a
// definition like "x: [$x, 1]". Such a node never reaches weak head normal
// form, so reduction spins on the step quota. Without a quota it does not
// return.
func (e *Engine) diverge(n *glyph.Node) {
	e.logger.Warn("cyclic head chain; reduction cannot terminate", "node", n.String())
	for {
		e.step()
	}
}
