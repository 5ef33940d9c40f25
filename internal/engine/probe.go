package engine

import (
	"github.com/roach88/glyph/internal/glyph"
)

// probe reduces n just far enough to tell an empty list from a pair.
//
// It looks at most two applications deep along the function position. A
// primitive there is applied only if the arguments already visible satisfy
// it; a pair constructor (arity 3) never is, so the head and tail of a
// pair are left untouched. Anything else stops the probe and is left for
// the caller to classify.
func (e *Engine) probe(n *glyph.Node) {
	s := spine{nodes: []*glyph.Node{n}}
	for {
		switch n.Kind {
		case glyph.KindAlias:
			e.expand(n)
			continue
		case glyph.KindApplication:
		default:
			return
		}

		l := n.Fun
		switch l.Kind {
		case glyph.KindAlias:
			e.expand(l)

		case glyph.KindPrimitive:
			if l.Prim.Arity() > 1 {
				return
			}
			e.apply(l, &s)

		case glyph.KindApplication:
			l2 := l.Fun
			switch l2.Kind {
			case glyph.KindAlias:
				e.expand(l2)
			case glyph.KindPrimitive:
				if l2.Prim.Arity() > 2 {
					return
				}
				s.push(l)
				e.apply(l2, &s)
				s.pop()
			case glyph.KindApplication:
				s.push(l)
				next := e.walk(l2, &s)
				s.pop()
				if next == nil {
					return
				}
			default:
				return
			}

		default:
			return
		}
	}
}
