package engine

import (
	"github.com/roach88/glyph/internal/glyph"
	"github.com/roach88/glyph/internal/ir"
)

// DefaultDepth is the read-back depth used when Observe is given a
// non-positive depth.
const DefaultDepth = 256

// Observe reduces root and reads the result back as an ir.Value.
//
// Children of pairs and stuck applications are reduced on demand, one
// level of depth each. Structure below depth reads back as ir.Elided.
// Failures halt the engine exactly as Reduce does.
func (e *Engine) Observe(root *glyph.Node, depth int) (v ir.Value, err error) {
	if root == nil {
		return nil, fail(ErrCodeWrongShape, "observe of nil root")
	}
	if e.halted != nil {
		return nil, NewHaltedError(e.halted)
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	defer e.recoverFatal(&err)

	return e.observe(root, depth), nil
}

func (e *Engine) observe(n *glyph.Node, depth int) ir.Value {
	e.force(n)
	switch n.Kind {
	case glyph.KindNumber:
		return ir.Int(n.Value)
	case glyph.KindVariable:
		return ir.Var(n.Value)
	case glyph.KindEncoded:
		return ir.Bits(n.Bits)
	case glyph.KindPrimitive:
		if n.Prim == glyph.Nil {
			return ir.Nil{}
		}
		return ir.Prim(n.Prim.String())
	case glyph.KindApplication:
		if depth <= 1 {
			return ir.Elided{}
		}
		if isPair(n) {
			return ir.Pair{
				Head: e.observe(n.Fun.Arg, depth-1),
				Tail: e.observe(n.Arg, depth-1),
			}
		}
		return ir.Apply{
			Fun: e.observe(n.Fun, depth-1),
			Arg: e.observe(n.Arg, depth-1),
		}
	default:
		panic(fail(ErrCodeWrongShape, "%s left after reduction", n.Kind).at(n))
	}
}
