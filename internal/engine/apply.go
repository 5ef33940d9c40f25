package engine

import (
	"github.com/roach88/glyph/internal/glyph"
)

// apply rewrites the spine for primitive fn and returns the ancestor that
// now holds the result. The caller guarantees the spine holds at least
// fn.Prim.Arity() ancestors.
//
// Argument holders are p0 (first argument), p1, p2: the application nodes
// whose Arg is the corresponding argument. Results are written into the
// holder of the last consumed argument.
//
// Integer arithmetic wraps on overflow.
func (e *Engine) apply(fn *glyph.Node, s *spine) *glyph.Node {
	e.step()
	e.stats.Applications++
	if e.trace {
		e.logger.Debug("apply", "prim", fn.Prim.String(), "spine", s.len())
	}

	p0 := s.arg(0)
	switch fn.Prim {
	case glyph.Successor:
		p0.SetNumber(e.number(p0.Arg) + 1)
		return p0

	case glyph.Predecessor:
		p0.SetNumber(e.number(p0.Arg) - 1)
		return p0

	case glyph.Negate:
		p0.SetNumber(-e.number(p0.Arg))
		return p0

	case glyph.PowerOfTwo:
		n := e.number(p0.Arg)
		if n < 0 {
			panic(fail(ErrCodeNegativeExponent, "pwr2 of %d", n).at(p0))
		}
		p0.SetNumber(int64(1) << uint64(n))
		return p0

	case glyph.Modulate:
		p0.SetEncoded(e.codec.Encode(e.number(p0.Arg)))
		return p0

	case glyph.Demodulate:
		e.force(p0.Arg)
		if p0.Arg.Kind != glyph.KindEncoded {
			panic(wrongShape("dem", glyph.KindEncoded, p0.Arg))
		}
		v, err := e.codec.Decode(p0.Arg.Bits)
		if err != nil {
			panic(fail(ErrCodeMalformedEncoding, "%v", err).at(p0.Arg))
		}
		p0.SetNumber(v)
		return p0

	case glyph.Send:
		panic(fail(ErrCodeUnimplemented, "send has no rewrite rule").at(p0))

	case glyph.Identity:
		if p1 := s.at(1); p1 != nil {
			p1.Fun = p0.Arg
			return p1
		}
		e.force(p0.Arg)
		p0.Become(p0.Arg)
		return p0

	case glyph.Car:
		p0.SetApplication(p0.Arg, e.defs.Primitive(glyph.KCombinator))
		return p0

	case glyph.Cdr:
		p0.SetApplication(p0.Arg, e.defs.Primitive(glyph.False))
		return p0

	case glyph.Nil:
		p0.SetPrim(glyph.KCombinator)
		return p0

	case glyph.IsNil:
		e.probe(p0.Arg)
		switch {
		case p0.Arg.IsPrim(glyph.Nil):
			p0.SetPrim(glyph.KCombinator)
		case isPair(p0.Arg):
			p0.SetPrim(glyph.False)
		default:
			panic(fail(ErrCodeWrongShape, "isnil of a value that is neither nil nor a pair").at(p0.Arg))
		}
		return p0
	}

	p1 := s.arg(1)
	switch fn.Prim {
	case glyph.Sum:
		e.force(p0.Arg)
		e.force(p1.Arg)
		switch {
		case isNumber(p0.Arg, 0):
			p1.Become(p1.Arg)
		case isNumber(p1.Arg, 0):
			p1.Become(p0.Arg)
		default:
			p1.SetNumber(e.expectNumber("add", p0.Arg) + e.expectNumber("add", p1.Arg))
		}
		return p1

	case glyph.Product:
		e.force(p0.Arg)
		if isNumber(p0.Arg, 0) {
			p1.SetNumber(0)
			return p1
		}
		e.force(p1.Arg)
		switch {
		case isNumber(p0.Arg, 1):
			p1.Become(p1.Arg)
		case isNumber(p1.Arg, 0):
			p1.SetNumber(0)
		case isNumber(p1.Arg, 1):
			p1.Become(p0.Arg)
		default:
			p1.SetNumber(e.expectNumber("mul", p0.Arg) * e.expectNumber("mul", p1.Arg))
		}
		return p1

	case glyph.Division:
		if p0.Arg == p1.Arg {
			p1.SetNumber(0)
			return p1
		}
		e.force(p1.Arg)
		if isNumber(p1.Arg, 1) {
			e.force(p0.Arg)
			p1.Become(p0.Arg)
			return p1
		}
		e.force(p0.Arg)
		divisor := e.expectNumber("div", p1.Arg)
		dividend := e.expectNumber("div", p0.Arg)
		if divisor == 0 {
			panic(fail(ErrCodeDivisionByZero, "div %d by zero", dividend).at(p1))
		}
		p1.SetNumber(dividend / divisor)
		return p1

	case glyph.Equality:
		if p0.Arg == p1.Arg {
			p1.SetPrim(glyph.KCombinator)
			return p1
		}
		e.force(p0.Arg)
		e.force(p1.Arg)
		if p0.Arg.Kind == glyph.KindVariable && p1.Arg.Kind == glyph.KindVariable &&
			p0.Arg.Value == p1.Arg.Value {
			p1.SetPrim(glyph.KCombinator)
			return p1
		}
		p1.SetPrim(boolean(e.expectNumber("eq", p0.Arg) == e.expectNumber("eq", p1.Arg)))
		return p1

	case glyph.StrictLess:
		if p0.Arg == p1.Arg {
			p1.SetPrim(glyph.False)
			return p1
		}
		e.force(p0.Arg)
		e.force(p1.Arg)
		p1.SetPrim(boolean(e.expectNumber("lt", p0.Arg) < e.expectNumber("lt", p1.Arg)))
		return p1

	case glyph.KCombinator:
		p1.Arg = p0.Arg
		p1.Fun = e.defs.Primitive(glyph.Identity)
		return p1

	case glyph.False:
		p1.Fun = e.defs.Primitive(glyph.Identity)
		return p1
	}

	p2 := s.arg(2)
	switch fn.Prim {
	case glyph.SCombinator:
		n1 := e.ap(p0.Arg, p2.Arg)
		n2 := e.ap(p1.Arg, p2.Arg)
		p2.SetApplication(n1, n2)
		return p2

	case glyph.CCombinator:
		n1 := e.ap(p0.Arg, p2.Arg)
		p2.SetApplication(n1, p1.Arg)
		return p2

	case glyph.BCombinator:
		n1 := e.ap(p1.Arg, p2.Arg)
		p2.SetApplication(p0.Arg, n1)
		return p2

	case glyph.Cons, glyph.Vector:
		n1 := e.ap(p2.Arg, p0.Arg)
		p2.SetApplication(n1, p1.Arg)
		return p2

	case glyph.IfZero:
		if e.number(p0.Arg) == 0 {
			p2.Arg = p1.Arg
		}
		p2.Fun = e.defs.Primitive(glyph.Identity)
		return p2
	}

	panic(fail(ErrCodeWrongShape, "no rule for primitive %s", fn.Prim).at(fn))
}

// number forces n and returns its value.
func (e *Engine) number(n *glyph.Node) int64 {
	e.force(n)
	return e.expectNumber("number", n)
}

func (e *Engine) expectNumber(op string, n *glyph.Node) int64 {
	if n.Kind != glyph.KindNumber {
		panic(wrongShape(op, glyph.KindNumber, n))
	}
	return n.Value
}

func wrongShape(op string, want glyph.Kind, got *glyph.Node) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeWrongShape,
		Message: op + ": expected " + want.String() + ", got " + got.Kind.String(),
		Node:    got.String(),
	}
}

func isNumber(n *glyph.Node, v int64) bool {
	return n.Kind == glyph.KindNumber && n.Value == v
}

// isPair reports whether n has the shape "ap (ap cons|vec a) b".
func isPair(n *glyph.Node) bool {
	if n.Kind != glyph.KindApplication || n.Fun.Kind != glyph.KindApplication {
		return false
	}
	head := n.Fun.Fun
	return head.IsPrim(glyph.Cons) || head.IsPrim(glyph.Vector)
}

func boolean(b bool) glyph.Primitive {
	if b {
		return glyph.KCombinator
	}
	return glyph.False
}
