package glyph

import (
	"fmt"
	"math"
)

// Primitive identifies a built-in operation.
type Primitive uint8

const (
	Successor Primitive = iota + 1
	Predecessor
	Sum
	Product
	Division
	Equality
	StrictLess
	Modulate
	Demodulate
	Send
	Negate
	SCombinator
	CCombinator
	BCombinator
	KCombinator // always-first; also boolean true
	False       // always-second; also boolean false
	PowerOfTwo
	Identity
	Cons
	Car
	Cdr
	Nil
	IsNil
	Vector
	IfZero

	primitiveLimit
)

// Unbounded is the arity of anything that can never be saturated.
const Unbounded = math.MaxInt

var primitiveNames = [primitiveLimit]string{
	Successor:   "inc",
	Predecessor: "dec",
	Sum:         "add",
	Product:     "mul",
	Division:    "div",
	Equality:    "eq",
	StrictLess:  "lt",
	Modulate:    "mod",
	Demodulate:  "dem",
	Send:        "send",
	Negate:      "neg",
	SCombinator: "s",
	CCombinator: "c",
	BCombinator: "b",
	KCombinator: "t",
	False:       "f",
	PowerOfTwo:  "pwr2",
	Identity:    "i",
	Cons:        "cons",
	Car:         "car",
	Cdr:         "cdr",
	Nil:         "nil",
	IsNil:       "isnil",
	Vector:      "vec",
	IfZero:      "if0",
}

var primitivesByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, name := range primitiveNames {
		if name != "" {
			m[name] = Primitive(p)
		}
	}
	return m
}()

// Valid reports whether p is a known primitive.
func (p Primitive) Valid() bool {
	return p > 0 && p < primitiveLimit
}

// String returns the primitive's source name, e.g. "add".
func (p Primitive) String() string {
	if p.Valid() {
		return primitiveNames[p]
	}
	return fmt.Sprintf("prim(%d)", uint8(p))
}

// Arity returns the number of arguments p needs before it can be applied.
// Unknown identifiers report Unbounded: they are never saturated and are
// therefore always in weak head normal form.
func (p Primitive) Arity() int {
	switch p {
	case Successor, Predecessor, Modulate, Demodulate, Send, Negate,
		PowerOfTwo, Identity, Car, Cdr, Nil, IsNil:
		return 1
	case Sum, Product, Division, Equality, StrictLess, KCombinator, False:
		return 2
	case SCombinator, CCombinator, BCombinator, Cons, Vector, IfZero:
		return 3
	default:
		return Unbounded
	}
}

// LookupPrimitive maps a source name to its primitive.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// Primitives returns every known primitive in identifier order.
func Primitives() []Primitive {
	out := make([]Primitive, 0, primitiveLimit-1)
	for p := Primitive(1); p < primitiveLimit; p++ {
		out = append(out, p)
	}
	return out
}
