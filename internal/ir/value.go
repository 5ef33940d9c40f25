package ir

import (
	"strconv"
	"strings"
)

// Value is a sealed interface over observed results.
// Only Int, Var, Bits, Prim, Nil, Pair, Apply, and Elided implement it.
type Value interface {
	irValue()
}

// Int is a reduced number.
type Int int64

// Var is a free variable, identified by id.
type Var int64

// Bits is a linear-encoded form.
type Bits string

// Prim is a primitive or combinator in weak head normal form, by name.
// Booleans read back as Prim("t") and Prim("f").
type Prim string

// Nil is the empty list.
type Nil struct{}

// Pair is a cons cell.
type Pair struct {
	Head Value
	Tail Value
}

// Apply is an application that is stuck in weak head normal form, such as
// an under-applied primitive.
type Apply struct {
	Fun Value
	Arg Value
}

// Elided stands for structure beyond the read-back depth limit.
type Elided struct{}

func (Int) irValue()    {}
func (Var) irValue()    {}
func (Bits) irValue()   {}
func (Prim) irValue()   {}
func (Nil) irValue()    {}
func (Pair) irValue()   {}
func (Apply) irValue()  {}
func (Elided) irValue() {}

// List builds a proper list from values.
func List(vals ...Value) Value {
	var out Value = Nil{}
	for i := len(vals) - 1; i >= 0; i-- {
		out = Pair{Head: vals[i], Tail: out}
	}
	return out
}

// Elements unrolls a pair chain. It returns the heads in order and the
// value that terminates the chain (Nil{} for a proper list).
func Elements(v Value) ([]Value, Value) {
	var elems []Value
	for {
		p, ok := v.(Pair)
		if !ok {
			return elems, v
		}
		elems = append(elems, p.Head)
		v = p.Tail
	}
}

// Format renders v in a compact human-readable notation:
//
//	42  x3  #0110  cons  [1, 2, 3]  (1, 2 . 3)  ap add 1  ...
func Format(v Value) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case Int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Var:
		sb.WriteByte('x')
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Bits:
		sb.WriteByte('#')
		sb.WriteString(string(val))
	case Prim:
		sb.WriteString(string(val))
	case Nil:
		sb.WriteString("[]")
	case Pair:
		elems, end := Elements(val)
		_, proper := end.(Nil)
		if proper {
			sb.WriteByte('[')
		} else {
			sb.WriteByte('(')
		}
		for i, e := range elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, e)
		}
		if proper {
			sb.WriteByte(']')
			return
		}
		sb.WriteString(" . ")
		format(sb, end)
		sb.WriteByte(')')
	case Apply:
		sb.WriteString("ap ")
		formatOperand(sb, val.Fun)
		sb.WriteByte(' ')
		formatOperand(sb, val.Arg)
	case Elided:
		sb.WriteString("...")
	default:
		sb.WriteString("<invalid>")
	}
}

func formatOperand(sb *strings.Builder, v Value) {
	if _, ok := v.(Apply); ok {
		sb.WriteByte('(')
		format(sb, v)
		sb.WriteByte(')')
		return
	}
	format(sb, v)
}

// Canonical converts v into plain Go data (int64, string, bool, []any,
// map[string]any) suitable for MarshalCanonical:
//
//	Int      → number
//	Prim     → "name"
//	Nil      → []
//	list     → [elements...]
//	Pair     → {"car": ..., "cdr": ...} when the chain is improper
//	Var      → {"var": id}
//	Bits     → {"bits": "0110"}
//	Apply    → {"ap": [fun, arg]}
//	Elided   → {"elided": true}
func Canonical(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Var:
		return map[string]any{"var": int64(val)}
	case Bits:
		return map[string]any{"bits": string(val)}
	case Prim:
		return string(val)
	case Nil:
		return []any{}
	case Pair:
		elems, end := Elements(val)
		if _, proper := end.(Nil); proper {
			out := make([]any, len(elems))
			for i, e := range elems {
				out[i] = Canonical(e)
			}
			return out
		}
		return map[string]any{
			"car": Canonical(val.Head),
			"cdr": Canonical(val.Tail),
		}
	case Apply:
		return map[string]any{"ap": []any{Canonical(val.Fun), Canonical(val.Arg)}}
	case Elided:
		return map[string]any{"elided": true}
	default:
		return nil
	}
}
