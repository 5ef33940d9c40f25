package glyph

import (
	"fmt"
)

// Kind tags the shape currently held by a Node.
type Kind uint8

const (
	// KindNumber is a terminal signed integer.
	KindNumber Kind = iota + 1
	// KindVariable is a terminal free symbol, compared by id only.
	KindVariable
	// KindPrimitive names one of the built-in operations.
	KindPrimitive
	// KindEncoded is the linear-encoded bit string produced by "mod".
	KindEncoded
	// KindApplication is curried application of Fun to Arg.
	KindApplication
	// KindAlias is an unresolved reference into the definition table.
	KindAlias
)

var kindNames = [...]string{
	KindNumber:      "number",
	KindVariable:    "variable",
	KindPrimitive:   "primitive",
	KindEncoded:     "encoded",
	KindApplication: "application",
	KindAlias:       "alias",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node is one vertex of the program graph.
//
// Only the fields relevant to Kind are meaningful:
//   - KindNumber:      Value
//   - KindVariable:    Value (the variable id)
//   - KindPrimitive:   Prim
//   - KindEncoded:     Bits
//   - KindApplication: Fun, Arg
//   - KindAlias:       Value (the definition id)
//
// Nodes are mutated in place by the reducer. Callers that keep a *Node
// observe the rewrite.
type Node struct {
	Kind  Kind
	Value int64
	Prim  Primitive
	Bits  string
	Fun   *Node
	Arg   *Node
}

// Num returns a new number node.
func Num(v int64) *Node {
	return &Node{Kind: KindNumber, Value: v}
}

// Var returns a new variable node.
func Var(id int64) *Node {
	return &Node{Kind: KindVariable, Value: id}
}

// Prim returns a new primitive node.
func Prim(p Primitive) *Node {
	return &Node{Kind: KindPrimitive, Prim: p}
}

// Encoded returns a new encoded-form node holding bits.
func Encoded(bits string) *Node {
	return &Node{Kind: KindEncoded, Bits: bits}
}

// Ap returns a new application node. Both children are required.
func Ap(fun, arg *Node) *Node {
	if fun == nil || arg == nil {
		panic("glyph.Ap: application children must not be nil")
	}
	return &Node{Kind: KindApplication, Fun: fun, Arg: arg}
}

// Alias returns a new alias node referring to definition id.
func Alias(id int64) *Node {
	return &Node{Kind: KindAlias, Value: id}
}

// Apply builds the left-associated application f a1 a2 ... an.
func Apply(f *Node, args ...*Node) *Node {
	n := f
	for _, a := range args {
		n = Ap(n, a)
	}
	return n
}

// IsPrim reports whether n currently holds primitive p.
func (n *Node) IsPrim(p Primitive) bool {
	return n.Kind == KindPrimitive && n.Prim == p
}

// SetNumber rewrites n in place into a number.
func (n *Node) SetNumber(v int64) {
	*n = Node{Kind: KindNumber, Value: v}
}

// SetPrim rewrites n in place into a primitive.
func (n *Node) SetPrim(p Primitive) {
	*n = Node{Kind: KindPrimitive, Prim: p}
}

// SetEncoded rewrites n in place into an encoded form.
func (n *Node) SetEncoded(bits string) {
	*n = Node{Kind: KindEncoded, Bits: bits}
}

// SetApplication rewrites n in place into an application of fun to arg.
func (n *Node) SetApplication(fun, arg *Node) {
	*n = Node{Kind: KindApplication, Fun: fun, Arg: arg}
}

// Become overwrites n with a copy of src's shape. Children of src are
// shared, not copied, so later rewrites below src stay visible through n.
func (n *Node) Become(src *Node) {
	*n = *src
}

// String renders n shallowly for diagnostics. Children are elided so the
// output stays bounded on cyclic graphs.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindNumber:
		return fmt.Sprintf("%d", n.Value)
	case KindVariable:
		return fmt.Sprintf("x%d", n.Value)
	case KindPrimitive:
		return n.Prim.String()
	case KindEncoded:
		return "#" + n.Bits
	case KindApplication:
		return fmt.Sprintf("ap %s %s", shallow(n.Fun), shallow(n.Arg))
	case KindAlias:
		return fmt.Sprintf(":%d", n.Value)
	default:
		return n.Kind.String()
	}
}

func shallow(n *Node) string {
	if n != nil && n.Kind == KindApplication {
		return "(ap ...)"
	}
	return n.String()
}
