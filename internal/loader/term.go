package loader

import (
	"fmt"
	"strings"
)

// TermKind tags the shape of a Term.
type TermKind uint8

const (
	TermNumber TermKind = iota + 1
	TermVariable
	TermPrimitive
	TermAlias
	TermEncoded
	TermApply
)

// Term is one decoded term. Terms may be shared: a YAML alias decodes to
// the same *Term as its anchor, and Build maps each *Term to exactly one
// graph node.
type Term struct {
	Kind  TermKind
	Value int64   // TermNumber, TermVariable
	Name  string  // TermPrimitive, TermAlias
	Bits  string  // TermEncoded
	Items []*Term // TermApply: head followed by arguments
	Line  int     // 1-based source line, 0 if unknown
}

// Num returns a number term.
func Num(v int64) *Term { return &Term{Kind: TermNumber, Value: v} }

// Var returns a variable term.
func Var(id int64) *Term { return &Term{Kind: TermVariable, Value: id} }

// Prim returns a primitive term.
func Prim(name string) *Term { return &Term{Kind: TermPrimitive, Name: name} }

// Ref returns an alias term naming a global definition.
func Ref(name string) *Term { return &Term{Kind: TermAlias, Name: name} }

// Bits returns an encoded-form term.
func Bits(bits string) *Term { return &Term{Kind: TermEncoded, Bits: bits} }

// Ap returns the application of head to args.
func Ap(head *Term, args ...*Term) *Term {
	return &Term{Kind: TermApply, Items: append([]*Term{head}, args...)}
}

// String renders t in the YAML flow notation accepted by ParseTerm.
// A sub-term reached more than once is printed with an anchor (&tN) at its
// first occurrence and an alias (*tN) after that, so parsing the text back
// yields the same sharing.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}
	p := &termPrinter{uses: make(map[*Term]int), anchors: make(map[*Term]string)}
	p.count(t)
	p.print(t)
	return p.sb.String()
}

type termPrinter struct {
	sb      strings.Builder
	uses    map[*Term]int
	anchors map[*Term]string
}

func (p *termPrinter) count(t *Term) {
	p.uses[t]++
	if p.uses[t] > 1 {
		return
	}
	for _, item := range t.Items {
		p.count(item)
	}
}

func (p *termPrinter) print(t *Term) {
	if p.uses[t] > 1 {
		if name, ok := p.anchors[t]; ok {
			p.sb.WriteString("*" + name)
			return
		}
		name := fmt.Sprintf("t%d", len(p.anchors)+1)
		p.anchors[t] = name
		p.sb.WriteString("&" + name + " ")
	}

	switch t.Kind {
	case TermNumber:
		fmt.Fprintf(&p.sb, "%d", t.Value)
	case TermVariable:
		fmt.Fprintf(&p.sb, "x%d", t.Value)
	case TermPrimitive:
		p.sb.WriteString(t.Name)
	case TermAlias:
		p.sb.WriteString(AliasPrefix + t.Name)
	case TermEncoded:
		fmt.Fprintf(&p.sb, "{bits: %q}", t.Bits)
	case TermApply:
		p.sb.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.print(item)
		}
		p.sb.WriteByte(']')
	default:
		p.sb.WriteString("<invalid>")
	}
}

// Definition binds a global name to a term.
type Definition struct {
	Name string
	Term *Term
	Line int
}

// Document is a decoded term document.
type Document struct {
	// Source is the file the document was read from, if any.
	Source string

	// Description is free text carried through for reporting.
	Description string

	// Definitions in document order.
	Definitions []Definition
}

// Lookup returns the first definition named name.
func (d *Document) Lookup(name string) (Definition, bool) {
	for _, def := range d.Definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// walk visits every distinct term reachable from t once.
func walk(t *Term, seen map[*Term]bool, visit func(*Term)) {
	if t == nil || seen[t] {
		return
	}
	seen[t] = true
	visit(t)
	for _, item := range t.Items {
		walk(item, seen, visit)
	}
}
