package loader

import (
	"errors"
	"fmt"

	"github.com/roach88/glyph/internal/defs"
	"github.com/roach88/glyph/internal/glyph"
)

// ErrEmptyTerm is returned when an application has no items.
var ErrEmptyTerm = errors.New("empty term")

// Builder converts terms to graph nodes against one definition table.
// Each distinct *Term becomes exactly one node, so shared terms build
// shared nodes.
type Builder struct {
	table *defs.Table
	arena *glyph.Arena
	memo  map[*Term]*glyph.Node
}

// NewBuilder returns a builder that interns alias names in table and
// allocates from arena.
func NewBuilder(table *defs.Table, arena *glyph.Arena) *Builder {
	return &Builder{
		table: table,
		arena: arena,
		memo:  make(map[*Term]*glyph.Node),
	}
}

// Node builds the graph for t. Primitive terms use the table's canonical
// primitive nodes.
func (b *Builder) Node(t *Term) (*glyph.Node, error) {
	if t == nil {
		return nil, ErrEmptyTerm
	}
	if n, ok := b.memo[t]; ok {
		return n, nil
	}

	var n *glyph.Node
	switch t.Kind {
	case TermNumber:
		n = b.arena.Num(t.Value)
	case TermVariable:
		n = b.arena.Var(t.Value)
	case TermEncoded:
		n = b.arena.Encoded(t.Bits)
	case TermPrimitive:
		p, ok := glyph.LookupPrimitive(t.Name)
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", t.Name)
		}
		n = b.table.Primitive(p)
	case TermAlias:
		n = b.arena.Alias(b.table.Intern(t.Name))
	case TermApply:
		if len(t.Items) == 0 {
			return nil, ErrEmptyTerm
		}
		head, err := b.Node(t.Items[0])
		if err != nil {
			return nil, err
		}
		n = head
		for _, item := range t.Items[1:] {
			arg, err := b.Node(item)
			if err != nil {
				return nil, err
			}
			n = b.arena.Ap(n, arg)
		}
	default:
		return nil, fmt.Errorf("invalid term kind %d", t.Kind)
	}
	b.memo[t] = n
	return n, nil
}

// Build creates a definition table from doc. Names are interned in
// document order, so ids are stable for a given document. The returned
// table is not sealed: callers may still build expression terms against
// it before handing it to an engine.
func Build(doc *Document, arena *glyph.Arena) (*defs.Table, error) {
	table := defs.NewTable()
	for _, def := range doc.Definitions {
		table.Intern(def.Name)
	}

	b := NewBuilder(table, arena)
	for _, def := range doc.Definitions {
		n, err := b.Node(def.Term)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeBadTerm,
				Message: fmt.Sprintf("definition %q: %v", def.Name, err),
				File:    doc.Source,
				Line:    def.Line,
			}
		}
		if err := table.Define(def.Name, n); err != nil {
			return nil, &LoadError{
				Code:    ErrDuplicateDefinition,
				Message: err.Error(),
				File:    doc.Source,
				Line:    def.Line,
			}
		}
	}
	return table, nil
}
