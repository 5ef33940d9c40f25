// Package defs provides the interning definition table consumed by the
// reducer.
//
// The table maps global names to stable integer ids and ids to canonical
// root nodes. Resolving the same id always yields the same *glyph.Node, so
// every alias of a global shares one sub-graph and a value forced through
// one use is memoized for all of them. Recursive definitions close a cycle
// through that shared node.
//
// The table also owns one canonical node per primitive, which reduction
// rules fetch as values (for example the identity combinator left behind
// by "t" and "f").
//
// Thread-safety: a Table is built once, sealed, and then only read. It is
// not safe to Define while a reducer runs against it.
package defs

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/glyph/internal/glyph"
)

var (
	// ErrSealed is returned by Define after Seal.
	ErrSealed = errors.New("definition table is sealed")

	// ErrRedefined is returned when a name is defined twice.
	ErrRedefined = errors.New("name already defined")
)

// Table is the process-wide name → definition map.
type Table struct {
	ids    map[string]int64
	names  []string // index is id
	roots  []*glyph.Node
	prims  map[glyph.Primitive]*glyph.Node
	sealed bool
}

// NewTable returns an empty, unsealed table with canonical primitive nodes.
func NewTable() *Table {
	t := &Table{
		ids:   make(map[string]int64),
		prims: make(map[glyph.Primitive]*glyph.Node),
	}
	for _, p := range glyph.Primitives() {
		t.prims[p] = glyph.Prim(p)
	}
	return t
}

// Intern returns the id for name, assigning a fresh one on first use.
// Names are NFC-normalized so canonically equivalent spellings share an id.
// Interning an unknown name is how forward references get an id before
// their definition is seen.
func (t *Table) Intern(name string) int64 {
	name = norm.NFC.String(name)
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := int64(len(t.names))
	t.ids[name] = id
	t.names = append(t.names, name)
	t.roots = append(t.roots, nil)
	return id
}

// Define binds name to root.
func (t *Table) Define(name string, root *glyph.Node) error {
	if t.sealed {
		return fmt.Errorf("define %q: %w", name, ErrSealed)
	}
	if root == nil {
		return fmt.Errorf("define %q: nil root", name)
	}
	id := t.Intern(name)
	if t.roots[id] != nil {
		return fmt.Errorf("define %q: %w", name, ErrRedefined)
	}
	t.roots[id] = root
	return nil
}

// Seal freezes the table. Later Define calls fail with ErrSealed.
func (t *Table) Seal() {
	t.sealed = true
}

// Sealed reports whether Seal has been called.
func (t *Table) Sealed() bool {
	return t.sealed
}

// Resolve returns the canonical root for id.
func (t *Table) Resolve(id int64) (*glyph.Node, bool) {
	if id < 0 || id >= int64(len(t.roots)) || t.roots[id] == nil {
		return nil, false
	}
	return t.roots[id], true
}

// Primitive returns the canonical node for p.
func (t *Table) Primitive(p glyph.Primitive) *glyph.Node {
	n, ok := t.prims[p]
	if !ok {
		panic(fmt.Sprintf("defs: no canonical node for %v", p))
	}
	return n
}

// Lookup returns the canonical root for name.
func (t *Table) Lookup(name string) (*glyph.Node, bool) {
	id, ok := t.ids[norm.NFC.String(name)]
	if !ok {
		return nil, false
	}
	return t.Resolve(id)
}

// ID returns the id interned for name, if any.
func (t *Table) ID(name string) (int64, bool) {
	id, ok := t.ids[norm.NFC.String(name)]
	return id, ok
}

// Name returns the name interned for id.
func (t *Table) Name(id int64) string {
	if id < 0 || id >= int64(len(t.names)) {
		return fmt.Sprintf("#%d", id)
	}
	return t.names[id]
}

// Names returns all defined names in sorted order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.names))
	for id, name := range t.names {
		if t.roots[id] != nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Undefined returns names that were interned but never defined, sorted.
func (t *Table) Undefined() []string {
	var out []string
	for id, name := range t.names {
		if t.roots[id] == nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	return len(t.names)
}
