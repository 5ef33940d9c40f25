package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/glyph/internal/defs"
	"github.com/roach88/glyph/internal/glyph"
)

// world builds graphs against a fresh definition table.
type world struct {
	t     *testing.T
	table *defs.Table
	arena *glyph.Arena
}

func newWorld(t *testing.T) *world {
	t.Helper()
	return &world{t: t, table: defs.NewTable(), arena: glyph.NewArena()}
}

// p returns the canonical node for a primitive.
func (w *world) p(prim glyph.Primitive) *glyph.Node {
	return w.table.Primitive(prim)
}

func (w *world) ap(f *glyph.Node, args ...*glyph.Node) *glyph.Node {
	return glyph.Apply(f, args...)
}

func (w *world) num(v int64) *glyph.Node {
	return glyph.Num(v)
}

func (w *world) alias(name string) *glyph.Node {
	return glyph.Alias(w.table.Intern(name))
}

func (w *world) define(name string, root *glyph.Node) {
	w.t.Helper()
	require.NoError(w.t, w.table.Define(name, root))
}

// loop defines "loop" as itself and returns a fresh reference to it.
// Forcing it never terminates.
func (w *world) loop() *glyph.Node {
	if _, ok := w.table.Lookup("loop"); !ok {
		w.define("loop", w.alias("loop"))
	}
	return w.alias("loop")
}

func (w *world) engine(opts ...Option) *Engine {
	w.table.Seal()
	base := []Option{
		WithAllocator(w.arena),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(w.table, append(base, opts...)...)
}

// reduce reduces root on a fresh engine with a step quota and fails the
// test on error.
func (w *world) reduce(root *glyph.Node) *Engine {
	w.t.Helper()
	e := w.engine(WithMaxSteps(10000))
	require.NoError(w.t, e.Reduce(root))
	return e
}

func requireNumber(t *testing.T, want int64, n *glyph.Node) {
	t.Helper()
	require.Equal(t, glyph.KindNumber, n.Kind, "node %s", n)
	require.Equal(t, want, n.Value)
}

func requirePrim(t *testing.T, want glyph.Primitive, n *glyph.Node) {
	t.Helper()
	require.True(t, n.IsPrim(want), "want %s, got %s", want, n)
}
