package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/glyph/internal/codec"
	"github.com/roach88/glyph/internal/glyph"
)

// Definitions is the interning definition table consumed by the engine.
// Resolve must return the same node for the same id on every call, and
// Primitive must return one canonical node per primitive.
type Definitions interface {
	Primitive(p glyph.Primitive) *glyph.Node
	Resolve(id int64) (*glyph.Node, bool)
}

// Codec converts between numbers and their linear-encoded form.
// Decode(Encode(x)) must equal x.
type Codec interface {
	Encode(n int64) string
	Decode(bits string) (int64, error)
}

// Allocator creates the application nodes that S, C, B, cons, and vec
// materialize.
type Allocator interface {
	Ap(fun, arg *glyph.Node) *glyph.Node
}

// Stats counts the work done by an engine over its lifetime.
type Stats struct {
	// Applications is the number of primitive rewrites.
	Applications int
	// Expansions is the number of alias expansions.
	Expansions int
	// Allocations is the number of nodes the engine allocated.
	Allocations int
}

// Steps returns Applications + Expansions, the unit counted by the quota.
func (s Stats) Steps() int {
	return s.Applications + s.Expansions
}

// Engine reduces graphs against one definition table.
//
// INVARIANTS:
//   - The definition table is not written while the engine runs
//   - After the first failure every call returns a HALTED error
//   - Every top-level reduction leaves the spine empty
type Engine struct {
	defs   Definitions
	codec  Codec
	alloc  Allocator
	logger *slog.Logger
	trace  bool

	quota  *QuotaEnforcer
	stats  Stats
	halted *RuntimeError
}

// Option configures an Engine.
type Option func(*Engine)

// WithCodec sets the codec used by "mod" and "dem".
// Default: codec.Linear.
func WithCodec(c Codec) Option {
	return func(e *Engine) {
		e.codec = c
	}
}

// WithAllocator sets the allocator for nodes built by combinator rules.
// Default: a fresh glyph.Arena.
func WithAllocator(a Allocator) Option {
	return func(e *Engine) {
		e.alloc = a
	}
}

// WithMaxSteps bounds the number of reduction steps over the engine's
// lifetime. Zero (the default) means unbounded.
//
// Use WithMaxSteps(10000) when evaluating programs that might diverge.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.quota = NewQuotaEnforcer(maxSteps)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTrace logs every expansion and rewrite at debug level.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

// New creates an Engine over the given definition table.
func New(defs Definitions, opts ...Option) *Engine {
	e := &Engine{
		defs:   defs,
		codec:  codec.Linear{},
		alloc:  glyph.NewArena(),
		logger: slog.Default(),
		quota:  NewQuotaEnforcer(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reduce rewrites root in place until it is in weak head normal form.
//
// Reducing a node that is already in weak head normal form does nothing.
// On failure the returned error is a *RuntimeError and the engine halts.
func (e *Engine) Reduce(root *glyph.Node) (err error) {
	if root == nil {
		return fail(ErrCodeWrongShape, "reduce of nil root")
	}
	if e.halted != nil {
		return NewHaltedError(e.halted)
	}
	defer e.recoverFatal(&err)

	before := e.stats
	e.force(root)

	if e.trace {
		e.logger.Debug("reduced",
			"root", root.String(),
			"applications", e.stats.Applications-before.Applications,
			"expansions", e.stats.Expansions-before.Expansions,
		)
	}
	return nil
}

// Stats returns the work counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Halted returns the failure that halted the engine, or nil.
func (e *Engine) Halted() error {
	if e.halted == nil {
		return nil
	}
	return e.halted
}

// recoverFatal turns a *RuntimeError panic into a returned error and halts
// the engine. Any other panic is re-raised.
func (e *Engine) recoverFatal(err *error) {
	r := recover()
	if r == nil {
		return
	}
	re, ok := r.(*RuntimeError)
	if !ok {
		panic(r)
	}
	e.halted = re
	e.logger.Error("reduction halted",
		"code", re.Code,
		"message", re.Message,
		"node", re.Node,
		"steps", e.stats.Steps(),
	)
	*err = re
}

// step charges one unit against the quota.
func (e *Engine) step() {
	if se := e.quota.Check(); se != nil {
		panic(NewQuotaError(se))
	}
}

// expand rewrites an alias node into "ap i <definition>".
func (e *Engine) expand(n *glyph.Node) {
	if n.Kind != glyph.KindAlias {
		panic(fail(ErrCodeWrongShape, "expand of non-alias").at(n))
	}
	def, ok := e.defs.Resolve(n.Value)
	if !ok {
		panic(&RuntimeError{
			Code:    ErrCodeUndefinedAlias,
			Message: fmt.Sprintf("no definition for alias %d", n.Value),
			Node:    n.String(),
			Details: map[string]string{"id": fmt.Sprintf("%d", n.Value)},
		})
	}
	e.step()
	e.stats.Expansions++
	if e.trace {
		e.logger.Debug("expand", "alias", n.Value)
	}
	n.SetApplication(e.defs.Primitive(glyph.Identity), def)
}

func (e *Engine) ap(fun, arg *glyph.Node) *glyph.Node {
	e.stats.Allocations++
	return e.alloc.Ap(fun, arg)
}
