// Package program ties loading and reduction together: it loads term
// documents once and evaluates expressions against them, each evaluation
// on a freshly built graph.
package program

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/glyph/internal/engine"
	"github.com/roach88/glyph/internal/glyph"
	"github.com/roach88/glyph/internal/ir"
	"github.com/roach88/glyph/internal/loader"
)

// Program is a loaded set of definitions.
type Program struct {
	Sources  []string
	Document *loader.Document

	// Problems are validation findings. Undefined aliases are reported here
	// but do not prevent evaluation; reaching one fails at reduction time.
	Problems []loader.ValidationError
	Warnings []loader.RecursionWarning
}

// Load reads and merges the given documents.
func Load(paths ...string) (*Program, error) {
	if len(paths) == 0 {
		return New(&loader.Document{}), nil
	}
	doc, err := loader.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	p := New(doc)
	p.Sources = paths
	return p, nil
}

// New wraps an already decoded document.
func New(doc *loader.Document) *Program {
	return &Program{
		Document: doc,
		Problems: loader.Validate(doc),
		Warnings: loader.AnalyzeRecursion(doc),
	}
}

// Fatal returns the validation problems that make the document unusable:
// duplicate and empty definitions.
func (p *Program) Fatal() error {
	var errs []error
	for _, prob := range p.Problems {
		if prob.Code == loader.ErrUndefinedAlias {
			continue
		}
		errs = append(errs, prob)
	}
	return errors.Join(errs...)
}

// Request selects what to evaluate and how.
// Exactly one of Entry, Expr or Term must be set.
type Request struct {
	Entry string       // definition name
	Expr  string       // term in YAML flow notation
	Term  *loader.Term // already decoded term

	MaxSteps int // 0 = unbounded
	Depth    int // read-back depth, 0 = engine.DefaultDepth
	Trace    bool
	Logger   *slog.Logger
}

// Outcome is the result of one evaluation. A reduction failure is an
// outcome, not an error: Err carries it and Value is nil.
type Outcome struct {
	Entry  string
	Expr   string
	Value  ir.Value
	Result string // canonical JSON of Value
	Digest string
	Err    *engine.RuntimeError
	Stats  engine.Stats

	// Problems are undefined names in the requested term. They are
	// reported, not fatal: reducing such a term fails only if the name
	// is reached.
	Problems []loader.ValidationError
}

// OK reports whether the evaluation produced a value.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Code returns "ok" or the engine error code.
func (o Outcome) Code() string {
	if o.Err == nil {
		return "ok"
	}
	return string(o.Err.Code)
}

// Term resolves the term a request names.
func (p *Program) Term(req Request) (*loader.Term, error) {
	set := 0
	for _, b := range []bool{req.Entry != "", req.Expr != "", req.Term != nil} {
		if b {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of entry, expr or term is required")
	}

	switch {
	case req.Term != nil:
		return req.Term, nil
	case req.Entry != "":
		if _, ok := p.Document.Lookup(req.Entry); !ok {
			return nil, fmt.Errorf("entry %q is not defined", req.Entry)
		}
		return loader.Ref(req.Entry), nil
	default:
		t, err := loader.ParseTerm(req.Expr)
		if err != nil {
			return nil, fmt.Errorf("parse expression: %w", err)
		}
		return t, nil
	}
}

// Eval builds a fresh graph for the program and the requested term,
// reduces it and reads the result back.
func (p *Program) Eval(req Request) (Outcome, error) {
	term, err := p.Term(req)
	if err != nil {
		return Outcome{}, err
	}

	arena := glyph.NewArena()
	table, err := loader.Build(p.Document, arena)
	if err != nil {
		return Outcome{}, err
	}
	root, err := loader.NewBuilder(table, arena).Node(term)
	if err != nil {
		return Outcome{}, fmt.Errorf("build expression: %w", err)
	}
	table.Seal()

	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	eng := engine.New(table,
		engine.WithAllocator(arena),
		engine.WithMaxSteps(req.MaxSteps),
		engine.WithLogger(logger),
		engine.WithTrace(req.Trace),
	)

	out := Outcome{
		Entry:    req.Entry,
		Expr:     term.String(),
		Problems: loader.ValidateTerm(term, table.Names()),
	}
	v, err := eng.Observe(root, req.Depth)
	out.Stats = eng.Stats()
	if err != nil {
		var re *engine.RuntimeError
		if !errors.As(err, &re) {
			return Outcome{}, err
		}
		out.Err = re
		return out, nil
	}

	data, err := ir.MarshalValue(v)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal result: %w", err)
	}
	digest, err := ir.Digest(v)
	if err != nil {
		return Outcome{}, fmt.Errorf("digest result: %w", err)
	}
	out.Value = v
	out.Result = string(data)
	out.Digest = digest
	return out, nil
}
