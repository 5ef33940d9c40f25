package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/glyph/internal/ir"
	"github.com/roach88/glyph/internal/program"
)

// Options configures a scenario run.
type Options struct {
	// Logger receives engine logs. Default: discard.
	Logger *slog.Logger

	// Filter, when set, selects cases by name.
	Filter func(name string) bool
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Assemble the document from sources and inline definitions
//  2. Reject duplicate or empty definitions
//  3. Evaluate each case on a fresh graph
//  4. Compare outcomes against expectations
//
// Returns an error only when the scenario itself cannot run; case
// failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(scenario, Options{})
}

// RunWithOptions is Run with explicit options.
func RunWithOptions(scenario *Scenario, opts Options) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	doc, err := scenario.Document()
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	prog := program.New(doc)
	prog.Sources = scenario.Sources
	if err := prog.Fatal(); err != nil {
		return nil, fmt.Errorf("invalid definitions: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result := NewResult()
	for _, w := range prog.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}
	for _, p := range prog.Problems {
		result.Warnings = append(result.Warnings, p.Error())
	}

	for i, c := range scenario.Cases {
		name := scenario.caseName(i)
		if opts.Filter != nil && !opts.Filter(name) {
			continue
		}
		cr, err := runCase(prog, name, c, logger)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", name, err)
		}
		logger.Debug("case completed",
			"scenario", scenario.Name,
			"case", name,
			"outcome", cr.Outcome,
			"pass", cr.Pass,
		)
		result.AddCase(cr)
	}

	return result, nil
}

// runCase evaluates one case and checks its expectation.
func runCase(prog *program.Program, name string, c Case, logger *slog.Logger) (CaseResult, error) {
	out, err := prog.Eval(program.Request{
		Entry:    c.Entry,
		Expr:     c.Expr,
		MaxSteps: c.MaxSteps,
		Depth:    c.Depth,
		Logger:   logger,
	})
	if err != nil {
		return CaseResult{}, err
	}

	cr := CaseResult{
		Name:    name,
		Expr:    out.Expr,
		Outcome: out.Code(),
		Value:   out.Value,
		Result:  out.Result,
		Steps:   out.Stats.Steps(),
		Pass:    true,
	}
	if out.Err != nil {
		cr.Message = out.Err.Message
	}

	switch {
	case c.ExpectError != "":
		if cr.Outcome != c.ExpectError {
			cr.fail("expected error %s, got %s", c.ExpectError, describe(cr))
		}
	case !out.OK():
		cr.fail("unexpected %s: %s", cr.Outcome, cr.Message)
	case c.Expect != nil:
		want, err := expectedJSON(c.Expect)
		if err != nil {
			return CaseResult{}, fmt.Errorf("expect: %w", err)
		}
		if want != cr.Result {
			cr.fail("expected %s, got %s", want, cr.Result)
		}
	}
	return cr, nil
}

func describe(cr CaseResult) string {
	if cr.Outcome == "ok" {
		return "value " + ir.Format(cr.Value)
	}
	return cr.Outcome
}
