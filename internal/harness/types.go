package harness

import (
	"fmt"

	"github.com/roach88/glyph/internal/ir"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name    string   `json:"name"`
	Expr    string   `json:"expr"`
	Outcome string   `json:"outcome"` // "ok" or an engine error code
	Value   ir.Value `json:"-"`
	Result  string   `json:"result,omitempty"` // canonical JSON of Value
	Message string   `json:"message,omitempty"`
	Steps   int      `json:"steps"`
	Pass    bool     `json:"pass"`
	Errors  []string `json:"errors,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every case met its expectation.
	Pass bool `json:"pass"`

	// Cases are in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors collects failure messages across cases, prefixed with the
	// case name. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Warnings are load-time findings that did not stop the run, such as
	// unproductive recursion or undefined aliases.
	Warnings []string `json:"warnings,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddCase records a case and folds its errors into the result.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	for _, err := range c.Errors {
		r.Errors = append(r.Errors, c.Name+": "+err)
	}
	if !c.Pass {
		r.Pass = false
	}
}

// fail marks the case failed with a message.
func (c *CaseResult) fail(format string, args ...any) {
	c.Pass = false
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}
