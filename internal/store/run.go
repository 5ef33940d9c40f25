package store

import "errors"

// Outcome values for Run.Outcome other than engine error codes.
const (
	OutcomeOK = "ok"
)

// ErrNotFound is returned when a run ID has no row.
var ErrNotFound = errors.New("run not found")

// Run is one row of the run log.
type Run struct {
	ID           string
	Seq          int64
	Sources      []string
	Entry        string // definition name, empty when Expr came from --expr
	Expr         string // term in flow notation
	MaxSteps     int64
	Depth        int
	Outcome      string // OutcomeOK or an engine error code
	Result       string // canonical JSON of the observed value
	ResultDigest string
	ErrorMessage string
	Applications int64
	Expansions   int64
	Allocations  int64

	EngineVersion string
	IRVersion     string
}

// Steps returns the reduction steps recorded for the run.
func (r Run) Steps() int64 {
	return r.Applications + r.Expansions
}

// OK reports whether the run produced a value.
func (r Run) OK() bool {
	return r.Outcome == OutcomeOK
}
