package engine

import "fmt"

// QuotaEnforcer counts reduction steps (alias expansions plus primitive
// applications) and enforces an optional limit.
//
// A limit of zero or less means unbounded: reduction of a non-terminating
// program then runs forever, which is the default.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check increments the step counter and reports when it passes the limit.
func (q *QuotaEnforcer) Check() *StepsExceededError {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{
			Steps: q.current,
			Limit: q.maxSteps,
		}
	}
	return nil
}

// StepsExceededError is returned by QuotaEnforcer.Check when the limit is
// passed.
type StepsExceededError struct {
	Steps int // Number of steps taken
	Limit int // Maximum allowed steps
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("exceeded max steps quota: %d steps > %d limit", e.Steps, e.Limit)
}

// NewQuotaError converts a StepsExceededError into the engine's fatal error.
func NewQuotaError(se *StepsExceededError) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("reduction exceeded max steps (%d > %d)", se.Steps, se.Limit),
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", se.Steps),
			"max_steps": fmt.Sprintf("%d", se.Limit),
		},
	}
}
