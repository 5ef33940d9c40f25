package loader

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Load error codes (E001-E099).
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeReadFailed  = "E002" // file could not be read
	ErrCodeParseFailed = "E003" // YAML or CUE syntax error
	ErrCodeBadTerm     = "E004" // value is not a valid term
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeFormat      = "E006" // unsupported file extension or document shape
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func posError(code string, pos token.Pos, format string, args ...any) *LoadError {
	e := &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
	if pos.IsValid() {
		e.File = pos.Filename()
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	// Return first error with position info
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return posError(code, positions[0], "%s", first.Error())
	}
	return &LoadError{Code: code, Message: first.Error()}
}
