package loader

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Validation error codes (E200-E299)
const (
	ErrUndefinedAlias      = "E201" // alias names no definition
	ErrDuplicateDefinition = "E202" // name defined twice
	ErrEmptyDefinition     = "E203" // term is missing or an empty application
)

// ValidationError represents a document validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a document and returns all errors found (does not
// fail-fast). extern names globals defined elsewhere, such as by another
// document loaded alongside this one.
func Validate(doc *Document, extern ...string) []ValidationError {
	var errs []ValidationError

	defined := make(map[string]int)
	for _, name := range extern {
		defined[norm.NFC.String(name)] = 0
	}
	for _, def := range doc.Definitions {
		key := norm.NFC.String(def.Name)
		if first, dup := defined[key]; dup {
			msg := "already defined"
			if first > 0 {
				msg = fmt.Sprintf("already defined (first at line %d)", first)
			}
			errs = append(errs, ValidationError{
				Field:   "definitions." + def.Name,
				Message: msg,
				Code:    ErrDuplicateDefinition,
				Line:    def.Line,
			})
			continue
		}
		defined[key] = def.Line
	}

	for _, def := range doc.Definitions {
		field := "definitions." + def.Name
		if def.Term == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "definition has no term",
				Code:    ErrEmptyDefinition,
				Line:    def.Line,
			})
			continue
		}
		errs = append(errs, validateTerm(def.Term, field, defined)...)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	return errs
}

// ValidateTerm checks a standalone expression against a set of defined
// names.
func ValidateTerm(t *Term, defined []string) []ValidationError {
	names := make(map[string]int, len(defined))
	for _, name := range defined {
		names[norm.NFC.String(name)] = 0
	}
	if t == nil {
		return []ValidationError{{Field: "expr", Message: "empty expression", Code: ErrEmptyDefinition}}
	}
	return validateTerm(t, "expr", names)
}

func validateTerm(root *Term, field string, defined map[string]int) []ValidationError {
	var errs []ValidationError
	walk(root, make(map[*Term]bool), func(t *Term) {
		switch t.Kind {
		case TermAlias:
			if _, ok := defined[norm.NFC.String(t.Name)]; !ok {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("undefined alias %s%s", AliasPrefix, t.Name),
					Code:    ErrUndefinedAlias,
					Line:    t.Line,
				})
			}
		case TermApply:
			if len(t.Items) == 0 {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: "empty application",
					Code:    ErrEmptyDefinition,
					Line:    t.Line,
				})
			}
		}
	})
	return errs
}
