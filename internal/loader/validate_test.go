package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	doc, err := ParseYAML([]byte(`
definitions:
  a: [$b, 1]
  b: inc
`), "")
	require.NoError(t, err)
	assert.Empty(t, Validate(doc))
}

func TestValidate_UndefinedAlias(t *testing.T) {
	doc, err := ParseYAML([]byte(`
definitions:
  a: [$missing, 1]
`), "")
	require.NoError(t, err)

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUndefinedAlias, errs[0].Code)
	assert.Equal(t, "definitions.a", errs[0].Field)
	assert.Equal(t, 3, errs[0].Line)

	assert.Empty(t, Validate(doc, "missing"), "extern names satisfy aliases")
}

func TestValidate_Duplicate(t *testing.T) {
	doc := &Document{Definitions: []Definition{
		{Name: "café", Term: Num(1), Line: 1},
		{Name: "café", Term: Num(2), Line: 2},
	}}
	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateDefinition, errs[0].Code)
	assert.Contains(t, errs[0].Message, "line 1")
}

func TestValidate_EmptyTerms(t *testing.T) {
	doc := &Document{Definitions: []Definition{
		{Name: "a", Line: 1},
		{Name: "b", Term: Ap(Prim("inc"), &Term{Kind: TermApply, Line: 2}), Line: 2},
	}}
	errs := Validate(doc)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrEmptyDefinition, errs[0].Code)
	assert.Equal(t, ErrEmptyDefinition, errs[1].Code)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	doc := &Document{Definitions: []Definition{
		{Name: "a", Term: Ap(Ref("x"), Ref("y")), Line: 1},
		{Name: "a", Term: Num(1), Line: 2},
	}}
	errs := Validate(doc)
	assert.Len(t, errs, 3)
}

func TestValidate_SharedTermReportedOnce(t *testing.T) {
	shared := Ref("missing")
	doc := &Document{Definitions: []Definition{
		{Name: "a", Term: Ap(Prim("add"), shared, shared)},
	}}
	assert.Len(t, Validate(doc), 1)
}

func TestValidateTerm(t *testing.T) {
	term, err := ParseTerm("[$sum, $other]")
	require.NoError(t, err)
	errs := ValidateTerm(term, []string{"sum"})
	require.Len(t, errs, 1)
	assert.Equal(t, "expr", errs[0].Field)
	assert.Contains(t, errs[0].Message, "$other")

	assert.Len(t, ValidateTerm(nil, nil), 1)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Field: "definitions.a", Message: "bad", Code: "E201"}
	assert.Equal(t, "[E201] definitions.a: bad", e.Error())
	e.Line = 4
	assert.Equal(t, "[E201] line 4: definitions.a: bad", e.Error())
}
