package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"-7", "-7"},
		{"x3", "x3"},
		{"inc", "inc"},
		{"$sum", "$sum"},
		{"[add, 1, 2]", "[add, 1, 2]"},
		{"[$sum, 10]", "[$sum, 10]"},
		{"[[add, 1]]", "[add, 1]"},
		{"[s, [c, if0, 0], x1]", "[s, [c, if0, 0], x1]"},
		{"{var: 4}", "x4"},
		{`{bits: "010"}`, `{bits: "010"}`},
		{"[dem, {bits: '01100001'}]", `[dem, {bits: "01100001"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			term, err := ParseTerm(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, term.String())
		})
	}
}

func TestParseTerm_Kinds(t *testing.T) {
	term, err := ParseTerm("[add, 1, x2, $g, {bits: '1'}]")
	require.NoError(t, err)
	require.Equal(t, TermApply, term.Kind)
	require.Len(t, term.Items, 5)
	assert.Equal(t, TermPrimitive, term.Items[0].Kind)
	assert.Equal(t, TermNumber, term.Items[1].Kind)
	assert.Equal(t, TermVariable, term.Items[2].Kind)
	assert.Equal(t, int64(2), term.Items[2].Value)
	assert.Equal(t, TermAlias, term.Items[3].Kind)
	assert.Equal(t, "g", term.Items[3].Name)
	assert.Equal(t, TermEncoded, term.Items[4].Kind)
}

func TestParseTerm_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"unknown primitive", "frobnicate"},
		{"bare alias prefix", "$"},
		{"float", "1.5"},
		{"bool", "true"},
		{"null", "~"},
		{"bad bits", "{bits: '012'}"},
		{"unknown field", "{name: x}"},
		{"two fields", "{var: 1, bits: '0'}"},
		{"negative var", "{var: -1}"},
		{"syntax", "[add, 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTerm(tt.in)
			require.Error(t, err)
			var le *LoadError
			assert.ErrorAs(t, err, &le)
		})
	}
}

func TestParseYAML_Document(t *testing.T) {
	doc, err := ParseYAML([]byte(`
description: arithmetic helpers
definitions:
  inc2: [b, inc, inc]
  six: [mul, 2, 3]
  main: [$inc2, $six]
`), "helpers.yaml")
	require.NoError(t, err)

	assert.Equal(t, "helpers.yaml", doc.Source)
	assert.Equal(t, "arithmetic helpers", doc.Description)
	require.Len(t, doc.Definitions, 3)
	assert.Equal(t, "inc2", doc.Definitions[0].Name)
	assert.Equal(t, "main", doc.Definitions[2].Name)
	assert.Equal(t, 6, doc.Definitions[2].Line)

	def, ok := doc.Lookup("six")
	require.True(t, ok)
	assert.Equal(t, "[mul, 2, 3]", def.Term.String())
}

func TestParseYAML_AnchorsShareTerms(t *testing.T) {
	doc, err := ParseYAML([]byte(`
definitions:
  twelve: [add, &x [inc, 5], *x]
`), "")
	require.NoError(t, err)

	term := doc.Definitions[0].Term
	require.Len(t, term.Items, 3)
	assert.Same(t, term.Items[1], term.Items[2])
}

func TestTermString_KeepsSharing(t *testing.T) {
	term, err := ParseTerm("[div, &x [inc, 1], *x]")
	require.NoError(t, err)
	assert.Equal(t, "[div, &t1 [inc, 1], *t1]", term.String())

	again, err := ParseTerm(term.String())
	require.NoError(t, err)
	require.Len(t, again.Items, 3)
	assert.Same(t, again.Items[1], again.Items[2])
	assert.Equal(t, term.String(), again.String())
}

func TestTermString_SharedLeafAndNested(t *testing.T) {
	leaf := Num(0)
	inner := Ap(Prim("inc"), leaf)
	term := Ap(Prim("add"), inner, Ap(Prim("mul"), inner, leaf))
	assert.Equal(t, "[add, &t1 [inc, &t2 0], [mul, *t1, *t2]]", term.String())

	again, err := ParseTerm(term.String())
	require.NoError(t, err)
	assert.Same(t, again.Items[1], again.Items[2].Items[1])
	assert.Same(t, again.Items[1].Items[1], again.Items[2].Items[2])
}

func TestParseYAML_AnchorsAcrossDefinitions(t *testing.T) {
	doc, err := ParseYAML([]byte(`
definitions:
  a: &shared [inc, 1]
  b: [add, *shared, 1]
`), "")
	require.NoError(t, err)
	assert.Same(t, doc.Definitions[0].Term, doc.Definitions[1].Term.Items[1])
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code string
	}{
		{"not a mapping", "[1, 2]", ErrCodeFormat},
		{"unknown field", "defs: {}", ErrCodeFormat},
		{"definitions not a mapping", "definitions: [1]", ErrCodeFormat},
		{"bad term", "definitions: {a: nope}", ErrCodeBadTerm},
		{"syntax", "definitions: {a: [", ErrCodeParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.in), "bad.yaml")
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, "bad.yaml", le.File)
		})
	}
}

func TestParseYAML_EmptyDefinitions(t *testing.T) {
	doc, err := ParseYAML([]byte("definitions:\n"), "")
	require.NoError(t, err)
	assert.Empty(t, doc.Definitions)
}

func TestLoadError_Format(t *testing.T) {
	assert.Equal(t, "a.yaml:3:5: E004: bad", (&LoadError{Code: "E004", Message: "bad", File: "a.yaml", Line: 3, Column: 5}).Error())
	assert.Equal(t, "line 2: E004: bad", (&LoadError{Code: "E004", Message: "bad", Line: 2}).Error())
	assert.Equal(t, "E001: bad", (&LoadError{Code: "E001", Message: "bad"}).Error())
}
