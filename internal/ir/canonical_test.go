package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Values(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"int", Int(-12), `-12`},
		{"prim", Prim("f"), `"f"`},
		{"nil", Nil{}, `[]`},
		{"list", List(Int(1), List(Int(2)), Prim("t")), `[1,[2],"t"]`},
		{"improper", Pair{Head: Int(1), Tail: Int(2)}, `{"car":1,"cdr":2}`},
		{"var", Var(0), `{"var":0}`},
		{"apply", Apply{Fun: Prim("add"), Arg: Int(3)}, `{"ap":["add",3]}`},
		{"elided", Elided{}, `{"elided":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_YAMLShapes(t *testing.T) {
	// Expectations decoded from YAML arrive as int, string, []any, map[string]any.
	got, err := MarshalCanonical(map[string]any{
		"cdr": []any{1, "t"},
		"car": map[string]any{"var": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"car":{"var":2},"cdr":[1,"t"]}`, string(got))

	fromValue, err := MarshalValue(Pair{Head: Var(2), Tail: List(Int(1), Prim("t"))})
	require.NoError(t, err)
	// A proper-list tail makes the whole value a list, so the shapes differ.
	assert.Equal(t, `[{"var":2},1,"t"]`, string(fromValue))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	composed, err := MarshalCanonical("caf\u00e9")
	require.NoError(t, err)
	decomposed, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))

	// A literal backslash followed by the text u2028 stays escaped.
	got, err = MarshalCanonical(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(got))
}

func TestMarshalCanonical_KeyOrderUTF16(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D.., which sort before U+FF61.
	got, err := MarshalCanonical(map[string]any{"\uff61": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff61\":1}", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{1, nil})
	assert.ErrorContains(t, err, "array[1]")

	_, err = MarshalValue(nil)
	assert.Error(t, err)
}
