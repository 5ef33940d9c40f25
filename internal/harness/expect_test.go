package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func expectNode(t *testing.T, text string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(text), &doc))
	return doc.Content[0]
}

func TestExpectedJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"-7", "-7"},
		{"t", `"t"`},
		{"[]", "[]"},
		{"[1, [2, 3]]", "[1,[2,3]]"},
		{"{cdr: 2, car: 1}", `{"car":1,"cdr":2}`},
		{`{bits: "010"}`, `{"bits":"010"}`},
		{"{ap: [add, 1]}", `{"ap":["add",1]}`},
		{"{elided: true}", `{"elided":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expectedJSON(expectNode(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedJSON_Rejects(t *testing.T) {
	for _, in := range []string{"1.5", "null", "[1, ~]", "{a: 0.5}"} {
		t.Run(in, func(t *testing.T) {
			_, err := expectedJSON(expectNode(t, in))
			assert.Error(t, err)
		})
	}
}
