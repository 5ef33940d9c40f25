package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defsOf(pairs ...any) *Document {
	doc := &Document{}
	for i := 0; i+1 < len(pairs); i += 2 {
		doc.Definitions = append(doc.Definitions, Definition{
			Name: pairs[i].(string),
			Term: pairs[i+1].(*Term),
		})
	}
	return doc
}

func TestAnalyzeRecursion_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeRecursion(&Document{}))
}

func TestAnalyzeRecursion_ProductiveRecursionIsQuiet(t *testing.T) {
	doc, err := ParseYAML([]byte(`
definitions:
  sum: [s, [c, if0, 0], [s, add, [b, $sum, dec]]]
  ones: [cons, 1, $ones]
`), "")
	require.NoError(t, err)
	assert.Empty(t, AnalyzeRecursion(doc))
}

func TestAnalyzeRecursion_SelfLoop(t *testing.T) {
	warnings := AnalyzeRecursion(defsOf("loop", Ref("loop")))
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"loop", "loop"}, warnings[0].Path)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "loop")
}

func TestAnalyzeRecursion_HeadOfApplication(t *testing.T) {
	warnings := AnalyzeRecursion(defsOf("f", Ap(Ap(Ref("f"), Num(1)), Num(2))))
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"f", "f"}, warnings[0].Path)
}

func TestAnalyzeRecursion_ThreeNodeCycle(t *testing.T) {
	warnings := AnalyzeRecursion(defsOf(
		"c", Ap(Ref("a"), Num(3)),
		"a", Ap(Ref("b"), Num(1)),
		"b", Ref("c"),
		"ok", Ap(Ref("a"), Num(0)),
	))
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, warnings[0].Path)
	assert.Equal(t, "unproductive recursion: a → b → c → a", warnings[0].Message)
}

func TestAnalyzeRecursion_IndependentCycles(t *testing.T) {
	warnings := AnalyzeRecursion(defsOf(
		"y", Ref("x"),
		"x", Ref("y"),
		"z", Ref("z"),
	))
	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"x", "y", "x"}, warnings[0].Path)
	assert.Equal(t, []string{"z", "z"}, warnings[1].Path)
}

func TestAnalyzeRecursion_UndefinedTarget(t *testing.T) {
	assert.Empty(t, AnalyzeRecursion(defsOf("a", Ref("nowhere"))))
}

func TestHeadAlias(t *testing.T) {
	name, ok := headAlias(Ap(Ap(Ref("g"), Num(1)), Num(2)))
	assert.True(t, ok)
	assert.Equal(t, "g", name)

	_, ok = headAlias(Ap(Prim("s"), Ref("g")))
	assert.False(t, ok)
}
