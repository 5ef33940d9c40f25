package program

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glyph/internal/engine"
	"github.com/roach88/glyph/internal/ir"
	"github.com/roach88/glyph/internal/loader"
	"github.com/roach88/glyph/internal/testutil"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func loadSum(t *testing.T) *Program {
	t.Helper()
	p, err := Load(testutil.WriteFile(t, "sum.yaml", testutil.SumSource))
	require.NoError(t, err)
	return p
}

func TestEval_Entry(t *testing.T) {
	p := loadSum(t)

	out, err := p.Eval(Request{Entry: "main", Logger: quiet})
	require.NoError(t, err)
	require.True(t, out.OK(), "unexpected failure: %v", out.Err)
	assert.Equal(t, ir.Int(55), out.Value)
	assert.Equal(t, "55", out.Result)
	assert.Equal(t, ir.MustDigest(ir.Int(55)), out.Digest)
	assert.Equal(t, "ok", out.Code())
	assert.Equal(t, "$main", out.Expr)
	assert.Positive(t, out.Stats.Applications)
	assert.Positive(t, out.Stats.Expansions)
}

func TestEval_Expr(t *testing.T) {
	p := loadSum(t)

	out, err := p.Eval(Request{Expr: "[$sum, 4]", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, ir.Int(10), out.Value)

	out, err = p.Eval(Request{Expr: "$pair", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, ir.List(ir.Int(1), ir.Int(2)), out.Value)
	assert.Equal(t, "[1,2]", out.Result)
}

func TestEval_ExprKeepsSharing(t *testing.T) {
	p := loadSum(t)

	first, err := p.Eval(Request{Expr: "[div, &x [inc, 1], *x]", Logger: quiet})
	require.NoError(t, err)
	require.True(t, first.OK(), "unexpected failure: %v", first.Err)
	assert.Equal(t, "0", first.Result)
	assert.Equal(t, "[div, &t1 [inc, 1], *t1]", first.Expr)

	again, err := p.Eval(Request{Expr: first.Expr, Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, first.Result, again.Result)
	assert.Equal(t, first.Digest, again.Digest)
}

func TestEval_EachRunStartsFresh(t *testing.T) {
	p := loadSum(t)

	first, err := p.Eval(Request{Entry: "main", Logger: quiet})
	require.NoError(t, err)
	second, err := p.Eval(Request{Entry: "main", Logger: quiet})
	require.NoError(t, err)

	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestEval_FailureIsOutcome(t *testing.T) {
	p := loadSum(t)

	out, err := p.Eval(Request{Entry: "crash", Logger: quiet})
	require.NoError(t, err)
	assert.False(t, out.OK())
	assert.Equal(t, string(engine.ErrCodeDivisionByZero), out.Code())
	assert.Nil(t, out.Value)
	assert.Empty(t, out.Result)
}

func TestEval_Quota(t *testing.T) {
	p := loadSum(t)

	out, err := p.Eval(Request{Entry: "spin", MaxSteps: 100, Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, string(engine.ErrCodeQuotaExceeded), out.Code())
}

func TestEval_UndefinedAliasFailsAtReduction(t *testing.T) {
	p := New(&loader.Document{Definitions: []loader.Definition{
		{Name: "main", Term: loader.Ap(loader.Prim("inc"), loader.Ref("missing"))},
	}})
	require.Len(t, p.Problems, 1)
	assert.NoError(t, p.Fatal())

	out, err := p.Eval(Request{Entry: "main", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, string(engine.ErrCodeUndefinedAlias), out.Code())
}

func TestEval_ReportsUndefinedNamesInExpr(t *testing.T) {
	p := loadSum(t)

	out, err := p.Eval(Request{Expr: "[$sum, 3]", Logger: quiet})
	require.NoError(t, err)
	assert.Empty(t, out.Problems)

	out, err = p.Eval(Request{Expr: "[t, 1, $nope]", Logger: quiet})
	require.NoError(t, err)
	require.Len(t, out.Problems, 1)
	assert.Equal(t, loader.ErrUndefinedAlias, out.Problems[0].Code)
	// The missing name is never reached.
	assert.Equal(t, ir.Int(1), out.Value)
}

func TestEval_RequestErrors(t *testing.T) {
	p := loadSum(t)

	_, err := p.Eval(Request{})
	assert.ErrorContains(t, err, "exactly one")

	_, err = p.Eval(Request{Entry: "main", Expr: "1"})
	assert.ErrorContains(t, err, "exactly one")

	_, err = p.Eval(Request{Entry: "nope"})
	assert.ErrorContains(t, err, `entry "nope" is not defined`)

	_, err = p.Eval(Request{Expr: "[unknownprim"})
	assert.ErrorContains(t, err, "parse expression")
}

func TestFatal_Duplicate(t *testing.T) {
	p := New(&loader.Document{Definitions: []loader.Definition{
		{Name: "a", Term: loader.Num(1), Line: 1},
		{Name: "a", Term: loader.Num(2), Line: 2},
	}})
	assert.Error(t, p.Fatal())
}

func TestLoad_NoPaths(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	out, err := p.Eval(Request{Expr: "[add, 2, 3]", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, ir.Int(5), out.Value)
	assert.Empty(t, p.Sources)
}
