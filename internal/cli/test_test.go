package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glyph/internal/testutil"
)

const passingScenario = `name: arithmetic
description: small sums
definitions:
  five: [add, 2, 3]
cases:
  - name: five
    entry: five
    expect: 5
  - name: crash
    expr: "[div, 1, 0]"
    expect_error: DIVISION_BY_ZERO
`

const failingScenario = `name: wrong
description: a wrong expectation
cases:
  - name: off by one
    expr: "[add, 2, 2]"
    expect: 5
`

func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"arithmetic.yaml": passingScenario})

	out, err := execute(t, NewTestCommand(textOpts()), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ arithmetic (2 cases)")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"arithmetic.yaml": passingScenario,
		"wrong.yaml":      failingScenario,
	})

	out, err := execute(t, NewTestCommand(textOpts()), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "off by one: expected 5, got 4")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"wrong.yaml": failingScenario})

	out, err := execute(t, NewTestCommand(jsonOpts()), dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, 1, resp.Data.Scenarios[0].Cases)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Digest)
}

func TestTestCommand_UpdateThenCompareGolden(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"arithmetic.yaml": passingScenario})

	out, err := execute(t, NewTestCommand(textOpts()), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")

	goldenPath := filepath.Join(dir, "golden", "arithmetic.golden")
	require.FileExists(t, goldenPath)

	_, err = execute(t, NewTestCommand(textOpts()), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"cases":[]}`), 0o644))
	out, err = execute(t, NewTestCommand(textOpts()), dir)
	require.Error(t, err)
	assert.Contains(t, out, "golden file mismatch")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"arithmetic.yaml": passingScenario,
		"wrong.yaml":      failingScenario,
	})

	out, err := execute(t, NewTestCommand(textOpts()), dir, "--filter", "arith*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"bad.yaml": "name: bad\ncases: []\n"})

	out, err := execute(t, NewTestCommand(textOpts()), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "load error")
}

func TestTestCommand_Empty(t *testing.T) {
	out, err := execute(t, NewTestCommand(textOpts()), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(textOpts()), filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	out, err := execute(t, NewTestCommand(textOpts()), dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"a.yaml":           passingScenario,
		"nested/b.yml":     passingScenario,
		"golden/a.golden":  "{}",
		"golden/skip.yaml": passingScenario,
		"notes.txt":        "ignore",
	})

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "lists.golden"),
		goldenFilePath(filepath.Join("scenarios", "lists.yaml")))
}

func TestTestCommand_ScenarioSources(t *testing.T) {
	defs := testutil.WriteFile(t, "defs.yaml", testutil.SumSource)
	dir := scenarioDir(t, map[string]string{"sum.yaml": `name: sum
description: uses shared definitions
sources: [` + defs + `]
cases:
  - name: main
    entry: main
    expect: 55
`})

	out, err := execute(t, NewTestCommand(textOpts()), dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ sum (1 cases)")
}
