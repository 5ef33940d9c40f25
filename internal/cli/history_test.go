package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glyph/internal/store"
)

// recordRuns evaluates each expression against src and records it in dbPath.
func recordRuns(t *testing.T, dbPath, src string, exprs ...string) {
	t.Helper()
	for _, expr := range exprs {
		args := []string{"--expr", expr, "--db", dbPath}
		if src != "" {
			args = append([]string{src}, args...)
		}
		// Failures are recorded too; only command errors matter here.
		_, err := execute(t, NewEvalCommand(textOpts()), args...)
		require.NotEqual(t, ExitCommandError, GetExitCode(err), "eval %s: %v", expr, err)
	}
}

func TestHistory_Text(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordRuns(t, dbPath, "", "[add, 2, 3]", "[div, 1, 0]")

	out, err := execute(t, NewHistoryCommand(textOpts()), "--db", dbPath)
	require.NoError(t, err)

	// Output is not a terminal, so no header.
	assert.NotContains(t, out, "SEQ")
	assert.Contains(t, out, "[add, 2, 3]")
	assert.Contains(t, out, "DIVISION_BY_ZERO")
	assert.Regexp(t, `(?m)^1\s+\S+\s+\[add, 2, 3\]\s+ok\s+5\s+\d+$`, out)
}

func TestHistory_JSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordRuns(t, dbPath, "", "[add, 2, 3]", "[mul, 2, 3]", "[s, add]")

	out, err := execute(t, NewHistoryCommand(jsonOpts()), "--db", dbPath, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Data[0].Seq)
	assert.Equal(t, "6", resp.Data[0].Result)
	assert.Equal(t, int64(3), resp.Data[1].Seq)
	assert.Equal(t, store.OutcomeOK, resp.Data[1].Outcome)
}

func TestHistory_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewHistoryCommand(textOpts()), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistory_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	out, err := execute(t, NewHistoryCommand(textOpts()), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
	assert.NoFileExists(t, dbPath)
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := execute(t, NewHistoryCommand(textOpts()))
	require.Error(t, err)
}

func TestHistory_VerboseReportsTruncation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordRuns(t, dbPath, "", "[add, 1, 1]", "[add, 2, 2]")

	cmd := NewHistoryCommand(&RootOptions{Format: "text", Verbose: true})
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--db", dbPath, "--limit", "1"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "[add, 2, 2]")
	assert.NotContains(t, out.String(), "[add, 1, 1]")
	assert.Contains(t, errOut.String(), "showing 1 of 2 runs")
}
