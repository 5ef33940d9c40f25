package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh database under t.TempDir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func okRun(id, expr, result string) Run {
	return Run{
		ID:            id,
		Sources:       []string{"testdata/sum.yaml"},
		Expr:          expr,
		Outcome:       OutcomeOK,
		Result:        result,
		ResultDigest:  "digest-" + result,
		Applications:  10,
		Expansions:    2,
		Allocations:   4,
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}

func mustAppend(t *testing.T, s *Store, r Run) Run {
	t.Helper()
	stored, err := s.AppendRun(context.Background(), r)
	require.NoError(t, err)
	return stored
}
