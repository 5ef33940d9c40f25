// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FixedIDGenerator generates the same run ID every time.
//
// This keeps CLI output byte-identical across test runs so it can be
// compared against golden files.
type FixedIDGenerator struct {
	ID string
}

// NewFixedIDGenerator creates a generator that always returns id.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	return &FixedIDGenerator{ID: id}
}

// Generate returns the fixed ID.
func (g *FixedIDGenerator) Generate() string {
	return g.ID
}

// WriteFile writes content to name under a fresh t.TempDir and returns
// the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SumSource is a small definition file used across tests: $sum n adds
// 0..n by recursion, $main evaluates $sum 10.
const SumSource = `description: recursive sum
definitions:
  sum: [s, [c, if0, 0], [s, add, [b, $sum, dec]]]
  main: [$sum, 10]
  pair: [cons, 1, [cons, 2, nil]]
  crash: [div, 1, 0]
  spin: $spin
`
