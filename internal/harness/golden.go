package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/glyph/internal/ir"
)

// Snapshot captures the observable outcome of a scenario execution.
// Step counts are left out so that golden files survive changes to the
// reduction strategy that do not change results.
type Snapshot struct {
	ScenarioName string
	Cases        []CaseResult
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		m := map[string]any{
			"name":    c.Name,
			"expr":    c.Expr,
			"outcome": c.Outcome,
		}
		if c.Value != nil {
			m["value"] = ir.Canonical(c.Value)
		}
		cases[i] = m
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"cases":         cases,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file. Case expectation
// failures are reported through t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// SnapshotJSON returns the canonical JSON snapshot of a result, the exact
// bytes stored in golden files.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Cases: result.Cases}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// SnapshotDigest returns the content digest of a result's snapshot.
func SnapshotDigest(scenarioName string, result *Result) (string, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Cases: result.Cases}
	return ir.SnapshotDigest(snapshot.toCanonicalMap())
}
