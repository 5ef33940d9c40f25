package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/glyph/internal/loader"
)

// Scenario defines a set of evaluation cases over shared definitions.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sources lists term documents (.yaml, .yml, .cue) to load.
	// Relative paths are resolved against the scenario file's directory.
	Sources []string `yaml:"sources,omitempty"`

	// Definitions are inline definitions, appended after Sources.
	// Kept as a node so YAML anchors inside it produce shared terms.
	Definitions yaml.Node `yaml:"definitions,omitempty"`

	// Cases are evaluated in order.
	Cases []Case `yaml:"cases"`

	// path is the file the scenario was loaded from, if any.
	path string
}

// Case is one evaluation with its expectation.
type Case struct {
	// Name identifies the case in results. Defaults to "case[i]".
	Name string `yaml:"name,omitempty"`

	// Entry names a definition to evaluate. Mutually exclusive with Expr.
	Entry string `yaml:"entry,omitempty"`

	// Expr is a term in YAML flow notation.
	Expr string `yaml:"expr,omitempty"`

	// Expect is the expected observation in canonical shape.
	// A nil node means the value is not checked.
	Expect *yaml.Node `yaml:"expect,omitempty"`

	// ExpectError is the expected engine error code.
	ExpectError string `yaml:"expect_error,omitempty"`

	// MaxSteps bounds the reduction (0 = unbounded).
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Depth bounds the read-back (0 = engine default).
	Depth int `yaml:"depth,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Relative source paths are resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.path = path

	base := filepath.Dir(path)
	for i, src := range scenario.Sources {
		if !filepath.IsAbs(src) {
			scenario.Sources[i] = filepath.Join(base, src)
		}
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML without resolving paths or checking
// that sources exist.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// Path returns the file the scenario was loaded from, or "".
func (s *Scenario) Path() string {
	return s.path
}

// Document assembles the scenario's definitions: sources first, then
// inline definitions.
func (s *Scenario) Document() (*loader.Document, error) {
	doc := &loader.Document{Source: s.path, Description: s.Description}
	if len(s.Sources) > 0 {
		loaded, err := loader.LoadFiles(s.Sources...)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, loaded.Definitions...)
	}
	if s.Definitions.Kind != 0 {
		defs, err := loader.DecodeDefinitions(&s.Definitions)
		if err != nil {
			return nil, fmt.Errorf("definitions: %w", err)
		}
		doc.Definitions = append(doc.Definitions, defs...)
	}
	return doc, nil
}

// caseName returns the case's name or its positional default.
func (s *Scenario) caseName(i int) string {
	if s.Cases[i].Name != "" {
		return s.Cases[i].Name
	}
	return fmt.Sprintf("case[%d]", i)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, src := range s.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("source file not found: %s", src)
		}
	}

	seen := make(map[string]bool)
	for i, c := range s.Cases {
		name := s.caseName(i)
		if seen[name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, name)
		}
		seen[name] = true

		if (c.Entry == "") == (c.Expr == "") {
			return fmt.Errorf("cases[%d]: exactly one of entry or expr is required", i)
		}
		if c.Expect != nil && c.ExpectError != "" {
			return fmt.Errorf("cases[%d]: expect and expect_error are mutually exclusive", i)
		}
		if c.MaxSteps < 0 {
			return fmt.Errorf("cases[%d]: max_steps must be non-negative", i)
		}
		if c.Depth < 0 {
			return fmt.Errorf("cases[%d]: depth must be non-negative", i)
		}
	}

	return nil
}
