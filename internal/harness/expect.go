package harness

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/glyph/internal/ir"
)

// expectedJSON renders an expectation node as canonical JSON, the same
// encoding results are recorded in.
func expectedJSON(node *yaml.Node) (string, error) {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return "", err
	}
	v, err := normalize(raw)
	if err != nil {
		return "", err
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// normalize converts decoded YAML to the types MarshalCanonical accepts.
// Returns an error for nulls and floats, which have no observation shape.
func normalize(val any) (any, error) {
	if val == nil {
		return nil, fmt.Errorf("null is not an observation (use [] for the empty list)")
	}

	switch v := val.(type) {
	case string, bool, int64:
		return v, nil
	case int:
		return int64(v), nil
	case uint64:
		return nil, fmt.Errorf("integer %d overflows int64", v)
	case float64:
		return nil, fmt.Errorf("floats are not observations: %v", v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			n, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			n, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", val)
	}
}
