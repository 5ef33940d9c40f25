package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalSources converts source paths to a JSON array for the sources
// column. No sources is stored as the empty string.
func marshalSources(sources []string) (string, error) {
	if len(sources) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sources); err != nil {
		return "", fmt.Errorf("marshal sources: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalSources parses the sources column. Rows written before the
// column held JSON carry a comma-separated list.
func unmarshalSources(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	if !strings.HasPrefix(data, "[") {
		return strings.Split(data, ","), nil
	}
	var sources []string
	if err := json.Unmarshal([]byte(data), &sources); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}
	return sources, nil
}
