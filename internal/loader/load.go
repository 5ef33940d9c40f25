package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a term document, choosing the decoder by extension
// (.yaml, .yml, or .cue).
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), File: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), File: path}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unsupported document type %q (want .yaml, .yml, or .cue)", filepath.Ext(path)),
			File:    path,
		}
	}
}

// LoadFiles loads several documents and concatenates their definitions in
// argument order. Source is set to the first path.
func LoadFiles(paths ...string) (*Document, error) {
	merged := &Document{}
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		if merged.Source == "" {
			merged.Source = doc.Source
			merged.Description = doc.Description
		}
		merged.Definitions = append(merged.Definitions, doc.Definitions...)
	}
	return merged, nil
}
