package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/glyph/internal/glyph"
)

// AliasPrefix marks a string term as a reference to a global definition.
const AliasPrefix = "$"

// ParseYAML decodes a YAML term document:
//
//	description: optional text
//	definitions:
//	  inc2: [b, inc, inc]
//	  six: &six [mul, 2, 3]
//	  twelve: [add, *six, *six]
//
// Anchors are document-wide, so definitions may share nodes with each
// other.
func ParseYAML(data []byte, source string) (*Document, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), File: source}
	}
	doc, err := DecodeDocument(&root)
	if err != nil {
		if le, ok := err.(*LoadError); ok && le.File == "" {
			le.File = source
		}
		return nil, err
	}
	doc.Source = source
	return doc, nil
}

// DecodeDocument decodes an already parsed YAML document node. Harness
// scenarios embed term documents and decode them through this.
func DecodeDocument(node *yaml.Node) (*Document, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return &Document{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(ErrCodeFormat, node, "document must be a mapping")
	}

	doc := &Document{}
	d := newTermDecoder()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "description":
			if err := val.Decode(&doc.Description); err != nil {
				return nil, nodeError(ErrCodeFormat, val, "description: %v", err)
			}
		case "definitions":
			defs, err := d.definitions(val)
			if err != nil {
				return nil, err
			}
			doc.Definitions = defs
		default:
			return nil, nodeError(ErrCodeFormat, key, "unknown field %q", key.Value)
		}
	}
	return doc, nil
}

// DecodeDefinitions decodes a "name: term" mapping node.
func DecodeDefinitions(node *yaml.Node) ([]Definition, error) {
	return newTermDecoder().definitions(node)
}

// DecodeTerm decodes a single YAML node into a term.
func DecodeTerm(node *yaml.Node) (*Term, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nodeError(ErrCodeBadTerm, node, "empty term")
		}
		node = node.Content[0]
	}
	return newTermDecoder().term(node)
}

// ParseTerm parses a single term written in YAML flow notation, such as
// "[$sum, 10]" or "[add, 1, 2]".
func ParseTerm(text string) (*Term, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, &LoadError{Code: ErrCodeBadTerm, Message: "empty term"}
	}
	return DecodeTerm(&root)
}

// termDecoder maps YAML nodes to terms. The memo makes every alias of an
// anchored node decode to the anchor's *Term.
type termDecoder struct {
	memo map[*yaml.Node]*Term
}

func newTermDecoder() *termDecoder {
	return &termDecoder{memo: make(map[*yaml.Node]*Term)}
}

func (d *termDecoder) definitions(node *yaml.Node) ([]Definition, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(ErrCodeFormat, node, "definitions must be a mapping of name to term")
	}
	defs := make([]Definition, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, nodeError(ErrCodeFormat, key, "definition name must be a non-empty string")
		}
		t, err := d.term(val)
		if err != nil {
			return nil, err
		}
		defs = append(defs, Definition{Name: key.Value, Term: t, Line: key.Line})
	}
	return defs, nil
}

func (d *termDecoder) term(node *yaml.Node) (*Term, error) {
	if node.Kind == yaml.AliasNode {
		if node.Alias == nil {
			return nil, nodeError(ErrCodeBadTerm, node, "unresolved alias *%s", node.Value)
		}
		node = node.Alias
	}
	if t, ok := d.memo[node]; ok {
		return t, nil
	}

	var (
		t   *Term
		err error
	)
	switch node.Kind {
	case yaml.ScalarNode:
		t, err = scalarTerm(node)
	case yaml.SequenceNode:
		t, err = d.sequenceTerm(node)
	case yaml.MappingNode:
		t, err = mappingTerm(node)
	default:
		err = nodeError(ErrCodeBadTerm, node, "unsupported YAML node")
	}
	if err != nil {
		return nil, err
	}
	if t.Line == 0 {
		t.Line = node.Line
	}
	d.memo[node] = t
	return t, nil
}

func (d *termDecoder) sequenceTerm(node *yaml.Node) (*Term, error) {
	// A one-element sequence is its element, so [[f, a]] and [f, a] agree.
	if len(node.Content) == 1 {
		return d.term(node.Content[0])
	}
	t := &Term{Kind: TermApply, Items: make([]*Term, 0, len(node.Content))}
	for _, child := range node.Content {
		item, err := d.term(child)
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, item)
	}
	return t, nil
}

func scalarTerm(node *yaml.Node) (*Term, error) {
	switch node.ShortTag() {
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return nil, nodeError(ErrCodeBadTerm, node, "integer %s: %v", node.Value, err)
		}
		return Num(v), nil
	case "!!str":
		return symbolTerm(node.Value, node.Line)
	case "!!float":
		return nil, nodeError(ErrCodeBadTerm, node, "floats are not terms: %s", node.Value)
	default:
		return nil, nodeError(ErrCodeBadTerm, node, "unsupported scalar %q (%s)", node.Value, node.ShortTag())
	}
}

// symbolTerm interprets a string: "$name" alias, "x<N>" variable, or a
// primitive name.
func symbolTerm(s string, line int) (*Term, error) {
	if name, ok := strings.CutPrefix(s, AliasPrefix); ok {
		if name == "" {
			return nil, &LoadError{Code: ErrCodeBadTerm, Message: "alias without a name", Line: line}
		}
		return &Term{Kind: TermAlias, Name: name, Line: line}, nil
	}
	if id, ok := variableID(s); ok {
		return &Term{Kind: TermVariable, Value: id, Line: line}, nil
	}
	if _, ok := glyph.LookupPrimitive(s); ok {
		return &Term{Kind: TermPrimitive, Name: s, Line: line}, nil
	}
	return nil, &LoadError{
		Code:    ErrCodeBadTerm,
		Message: fmt.Sprintf("unknown primitive %q (aliases are written %sname)", s, AliasPrefix),
		Line:    line,
	}
}

func variableID(s string) (int64, bool) {
	digits, ok := strings.CutPrefix(s, "x")
	if !ok || digits == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func mappingTerm(node *yaml.Node) (*Term, error) {
	if len(node.Content) != 2 {
		return nil, nodeError(ErrCodeBadTerm, node, "term mapping must have exactly one of var or bits")
	}
	key, val := node.Content[0], node.Content[1]
	switch key.Value {
	case "var":
		var id int64
		if err := val.Decode(&id); err != nil || id < 0 {
			return nil, nodeError(ErrCodeBadTerm, val, "var must be a non-negative integer")
		}
		return Var(id), nil
	case "bits":
		var bits string
		if err := val.Decode(&bits); err != nil {
			return nil, nodeError(ErrCodeBadTerm, val, "bits must be a string")
		}
		if strings.Trim(bits, "01") != "" {
			return nil, nodeError(ErrCodeBadTerm, val, "bits must contain only 0 and 1")
		}
		return Bits(bits), nil
	default:
		return nil, nodeError(ErrCodeBadTerm, key, "unknown term field %q", key.Value)
	}
}

func nodeError(code string, node *yaml.Node, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    node.Line,
		Column:  node.Column,
	}
}
