package loader

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseCUE decodes a CUE term document:
//
//	description: "optional text"
//	definitions: {
//		inc2: ["b", "inc", "inc"]
//		sum:  ["s", ["c", "if0", 0], ["s", "add", ["b", "$sum", "dec"]]]
//	}
//
// CUE has no anchors, so every occurrence of a sub-term builds its own
// node. Use aliases to share work between definitions.
func ParseCUE(data []byte, source string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(source))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeParseFailed, err)
	}
	doc, err := CompileDocument(v)
	if err != nil {
		return nil, err
	}
	doc.Source = source
	return doc, nil
}

// CompileDocument converts a CUE value holding a term document.
func CompileDocument(v cue.Value) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeParseFailed, err)
	}

	doc := &Document{}
	if desc := v.LookupPath(cue.ParsePath("description")); desc.Exists() {
		s, err := desc.String()
		if err != nil {
			return nil, formatCUEError(ErrCodeFormat, err)
		}
		doc.Description = s
	}

	defsVal := v.LookupPath(cue.ParsePath("definitions"))
	if !defsVal.Exists() {
		return doc, nil
	}
	iter, err := defsVal.Fields()
	if err != nil {
		return nil, formatCUEError(ErrCodeFormat, err)
	}
	for iter.Next() {
		t, err := CompileTerm(iter.Value())
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, Definition{
			Name: iter.Selector().Unquoted(),
			Term: t,
			Line: iter.Value().Pos().Line(),
		})
	}
	return doc, nil
}

// CompileTerm converts one CUE value into a term.
func CompileTerm(v cue.Value) (*Term, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBadTerm, err)
	}
	line := v.Pos().Line()

	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, posError(ErrCodeBadTerm, v.Pos(), "integer out of range: %v", err)
		}
		t := Num(n)
		t.Line = line
		return t, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(ErrCodeBadTerm, err)
		}
		t, err := symbolTerm(s, line)
		if err != nil {
			return nil, posError(ErrCodeBadTerm, v.Pos(), "%s", err.(*LoadError).Message)
		}
		return t, nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(ErrCodeBadTerm, err)
		}
		var items []*Term
		for iter.Next() {
			item, err := CompileTerm(iter.Value())
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return &Term{Kind: TermApply, Items: items, Line: line}, nil

	case cue.StructKind:
		return compileStructTerm(v)

	case cue.FloatKind, cue.NumberKind:
		return nil, posError(ErrCodeBadTerm, v.Pos(), "floats are not terms")

	default:
		return nil, posError(ErrCodeBadTerm, v.Pos(), "unsupported value kind: %v", v.Kind())
	}
}

func compileStructTerm(v cue.Value) (*Term, error) {
	if id := v.LookupPath(cue.ParsePath("var")); id.Exists() {
		n, err := id.Int64()
		if err != nil || n < 0 {
			return nil, posError(ErrCodeBadTerm, id.Pos(), "var must be a non-negative integer")
		}
		t := Var(n)
		t.Line = v.Pos().Line()
		return t, nil
	}
	if bits := v.LookupPath(cue.ParsePath("bits")); bits.Exists() {
		s, err := bits.String()
		if err != nil {
			return nil, posError(ErrCodeBadTerm, bits.Pos(), "bits must be a string")
		}
		for _, r := range s {
			if r != '0' && r != '1' {
				return nil, posError(ErrCodeBadTerm, bits.Pos(), "bits must contain only 0 and 1")
			}
		}
		t := Bits(s)
		t.Line = v.Pos().Line()
		return t, nil
	}
	return nil, posError(ErrCodeBadTerm, v.Pos(), "term struct must have var or bits")
}
