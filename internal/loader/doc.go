// Package loader turns term documents into definition tables.
//
// A term document is structured data, not source text. Terms are written
// in YAML or CUE:
//
//	42            number
//	x3            variable 3
//	add           primitive
//	$sum          alias to the global "sum"
//	{var: 3}      variable 3
//	{bits: "010"} linear-encoded form
//	[f, a, b]     application ((f a) b)
//
// In YAML, anchors and aliases (&x / *x) denote one shared node, so a
// document can express pointer-identical sub-expressions directly.
//
// The loader also validates documents and reports definitions whose
// expansion can never reach a primitive.
package loader
