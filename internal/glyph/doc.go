// Package glyph defines the graph node model shared by every other package.
//
// A program is a directed graph of *Node values. Pointer identity is the
// load-bearing property of the model: two positions that hold the same
// *Node observe every in-place rewrite made through either of them. The
// reducer relies on this for memoization (a forced value is never
// recomputed) and for identity short-circuits such as "x / x = 0" that must
// not evaluate x.
//
// This package contains type definitions and constructors only. It imports
// nothing internal, so every other package can depend on it.
//
// Key invariants:
//   - An application node always has both Fun and Arg set.
//   - An alias node becomes an application exactly once and never reverts.
//   - Nodes are never freed explicitly; the garbage collector reclaims
//     whatever is no longer reachable from a live root.
package glyph
