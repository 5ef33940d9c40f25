// Package engine implements the graph reducer.
//
// The engine reduces an expression graph to weak head normal form by
// rewriting nodes in place. Nodes are shared by pointer: forcing one
// occurrence of a sub-expression is visible at every other occurrence, and
// several primitives compare argument pointers to avoid forcing work that
// might never terminate.
//
// ARCHITECTURE:
//
// Spine walk:
// Reduction descends the function position of nested applications and
// keeps the ancestors on an explicit stack (the spine). A primitive at the
// bottom of the spine is applied once the spine holds enough arguments.
// The rewrite lands on an ancestor, and control jumps straight to that
// ancestor instead of unwinding one frame at a time.
//
// Alias expansion:
// An alias node is rewritten to "ap i <definition>" the first time the
// walker meets it, so global references need no separate code path.
//
// Lazy is-empty probe:
// "isnil" classifies its argument with a shallow reducer that never forces
// the head or tail of a pair.
//
// Failure model:
// Every failure is a broken invariant, not a recoverable condition. Rules
// panic with *RuntimeError; Reduce and Observe recover it, return it, and
// halt the engine. A halted engine refuses further work.
//
// Engines are single-threaded. Two engines must never reduce overlapping
// graphs at the same time.
package engine
