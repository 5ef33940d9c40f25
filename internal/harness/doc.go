// Package harness runs evaluation scenarios: YAML files that pair a set of
// definitions with expressions and their expected observations.
//
// # Scenario Format
//
//	name: sum
//	description: "Recursive sum over the integers"
//	sources:
//	  - ../defs/prelude.yaml     # relative to the scenario file
//	definitions:
//	  sum: [s, [c, if0, 0], [s, add, [b, $sum, dec]]]
//	cases:
//	  - name: sum-ten
//	    expr: "[$sum, 10]"
//	    expect: 55
//	  - name: entry
//	    entry: sum
//	    depth: 2
//	  - name: crash
//	    expr: "[div, 1, 0]"
//	    expect_error: DIVISION_BY_ZERO
//	  - name: bounded
//	    expr: "$spin"
//	    max_steps: 1000
//	    expect_error: QUOTA_EXCEEDED
//
// Expectations are written in the canonical observation shape: integers,
// primitive names, lists as sequences ([] is the empty list), and the maps
// {var: N}, {bits: "..."}, {car: h, cdr: t}, {ap: [f, x]}, {elided: true}.
//
// # Determinism
//
// Every case evaluates on a freshly built graph, so cases are independent
// of order and of each other. Golden snapshots (RunWithGolden) record case
// names, expressions, outcomes, and observed values as canonical JSON.
package harness
