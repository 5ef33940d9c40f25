package loader

import (
	"fmt"
	"sort"
	"strings"
)

// RecursionWarning reports definitions whose expansion can never reach a
// primitive: each one's head is an alias to the next, around a cycle.
// Reducing any of them loops forever.
//
// Ordinary recursion (an alias in argument position, or behind a
// combinator) is not reported.
type RecursionWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeRecursion builds the head-alias graph of doc and reports every
// strongly connected component that is a cycle. A document without such
// cycles returns an empty list.
func AnalyzeRecursion(doc *Document) []RecursionWarning {
	if len(doc.Definitions) == 0 {
		return []RecursionWarning{}
	}

	graph := buildHeadGraph(doc)
	sccs := tarjanSCC(graph)

	warnings := []RecursionWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, sccToWarning(scc, graph))
		}
	}
	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Path[0] < warnings[j].Path[0]
	})
	return warnings
}

// headGraph maps a definition name to the names its head expands into.
type headGraph map[string][]string

// buildHeadGraph adds an edge name → target when the leftmost item of
// name's term is the alias $target.
func buildHeadGraph(doc *Document) headGraph {
	graph := make(headGraph)
	for _, def := range doc.Definitions {
		if graph[def.Name] == nil {
			graph[def.Name] = []string{}
		}
		if target, ok := headAlias(def.Term); ok {
			graph[def.Name] = append(graph[def.Name], target)
		}
	}
	return graph
}

// headAlias follows the leftmost item of nested applications.
func headAlias(t *Term) (string, bool) {
	seen := make(map[*Term]bool)
	for t != nil && !seen[t] {
		seen[t] = true
		switch t.Kind {
		case TermAlias:
			return t.Name, true
		case TermApply:
			if len(t.Items) == 0 {
				return "", false
			}
			t = t.Items[0]
		default:
			return "", false
		}
	}
	return "", false
}

func hasSelfLoop(node string, graph headGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so the result is deterministic.
func tarjanSCC(graph headGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

func sccToWarning(scc []string, graph headGraph) RecursionWarning {
	if len(scc) == 1 {
		name := scc[0]
		return RecursionWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("definition %s expands to itself and never reaches a primitive", name),
			Level:   "warning",
		}
	}

	path := cyclePath(scc, graph)
	return RecursionWarning{
		Path:    path,
		Message: fmt.Sprintf("unproductive recursion: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// cyclePath walks head edges from the smallest name in scc until it
// returns to the start. Every node of a head graph has at most one edge,
// so the walk is the cycle.
func cyclePath(scc []string, graph headGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}
	sorted := append([]string(nil), scc...)
	sort.Strings(sorted)

	start := sorted[0]
	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}
	return path
}
