package glyph

// Arena allocates nodes and counts how many it handed out.
//
// The counter is the only bookkeeping: reclamation is left to the garbage
// collector, which frees a node once no live root reaches it. An Arena is
// not safe for concurrent use, matching the single-threaded reducer.
type Arena struct {
	allocated int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Allocated returns the number of nodes created through this arena.
func (a *Arena) Allocated() int {
	return a.allocated
}

func (a *Arena) track(n *Node) *Node {
	a.allocated++
	return n
}

// Num allocates a number node.
func (a *Arena) Num(v int64) *Node { return a.track(Num(v)) }

// Var allocates a variable node.
func (a *Arena) Var(id int64) *Node { return a.track(Var(id)) }

// Prim allocates a primitive node.
func (a *Arena) Prim(p Primitive) *Node { return a.track(Prim(p)) }

// Encoded allocates an encoded-form node.
func (a *Arena) Encoded(bits string) *Node { return a.track(Encoded(bits)) }

// Alias allocates an alias node.
func (a *Arena) Alias(id int64) *Node { return a.track(Alias(id)) }

// Ap allocates an application node.
func (a *Arena) Ap(fun, arg *Node) *Node { return a.track(Ap(fun, arg)) }
