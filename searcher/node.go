package searcher

import "tak/game"

// noChild marks an edge whose successor node has not been created yet.
const noChild int32 = -1

// edge holds the per-action statistics of one node: the oracle prior, the
// visit count, the accumulated value from the owning node's perspective and
// the arena index of the successor. Edges are kept in ascending action-index
// order so selection ties resolve to the lowest index.
type edge struct {
	action   int
	move     game.Move
	prior    float64
	visits   int
	valueSum float64
	child    int32
}

// node is one search-tree position. Nodes never hold pointers to each other;
// parents reach children through edge.child arena indices, which keeps the
// tree acyclic to the garbage collector and lets the whole arena be dropped
// at once between root moves.
type node struct {
	classified bool
	terminal   bool
	value      float64 // terminal value, from this node's mover perspective
	expanded   bool
	visits     int // sum of edge visits
	edges      []edge
}

// tree is the node arena. Index 0 is the root.
type tree struct {
	nodes []node
}

func newTree() *tree {
	return &tree{nodes: make([]node, 1, 1024)}
}

// add appends a fresh unexpanded node and returns its index. Appending may
// move the backing array, so callers must not hold *node across a call.
func (t *tree) add() int32 {
	t.nodes = append(t.nodes, node{})
	return int32(len(t.nodes) - 1)
}
