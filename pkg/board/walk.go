package board

import (
	"iter"

	"github.com/matzehuels/pedalboard/pkg/chain"
)

// Walk returns a pre-order sequence over nodes: each node is followed by its
// top branch, then its bottom branch. The sequence holds no state between
// iterations and may be ranged over any number of times.
func Walk(nodes []*Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(nodes, 0, func(_ int, n *Node) bool { return yield(n) })
	}
}

// WalkDepth is like [Walk] but also yields the nesting depth of each node;
// top-level nodes have depth 0.
func WalkDepth(nodes []*Node) iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		walk(nodes, 0, yield)
	}
}

func walk(nodes []*Node, depth int, yield func(int, *Node) bool) bool {
	for _, n := range nodes {
		if !yield(depth, n) {
			return false
		}
		if n.Kind != chain.KindSplit {
			continue
		}
		if !walk(n.Top, depth+1, yield) || !walk(n.Bottom, depth+1, yield) {
			return false
		}
	}
	return true
}

// Find returns the node with the given instance id.
func Find(nodes []*Node, id string) (*Node, bool) {
	for n := range Walk(nodes) {
		if n.ID() == id {
			return n, true
		}
	}
	return nil, false
}
