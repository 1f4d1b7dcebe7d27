package board

import (
	"iter"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// Board is a fully computed diagram: laid out, resolved and connected.
// A Board is immutable once returned and may be shared between goroutines.
type Board struct {
	Nodes []*Node
	Size  geom.Size
	Links []Link
	Ports registry.Ports
}

// Compute runs the whole engine over a chain snapshot.
func Compute(items []chain.Node, lookup registry.LookupFunc, ports registry.Ports) *Board {
	nodes := Build(items, lookup, ports)
	laid, size := Layout(nodes)
	resolved := Propagate(laid, ports)
	return &Board{
		Nodes: resolved,
		Size:  size,
		Links: Connectors(resolved),
		Ports: ports,
	}
}

// Walk returns a pre-order sequence over the board's nodes.
func (b *Board) Walk() iter.Seq[*Node] { return Walk(b.Nodes) }

// HitTest resolves a pointer position to a drop target.
func (b *Board) HitTest(p geom.Point) (Target, bool) { return HitTest(b.Nodes, p) }

// Find returns the node with the given instance id.
func (b *Board) Find(id string) (*Node, bool) { return Find(b.Nodes, id) }

// Empty reports whether the board was computed from an empty chain.
func (b *Board) Empty() bool { return len(b.Nodes) == 0 }

// Stats summarizes a board.
type Stats struct {
	Nodes   int
	Splits  int
	Missing int
	Depth   int
	Links   int
}

// Stats counts nodes, splits and missing plugins. Depth is the deepest split
// nesting level (0 for a chain without splits).
func (b *Board) Stats() Stats {
	s := Stats{Links: len(b.Links)}
	for depth, n := range WalkDepth(b.Nodes) {
		s.Nodes++
		if n.Missing {
			s.Missing++
		}
		if n.Kind == chain.KindSplit {
			s.Splits++
			s.Depth = max(s.Depth, depth+1)
		}
	}
	return s
}

// MissingPlugins returns the plugin references that did not resolve, in
// traversal order and without duplicates.
func (b *Board) MissingPlugins() []string {
	var out []string
	seen := make(map[string]bool)
	for n := range b.Walk() {
		if n.Missing && !seen[n.Plugin()] {
			seen[n.Plugin()] = true
			out = append(out, n.Plugin())
		}
	}
	return out
}
