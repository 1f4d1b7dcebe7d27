package board

import (
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// Build mirrors items into a tree of board nodes, resolving every leaf's
// plugin through lookup. Unresolved plugins get a stereo capability and are
// marked [Node.Missing]. Unless items is empty, the result is framed by a
// start node carrying the host input ports and an end node carrying the host
// output ports.
//
// The returned nodes keep pointers into items; callers must not modify items
// while the tree is in use.
func Build(items []chain.Node, lookup registry.LookupFunc, ports registry.Ports) []*Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(items)+2)
	nodes = append(nodes, &Node{
		Kind:       chain.KindStart,
		Capability: registry.Channels{Inputs: ports.Inputs, Outputs: ports.Inputs},
	})
	nodes = append(nodes, build(items, lookup)...)
	nodes = append(nodes, &Node{
		Kind:       chain.KindEnd,
		Capability: registry.Channels{Inputs: ports.Outputs, Outputs: ports.Outputs},
	})
	return nodes
}

func build(items []chain.Node, lookup registry.LookupFunc) []*Node {
	if len(items) == 0 {
		return nil
	}
	out := make([]*Node, len(items))
	for i := range items {
		src := &items[i]
		n := &Node{Kind: src.Kind, Source: src, Capability: registry.Stereo}
		switch src.Kind {
		case chain.KindLeaf:
			var ok bool
			if lookup != nil {
				n.Capability, ok = lookup(src.Plugin)
			}
			if !ok {
				n.Capability = registry.Stereo
				n.Missing = true
			}
		case chain.KindSplit:
			n.Top = build(src.Top, lookup)
			n.Bottom = build(src.Bottom, lookup)
		case chain.KindEmpty, chain.KindStart, chain.KindEnd:
		}
		out[i] = n
	}
	return out
}
