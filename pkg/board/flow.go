package board

import (
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// CalculateConnection reconciles two channel counts into the count a
// connection between them can carry: the smaller of the two, capped at
// stereo and never negative.
func CalculateConnection(a, b int) int {
	return max(0, min(a, b, 2))
}

// Propagate resolves the channel counts of a tree: a forward sweep seeded
// with the host input ports, then a backward sweep seeded with the host
// output ports.
func Propagate(nodes []*Node, ports registry.Ports) []*Node {
	fwd, _ := Forward(nodes, ports.Inputs)
	bwd, _ := Backward(fwd, ports.Outputs)
	return bwd
}

// Forward resolves what each node can receive and produce given incoming
// channels at the head of the sequence. It returns a new tree and the count
// leaving the last node. An empty sequence passes incoming through.
func Forward(nodes []*Node, incoming int) ([]*Node, int) {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		m := n.clone()
		switch n.Kind {
		case chain.KindStart, chain.KindEnd, chain.KindLeaf:
			m.Inputs = CalculateConnection(incoming, n.Capability.Inputs)
			m.Outputs = CalculateConnection(n.Capability.Outputs, 2)
		case chain.KindEmpty:
			m.Inputs = CalculateConnection(incoming, 2)
			m.Outputs = m.Inputs
		case chain.KindSplit:
			m.Inputs = CalculateConnection(incoming, 2)
			branchIn := m.BranchInputs()

			var topOut, bottomOut int
			m.Top, topOut = Forward(n.Top, branchIn)
			m.Bottom, bottomOut = Forward(n.Bottom, branchIn)

			switch {
			case m.Mode() == chain.ModeAB && m.Selected(chain.BranchBottom):
				m.Outputs = bottomOut
			case m.Mode() == chain.ModeAB:
				m.Outputs = topOut
			case topOut >= 1 || bottomOut >= 1:
				m.Outputs = 2
			default:
				m.Outputs = 1
			}
		}
		out[i] = m
		incoming = m.Outputs
	}
	return out, incoming
}

// Backward clamps each node's output to what its downstream neighbour
// accepts, walking the sequence in reverse from a node that accepts
// downstream channels. It returns a new tree and the input constraint for
// whatever precedes the sequence. Counts are only ever lowered.
func Backward(nodes []*Node, downstream int) ([]*Node, int) {
	out := make([]*Node, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		m := n.clone()
		m.Outputs = CalculateConnection(n.Outputs, downstream)

		switch n.Kind {
		case chain.KindSplit:
			var topIn, bottomIn int
			m.Top, topIn = Backward(n.Top, downstream)
			m.Bottom, bottomIn = Backward(n.Bottom, downstream)
			if m.Mode() != chain.ModeLR {
				m.Inputs = CalculateConnection(n.Inputs, max(topIn, bottomIn))
			}
		case chain.KindEmpty:
			// A silent slot still accepts whatever reaches it, so only a
			// non-zero constraint narrows its input.
			if downstream > 0 {
				m.Inputs = CalculateConnection(n.Inputs, downstream)
			}
		case chain.KindLeaf, chain.KindStart, chain.KindEnd:
		}
		out[i] = m
		downstream = m.Inputs
	}
	return out, downstream
}
