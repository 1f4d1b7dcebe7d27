package board

import (
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// testPlugins maps plugin names used in tests to their capability.
var testPlugins = map[string]registry.Channels{
	"mono":    {Inputs: 1, Outputs: 1},
	"stereo":  {Inputs: 2, Outputs: 2},
	"tuner":   {Inputs: 1, Outputs: 0},
	"widener": {Inputs: 1, Outputs: 2},
	"tonegen": {Inputs: 0, Outputs: 1},
}

func lookup(uri string) (registry.Channels, bool) {
	c, ok := testPlugins[uri]
	return c, ok
}

var stereoPorts = registry.Ports{Inputs: 2, Outputs: 2}

// splitChain is laid out in several tests:
//
//	start, a, split(lr: top [t], bottom [b1, b2]), z, end
func splitChain() []chain.Node {
	return []chain.Node{
		chain.Leaf("a", "mono"),
		chain.Split("s", chain.ModeLR,
			[]chain.Node{chain.Leaf("t", "mono")},
			[]chain.Node{chain.Leaf("b1", "stereo"), chain.Leaf("b2", "mono")},
		),
		chain.Leaf("z", "stereo"),
	}
}

// nestedChain exercises nested splits, empty branches and empty slots.
func nestedChain() []chain.Node {
	inner := chain.Split("inner", chain.ModeLR,
		[]chain.Node{chain.Leaf("l", "mono")},
		[]chain.Node{chain.Leaf("r", "widener"), chain.Leaf("r2", "stereo")},
	)
	ab := chain.Split("ab", chain.ModeAB,
		[]chain.Node{inner, chain.Leaf("after", "stereo")},
		[]chain.Node{chain.Empty("slot")},
	)
	ab.Select = chain.BranchBottom
	return []chain.Node{
		chain.Leaf("in", "tonegen"),
		ab,
		chain.Split("mix", chain.ModeMix, nil, []chain.Node{chain.Leaf("tune", "tuner")}),
		chain.Leaf("missing", "not-installed"),
		chain.Split("deep", chain.ModeMix,
			[]chain.Node{chain.Split("deeper", chain.ModeAB, nil, nil)},
			[]chain.Node{chain.Leaf("m", "mono")},
		),
	}
}

func cellKinds(n *Node) bool {
	return n.Kind != chain.KindSplit
}

func overlaps(a, b geom.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
