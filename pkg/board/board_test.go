package board

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

func TestSimpleChain(t *testing.T) {
	b := Compute([]chain.Node{chain.Leaf("comp", "mono")}, lookup, stereoPorts)

	require.Len(t, b.Nodes, 3)
	leaf := b.Nodes[1]
	assert.Equal(t, 1, leaf.Inputs)
	assert.Equal(t, 1, leaf.Outputs)

	require.Len(t, b.Links, 2)
	assert.Equal(t, StartID, b.Links[0].From)
	assert.Equal(t, "comp", b.Links[0].To)
	assert.Equal(t, FlowMono, b.Links[0].Flow)
	assert.Equal(t, "comp", b.Links[1].From)
	assert.Equal(t, EndID, b.Links[1].To)
	assert.Equal(t, FlowMono, b.Links[1].Flow)
}

func TestABSplitFollowsSelection(t *testing.T) {
	items := []chain.Node{
		chain.Split("ab", chain.ModeAB,
			[]chain.Node{chain.Leaf("mono", "mono")},
			[]chain.Node{chain.Leaf("stereo", "stereo")},
		),
	}

	b := Compute(items, lookup, stereoPorts)
	split, ok := b.Find("ab")
	require.True(t, ok)
	assert.Equal(t, 1, split.Outputs, "output follows the selected top branch")

	stereo, _ := b.Find("stereo")
	assert.Equal(t, 2, stereo.Inputs)

	for _, l := range b.Links {
		if l.Branch == chain.BranchBottom && (l.Role == RoleFork || l.Role == RoleMerge) {
			assert.False(t, l.Enabled, "unselected branch link %s->%s", l.From, l.To)
		}
	}

	items[0].Select = chain.BranchBottom
	b = Compute(items, lookup, stereoPorts)
	split, _ = b.Find("ab")
	assert.Equal(t, 2, split.Outputs, "output follows the selected bottom branch")
}

func TestLRSplitBridges(t *testing.T) {
	items := []chain.Node{
		chain.Split("lr", chain.ModeLR,
			[]chain.Node{chain.Leaf("left", "mono")},
			[]chain.Node{chain.Leaf("right", "mono")},
		),
	}
	b := Compute(items, lookup, stereoPorts)

	left, _ := b.Find("left")
	right, _ := b.Find("right")
	split, _ := b.Find("lr")
	assert.Equal(t, 1, left.Inputs)
	assert.Equal(t, 1, right.Inputs)
	assert.Equal(t, 2, split.Outputs)
	assert.True(t, split.Bridged())

	last := b.Links[len(b.Links)-1]
	assert.Equal(t, "lr", last.From)
	assert.Equal(t, EndID, last.To)
	assert.Equal(t, FlowBridgedStereo, last.Flow)
	assert.Equal(t, 3, last.Flow.Strokes())
	require.Len(t, last.Bridge, 2)
	assert.Equal(t, split.MergeCell().CenterX(), last.Bridge[0].X)
	assert.Equal(t, left.Bounds.CenterY(), last.Bridge[0].Y)
	assert.Equal(t, right.Bounds.CenterY(), last.Bridge[1].Y)
}

func TestEmptyChain(t *testing.T) {
	b := Compute(nil, lookup, stereoPorts)

	assert.True(t, b.Empty())
	assert.Empty(t, b.Links)
	assert.Equal(t, EmptySize, b.Size)
	assert.Equal(t, 1.0, b.Size.Width)
	assert.Equal(t, MinHeight, b.Size.Height)

	_, ok := b.HitTest(pt(0, 0))
	assert.False(t, ok)
}

func TestMissingPlugin(t *testing.T) {
	items := []chain.Node{chain.Leaf("ghost", "not-installed"), chain.Leaf("comp", "mono")}

	var b *Board
	require.NotPanics(t, func() { b = Compute(items, lookup, stereoPorts) })

	ghost, ok := b.Find("ghost")
	require.True(t, ok)
	assert.True(t, ghost.Missing)
	assert.Equal(t, registry.Stereo, ghost.Capability)
	assert.Equal(t, 2, ghost.Inputs)
	assert.Equal(t, 1, ghost.Outputs, "clamped by the mono effect downstream")

	comp, _ := b.Find("comp")
	assert.False(t, comp.Missing)

	assert.Equal(t, 1, b.Stats().Missing)
	assert.Equal(t, []string{"not-installed"}, b.MissingPlugins())
}

func TestNilLookupMarksEverythingMissing(t *testing.T) {
	b := Compute([]chain.Node{chain.Leaf("a", "mono")}, nil, stereoPorts)
	a, _ := b.Find("a")
	assert.True(t, a.Missing)
}

func TestShapeMirroring(t *testing.T) {
	for name, items := range map[string][]chain.Node{
		"split":  splitChain(),
		"nested": nestedChain(),
	} {
		t.Run(name, func(t *testing.T) {
			nodes := Build(items, lookup, stereoPorts)
			require.Len(t, nodes, len(items)+2)
			assert.Equal(t, chain.KindStart, nodes[0].Kind)
			assert.Equal(t, chain.KindEnd, nodes[len(nodes)-1].Kind)
			assertMirrors(t, items, nodes[1:len(nodes)-1])

			b := Compute(items, lookup, stereoPorts)
			assert.Equal(t, chain.Count(items)+2, b.Stats().Nodes)
		})
	}
}

func assertMirrors(t *testing.T, items []chain.Node, nodes []*Node) {
	t.Helper()
	require.Len(t, nodes, len(items))
	for i := range items {
		assert.Same(t, &items[i], nodes[i].Source)
		assert.Equal(t, items[i].Kind, nodes[i].Kind)
		if items[i].IsSplit() {
			assertMirrors(t, items[i].Top, nodes[i].Top)
			assertMirrors(t, items[i].Bottom, nodes[i].Bottom)
		}
	}
}

func TestInvariants(t *testing.T) {
	chains := map[string][]chain.Node{
		"simple": {chain.Leaf("a", "mono")},
		"split":  splitChain(),
		"nested": nestedChain(),
		"silent": {chain.Leaf("tune", "tuner"), chain.Empty("e"), chain.Leaf("gen", "tonegen")},
	}
	portsets := []registry.Ports{
		{Inputs: 2, Outputs: 2},
		{Inputs: 1, Outputs: 2},
		{Inputs: 2, Outputs: 1},
		{Inputs: 0, Outputs: 2},
		{Inputs: 2, Outputs: 0},
	}

	for name, items := range chains {
		for _, ports := range portsets {
			t.Run(name, func(t *testing.T) {
				laid, _ := Layout(Build(items, lookup, ports))
				fwd, _ := Forward(laid, ports.Inputs)
				resolved := Propagate(laid, ports)

				before := slices.Collect(Walk(fwd))
				after := slices.Collect(Walk(resolved))
				require.Equal(t, len(before), len(after))

				for i, n := range after {
					assert.GreaterOrEqual(t, n.Bounds.Y, 0.0, "node %s", n.ID())
					assert.Contains(t, []int{0, 1, 2}, n.Inputs, "node %s inputs", n.ID())
					assert.Contains(t, []int{0, 1, 2}, n.Outputs, "node %s outputs", n.ID())
					assert.LessOrEqual(t, n.Inputs, before[i].Inputs, "node %s inputs grew", n.ID())
					assert.LessOrEqual(t, n.Outputs, before[i].Outputs, "node %s outputs grew", n.ID())

					if cellKinds(n) {
						assert.Equal(t, CellWidth, n.Bounds.Width)
						assert.Equal(t, CellHeight, n.Bounds.Height)
						continue
					}
					assert.GreaterOrEqual(t, n.Bounds.Width, 2*CellWidth)
					for _, b := range []chain.Branch{chain.BranchTop, chain.BranchBottom} {
						y := n.ConnectorY(b)
						want := n.BranchBounds(b)
						if kids := n.Children(b); len(kids) > 0 {
							want = kids[0].Bounds
						}
						assert.GreaterOrEqual(t, y, want.Y)
						assert.LessOrEqual(t, y, want.Bottom())
					}
				}
			})
		}
	}
}

func TestCellsDoNotOverlap(t *testing.T) {
	b := Compute(nestedChain(), lookup, stereoPorts)

	cells := slices.Collect(b.Walk())
	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			a, c := cells[i], cells[j]
			ra, rc := a.Bounds, c.Bounds
			if a.Kind == chain.KindSplit {
				ra = a.IconCell()
			}
			if c.Kind == chain.KindSplit {
				rc = c.IconCell()
			}
			assert.False(t, overlaps(ra, rc), "%s %v overlaps %s %v", a.ID(), ra, c.ID(), rc)
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	items := nestedChain()
	first := Compute(items, lookup, stereoPorts)
	second := Compute(items, lookup, stereoPorts)
	assert.Equal(t, first, second)
}

func TestPassesDoNotMutateInput(t *testing.T) {
	nodes := Build(splitChain(), lookup, stereoPorts)
	laid, _ := Layout(nodes)
	for n := range Walk(nodes) {
		assert.Zero(t, n.Bounds, "Layout mutated %s", n.ID())
	}
	Propagate(laid, stereoPorts)
	for n := range Walk(laid) {
		assert.Zero(t, n.Inputs, "Propagate mutated %s", n.ID())
		assert.Zero(t, n.Outputs, "Propagate mutated %s", n.ID())
	}
}

func TestStats(t *testing.T) {
	b := Compute(nestedChain(), lookup, stereoPorts)
	s := b.Stats()
	assert.Equal(t, 5, s.Splits)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 2, s.Depth)
	assert.Equal(t, len(b.Links), s.Links)
}
