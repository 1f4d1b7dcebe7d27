package board

import (
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// Diagram metrics, in SVG user units.
const (
	CellWidth     = 64.0
	CellHeight    = 64.0
	MinHeight     = 2 * CellHeight
	CaptionMargin = 16.0
)

// EmptySize is the size reserved for a chain without nodes.
var EmptySize = geom.Size{Width: 1, Height: MinHeight}

// Reserved ids of the synthetic host endpoints.
const (
	StartID = "_start"
	EndID   = "_end"
)

// Node is a chain node annotated by the engine.
type Node struct {
	Kind chain.Kind

	// Source is the chain node this was built from; nil for the synthetic
	// start and end nodes.
	Source *chain.Node

	// Capability holds the native channel counts: the registry entry for a
	// leaf, the host ports for start and end, stereo for everything else.
	Capability registry.Channels

	// Missing is set when the leaf's plugin is not in the registry.
	Missing bool

	Bounds geom.Rect

	// TopBounds and BottomBounds are the extents of the two branches of a
	// split. An empty branch has a zero-width extent.
	TopBounds    geom.Rect
	BottomBounds geom.Rect

	TopConnectorY    float64
	BottomConnectorY float64

	Inputs  int
	Outputs int

	Top    []*Node
	Bottom []*Node
}

// ID returns the instance id of the node.
func (n *Node) ID() string {
	switch {
	case n.Source != nil:
		return n.Source.ID
	case n.Kind == chain.KindStart:
		return StartID
	case n.Kind == chain.KindEnd:
		return EndID
	}
	return ""
}

// Plugin returns the plugin reference of a leaf.
func (n *Node) Plugin() string {
	if n.Source == nil {
		return ""
	}
	return n.Source.Plugin
}

// Enabled reports whether the node is active. Synthetic nodes always are.
func (n *Node) Enabled() bool {
	return n.Source == nil || n.Source.Enabled
}

// Mode returns the split mode.
func (n *Node) Mode() chain.Mode {
	if n.Source == nil {
		return chain.ModeAB
	}
	return n.Source.Mode
}

// Selected reports whether branch b of a split carries signal to its output.
func (n *Node) Selected(b chain.Branch) bool {
	if n.Source == nil {
		return true
	}
	return n.Source.Selected(b)
}

// Children returns the sub-tree of branch b.
func (n *Node) Children(b chain.Branch) []*Node {
	if b == chain.BranchBottom {
		return n.Bottom
	}
	return n.Top
}

// BranchBounds returns the extent of branch b.
func (n *Node) BranchBounds(b chain.Branch) geom.Rect {
	if b == chain.BranchBottom {
		return n.BottomBounds
	}
	return n.TopBounds
}

// ConnectorY returns the y at which branch b attaches to the split.
func (n *Node) ConnectorY(b chain.Branch) float64 {
	if b == chain.BranchBottom {
		return n.BottomConnectorY
	}
	return n.TopConnectorY
}

// IconCell is the cell holding a split's icon.
func (n *Node) IconCell() geom.Rect {
	return geom.R(n.Bounds.X, n.Bounds.Y, CellWidth, CellHeight)
}

// MergeCell is the cell where a split's branches rejoin.
func (n *Node) MergeCell() geom.Rect {
	return geom.R(n.Bounds.Right()-CellWidth, n.Bounds.Y, CellWidth, CellHeight)
}

// BranchInputs is the channel count a split feeds into each branch.
func (n *Node) BranchInputs() int {
	if n.Mode() == chain.ModeLR {
		return min(n.Inputs, 1)
	}
	return n.Inputs
}

// BranchOutputs is the channel count branch b delivers to the merge point.
// An empty branch passes its input through.
func (n *Node) BranchOutputs(b chain.Branch) int {
	children := n.Children(b)
	if len(children) == 0 {
		return n.BranchInputs()
	}
	return children[len(children)-1].Outputs
}

// Bridged reports whether a split produces stereo from two branches that
// are each less than stereo, which needs an extra merge stroke.
func (n *Node) Bridged() bool {
	return n.Kind == chain.KindSplit &&
		n.Outputs == 2 &&
		n.BranchOutputs(chain.BranchTop) < 2 &&
		n.BranchOutputs(chain.BranchBottom) < 2
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}
