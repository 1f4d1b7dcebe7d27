package board

import (
	"fmt"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// Action is what dropping a dragged node at a position would do.
type Action int

const (
	// InsertBefore places the dragged node before Target.Node.
	InsertBefore Action = iota
	// InsertAfter places it after Target.Node.
	InsertAfter
	// Replace drops it onto Target.Node (swap, or fill an empty slot).
	Replace
	// Prepend makes it the first node of a split branch.
	Prepend
	// Append makes it the last node of a split branch.
	Append
)

var actionNames = [...]string{
	InsertBefore: "insert-before",
	InsertAfter:  "insert-after",
	Replace:      "replace",
	Prepend:      "prepend",
	Append:       "append",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Target is the result of a hit test. Branch is only meaningful for Prepend
// and Append, where Node is the split owning the branch.
type Target struct {
	Node   *Node
	Action Action
	Branch chain.Branch
}

// ID returns the instance id of the target node.
func (t Target) ID() string { return t.Node.ID() }

func (t Target) String() string {
	if t.Action == Prepend || t.Action == Append {
		return fmt.Sprintf("%s %s of %s", t.Action, t.Branch, t.Node.ID())
	}
	return fmt.Sprintf("%s %s", t.Action, t.Node.ID())
}

// HitTest resolves p against a laid-out tree. When regions nest, the deepest
// node wins. It reports false when p is outside every node.
func HitTest(nodes []*Node, p geom.Point) (Target, bool) {
	var (
		best  Target
		found bool
	)
	for n := range Walk(nodes) {
		if t, ok := hit(n, p); ok {
			best, found = t, true
		}
	}
	return best, found
}

func hit(n *Node, p geom.Point) (Target, bool) {
	switch n.Kind {
	case chain.KindStart:
		if n.Bounds.Contains(p) {
			return Target{Node: n, Action: InsertAfter}, true
		}
	case chain.KindEnd:
		if n.Bounds.Contains(p) {
			return Target{Node: n, Action: InsertBefore}, true
		}
	case chain.KindLeaf, chain.KindEmpty:
		if n.Bounds.Contains(p) {
			return Target{Node: n, Action: cellAction(n.Bounds, p)}, true
		}
	case chain.KindSplit:
		return hitSplit(n, p)
	}
	return Target{}, false
}

// cellAction splits a cell into quarters: the outer quarters insert beside
// the node, the middle half drops onto it.
func cellAction(r geom.Rect, p geom.Point) Action {
	switch rel := (p.X - r.X) / r.Width; {
	case rel < 0.25:
		return InsertBefore
	case rel >= 0.75:
		return InsertAfter
	default:
		return Replace
	}
}

func hitSplit(n *Node, p geom.Point) (Target, bool) {
	side := chain.BranchTop
	if p.Y >= n.Bounds.CenterY() {
		side = chain.BranchBottom
	}

	if icon := n.IconCell(); icon.Contains(p) {
		if p.X < icon.CenterX() {
			return Target{Node: n, Action: InsertBefore}, true
		}
		return Target{Node: n, Action: Prepend, Branch: side}, true
	}
	if merge := n.MergeCell(); merge.Contains(p) {
		if p.X >= merge.CenterX() {
			return Target{Node: n, Action: InsertAfter}, true
		}
		return Target{Node: n, Action: Append, Branch: side}, true
	}

	// The space between a branch's last node and the merge cell belongs to
	// that branch; for an empty branch this is the whole branch lane.
	mergeX := n.MergeCell().X
	for _, b := range []chain.Branch{chain.BranchTop, chain.BranchBottom} {
		ext := n.BranchBounds(b)
		gap := geom.R(ext.Right(), ext.Y, mergeX-ext.Right(), ext.Height)
		if gap.Contains(p) {
			return Target{Node: n, Action: Append, Branch: b}, true
		}
	}
	return Target{}, false
}
