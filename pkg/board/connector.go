package board

import (
	"fmt"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// Flow is what a connector carries and therefore how it is stroked.
type Flow int

const (
	FlowNone Flow = iota
	FlowMono
	FlowStereo
	// FlowBridgedStereo is a stereo trunk leaving a split whose branches are
	// each mono; it is drawn with an extra bridge stroke at the merge.
	FlowBridgedStereo
)

var flowNames = [...]string{
	FlowNone:          "none",
	FlowMono:          "mono",
	FlowStereo:        "stereo",
	FlowBridgedStereo: "bridged-stereo",
}

func (f Flow) String() string {
	if f < 0 || int(f) >= len(flowNames) {
		return fmt.Sprintf("flow(%d)", int(f))
	}
	return flowNames[f]
}

// ParseFlow converts a flow name back to a [Flow].
func ParseFlow(s string) (Flow, error) {
	for f, name := range flowNames {
		if s == name {
			return Flow(f), nil
		}
	}
	return 0, fmt.Errorf("unknown flow %q", s)
}

// Strokes returns the number of parallel strokes a connector needs.
func (f Flow) Strokes() int {
	switch f {
	case FlowMono:
		return 1
	case FlowStereo:
		return 2
	case FlowBridgedStereo:
		return 3
	}
	return 0
}

// FlowOf maps a channel count to a flow.
func FlowOf(channels int) Flow {
	switch {
	case channels <= 0:
		return FlowNone
	case channels == 1:
		return FlowMono
	default:
		return FlowStereo
	}
}

// Role is the topological position of a connector.
type Role int

const (
	// RoleTrunk joins two consecutive nodes of one sequence.
	RoleTrunk Role = iota
	// RoleFork runs from a split icon to the first node of a branch.
	RoleFork
	// RoleMerge runs from the last node of a branch to the merge point.
	RoleMerge
	// RoleBypass spans an empty branch from fork to merge.
	RoleBypass
)

var roleNames = [...]string{
	RoleTrunk:  "trunk",
	RoleFork:   "fork",
	RoleMerge:  "merge",
	RoleBypass: "bypass",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// Link is one connector to draw. Path is a polyline from the upstream
// anchor to the downstream anchor. Bridge is set on links leaving a bridged
// split and holds the vertical segment joining the two branch merges.
type Link struct {
	From    string
	To      string
	Role    Role
	Branch  chain.Branch
	Flow    Flow
	Enabled bool
	Path    []geom.Point
	Bridge  []geom.Point
}

// Connectors decides the strokes between resolved, laid-out nodes. Links are
// returned in paint order: inside every split the branch that does not carry
// signal comes first so that the active branch is painted over it; when both
// carry signal the top branch comes first.
func Connectors(nodes []*Node) []Link {
	return connect(nil, nodes, true)
}

func connect(links []Link, nodes []*Node, enabled bool) []Link {
	for i, n := range nodes {
		if n.Kind == chain.KindSplit {
			links = connectSplit(links, n, enabled)
		}
		if i+1 < len(nodes) {
			next := nodes[i+1]
			l := Link{
				From:    n.ID(),
				To:      next.ID(),
				Role:    RoleTrunk,
				Flow:    FlowOf(CalculateConnection(n.Outputs, next.Inputs)),
				Enabled: enabled,
				Path:    []geom.Point{outAnchor(n), inAnchor(next)},
			}
			links = append(links, bridge(l, n))
		}
	}
	return links
}

func connectSplit(links []Link, s *Node, enabled bool) []Link {
	order := []chain.Branch{chain.BranchTop, chain.BranchBottom}
	if !s.Selected(chain.BranchBottom) {
		order[0], order[1] = order[1], order[0]
	}
	for _, b := range order {
		links = connectBranch(links, s, b, enabled && s.Selected(b))
	}
	return links
}

func connectBranch(links []Link, s *Node, b chain.Branch, enabled bool) []Link {
	var (
		cy     = s.Bounds.CenterY()
		forkX  = s.IconCell().CenterX()
		mergeX = s.MergeCell().CenterX()
		joinY  = s.ConnectorY(b)
		in     = s.BranchInputs()
	)

	children := s.Children(b)
	if len(children) == 0 {
		return append(links, Link{
			From:    s.ID(),
			To:      s.ID(),
			Role:    RoleBypass,
			Branch:  b,
			Flow:    FlowOf(CalculateConnection(in, mergeLimit(s, b))),
			Enabled: enabled,
			Path: []geom.Point{
				{X: forkX, Y: cy}, {X: forkX, Y: joinY},
				{X: mergeX, Y: joinY}, {X: mergeX, Y: cy},
			},
		})
	}

	first, last := children[0], children[len(children)-1]
	links = append(links, Link{
		From:    s.ID(),
		To:      first.ID(),
		Role:    RoleFork,
		Branch:  b,
		Flow:    FlowOf(CalculateConnection(in, first.Inputs)),
		Enabled: enabled,
		Path: []geom.Point{
			{X: forkX, Y: cy}, {X: forkX, Y: joinY}, inAnchor(first),
		},
	})

	links = connect(links, children, enabled)

	out := outAnchor(last)
	merge := Link{
		From:    last.ID(),
		To:      s.ID(),
		Role:    RoleMerge,
		Branch:  b,
		Flow:    FlowOf(CalculateConnection(last.Outputs, mergeLimit(s, b))),
		Enabled: enabled,
		Path: []geom.Point{
			out, {X: mergeX, Y: out.Y}, {X: mergeX, Y: cy},
		},
	}
	return append(links, bridge(merge, last))
}

// mergeLimit is what the merge point accepts from branch b. A branch that
// an A/B split does not select is drawn with its own counts.
func mergeLimit(s *Node, b chain.Branch) int {
	if s.Selected(b) {
		return s.Outputs
	}
	return 2
}

// bridge upgrades a stereo link leaving a bridged split.
func bridge(l Link, from *Node) Link {
	if !from.Bridged() || l.Flow != FlowStereo {
		return l
	}
	x := from.MergeCell().CenterX()
	l.Flow = FlowBridgedStereo
	l.Bridge = []geom.Point{
		{X: x, Y: branchJoinY(from, chain.BranchTop)},
		{X: x, Y: branchJoinY(from, chain.BranchBottom)},
	}
	return l
}

// branchJoinY is the y at which branch b reaches the merge point.
func branchJoinY(s *Node, b chain.Branch) float64 {
	children := s.Children(b)
	if len(children) == 0 {
		return s.ConnectorY(b)
	}
	return outAnchor(children[len(children)-1]).Y
}

// outAnchor is where a node's outgoing connector starts. For a split this is
// the merge point, so the trunk continues the merge strokes.
func outAnchor(n *Node) geom.Point {
	if n.Kind == chain.KindSplit {
		return geom.Point{X: n.MergeCell().CenterX(), Y: n.Bounds.CenterY()}
	}
	return geom.Point{X: n.Bounds.Right(), Y: n.Bounds.CenterY()}
}

func inAnchor(n *Node) geom.Point {
	return geom.Point{X: n.Bounds.X, Y: n.Bounds.CenterY()}
}
