package diagram

import (
	"fmt"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// LabelFunc returns the display label of a node.
type LabelFunc func(n *board.Node) string

// DefaultLabel labels leaves by plugin reference, endpoints as "in"/"out",
// and splits by mode.
func DefaultLabel(n *board.Node) string {
	switch n.Kind {
	case chain.KindStart:
		return "in"
	case chain.KindEnd:
		return "out"
	case chain.KindLeaf:
		return n.Plugin()
	case chain.KindSplit:
		return ModeLabel(n.Mode())
	}
	return ""
}

// RegistryLabel labels leaves with their catalog name when reg knows them.
func RegistryLabel(reg *registry.Registry) LabelFunc {
	return func(n *board.Node) string {
		if n.Kind == chain.KindLeaf {
			if p, ok := reg.Lookup(n.Plugin()); ok {
				return p.Label()
			}
		}
		return DefaultLabel(n)
	}
}

// ModeLabel is the short glyph text used for a split mode.
func ModeLabel(m chain.Mode) string {
	switch m {
	case chain.ModeMix:
		return "Mix"
	case chain.ModeLR:
		return "L/R"
	}
	return "A/B"
}

// FromBoard flattens a computed board into a Diagram. A nil label uses
// [DefaultLabel].
func FromBoard(b *board.Board, style string, label LabelFunc) Diagram {
	if label == nil {
		label = DefaultLabel
	}
	d := Diagram{
		VizType: VizTypeBoard,
		Width:   b.Size.Width,
		Height:  b.Size.Height,
		Style:   style,
		Ports:   Ports{Inputs: b.Ports.Inputs, Outputs: b.Ports.Outputs},
	}
	d.Nodes = appendNodes(d.Nodes, b.Nodes, "", "", 0, label)

	d.Links = make([]Link, len(b.Links))
	for i, l := range b.Links {
		d.Links[i] = Link{
			From:    l.From,
			To:      l.To,
			Role:    l.Role.String(),
			Flow:    l.Flow.String(),
			Enabled: l.Enabled,
			Path:    points(l.Path),
			Bridge:  points(l.Bridge),
		}
		if l.Role != board.RoleTrunk {
			d.Links[i].Branch = l.Branch.String()
		}
	}
	return d
}

func appendNodes(out []Node, nodes []*board.Node, parent, branch string, depth int, label LabelFunc) []Node {
	for _, n := range nodes {
		dn := Node{
			ID:       n.ID(),
			Label:    label(n),
			Kind:     n.Kind.String(),
			Plugin:   n.Plugin(),
			Parent:   parent,
			Branch:   branch,
			Depth:    depth,
			X:        n.Bounds.X,
			Y:        n.Bounds.Y,
			Width:    n.Bounds.Width,
			Height:   n.Bounds.Height,
			Inputs:   n.Inputs,
			Outputs:  n.Outputs,
			Missing:  n.Missing,
			Disabled: !n.Enabled(),
		}
		if n.Kind == chain.KindSplit {
			dn.Split = &Split{
				Mode:             n.Mode().String(),
				Bridged:          n.Bridged(),
				TopBounds:        rect(n.TopBounds),
				BottomBounds:     rect(n.BottomBounds),
				TopConnectorY:    n.TopConnectorY,
				BottomConnectorY: n.BottomConnectorY,
			}
			if n.Mode() == chain.ModeAB {
				dn.Split.Select = n.Source.Select.String()
			}
		}
		out = append(out, dn)
		if n.Kind == chain.KindSplit {
			out = appendNodes(out, n.Top, dn.ID, chain.BranchTop.String(), depth+1, label)
			out = appendNodes(out, n.Bottom, dn.ID, chain.BranchBottom.String(), depth+1, label)
		}
	}
	return out
}

// Board rebuilds the engine tree from a board diagram so it can be walked
// and hit-tested. Links are restored as well; paths are kept verbatim.
func (d *Diagram) Board() (*board.Board, error) {
	if !d.IsBoard() {
		return nil, fmt.Errorf("cannot rebuild board from %s diagram", d.VizType)
	}

	b := &board.Board{
		Size:  geom.Size{Width: d.Width, Height: d.Height},
		Ports: registry.Ports{Inputs: d.Ports.Inputs, Outputs: d.Ports.Outputs},
	}
	byID := make(map[string]*board.Node, len(d.Nodes))

	for i := range d.Nodes {
		dn := &d.Nodes[i]
		n, err := toBoardNode(dn)
		if err != nil {
			return nil, err
		}
		if _, dup := byID[dn.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", dn.ID)
		}
		byID[dn.ID] = n

		if dn.Parent == "" {
			b.Nodes = append(b.Nodes, n)
			continue
		}
		parent, ok := byID[dn.Parent]
		if !ok || parent.Kind != chain.KindSplit {
			return nil, fmt.Errorf("node %q: parent %q is not a preceding split", dn.ID, dn.Parent)
		}
		side, err := chain.ParseBranch(dn.Branch)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", dn.ID, err)
		}
		if side == chain.BranchBottom {
			parent.Bottom = append(parent.Bottom, n)
		} else {
			parent.Top = append(parent.Top, n)
		}
	}

	b.Links = make([]board.Link, 0, len(d.Links))
	for _, dl := range d.Links {
		l, err := toBoardLink(dl)
		if err != nil {
			return nil, err
		}
		b.Links = append(b.Links, l)
	}
	return b, nil
}

func toBoardNode(dn *Node) (*board.Node, error) {
	kind, err := chain.ParseKind(dn.Kind)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", dn.ID, err)
	}
	n := &board.Node{
		Kind:    kind,
		Missing: dn.Missing,
		Bounds:  geom.R(dn.X, dn.Y, dn.Width, dn.Height),
		Inputs:  dn.Inputs,
		Outputs: dn.Outputs,
	}
	if kind == chain.KindStart || kind == chain.KindEnd {
		return n, nil
	}

	src := &chain.Node{ID: dn.ID, Kind: kind, Plugin: dn.Plugin, Enabled: !dn.Disabled}
	if kind == chain.KindSplit {
		if dn.Split == nil {
			return nil, fmt.Errorf("split %q has no split attributes", dn.ID)
		}
		if src.Mode, err = chain.ParseMode(dn.Split.Mode); err != nil {
			return nil, fmt.Errorf("split %q: %w", dn.ID, err)
		}
		if src.Select, err = chain.ParseBranch(dn.Split.Select); err != nil {
			return nil, fmt.Errorf("split %q: %w", dn.ID, err)
		}
		n.TopBounds = fromRect(dn.Split.TopBounds)
		n.BottomBounds = fromRect(dn.Split.BottomBounds)
		n.TopConnectorY = dn.Split.TopConnectorY
		n.BottomConnectorY = dn.Split.BottomConnectorY
	}
	n.Source = src
	return n, nil
}

func toBoardLink(dl Link) (board.Link, error) {
	flow, err := board.ParseFlow(dl.Flow)
	if err != nil {
		return board.Link{}, fmt.Errorf("link %s->%s: %w", dl.From, dl.To, err)
	}
	role, err := parseRole(dl.Role)
	if err != nil {
		return board.Link{}, fmt.Errorf("link %s->%s: %w", dl.From, dl.To, err)
	}
	branch, err := chain.ParseBranch(dl.Branch)
	if err != nil {
		return board.Link{}, fmt.Errorf("link %s->%s: %w", dl.From, dl.To, err)
	}
	return board.Link{
		From:    dl.From,
		To:      dl.To,
		Role:    role,
		Branch:  branch,
		Flow:    flow,
		Enabled: dl.Enabled,
		Path:    fromPoints(dl.Path),
		Bridge:  fromPoints(dl.Bridge),
	}, nil
}

func parseRole(s string) (board.Role, error) {
	for r := board.RoleTrunk; r <= board.RoleBypass; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown link role %q", s)
}

func rect(r geom.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func fromRect(r Rect) geom.Rect {
	return geom.R(r.X, r.Y, r.Width, r.Height)
}

func points(in []geom.Point) []Point {
	if in == nil {
		return nil
	}
	out := make([]Point, len(in))
	for i, p := range in {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromPoints(in []Point) []geom.Point {
	if in == nil {
		return nil
	}
	out := make([]geom.Point, len(in))
	for i, p := range in {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}
