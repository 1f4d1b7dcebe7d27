package board

import (
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// cursor is the layout position: x is the left edge of the next cell, y the
// centerline of the current row.
type cursor struct {
	x, y float64
}

func cell(c cursor) geom.Rect {
	return geom.R(c.x, c.y-CellHeight/2, CellWidth, CellHeight)
}

// Layout assigns bounds to every node and connector offsets to every split.
// It returns a new tree together with the total diagram size. The layout is
// normalized so that the topmost node starts at y = 0, or, for diagrams
// shorter than [MinHeight], centered vertically in MinHeight.
func Layout(nodes []*Node) ([]*Node, geom.Size) {
	if len(nodes) == 0 {
		return nil, EmptySize
	}

	laid, ext, _ := place(nodes, cursor{})
	bounds := ext.Rect()

	height := bounds.Height
	dy := -bounds.Y
	if height < MinHeight {
		dy += (MinHeight - height) / 2
		height = MinHeight
	}
	shift(laid, 0, dy)

	return laid, geom.Size{Width: bounds.Right(), Height: height + CaptionMargin}
}

// place lays out a sequence starting at c. It returns the placed copies, the
// union of everything they occupy, and the cursor after the last node.
func place(nodes []*Node, c cursor) ([]*Node, geom.Extent, cursor) {
	var ext geom.Extent
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		var m *Node
		switch n.Kind {
		case chain.KindSplit:
			var sub geom.Extent
			m, sub, c = placeSplit(n, c)
			ext = ext.Add(sub.Rect())
		case chain.KindLeaf, chain.KindStart, chain.KindEnd, chain.KindEmpty:
			m = n.clone()
			m.Bounds = cell(c)
			ext = ext.Add(m.Bounds)
			c.x += CellWidth
		}
		out[i] = m
	}
	return out, ext, c
}

func placeSplit(n *Node, c cursor) (*Node, geom.Extent, cursor) {
	m := n.clone()
	branchX := c.x + CellWidth

	// The top branch hangs above the trunk line, the bottom branch below it.
	top, topRect := placeBranch(n.Top, cursor{branchX, c.y})
	dyTop := c.y - topRect.Bottom()
	shift(top, 0, dyTop)
	topRect = topRect.Offset(0, dyTop)

	bottom, bottomRect := placeBranch(n.Bottom, cursor{branchX, c.y})
	dyBottom := c.y - bottomRect.Y
	shift(bottom, 0, dyBottom)
	bottomRect = bottomRect.Offset(0, dyBottom)

	width := max(topRect.Width, bottomRect.Width)
	m.Bounds = geom.R(c.x, c.y-CellHeight/2, CellWidth+width+CellWidth, CellHeight)
	m.Top, m.Bottom = top, bottom
	m.TopBounds, m.BottomBounds = topRect, bottomRect
	m.TopConnectorY = connectorY(top, topRect)
	m.BottomConnectorY = connectorY(bottom, bottomRect)

	ext := geom.Extent{}.Add(m.Bounds).Add(topRect).Add(bottomRect)
	return m, ext, cursor{x: m.Bounds.Right(), y: c.y}
}

// placeBranch lays out one branch of a split. An empty branch yields a
// zero-width placeholder one cell high, centered on the trunk line.
func placeBranch(nodes []*Node, c cursor) ([]*Node, geom.Rect) {
	if len(nodes) == 0 {
		return nil, geom.R(c.x, c.y-CellHeight/2, 0, CellHeight)
	}
	laid, ext, _ := place(nodes, c)
	return laid, ext.Rect()
}

func connectorY(branch []*Node, extent geom.Rect) float64 {
	if len(branch) == 0 {
		return extent.CenterY()
	}
	return branch[0].Bounds.CenterY()
}

// shift translates freshly placed nodes in place.
func shift(nodes []*Node, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, n := range nodes {
		n.Bounds = n.Bounds.Offset(dx, dy)
		if n.Kind == chain.KindSplit {
			n.TopBounds = n.TopBounds.Offset(dx, dy)
			n.BottomBounds = n.BottomBounds.Offset(dx, dy)
			n.TopConnectorY += dy
			n.BottomConnectorY += dy
			shift(n.Top, dx, dy)
			shift(n.Bottom, dx, dy)
		}
	}
}
