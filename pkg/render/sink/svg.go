package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/render/styles"
)

const nodeInteractionCSS = `
    .node { transition: opacity 0.2s ease; }
    .node.highlight { opacity: 0.6; }
    .link.dim { opacity: 0.25; }`

const nodeInteractionJS = `
    function focusNode(id) {
      document.querySelectorAll('.link').forEach(l => {
        const [from, to] = [l.dataset.from, l.dataset.to];
        l.classList.toggle('dim', from !== id && to !== id);
      });
    }
    function clearFocus() {
      document.querySelectorAll('.link').forEach(l => l.classList.remove('dim'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => focusNode(el.id.replace('node-', '')));
      el.addEventListener('mouseleave', clearFocus);
    });`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	interactive bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithInteraction() SVGOption         { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws a board diagram. Connectors are painted first in the order
// the diagram lists them, then node shapes, then captions, so cells always
// cover the line ends.
func RenderSVG(d diagram.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple()}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := max(d.Width, 1), max(d.Height, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, width, height)

	for _, l := range d.Links {
		r.style.RenderLink(&buf, toStroke(l))
	}
	cells := make([]styles.Cell, 0, len(d.Nodes))
	for i := range d.Nodes {
		cells = append(cells, toCell(&d.Nodes[i]))
	}
	for _, c := range cells {
		r.style.RenderCell(&buf, c)
	}
	for _, c := range cells {
		r.style.RenderText(&buf, c)
	}

	if r.interactive {
		renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
}

func toCell(n *diagram.Node) styles.Cell {
	c := styles.Cell{
		ID:       n.ID,
		Label:    n.DisplayLabel(),
		Kind:     n.Kind,
		X:        n.X,
		Y:        n.Y,
		W:        n.Width,
		H:        n.Height,
		CX:       n.X + n.Width/2,
		CY:       n.Y + n.Height/2,
		Inputs:   n.Inputs,
		Outputs:  n.Outputs,
		Missing:  n.Missing,
		Disabled: n.Disabled,
	}
	if n.Split != nil {
		c.CX = n.X + board.CellWidth/2
		c.MergeX = n.X + n.Width - board.CellWidth/2
		c.Mode = modeGlyph(n.Split.Mode)
		c.Bridged = n.Split.Bridged
	}
	return c
}

// modeGlyph turns a stored mode key such as "lr" into its icon text.
func modeGlyph(key string) string {
	m, err := chain.ParseMode(key)
	if err != nil {
		return key
	}
	return diagram.ModeLabel(m)
}

func toStroke(l diagram.Link) styles.Stroke {
	return styles.Stroke{
		FromID:  l.From,
		ToID:    l.To,
		Flow:    l.Flow,
		Enabled: l.Enabled,
		Points:  toPoints(l.Path),
		Bridge:  toPoints(l.Bridge),
	}
}

func toPoints(in []diagram.Point) []geom.Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]geom.Point, len(in))
	for i, p := range in {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}
