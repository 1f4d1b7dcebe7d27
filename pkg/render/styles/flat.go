package styles

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// Stroke widths in user units.
const (
	monoWidth      = 3.0
	stereoWidth    = 8.0
	separatorWidth = 1.5
	cellInset      = 6.0
	cornerRadius   = 8.0
)

// Palette holds the colors of a flat style.
type Palette struct {
	Background string
	Cell       string
	CellStroke string
	Disabled   string
	Missing    string
	Text       string
	Signal     string
	Inactive   string
	Separator  string
	Icon       string
}

// Flat draws rounded cells and solid connectors in palette colors.
type Flat struct {
	StyleName string
	Palette   Palette
}

// Simple is black-on-white, suited to documentation.
func Simple() Flat {
	return Flat{StyleName: diagram.StyleSimple, Palette: Palette{
		Background: "white",
		Cell:       "white",
		CellStroke: "#333",
		Disabled:   "#eee",
		Missing:    "#d33",
		Text:       "#333",
		Signal:     "#333",
		Inactive:   "#bbb",
		Separator:  "white",
		Icon:       "#f5f5f5",
	}}
}

// Dark matches dark editor themes.
func Dark() Flat {
	return Flat{StyleName: diagram.StyleDark, Palette: Palette{
		Background: "#1e1e1e",
		Cell:       "#2d2d2d",
		CellStroke: "#9cdcfe",
		Disabled:   "#252525",
		Missing:    "#f48771",
		Text:       "#d4d4d4",
		Signal:     "#9cdcfe",
		Inactive:   "#555",
		Separator:  "#1e1e1e",
		Icon:       "#333",
	}}
}

func (f Flat) Name() string { return f.StyleName }

func (f Flat) RenderDefs(buf *bytes.Buffer) {}

func (f Flat) RenderBackground(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect class="background" x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		width, height, f.Palette.Background)
}

func (f Flat) RenderLink(buf *bytes.Buffer, s Stroke) {
	if s.Flow == "none" || len(s.Points) < 2 {
		return
	}
	color := f.Palette.Signal
	if !s.Enabled {
		color = f.Palette.Inactive
	}
	pts := polyline(s.Points)
	fmt.Fprintf(buf, `  <g class="link %s" data-from="%s" data-to="%s">`+"\n",
		s.Flow, EscapeXML(s.FromID), EscapeXML(s.ToID))
	switch s.Flow {
	case "mono":
		writeLine(buf, pts, color, monoWidth)
	case "stereo", "bridged-stereo":
		writeLine(buf, pts, color, stereoWidth)
		writeLine(buf, pts, f.Palette.Separator, separatorWidth)
	}
	if len(s.Bridge) >= 2 {
		writeLine(buf, polyline(s.Bridge), color, monoWidth)
	}
	buf.WriteString("  </g>\n")
}

func (f Flat) RenderCell(buf *bytes.Buffer, c Cell) {
	switch c.Kind {
	case "split":
		f.renderSplit(buf, c)
	case "start", "end":
		f.renderJack(buf, c)
	case "empty":
		fmt.Fprintf(buf, `  <rect id="node-%s" class="node empty" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="none" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
			EscapeXML(c.ID), c.X+cellInset, c.Y+cellInset, c.W-2*cellInset, c.H-2*cellInset, cornerRadius, f.Palette.Inactive)
	default:
		f.renderEffect(buf, c)
	}
}

func (f Flat) renderEffect(buf *bytes.Buffer, c Cell) {
	fill, stroke := f.Palette.Cell, f.Palette.CellStroke
	class := "node leaf"
	if c.Disabled {
		fill = f.Palette.Disabled
		class += " disabled"
	}
	if c.Missing {
		stroke = f.Palette.Missing
		class += " missing"
	}
	fmt.Fprintf(buf, `  <rect id="node-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		EscapeXML(c.ID), class, c.X+cellInset, c.Y+cellInset, c.W-2*cellInset, c.H-2*cellInset, cornerRadius, fill, stroke)
	if c.Missing {
		fmt.Fprintf(buf, `  <circle class="error-icon" cx="%.2f" cy="%.2f" r="8" fill="%s"/>`+"\n",
			c.X+c.W-cellInset, c.Y+cellInset, f.Palette.Missing)
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" font-weight="bold" text-anchor="middle" dominant-baseline="central" fill="white">!</text>`+"\n",
			c.X+c.W-cellInset, c.Y+cellInset)
	}
}

func (f Flat) renderJack(buf *bytes.Buffer, c Cell) {
	r := min(c.W, c.H)/2 - cellInset*2
	fmt.Fprintf(buf, `  <circle id="node-%s" class="node %s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		EscapeXML(c.ID), c.Kind, c.CX, c.CY, r, f.Palette.Icon, f.Palette.CellStroke)
	fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		c.CX, c.CY, r/3, f.Palette.CellStroke)
}

func (f Flat) renderSplit(buf *bytes.Buffer, c Cell) {
	r := c.H/2 - cellInset*2
	fmt.Fprintf(buf, `  <g id="node-%s" class="node split">`+"\n", EscapeXML(c.ID))
	fmt.Fprintf(buf, `    <circle class="fork" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		c.CX, c.CY, r, f.Palette.Icon, f.Palette.CellStroke)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="11" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		c.CX, c.CY, f.Palette.Text, EscapeXML(c.Mode))
	fmt.Fprintf(buf, `    <circle class="merge" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		c.MergeX, c.CY, r/3, f.Palette.Signal)
	buf.WriteString("  </g>\n")
}

func (f Flat) RenderText(buf *bytes.Buffer, c Cell) {
	if c.Label == "" || c.Kind == "split" || c.Kind == "empty" {
		return
	}
	label := TruncateLabel(c.Label, c.W)
	fmt.Fprintf(buf, `  <text class="caption" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" fill="%s">%s</text>`+"\n",
		c.CX, c.Y+c.H+captionSize, captionSize, f.Palette.Text, EscapeXML(label))
}

func polyline(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func writeLine(buf *bytes.Buffer, points, color string, width float64) {
	fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"/>`+"\n",
		points, color, width)
}
