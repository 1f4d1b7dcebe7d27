package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/render"
)

// Engine is the Graphviz layout engine used for node-link output.
const Engine = "dot"

// mergeSuffix names the second graph node of a split.
const mergeSuffix = "/merge"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds resolved channel counts to node labels.
	Detailed bool
}

// ToDOT converts a board diagram to Graphviz DOT source, laid out left to
// right in signal order.
func ToDOT(d diagram.Diagram, opts Options) string {
	splits := make(map[string]bool)
	for _, n := range d.Nodes {
		if n.Split != nil {
			splits[n.ID] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		if n.Split != nil {
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.12];\n", n.ID+mergeSuffix)
		}
	}

	buf.WriteString("\n")
	for _, l := range d.Links {
		from, to := endpoints(l, splits)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(edgeAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// endpoints maps a connector onto graph nodes. Signal leaves a split from its
// merge point and enters it at the fork.
func endpoints(l diagram.Link, splits map[string]bool) (string, string) {
	switch l.Role {
	case "fork":
		return l.From, l.To
	case "bypass":
		return l.From, l.To + mergeSuffix
	case "merge":
		return outOf(l.From, splits), l.To + mergeSuffix
	}
	return outOf(l.From, splits), l.To
}

func outOf(id string, splits map[string]bool) string {
	if splits[id] {
		return id + mergeSuffix
	}
	return id
}

func nodeAttrs(n diagram.Node, detailed bool) []string {
	label := n.DisplayLabel()
	if detailed && n.Kind != "empty" {
		label = fmt.Sprintf("%s\nin %d / out %d", label, n.Inputs, n.Outputs)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	switch n.Kind {
	case "start", "end":
		attrs = append(attrs, "shape=circle", "fillcolor=\"#f5f5f5\"")
	case "split":
		attrs = append(attrs, "shape=diamond", "fillcolor=\"#f5f5f5\"")
	case "empty":
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey")
	}
	if n.Missing {
		attrs = append(attrs, "color=red", "fontcolor=red")
	}
	if n.Disabled {
		attrs = append(attrs, "fillcolor=lightgrey", "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func edgeAttrs(l diagram.Link) []string {
	var attrs []string
	switch l.Flow {
	case "none":
		attrs = append(attrs, "style=dotted", "arrowhead=none")
	case "mono":
		attrs = append(attrs, "penwidth=1.5")
	case "stereo":
		attrs = append(attrs, "penwidth=3")
	case "bridged-stereo":
		attrs = append(attrs, "penwidth=3", "color=\"black:black\"")
	}
	if !l.Enabled {
		if l.Flow != "none" {
			attrs = append(attrs, "style=dashed")
		}
		attrs = append(attrs, "color=grey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
