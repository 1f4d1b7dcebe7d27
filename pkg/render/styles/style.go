// Package styles defines how board cells and connectors are drawn in SVG.
//
// A [Style] paints one element at a time into a buffer; the SVG sink decides
// the order (background, connectors, nodes, labels). Two styles ship with
// pedalboard: [Simple] (light) and [Dark]. Both are [Flat] styles that differ
// only in their [Palette].
package styles

import (
	"bytes"

	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// Style defines the visual appearance for board rendering.
type Style interface {
	// Name returns the style identifier (e.g. "simple").
	Name() string
	// RenderDefs writes SVG <defs> content (markers, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the canvas.
	RenderBackground(buf *bytes.Buffer, width, height float64)
	// RenderLink writes the strokes of one connector.
	RenderLink(buf *bytes.Buffer, s Stroke)
	// RenderCell writes the shape of one node.
	RenderCell(buf *bytes.Buffer, c Cell)
	// RenderText writes a node's caption.
	RenderText(buf *bytes.Buffer, c Cell)
}

// Cell contains all data needed to render a single node.
type Cell struct {
	ID         string  // Node identifier
	Label      string  // Caption text
	Kind       string  // "leaf", "split", "start", "end" or "empty"
	X, Y, W, H float64 // Node bounds
	CX, CY     float64 // Center of the node's own cell
	Inputs     int
	Outputs    int
	Missing    bool   // Plugin not found in the registry
	Disabled   bool   // Bypassed effect
	Mode       string // Split glyph text ("A/B", "Mix", "L/R")
	MergeX     float64
	Bridged    bool
}

// Stroke contains the geometry and flow of one connector.
type Stroke struct {
	FromID, ToID string
	Flow         string // "none", "mono", "stereo" or "bridged-stereo"
	Enabled      bool
	Points       []geom.Point
	Bridge       []geom.Point
}

// ByName returns the style registered under name.
func ByName(name string) (Style, error) {
	switch name {
	case "", diagram.StyleSimple:
		return Simple(), nil
	case diagram.StyleDark:
		return Dark(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, diagram.StyleSimple, diagram.StyleDark)
}
