package diagram

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// Visualization types.
const (
	VizTypeBoard    = "board"
	VizTypeNodelink = "nodelink"
)

// VizTypes lists the supported visualization types.
var VizTypes = []string{VizTypeBoard, VizTypeNodelink}

// Visual styles for rendering.
const (
	StyleSimple = "simple"
	StyleDark   = "dark"
)

// Styles lists the supported styles.
var Styles = []string{StyleSimple, StyleDark}

// IsValidVizType reports whether v is a known visualization type.
func IsValidVizType(v string) bool { return slices.Contains(VizTypes, v) }

// IsValidStyle reports whether s is a known style.
func IsValidStyle(s string) bool { return slices.Contains(Styles, s) }

// =============================================================================
// Diagram - Unified Visualization Format
// =============================================================================

// Diagram is the serialization format for computed boards.
//
// This is a discriminated union type; check VizType:
//
//	Board ("board"):
//	  - Nodes: positioned nodes with resolved channel counts
//	  - Links: connectors with flow and paths
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT source of the chain tree
//	  - Engine: Graphviz layout engine (e.g., "dot")
type Diagram struct {
	VizType string `json:"viz_type"`
	Name    string `json:"name,omitempty"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style,omitempty"`
	Ports  Ports   `json:"ports"`

	Nodes []Node `json:"nodes,omitempty"`
	Links []Link `json:"links,omitempty"`

	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsBoard returns true if this is a board diagram.
func (d *Diagram) IsBoard() bool { return d.VizType == VizTypeBoard }

// IsNodelink returns true if this is a nodelink diagram.
func (d *Diagram) IsNodelink() bool { return d.VizType == VizTypeNodelink }

// Ports are the host interface port counts the diagram was computed with.
type Ports struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
}

// Point is a polyline vertex.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// =============================================================================
// Node - Positioned Chain Element
// =============================================================================

// Node is one positioned element of a board.
type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Kind   string `json:"kind"`
	Plugin string `json:"plugin,omitempty"`

	// Parent and Branch locate nodes inside a split.
	Parent string `json:"parent,omitempty"`
	Branch string `json:"branch,omitempty"`
	Depth  int    `json:"depth,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`

	Missing  bool `json:"missing,omitempty"`
	Disabled bool `json:"disabled,omitempty"`

	Split *Split `json:"split,omitempty"`
}

// Bounds returns the node rectangle.
func (n *Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Split holds the split-only attributes of a node.
type Split struct {
	Mode             string  `json:"mode"`
	Select           string  `json:"select,omitempty"`
	Bridged          bool    `json:"bridged,omitempty"`
	TopBounds        Rect    `json:"top_bounds"`
	BottomBounds     Rect    `json:"bottom_bounds"`
	TopConnectorY    float64 `json:"top_connector_y"`
	BottomConnectorY float64 `json:"bottom_connector_y"`
}

// =============================================================================
// Link - Connector Between Nodes
// =============================================================================

// Link is a connector to draw.
type Link struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Role    string  `json:"role"`
	Branch  string  `json:"branch,omitempty"`
	Flow    string  `json:"flow"`
	Enabled bool    `json:"enabled"`
	Path    []Point `json:"path"`
	Bridge  []Point `json:"bridge,omitempty"`
}

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram serializes a Diagram to pretty-printed JSON bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram.
// Validates that required fields are present for the viz type.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, fmt.Errorf("unmarshal diagram: %w", err)
	}

	if d.VizType == "" {
		d.VizType = VizTypeBoard
	}
	if !IsValidVizType(d.VizType) {
		return Diagram{}, fmt.Errorf("unknown viz type %q", d.VizType)
	}
	if d.IsNodelink() && d.DOT == "" {
		return Diagram{}, fmt.Errorf("nodelink diagram must contain DOT string")
	}
	if d.IsBoard() && len(d.Nodes) > 0 && len(d.Links) == 0 {
		return Diagram{}, fmt.Errorf("board diagram with nodes must contain links")
	}

	return d, nil
}

// WriteFile writes a Diagram to a JSON file.
func WriteFile(d Diagram, path string) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Diagram from a JSON file.
func ReadFile(path string) (Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDiagram(data)
}
