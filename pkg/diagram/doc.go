// Package diagram provides the serialization format for computed pedalboards.
//
// This package defines the wire format between the board engine and
// everything that consumes its output: the SVG and PNG renderers, the JSON
// sink, the HTTP API and the on-disk layout cache.
//
// # Architecture
//
//   - [Diagram]: Serialization type (this package)
//   - pkg/board.Board: Internal tree with bounds, channel counts and links
//
// Use [FromBoard] to flatten a board and [Diagram.Board] to rebuild the tree,
// for example to hit-test a diagram that was computed elsewhere.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	diagram.VizTypeBoard     // "board"
//	diagram.VizTypeNodelink  // "nodelink"
//	diagram.StyleSimple      // "simple"
//	diagram.StyleDark        // "dark"
//
// # Format
//
// Nodes are listed in pre-order. Nodes inside a split name their parent and
// branch, which is enough to rebuild the tree:
//
//	{
//	  "viz_type": "board",
//	  "width": 320, "height": 144,
//	  "nodes": [
//	    {"id": "_start", "kind": "start", "x": 0, "y": 32, ...},
//	    {"id": "lr", "kind": "split", "mode": "lr", ...},
//	    {"id": "left", "kind": "leaf", "parent": "lr", "branch": "top", ...}
//	  ],
//	  "links": [
//	    {"from": "_start", "to": "lr", "role": "trunk", "flow": "stereo", ...}
//	  ]
//	}
package diagram
