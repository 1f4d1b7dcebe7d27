// Package nodelink renders a board as a plain node-link graph using Graphviz.
//
// It is an alternative to the board drawing for large or deeply nested chains
// where the grid layout gets wide. Every split becomes two graph nodes, the
// fork (labelled with the split mode) and its merge point, so parallel
// branches show up as parallel paths between them.
//
// # Usage
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Edge thickness follows the signal on the connector: mono edges are thin,
// stereo edges thick, and connectors without signal are dotted. Edges in a
// bypassed region or an unselected A/B branch are dashed and grey.
//
// [RenderPDF] and [RenderPNG] convert the SVG with librsvg.
package nodelink
