// Package render turns computed pedalboards into visual outputs.
//
// # Overview
//
// The rendering pipeline consumes a [diagram.Diagram] produced by the board
// engine. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Board drawings (in the [sink] and [styles] subpackages)
//   - Node-link diagrams of the chain tree (in [nodelink])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both board and node-link
// renderers use them.
//
//	svg := sink.RenderSVG(d, sink.WithStyle(styles.Dark()))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing the functions return an
// [errors.ErrCodeUnsupported] error; [Available] checks ahead of time.
//
// # Board Drawings
//
// Boards are drawn cell by cell. Connectors carry one stroke for mono, two
// separated strokes for stereo, and an extra bridge stroke where an L/R split
// recombines two mono branches into stereo. Links that do not carry signal
// (the unselected branch of an A/B split) are drawn in a muted color beneath
// the active ones.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the chain as a Graphviz graph, one box
// per effect and a fork/merge pair per split:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [diagram.Diagram]: github.com/matzehuels/pedalboard/pkg/diagram.Diagram
// [errors.ErrCodeUnsupported]: github.com/matzehuels/pedalboard/pkg/errors.ErrCodeUnsupported
// [sink]: github.com/matzehuels/pedalboard/pkg/render/sink
// [styles]: github.com/matzehuels/pedalboard/pkg/render/styles
// [nodelink]: github.com/matzehuels/pedalboard/pkg/render/nodelink
package render
