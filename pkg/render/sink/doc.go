// Package sink writes computed board diagrams to output formats.
//
// [RenderSVG] is the primary sink; [RenderPNG] and [RenderPDF] convert its
// output with librsvg, and [RenderJSON] emits the serialized diagram for
// caching and round-trip rendering.
//
// All sinks take a [diagram.Diagram] rather than a live board so that a
// cached layout can be re-rendered without recomputing it.
package sink
