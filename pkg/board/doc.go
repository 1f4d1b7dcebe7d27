// Package board computes the geometry and channel flow of a pedalboard.
//
// # Overview
//
// Given a chain (see [chain.Node]) and a plugin registry, the engine produces
// a tree of [Node] values that mirrors the chain one to one, annotated with:
//
//   - Bounds: the rectangle each node occupies in the diagram
//   - Inputs/Outputs: the resolved channel count (0, 1 or 2) on each side
//   - TopConnectorY/BottomConnectorY: where a split's branches attach
//
// The pipeline is a sequence of pure passes, each returning a new tree:
//
//	nodes := board.Build(items, reg.Channels, ports)  // mirror + capabilities
//	laid, size := board.Layout(nodes)                 // bounds
//	resolved := board.Propagate(laid, ports)          // channel counts
//	links := board.Connectors(resolved)               // strokes to draw
//
// [Compute] runs all of them and returns a [Board].
//
// # Layout
//
// Every non-split node occupies one [CellWidth] x [CellHeight] cell, laid out
// left to right. A split takes an icon cell, then its two branches stacked
// vertically (top above the trunk line, bottom below it), then a merge cell.
// After placement the diagram is shifted so that no node has a negative y,
// padded to at least [MinHeight], and given [CaptionMargin] at the bottom.
//
// # Channel flow
//
// [Forward] walks the tree in signal order, limiting each node's input by
// what arrives from upstream and taking its output from the registry.
// [Backward] walks it in reverse and clamps outputs by what the downstream
// node accepts. Backward only ever lowers counts. L/R splits feed each branch
// a mono signal and produce stereo from two mono branches; the merge of such
// a split is drawn with an extra bridge stroke ([FlowBridgedStereo]).
//
// # Queries
//
// [Walk] is a restartable pre-order traversal over the tree, used by the
// renderers. [HitTest] maps a pointer position to a drop target for
// drag-and-drop editing.
//
// Unknown plugins never cause an error: the node gets a stereo capability and
// [Node.Missing] is set so renderers can draw a warning.
package board
