// Package chain defines the effect chain model consumed by the board engine.
//
// # Overview
//
// A chain is an ordered sequence of [Node] values describing an audio signal
// path. Each node is either a leaf (a single effect, referenced by plugin URI)
// or a split, which carries exactly two parallel sub-chains named top and
// bottom and a [Mode] that decides how they are recombined:
//
//   - [ModeAB]: only the selected branch reaches the output
//   - [ModeMix]: both branches are summed
//   - [ModeLR]: the left channel feeds the top branch, the right the bottom
//
// [KindEmpty] nodes are placeholder slots the editor shows inside otherwise
// empty branches. [KindStart] and [KindEnd] are reserved for the synthetic
// hardware endpoints the board builder adds; documents may not contain them.
//
// # Documents
//
// Chains are stored as JSON, YAML or TOML documents:
//
//	name: clean-and-dirty
//	nodes:
//	  - id: comp
//	    plugin: compressor
//	  - kind: split
//	    mode: lr
//	    top:
//	      - plugin: tubescreamer
//	    bottom:
//	      - plugin: chorus
//	  - plugin: reverb
//
// Use [ReadFile] and [WriteFile] for paths (the format is taken from the file
// extension), or [Read] and [Write] for streams. A node with bypass set is
// disabled: it keeps its place in the chain but is drawn inactive. Nodes
// without an id are given a random UUID on read so that every node has a stable identity for
// the rest of the session. The kind field may be omitted: nodes with a mode or
// branches are splits, everything else is a leaf.
//
// # Validation
//
// [Validate] checks the structural rules the engine relies on: unique and
// well-formed ids, a plugin on every leaf, a valid mode on every split and no
// reserved endpoint kinds.
package chain
