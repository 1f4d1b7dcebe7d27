// Package pkg provides the core libraries for Pedalboard chain diagrams.
//
// # Overview
//
// Pedalboard turns an audio effect chain (a sequence of plugins, any of which
// may be a split running two parallel sub-chains) into a deterministic 2-D
// board layout with resolved mono/stereo channel counts on every node. The
// pkg directory is organized into three areas:
//
//  1. Domain logic ([chain], [registry], [board], [geom])
//  2. Rendering ([diagram], [render] and its style, sink and nodelink subpackages)
//  3. Infrastructure ([pipeline], [cache], [config], [observability], [server], [errors])
//
// # Architecture
//
// The typical data flow through Pedalboard:
//
//	Chain document (YAML, TOML or JSON)
//	         ↓
//	    [chain] package (parse + validate)
//	         ↓
//	    [board] package (build tree, lay out, propagate channels)
//	         ↓
//	    [diagram] package (serializable board or nodelink diagram)
//	         ↓
//	    [render] packages (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pedalboard/pkg/chain"
//	    "github.com/matzehuels/pedalboard/pkg/pipeline"
//	)
//
//	c, _ := chain.ReadFile("rig.yaml")
//	opts := pipeline.Options{Formats: []string{"svg"}}
//
//	_, d, _ := pipeline.Compute(c, opts)
//	artifacts, _ := pipeline.Render(context.Background(), d, opts)
//
// # Main Packages
//
// [board] - The layout and channel-flow engine. Builds a tree mirroring the
// chain, places every node on a fixed cell grid with splits branching
// vertically, resolves input/output channel counts with a forward and a
// backward sweep, and answers hit-tests for drag-and-drop.
//
// [pipeline] - Complete flow (parse → layout → render) shared by the CLI and
// the HTTP server, with a caching [pipeline.Runner].
//
// [cache] - File, Redis and null cache backends for layouts and artifacts.
//
// [server] - HTTP API exposing layout, render and hit-testing.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/board/...    # Specific package
//	go test -run Example       # Examples only
//
// [chain]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/chain
// [registry]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/registry
// [board]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/board
// [geom]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/geom
// [diagram]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/pedalboard/pkg/errors
package pkg
