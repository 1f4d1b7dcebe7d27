package pipeline

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// Compute validates c and runs the board engine over it. The diagram is
// style-agnostic; the style is applied at render time.
func Compute(c chain.Chain, opts Options) (*board.Board, diagram.Diagram, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, diagram.Diagram{}, err
	}
	if err := chain.Validate(c.Nodes); err != nil {
		return nil, diagram.Diagram{}, err
	}

	b := board.Compute(c.Nodes, opts.Registry.Snapshot(), opts.Ports())
	d := diagram.FromBoard(b, "", diagram.RegistryLabel(opts.Registry))
	d.Name = c.Name
	return b, d, nil
}

// ChainHash is the content hash of a chain document.
func ChainHash(c chain.Chain) (string, error) {
	var buf bytes.Buffer
	if err := chain.Write(&buf, c, chain.FormatJSON); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// RegistryHash is the content hash of a plugin catalog.
func RegistryHash(reg *registry.Registry) string {
	// Plugins hold only strings and ints, so marshaling cannot fail.
	data, _ := json.Marshal(reg.List())
	return cache.Hash(data)
}

// DiagramStats summarizes a computed diagram.
func DiagramStats(d diagram.Diagram) Stats {
	s := Stats{Nodes: len(d.Nodes), Links: len(d.Links)}
	for _, n := range d.Nodes {
		if n.Split != nil {
			s.Splits++
		}
		if n.Missing {
			s.Missing++
		}
		s.Depth = max(s.Depth, n.Depth)
	}
	return s
}

// MissingPlugins returns the distinct plugin references of missing leaves,
// sorted.
func MissingPlugins(d diagram.Diagram) []string {
	var out []string
	for _, n := range d.Nodes {
		if n.Missing && !slices.Contains(out, n.Plugin) {
			out = append(out, n.Plugin)
		}
	}
	slices.Sort(out)
	return out
}
