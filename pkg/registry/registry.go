// Package registry resolves plugin references to their native channel counts.
//
// The board engine only needs one fact about each plugin: how many audio
// channels it accepts and produces (0, 1 or 2). A [Registry] holds that
// metadata for a catalog of plugins and exposes it as a [LookupFunc]. Unknown
// references are reported as not found; the engine substitutes a stereo
// default and flags the node.
//
// [Default] returns a registry pre-populated with a catalog of common effects.
// Additional catalogs can be loaded from TOML or YAML files with
// [Registry.LoadFile].
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	pberrors "github.com/matzehuels/pedalboard/pkg/errors"
)

// Channels is a pair of channel counts, each 0, 1 or 2.
type Channels struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
}

// Stereo is the capability assumed for plugins the registry does not know.
var Stereo = Channels{Inputs: 2, Outputs: 2}

// Ports holds the host audio interface port counts used for the synthetic
// start and end nodes of a board.
type Ports struct {
	Inputs  int `json:"inputs" toml:"inputs" yaml:"inputs"`
	Outputs int `json:"outputs" toml:"outputs" yaml:"outputs"`
}

// DefaultPorts is a stereo-in, stereo-out interface.
var DefaultPorts = Ports{Inputs: 2, Outputs: 2}

// Validate checks that both port counts are 0, 1 or 2.
func (p Ports) Validate() error {
	if !validCount(p.Inputs) || !validCount(p.Outputs) {
		return pberrors.New(pberrors.ErrCodeInvalidConfig, "host ports must be 0, 1 or 2 (got %d in, %d out)", p.Inputs, p.Outputs)
	}
	return nil
}

// LookupFunc resolves a plugin reference to its channel counts.
type LookupFunc func(uri string) (Channels, bool)

// Plugin describes one catalog entry.
type Plugin struct {
	URI      string `json:"uri" toml:"uri" yaml:"uri"`
	Name     string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Category string `json:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty"`
	Inputs   int    `json:"inputs" toml:"inputs" yaml:"inputs"`
	Outputs  int    `json:"outputs" toml:"outputs" yaml:"outputs"`
}

// Channels returns the plugin's channel counts.
func (p Plugin) Channels() Channels {
	return Channels{Inputs: p.Inputs, Outputs: p.Outputs}
}

// Label returns the display name, falling back to the URI.
func (p Plugin) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.URI
}

var errDuplicatePlugin = errors.New("duplicate plugin")

// Registry maps plugin URIs to catalog entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p to the registry. It fails if the URI is malformed, the
// channel counts are out of range, or the URI is already registered.
func (r *Registry) Register(p Plugin) error {
	if err := check(p); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[p.URI]; exists {
		return fmt.Errorf("%w: %s", errDuplicatePlugin, p.URI)
	}
	r.plugins[p.URI] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(p Plugin) {
	if err := r.Register(p); err != nil {
		panic("registry: " + err.Error())
	}
}

// Put adds or replaces p. Catalog files use it so that user entries take
// precedence over the built-in catalog.
func (r *Registry) Put(p Plugin) error {
	if err := check(p); err != nil {
		return err
	}
	r.mu.Lock()
	r.plugins[p.URI] = p
	r.mu.Unlock()
	return nil
}

// Lookup returns the catalog entry for uri.
func (r *Registry) Lookup(uri string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[uri]
	return p, ok
}

// Channels returns the channel counts for uri. It satisfies [LookupFunc].
func (r *Registry) Channels(uri string) (Channels, bool) {
	p, ok := r.Lookup(uri)
	if !ok {
		return Channels{}, false
	}
	return p.Channels(), true
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// List returns all plugins sorted by category, then URI.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Plugin) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.URI, b.URI))
	})
	return out
}

// Snapshot returns a LookupFunc over a copy of the current entries, so later
// registrations do not change the result of a computation in progress.
func (r *Registry) Snapshot() LookupFunc {
	r.mu.RLock()
	snap := make(map[string]Channels, len(r.plugins))
	for uri, p := range r.plugins {
		snap[uri] = p.Channels()
	}
	r.mu.RUnlock()

	return func(uri string) (Channels, bool) {
		c, ok := snap[uri]
		return c, ok
	}
}

func check(p Plugin) error {
	if err := pberrors.ValidatePluginURI(p.URI); err != nil {
		return err
	}
	if !validCount(p.Inputs) || !validCount(p.Outputs) {
		return pberrors.New(pberrors.ErrCodeInvalidPlugin, "plugin %s: channel counts must be 0, 1 or 2 (got %d/%d)", p.URI, p.Inputs, p.Outputs)
	}
	return nil
}

func validCount(n int) bool { return n >= 0 && n <= 2 }
