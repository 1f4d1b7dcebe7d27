package cache

import "fmt"

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies the diagram computed for a chain.
	LayoutKey(chainHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the chain that change a computed board.
type LayoutKeyOpts struct {
	VizType      string `json:"viz_type"`
	Inputs       int    `json:"inputs"`
	Outputs      int    `json:"outputs"`
	RegistryHash string `json:"registry_hash"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Interactive bool    `json:"interactive,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(chainHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", chainHash, opts)
}

func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return fmt.Sprintf("%s:%s", hashKey("artifact", diagramHash, opts), opts.Format)
}
