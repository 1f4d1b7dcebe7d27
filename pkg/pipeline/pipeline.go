// Package pipeline runs the chain → board → artifact pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Compute: validate the chain, build the board tree, lay it out,
//     propagate channel counts and decide connectors; the result is
//     flattened into a [diagram.Diagram].
//  2. Render: turn the diagram into one or more output formats (SVG, PNG,
//     PDF, JSON), either as a board drawing or a Graphviz node-link graph.
//
// Both stages are cached through a [cache.Cache]; keys are derived from
// content hashes, so identical chains on identical rigs hit the same entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, ch, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = diagram.VizTypeBoard

	// DefaultStyle is the default visual style.
	DefaultStyle = diagram.StyleSimple

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Host ports; zero values take registry.DefaultPorts.
	Inputs  int `json:"inputs,omitempty"`
	Outputs int `json:"outputs,omitempty"`

	// Render options
	VizType     string   `json:"viz_type,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // channel counts in node-link labels
	Scale       float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Registry *registry.Registry `json:"-"`
	Logger   *log.Logger        `json:"-"`
	// PortsSet marks Inputs/Outputs as explicit so that zero ports survive
	// defaulting.
	PortsSet bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram     diagram.Diagram
	DiagramHash string
	Artifacts   map[string][]byte
	Missing     []string
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains board statistics and stage timings.
type Stats struct {
	Nodes       int
	Splits      int
	Missing     int
	Depth       int
	Links       int
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !diagram.IsValidStyle(style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(diagram.Styles, ", "))
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !diagram.IsValidVizType(vizType) {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: %s)", vizType, strings.Join(diagram.VizTypes, ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills in host ports, registry and logger.
func (o *Options) SetLayoutDefaults() {
	if !o.PortsSet && o.Inputs == 0 && o.Outputs == 0 {
		o.Inputs, o.Outputs = registry.DefaultPorts.Inputs, registry.DefaultPorts.Outputs
	}
	o.PortsSet = true
	if o.Registry == nil {
		o.Registry = registry.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks the host ports.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Ports().Validate()
}

// SetRenderDefaults fills in render settings.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

// Ports returns the host ports.
func (o *Options) Ports() registry.Ports {
	return registry.Ports{Inputs: o.Inputs, Outputs: o.Outputs}
}

// IsNodelink reports whether the node-link renderer is selected.
func (o *Options) IsNodelink() bool {
	return o.VizType == diagram.VizTypeNodelink
}

// LayoutKeyOpts returns cache key options for board computation.
func (o *Options) LayoutKeyOpts(registryHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:      diagram.VizTypeBoard,
		Inputs:       o.Inputs,
		Outputs:      o.Outputs,
		RegistryHash: registryHash,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      fmt.Sprintf("%s.%s", o.VizType, format),
		Style:       o.Style,
		Interactive: o.Interactive,
		Detailed:    o.Detailed && o.IsNodelink(),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
