package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/render"
	"github.com/matzehuels/pedalboard/pkg/render/nodelink"
	"github.com/matzehuels/pedalboard/pkg/render/sink"
	"github.com/matzehuels/pedalboard/pkg/render/styles"
)

// Render generates the requested formats of d concurrently.
func Render(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if d.IsNodelink() && !opts.IsNodelink() {
		return nil, errors.New(errors.ErrCodeUnsupported, "a nodelink diagram cannot be drawn as a %s", opts.VizType)
	}

	fn := boardFormat
	if opts.IsNodelink() {
		fn = nodelinkRenderer(d, opts)
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := fn(ctx, d, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

type formatFunc func(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error)

func boardFormat(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(d, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, d, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, d, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		d.Style = opts.Style
		return sink.RenderJSON(d)
	}
	return nil, fmt.Errorf("unsupported board format: %s", format)
}

// nodelinkRenderer shares one Graphviz run between the SVG, PNG and PDF
// outputs. A nodelink diagram is drawn from its stored DOT source.
func nodelinkRenderer(d diagram.Diagram, opts Options) formatFunc {
	dot := d.DOT
	if !d.IsNodelink() {
		dot = nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed})
	}
	var (
		once sync.Once
		svg  []byte
		err  error
	)
	renderSVG := func(ctx context.Context) ([]byte, error) {
		once.Do(func() { svg, err = nodelink.RenderSVG(ctx, dot) })
		return svg, err
	}

	return func(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error) {
		switch format {
		case FormatJSON:
			return diagram.MarshalDiagram(NodelinkDiagram(d, dot))
		case FormatSVG:
			return renderSVG(ctx)
		}
		svg, err := renderSVG(ctx)
		if err != nil {
			return nil, err
		}
		switch format {
		case FormatPNG:
			return render.ToPNG(ctx, svg, opts.Scale)
		case FormatPDF:
			return render.ToPDF(ctx, svg)
		}
		return nil, fmt.Errorf("unsupported nodelink format: %s", format)
	}
}

// NodelinkDiagram wraps DOT source in the serialization format.
func NodelinkDiagram(d diagram.Diagram, dot string) diagram.Diagram {
	return diagram.Diagram{
		VizType: diagram.VizTypeNodelink,
		Name:    d.Name,
		Ports:   d.Ports,
		DOT:     dot,
		Engine:  nodelink.Engine,
	}
}
