package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"gif", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateStyleAndVizType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"simple", ValidateStyle("simple"), false},
		{"dark", ValidateStyle("dark"), false},
		{"handdrawn", ValidateStyle("handdrawn"), true},
		{"board", ValidateVizType("board"), false},
		{"nodelink", ValidateVizType("nodelink"), false},
		{"tower", ValidateVizType("tower"), true},
	}
	for _, tt := range tests {
		if (tt.err != nil) != tt.want {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, tt.err, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if opts.Ports() != registry.DefaultPorts {
		t.Errorf("ports = %+v, want %+v", opts.Ports(), registry.DefaultPorts)
	}
	if opts.VizType != DefaultVizType || opts.Style != DefaultStyle || opts.Scale != DefaultScale {
		t.Errorf("render defaults = %s/%s/%v", opts.VizType, opts.Style, opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v", opts.Formats)
	}
	if opts.Registry == nil || opts.Logger == nil {
		t.Error("registry and logger should be defaulted")
	}
}

func TestOptionsExplicitZeroPorts(t *testing.T) {
	opts := Options{PortsSet: true}
	opts.SetLayoutDefaults()
	if opts.Inputs != 0 || opts.Outputs != 0 {
		t.Errorf("explicit zero ports were overridden: %+v", opts.Ports())
	}
}

func TestOptionsInvalidPorts(t *testing.T) {
	opts := Options{Inputs: 3, Outputs: 2}
	if err := opts.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	board := Options{VizType: "board", Style: "simple", Scale: 2}
	nodelink := Options{VizType: "nodelink", Style: "simple", Scale: 2}
	if board.ArtifactKeyOpts("svg") == nodelink.ArtifactKeyOpts("svg") {
		t.Error("viz type must be part of the artifact key")
	}
	if board.ArtifactKeyOpts("svg").Scale != 0 {
		t.Error("scale only matters for png")
	}
	if board.ArtifactKeyOpts("png").Scale != 2 {
		t.Error("png key should include scale")
	}
}

func TestContentType(t *testing.T) {
	for format, want := range map[string]string{
		"svg":  "image/svg+xml",
		"png":  "image/png",
		"pdf":  "application/pdf",
		"json": "application/json",
		"xyz":  "application/octet-stream",
	} {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%s) = %s, want %s", format, got, want)
		}
	}
}

func testChain() chain.Chain {
	return chain.Chain{
		Name: "rig",
		Nodes: []chain.Node{
			chain.Leaf("gate", "noisegate"),
			chain.Split("dual", chain.ModeMix,
				[]chain.Node{chain.Leaf("drive", "overdrive")},
				[]chain.Node{chain.Leaf("mystery", "urn:unknown:fx")},
			),
			chain.Leaf("verb", "reverb"),
		},
	}
}

func TestCompute(t *testing.T) {
	b, d, err := Compute(testChain(), Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if d.Name != "rig" || d.VizType != diagram.VizTypeBoard {
		t.Errorf("diagram header = %q/%q", d.Name, d.VizType)
	}
	if got, want := len(d.Nodes), b.Stats().Nodes; got != want {
		t.Errorf("diagram has %d nodes, board %d", got, want)
	}

	stats := DiagramStats(d)
	if stats.Splits != 1 || stats.Missing != 1 || stats.Depth != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if missing := MissingPlugins(d); len(missing) != 1 || missing[0] != "urn:unknown:fx" {
		t.Errorf("MissingPlugins = %v", missing)
	}
}

func TestComputeInvalidChain(t *testing.T) {
	c := chain.Chain{Nodes: []chain.Node{chain.Leaf("a", "fuzz"), chain.Leaf("a", "fuzz")}}
	_, _, err := Compute(c, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidChain) {
		t.Errorf("error = %v, want INVALID_CHAIN", err)
	}
}

func TestChainHash(t *testing.T) {
	h1, err := ChainHash(testChain())
	if err != nil {
		t.Fatal(err)
	}
	c := testChain()
	c.Nodes[0].Enabled = false
	h2, _ := ChainHash(c)
	if h1 == h2 {
		t.Error("bypassing a node must change the chain hash")
	}
}

func TestRegistryHash(t *testing.T) {
	reg := registry.Default()
	h1 := RegistryHash(reg)
	reg.MustRegister(registry.Plugin{URI: "urn:example:octaver", Inputs: 1, Outputs: 1})
	if h1 == RegistryHash(reg) {
		t.Error("registering a plugin must change the registry hash")
	}
}

func TestRenderBoard(t *testing.T) {
	_, d, err := Compute(testChain(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), d, Options{Formats: []string{"svg", "json"}, Style: "dark"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(string(artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	back, err := diagram.UnmarshalDiagram(artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if back.Style != "dark" {
		t.Errorf("json style = %q, want dark", back.Style)
	}
}

func TestRenderNodelink(t *testing.T) {
	_, d, err := Compute(testChain(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), d, Options{VizType: "nodelink", Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	back, err := diagram.UnmarshalDiagram(artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !back.IsNodelink() || !strings.Contains(back.DOT, `"dual/merge"`) {
		t.Errorf("nodelink json = %+v", back)
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	_, err := Render(context.Background(), diagram.Diagram{}, Options{Style: "neon"})
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error = %v, want INVALID_STYLE", err)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Formats: []string{"svg", "json"}}
	first, err := r.Execute(ctx, testChain(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, testChain(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if first.DiagramHash != second.DiagramHash {
		t.Error("diagram hash should be stable")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, testChain(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh should bypass the cache")
	}

	other := Options{Formats: []string{"svg"}, Inputs: 1, Outputs: 1}
	fourth, err := r.Execute(ctx, testChain(), other)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("different ports must not share a cached layout")
	}
}

func TestRenderStoredNodelink(t *testing.T) {
	_, d, err := Compute(testChain(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{VizType: "nodelink", Formats: []string{"json"}}
	first, err := Render(context.Background(), d, opts)
	if err != nil {
		t.Fatal(err)
	}
	stored, err := diagram.UnmarshalDiagram(first["json"])
	if err != nil {
		t.Fatal(err)
	}

	again, err := Render(context.Background(), stored, opts)
	if err != nil {
		t.Fatalf("re-render of stored nodelink diagram: %v", err)
	}
	back, _ := diagram.UnmarshalDiagram(again["json"])
	if back.DOT != stored.DOT {
		t.Error("stored DOT should be reused verbatim")
	}

	_, err = Render(context.Background(), stored, Options{Formats: []string{"svg"}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("board render of nodelink diagram: error = %v, want UNSUPPORTED", err)
	}
}
