package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

func testDiagram() diagram.Diagram {
	ab := chain.Split("ab", chain.ModeAB,
		[]chain.Node{chain.Leaf("drive", "tubescreamer")},
		nil,
	)
	ab.Select = chain.BranchBottom
	items := []chain.Node{
		chain.Leaf("tuner", "tuner"),
		ab,
		chain.Leaf("ghost", "not-installed"),
	}
	b := board.Compute(items, registry.Default().Channels, registry.DefaultPorts)
	return diagram.FromBoard(b, diagram.StyleSimple, nil)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDiagram(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"ab" [label="A/B", shape=diamond`,
		`"ab/merge" [shape=point`,
		`"ab" -> "drive"`,
		`"drive" -> "ab/merge"`,
		`"ab" -> "ab/merge"`,
		`"ab/merge" -> "ghost"`,
		`"_start" -> "tuner"`,
		"color=red",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEdgeStyles(t *testing.T) {
	dot := ToDOT(testDiagram(), Options{})

	// The tuner has no outputs, so the trunk after it carries no signal.
	if !strings.Contains(dot, `"tuner" -> "ab" [style=dotted, arrowhead=none]`) {
		t.Errorf("silent connector not dotted\n%s", dot)
	}
	// The top branch is not selected.
	if !strings.Contains(dot, `"ab" -> "drive" [style=dotted, arrowhead=none, color=grey]`) {
		t.Errorf("inactive branch not grey\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testDiagram(), Options{Detailed: true})
	if !strings.Contains(dot, `label="tuner\nin 1 / out 0"`) {
		t.Errorf("detailed label missing\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testDiagram(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg header not normalized:\n%.200s", svg)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
