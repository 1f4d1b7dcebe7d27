package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "simple"},
		{"simple", "simple"},
		{"dark", "dark"},
	}
	for _, tt := range tests {
		s, err := ByName(tt.name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("ByName(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}

	_, err := ByName("neon")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("ByName(neon) error = %v, want INVALID_STYLE", err)
	}
}

func TestRenderLink(t *testing.T) {
	path := []geom.Point{{X: 0, Y: 32}, {X: 64, Y: 32}}

	tests := []struct {
		name      string
		stroke    Stroke
		polylines int
	}{
		{"none", Stroke{Flow: "none", Enabled: true, Points: path}, 0},
		{"mono", Stroke{Flow: "mono", Enabled: true, Points: path}, 1},
		{"stereo", Stroke{Flow: "stereo", Enabled: true, Points: path}, 2},
		{"bridged", Stroke{Flow: "bridged-stereo", Enabled: true, Points: path,
			Bridge: []geom.Point{{X: 32, Y: 0}, {X: 32, Y: 64}}}, 3},
		{"single point", Stroke{Flow: "mono", Enabled: true, Points: path[:1]}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Simple().RenderLink(&buf, tt.stroke)
			if got := strings.Count(buf.String(), "<polyline"); got != tt.polylines {
				t.Errorf("polylines = %d, want %d\n%s", got, tt.polylines, buf.String())
			}
		})
	}
}

func TestRenderLinkDisabled(t *testing.T) {
	var buf bytes.Buffer
	s := Simple()
	s.RenderLink(&buf, Stroke{Flow: "mono", Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}})
	if !strings.Contains(buf.String(), s.Palette.Inactive) {
		t.Errorf("disabled link should use inactive color:\n%s", buf.String())
	}
}

func TestRenderCell(t *testing.T) {
	base := Cell{ID: "fx", X: 64, Y: 0, W: 64, H: 64, CX: 96, CY: 32}

	t.Run("missing", func(t *testing.T) {
		c := base
		c.Kind, c.Missing = "leaf", true
		var buf bytes.Buffer
		Simple().RenderCell(&buf, c)
		for _, want := range []string{`id="node-fx"`, "missing", "error-icon"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("missing %q in:\n%s", want, buf.String())
			}
		}
	})

	t.Run("disabled", func(t *testing.T) {
		c := base
		c.Kind, c.Disabled = "leaf", true
		var buf bytes.Buffer
		Dark().RenderCell(&buf, c)
		if !strings.Contains(buf.String(), "disabled") {
			t.Errorf("disabled class not set:\n%s", buf.String())
		}
	})

	t.Run("split", func(t *testing.T) {
		c := base
		c.Kind, c.Mode, c.MergeX = "split", "A/B", 224
		var buf bytes.Buffer
		Simple().RenderCell(&buf, c)
		out := buf.String()
		if !strings.Contains(out, "A/B") || !strings.Contains(out, `class="merge" cx="224.00"`) {
			t.Errorf("unexpected split output:\n%s", out)
		}
	})
}

func TestRenderTextSkipsSplits(t *testing.T) {
	var buf bytes.Buffer
	Simple().RenderText(&buf, Cell{Kind: "split", Label: "s", W: 64, H: 64})
	if buf.Len() != 0 {
		t.Errorf("split should have no caption, got %q", buf.String())
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		width float64
		want  string
	}{
		{"Delay", 64, "Delay"},
		{"Stereo Widener", 64, "Stereo W.."},
		{"Reverb", 1, "R.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.width); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&#34;c&#34;" {
		t.Errorf("EscapeXML = %q", got)
	}
}
