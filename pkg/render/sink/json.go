package sink

import "github.com/matzehuels/pedalboard/pkg/diagram"

// RenderJSON exports the diagram as pretty-printed JSON. The output can be
// read back with [diagram.UnmarshalDiagram] and rendered again identically.
func RenderJSON(d diagram.Diagram) ([]byte, error) {
	return diagram.MarshalDiagram(d)
}
