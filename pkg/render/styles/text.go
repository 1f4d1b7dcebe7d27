package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	captionSize   = 11.0
	charWidth     = captionSize * 0.55
	minLabelChars = 3
)

// TruncateLabel shortens label to fit within width at caption size.
func TruncateLabel(label string, width float64) string {
	maxChars := max(minLabelChars, int(width/charWidth))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
