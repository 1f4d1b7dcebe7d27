package render

import (
	"context"
	"testing"

	"github.com/matzehuels/pedalboard/pkg/errors"
)

func TestConvertWithoutConverter(t *testing.T) {
	orig := converter
	converter = "pedalboard-no-such-converter"
	defer func() { converter = orig }()

	if Available() {
		t.Fatal("Available() = true for missing binary")
	}

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if _, err := ToPNG(context.Background(), svg, 2); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPDF(context.Background(), svg); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}
