package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	pberrors "github.com/matzehuels/pedalboard/pkg/errors"
)

// catalog is the on-disk format of a plugin catalog:
//
//	[[plugins]]
//	uri = "http://example.org/plugins/octaver"
//	name = "Octaver"
//	inputs = 1
//	outputs = 1
type catalog struct {
	Plugins []Plugin `toml:"plugins" yaml:"plugins"`
}

// LoadFile merges a TOML or YAML catalog into r, replacing existing entries
// with the same URI. It returns the number of plugins read.
func (r *Registry) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, pberrors.Wrap(pberrors.ErrCodeFileNotFound, err, "plugin catalog %s", path)
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var yamlFormat bool
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
	case ".yaml", ".yml":
		yamlFormat = true
	default:
		return 0, pberrors.New(pberrors.ErrCodeInvalidFormat, "catalog %s: want .toml, .yaml or .yml", path)
	}

	n, err := r.Load(f, yamlFormat)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Load merges a catalog read from rd. YAML is expected when yamlFormat is
// set, TOML otherwise.
func (r *Registry) Load(rd io.Reader, yamlFormat bool) (int, error) {
	var c catalog
	if yamlFormat {
		if err := yaml.NewDecoder(rd).Decode(&c); err != nil && err != io.EOF {
			return 0, pberrors.Wrap(pberrors.ErrCodeInvalidPlugin, err, "decode catalog")
		}
	} else if _, err := toml.NewDecoder(rd).Decode(&c); err != nil {
		return 0, pberrors.Wrap(pberrors.ErrCodeInvalidPlugin, err, "decode catalog")
	}

	for _, p := range c.Plugins {
		if err := r.Put(p); err != nil {
			return 0, err
		}
	}
	return len(c.Plugins), nil
}
