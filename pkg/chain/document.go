package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pedalboard/pkg/errors"
)

// Format identifies a chain document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer chain format from %q (want .json, .yaml or .toml)", path)
}

type document struct {
	Name  string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes []docNode `json:"nodes" yaml:"nodes" toml:"nodes"`
}

type docNode struct {
	ID      string    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Kind    string    `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Plugin  string    `json:"plugin,omitempty" yaml:"plugin,omitempty" toml:"plugin,omitempty"`
	Bypass  bool      `json:"bypass,omitempty" yaml:"bypass,omitempty" toml:"bypass,omitempty"`
	Mode    string    `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	Select  string    `json:"select,omitempty" yaml:"select,omitempty" toml:"select,omitempty"`
	Top     []docNode `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty"`
	Bottom  []docNode `json:"bottom,omitempty" yaml:"bottom,omitempty" toml:"bottom,omitempty"`
}

// Read decodes a chain document from r. Nodes without an id are assigned a
// random UUID. The result is validated before it is returned.
func Read(r io.Reader, format Format) (Chain, error) {
	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Chain{}, errors.Wrap(errors.ErrCodeInvalidChain, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return Chain{}, errors.Wrap(errors.ErrCodeInvalidChain, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return Chain{}, errors.Wrap(errors.ErrCodeInvalidChain, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Chain{}, errors.New(errors.ErrCodeInvalidChain, "unknown toml key %q", undecoded[0].String())
		}
	default:
		return Chain{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported chain format %q", format)
	}

	nodes, err := fromDoc(doc.Nodes)
	if err != nil {
		return Chain{}, err
	}
	if err := Validate(nodes); err != nil {
		return Chain{}, err
	}
	return Chain{Name: doc.Name, Nodes: nodes}, nil
}

// Parse decodes a chain document held in memory.
func Parse(data []byte, format Format) (Chain, error) {
	return Read(bytes.NewReader(data), format)
}

// ReadFile reads a chain document, inferring the format from the extension.
func ReadFile(path string) (Chain, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Chain{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Chain{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "chain file %s", path)
		}
		return Chain{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Read(f, format)
	if err != nil {
		return Chain{}, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// Write encodes c to w in the given format.
func Write(w io.Writer, c Chain, format Format) error {
	doc := document{Name: c.Name, Nodes: toDoc(c.Nodes)}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported chain format %q", format)
	}
	return nil
}

// WriteFile writes c to path, inferring the format from the extension.
func WriteFile(c Chain, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, c, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fromDoc(in []docNode) ([]Node, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Node, 0, len(in))
	for _, d := range in {
		n := Node{ID: d.ID, Plugin: d.Plugin, Enabled: !d.Bypass}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}

		switch {
		case d.Kind != "":
			k, err := ParseKind(d.Kind)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidChain, err, "node %q", n.ID)
			}
			n.Kind = k
		case d.Mode != "" || len(d.Top) > 0 || len(d.Bottom) > 0:
			n.Kind = KindSplit
		default:
			n.Kind = KindLeaf
		}

		if n.Kind == KindSplit {
			if d.Mode != "" {
				m, err := ParseMode(d.Mode)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidChain, err, "split %q", n.ID)
				}
				n.Mode = m
			}
			b, err := ParseBranch(d.Select)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidChain, err, "split %q", n.ID)
			}
			n.Select = b
			if n.Top, err = fromDoc(d.Top); err != nil {
				return nil, err
			}
			if n.Bottom, err = fromDoc(d.Bottom); err != nil {
				return nil, err
			}
		} else if len(d.Top) > 0 || len(d.Bottom) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidChain, "%s node %q cannot have branches", n.Kind, n.ID)
		}
		out = append(out, n)
	}
	return out, nil
}

func toDoc(in []Node) []docNode {
	if len(in) == 0 {
		return nil
	}
	out := make([]docNode, len(in))
	for i, n := range in {
		d := docNode{ID: n.ID, Plugin: n.Plugin, Bypass: !n.Enabled}
		if n.Kind != KindLeaf {
			d.Kind = n.Kind.String()
		}
		if n.Kind == KindSplit {
			d.Mode = n.Mode.String()
			if n.Mode == ModeAB {
				d.Select = n.Select.String()
			}
			d.Top = toDoc(n.Top)
			d.Bottom = toDoc(n.Bottom)
		}
		out[i] = d
	}
	return out
}
