// Package config loads pedalboard settings from a TOML file.
//
// The default location follows XDG: $XDG_CONFIG_HOME/pedalboard/config.toml,
// falling back to ~/.config/pedalboard/config.toml. A missing file is not an
// error; [Default] values apply.
//
//	[jack]
//	inputs = 2
//	outputs = 2
//
//	[registry]
//	catalog = "~/.config/pedalboard/plugins.toml"
//
//	[cache]
//	backend = "file"     # none, file or redis
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//
//	[render]
//	style = "dark"
//	formats = ["svg", "png"]
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

const appName = "pedalboard"

// Config is the complete file-backed configuration.
type Config struct {
	Jack     Jack     `toml:"jack"`
	Registry Registry `toml:"registry"`
	Cache    Cache    `toml:"cache"`
	Render   Render   `toml:"render"`
	Server   Server   `toml:"server"`
}

// Jack holds the host audio interface port counts.
type Jack struct {
	Inputs  int `toml:"inputs"`
	Outputs int `toml:"outputs"`
}

// Registry points at an optional plugin catalog merged over the built-ins.
type Registry struct {
	Catalog string `toml:"catalog,omitempty"`
}

// Cache selects the layout and artifact cache backend.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir,omitempty"`
	RedisURL string        `toml:"redis_url,omitempty"`
	Prefix   string        `toml:"prefix,omitempty"`
	TTL      time.Duration `toml:"ttl,omitempty"`
}

// Render holds default output settings.
type Render struct {
	VizType     string   `toml:"viz_type"`
	Style       string   `toml:"style"`
	Formats     []string `toml:"formats"`
	Scale       float64  `toml:"scale,omitempty"`
	Interactive bool     `toml:"interactive,omitempty"`
}

// Server configures `pedalboard serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Jack:  Jack{Inputs: registry.DefaultPorts.Inputs, Outputs: registry.DefaultPorts.Outputs},
		Cache: Cache{Backend: cache.BackendFile, TTL: cache.TTLLayout},
		Render: Render{
			VizType: diagram.VizTypeBoard,
			Style:   diagram.StyleSimple,
			Formats: []string{"svg"},
			Scale:   2.0,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the XDG cache directory (~/.cache/pedalboard/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config at the default path, returning defaults when the
// file does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads and validates the config at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Config{}, err
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of [Default]. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Registry.Catalog = expandHome(cfg.Registry.Catalog)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := c.Ports().Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if !diagram.IsValidVizType(c.Render.VizType) {
		return errors.New(errors.ErrCodeInvalidVizType, "render.viz_type %q (must be one of: %s)", c.Render.VizType, strings.Join(diagram.VizTypes, ", "))
	}
	if !diagram.IsValidStyle(c.Render.Style) {
		return errors.New(errors.ErrCodeInvalidStyle, "render.style %q (must be one of: %s)", c.Render.Style, strings.Join(diagram.Styles, ", "))
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "render.formats: %q (must be one of: %s)", f, strings.Join(Formats, ", "))
		}
	}
	if c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must not be negative")
	}
	return nil
}

// Formats lists the output formats accepted in render.formats.
var Formats = []string{"svg", "png", "pdf", "json"}

// Ports returns the jack settings as registry ports.
func (c Config) Ports() registry.Ports {
	return registry.Ports{Inputs: c.Jack.Inputs, Outputs: c.Jack.Outputs}
}

// CacheOptions returns the cache settings, defaulting the file cache to the
// XDG cache directory.
func (c Config) CacheOptions() cache.Options {
	opts := cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		Prefix:   c.Cache.Prefix,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			opts.Dir = dir
		} else {
			opts.Backend = cache.BackendNone
		}
	}
	return opts
}

// LoadRegistry returns the built-in registry merged with the configured
// catalog, if any.
func (c Config) LoadRegistry() (*registry.Registry, error) {
	reg := registry.Default()
	if c.Registry.Catalog == "" {
		return reg, nil
	}
	if _, err := reg.LoadFile(c.Registry.Catalog); err != nil {
		return nil, err
	}
	return reg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// WriteFile writes cfg to path, creating parent directories.
func WriteFile(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
