package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pedalboard/pkg/registry"
)

func TestPluginsCommand(t *testing.T) {
	isolate(t)

	got, err := runCLI(t, "plugins")
	require.NoError(t, err)
	assert.Contains(t, got, "noisegate")
	assert.Contains(t, got, "mono → stereo")
	assert.Contains(t, got, plural(registry.Default().Len(), "plugin"))

	raw, err := runCLI(t, "plugins", "--category", "drive", "--json")
	require.NoError(t, err)
	var drives []registry.Plugin
	require.NoError(t, json.Unmarshal([]byte(raw), &drives))
	require.NotEmpty(t, drives)
	for _, p := range drives {
		assert.Equal(t, "drive", p.Category)
	}

	none, err := runCLI(t, "plugins", "-c", "theremin")
	require.NoError(t, err)
	assert.Contains(t, none, "No plugins found")
}

func TestPluginsCatalog(t *testing.T) {
	dir := isolate(t)
	catalog := filepath.Join(dir, "plugins.toml")
	require.NoError(t, os.WriteFile(catalog, []byte(`
[[plugins]]
uri = "urn:example:octaver"
name = "Octaver"
category = "pitch"
inputs = 1
outputs = 1
`), 0o644))
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[registry]\ncatalog = \""+catalog+"\"\n"), 0o644))

	got, err := runCLI(t, "--config", cfg, "plugins", "-c", "pitch")
	require.NoError(t, err)
	assert.Contains(t, got, "urn:example:octaver")
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config", appName, "config.toml")

	path, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(path))

	_, err = runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, want)

	_, err = runCLI(t, "config", "init")
	assert.Error(t, err, "init must not overwrite without --force")
	_, err = runCLI(t, "config", "init", "--force")
	assert.NoError(t, err)

	shown, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, shown, "[jack]")
	assert.Contains(t, shown, "[render]")
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)

	path, err := runCLI(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", appName), strings.TrimSpace(path))

	_, err = runCLI(t, "render", writeChain(t), "-f", "svg")
	require.NoError(t, err)

	cleared, err := runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, cleared, "Cleared")
	assert.NotContains(t, cleared, "Cleared 0 ")

	again, err := runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, again, "Cleared 0 cached entries")
}

func TestCompletion(t *testing.T) {
	isolate(t)
	got, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, got, "pedalboard")

	_, err = runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestInspectPlain(t *testing.T) {
	isolate(t)
	got, err := runCLI(t, "inspect", writeChain(t), "--plain")
	require.NoError(t, err)
	assert.Contains(t, got, "urn:unknown:fx")
	assert.Contains(t, got, "missing")
	assert.Contains(t, got, "split/mix")
}
