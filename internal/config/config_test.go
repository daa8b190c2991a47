package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, FormatJSON, cfg.Format)
	assert.False(t, cfg.FilterNulls)
	assert.Equal(t, "", cfg.KeyCase)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, 200, cfg.MaxDepth)
	assert.Equal(t, 500, cfg.DebounceMs)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonview.yml")
	content := `
format: tree
filter_nulls: true
key_case: snake
indent: 4
max_depth: 50
debounce_ms: 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, FormatTree, cfg.Format)
	assert.True(t, cfg.FilterNulls)
	assert.Equal(t, "snake", cfg.KeyCase)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, 250, cfg.DebounceMs)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonview.yml")
	require.NoError(t, os.WriteFile(path, []byte("filter_nulls: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.FilterNulls)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 200, cfg.MaxDepth)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad format", "format: xml\n"},
		{"bad key case", "key_case: pascal\n"},
		{"zero indent", "indent: 0\n"},
		{"zero max depth", "max_depth: 0\n"},
		{"negative debounce", "debounce_ms: -1\n"},
		{"not yaml", "{{nope\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, ".jsonview.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfigWithCLI_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonview.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\nindent: 4\n"), 0644))

	cfg, err := LoadConfigWithCLI(path, FormatTree, "camel", true, 3)
	require.NoError(t, err)

	assert.Equal(t, FormatTree, cfg.Format)
	assert.Equal(t, "camel", cfg.KeyCase)
	assert.True(t, cfg.FilterNulls)
	assert.Equal(t, 3, cfg.Indent)
}

func TestLoadConfigWithCLI_DefaultsDoNotMaskFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonview.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\nfilter_nulls: true\nindent: 4\n"), 0644))

	// All CLI values at their flag defaults: the file wins.
	cfg, err := LoadConfigWithCLI(path, FormatJSON, "", false, 2)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, cfg.Format)
	assert.True(t, cfg.FilterNulls)
	assert.Equal(t, 4, cfg.Indent)
}

func TestLoadConfigWithCLI_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", FormatTree, "", false, 2)
	require.NoError(t, err)

	assert.Equal(t, FormatTree, cfg.Format)
	assert.Equal(t, 200, cfg.MaxDepth)
}
