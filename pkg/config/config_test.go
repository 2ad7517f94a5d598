package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Output)
	assert.False(t, cfg.Groups)
	assert.False(t, cfg.NoIndex)
	assert.True(t, cfg.Anchors)
	assert.Equal(t, "cpp", cfg.Language)
	assert.Equal(t, DefaultMembers, cfg.Filters.Members)
	assert.Equal(t, DefaultCompounds, cfg.Filters.Compounds)

	// Callers may modify their copy freely.
	cfg.Filters.Members[0] = "changed"
	assert.Equal(t, "define", Default().Filters.Members[0])
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "moxygen.toml", `
directory = "xml"
output = "api_%s.md"
groups = true

[filters]
members = ["func"]

[cache]
ttl = "2h"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.Directory)
	assert.Equal(t, "api_%s.md", cfg.Output)
	assert.True(t, cfg.Groups)
	assert.True(t, cfg.Anchors, "unset keys keep defaults")
	assert.Equal(t, []string{"func"}, cfg.Filters.Members)
	assert.Equal(t, DefaultCompounds, cfg.Filters.Compounds)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL.Duration)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("MOXYGEN_TEST_REDIS", "redis://cache:6379/1")
	path := writeFile(t, "moxygen.yaml", `
noindex: true
anchors: false
filters:
  compounds: [class]
cache:
  url: ${MOXYGEN_TEST_REDIS}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.NoIndex)
	assert.False(t, cfg.Anchors)
	assert.Equal(t, []string{"class"}, cfg.Filters.Compounds)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.URL)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "moxygen.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"unknown toml key", "m.toml", "colour = \"red\"\n", "unknown keys: colour"},
		{"unknown yaml key", "m.yaml", "colour: red\n", "colour"},
		{"bad toml", "m.toml", "output = \n", "parse"},
		{"bad duration", "m.toml", "[cache]\nttl = \"soon\"\n", "parse"},
		{"unsupported", "m.json", "{}", "unsupported config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, ok := Find(dir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "moxygen.yml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moxygen.toml"), nil, 0o644))
	path, ok := Find(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "moxygen.toml"), path)
}

func TestSaveThenLoad(t *testing.T) {
	cfg := Default()
	cfg.Groups = true
	cfg.Output = "out/%s.md"

	for _, name := range []string{"moxygen.toml", "moxygen.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(cfg, path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}
