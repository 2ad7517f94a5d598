// Package config loads moxygen settings from TOML or YAML files.
//
// Settings resolve in three layers: [Default], then a config file, then
// command-line flags (applied by the CLI). A file only needs the keys it
// changes; everything else keeps its default.
//
//	# moxygen.toml
//	directory = "build/xml"
//	output    = "docs/api_%s.md"
//	groups    = true
//
//	[filters]
//	members   = ["func", "public-func"]
//	compounds = ["namespace", "class"]
//
//	[cache]
//	url = "redis://localhost:6379/0"
//
// Values may reference environment variables as $VAR or ${VAR}.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files [Find] looks for, in order.
var FileNames = []string{"moxygen.toml", "moxygen.yaml", "moxygen.yml"}

// Config mirrors the run options that can be set from a file.
type Config struct {
	Directory   string `toml:"directory" yaml:"directory"`
	Output      string `toml:"output" yaml:"output"`
	Groups      bool   `toml:"groups" yaml:"groups"`
	NoIndex     bool   `toml:"noindex" yaml:"noindex"`
	Anchors     bool   `toml:"anchors" yaml:"anchors"`
	Language    string `toml:"language" yaml:"language"`
	Templates   string `toml:"templates" yaml:"templates"`
	FrontMatter bool   `toml:"frontmatter" yaml:"frontmatter"`
	Concurrency int    `toml:"concurrency" yaml:"concurrency"`

	Filters Filters `toml:"filters" yaml:"filters"`
	Cache   Cache   `toml:"cache" yaml:"cache"`
}

// Filters holds the kind allow-lists.
type Filters struct {
	Members   []string `toml:"members" yaml:"members"`
	Compounds []string `toml:"compounds" yaml:"compounds"`
}

// Cache configures the record cache.
type Cache struct {
	Enabled bool     `toml:"enabled" yaml:"enabled"`
	URL     string   `toml:"url" yaml:"url"`
	TTL     Duration `toml:"ttl" yaml:"ttl"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default member and compound kinds. Variables, enum values, private members
// and file compounds are left out.
var (
	DefaultMembers   = []string{"define", "enum", "func", "public-attrib", "public-func", "protected-attrib", "protected-func"}
	DefaultCompounds = []string{"namespace", "class", "struct", "union", "typedef"}
)

// Default returns the built-in settings. Output is left empty so the
// pipeline picks the default for the mode: api.md for a single document,
// %s.md per group.
func Default() Config {
	return Config{
		Anchors:  true,
		Language: "cpp",
		Filters: Filters{
			Members:   append([]string(nil), DefaultMembers...),
			Compounds: append([]string(nil), DefaultCompounds...),
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{7 * 24 * time.Hour},
		},
	}
}

// Load reads a config file over [Default]. The format follows the file
// extension: .toml, .yaml or .yml. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(expanded, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return cfg, nil
}

// Find returns the first of [FileNames] present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Save writes cfg to path in the format implied by its extension.
func Save(cfg Config, path string) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_ = enc.Close()
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
