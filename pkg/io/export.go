package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/zendapi/moxygen/pkg/doctree"
)

type document struct {
	Root    string           `json:"root"`
	Meta    *meta            `json:"meta,omitempty"`
	Records []doctree.Record `json:"records"`
}

type meta struct {
	ID        string `json:"id"`
	Generator string `json:"generator,omitempty"`
}

// WriteOption configures [WriteJSON].
type WriteOption func(*writeConfig)

type writeConfig struct {
	generator string
	compact   bool
}

// WithGenerator records the producing tool in the document metadata.
func WithGenerator(name string) WriteOption {
	return func(c *writeConfig) { c.generator = name }
}

// WithCompact disables indentation. Used for cache payloads.
func WithCompact() WriteOption {
	return func(c *writeConfig) { c.compact = true }
}

// WriteJSON encodes a record set as JSON and writes it to w. Each export is
// stamped with a fresh random ID. The output can be re-imported with
// [ReadJSON].
func WriteJSON(set *doctree.RecordSet, w io.Writer, opts ...WriteOption) error {
	var cfg writeConfig
	for _, o := range opts {
		o(&cfg)
	}

	out := document{
		Root:    set.RootID,
		Meta:    &meta{ID: uuid.NewString(), Generator: cfg.generator},
		Records: set.Records(),
	}
	if out.Records == nil {
		out.Records = []doctree.Record{}
	}

	enc := json.NewEncoder(w)
	if !cfg.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a record set to a JSON file at path.
func ExportJSON(set *doctree.RecordSet, path string, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(set, f, opts...)
}
