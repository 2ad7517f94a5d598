// Package pipeline runs the doxygen XML to Markdown conversion.
//
// The CLI and the preview server share this package so both produce the
// same documents for the same options.
//
// # Stages
//
//  1. Load: parse doxygen XML (or a normalized JSON record file) into
//     records, with a cache keyed by the content of the XML files
//  2. Build: assemble the ownership tree
//  3. Plan: filter and linearize the tree into one document, or one
//     document per group
//  4. Render: execute templates and resolve links between documents
//
// [Runner.Execute] runs every stage in memory and writes files only after
// all documents rendered, so a failing run leaves no partial output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Directory: "docs/xml",
//	    Output:    "api/%s.md",
//	    Groups:    true,
//	    Anchors:   true,
//	})
package pipeline

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zendapi/moxygen/pkg/config"
	"github.com/zendapi/moxygen/pkg/doctree"
	"github.com/zendapi/moxygen/pkg/doxygen"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the single-document output path.
	DefaultOutput = "api.md"

	// DefaultGroupOutput is the output pattern used in group mode when none
	// is given.
	DefaultGroupOutput = "%s.md"

	// DefaultLanguage tags code blocks and selects templates.
	DefaultLanguage = "cpp"

	// DefaultCacheTTL is how long parsed records stay cached.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a conversion run.
type Options struct {
	// Input: exactly one of Directory and Records.
	Directory string `json:"directory,omitempty"`
	Records   string `json:"records,omitempty"`

	// Output
	Output      string `json:"output,omitempty"`
	Groups      bool   `json:"groups,omitempty"`
	NoIndex     bool   `json:"noindex,omitempty"`
	Anchors     bool   `json:"anchors,omitempty"`
	Language    string `json:"language,omitempty"`
	Templates   string `json:"templates,omitempty"`
	FrontMatter bool   `json:"frontmatter,omitempty"`

	// Filters
	Members   []string `json:"members,omitempty"`
	Compounds []string `json:"compounds,omitempty"`

	// Execution
	Concurrency int           `json:"concurrency,omitempty"`
	Verify      bool          `json:"verify,omitempty"`
	Refresh     bool          `json:"refresh,omitempty"`
	CacheTTL    time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig converts file configuration into run options.
func FromConfig(cfg config.Config) Options {
	return Options{
		Directory:   cfg.Directory,
		Output:      cfg.Output,
		Groups:      cfg.Groups,
		NoIndex:     cfg.NoIndex,
		Anchors:     cfg.Anchors,
		Language:    cfg.Language,
		Templates:   cfg.Templates,
		FrontMatter: cfg.FrontMatter,
		Members:     cfg.Filters.Members,
		Compounds:   cfg.Filters.Compounds,
		Concurrency: cfg.Concurrency,
		CacheTTL:    cfg.Cache.TTL.Duration,
	}
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateInput(); err != nil {
		return err
	}
	if err := o.ValidateOutput(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.ValidateFilters()

	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	o.validated = true
	return nil
}

// ValidateInput checks that exactly one input source exists.
func (o *Options) ValidateInput() error {
	switch {
	case o.Directory == "" && o.Records == "":
		return errs.New(errs.ErrCodeConfiguration, "a doxygen XML directory or a records file is required")
	case o.Directory != "" && o.Records != "":
		return errs.New(errs.ErrCodeConfiguration, "a doxygen XML directory and a records file are mutually exclusive")
	case o.Directory != "":
		return errs.ValidateDirectory(o.Directory)
	}

	info, err := os.Stat(o.Records)
	if os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "records file %s does not exist", o.Records)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "stat %s", o.Records)
	}
	if info.IsDir() {
		return errs.New(errs.ErrCodeInvalidPath, "records file %s is a directory", o.Records)
	}
	return nil
}

// ValidateOutput applies the output default for the mode and checks the
// pattern against it.
func (o *Options) ValidateOutput() error {
	if o.Output == "" {
		o.Output = DefaultOutput
		if o.Groups {
			o.Output = DefaultGroupOutput
		}
	}
	return errs.ValidateOutputPattern(o.Output, o.Groups)
}

// ValidateFilters applies the default kind lists and logs names that can
// never match on their axis. Such names are a filter miss, not an error:
// they select nothing and the rest of the list still applies.
func (o *Options) ValidateFilters() {
	o.applyFilterDefaults()
	if o.Logger == nil {
		return
	}
	for _, name := range UnmatchedKinds(o.Members, true) {
		o.Logger.Warn("member kind matches nothing", "kind", name)
	}
	for _, name := range UnmatchedKinds(o.Compounds, false) {
		o.Logger.Warn("compound kind matches nothing", "kind", name)
	}
}

func (o *Options) applyFilterDefaults() {
	if o.Members == nil {
		o.Members = append([]string(nil), config.DefaultMembers...)
	}
	if o.Compounds == nil {
		o.Compounds = append([]string(nil), config.DefaultCompounds...)
	}
}

// UnmatchedKinds returns the names that are not member kinds (members) or
// not compound kinds, in input order.
func UnmatchedKinds(names []string, members bool) []string {
	var out []string
	for _, name := range names {
		k := doctree.ParseKind(name)
		if members && !k.IsMember() || !members && !k.IsCompound() {
			out = append(out, name)
		}
	}
	return out
}

// Filter returns the kind filter for these options.
func (o *Options) Filter() doctree.Filter {
	return doctree.NewFilter(o.Members, o.Compounds)
}

// GroupPath substitutes a group name into the output pattern.
func (o *Options) GroupPath(name string) string {
	return fmt.Sprintf(o.Output, name)
}

// =============================================================================
// Results
// =============================================================================

// Output is one rendered file.
type Output struct {
	Path     string
	Name     string
	Content  string
	Problems []render.Problem
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in logs and exported records.
	RunID string

	Tree       *doctree.Tree
	Documents  []*render.Document
	Outputs    []Output
	Warnings   []doctree.Warning
	LoadErrors []*doxygen.LoadError

	// CacheHit reports whether records came from the cache.
	CacheHit bool

	Stats Stats
}

// Stats contains counts and timings of a run.
type Stats struct {
	Records   int
	Nodes     int
	Documents int
	Kinds     map[doctree.Kind]int

	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}
