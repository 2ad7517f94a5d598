package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zendapi/moxygen/pkg/buildinfo"
	"github.com/zendapi/moxygen/pkg/cache"
	"github.com/zendapi/moxygen/pkg/doctree"
	"github.com/zendapi/moxygen/pkg/doxygen"
	errs "github.com/zendapi/moxygen/pkg/errors"
	mio "github.com/zendapi/moxygen/pkg/io"
	"github.com/zendapi/moxygen/pkg/observability"
	"github.com/zendapi/moxygen/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs every stage and writes the documents. Nothing is written
// unless all documents rendered.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result, err := r.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Write(result.Outputs); err != nil {
		return nil, err
	}
	return result, nil
}

// Run executes load, build, plan and render in memory without writing.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	loaded, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.CacheHit = hit
	result.LoadErrors = loaded.Errors
	result.Stats.Records = loaded.Records.Len()
	result.Stats.LoadTime = time.Since(loadStart)

	for _, le := range loaded.Errors {
		logger.Warn("compound skipped", "id", le.RefID, "err", le.Err)
	}
	logger.Info("loaded records",
		"records", result.Stats.Records,
		"cached", hit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	tree, err := r.Build(ctx, loaded.Records)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Warnings = tree.Warnings()
	result.Stats.Nodes = tree.Len()
	result.Stats.Kinds = tree.Stats()
	result.Stats.BuildTime = time.Since(buildStart)

	for _, w := range result.Warnings {
		logger.Warn(w.String())
	}
	logger.Info("built tree",
		"nodes", result.Stats.Nodes,
		"groups", len(tree.Groups()),
		"warnings", len(result.Warnings),
		"duration", result.Stats.BuildTime)

	// Stage 3: Plan
	docs, err := r.Plan(ctx, tree, opts)
	if err != nil {
		return nil, err
	}
	result.Documents = docs
	result.Stats.Documents = len(docs)

	// Stage 4: Render
	renderStart := time.Now()
	outputs, err := r.Render(ctx, tree, docs, opts)
	if err != nil {
		return nil, err
	}
	result.Outputs = outputs
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered documents",
		"documents", len(outputs),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Loaded is the outcome of the load stage.
type Loaded struct {
	Records *doctree.RecordSet
	Errors  []*doxygen.LoadError
}

// LoadWithCacheInfo loads records and reports whether they came from the
// cache. Record files bypass the cache. Loads with compound errors are not
// cached so the errors surface again on the next run.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*Loaded, bool, error) {
	if err := opts.ValidateInput(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Records != "" {
		set, err := mio.ImportJSON(opts.Records)
		if err != nil {
			return nil, false, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read records %s", opts.Records)
		}
		return &Loaded{Records: set}, false, nil
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Directory)

	fingerprint, err := doxygen.Fingerprint(opts.Directory)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeIO, err, "read %s", opts.Directory)
	}
	key := r.Keyer.RecordsKey(fingerprint, cache.RecordsKeyOpts{
		Language: languageOrDefault(opts.Language),
		Anchors:  opts.Anchors,
	})

	if !opts.Refresh {
		if set, ok := r.cachedRecords(ctx, key); ok {
			observability.Pipeline().OnLoadComplete(ctx, opts.Directory, set.Len(), time.Since(start), nil)
			return &Loaded{Records: set}, true, nil
		}
	}

	res, err := doxygen.Load(ctx, opts.Directory, doxygen.LoadOptions{
		Language:    opts.Language,
		Anchors:     opts.Anchors,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Directory, 0, time.Since(start), err)
		if errors.Is(err, doxygen.ErrNoIndex) {
			return nil, false, errs.Wrap(errs.ErrCodeFileNotFound, err, "no %s in %s", doxygen.IndexFile, opts.Directory)
		}
		return nil, false, errs.Wrap(errs.ErrCodeInvalidFormat, err, "load %s", opts.Directory)
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Directory, res.Records.Len(), time.Since(start), nil)

	if len(res.Errors) == 0 {
		r.storeRecords(ctx, key, res.Records, opts.CacheTTL)
	}
	return &Loaded{Records: res.Records, Errors: res.Errors}, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*Loaded, error) {
	loaded, _, err := r.LoadWithCacheInfo(ctx, opts)
	return loaded, err
}

func (r *Runner) cachedRecords(ctx context.Context, key string) (*doctree.RecordSet, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "records")
		return nil, false
	}
	set, err := mio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		// A stale entry from an older format is dropped and reloaded.
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "records")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "records")
	return set, true
}

func (r *Runner) storeRecords(ctx context.Context, key string, set *doctree.RecordSet, ttl time.Duration) {
	var buf bytes.Buffer
	if err := mio.WriteJSON(set, &buf, mio.WithCompact(), mio.WithGenerator(buildinfo.Generator())); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "records", buf.Len())
}

// Build assembles the tree. Cycles and unresolved roots are structural
// errors; missing references stay warnings on the tree.
func (r *Runner) Build(ctx context.Context, set *doctree.RecordSet) (*doctree.Tree, error) {
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, set.Len())

	tree, err := doctree.Build(set)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "build documentation tree")
	}
	observability.Pipeline().OnBuildComplete(ctx, tree.Len(), len(tree.Warnings()), time.Since(start), nil)
	return tree, nil
}

// Plan decides the documents: a single document holding the filtered tree,
// or one document per group.
func (r *Runner) Plan(ctx context.Context, tree *doctree.Tree, opts Options) ([]*render.Document, error) {
	if err := opts.ValidateOutput(); err != nil {
		return nil, err
	}
	opts.applyFilterDefaults()
	f := opts.Filter()

	if !opts.Groups {
		v := f.Apply(tree)
		return []*render.Document{{
			Title:   "API",
			Path:    opts.Output,
			Entries: doctree.Linearize(v, !opts.NoIndex),
		}}, nil
	}

	seqs, err := doctree.PartitionByGroup(ctx, tree, f, opts.Concurrency)
	if errors.Is(err, doctree.ErrNoGroups) {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err,
			"groups are enabled but the doxygen output contains no groups")
	}
	if err != nil {
		return nil, err
	}

	docs := make([]*render.Document, 0, len(seqs))
	paths := make(map[string]string, len(seqs))
	for _, seq := range seqs {
		name := seq.Group.Name()
		if err := errs.ValidateGroupName(name); err != nil {
			return nil, err
		}
		path := opts.GroupPath(name)
		if other, dup := paths[path]; dup {
			return nil, errs.New(errs.ErrCodeConfiguration,
				"groups %s and %s both map to %s", other, seq.Group.ID(), path)
		}
		paths[path] = seq.Group.ID()

		title := seq.Group.Payload().Title
		if title == "" {
			title = name
		}
		docs = append(docs, &render.Document{Name: name, Title: title, Path: path, Entries: seq.Entries})
	}
	return docs, nil
}

// NewRenderer builds the renderer for the options: templates from
// opts.Templates when set, otherwise the embedded set for the language.
func NewRenderer(opts Options) (*render.Renderer, error) {
	var fsys fs.FS
	if opts.Templates != "" {
		if err := errs.ValidateDirectory(opts.Templates); err != nil {
			return nil, err
		}
		fsys = os.DirFS(opts.Templates)
	} else {
		fsys = render.Builtin(languageOrDefault(opts.Language))
	}

	rd, err := render.New(fsys,
		render.WithAnchors(opts.Anchors),
		render.WithFrontMatter(opts.FrontMatter),
		render.WithGenerator(buildinfo.Generator()),
	)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "load templates")
	}
	return rd, nil
}

// Render renders documents concurrently. Links between documents are
// resolved against the whole plan.
func (r *Runner) Render(ctx context.Context, tree *doctree.Tree, docs []*render.Document, opts Options) ([]Output, error) {
	r.applyLogger(&opts)
	rd, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, len(docs))

	linker := render.NewLinker(tree, docs)
	outputs := make([]Output, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := rd.Render(doc, linker)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "render %s", doc.Path)
			}
			out := Output{Path: doc.Path, Name: doc.Name, Content: content}
			if opts.Verify {
				out.Problems = render.Verify(content)
			}
			outputs[i] = out
			return nil
		})
	}
	err = g.Wait()
	observability.Pipeline().OnRenderComplete(ctx, len(docs), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for _, out := range outputs {
		for _, p := range out.Problems {
			opts.Logger.Warn("dangling link", "file", out.Path, "target", p.Target, "text", p.Text)
		}
	}
	return outputs, nil
}

// Write writes every output, creating parent directories.
func (r *Runner) Write(outputs []Output) error {
	for _, out := range outputs {
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errs.Wrap(errs.ErrCodeIO, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(out.Path, []byte(out.Content), 0o644); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "write %s", out.Path)
		}
		r.Logger.Debug("wrote document", "path", out.Path, "bytes", len(out.Content))
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// String summarizes a result for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d records, %d nodes, %d documents", s.Records, s.Nodes, s.Documents)
}
