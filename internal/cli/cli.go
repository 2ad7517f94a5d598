package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/zendapi/moxygen/pkg/buildinfo"
	"github.com/zendapi/moxygen/pkg/cache"
	"github.com/zendapi/moxygen/pkg/config"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "moxygen"

	// defaultAddr is the preview server listen address.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes the
// runner's cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, cacheKeyer(), c.Logger), nil
}

// cacheKeyer scopes record keys by build version; loader changes between
// releases must not reuse records cached by an older binary.
func cacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// newCache selects the record cache: none when disabled, Redis when a URL
// is configured, the per-user file cache otherwise.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	if cfg.URL != "" {
		if err := errs.ValidateCacheURL(cfg.URL); err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.URL})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "connect cache")
		}
		return rc, nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
