package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/cache"
	errs "github.com/zendapi/moxygen/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the record cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Cache.Enabled {
				printInfo("Cache is disabled")
				return nil
			}

			cc, err := newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache cannot be cleared")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return errs.Wrap(errs.ErrCodeIO, err, "clear cache")
			}

			printSuccess("Cleared cached records")
			printDetail("Location: %s", cacheLocation(cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.URL != "" {
				fmt.Println(cfg.Cache.URL)
				return nil
			}
			dir, err := cache.DefaultDir()
			if err != nil {
				return errs.Wrap(errs.ErrCodeIO, err, "get cache dir")
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheLocation describes where a cache keeps its entries.
func cacheLocation(cc cache.Cache) string {
	switch v := cc.(type) {
	case *cache.FileCache:
		return v.Dir()
	case *cache.RedisCache:
		return "redis"
	default:
		return "none"
	}
}
