package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cms-cat/cmsstyle-go/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr, redisPrefix string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if redisAddr != "" {
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, Prefix: redisPrefix})
				if err != nil {
					return err
				}
				defer rc.Close()
				if err := rc.Clear(ctx); err != nil {
					return err
				}
				printSuccess("Cleared Redis cache")
				printDetail("Keys: %s*", redisPrefix)
				return nil
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(ctx); err != nil {
				return err
			}
			c.Logger.Debug("cache cleared", "dir", dir)
			printSuccess("Cleared cache")
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&redisAddr, "redis", "", "clear a Redis cache instead of the local one")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", appName+":", "key prefix in Redis")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
