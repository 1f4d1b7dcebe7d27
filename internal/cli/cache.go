package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.CacheOptions()
			ch, err := cache.Open(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", opts.Backend)
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			switch opts.Backend {
			case cache.BackendFile:
				printDetail("Directory: %s", opts.Dir)
			case cache.BackendRedis:
				printDetail("Redis: %s", opts.RedisURL)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.CacheOptions()
			switch opts.Backend {
			case cache.BackendFile:
				fmt.Fprintln(out, opts.Dir)
			case cache.BackendRedis:
				fmt.Fprintln(out, opts.RedisURL)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}
