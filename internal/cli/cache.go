package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hardref/pkg/cache"
)

// cacheFamilies are the values accepted by "cache clear --only".
var cacheFamilies = []string{cache.FamilyScan, cache.FamilyReport}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scan result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openFileCache opens the file cache at the configured directory.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached scan results and reports",
		Example: `  hardref cache clear
  hardref cache clear --only report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if only != "" && !slices.Contains(cacheFamilies, only) {
				return fmt.Errorf("--only must be one of %v", cacheFamilies)
			}
			if c.Config.Cache.Backend == "redis" {
				printWarning("Redis entries expire on their own; only the file cache is cleared")
			}

			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear(only)
			if err != nil {
				return err
			}

			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			what := "cached entries"
			if only != "" {
				what = "cached " + only + " entries"
			}
			printSuccess("Cleared %d %s", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "clear one family only: scan or report")
	return cmd
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count cached entries per family",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			counts, err := fc.Count()
			if err != nil {
				return err
			}
			for _, fam := range cacheFamilies {
				printKeyValue(fam, strconv.Itoa(counts[fam]))
			}
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
