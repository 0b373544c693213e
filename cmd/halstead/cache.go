package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/cache"
	"github.com/TpouHuK/halstead-js/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the analysis cache",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cache size and entry ages",
				Action: func(c *cli.Context) error {
					cfg, cc, err := openCache(c)
					if err != nil {
						return err
					}
					st, err := cc.GetStats()
					if err != nil {
						return fmt.Errorf("read cache %s: %w", cfg.Cache.Dir, err)
					}
					w := c.App.Writer
					fmt.Fprintf(w, "Directory: %s\n", cfg.Cache.Dir)
					fmt.Fprintf(w, "Entries:   %d (%s)\n", st.Entries, formatSize(st.TotalSize))
					if st.Entries > 0 {
						fmt.Fprintf(w, "Oldest:    %s\n", st.OldestAge.Truncate(time.Second))
						fmt.Fprintf(w, "Newest:    %s\n", st.NewestAge.Truncate(time.Second))
					}
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Remove every cached result",
				Action: func(c *cli.Context) error {
					cfg, cc, err := openCache(c)
					if err != nil {
						return err
					}
					if err := cc.Clear(); err != nil {
						return fmt.Errorf("clear cache %s: %w", cfg.Cache.Dir, err)
					}
					color.New(color.FgGreen).Fprintf(c.App.Writer, "Cleared %s\n", cfg.Cache.Dir)
					return nil
				},
			},
		},
	}
}

// openCache opens the configured cache directory regardless of cache.enabled,
// so a disabled cache can still be inspected and cleared.
func openCache(c *cli.Context) (*config.Config, *cache.Cache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cc, err := cache.New(cfg.Cache.Dir, cfg.CacheTTL(), cfg.Cache.MemoryEntries, true)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache %s: %w", cfg.Cache.Dir, err)
	}
	return cfg, cc, nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
