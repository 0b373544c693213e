package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/cache"
	"github.com/TpouHuK/halstead-js/internal/fileproc"
	"github.com/TpouHuK/halstead-js/internal/output"
	"github.com/TpouHuK/halstead-js/internal/progress"
	"github.com/TpouHuK/halstead-js/pkg/analyzer"
	"github.com/TpouHuK/halstead-js/pkg/analyzer/metrics"
	"github.com/TpouHuK/halstead-js/pkg/config"
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/parser"
	"github.com/TpouHuK/halstead-js/pkg/scanner"
	"github.com/TpouHuK/halstead-js/pkg/source"
)

var errNoFiles = errors.New("no JavaScript or TypeScript files found")

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon, yaml (default from config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Analyze the files committed at this git revision instead of the working tree",
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "Dialect of source read from stdin (\"-\"): javascript, typescript or tsx",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Parallel workers (default from config, 0 = one per CPU)",
		},
	}
}

func loggerFrom(c *cli.Context) *slog.Logger {
	if l, ok := c.App.Metadata["logger"].(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// loadConfig reads --config when given and the discovered config otherwise.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}
	if c.IsSet("language") {
		cfg.Analysis.Language = c.String("language")
	}
	if c.IsSet("workers") {
		cfg.Analysis.Workers = c.Int("workers")
	}
	return cfg, nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := cfg.Output.Format
	if c.IsSet("format") {
		format = c.String("format")
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color && !color.NoColor)
}

// collectFiles lists the files to analyze and the source to read them from.
// With a ref the repository tree containing the first path is used.
func collectFiles(cfg *config.Config, paths []string, ref string) ([]string, source.ContentSource, error) {
	scan := scanner.NewScanner(cfg)
	if ref == "" {
		files, err := scan.ScanPaths(paths)
		if err != nil {
			return nil, nil, err
		}
		return files, source.NewFilesystem(), nil
	}

	tree, err := source.OpenTree(paths[0], ref)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s at %s: %w", paths[0], ref, err)
	}
	names, err := tree.Files()
	if err != nil {
		return nil, nil, fmt.Errorf("list files at %s: %w", ref, err)
	}
	return scan.FilterNames(names), tree, nil
}

func newAnalyzer(c *cli.Context, cfg *config.Config, src source.ContentSource) (*metrics.Analyzer, error) {
	opts := []metrics.Option{
		metrics.WithLogger(loggerFrom(c)),
		metrics.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		metrics.WithWorkers(cfg.Analysis.Workers),
		metrics.WithThresholds(cfg.MetricThresholds()),
		metrics.WithSource(src),
	}
	if cfg.Cache.Enabled && !c.Bool("no-cache") {
		cc, err := cache.New(cfg.Cache.Dir, cfg.CacheTTL(), cfg.Cache.MemoryEntries, true)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cfg.Cache.Dir, err)
		}
		opts = append(opts, metrics.WithCache(cc))
	}
	return metrics.New(opts...), nil
}

// runAnalysis scans paths and analyzes every file found. Files that fail are
// logged and left out; it is an error only when none succeed. A single "-"
// path reads one program from stdin.
func runAnalysis(c *cli.Context, cfg *config.Config, paths []string) (*models.ProjectMetrics, error) {
	if len(paths) == 1 && paths[0] == "-" {
		return analyzeStdin(c, cfg)
	}

	files, src, err := collectFiles(cfg, paths, c.String("ref"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}

	logger := loggerFrom(c)
	for lang, group := range scanner.GroupByLanguage(files) {
		logger.Debug("collected files", "language", lang, "count", len(group))
	}

	a, err := newAnalyzer(c, cfg, src)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	bar := progress.New(os.Stderr, "Analyzing", len(files))
	ctx := analyzer.WithTracker(c.Context, bar.Tracker())
	pm, err := a.Analyze(ctx, files)

	var perr *fileproc.ProcessingErrors
	if errors.As(err, &perr) {
		bar.Finish()
		for _, pe := range perr.Errors {
			logger.Warn("file skipped", "path", pe.Path, "error", pe.Err)
		}
		if len(pm.Files) == 0 {
			return nil, fmt.Errorf("all %d files failed: %w", perr.Len(), err)
		}
		return pm, nil
	}
	if err != nil {
		bar.FinishError(err)
		return nil, err
	}
	bar.Finish()
	return pm, nil
}

func analyzeStdin(c *cli.Context, cfg *config.Config) (*models.ProjectMetrics, error) {
	content, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	a, err := newAnalyzer(c, cfg, source.NewFilesystem())
	if err != nil {
		return nil, err
	}
	defer a.Close()

	fm, err := a.AnalyzeSource(c.Context, content, parser.ParseLanguage(cfg.Analysis.Language), "<stdin>")
	if err != nil {
		return nil, err
	}
	files := []models.FileMetrics{*fm}
	return &models.ProjectMetrics{Files: files, Summary: metrics.Summarize(files, 0)}, nil
}
