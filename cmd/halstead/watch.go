package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/fileproc"
	"github.com/TpouHuK/halstead-js/internal/output"
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/source"
	"github.com/TpouHuK/halstead-js/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-analyze",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a changed file is analyzed",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	watcher, err := watch.NewWatcher(root, cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.SetOutput(c.App.Writer)

	a, err := newAnalyzer(c, cfg, source.NewFilesystem())
	if err != nil {
		return err
	}
	defer a.Close()

	watcher.OnChange(func(ctx context.Context, files []string) {
		pm, err := a.Analyze(ctx, files)
		var perr *fileproc.ProcessingErrors
		if errors.As(err, &perr) {
			for _, pe := range perr.Errors {
				color.New(color.FgRed).Fprintf(c.App.Writer, "  %v\n", pe)
			}
		} else if err != nil {
			color.New(color.FgRed).Fprintf(c.App.Writer, "  analysis failed: %v\n", err)
			return
		}
		for i := range pm.Files {
			printFileLine(c.App.Writer, root, &pm.Files[i])
		}
	})

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = watcher.Start(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(c.App.Writer, "\nStopping watch...")
		return nil
	}
	return err
}

// printFileLine writes a one-line summary of fm followed by its violations.
func printFileLine(w io.Writer, root string, fm *models.FileMetrics) {
	rel, err := filepath.Rel(root, fm.Path)
	if err != nil {
		rel = fm.Path
	}
	volume := 0.0
	if fm.Halstead != nil {
		volume = fm.Halstead.Volume
	}
	fmt.Fprintf(w, "  %s: statements %d, CL %d, cl %.2f, CLI %d, volume %.1f, Q %.1f\n",
		rel, fm.Counters.StatementOperators, fm.Counters.DecisionCount, fm.DecisionDensity,
		fm.Counters.MaxIfDepth, volume, fm.ChepinScore)
	for _, v := range fm.Violations {
		fmt.Fprintf(w, "    %s\n", output.SeverityColor(string(v.Severity), fmt.Sprintf("[%s] %s", v.Rule, v.Message)))
	}
}
