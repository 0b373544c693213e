package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/output"
	"github.com/TpouHuK/halstead-js/pkg/config"
)

func analyzeCmd() *cli.Command {
	flags := append(outputFlags(), sourceFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "tallies",
			Usage: "Include operator and operand tables in text and markdown output",
		},
		&cli.IntFlag{
			Name:  "max-tallies",
			Value: 20,
			Usage: "Rows per tally table (0 = all)",
		},
		&cli.IntFlag{
			Name:  "max-if-depth",
			Usage: "If nesting depth warning threshold (default from config)",
		},
		&cli.Float64Flag{
			Name:  "max-if-saturation",
			Usage: "If saturation warning threshold (default from config)",
		},
		&cli.Float64Flag{
			Name:  "max-volume",
			Usage: "Halstead volume warning threshold (default from config)",
		},
		&cli.BoolFlag{
			Name:  "fail-on-violation",
			Usage: "Exit with an error when any threshold is exceeded",
		},
	)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Compute Halstead, Djilb and Chepin metrics",
		ArgsUsage: "[path...]",
		Flags:     flags,
		Action:    runAnalyzeCmd,
	}
}

func applyThresholdFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("max-if-depth") {
		cfg.Thresholds.MaxIfDepth = c.Int("max-if-depth")
	}
	if c.IsSet("max-if-saturation") {
		cfg.Thresholds.MaxIfSaturation = c.Float64("max-if-saturation")
	}
	if c.IsSet("max-volume") {
		cfg.Thresholds.MaxVolume = c.Float64("max-volume")
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyThresholdFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	pm, err := runAnalysis(c, cfg, getPaths(c))
	if errors.Is(err, errNoFiles) {
		color.Yellow("No JavaScript or TypeScript files found")
		return nil
	}
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := output.NewMetricsReport(pm, output.ReportOptions{
		Tallies:    c.Bool("tallies"),
		MaxTallies: c.Int("max-tallies"),
	})
	if err := formatter.Output(report); err != nil {
		return err
	}

	if c.Bool("fail-on-violation") && pm.Summary.ViolationCount > 0 {
		return fmt.Errorf("%d threshold violations", pm.Summary.ViolationCount)
	}
	return nil
}
