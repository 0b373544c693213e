package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/output"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write operators.csv, operands.csv and properties.csv",
		ArgsUsage: "[path...]",
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   ".",
				Usage:   "Directory to write the CSV files into",
			},
		),
		Action: runExportCmd,
	}
}

func runExportCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
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

	written, err := output.ExportCSV(c.String("dir"), pm)
	if err != nil {
		return err
	}
	for _, path := range written {
		color.Green("Wrote %s", path)
	}
	return nil
}
