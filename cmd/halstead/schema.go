package main

import (
	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/output"
)

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the analyze --format json report",
		Action: func(c *cli.Context) error {
			_, err := c.App.Writer.Write(output.ReportSchema)
			return err
		},
	}
}
