package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/TpouHuK/halstead-js/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the metrics engine
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "halstead": {
        "command": "halstead",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_metrics   Halstead tallies and volume, Djilb counters, Chepin groups
  - chepin_groups     P/M/C/T classification of every variable`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the server.json manifest for the MCP registry",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version, cfg, loggerFrom(c))
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
