package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TpouHuK/halstead-js/internal/fileproc"
	"github.com/TpouHuK/halstead-js/internal/output"
	"github.com/TpouHuK/halstead-js/pkg/analyzer/metrics"
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/parser"
	"github.com/TpouHuK/halstead-js/pkg/scanner"
)

// AnalyzeInput selects what to analyze. Source takes precedence over Paths.
type AnalyzeInput struct {
	Paths    []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to the current directory."`
	Source   string   `json:"source,omitempty" jsonschema:"Inline JavaScript to analyze instead of files."`
	Language string   `json:"language,omitempty" jsonschema:"Dialect of inline source: javascript (default), typescript or tsx."`
	Format   string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml or markdown."`
}

// MetricsInput is AnalyzeInput plus the options of analyze_metrics.
type MetricsInput struct {
	Paths       []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to the current directory."`
	Source      string   `json:"source,omitempty" jsonschema:"Inline JavaScript to analyze instead of files."`
	Language    string   `json:"language,omitempty" jsonschema:"Dialect of inline source: javascript (default), typescript or tsx."`
	Format      string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml or markdown."`
	OmitTallies bool     `json:"omit_tallies,omitempty" jsonschema:"Drop the operator and operand tallies from the result."`
}

func (in MetricsInput) analyzeInput() AnalyzeInput {
	return AnalyzeInput{Paths: in.Paths, Source: in.Source, Language: in.Language, Format: in.Format}
}

// ChepinResult is the per-file output of chepin_groups.
type ChepinResult struct {
	Path        string                     `json:"path"`
	Groups      models.ChepinGroups        `json:"groups"`
	Score       float64                    `json:"score"`
	Identifiers []models.IdentifierSummary `json:"identifiers"`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "yaml", "yml":
		return output.FormatYAML
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	if format == output.FormatMarkdown {
		out, err := output.Marshal(output.FormatTOON, data)
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	}
	out, err := output.Marshal(format, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) newAnalyzer() *metrics.Analyzer {
	return metrics.New(
		metrics.WithLogger(s.logger),
		metrics.WithMaxFileSize(s.config.Analysis.MaxFileSize),
		metrics.WithWorkers(s.config.Analysis.Workers),
		metrics.WithThresholds(s.config.MetricThresholds()),
	)
}

// analyze runs the engine over inline source or the files under the input paths.
// Per-file failures are reported in the summary, not as a tool error, unless
// nothing could be analyzed.
func (s *Server) analyze(ctx context.Context, input AnalyzeInput) (*models.ProjectMetrics, error) {
	a := s.newAnalyzer()
	defer a.Close()

	if input.Source != "" {
		lang := parser.ParseLanguage(input.Language)
		fm, err := a.AnalyzeSource(ctx, []byte(input.Source), lang, "<source>")
		if err != nil {
			return nil, err
		}
		files := []models.FileMetrics{*fm}
		return &models.ProjectMetrics{Files: files, Summary: metrics.Summarize(files, 0)}, nil
	}

	files, err := scanner.NewScanner(s.config).ScanPaths(getPaths(input))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no JavaScript or TypeScript files found")
	}

	pm, err := a.Analyze(ctx, files)
	var perr *fileproc.ProcessingErrors
	if errors.As(err, &perr) {
		if len(pm.Files) == 0 {
			return nil, fmt.Errorf("all files failed: %w", err)
		}
		return pm, nil
	}
	return pm, err
}

func (s *Server) handleAnalyzeMetrics(ctx context.Context, req *mcp.CallToolRequest, input MetricsInput) (*mcp.CallToolResult, any, error) {
	pm, err := s.analyze(ctx, input.analyzeInput())
	if err != nil {
		return toolError(err.Error())
	}
	if input.OmitTallies {
		for i := range pm.Files {
			pm.Files[i].Operators = nil
			pm.Files[i].Operands = nil
		}
	}
	return toolResult(pm, getFormat(input.analyzeInput()))
}

func (s *Server) handleChepinGroups(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	pm, err := s.analyze(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}

	results := make([]ChepinResult, len(pm.Files))
	for i, fm := range pm.Files {
		results[i] = ChepinResult{
			Path:        fm.Path,
			Groups:      fm.Chepin,
			Score:       fm.ChepinScore,
			Identifiers: fm.Identifiers,
		}
	}
	return toolResult(results, getFormat(input))
}
