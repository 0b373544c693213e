package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TpouHuK/halstead-js/pkg/config"
)

// Server wraps the MCP server and registers the metrics tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new MCP server. A nil cfg uses the defaults and a nil
// logger discards diagnostics.
func NewServer(version string, cfg *config.Config, logger *slog.Logger) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "halstead",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg, logger: logger}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t, for embedding and tests.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_metrics",
		Description: describeAnalyzeMetrics(),
	}, s.handleAnalyzeMetrics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chepin_groups",
		Description: describeChepinGroups(),
	}, s.handleChepinGroups)
}
