package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptDef is one prompt loaded from prompts/<name>.md.
type promptDef struct {
	Name        string
	Description string `yaml:"description"`
	Body        string `yaml:"-"`
}

// loadPrompts reads every embedded prompt, ordered by file name.
func loadPrompts(fsys fs.FS) ([]promptDef, error) {
	names, err := fs.Glob(fsys, "prompts/*.md")
	if err != nil {
		return nil, err
	}

	defs := make([]promptDef, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		def := parseFrontmatter(content)
		def.Name = strings.TrimSuffix(path.Base(name), ".md")
		defs = append(defs, def)
	}
	return defs, nil
}

// parseFrontmatter splits an optional YAML header from the prompt body.
func parseFrontmatter(content []byte) promptDef {
	var def promptDef
	if !bytes.HasPrefix(content, []byte("---\n")) {
		def.Body = string(content)
		return def
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 || yaml.Unmarshal(rest[:end], &def) != nil {
		return promptDef{Body: string(content)}
	}
	def.Body = strings.TrimPrefix(string(rest[end+5:]), "\n")
	return def
}

func (s *Server) registerPrompts() {
	defs, err := loadPrompts(promptFiles)
	if err != nil {
		s.logger.Warn("prompts not loaded", "error", err)
		return
	}
	for _, def := range defs {
		s.server.AddPrompt(&mcp.Prompt{
			Name:        def.Name,
			Description: def.Description,
		}, promptHandler(def))
	}
}

func promptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: def.Body},
				},
			},
		}, nil
	}
}
