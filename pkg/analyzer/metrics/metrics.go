// Package metrics computes Halstead, Djilb and Chepin metrics for JavaScript
// programs in a single walk over the tree-sitter syntax tree.
package metrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/TpouHuK/halstead-js/internal/cache"
	"github.com/TpouHuK/halstead-js/internal/fileproc"
	"github.com/TpouHuK/halstead-js/pkg/analyzer"
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/parser"
	"github.com/TpouHuK/halstead-js/pkg/source"
	sitter "github.com/smacker/go-tree-sitter"
)

// cacheVersion is mixed into cache keys; bump it when results change shape.
const cacheVersion = "metrics/v1"

var _ analyzer.FileAnalyzer[*models.ProjectMetrics] = (*Analyzer)(nil)

// Analyzer runs the metrics engine over parsed trees, source text or files.
// Each run owns private state, so one Analyzer can serve concurrent callers.
type Analyzer struct {
	parser *parser.Parser
	mu     sync.Mutex // guards parser

	logger      *slog.Logger
	maxFileSize int64
	workers     int
	thresholds  models.Thresholds
	src         source.ContentSource
	cache       *cache.Cache
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the number of parallel workers used by Analyze.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithThresholds sets the limits files are checked against.
func WithThresholds(t models.Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

// WithSource sets where AnalyzeFile and Analyze read content from.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		if src != nil {
			a.src = src
		}
	}
}

// WithCache enables result caching keyed by file content.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// New creates a new metrics analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:     parser.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		thresholds: models.DefaultThresholds(),
		src:        source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// AnalyzeNode runs the engine over a parsed tree. source must be the text
// the tree was parsed from. Trees containing syntax errors are rejected.
func (a *Analyzer) AnalyzeNode(root *sitter.Node, source []byte) (*models.FileMetrics, error) {
	if bad := parser.FirstSyntaxError(root); bad != nil {
		return nil, newMalformedInputError(bad, source, ErrSyntax)
	}

	w := newWalker(source, a.logger)
	if err := w.run(root); err != nil {
		return nil, err
	}
	w.idents.finalize(a.logger)
	return w.report(), nil
}

// AnalyzeSource parses content as lang and analyzes it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, content []byte, lang parser.Language, path string) (*models.FileMetrics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzeContent(ctx, a.parser, path, content, lang)
}

// AnalyzeFile reads path from the configured source and analyzes it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*models.FileMetrics, error) {
	content, err := a.src.Read(path)
	if err != nil {
		return nil, err
	}
	if a.maxFileSize > 0 && int64(len(content)) > a.maxFileSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", path, ErrFileTooLarge, len(content))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzeContent(ctx, a.parser, path, content, parser.DetectLanguage(path))
}

// Analyze analyzes files in parallel and aggregates a project summary.
// Failed files are counted in the summary and returned as a
// *fileproc.ProcessingErrors next to the metrics of the files that succeeded.
// Progress is tracked via context using analyzer.WithTracker.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*models.ProjectMetrics, error) {
	opts := fileproc.Options{Workers: a.workers, MaxFileSize: a.maxFileSize}
	results, errs := fileproc.MapSourceFiles(ctx, files, a.src, opts,
		func(psr *parser.Parser, path string, content []byte) (models.FileMetrics, error) {
			fm, err := a.analyzeContent(ctx, psr, path, content, parser.DetectLanguage(path))
			if err != nil {
				return models.FileMetrics{}, err
			}
			return *fm, nil
		})

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	failed := 0
	if errs != nil {
		failed = errs.Len()
		for _, pe := range errs.Errors {
			a.logger.Debug("file skipped", "path", pe.Path, "error", pe.Err)
		}
	}

	project := &models.ProjectMetrics{
		Files:   results,
		Summary: Summarize(results, failed),
	}
	if errs != nil {
		return project, errs
	}
	return project, nil
}

func (a *Analyzer) analyzeContent(ctx context.Context, psr *parser.Parser, path string, content []byte, lang parser.Language) (*models.FileMetrics, error) {
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w for file: %s", parser.ErrUnsupportedLanguage, path)
	}

	var key string
	if a.cache != nil && a.cache.Enabled() {
		key = cache.Key([]byte(cacheVersion), []byte(lang), content)
		var cached models.FileMetrics
		if a.cache.GetValue(key, &cached) {
			a.logger.Debug("cache hit", "path", path)
			return a.finish(&cached, path, lang), nil
		}
	}

	result, err := psr.Parse(ctx, content, lang, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	fm, err := a.AnalyzeNode(result.Root(), content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if key != "" {
		if err := a.cache.SetValue(key, fm); err != nil {
			a.logger.Debug("cache write failed", "path", path, "error", err)
		}
	}
	return a.finish(fm, path, lang), nil
}

// finish attaches the per-invocation fields that are not part of the cached result.
func (a *Analyzer) finish(fm *models.FileMetrics, path string, lang parser.Language) *models.FileMetrics {
	fm.Path = path
	fm.Language = lang.String()
	fm.Violations = fm.CheckThresholds(a.thresholds)
	return fm
}
