// Package analyzer holds the contracts shared by the file analyzers.
package analyzer

import "context"

// FileAnalyzer analyzes a collection of files.
type FileAnalyzer[T any] interface {
	// Analyze processes files and returns the combined result. Cancellation
	// and progress reporting travel through ctx.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
