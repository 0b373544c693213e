// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/TpouHuK/halstead-js/pkg/analyzer"
	"github.com/TpouHuK/halstead-js/pkg/parser"
	"github.com/sourcegraph/conc/pool"
)

// ErrFileTooLarge is returned for files over Options.MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Len returns the number of collected errors.
func (e *ProcessingErrors) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors)
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes the individual file errors to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		out[i] = pe
	}
	return out
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ContentSource provides file content.
type ContentSource interface {
	Read(path string) ([]byte, error)
}

// Options tune MapSourceFiles.
type Options struct {
	// Workers is the pool size; <= 0 means 2x NumCPU.
	Workers int
	// MaxFileSize rejects larger files with ErrFileTooLarge; 0 means no limit.
	MaxFileSize int64
}

func (o Options) workers(files int) int {
	n := o.Workers
	if n <= 0 {
		n = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	return min(n, files)
}

// SourceFunc processes one file's content with a worker-owned parser.
type SourceFunc[T any] func(psr *parser.Parser, path string, content []byte) (T, error)

// MapSourceFiles reads every file from src and processes it in parallel.
// Each worker owns one parser for its lifetime. Results keep the order of
// files; failed files are left out and reported in the returned errors.
// Progress is reported to the tracker carried by ctx, if any.
func MapSourceFiles[T any](ctx context.Context, files []string, src ContentSource, opts Options, fn SourceFunc[T]) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(files))
	}

	workers := opts.workers(len(files))
	parsers := make(chan *parser.Parser, workers)
	for range workers {
		parsers <- parser.New()
	}

	slots := make([]T, len(files))
	ok := make([]bool, len(files))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if tracker != nil {
				defer tracker.Tick(path)
			}

			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				return ctx.Err()
			default:
			}

			content, err := src.Read(path)
			if err != nil {
				errs.Add(path, err)
				return nil
			}
			if opts.MaxFileSize > 0 && int64(len(content)) > opts.MaxFileSize {
				errs.Add(path, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(content)))
				return nil
			}

			psr := <-parsers
			defer func() { parsers <- psr }()

			result, err := fn(psr, path, content)
			if err != nil {
				errs.Add(path, err) // don't stop the pool on a single file
				return nil
			}
			slots[i] = result
			ok[i] = true
			return nil
		})
	}
	_ = p.Wait() // context errors are already captured in errs

	close(parsers)
	for psr := range parsers {
		psr.Close()
	}

	results := make([]T, 0, len(files))
	for i := range slots {
		if ok[i] {
			results = append(results, slots[i])
		}
	}

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
