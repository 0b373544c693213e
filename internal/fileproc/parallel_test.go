package fileproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/TpouHuK/halstead-js/pkg/analyzer"
	"github.com/TpouHuK/halstead-js/pkg/parser"
	"github.com/TpouHuK/halstead-js/pkg/source"
)

type mapSource map[string]string

func (m mapSource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return []byte(content), nil
}

func TestMapSourceFiles(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "file1.js", "let a = 1;"),
		createTestFile(t, tmpDir, "file2.js", "let b = 2;"),
		createTestFile(t, tmpDir, "file3.js", "let c = 3;"),
	}

	results, errs := MapSourceFiles(context.Background(), files, source.NewFilesystem(), Options{},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return filepath.Base(path), nil
		})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}
	want := []string{"file1.js", "file2.js", "file3.js"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q (input order)", i, results[i], want[i])
		}
	}
}

func TestMapSourceFiles_EmptyFileList(t *testing.T) {
	results, errs := MapSourceFiles(context.Background(), nil, mapSource{}, Options{},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return path, nil
		})

	if results != nil {
		t.Errorf("Expected nil for empty file list, got %v", results)
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty file list, got %v", errs)
	}
}

func TestMapSourceFiles_WithErrors(t *testing.T) {
	src := mapSource{"a.js": "1", "b.js": "2", "c.js": "3"}
	files := []string{"a.js", "b.js", "missing.js", "c.js"}
	fail := errors.New("boom")

	results, errs := MapSourceFiles(context.Background(), files, src, Options{Workers: 2},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			if path == "b.js" {
				return "", fail
			}
			return string(content), nil
		})

	if len(results) != 2 || results[0] != "1" || results[1] != "3" {
		t.Errorf("results = %v, want [1 3]", results)
	}
	if errs == nil || errs.Len() != 2 {
		t.Fatalf("Expected 2 errors, got %v", errs)
	}
	if !errors.Is(errs, fail) {
		t.Error("errors.Is should find the processing error")
	}
}

func TestMapSourceFiles_SizeLimit(t *testing.T) {
	src := mapSource{"small.js": "x", "big.js": "let a = 1; let b = 2;"}

	results, errs := MapSourceFiles(context.Background(), []string{"small.js", "big.js"}, src,
		Options{MaxFileSize: 5},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return path, nil
		})

	if len(results) != 1 || results[0] != "small.js" {
		t.Errorf("results = %v, want [small.js]", results)
	}
	if errs == nil || !errors.Is(errs, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", errs)
	}
}

func TestMapSourceFiles_ParserAvailable(t *testing.T) {
	src := mapSource{}
	var files []string
	for i := range 20 {
		path := fmt.Sprintf("f%d.js", i)
		src[path] = fmt.Sprintf("let v%d = %d;", i, i)
		files = append(files, path)
	}

	results, errs := MapSourceFiles(context.Background(), files, src, Options{Workers: 3},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			if psr == nil {
				return "", errors.New("nil parser")
			}
			res, err := psr.Parse(context.Background(), content, parser.LangJavaScript, path)
			if err != nil {
				return "", err
			}
			defer res.Close()
			return res.Root().Type(), nil
		})

	if errs != nil {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	for _, r := range results {
		if r != "program" {
			t.Errorf("root type = %q, want program", r)
		}
	}
}

func TestMapSourceFiles_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := mapSource{"a.js": "1", "b.js": "2"}
	results, errs := MapSourceFiles(ctx, []string{"a.js", "b.js"}, src, Options{},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return path, nil
		})

	if len(results) != 0 {
		t.Errorf("Expected no results after cancellation, got %v", results)
	}
	if errs == nil || !errors.Is(errs, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", errs)
	}
}

func TestTrackerIntegration(t *testing.T) {
	src := mapSource{"file1.js": "", "file2.js": "", "file3.js": ""}
	files := []string{"file1.js", "file2.js", "file3.js"}

	var totals []int
	var paths []string
	var mu sync.Mutex

	tracker := analyzer.NewTracker(func(current, total int, path string) {
		mu.Lock()
		totals = append(totals, total)
		paths = append(paths, path)
		mu.Unlock()
	})

	ctx := analyzer.WithTracker(context.Background(), tracker)
	_, errs := MapSourceFiles(ctx, files, src, Options{},
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return path, nil
		})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}
	if len(paths) != 3 {
		t.Errorf("Expected 3 progress callbacks, got %d", len(paths))
	}
	for i, total := range totals {
		if total != 3 {
			t.Errorf("Progress callback %d: expected total=3, got %d", i, total)
		}
	}
}

func TestProcessingErrors(t *testing.T) {
	errs := &ProcessingErrors{}
	if errs.HasErrors() {
		t.Error("new collection should be empty")
	}
	if errs.Error() != "no errors" {
		t.Errorf("Error() = %q", errs.Error())
	}

	errs.Add("a.js", errors.New("first"))
	if errs.Error() != "a.js: first" {
		t.Errorf("Error() = %q, want %q", errs.Error(), "a.js: first")
	}

	errs.Add("b.js", errors.New("second"))
	if errs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", errs.Len())
	}
	if got := errs.Error(); got != "2 files failed to process (first: a.js: first)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestProcessingErrors_ThreadSafe(t *testing.T) {
	errs := &ProcessingErrors{}
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs.Add(fmt.Sprintf("f%d.js", i), errors.New("x"))
		}()
	}
	wg.Wait()

	if errs.Len() != 100 {
		t.Errorf("Len() = %d, want 100", errs.Len())
	}
}

func BenchmarkMapSourceFiles(b *testing.B) {
	src := mapSource{}
	var files []string
	for i := range 100 {
		path := fmt.Sprintf("f%d.js", i)
		src[path] = "function f(a) { if (a) { return a + 1; } return 0; }"
		files = append(files, path)
	}

	for b.Loop() {
		results, _ := MapSourceFiles(context.Background(), files, src, Options{},
			func(psr *parser.Parser, path string, content []byte) (int, error) {
				res, err := psr.Parse(context.Background(), content, parser.LangJavaScript, path)
				if err != nil {
					return 0, err
				}
				defer res.Close()
				return int(res.Root().ChildCount()), nil
			})
		if len(results) != len(files) {
			b.Fatalf("Expected %d results, got %d", len(files), len(results))
		}
	}
}

func createTestFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file %s: %v", name, err)
	}
	return path
}
