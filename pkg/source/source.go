// Package source abstracts where analyzed file content comes from.
package source

import (
	"os"
	"sync"

	"github.com/TpouHuK/halstead-js/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree vcs.Tree
	mu   sync.Mutex
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}

// Files lists the paths in the tree.
func (t *TreeSource) Files() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries, err := t.tree.Entries()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}

// OpenTree returns the tree of ref in the repository containing dir.
func OpenTree(dir, ref string) (*TreeSource, error) {
	tree, err := vcs.OpenTree(dir, ref)
	if err != nil {
		return nil, err
	}
	return NewTree(tree), nil
}
