package source

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/TpouHuK/halstead-js/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSource(t *testing.T) {
	src := NewFilesystem()

	content, err := src.Read("../../go.mod")
	require.NoError(t, err)
	assert.Contains(t, string(content), "module github.com/TpouHuK/halstead-js")

	_, err = src.Read("nonexistent.txt")
	assert.Error(t, err)
}

type fakeTree struct {
	files map[string]string
}

func (f *fakeTree) File(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	return []byte(content), nil
}

func (f *fakeTree) Entries() ([]vcs.TreeEntry, error) {
	var out []vcs.TreeEntry
	for p, c := range f.files {
		out = append(out, vcs.TreeEntry{Path: p, Size: int64(len(c))})
	}
	return out, nil
}

func TestTreeSource(t *testing.T) {
	tree := &fakeTree{files: map[string]string{"a.js": "let a = 1;"}}
	src := NewTree(tree)

	content, err := src.Read("a.js")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(content))

	_, err = src.Read("b.js")
	assert.Error(t, err)

	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, files)
}

func TestTreeSource_Concurrent(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string]string{"a.js": "x"}})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := src.Read("a.js")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestOpenTreeOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("x"), 0644))
	_, err := OpenTree(dir, "HEAD")
	assert.Error(t, err, "a directory outside any repository has no revisions")
}
