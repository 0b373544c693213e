package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitOpener_PlainOpen_NonExistent(t *testing.T) {
	_, err := NewGitOpener().PlainOpen("/nonexistent/path")
	assert.Error(t, err)
}

func TestGitOpener_PlainOpenWithDetect(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)

	subDir := filepath.Join(repoPath, "src")
	repo, err := NewGitOpener().PlainOpenWithDetect(subDir)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(repoPath)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(repo.RepoPath())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_TreeAt(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)
	repo, err := NewGitOpener().PlainOpen(repoPath)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Len(t, head, 40)

	current, err := repo.TreeAt("HEAD")
	require.NoError(t, err)
	content, err := current.File("src/app.js")
	require.NoError(t, err)
	assert.Equal(t, "let x = prompt();\nprint(x);\n", string(content))

	previous, err := repo.TreeAt("HEAD~1")
	require.NoError(t, err)
	content, err = previous.File(filepath.Join(repo.RepoPath(), "src", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", string(content))

	_, err = previous.File("src/missing.js")
	assert.Error(t, err)

	_, err = repo.TreeAt("no-such-branch")
	assert.Error(t, err)
}

func TestTree_Entries(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)

	tree, err := OpenTree(repoPath, "HEAD")
	require.NoError(t, err)

	entries, err := tree.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "src/app.js", entries[0].Path)
	assert.Positive(t, entries[0].Size)
}

func TestDefaultOpener(t *testing.T) {
	original := DefaultOpener()
	defer SetDefaultOpener(original)

	custom := NewGitOpener()
	SetDefaultOpener(custom)
	assert.Same(t, custom, DefaultOpener())
}

func initTestRepoWithCommits(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	w, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(repoPath, "src"), 0755))
	file := filepath.Join(repoPath, "src", "app.js")

	commit := func(content, msg string) {
		require.NoError(t, os.WriteFile(file, []byte(content), 0644))
		_, err := w.Add("src/app.js")
		require.NoError(t, err)
		_, err = w.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Test",
				Email: "test@example.com",
				When:  time.Now(),
			},
		})
		require.NoError(t, err)
	}

	commit("let x = 1;\n", "Initial commit")
	commit("let x = prompt();\nprint(x);\n", "Read input")
	return repoPath
}
