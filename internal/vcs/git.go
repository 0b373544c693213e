package vcs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// PlainOpen opens an existing git repository.
func (o *GitOpener) PlainOpen(path string) (Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}
	return newGitRepository(repo, path)
}

// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
func (o *GitOpener) PlainOpenWithDetect(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	return newGitRepository(repo, path)
}

func newGitRepository(repo *git.Repository, fallback string) (*gitRepository, error) {
	root := fallback
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &gitRepository{repo: repo, root: abs}, nil
}

// gitRepository wraps go-git Repository.
type gitRepository struct {
	repo *git.Repository
	root string
}

func (r *gitRepository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

func (r *gitRepository) TreeAt(rev string) (Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree, root: r.root}, nil
}

func (r *gitRepository) RepoPath() string {
	return r.root
}

// gitTree wraps go-git Tree.
type gitTree struct {
	tree *object.Tree
	root string
}

func (t *gitTree) File(path string) ([]byte, error) {
	f, err := t.tree.File(t.rel(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}

func (t *gitTree) Entries() ([]TreeEntry, error) {
	var entries []TreeEntry
	err := t.tree.Files().ForEach(func(f *object.File) error {
		entries = append(entries, TreeEntry{Path: f.Name, Size: f.Size})
		return nil
	})
	return entries, err
}

// rel converts a path to the slash-separated form git trees use.
func (t *gitTree) rel(path string) string {
	if filepath.IsAbs(path) {
		if r, err := filepath.Rel(t.root, path); err == nil {
			path = r
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

// OpenTree opens the repository containing repoPath and returns the tree of rev.
func OpenTree(repoPath, rev string) (Tree, error) {
	repo, err := DefaultOpener().PlainOpenWithDetect(repoPath)
	if err != nil {
		return nil, err
	}
	return repo.TreeAt(rev)
}

var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the default git opener.
func DefaultOpener() Opener {
	return defaultOpener
}

// SetDefaultOpener sets the default git opener (useful for testing).
func SetDefaultOpener(opener Opener) {
	defaultOpener = opener
}
