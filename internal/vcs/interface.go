// Package vcs provides version control system abstractions.
package vcs

// Repository provides access to the revisions of a git repository.
type Repository interface {
	// Head returns the commit hash HEAD points to.
	Head() (string, error)
	// TreeAt returns the file tree of a revision (branch, tag, hash, HEAD~n).
	TreeAt(rev string) (Tree, error)
	// RepoPath returns the root path of the worktree.
	RepoPath() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// File returns the content of the file at path. Absolute paths are
	// resolved against the repository root.
	File(path string) ([]byte, error)
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
