package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/TpouHuK/halstead-js/pkg/config"
	"github.com/TpouHuK/halstead-js/pkg/parser"
)

// Scanner finds JavaScript and TypeScript sources in a directory tree.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
	prefix   []string // scan root relative to the git root
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot walks up from start looking for a .git directory.
func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns compiles config exclusions and, when enabled, every
// .gitignore below the repository root into one matcher.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = s.matchers[:0]
	s.prefix = nil
	var patterns []gitignore.Pattern

	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(dir+"/", nil))
	}
	for _, ext := range s.config.Exclude.Extensions {
		patterns = append(patterns, gitignore.ParsePattern("*"+ext, nil))
	}
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			if abs, err := filepath.Abs(root); err == nil {
				if rel, err := filepath.Rel(gitRoot, abs); err == nil && rel != "." {
					s.prefix = strings.Split(filepath.ToSlash(rel), "/")
				}
			}
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if len(s.matchers) == 0 || path == "." {
		return false
	}
	parts := append(append([]string(nil), s.prefix...), strings.Split(filepath.ToSlash(path), "/")...)
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans root for source files. Symlinks that resolve
// outside root are skipped. The result is sorted.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(root)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if parser.DetectLanguage(path) != parser.LangUnknown {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

// ScanPaths expands a mix of files and directories into the files to analyze.
// Explicit files are kept when their language is supported, even if an
// exclusion pattern would match them. Duplicates are removed.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if parser.DetectLanguage(p) != parser.LangUnknown {
				add(p)
			}
			continue
		}
		files, err := s.ScanDir(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

// FilterNames keeps the repository-relative names that a directory scan
// would have selected. It is used for trees read from git history, where the
// config exclusions apply but no working tree .gitignore is consulted.
func (s *Scanner) FilterNames(names []string) []string {
	var out []string
	for _, name := range names {
		if parser.DetectLanguage(name) == parser.LangUnknown {
			continue
		}
		if s.config.ShouldExclude(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// isWithinRoot reports whether path is root or lies below it.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// GroupByLanguage groups files by their detected language.
func GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		if lang := parser.DetectLanguage(f); lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}
