package scanner

import (
	"os"
	pathpkg "path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/frherrer/mdconform/internal/domain"
)

// Scanner discovers literate spec documents in the project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Get path relative to rootDir for pattern matching
		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			// Skip non-root directories if not recursive
			if !s.Recursive && relPath != "." {
				return filepath.SkipDir
			}
			// Check if directory matches any exclude pattern
			for _, exc := range excludes {
				if relPath != "." && matchGlob(relPath, exc) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		// Check if file matches any exclude pattern
		for _, exc := range excludes {
			if matchGlob(relPath, exc) {
				return nil
			}
		}

		// Check if file matches any include pattern
		for _, pattern := range patterns {
			if matchGlob(relPath, pattern) {
				files = append(files, path)
				return nil
			}
		}

		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

var (
	globMu    sync.Mutex
	globCache = make(map[string]glob.Glob)
)

func compileGlob(pattern string) (glob.Glob, error) {
	globMu.Lock()
	defer globMu.Unlock()
	if g, ok := globCache[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}
	globCache[pattern] = g
	return g, nil
}

// matchGlob matches a relative path against a glob pattern. "**" crosses
// directories, "**/x" also matches x at the root, "dir/**" also matches dir
// itself, and a pattern without a separator matches the base name.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	g, err := compileGlob(pattern)
	if err != nil {
		return false
	}
	if g.Match(path) {
		return true
	}
	if !strings.Contains(pattern, "/") {
		return g.Match(pathpkg.Base(path))
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok && matchGlob(path, rest) {
		return true
	}
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok && path == dir {
		return true
	}
	return false
}
