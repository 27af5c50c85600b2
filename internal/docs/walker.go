// Package docs discovers the markdown corpus that gets chunked and embedded.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is a corpus document found during a walk.
type File struct {
	RelPath string // forward-slash path relative to the corpus root; used as the source ID
	AbsPath string
}

// Walker finds corpus files under a root directory, filtered by doublestar
// glob patterns matched against root-relative paths.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a walker. With no include patterns it matches all
// markdown files.
func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.md"}
	}
	return &Walker{includes: includes, excludes: excludes}
}

// Walk returns the matching files under root in deterministic (lexical
// filepath.WalkDir) order. Dot directories are skipped.
func (w *Walker) Walk(root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if !w.matches(relPath) {
			return nil
		}

		files = append(files, File{RelPath: relPath, AbsPath: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) matches(relPath string) bool {
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	for _, pattern := range w.includes {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
