package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
)

// FileInfo represents a local file matched by the search glob
type FileInfo struct {
	Path string // As matched, relative to the working directory unless the glob was absolute
	Size int64
}

// Walker finds local files with a doublestar glob (supports **)
type Walker struct {
	pattern string
}

// NewWalker validates the glob pattern and creates a walker
func NewWalker(pattern string) (*Walker, error) {
	if pattern == "" {
		return nil, syncerrors.NewConfigError("search-glob", fmt.Errorf("pattern is empty"))
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, syncerrors.NewConfigError("search-glob", fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern))
	}
	return &Walker{pattern: pattern}, nil
}

// Walk returns the regular files matching the pattern, sorted by path.
// Directories and other non-regular entries are skipped.
func (w *Walker) Walk() ([]FileInfo, error) {
	matches, err := doublestar.FilepathGlob(w.pattern, doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, syncerrors.NewIOError("glob", w.pattern, err)
	}

	var files []FileInfo
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, syncerrors.NewIOError("stat", path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Path: filepath.Clean(path),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}
