package code_analyzer

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

// pendingDir is one item of the walker's work-list.
type pendingDir struct {
	absolutePath string
	relativePath string
	depth        int
}

// Walker traverses a directory tree with an explicit stack instead of
// recursion, so deep trees never exhaust the call stack.
type Walker struct {
	filter   *PathFilter
	maxDepth int
}

// NewWalker creates a walker that applies the given filter. Depth is unbounded.
func NewWalker(filter *PathFilter) *Walker {
	return &Walker{filter: filter, maxDepth: -1}
}

// WithMaxDepth stops descending below the given directory depth (root is 0).
// A negative depth means unlimited.
func (w *Walker) WithMaxDepth(depth int) *Walker {
	clone := *w
	clone.maxDepth = depth
	return &clone
}

// Walk lazily yields every file below root that passes the filter. Directories
// that cannot be read contribute nothing and traversal continues with the rest
// of the work-list. The context is checked between directory visits; when it
// is cancelled the sequence ends early and the caller should inspect ctx.Err().
// The sequence is not restartable: call Walk again to re-walk.
func (w *Walker) Walk(ctx context.Context, root string) iter.Seq[models.FileCandidate] {
	return func(yield func(models.FileCandidate) bool) {
		stack := []pendingDir{{absolutePath: root, relativePath: "", depth: 0}}

		for len(stack) > 0 {
			if ctx.Err() != nil {
				return
			}

			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(current.absolutePath)
			if err != nil {
				// Permission denied, vanished or unreadable: skip the directory
				continue
			}

			var subdirs []pendingDir
			for _, entry := range entries {
				if entry.Type()&os.ModeSymlink != 0 {
					continue
				}
				relativePath := joinRelative(current.relativePath, entry.Name())

				if entry.IsDir() {
					if !w.filter.acceptsDirectory(entry.Name(), relativePath) {
						continue
					}
					if w.maxDepth >= 0 && current.depth+1 > w.maxDepth {
						continue
					}
					subdirs = append(subdirs, pendingDir{
						absolutePath: filepath.Join(current.absolutePath, entry.Name()),
						relativePath: relativePath,
						depth:        current.depth + 1,
					})
					continue
				}

				if !entry.Type().IsRegular() || !w.filter.acceptsFile(relativePath) {
					continue
				}

				candidate := models.FileCandidate{
					AbsolutePath: filepath.Join(current.absolutePath, entry.Name()),
					RelativePath: relativePath,
					Extension:    strings.ToLower(filepath.Ext(entry.Name())),
					Depth:        current.depth,
				}
				if !yield(candidate) {
					return
				}
			}

			// os.ReadDir returns entries sorted by name; push in reverse so the
			// first subdirectory is visited first.
			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, subdirs[i])
			}
		}
	}
}

// Collect drains a walk into a slice, preserving discovery order.
func (w *Walker) Collect(ctx context.Context, root string) ([]models.FileCandidate, error) {
	var candidates []models.FileCandidate
	for candidate := range w.Walk(ctx, root) {
		candidates = append(candidates, candidate)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func joinRelative(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
