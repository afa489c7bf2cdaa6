package code_analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

const ellipsisMarker = "..."

type dirEntry struct {
	name         string
	absolutePath string
	relativePath string
}

// listDirectory returns the in-scope files and eligible subdirectories of a
// directory, both sorted by name.
func (f *PathFilter) listDirectory(absolutePath, relativePath string) ([]dirEntry, []dirEntry, error) {
	entries, err := os.ReadDir(absolutePath)
	if err != nil {
		return nil, nil, err
	}

	var files, subdirs []dirEntry
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		e := dirEntry{
			name:         entry.Name(),
			absolutePath: filepath.Join(absolutePath, entry.Name()),
			relativePath: joinRelative(relativePath, entry.Name()),
		}
		if entry.IsDir() {
			if f.acceptsDirectory(e.name, e.relativePath) {
				subdirs = append(subdirs, e)
			}
			continue
		}
		if entry.Type().IsRegular() && f.acceptsFile(e.relativePath) {
			files = append(files, e)
		}
	}
	return files, subdirs, nil
}

// treeItem is either a directory still to expand or a finished output line.
type treeItem struct {
	dir   *dirEntry
	line  string
	depth int
}

// FullTree renders the complete directory listing: each directory followed by
// its subdirectories and in-scope files. Directories deeper than MaxTreeDepth
// are replaced by an ellipsis marker. A zero MaxFilesPerDirectory lists every file.
func FullTree(ctx context.Context, root string, filter *PathFilter, config models.ScanConfiguration) (string, error) {
	var b strings.Builder

	rootEntry := dirEntry{name: filepath.Base(root), absolutePath: root}
	stack := []treeItem{{dir: &rootEntry}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.dir == nil {
			b.WriteString(indent(item.depth) + item.line + "\n")
			continue
		}

		b.WriteString(indent(item.depth) + item.dir.name + "/\n")

		files, subdirs, err := filter.listDirectory(item.dir.absolutePath, item.dir.relativePath)
		if err != nil {
			continue
		}

		// Build children in display order, then push them reversed
		var children []treeItem
		if len(subdirs) > 0 {
			if item.depth+1 > config.MaxTreeDepth {
				children = append(children, treeItem{line: ellipsisMarker, depth: item.depth + 1})
			} else {
				for i := range subdirs {
					children = append(children, treeItem{dir: &subdirs[i], depth: item.depth + 1})
				}
			}
		}
		shown := files
		if config.MaxFilesPerDirectory > 0 && len(files) > config.MaxFilesPerDirectory {
			shown = files[:config.MaxFilesPerDirectory]
		}
		for _, file := range shown {
			children = append(children, treeItem{line: file.name, depth: item.depth + 1})
		}
		if hidden := len(files) - len(shown); hidden > 0 {
			children = append(children, treeItem{line: fmt.Sprintf("... (%d more files)", hidden), depth: item.depth + 1})
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return b.String(), nil
}

type summaryWork struct {
	node     *models.DirectoryNode
	entry    dirEntry
	depth    int
	collapse bool
}

// Summarize builds the collapsed tree: runs of directories that hold no
// in-scope files and exactly one eligible subdirectory are joined into one
// display segment, and the terminal directory of each chain carries its file
// count. The root itself is never merged into a chain. Unreadable directories
// yield no children.
func Summarize(ctx context.Context, root string, filter *PathFilter, config models.ScanConfiguration) (*models.DirectoryNode, error) {
	rootNode := &models.DirectoryNode{DisplayPath: filepath.Base(root)}
	stack := []summaryWork{{node: rootNode, entry: dirEntry{name: rootNode.DisplayPath, absolutePath: root}}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		work := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entry, depth := work.entry, work.depth
		var files, subdirs []dirEntry
		for {
			var err error
			files, subdirs, err = filter.listDirectory(entry.absolutePath, entry.relativePath)
			if err != nil {
				files, subdirs = nil, nil
				break
			}
			if !work.collapse || len(files) != 0 || len(subdirs) != 1 || depth+1 > config.MaxTreeDepth {
				break
			}
			entry = subdirs[0]
			depth++
			work.node.DisplayPath += "/" + entry.name
		}

		work.node.FileCount = len(files)
		if len(subdirs) == 0 {
			continue
		}
		if depth+1 > config.MaxTreeDepth {
			work.node.Truncated = true
			continue
		}

		for _, sub := range subdirs {
			child := &models.DirectoryNode{DisplayPath: sub.name}
			work.node.Children = append(work.node.Children, child)
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, summaryWork{node: work.node.Children[i], entry: subdirs[i], depth: depth + 1, collapse: true})
		}
	}

	return rootNode, nil
}

// FormatSummary renders a collapsed tree as indented text.
func FormatSummary(root *models.DirectoryNode) string {
	type formatItem struct {
		node  *models.DirectoryNode
		depth int
	}

	var b strings.Builder
	stack := []formatItem{{node: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(indent(item.depth) + item.node.DisplayPath + "/")
		switch {
		case item.node.FileCount == 1:
			b.WriteString(" (1 file)")
		case item.node.FileCount > 1:
			fmt.Fprintf(&b, " (%d files)", item.node.FileCount)
		}
		b.WriteString("\n")

		if item.node.Truncated {
			b.WriteString(indent(item.depth+1) + ellipsisMarker + "\n")
		}
		for i := len(item.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, formatItem{node: item.node.Children[i], depth: item.depth + 1})
		}
	}
	return b.String()
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
