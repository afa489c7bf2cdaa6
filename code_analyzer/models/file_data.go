package models

import (
	"path"
	"strings"
)

// FileCandidate is a file discovered by the walker that passed the path filter.
type FileCandidate struct {
	AbsolutePath string
	RelativePath string // forward-slash separated, relative to the scan root
	Extension    string // lower-cased, with leading dot
	Depth        int    // number of directories between the root and the file
}

// Name returns the base file name of the candidate.
func (f FileCandidate) Name() string {
	return path.Base(f.RelativePath)
}

// Category returns the selection category derived from the extension.
func (f FileCandidate) Category() Category {
	return CategoryForExtension(f.Extension)
}

// ScoredFile pairs a candidate with its ranking score. Order is the position
// in discovery order and is used to keep sorting stable.
type ScoredFile struct {
	FileCandidate
	Score int
	Order int
}

// DirectoryNode is one entry of the collapsed tree view. DisplayPath may hold a
// chain of single-child directories joined with "/".
type DirectoryNode struct {
	DisplayPath string
	FileCount   int
	Children    []*DirectoryNode
	Truncated   bool // depth limit reached, children not expanded
}

// FileData holds a rendered file section.
type FileData struct {
	RelativePath string
	Category     Category
	Content      string
	Truncated    bool
	Err          error
}

// Digest is the rendered artifact, kept in parts so callers can post-process
// individual sections before joining them.
type Digest struct {
	Header   string
	Tree     string
	FileData []FileData
}

const ruleLine = "================================================================================"

// RuleLine returns the separator line used between artifact sections.
func RuleLine() string {
	return ruleLine
}

// String joins the digest into the final text artifact.
func (d *Digest) String() string {
	var b strings.Builder
	b.WriteString(d.Header)
	b.WriteString(ruleLine + "\n")
	b.WriteString("DIRECTORY STRUCTURE\n")
	b.WriteString(ruleLine + "\n")
	b.WriteString(d.Tree)
	b.WriteString("\n")
	b.WriteString(ruleLine + "\n")
	b.WriteString("FILE CONTENTS\n")
	for _, fd := range d.FileData {
		b.WriteString(ruleLine + "\n")
		b.WriteString(fd.RelativePath + "\n")
		b.WriteString(ruleLine + "\n")
		b.WriteString(fd.Content)
		if fd.Content != "" && !strings.HasSuffix(fd.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
