// Package reducers shortens file contents while keeping what matters for a
// reader: declarations, structure, dependency lists. Every reducer tolerates
// partial or malformed input by falling back to a prefix of the raw text.
package reducers

import (
	"fmt"
	"path"
	"strings"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

const (
	DefaultFallbackLines     = 40
	DefaultStructuredDepth   = 3
	DefaultStructuredEntries = 120
	DefaultMarkupPrefixLines = 30
)

// Reducer transforms raw file content into a shorter representation.
type Reducer interface {
	Reduce(content string) string
}

// Passthrough returns the first MaxLines lines verbatim.
type Passthrough struct {
	MaxLines int
}

func (p Passthrough) Reduce(content string) string {
	return TruncateLines(content, p.MaxLines)
}

// ForFile picks the reducer for a file. Variant identifies the choice so
// callers can key caches on it.
func ForFile(relativePath string, category models.Category, stripSignatures bool, maxLines int) (reducer Reducer, variant string) {
	switch category {
	case models.SolutionManifest:
		return SolutionMembers{FallbackLines: DefaultFallbackLines}, "solution"
	case models.ProjectManifest, models.ConfigManifest:
		return ManifestEssentials{FallbackLines: DefaultFallbackLines}, "manifest"
	case models.StructuredData:
		return newStructuralSummarizer(), "structure"
	case models.MarkupTemplate:
		return MarkupDirectives{PrefixLines: DefaultMarkupPrefixLines}, "markup"
	case models.Source:
		if stripSignatures {
			return CSharpSignatures{FallbackLines: DefaultFallbackLines}, "signatures"
		}
	case models.ConfigData:
		switch strings.ToLower(path.Ext(relativePath)) {
		case ".yml", ".yaml":
			return newStructuralSummarizer(), "structure"
		}
	}
	return Passthrough{MaxLines: maxLines}, fmt.Sprintf("passthrough-%d", maxLines)
}

func newStructuralSummarizer() StructuralSummarizer {
	return StructuralSummarizer{
		MaxDepth:      DefaultStructuredDepth,
		MaxEntries:    DefaultStructuredEntries,
		FallbackLines: DefaultFallbackLines,
	}
}

// SplitLines splits content into lines. A single trailing newline does not
// produce an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// TruncationMarker is the line appended when lines were cut.
func TruncationMarker(omitted int) string {
	return fmt.Sprintf("... (%d more lines truncated)", omitted)
}

// TruncateLines keeps content with at most maxLines lines unchanged. Longer
// content is cut to its first maxLines lines followed by one marker line.
func TruncateLines(content string, maxLines int) string {
	lines := SplitLines(content)
	if len(lines) <= maxLines {
		return content
	}
	kept := append([]string{}, lines[:maxLines]...)
	kept = append(kept, TruncationMarker(len(lines)-maxLines))
	return strings.Join(kept, "\n")
}
