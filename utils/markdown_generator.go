package utils

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

// lexerAliases maps extensions chroma does not know by extension to a lexer name.
var lexerAliases = map[string]string{
	"sln":     "plaintext",
	"csproj":  "xml",
	"fsproj":  "xml",
	"vbproj":  "xml",
	"props":   "xml",
	"targets": "xml",
	"config":  "xml",
	"razor":   "razor",
	"cshtml":  "razor",
}

// RenderDigestWithHighlight writes the digest like Digest.String does, but
// colors each file section with the lexer matching its extension.
func RenderDigestWithHighlight(w io.Writer, digest *models.Digest, theme string) error {
	rule := models.RuleLine()

	if _, err := fmt.Fprint(w, digest.Header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\nDIRECTORY STRUCTURE\n%s\n%s\n%s\nFILE CONTENTS\n", rule, rule, digest.Tree, rule); err != nil {
		return err
	}

	for _, fd := range digest.FileData {
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", rule, fd.RelativePath, rule); err != nil {
			return err
		}
		content := fd.Content
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := quick.Highlight(w, content, lexerFor(fd.RelativePath), "terminal256", theme); err != nil {
			// Emit the section uncolored
			if _, werr := fmt.Fprint(w, content); werr != nil {
				return werr
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

func lexerFor(relativePath string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(relativePath)), ".")
	if alias, ok := lexerAliases[ext]; ok {
		return alias
	}
	if ext == "" {
		return "plaintext"
	}
	return ext
}
