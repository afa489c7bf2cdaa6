package reducers

import "strings"

// markupDirectives are the Razor directives worth keeping from templates.
var markupDirectives = []string{
	"@page",
	"@inject",
	"@layout",
	"@model",
	"@inherits",
	"@implements",
}

// MarkupDirectives lists the Razor directives of a template followed by the
// first PrefixLines lines of the whole template.
type MarkupDirectives struct {
	PrefixLines int
}

func (m MarkupDirectives) Reduce(content string) string {
	var directives []string
	for _, line := range SplitLines(content) {
		trimmed := strings.TrimSpace(line)
		for _, directive := range markupDirectives {
			if strings.HasPrefix(trimmed, directive) {
				directives = append(directives, trimmed)
				break
			}
		}
	}

	prefix := TruncateLines(content, m.PrefixLines)
	if len(directives) == 0 {
		return prefix
	}
	return strings.Join(directives, "\n") + "\n\n" + prefix
}
