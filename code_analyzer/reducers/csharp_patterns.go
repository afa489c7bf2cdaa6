package reducers

import (
	"regexp"
	"strings"
)

// Line-pattern recognition used when the parse tree yields nothing. It only
// understands the declaration shapes below; every other line is dropped.
var (
	noiseLinePattern   = regexp.MustCompile(`^(?:global\s+using\s|using\s|namespace\s|\[|//|/\*|\*|#)`)
	typeDeclPattern    = regexp.MustCompile(`^(?:(?:public|internal|protected|private|static|sealed|abstract|partial|readonly|ref|unsafe|file|new)\s+)*(?:class|struct|interface|enum|record(?:\s+struct|\s+class)?)\s+[A-Za-z_]\w*`)
	memberPrefixRe     = regexp.MustCompile(`^((?:(?:public|internal|protected|private|static|virtual|override|abstract|async|sealed|extern|unsafe|new|partial|readonly|required|implicit|explicit|const|event)\s+)+)`)
	fieldDeclPattern   = regexp.MustCompile(`^[^(){}]+\s+[A-Za-z_]\w*\s*(?:=[^{}]*)?;\s*$`)
	accessorKeywordsRe = regexp.MustCompile(`\b(?:(?:private|protected|internal)\s+)?(?:get|set|init)\b`)
)

const maxSignatureLines = 6

func stripWithPatterns(content string) (string, bool) {
	lines := SplitLines(content)
	var kept []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || noiseLinePattern.MatchString(trimmed) {
			continue
		}
		leading := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		if match := typeDeclPattern.FindString(trimmed); match != "" {
			if hasWord(match, "private") || hasWord(match, "protected") {
				continue
			}
			kept = append(kept, leading+strings.TrimSpace(cutBody(trimmed)))
			continue
		}

		prefix := memberPrefixRe.FindString(trimmed)
		if prefix == "" || !(hasWord(prefix, "public") || hasWord(prefix, "internal")) {
			continue
		}

		paren := strings.Index(trimmed, "(")
		body := firstIndex(trimmed, "{", "=>")
		switch {
		case paren >= 0 && (body < 0 || paren < body):
			signature, consumed := joinUntilBalanced(lines, i)
			i += consumed
			kept = append(kept, leading+terminate(cutBody(signature)))
		case body >= 0:
			head := strings.TrimSpace(trimmed[:body])
			if strings.HasPrefix(trimmed[body:], "=>") {
				kept = append(kept, leading+head+" { get; }")
				continue
			}
			accessors := accessorKeywordsRe.FindAllString(trimmed[body:], -1)
			if len(accessors) == 0 {
				accessors = []string{"get", "set"}
			}
			kept = append(kept, leading+head+" { "+strings.Join(accessors, "; ")+"; }")
		case fieldDeclPattern.MatchString(trimmed):
			kept = append(kept, leading+terminate(trimmed))
		}
	}

	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, "\n"), true
}

// joinUntilBalanced joins lines starting at start until the parameter list
// closes. It returns the joined text and the number of extra lines consumed.
func joinUntilBalanced(lines []string, start int) (string, int) {
	var parts []string
	depth := 0
	for i := start; i < len(lines) && i < start+maxSignatureLines; i++ {
		part := strings.TrimSpace(lines[i])
		parts = append(parts, part)
		depth += strings.Count(part, "(") - strings.Count(part, ")")
		if depth <= 0 {
			return strings.Join(parts, " "), i - start
		}
	}
	return strings.Join(parts, " "), len(parts) - 1
}

// cutBody removes everything from the first body opener on.
func cutBody(s string) string {
	if idx := firstIndex(s, "{", "=>"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func firstIndex(s string, needles ...string) int {
	best := -1
	for _, needle := range needles {
		if idx := strings.Index(s, needle); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

func hasWord(s, word string) bool {
	for _, field := range strings.Fields(s) {
		if field == word {
			return true
		}
	}
	return false
}
