package reducers

import "strings"

const solutionProjectMarker = "Project("

// SolutionMembers keeps only the project declaration lines of a .sln file.
type SolutionMembers struct {
	FallbackLines int
}

func (s SolutionMembers) Reduce(content string) string {
	var kept []string
	for _, line := range SplitLines(content) {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, solutionProjectMarker) {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return TruncateLines(content, s.FallbackLines)
	}
	return strings.Join(kept, "\n")
}
