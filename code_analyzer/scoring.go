package code_analyzer

import (
	"strings"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

// Ranking policy tables. Weights are additive.

// CategoryBaseScores is the starting score of a file by category.
var CategoryBaseScores = map[models.Category]int{
	models.SolutionManifest: 100,
	models.ProjectManifest:  80,
	models.Source:           50,
	models.StructuredData:   30,
	models.MarkupTemplate:   20,
	models.ConfigManifest:   10,
	models.ConfigData:       10,
}

// HighSignalHintBonus is added once per matching hint.
const HighSignalHintBonus = 15

// HighSignalHints are matched case-insensitively as substrings of the
// relative path.
var HighSignalHints = []string{
	"program.cs",
	"startup.cs",
	"appsettings",
	"dbcontext",
	"repository",
	"service",
	"controller",
	"endpoint",
	"handler",
	"command",
	"query",
	"consumer",
	"publisher",
	"eventbus",
	"provider",
	"gateway",
	"options",
	"middleware",
	"entity",
	"aggregate",
	"migration",
}

// PathSegmentBonuses reward architecturally significant folder names. Segments
// are matched case-insensitively against whole path segments.
var PathSegmentBonuses = map[string]int{
	"domain":         12,
	"application":    10,
	"infrastructure": 10,
	"persistence":    10,
	"core":           8,
	"api":            8,
	"contracts":      6,
	"features":       6,
	"src":            4,
}

// PathPenalties are subtracted when the lower-cased path ends with the suffix
// (companion and code-behind files) or contains the segment (tests, samples).
var (
	CompanionSuffixPenalties = map[string]int{
		".razor.cs":       30,
		".cshtml.cs":      30,
		".xaml.cs":        30,
		".designer.cs":    40,
		"assemblyinfo.cs": 40,
		"globalusings.cs": 20,
	}
	SegmentPenalties = map[string]int{
		"tests":      15,
		"test":       15,
		"samples":    10,
		"migrations": 5,
	}
)

// ScoreFile computes the ranking score of a candidate from the tables above.
func ScoreFile(file models.FileCandidate) int {
	score := CategoryBaseScores[file.Category()]

	lowerPath := strings.ToLower(strings.ReplaceAll(file.RelativePath, "\\", "/"))
	for _, hint := range HighSignalHints {
		if strings.Contains(lowerPath, hint) {
			score += HighSignalHintBonus
		}
	}

	segments := strings.Split(lowerPath, "/")
	for _, segment := range segments[:len(segments)-1] {
		score += PathSegmentBonuses[segment]
		score -= SegmentPenalties[segment]
	}

	for suffix, penalty := range CompanionSuffixPenalties {
		if strings.HasSuffix(lowerPath, suffix) {
			score -= penalty
		}
	}

	return score
}
