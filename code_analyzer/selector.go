package code_analyzer

import (
	"sort"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

// RankFiles wraps candidates as scored files in discovery order. Scores are
// only computed when scoring is enabled; otherwise every file scores zero and
// the order stays as discovered.
func RankFiles(candidates []models.FileCandidate, scoring bool) []models.ScoredFile {
	scored := make([]models.ScoredFile, len(candidates))
	for i, candidate := range candidates {
		scored[i] = models.ScoredFile{FileCandidate: candidate, Order: i}
		if scoring {
			scored[i].Score = ScoreFile(candidate)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Order < scored[j].Order
	})
	return scored
}

// ApplyCategoryCaps is the first capping pass: each category's ordered
// sub-list is cut to its own cap, then the categories are concatenated in
// CategoryOrder and duplicates removed.
func ApplyCategoryCaps(ranked []models.ScoredFile, config models.ScanConfiguration) []models.ScoredFile {
	byCategory := make(map[models.Category][]models.ScoredFile)
	for _, file := range ranked {
		category := file.Category()
		byCategory[category] = append(byCategory[category], file)
	}

	seen := make(map[string]struct{}, len(ranked))
	var merged []models.ScoredFile
	for _, category := range models.CategoryOrder {
		files := byCategory[category]
		if limit := config.CapFor(category); len(files) > limit {
			files = files[:limit]
		}
		for _, file := range files {
			if _, dup := seen[file.RelativePath]; dup {
				continue
			}
			seen[file.RelativePath] = struct{}{}
			merged = append(merged, file)
		}
	}
	return merged
}

// ApplyGlobalCap is the second capping pass: the merged list is cut to MaxFiles.
func ApplyGlobalCap(files []models.ScoredFile, config models.ScanConfiguration) []models.ScoredFile {
	if len(files) > config.MaxFiles {
		return files[:config.MaxFiles]
	}
	return files
}

// SelectFiles ranks the candidates and applies both capping passes.
func SelectFiles(candidates []models.FileCandidate, config models.ScanConfiguration) []models.FileCandidate {
	ranked := RankFiles(candidates, config.OnlyHighSignal)
	capped := ApplyGlobalCap(ApplyCategoryCaps(ranked, config), config)

	selected := make([]models.FileCandidate, len(capped))
	for i, file := range capped {
		selected[i] = file.FileCandidate
	}
	return selected
}
