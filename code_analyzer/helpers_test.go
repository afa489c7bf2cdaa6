package code_analyzer

import (
	"os"
	"path/filepath"
	"testing"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
	"github.com/meysamhadeli/codigest/utils"
)

// writeTree creates files under root from a map of slash-separated relative
// paths to contents. A path ending in "/" creates an empty directory.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relativePaths(candidates []models.FileCandidate) []string {
	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, c.RelativePath)
	}
	return paths
}

func candidate(rel string) models.FileCandidate {
	return models.FileCandidate{
		AbsolutePath: "/repo/" + rel,
		RelativePath: rel,
		Extension:    filepath.Ext(rel),
	}
}

func loadMatcher(t *testing.T, root string) *ignore.GitIgnore {
	t.Helper()
	matcher, err := utils.LoadGitignore(root)
	require.NoError(t, err)
	require.NotNil(t, matcher)
	return matcher
}
