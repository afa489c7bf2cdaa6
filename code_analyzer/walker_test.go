package code_analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

func TestWalker_FiltersAndOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Shop.sln":                    "",
		"README.md":                   "",
		"src/Api/Program.cs":          "",
		"src/Api/Api.csproj":          "",
		"src/Api/Form.Designer.cs":    "",
		"src/Api/bin/Debug/Api.cs":    "",
		"src/Api/obj/project.json":    "",
		"src/Domain/Order.cs":         "",
		"tests/Api.Tests/UnitTest.cs": "",
		"node_modules/pkg/index.json": "",
	})

	walker := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil))
	candidates, err := walker.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Shop.sln",
		"src/Api/Api.csproj",
		"src/Api/Program.cs",
		"src/Domain/Order.cs",
		"tests/Api.Tests/UnitTest.cs",
	}, relativePaths(candidates))

	program := candidates[2]
	assert.Equal(t, ".cs", program.Extension)
	assert.Equal(t, 2, program.Depth)
	assert.Equal(t, filepath.Join(root, "src", "Api", "Program.cs"), program.AbsolutePath)
}

func TestWalker_NeverYieldsExcludedOrGenerated(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/bin/x.cs":            "",
		"a/BIN/y.cs":            "",
		"a/b/obj/z.cs":          "",
		"a/b/c/Model.g.cs":      "",
		"a/b/c/Model.cs":        "",
		"a/b/c/notes.txt":       "",
		"a/.vs/settings.json":   "",
		"a/b/c/d/e/f/Deep.json": "",
	})

	config := models.DefaultScanConfiguration()
	filter := NewPathFilter(config, nil)
	candidates, err := NewWalker(filter).Collect(context.Background(), root)
	require.NoError(t, err)

	for _, c := range candidates {
		_, allowed := config.AllowedExtensions[c.Extension]
		assert.True(t, allowed, c.RelativePath)
		segments := strings.Split(c.RelativePath, "/")
		for _, dir := range segments[:len(segments)-1] {
			assert.False(t, filter.IsExcludedDirectory(dir), c.RelativePath)
		}
		for _, suffix := range config.GeneratedFileSuffixes {
			assert.False(t, strings.HasSuffix(strings.ToLower(c.RelativePath), suffix), c.RelativePath)
		}
	}
	assert.Equal(t, []string{"a/b/c/Model.cs", "a/b/c/d/e/f/Deep.json"}, relativePaths(candidates))
}

func TestWalker_DeepTreeWithoutRecursion(t *testing.T) {
	root := t.TempDir()
	parts := make([]string, 150)
	for i := range parts {
		parts[i] = "d"
	}
	deep := strings.Join(parts, "/") + "/Leaf.cs"
	writeTree(t, root, map[string]string{deep: "class Leaf {}"})

	candidates, err := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil)).Collect(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, deep, candidates[0].RelativePath)
	assert.Equal(t, 150, candidates[0].Depth)
}

func TestWalker_WithMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Root.cs":      "",
		"a/A.cs":       "",
		"a/b/B.cs":     "",
		"a/b/c/C.cs":   "",
		"x/y/z/w/Z.cs": "",
	})

	walker := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil))
	candidates, err := walker.WithMaxDepth(1).Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root.cs", "a/A.cs"}, relativePaths(candidates))

	// The original walker is not modified
	all, err := walker.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestWalker_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/A.cs": "", "b/B.cs": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	walker := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil))
	var yielded int
	for range walker.Walk(ctx, root) {
		yielded++
	}
	assert.Zero(t, yielded)

	_, err := walker.Collect(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalker_StopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"A.cs": "", "B.cs": "", "C.cs": ""})

	walker := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil))
	var first []string
	for c := range walker.Walk(context.Background(), root) {
		first = append(first, c.RelativePath)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"A.cs", "B.cs"}, first)
}

func TestWalker_UnreadableDirectoryIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locked/Secret.cs": "", "open/Open.cs": ""})

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	candidates, err := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil)).Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"open/Open.cs"}, relativePaths(candidates))
}

func TestWalker_MissingRootYieldsNothing(t *testing.T) {
	walker := NewWalker(NewPathFilter(models.DefaultScanConfiguration(), nil))
	candidates, err := walker.Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestWalker_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":                 "generated/\n*.local.json\n",
		"generated/Client.cs":        "",
		"src/appsettings.json":       "",
		"src/appsettings.local.json": "",
	})

	config := models.DefaultScanConfiguration()
	matcher := loadMatcher(t, root)

	candidates, err := NewWalker(NewPathFilter(config, matcher)).Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/appsettings.json"}, relativePaths(candidates))
}
