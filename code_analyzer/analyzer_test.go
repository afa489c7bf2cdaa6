package code_analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

func newTestAnalyzer(t *testing.T, cwd string) *CodeAnalyzer {
	t.Helper()
	analyzer, ok := NewCodeAnalyzer(cwd, AnalyzerOptions{Clock: fixedClock, Version: "test"}).(*CodeAnalyzer)
	require.True(t, ok)
	return analyzer
}

// classWithLongMethod returns a 200-line source file: one public class with
// one public method whose body has 50 statements.
func classWithLongMethod() string {
	var b strings.Builder
	b.WriteString("using System;\n\nnamespace Shop.Orders\n{\n")
	b.WriteString("    public class OrderProcessor\n    {\n")
	b.WriteString("        public int Process(int count)\n        {\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "            count = count + %d; // statement_%d\n", i, i)
	}
	b.WriteString("            return count;\n        }\n    }\n}\n")
	for i := 0; strings.Count(b.String(), "\n") < 200; i++ {
		fmt.Fprintf(&b, "// trailing comment %d\n", i)
	}
	return b.String()
}

func TestGenerateDigest_SignatureScenario(t *testing.T) {
	root := t.TempDir()
	source := classWithLongMethod()
	require.Equal(t, 200, strings.Count(source, "\n"))
	writeTree(t, root, map[string]string{
		"src/a.cs":       source,
		"bin/ignored.cs": "public class Ignored { }",
	})

	digest, err := newTestAnalyzer(t, root).GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)

	require.Len(t, digest.FileData, 1)
	section := digest.FileData[0]
	assert.Equal(t, "src/a.cs", section.RelativePath)
	assert.Contains(t, section.Content, "public class OrderProcessor")
	assert.Contains(t, section.Content, "public int Process(int count);")
	assert.NotContains(t, section.Content, "statement_")
	assert.NotContains(t, section.Content, "return count")

	text := digest.String()
	assert.NotContains(t, text, "ignored.cs")
	assert.NotContains(t, text, "bin/")
}

func TestGenerateDigest_EmptyTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "empty")
	writeTree(t, root, map[string]string{"README.md": "# nothing here"})

	digest, err := newTestAnalyzer(t, root).GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)

	assert.Empty(t, digest.FileData)
	assert.Equal(t, "empty/\n", digest.Tree)

	text := digest.String()
	assert.True(t, strings.HasSuffix(text, "FILE CONTENTS\n"))
	assert.Contains(t, text, "DIRECTORY STRUCTURE\n"+models.RuleLine()+"\nempty/\n\n")
}

func TestGenerateDigest_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Shop.sln":                  "Project(\"{A}\") = \"Api\", \"Api.csproj\", \"{B}\"\n",
		"src/Api/Api.csproj":        `<Project><ItemGroup><PackageReference Include="Serilog" Version="3.1.1" /></ItemGroup></Project>`,
		"src/Api/Program.cs":        "var app = WebApplication.Create(); app.Run();",
		"src/Api/appsettings.json":  `{"ConnectionStrings": {"Default": "x"}}`,
		"src/Domain/Order.cs":       "public record Order(int Id);",
		"src/Web/Pages/Index.razor": "@page \"/\"\n<h1>Hello</h1>",
		"Directory.Build.props":     "<Project><PropertyGroup><TargetFrameworks>net8.0;net9.0</TargetFrameworks></PropertyGroup></Project>",
		"deploy/values.yaml":        "replicas: 2\nimage:\n  tag: latest\n",
	})

	analyzer := newTestAnalyzer(t, root)
	first, err := analyzer.GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)
	second, err := analyzer.GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.Len(t, first.FileData, 8)
}

func TestGenerateDigest_CapsAndFilters(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 30; i++ {
		files[fmt.Sprintf("src/F%02d/Handler.cs", i)] = "public class Handler { }"
		files[fmt.Sprintf("src/F%02d/Handler.g.cs", i)] = "public class Generated { }"
		files[fmt.Sprintf("src/F%02d/settings.json", i)] = "{}"
	}
	writeTree(t, root, files)

	config := models.DefaultScanConfiguration()
	config.MaxFiles = 12
	config.CategoryCaps[models.Source] = 8

	digest, err := newTestAnalyzer(t, root).GenerateDigest(context.Background(), root, config)
	require.NoError(t, err)
	require.Len(t, digest.FileData, 12)

	counts := make(map[models.Category]int)
	for _, fd := range digest.FileData {
		counts[fd.Category]++
		assert.False(t, strings.HasSuffix(fd.RelativePath, ".g.cs"), fd.RelativePath)
	}
	assert.Equal(t, 8, counts[models.Source])
	assert.Equal(t, 4, counts[models.StructuredData])
}

func TestGenerateDigest_RelativeRootAndGitignore(t *testing.T) {
	cwd := t.TempDir()
	writeTree(t, cwd, map[string]string{
		"project/.gitignore":          "Generated/\n",
		"project/Generated/Client.cs": "public class Client { }",
		"project/Api.cs":              "public class Api { }",
	})

	digest, err := newTestAnalyzer(t, cwd).GenerateDigest(context.Background(), "project", models.DefaultScanConfiguration())
	require.NoError(t, err)
	assert.Equal(t, []string{"Api.cs"}, fileDataPaths(digest))

	config := models.DefaultScanConfiguration()
	config.RespectGitignore = false
	digest, err = newTestAnalyzer(t, cwd).GenerateDigest(context.Background(), "project", config)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Api.cs", "Generated/Client.cs"}, fileDataPaths(digest))
}

func TestGenerateDigest_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.cs": ""})
	analyzer := newTestAnalyzer(t, root)

	t.Run("missing root", func(t *testing.T) {
		_, err := analyzer.GenerateDigest(context.Background(), filepath.Join(root, "missing"), models.DefaultScanConfiguration())
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("root is a file", func(t *testing.T) {
		_, err := analyzer.GenerateDigest(context.Background(), filepath.Join(root, "file.cs"), models.DefaultScanConfiguration())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		config := models.DefaultScanConfiguration()
		config.MaxFiles = -1
		config.CategoryCaps[models.Source] = -2
		_, err := analyzer.GenerateDigest(context.Background(), root, config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_files")
		assert.Contains(t, err.Error(), "cap for source")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := analyzer.GenerateDigest(ctx, root, models.DefaultScanConfiguration())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateDigest_RepositoryRevision(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Order.cs": "public class Order { }"})

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("Order.cs")
	require.NoError(t, err)
	hash, err := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	digest, err := newTestAnalyzer(t, root).GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)
	assert.Contains(t, digest.Header, "# Revision: master@"+hash.String()[:7]+"\n")
	assert.Equal(t, []string{"Order.cs"}, fileDataPaths(digest))
}

func TestRenderTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	writeTree(t, root, map[string]string{"src/Api/Program.cs": ""})
	analyzer := newTestAnalyzer(t, root)

	tree, err := analyzer.RenderTree(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)
	assert.Equal(t, "repo/\n  src/\n    Api/\n      Program.cs\n", tree)

	config := models.DefaultScanConfiguration()
	config.TreeSummaryOnly = true
	tree, err = analyzer.RenderTree(context.Background(), root, config)
	require.NoError(t, err)
	assert.Equal(t, "repo/\n  src/Api/ (1 file)\n", tree)
}

func TestCodeAnalyzer_CacheOperations(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Order.cs": "public class Order { }"})

	uncached := newTestAnalyzer(t, root)
	_, err := uncached.GetCacheStats()
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.ErrorIs(t, uncached.ClearCache(), ErrCacheDisabled)

	analyzer := NewCodeAnalyzer(root, AnalyzerOptions{UseCache: true, CacheDir: filepath.Join(t.TempDir(), "cache"), Clock: fixedClock})
	_, err = analyzer.GenerateDigest(context.Background(), root, models.DefaultScanConfiguration())
	require.NoError(t, err)

	stats, err := analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CacheFiles)

	require.NoError(t, analyzer.ClearCache())
	stats, err = analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Zero(t, stats.CacheFiles)
}

func fileDataPaths(digest *models.Digest) []string {
	var paths []string
	for _, fd := range digest.FileData {
		paths = append(paths, fd.RelativePath)
	}
	return paths
}
