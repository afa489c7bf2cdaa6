package code_analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheManager, string) {
	t.Helper()
	cacheManager, err := NewCacheManager(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	require.NotNil(t, cacheManager)
	return cacheManager, t.TempDir()
}

// Test cache manager setup and basic operations
func TestCacheManager_BasicOperations(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	testFile := filepath.Join(workDir, "Program.cs")
	require.NoError(t, os.WriteFile(testFile, []byte("public class Program { }"), 0o644))

	content, found := cacheManager.GetReducedContent(testFile, "signatures")
	assert.False(t, found)
	assert.Empty(t, content)

	require.NoError(t, cacheManager.SetReducedContent(testFile, "signatures", "public class Program\n{\n}"))

	content, found = cacheManager.GetReducedContent(testFile, "signatures")
	assert.True(t, found)
	assert.Equal(t, "public class Program\n{\n}", content)

	// A different variant of the same file is a different entry
	_, found = cacheManager.GetReducedContent(testFile, "passthrough-40")
	assert.False(t, found)
}

func TestCacheManager_FileInvalidation(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	testFile := filepath.Join(workDir, "settings.json")
	require.NoError(t, os.WriteFile(testFile, []byte(`{"a":1}`), 0o644))
	require.NoError(t, cacheManager.SetReducedContent(testFile, "structure", "a: number"))

	_, found := cacheManager.GetReducedContent(testFile, "structure")
	require.True(t, found)

	// Size and mtime change
	require.NoError(t, os.WriteFile(testFile, []byte(`{"a":1,"b":2}`), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(testFile, later, later))

	_, found = cacheManager.GetReducedContent(testFile, "structure")
	assert.False(t, found, "cache should be invalidated after file modification")
}

func TestCacheManager_MissingSourceFile(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	err := cacheManager.SetReducedContent(filepath.Join(workDir, "missing.cs"), "signatures", "x")
	assert.Error(t, err)
}

func TestCacheManager_Statistics(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	for _, name := range []string{"a.cs", "b.cs", "c.cs"} {
		path := filepath.Join(workDir, name)
		require.NoError(t, os.WriteFile(path, []byte("class "+strings.TrimSuffix(name, ".cs")+" {}"), 0o644))
		require.NoError(t, cacheManager.SetReducedContent(path, "signatures", name))
	}

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CacheFiles)
	assert.Greater(t, stats.TotalSize, int64(0))
	assert.Equal(t, cacheManager.CacheDir(), stats.CacheDir)

	_, _ = cacheManager.GetReducedContent(filepath.Join(workDir, "a.cs"), "signatures")
	_, _ = cacheManager.GetReducedContent(filepath.Join(workDir, "a.cs"), "other")

	perf := cacheManager.GetPerformanceStats()
	assert.Equal(t, int64(2), perf.TotalRequests)
	assert.Equal(t, int64(1), perf.CacheHits)
	assert.Equal(t, int64(1), perf.CacheMisses)
	assert.InDelta(t, 50.0, perf.HitRate, 0.001)
}

func TestCacheManager_ClearCache(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	path := filepath.Join(workDir, "a.cs")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o644))
	require.NoError(t, cacheManager.SetReducedContent(path, "signatures", "class A"))
	_, _ = cacheManager.GetReducedContent(path, "signatures")

	require.NoError(t, cacheManager.ClearCache())

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Zero(t, stats.CacheFiles)
	assert.Zero(t, cacheManager.GetPerformanceStats().TotalRequests)

	_, found := cacheManager.GetReducedContent(path, "signatures")
	assert.False(t, found)
}

func TestCacheManager_CleanupExpired(t *testing.T) {
	cacheManager, workDir := newTestCache(t)

	path := filepath.Join(workDir, "a.cs")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o644))
	require.NoError(t, cacheManager.SetReducedContent(path, "signatures", "class A"))

	// Nothing is older than an hour yet
	require.NoError(t, cacheManager.CleanExpiredCache(time.Hour))
	_, found := cacheManager.GetReducedContent(path, "signatures")
	assert.True(t, found)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, cacheManager.CleanExpiredCache(time.Millisecond))
	_, found = cacheManager.GetReducedContent(path, "signatures")
	assert.False(t, found)
}

func TestCacheManager_CorruptEntryIsDropped(t *testing.T) {
	cacheManager, _ := newTestCache(t)

	corrupt := filepath.Join(cacheManager.CacheDir(), "deadbeef.cache")
	require.NoError(t, os.WriteFile(corrupt, []byte("not gob"), 0o644))

	require.NoError(t, cacheManager.CleanExpiredCache(time.Hour))
	_, err := os.Stat(corrupt)
	assert.True(t, os.IsNotExist(err))
}
