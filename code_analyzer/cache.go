package code_analyzer

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

const cacheFileSuffix = ".cache"

// CacheEntry represents a cached reduction with the source file metadata it
// was produced from
type CacheEntry struct {
	Data      string
	Variant   string
	Timestamp time.Time
	FileSize  int64
	ModTime   time.Time
}

// FileCache stores one gob-encoded entry per (file, variant) pair
type FileCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// CacheManager provides high-level caching operations for reduced file content
type CacheManager struct {
	fileCache *FileCache
	stats     *CacheStats
}

// ContentCache is the subset of the cache the renderer needs
type ContentCache interface {
	GetReducedContent(filePath, variant string) (string, bool)
	SetReducedContent(filePath, variant, content string) error
}

// NewCacheManager creates a new cache manager instance.
// If cacheDir is empty, it defaults to "codigest" under the user cache directory.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user cache directory: %w", err)
		}
		cacheDir = filepath.Join(userCacheDir, "codigest")
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cacheManager := &CacheManager{
		fileCache: &FileCache{cacheDir: cacheDir},
		stats:     &CacheStats{LastResetTime: time.Now()},
	}

	// Conservative cleanup: entries older than 7 days are dropped
	_ = cacheManager.CleanExpiredCache(7 * 24 * time.Hour)

	return cacheManager, nil
}

// CacheDir returns the directory holding the cache files
func (cm *CacheManager) CacheDir() string {
	return cm.fileCache.cacheDir
}

// generateCacheKey creates a unique cache file name for a file and variant
func (fc *FileCache) generateCacheKey(filePath, variant string) string {
	return fmt.Sprintf("%016x%s", xxh3.HashString(filePath+"\x00"+variant), cacheFileSuffix)
}

// getCachePath returns the full path to a cache file
func (fc *FileCache) getCachePath(cacheKey string) string {
	return filepath.Join(fc.cacheDir, cacheKey)
}

// isFileChanged checks if a file has been modified since it was cached
func (fc *FileCache) isFileChanged(filePath string, entry *CacheEntry) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true, err
	}
	return !fileInfo.ModTime().Equal(entry.ModTime) || fileInfo.Size() != entry.FileSize, nil
}

// Get retrieves data from cache if the source file is unchanged
func (fc *FileCache) Get(filePath, variant string) (string, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath, variant))
	entry, err := readCacheEntry(cachePath)
	if err != nil || entry.Variant != variant {
		return "", false
	}

	changed, err := fc.isFileChanged(filePath, entry)
	if err != nil || changed {
		// Stale entry, drop it
		_ = os.Remove(cachePath)
		return "", false
	}

	return entry.Data, true
}

// Set stores data in cache with the current metadata of the source file
func (fc *FileCache) Set(filePath, variant, data string) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	entry := CacheEntry{
		Data:      data,
		Variant:   variant,
		Timestamp: time.Now(),
		FileSize:  fileInfo.Size(),
		ModTime:   fileInfo.ModTime(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath, variant))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Delete removes a cache entry
func (fc *FileCache) Delete(filePath, variant string) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath, variant))
	if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}

	return nil
}

func readCacheEntry(cachePath string) (*CacheEntry, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetReducedContent retrieves a cached reduction of a file
func (cm *CacheManager) GetReducedContent(filePath, variant string) (string, bool) {
	content, found := cm.fileCache.Get(filePath, variant)
	if !found {
		cm.recordCacheMiss()
		return "", false
	}
	cm.recordCacheHit()
	return content, true
}

// SetReducedContent stores the reduction of a file
func (cm *CacheManager) SetReducedContent(filePath, variant, content string) error {
	return cm.fileCache.Set(filePath, variant, content)
}

// GetCacheStats returns storage statistics of the cache directory and the
// hit rate of this session
func (cm *CacheManager) GetCacheStats() (*models.CacheStats, error) {
	cm.fileCache.mutex.RLock()
	defer cm.fileCache.mutex.RUnlock()

	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	stats := &models.CacheStats{CacheDir: cm.fileCache.cacheDir}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.CacheFiles++
		stats.TotalSize += info.Size()
		if stats.OldestEntry.IsZero() || info.ModTime().Before(stats.OldestEntry) {
			stats.OldestEntry = info.ModTime()
		}
		if info.ModTime().After(stats.NewestEntry) {
			stats.NewestEntry = info.ModTime()
		}
	}

	perf := cm.GetPerformanceStats()
	stats.TotalRequests = perf.TotalRequests
	stats.HitRate = perf.HitRate

	return stats, nil
}

// ClearCache completely removes all cache entries
func (cm *CacheManager) ClearCache() error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(cm.fileCache.cacheDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}

	cm.ResetStats()
	return errors.Join(errs...)
}

// CleanExpiredCache removes cache entries older than the given duration
func (cm *CacheManager) CleanExpiredCache(maxAge time.Duration) error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			continue
		}
		cachePath := filepath.Join(cm.fileCache.cacheDir, entry.Name())
		cached, err := readCacheEntry(cachePath)
		if err != nil {
			// Unreadable entries are useless
			_ = os.Remove(cachePath)
			continue
		}
		if cached.Timestamp.Before(cutoff) {
			_ = os.Remove(cachePath)
		}
	}

	return nil
}
