package code_analyzer

import "time"

// PerformanceStats is a snapshot of the cache hit counters
type PerformanceStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	HitRate       float64
	Uptime        time.Duration
	LastReset     time.Time
}

// recordCacheHit records a cache hit for performance tracking
func (cm *CacheManager) recordCacheHit() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheHits++
}

// recordCacheMiss records a cache miss for performance tracking
func (cm *CacheManager) recordCacheMiss() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheMisses++
}

// GetPerformanceStats returns the hit and miss counters since the last reset
func (cm *CacheManager) GetPerformanceStats() PerformanceStats {
	cm.stats.mutex.RLock()
	defer cm.stats.mutex.RUnlock()

	hitRate := 0.0
	if cm.stats.TotalRequests > 0 {
		hitRate = float64(cm.stats.CacheHits) / float64(cm.stats.TotalRequests) * 100
	}

	return PerformanceStats{
		TotalRequests: cm.stats.TotalRequests,
		CacheHits:     cm.stats.CacheHits,
		CacheMisses:   cm.stats.CacheMisses,
		HitRate:       hitRate,
		Uptime:        time.Since(cm.stats.LastResetTime),
		LastReset:     cm.stats.LastResetTime,
	}
}

// ResetStats resets all performance counters
func (cm *CacheManager) ResetStats() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()

	cm.stats.TotalRequests = 0
	cm.stats.CacheHits = 0
	cm.stats.CacheMisses = 0
	cm.stats.LastResetTime = time.Now()
}
