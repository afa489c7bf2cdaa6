package models

import "time"

// CacheStats describes the reduced-content cache on disk and how well it
// served the current process.
type CacheStats struct {
	CacheDir      string
	CacheFiles    int
	TotalSize     int64
	OldestEntry   time.Time
	NewestEntry   time.Time
	TotalRequests int64
	HitRate       float64
}
