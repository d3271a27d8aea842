package dscache

import "time"

// Config is the read-only caching policy handed in by the embedding
// application. The zero value disables caching entirely.
type Config struct {
	CachingEnabled  bool
	CacheDir        string
	MaxCacheSizeGB  float64
	MaxCacheAgeDays int

	// Offline forces caching off regardless of CachingEnabled.
	Offline bool
}

// Active reports whether caching is in effect under this policy.
func (c Config) Active() bool { return c.CachingEnabled && !c.Offline }

// MaxAge converts the configured age limit to a duration; 0 means unlimited.
func (c Config) MaxAge() time.Duration {
	return time.Duration(c.MaxCacheAgeDays) * 24 * time.Hour
}

// MaxSizeBytes converts the configured size limit to bytes; 0 means unlimited.
func (c Config) MaxSizeBytes() int64 {
	return int64(c.MaxCacheSizeGB * float64(1<<30))
}
