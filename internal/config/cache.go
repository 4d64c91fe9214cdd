package config

import (
    "fmt"
    "os"
    "strconv"
    "time"
)

// CacheConfig defines settings for the tenant response cache middleware.
// When Enabled is false or no Redis client is configured, caching will be
// disabled.  TTL defines the lifetime of cache entries.  Prefix and
// MaxBodyBytes allow control over namespacing and the maximum size of
// responses to cache.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set; malformed values are an error.
func LoadCacheConfig() (CacheConfig, error) {
    ttl, err := time.ParseDuration(getenv("CACHE_TTL", "30s"))
    if err != nil || ttl <= 0 {
        return CacheConfig{}, fmt.Errorf("invalid duration for CACHE_TTL: %q", os.Getenv("CACHE_TTL"))
    }
    maxBody, err := strconv.Atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576"))
    if err != nil || maxBody < 0 {
        return CacheConfig{}, fmt.Errorf("invalid int for CACHE_MAX_BODY_BYTES: %q", os.Getenv("CACHE_MAX_BODY_BYTES"))
    }
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          ttl,
        Prefix:       getenv("CACHE_PREFIX", "notes-cache"),
        MaxBodyBytes: maxBody,
    }, nil
}

// Helper functions reused from config.go and redis.go
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
