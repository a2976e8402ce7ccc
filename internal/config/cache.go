package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache.  Prefix namespaces the
// keys of one resource so a write to it can drop them all with a single
// SCAN (see middleware.InvalidatePrefix).
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-cased
	TTL          time.Duration
	KeyStrategy  string // "route_query" or "route"
	Prefix       string
	MaxBodyBytes int // larger responses are served but not stored
}

// LoadCacheConfig reads CACHE_*.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methodSet(getenv("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       getenv("CACHE_PREFIX", "wf:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}

// WithPrefix returns a copy whose keys live under Prefix:name.
func (c CacheConfig) WithPrefix(name string) CacheConfig {
	c.Prefix = c.Prefix + ":" + name
	return c
}

func methodSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range strings.Split(list, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			set[m] = true
		}
	}
	return set
}
