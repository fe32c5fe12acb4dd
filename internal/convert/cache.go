package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedConverter memoizes conversion results by markup digest. Results are
// plain values, so a cached entry can be handed to many callers.
type CachedConverter struct {
	conv   *Converter
	cache  *lru.Cache[string, Result]
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewCached wraps conv with an LRU cache holding up to size results.
func NewCached(conv *Converter, size int) (*CachedConverter, error) {
	if conv == nil {
		return nil, fmt.Errorf("converter is nil")
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &CachedConverter{conv: conv, cache: cache}, nil
}

// Convert returns the cached result for markup, converting on a miss.
func (cc *CachedConverter) Convert(markup string) Result {
	key := digest(markup)
	if res, ok := cc.cache.Get(key); ok {
		cc.hits.Add(1)
		return res
	}

	cc.misses.Add(1)
	res := cc.conv.Convert(markup)
	cc.cache.Add(key, res)
	return res
}

// Converter returns the wrapped converter.
func (cc *CachedConverter) Converter() *Converter { return cc.conv }

// Stats returns a snapshot of cache counters.
func (cc *CachedConverter) Stats() CacheStats {
	return CacheStats{
		Size:   cc.cache.Len(),
		Hits:   cc.hits.Load(),
		Misses: cc.misses.Load(),
	}
}

// Purge drops every cached result.
func (cc *CachedConverter) Purge() {
	cc.cache.Purge()
}

func digest(markup string) string {
	sum := sha256.Sum256([]byte(markup))
	return hex.EncodeToString(sum[:])
}
