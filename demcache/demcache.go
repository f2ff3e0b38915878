package demcache

import (
	"fmt"

	cache "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

const IdSeparator = ":"

// Store memoizes expensive demo computations by request key. A complete
// analysis run over tens of thousands of sessions is deterministic for a
// given parameter set, so caching by parameters is safe.
type Store struct {
	resultCache *cache.Cache
}

// New creates a store holding up to size entries.
func New(size int) (*Store, error) {
	resultCache, err := cache.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{resultCache: resultCache}, nil
}

// AnalysisKey identifies one complete e-commerce analysis run.
func AnalysisKey(seed int64, visitsPerMonth, months int) string {
	return fmt.Sprintf("analysis%s%d%s%d%s%d", IdSeparator, seed, IdSeparator, visitsPerMonth, IdSeparator, months)
}

// SeriesKey identifies one generated daily metric series.
func SeriesKey(seed int64, days int) string {
	return fmt.Sprintf("series%s%d%s%d", IdSeparator, seed, IdSeparator, days)
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// its result. Errors are never cached.
func (s *Store) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if value, found := s.resultCache.Get(key); found {
		log.WithField("key", key).Debug("Demo cache hit.")
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	s.resultCache.Add(key, value)
	return value, nil
}

// Purge drops every cached entry.
func (s *Store) Purge() {
	s.resultCache.Purge()
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return s.resultCache.Len()
}
