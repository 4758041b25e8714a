package agent

import "sync"

// Stats counts request outcomes for the stats endpoint.
type Stats struct {
	mu         sync.Mutex
	total      int64
	cacheHits  int64
	quick      int64
	generative int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Total      int64 `json:"total_requests"`
	CacheHits  int64 `json:"cache_hits"`
	Quick      int64 `json:"quick_replies"`
	Generative int64 `json:"generative_replies"`
}

func (s *Stats) recordCacheHit() {
	s.mu.Lock()
	s.total++
	s.cacheHits++
	s.mu.Unlock()
}

func (s *Stats) recordQuick() {
	s.mu.Lock()
	s.total++
	s.quick++
	s.mu.Unlock()
}

func (s *Stats) recordGenerative() {
	s.mu.Lock()
	s.total++
	s.generative++
	s.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Total:      s.total,
		CacheHits:  s.cacheHits,
		Quick:      s.quick,
		Generative: s.generative,
	}
}
