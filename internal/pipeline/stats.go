package pipeline

import (
	"slices"
	"sync"
	"time"
)

// Outcome classifies a processed document for the stats.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeReview
	OutcomeFailed
)

type sample struct {
	at      time.Time
	ms      int64
	outcome Outcome
}

// StatsSnapshot is a point-in-time aggregate of extraction samples.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Valid  int     `json:"valid"`
	Review int     `json:"review"`
	Failed int     `json:"failed"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Stats tracks per-document extraction latencies within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one processed document.
func (s *Stats) Record(d time.Duration, outcome Outcome) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, ms: ms, outcome: outcome})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var snap StatsSnapshot
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.ms)
		sum += sm.ms
		switch sm.outcome {
		case OutcomeValid:
			snap.Valid++
		case OutcomeReview:
			snap.Review++
		case OutcomeFailed:
			snap.Failed++
		}
	}
	slices.Sort(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
