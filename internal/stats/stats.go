package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationUs int64
}

// Snapshot is a point-in-time aggregate of latency samples for one operation.
type Snapshot struct {
	Count int     `json:"count"`
	MinUs int64   `json:"min_us"`
	MaxUs int64   `json:"max_us"`
	AvgUs float64 `json:"avg_us"`
	P50Us float64 `json:"p50_us"`
	P95Us float64 `json:"p95_us"`
	P99Us float64 `json:"p99_us"`
}

// Latency tracks recent query latencies per operation within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples map[string][]sample
	maxAge  time.Duration
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make(map[string][]sample),
		maxAge:  maxAge,
	}
}

// Record adds one sample for op.
func (s *Latency) Record(op string, d time.Duration) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(op, now)
	s.samples[op] = append(s.samples[op], sample{
		timestamp:  now,
		durationUs: us,
	})
}

// Snapshot returns aggregates for every operation with samples in the window.
func (s *Latency) Snapshot() map[string]Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Snapshot, len(s.samples))
	for op := range s.samples {
		s.pruneLocked(op, now)
		if snap, ok := aggregate(s.samples[op]); ok {
			out[op] = snap
		}
	}
	return out
}

func aggregate(samples []sample) (Snapshot, bool) {
	if len(samples) == 0 {
		return Snapshot{}, false
	}

	values := make([]int64, 0, len(samples))
	var sum int64
	for _, sm := range samples {
		values = append(values, sm.durationUs)
		sum += sm.durationUs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count: len(values),
		MinUs: values[0],
		MaxUs: values[len(values)-1],
		AvgUs: float64(sum) / float64(len(values)),
		P50Us: percentile(values, 50),
		P95Us: percentile(values, 95),
		P99Us: percentile(values, 99),
	}, true
}

func (s *Latency) pruneLocked(op string, now time.Time) {
	cutoff := now.Add(-s.maxAge)
	samples := s.samples[op]
	writeIdx := 0
	for _, sm := range samples {
		if !sm.timestamp.Before(cutoff) {
			samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples[op] = samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
