// Package perf keeps a bounded window of request and query timings for the
// /debug/perf endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Label      string // route pattern such as "POST /activities/{id}/participants", or a query label
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of entries. When full, the oldest
// entry is overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	total   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// A non-positive size selects DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns the number of entries ever recorded, including
// those that have since been overwritten.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Latency holds percentiles over one kind of entry.
type Latency struct {
	Count int     `json:"count"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stat aggregates one route or query label.
type Stat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Errors  int     `json:"errors"` // responses with status >= 400
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	TotalMs float64 `json:"total_ms"`
}

// Snapshot is the aggregated view served by /debug/perf.
type Snapshot struct {
	Since          time.Time `json:"since"`
	TotalRecorded  int64     `json:"total_recorded"`
	Requests       Latency   `json:"requests"`
	Queries        Latency   `json:"queries"`
	Rejected       int       `json:"rejected"` // 4xx responses
	Failed         int       `json:"failed"`   // 5xx responses
	SlowestRoutes  []Stat    `json:"slowest_routes"`
	SlowestQueries []Stat    `json:"slowest_queries"`
}

// Snapshot aggregates entries recorded at or after since and keeps the topN
// slowest routes and queries by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var reqMs, queryMs []float64
	routes := make(map[string]*Stat)
	queries := make(map[string]*Stat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := queries
		if e.Kind == KindRequest {
			stats = routes
			reqMs = append(reqMs, e.DurationMs)
			switch {
			case e.StatusCode >= 500:
				snap.Failed++
			case e.StatusCode >= 400:
				snap.Rejected++
			}
		} else {
			queryMs = append(queryMs, e.DurationMs)
		}

		s, ok := stats[e.Label]
		if !ok {
			s = &Stat{Label: e.Label}
			stats[e.Label] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = max(s.MaxMs, e.DurationMs)
		if e.StatusCode >= 400 {
			s.Errors++
		}
	}

	snap.Requests = latency(reqMs)
	snap.Queries = latency(queryMs)
	snap.SlowestRoutes = slowest(routes, topN)
	snap.SlowestQueries = slowest(queries, topN)
	return snap
}

func latency(ms []float64) Latency {
	if len(ms) == 0 {
		return Latency{}
	}
	slices.Sort(ms)
	return Latency{
		Count: len(ms),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
}

// percentile interpolates the p-th percentile of a sorted, non-empty slice.
func percentile(sorted []float64, p float64) float64 {
	idx := (p / 100) * float64(len(sorted)-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// slowest orders stats by average duration, descending, ties by label.
func slowest(stats map[string]*Stat, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b Stat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
