package perf

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestCollector_RoutesAndQueriesAggregateSeparately(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Label: "GET /students", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "GET /students", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Label: "SELECT students", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 3 {
		t.Errorf("TotalRecorded = %d, want 3", snap.TotalRecorded)
	}
	if snap.Requests.Count != 2 || snap.Queries.Count != 1 {
		t.Errorf("counts = %d requests, %d queries", snap.Requests.Count, snap.Queries.Count)
	}
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes = %+v", snap.SlowestRoutes)
	}
	if r := snap.SlowestRoutes[0]; r.AvgMs != 20 || r.MaxMs != 30 || r.TotalMs != 40 {
		t.Errorf("route stat = %+v, want avg 20 max 30 total 40", r)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Label != "SELECT students" {
		t.Fatalf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

func TestCollector_CountsRejectedAndFailed(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	save := "POST /activities/{id}/participants"
	for _, status := range []int{200, 422, 422, 404, 500} {
		c.Record(Entry{Kind: KindRequest, Label: save, StatusCode: status, DurationMs: 1, Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.Rejected != 3 || snap.Failed != 1 {
		t.Errorf("rejected = %d, failed = %d; want 3 and 1", snap.Rejected, snap.Failed)
	}
	if got := snap.SlowestRoutes[0].Errors; got != 4 {
		t.Errorf("route errors = %d, want 4", got)
	}
}

func TestCollector_RingBufferOverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := range 5 {
		c.Record(Entry{Kind: KindRequest, Label: "GET /years", DurationMs: float64(i), Timestamp: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes = %+v", snap.SlowestRoutes)
	}
	r := snap.SlowestRoutes[0]
	if r.Count != 3 || r.MaxMs != 4 || r.AvgMs != 3 {
		t.Errorf("route = %+v, want the last three entries (2, 3, 4)", r)
	}
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Label: "POST /activities/{id}/participants", DurationMs: float64(i), Timestamp: now})
	}

	got := c.Snapshot(now.Add(-time.Minute), 10).Requests
	tests := []struct {
		name   string
		value  float64
		lo, hi float64
	}{
		{"p50", got.P50Ms, 49, 51},
		{"p95", got.P95Ms, 94, 96},
		{"p99", got.P99Ms, 98, 100},
	}
	for _, tc := range tests {
		if tc.value < tc.lo || tc.value > tc.hi {
			t.Errorf("%s = %v, want between %v and %v", tc.name, tc.value, tc.lo, tc.hi)
		}
	}
}

func TestCollector_EmptyWindow(t *testing.T) {
	c := NewCollector(10)
	snap := c.Snapshot(time.Now(), 5)
	if snap.Requests != (Latency{}) || snap.Queries != (Latency{}) {
		t.Errorf("latency on empty window = %+v / %+v", snap.Requests, snap.Queries)
	}
	if snap.SlowestRoutes == nil || len(snap.SlowestRoutes) != 0 {
		t.Errorf("SlowestRoutes = %#v, want empty non-nil", snap.SlowestRoutes)
	}
}

func TestCollector_SnapshotFiltersBySince(t *testing.T) {
	c := NewCollector(100)
	recent := time.Now()
	c.Record(Entry{Kind: KindRequest, Label: "GET /rooms", DurationMs: 100, Timestamp: recent.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Label: "GET /activities", DurationMs: 10, Timestamp: recent})

	snap := c.Snapshot(recent.Add(-time.Hour), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Label != "GET /activities" {
		t.Errorf("SlowestRoutes = %+v, want only GET /activities", snap.SlowestRoutes)
	}
}

func TestCollector_TopNOrdersByAverage(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	for i, label := range []string{"SELECT a", "SELECT b", "SELECT c"} {
		c.Record(Entry{Kind: KindQuery, Label: label, DurationMs: float64(i + 1), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestQueries) != 2 {
		t.Fatalf("len = %d, want 2", len(snap.SlowestQueries))
	}
	if snap.SlowestQueries[0].Label != "SELECT c" || snap.SlowestQueries[1].Label != "SELECT b" {
		t.Errorf("order = %+v", snap.SlowestQueries)
	}
}

func TestSnapshot_JSON(t *testing.T) {
	c := NewCollector(10)
	c.Record(Entry{Kind: KindRequest, Label: "GET /health", StatusCode: 200, DurationMs: 1, Timestamp: time.Now()})
	data, err := json.Marshal(c.Snapshot(time.Now().Add(-time.Minute), 5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"since", "total_recorded", "requests", "queries", "rejected", "failed", "slowest_routes", "slowest_queries"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}

func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				c.Record(Entry{Kind: KindRequest, Label: "GET /students", DurationMs: float64(i), Timestamp: now})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Label: "GET /students", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for b.Loop() {
		c.Record(e)
	}
}
