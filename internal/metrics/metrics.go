package metrics

import (
	"sync"
	"time"
)

type operationStats struct {
	calls       int
	rejections  int
	issues      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about lineup operations
// and forwards them to OpenTelemetry when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*operationStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*operationStats),
		otel:  otel,
	}
}

// RecordLineupOperation counts one generate/candidate/validate call, the
// number of issues it produced, and whether the lineup was rejected.
func (r *Recorder) RecordLineupOperation(op string, duration time.Duration, issues int, rejected bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.stats[op]
	if !ok {
		stats = &operationStats{}
		r.stats[op] = stats
	}
	stats.calls++
	stats.issues += issues
	stats.lastLatency = duration
	if rejected {
		stats.rejections++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordLineupOperation(op, duration, issues, rejected)
	}
}

// Snapshot is a copy of the current stats for one operation.
type Snapshot struct {
	Calls       int
	Rejections  int
	Issues      int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[op]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Rejections:  stats.rejections,
		Issues:      stats.issues,
		LastLatency: stats.lastLatency,
	}
}

// Calls returns the total calls recorded for an operation.
func (r *Recorder) Calls(op string) int {
	return r.Snapshot(op).Calls
}

// Rejections returns how many calls of an operation rejected a lineup.
func (r *Recorder) Rejections(op string) int {
	return r.Snapshot(op).Rejections
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}
