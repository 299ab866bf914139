package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// operationStats accumulates the outcomes of one service operation.
type operationStats struct {
	totalMS float64
	success int64
	failure int64
}

// ExpvarMetricsRecorder publishes service metrics via expvar for deployments
// that want process-local metrics without an external scrape target. Besides
// per-operation latency and outcome counters it tallies compatibility check
// verdicts by overall severity.
type ExpvarMetricsRecorder struct {
	name string

	mu         sync.Mutex
	operations map[string]*operationStats
	verdicts   map[Severity]int64
	findings   int64
}

// ExpvarMetricsSnapshot is a read-only copy of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS   map[string]float64          `json:"durations_ms_total"`
	Results       map[string]map[string]int64 `json:"results_total"`
	CheckVerdicts map[Severity]int64          `json:"check_verdicts_total"`
	CheckFindings int64                       `json:"check_findings_total"`
	RecordedAt    time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs a recorder and publishes it under the
// supplied expvar name. An empty name gets a generated unique one.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("chromax_service_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:       name,
		operations: make(map[string]*operationStats),
		verdicts:   make(map[Severity]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.operations))
	results := make(map[string]map[string]int64, len(r.operations))
	for op, stats := range r.operations {
		durations[op] = stats.totalMS
		results[op] = map[string]int64{
			"success": stats.success,
			"error":   stats.failure,
		}
	}

	verdicts := make(map[Severity]int64, len(r.verdicts))
	for overall, count := range r.verdicts {
		verdicts[overall] = count
	}

	return ExpvarMetricsSnapshot{
		DurationsMS:   durations,
		Results:       results,
		CheckVerdicts: verdicts,
		CheckFindings: r.findings,
		RecordedAt:    time.Now().UTC(),
	}
}

// Observe records a service operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}

	r.mu.Lock()
	stats, ok := r.operations[operation]
	if !ok {
		stats = &operationStats{}
		r.operations[operation] = stats
	}
	stats.totalMS += float64(duration) / float64(time.Millisecond)
	if success {
		stats.success++
	} else {
		stats.failure++
	}
	r.mu.Unlock()
}

// ObserveCheck tallies the verdict of a completed compatibility check.
func (r *ExpvarMetricsRecorder) ObserveCheck(_ context.Context, overall Severity, findings int) {
	r.mu.Lock()
	r.verdicts[overall]++
	r.findings += int64(findings)
	r.mu.Unlock()
}

// JSONTraceEntry is a serialized span emitted by JSONTraceTracer.
type JSONTraceEntry struct {
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer serializes spans as JSON lines and retains them for
// inspection in tests.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer constructs a tracer writing spans to w. A nil writer keeps
// spans in memory only.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONTraceTracer{enc: enc}
}

// Entries returns a copy of all recorded spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JSONTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements the Tracer interface.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{
		tracer:    t,
		operation: operation,
		started:   time.Now().UTC(),
	}
}

func (t *JSONTraceTracer) record(entry JSONTraceEntry) {
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	if t.enc != nil {
		_ = t.enc.Encode(entry)
	}
	t.mu.Unlock()
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	status := "success"
	var errMsg string
	if err != nil {
		status = "error"
		errMsg = err.Error()
	}
	ended := time.Now().UTC()
	s.tracer.record(JSONTraceEntry{
		Operation:  s.operation,
		Status:     status,
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		Error:      errMsg,
		StartedAt:  s.started,
		EndedAt:    ended,
	})
}
