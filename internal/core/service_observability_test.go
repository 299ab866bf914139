package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op {
			if success && record.err == nil {
				return true
			}
			if !success && record.err != nil {
				return true
			}
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestServiceObservabilityCompliance(t *testing.T) {
	ctx := context.Background()
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}

	svc := newSeededService(t,
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	if _, _, err := svc.CreateProgram(ctx, "GIEMSA"); err != nil {
		t.Fatalf("create program: %v", err)
	}
	if !metrics.has("create_program", true) {
		t.Fatalf("expected success metric for create_program")
	}
	if !tracer.has("create_program", true) {
		t.Fatalf("expected success span for create_program")
	}

	if _, err := svc.DeleteProgram(ctx, "GHOST"); err == nil {
		t.Fatalf("expected delete of missing program to fail")
	}
	if !metrics.has("delete_program", false) {
		t.Fatalf("expected error metric for delete_program")
	}
	if !tracer.has("delete_program", false) {
		t.Fatalf("expected error span for delete_program")
	}
}

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(recorder.Name(), "chromax_service_metrics_") {
		t.Fatalf("unexpected generated name %s", recorder.Name())
	}
	recorder.Observe(context.Background(), "run_check", true, 25*time.Millisecond)
	recorder.Observe(context.Background(), "run_check", false, 5*time.Millisecond)
	recorder.Observe(context.Background(), "", true, time.Millisecond)

	snap := recorder.Snapshot()
	if snap.Results["run_check"]["success"] != 1 || snap.Results["run_check"]["error"] != 1 {
		t.Fatalf("unexpected result counters: %v", snap.Results)
	}
	if snap.DurationsMS["run_check"] < 29 || snap.DurationsMS["run_check"] > 31 {
		t.Fatalf("unexpected duration total: %v", snap.DurationsMS)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation must be ignored, got %v", snap.Results)
	}
}

func TestCheckVerdictsFlowToRecorder(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	svc := newSeededService(t, WithMetricsRecorder(recorder))

	// The factory layout leaves the reagent stations empty, so the stock
	// selection checks out as WARN.
	if _, err := svc.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	snap := recorder.Snapshot()
	if snap.CheckVerdicts[SeverityWarn] != 1 {
		t.Fatalf("expected one WARN verdict, got %v", snap.CheckVerdicts)
	}
	if snap.CheckFindings == 0 {
		t.Fatalf("expected check findings to accumulate")
	}
	if snap.Results["run_check"]["success"] != 1 {
		t.Fatalf("expected run_check operation counter, got %v", snap.Results)
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "run_check")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Operation != "run_check" || entries[0].Status != "success" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	if !strings.Contains(buf.String(), `"operation":"run_check"`) {
		t.Fatalf("entry not encoded to writer: %s", buf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorder(registry)
	recorder.Observe(context.Background(), "run_check", true, 50*time.Millisecond)
	recorder.Observe(context.Background(), "run_check", false, 10*time.Millisecond)

	success := testutil.ToFloat64(recorder.results.WithLabelValues("run_check", "success"))
	if success != 1 {
		t.Fatalf("expected 1 success, got %v", success)
	}
	failure := testutil.ToFloat64(recorder.results.WithLabelValues("run_check", "error"))
	if failure != 1 {
		t.Fatalf("expected 1 error, got %v", failure)
	}

	recorder.ObserveCheck(context.Background(), SeverityBlock, 3)
	if verdicts := testutil.ToFloat64(recorder.verdicts.WithLabelValues("BLOCK")); verdicts != 1 {
		t.Fatalf("expected 1 BLOCK verdict, got %v", verdicts)
	}
}
