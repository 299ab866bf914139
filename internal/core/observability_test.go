package core

import (
	"testing"
	"time"
)

func TestNoopImplementationsAreSafe(t *testing.T) {
	logger := noopLogger{}
	logger.Debug("msg", "k", "v")
	logger.Info("msg")
	logger.Warn("msg")
	logger.Error("msg", "err", "boom")

	noopMetricsRecorder{}.Observe(nil, "op", true, time.Second)

	_, span := noopTracer{}.Start(nil, "op")
	span.End(nil)
}

func TestClockFunc(t *testing.T) {
	expected := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := ClockFunc(func() time.Time { return expected })
	if got := clock.Now(); !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}
