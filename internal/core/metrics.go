package core

import (
	"context"
	"time"
)

// MetricsRecorder receives one observation per service operation: the
// operation name, whether it succeeded, and how long it took.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// NoopMetricsRecorder discards all observations.
type NoopMetricsRecorder struct{}

// Observe implements MetricsRecorder.
func (NoopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}
