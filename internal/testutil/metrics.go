package testutil

import (
	"testing"

	"github.com/preston-bernstein/lineup-service/internal/metrics"
)

// AssertOperation checks how many times op was recorded and how many of
// those calls were rejections.
func AssertOperation(t *testing.T, rec *metrics.Recorder, op string, calls, rejections int) {
	t.Helper()
	if rec == nil {
		t.Fatalf("expected a recorder for %s", op)
	}
	if got := rec.Calls(op); got != calls {
		t.Fatalf("expected %d %s calls, got %d", calls, op, got)
	}
	if got := rec.Rejections(op); got != rejections {
		t.Fatalf("expected %d %s rejections, got %d", rejections, op, got)
	}
}
