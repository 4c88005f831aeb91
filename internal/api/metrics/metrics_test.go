package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func sampleCount(t *testing.T, op string) uint64 {
	t.Helper()
	var m dto.Metric
	if err := PasswordHashDuration.WithLabelValues(op).(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("write %s: %v", op, err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObservePasswordHash(t *testing.T) {
	hashBefore, verifyBefore := sampleCount(t, "hash"), sampleCount(t, "verify")

	ObservePasswordHash("hash", 20*time.Millisecond)
	ObservePasswordHash("verify", 30*time.Millisecond)
	ObservePasswordHash("verify", 40*time.Millisecond)

	if got := sampleCount(t, "hash") - hashBefore; got != 1 {
		t.Fatalf("expected 1 hash sample, got %d", got)
	}
	if got := sampleCount(t, "verify") - verifyBefore; got != 2 {
		t.Fatalf("expected 2 verify samples, got %d", got)
	}
}
