package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Manugarciaa/sentrix-intake/internal/metrics"
)

func TestNewRegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	m, err := metrics.New(registry)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RecordRun("completed", 250*time.Millisecond)
	m.RecordDedupHit("EXACT", 1024)
	m.RecordDetectorCall(100 * time.Millisecond)
	m.RecordDetection("CHARCOS_CUMULO_AGUA")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}

	want := []string{
		"pipeline_runs_total",
		"pipeline_run_duration_seconds",
		"dedup_hits_total",
		"dedup_saved_bytes_total",
		"detector_request_duration_seconds",
		"detections_total",
	}
	for _, name := range want {
		if !found[name] {
			t.Errorf("metric family %s not gathered", name)
		}
	}
}

func TestNewDuplicateRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()

	if _, err := metrics.New(registry); err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	if _, err := metrics.New(registry); err == nil {
		t.Error("expected error registering metrics twice on one registry")
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *metrics.Metrics

	m.RecordRun("failed", time.Second)
	m.RecordDedupHit("NEAR", 10)
	m.RecordDetectorCall(time.Second)
	m.RecordDetectorError("timeout")
	m.RecordDetection("BASURA")
}
