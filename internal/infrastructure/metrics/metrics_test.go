package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.MovementsAppended == nil || m.TransfersRequested == nil || m.ReconciliationRuns == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.MovementsAppended.WithLabelValues("receipt").Inc()
	m.DivergedKeys.Set(3)

	if got := testutil.ToFloat64(m.MovementsAppended.WithLabelValues("receipt")); got != 1 {
		t.Fatalf("expected one receipt movement recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.DivergedKeys); got != 3 {
		t.Fatalf("expected diverged keys gauge 3, got %v", got)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
