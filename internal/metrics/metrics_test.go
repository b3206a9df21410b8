package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register should tolerate duplicates, got %v", err)
	}
}

func TestObserveToggleOutcome(t *testing.T) {
	hitBefore := testutil.ToFloat64(incidentTogglesTotal.WithLabelValues(OutcomeHit))
	missBefore := testutil.ToFloat64(incidentTogglesTotal.WithLabelValues(OutcomeMiss))

	ObserveToggle(true)
	ObserveToggle(false)
	ObserveToggle(false)

	if got := testutil.ToFloat64(incidentTogglesTotal.WithLabelValues(OutcomeHit)) - hitBefore; got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(incidentTogglesTotal.WithLabelValues(OutcomeMiss)) - missBefore; got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
}

func TestObserveRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", "404"))
	ObserveRequest("", 404)
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", "404")) - before; got != 1 {
		t.Fatalf("expected unmatched counter to grow by 1, got %v", got)
	}
}
