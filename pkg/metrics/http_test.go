package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/stores", "200", 25*time.Millisecond)
	m.ObserveRequest("GET", "/api/stores", "200", 30*time.Millisecond)
	m.ObserveRequest("POST", "", "500", time.Millisecond)

	counter := gatherMetric(t, reg, "http_requests_total")
	if counter == nil {
		t.Fatal("http_requests_total not registered")
	}
	var storesCount float64
	var unmatched bool
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		if labels["route"] == "/api/stores" {
			storesCount = metric.GetCounter().GetValue()
		}
		if labels["route"] == "unmatched" {
			unmatched = true
		}
	}
	if storesCount != 2 {
		t.Fatalf("stores count = %v, want 2", storesCount)
	}
	if !unmatched {
		t.Fatal("expected empty route to be labeled unmatched")
	}

	histogram := gatherMetric(t, reg, "http_request_duration_seconds")
	if histogram == nil {
		t.Fatal("http_request_duration_seconds not registered")
	}
}

func TestInFlightGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()

	gauge := gatherMetric(t, reg, "http_requests_in_flight")
	if gauge == nil {
		t.Fatal("gauge not registered")
	}
	if got := gauge.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Fatalf("in flight = %v, want 1", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.ObserveRequest("GET", "/", "200", time.Millisecond)
	m.IncInFlight()
	m.DecInFlight()
}
