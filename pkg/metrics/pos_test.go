package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPOSMetricsExportsCheckoutAndAdjustments(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPOSMetrics(reg)

	metrics.ObserveCheckout(250*time.Millisecond, true)
	metrics.ObserveCheckout(100*time.Millisecond, false)
	metrics.IncAdjustment("restock")
	metrics.IncAdjustment("restock")
	metrics.IncAdjustment("sale")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := fetchPlainCounter(t, mfs, "checkout_success_total"); got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got := fetchPlainCounter(t, mfs, "checkout_failure_total"); got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "stock_adjustments_total", "reason", "restock"); err != nil {
		t.Fatalf("fetch restock: %v", err)
	} else if got != 2 {
		t.Fatalf("expected restock=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_duration_seconds", "outcome", "success"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got < 0.2 || got > 0.3 {
		t.Fatalf("unexpected duration sum %f", got)
	}
}

func TestPOSMetricsNilSafe(t *testing.T) {
	var metrics *POSMetrics
	metrics.ObserveCheckout(time.Second, true)
	metrics.IncAdjustment("restock")

	empty := NewPOSMetrics(nil)
	empty.ObserveCheckout(time.Second, false)
	empty.IncAdjustment("")
}

func fetchPlainCounter(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		t.Fatalf("metric %s not found", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %s not found", name)
	}
	for _, m := range mf.GetMetric() {
		if matchesLabel(m.GetLabel(), label, value) {
			return m.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %s with %s=%s not found", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %s not found", name)
	}
	for _, m := range mf.GetMetric() {
		if matchesLabel(m.GetLabel(), label, value) {
			return m.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %s with %s=%s not found", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
