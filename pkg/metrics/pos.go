package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records point-of-sale activity. All methods are nil-safe so
// callers can run without a registry (tests, the migrate CLI).
type POSMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutSuccess  prometheus.Counter
	checkoutFailure  prometheus.Counter
	adjustments      *prometheus.CounterVec
}

// NewPOSMetrics registers the point-of-sale metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Committed checkouts.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Rejected or failed checkouts.",
	})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Committed stock adjustments by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, success, failure, adjustments)
	return &POSMetrics{
		checkoutDuration: duration,
		checkoutSuccess:  success,
		checkoutFailure:  failure,
		adjustments:      adjustments,
	}
}

// ObserveCheckout records one checkout attempt and its duration.
func (m *POSMetrics) ObserveCheckout(duration time.Duration, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	if m.checkoutDuration != nil {
		m.checkoutDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
	if success && m.checkoutSuccess != nil {
		m.checkoutSuccess.Inc()
	}
	if !success && m.checkoutFailure != nil {
		m.checkoutFailure.Inc()
	}
}

// IncAdjustment increments the adjustment counter for the given reason.
func (m *POSMetrics) IncAdjustment(reason string) {
	if m == nil || m.adjustments == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.adjustments.WithLabelValues(reason).Inc()
}
