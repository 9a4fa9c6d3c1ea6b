package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Quote outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// QuoteMetrics records shipping quote activity.
type QuoteMetrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	legs        prometheus.Histogram
	diagnostics *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quotes_total",
		Help: "Shipping quote requests by outcome, mode and service tier.",
	}, []string{"outcome", "mode", "tier"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipping_quote_duration_seconds",
		Help:    "Time spent computing a shipping quote, catalog read included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	legs := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipping_quote_legs",
		Help:    "Number of store legs per successful quote.",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
	})
	diagnostics := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_diagnostics_total",
		Help: "Non-fatal diagnostics recorded while quoting.",
	}, []string{"type"})
	reg.MustRegister(requests, duration, legs, diagnostics)
	return &QuoteMetrics{
		requests:    requests,
		duration:    duration,
		legs:        legs,
		diagnostics: diagnostics,
	}
}

// ObserveQuote counts a finished quote and records its duration.
func (q *QuoteMetrics) ObserveQuote(outcome, mode, tier string, duration time.Duration) {
	if q == nil || q.requests == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	q.requests.WithLabelValues(outcome, normalizeLabel(mode), normalizeLabel(tier)).Inc()
	q.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveLegs records how many store legs a quote produced.
func (q *QuoteMetrics) ObserveLegs(count int) {
	if q == nil || q.legs == nil {
		return
	}
	q.legs.Observe(float64(count))
}

// IncDiagnostic counts a diagnostic of the given type.
func (q *QuoteMetrics) IncDiagnostic(kind string) {
	if q == nil || q.diagnostics == nil {
		return
	}
	q.diagnostics.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
