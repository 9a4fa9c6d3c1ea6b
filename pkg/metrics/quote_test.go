package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQuoteMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewQuoteMetrics(reg)
	metrics.ObserveQuote(OutcomeSuccess, "both", "standard", 120*time.Millisecond)
	metrics.ObserveQuote(OutcomeSuccess, "both", "standard", 80*time.Millisecond)
	metrics.ObserveQuote(OutcomeRejected, "", "express", time.Millisecond)
	metrics.ObserveLegs(2)
	metrics.IncDiagnostic("product_not_found")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	labels := map[string]string{"outcome": OutcomeSuccess, "mode": "both", "tier": "standard"}
	if got, err := fetchCounterValue(mfs, "shipping_quotes_total", labels); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}

	labels = map[string]string{"outcome": OutcomeRejected, "mode": "unknown", "tier": "express"}
	if got, err := fetchCounterValue(mfs, "shipping_quotes_total", labels); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "shipping_quote_duration_seconds", map[string]string{"outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "shipping_quote_legs", nil); err != nil {
		t.Fatalf("fetch legs: %v", err)
	} else if got != 2 {
		t.Fatalf("expected legs sum=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "shipping_quote_diagnostics_total", map[string]string{"type": "product_not_found"}); err != nil {
		t.Fatalf("fetch diagnostics: %v", err)
	} else if got != 1 {
		t.Fatalf("expected diagnostics=1, got %f", got)
	}
}

func TestQuoteMetricsNilSafe(t *testing.T) {
	var metrics *QuoteMetrics
	metrics.ObserveQuote(OutcomeSuccess, "both", "standard", time.Second)
	metrics.ObserveLegs(1)
	metrics.IncDiagnostic("x")

	unregistered := NewQuoteMetrics(nil)
	unregistered.ObserveQuote(OutcomeFailed, "both", "standard", time.Second)
	unregistered.ObserveLegs(1)
	unregistered.IncDiagnostic("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}
