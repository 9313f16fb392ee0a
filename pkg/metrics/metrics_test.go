package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	job := "cart-idle-sweep"
	m.Record(job, 250*time.Millisecond, nil)
	m.Record(job, 10*time.Millisecond, errors.New("boom"))
	m.Record("", time.Millisecond, nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	runs := findMetricFamily(mfs, "storefront_cron_job_runs_total")
	if runs == nil {
		t.Fatal("runs counter missing")
	}
	outcomes := map[string]float64{}
	for _, metric := range runs.GetMetric() {
		if matchesLabel(metric.GetLabel(), "job", job) {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" {
					outcomes[l.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	if outcomes["success"] != 1 || outcomes["failure"] != 1 {
		t.Fatalf("unexpected outcomes %v", outcomes)
	}

	if got, err := fetchHistogramSum(mfs, "storefront_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got < 0.26-1e-9 {
		t.Fatalf("expected duration sum 0.26, got %f", got)
	}

	last := findMetricFamily(mfs, "storefront_cron_job_last_success_timestamp_seconds")
	if last == nil {
		t.Fatal("last success gauge missing")
	}
	for _, metric := range last.GetMetric() {
		if matchesLabel(metric.GetLabel(), "job", job) && metric.GetGauge().GetValue() != 1700000000 {
			t.Fatalf("unexpected last success %f", metric.GetGauge().GetValue())
		}
	}
	if _, err := fetchHistogramSum(mfs, "storefront_cron_job_duration_seconds", "job", "unknown"); err != nil {
		t.Fatalf("blank job name should map to unknown: %v", err)
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.ObserveHandoff(OutcomeAttempted)
	m.ObserveHandoff(OutcomeAttempted)
	m.ObserveHandoff(OutcomeRejected)
	m.ObserveOrderTotal(decimal.RequireFromString("285.00"))
	m.SetActiveCarts(3)
	m.AddSwept(2)
	m.AddSwept(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_checkout_handoffs_total", "outcome", OutcomeAttempted); err != nil || got != 2 {
		t.Fatalf("expected attempted=2, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_checkout_handoffs_total", "outcome", OutcomeRejected); err != nil || got != 1 {
		t.Fatalf("expected rejected=1, got %f (%v)", got, err)
	}
	gauge := findMetricFamily(mfs, "storefront_carts_active")
	if gauge == nil || gauge.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected active carts gauge 3")
	}
	swept := findMetricFamily(mfs, "storefront_carts_swept_total")
	if swept == nil || swept.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Fatalf("expected swept counter 2")
	}
	totals := findMetricFamily(mfs, "storefront_checkout_order_total_brl")
	if totals == nil || totals.GetMetric()[0].GetHistogram().GetSampleSum() != 285 {
		t.Fatalf("expected order total histogram sum 285")
	}
}

func TestHTTPMetricsLabelsUnmatchedRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "", 404, 10*time.Millisecond)
	m.Observe("GET", "/api/v1/products/{productId}", 200, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_http_requests_total", "route", "unmatched"); err != nil || got != 1 {
		t.Fatalf("expected unmatched=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_http_requests_total", "route", "/api/v1/products/{productId}"); err != nil || got != 1 {
		t.Fatalf("expected product route=1, got %f (%v)", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewCheckoutMetrics(nil).ObserveHandoff(OutcomeFailed)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	NewCronJobMetrics(nil).Record("x", time.Second, nil)
	var m *CheckoutMetrics
	m.SetActiveCarts(1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
