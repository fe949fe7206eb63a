package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)
	m.Observe("add", OutcomeApplied)
	m.Observe("add", OutcomeApplied)
	m.Observe("add", OutcomeNoop)
	m.IncNotice("add")
	m.IncReload()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "cart_operations_total", map[string]string{"op": "add", "outcome": OutcomeApplied}); err != nil || got != 2 {
		t.Fatalf("expected applied=2, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "cart_operations_total", map[string]string{"op": "add", "outcome": OutcomeNoop}); err != nil || got != 1 {
		t.Fatalf("expected noop=1, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "cart_notices_total", map[string]string{"kind": "add"}); err != nil || got != 1 {
		t.Fatalf("expected notice=1, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "cart_reloads_total", nil); err != nil || got != 1 {
		t.Fatalf("expected reloads=1, got %f err=%v", got, err)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var m *CartMetrics
	m.Observe("add", OutcomeApplied)
	m.IncNotice("add")
	m.IncReload()

	NewCartMetrics(nil).Observe("", "")
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q has no series %v", name, labels)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
