package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordOutcome(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.SubscriptionOutcomes.WithLabelValues("telegram", "attributed"))
	m.RecordOutcome("telegram", "attributed", 0.01)
	after := testutil.ToFloat64(m.SubscriptionOutcomes.WithLabelValues("telegram", "attributed"))

	if after-before != 1 {
		t.Errorf("outcome counter delta = %v, want 1", after-before)
	}
}

func TestMetrics_EmptyReasonsAreLabelledUnknown(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.IngestDrops.WithLabelValues("max", "unknown"))
	m.RecordDrop("max", "")
	if got := testutil.ToFloat64(m.IngestDrops.WithLabelValues("max", "unknown")) - before; got != 1 {
		t.Errorf("drop counter delta = %v, want 1", got)
	}

	// must not panic
	m.RecordAuthFailure("telegram", "")
	m.RecordPublishError("")
}

func TestMetrics_RecordLinkCache(t *testing.T) {
	m := GetDefaultMetrics()

	hits := testutil.ToFloat64(m.LinkCacheHits)
	misses := testutil.ToFloat64(m.LinkCacheMisses)

	m.RecordLinkCache(true)
	m.RecordLinkCache(false)
	m.RecordLinkCache(false)

	if got := testutil.ToFloat64(m.LinkCacheHits) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LinkCacheMisses) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	if GetDefaultMetrics() != GetDefaultMetrics() {
		t.Fatal("GetDefaultMetrics should return the same instance")
	}
}
