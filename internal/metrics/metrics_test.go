package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsExist(t *testing.T) {
	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if HTTPRequestsInFlight == nil {
		t.Error("HTTPRequestsInFlight should not be nil")
	}
}

func TestDragMetricOperations(t *testing.T) {
	before := testutil.ToFloat64(DragSessionsStarted.WithLabelValues("resize"))
	DragSessionsStarted.WithLabelValues("resize").Inc()
	if got := testutil.ToFloat64(DragSessionsStarted.WithLabelValues("resize")); got != before+1 {
		t.Errorf("DragSessionsStarted = %v, want %v", got, before+1)
	}

	DragSessionsActive.Set(0)
	DragSessionsActive.Inc()
	DragSessionsActive.Inc()
	DragSessionsActive.Dec()
	if got := testutil.ToFloat64(DragSessionsActive); got != 1 {
		t.Errorf("DragSessionsActive = %v, want 1", got)
	}
	DragSessionsActive.Set(0)

	finished := DragSessionsFinished.WithLabelValues("move", "cancelled")
	before = testutil.ToFloat64(finished)
	finished.Inc()
	if got := testutil.ToFloat64(finished); got != before+1 {
		t.Errorf("DragSessionsFinished = %v, want %v", got, before+1)
	}

	ResizeCascadeSize.Observe(3)
	DragSessionDuration.WithLabelValues("move").Observe(0.4)
	MoveDropsAdjusted.Inc()
	SnapGuideHits.WithLabelValues("move").Inc()
}

func TestDatabaseMetricOperations(t *testing.T) {
	counter := DBQueryTotal.WithLabelValues("add_element", "success")
	before := testutil.ToFloat64(counter)
	counter.Inc()
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("DBQueryTotal = %v, want %v", got, before+1)
	}

	DBQueryDuration.WithLabelValues("add_element").Observe(0.002)
	DBTransactionDuration.WithLabelValues("commit").Observe(0.01)
	DBConnectionsOpen.Set(2)
	DBInvariantViolations.Inc()
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics()

	// Pre-populated series exist before any event.
	if n := testutil.CollectAndCount(DragSessionsFinished); n < len(SessionKinds)*len(SessionOutcomes) {
		t.Errorf("DragSessionsFinished has %d series, want at least %d", n, len(SessionKinds)*len(SessionOutcomes))
	}
	if n := testutil.CollectAndCount(ElementsTotal); n < len(ElementKinds) {
		t.Errorf("ElementsTotal has %d series, want at least %d", n, len(ElementKinds))
	}
	if n := testutil.CollectAndCount(PositioningRequestsTotal); n < 3 {
		t.Errorf("PositioningRequestsTotal has %d series, want at least 3", n)
	}
}

func BenchmarkHTTPMetricsIncrement(b *testing.B) {
	for i := 0; i < b.N; i++ {
		HTTPRequestsTotal.WithLabelValues("GET", "/api/projects", "200").Inc()
		HTTPRequestDuration.WithLabelValues("GET", "/api/projects").Observe(0.01)
	}
}
