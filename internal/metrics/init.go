package metrics

// Drag session outcomes
const (
	OutcomeCommitted = "committed"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Label values known up front, shared with InitializeMetrics.
var (
	SessionKinds    = []string{"resize", "move"}
	SessionOutcomes = []string{OutcomeCommitted, OutcomeCancelled, OutcomeError}
	ElementKinds    = []string{"text", "image", "video", "audio"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	for _, kind := range SessionKinds {
		DragSessionsStarted.WithLabelValues(kind)
		DragSessionDuration.WithLabelValues(kind)
		SnapGuideHits.WithLabelValues(kind)
		for _, outcome := range SessionOutcomes {
			DragSessionsFinished.WithLabelValues(kind, outcome)
		}
	}

	for _, op := range []string{"add", "drop_time", "snap_position", "snap_guide"} {
		PositioningRequestsTotal.WithLabelValues(op)
		PositioningAdjusted.WithLabelValues(op)
	}

	for _, kind := range ElementKinds {
		ElementsTotal.WithLabelValues(kind)
	}

	for _, op := range []string{"initialize_schema", "create_project", "get_project", "list_projects",
		"delete_project", "add_element", "get_element", "list_elements", "update_element",
		"update_elements", "delete_element", "split_element", "replace_project", "get_stats",
		"begin_transaction", "commit", "rollback"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, t := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(t)
	}
}
