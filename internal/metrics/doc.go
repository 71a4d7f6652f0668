// Package metrics provides Prometheus instrumentation for the video editor
// backend. All metrics are prefixed with "video_editor_".
//
// # HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// # Database Metrics
//
//   - DBQueryTotal, DBQueryDuration: per operation
//   - DBTransactionDuration: by outcome (commit/rollback)
//   - DBConnectionsOpen, DBSizeBytes
//   - DBInvariantViolations: batch writes rejected for overlapping clips
//
// # Drag Metrics
//
// Recorded by the WebSocket drag channel:
//   - DragChannelsOpen: open connections
//   - DragSessionsStarted, DragSessionsFinished, DragSessionsActive
//   - DragSessionDuration: pointer-down to session end
//   - ResizeCascadeSize: clips pushed by one resize event
//   - MoveDropsAdjusted: drops that landed away from the raw pointer position
//   - SnapGuideHits: events that showed a snap guide
//
// # Project Metrics
//
// Refreshed by the [Collector] from a [StatsProvider]:
//   - ProjectsTotal, LanesTotal, ElementsTotal (by kind), TimelineSecondsTotal
//
// # Usage
//
//	metrics.InitializeMetrics()
//	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
//
//	collector := metrics.NewCollector(statsProvider, dbPath, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// Expose metrics with promhttp on a separate port:
//
//	http.Handle("/metrics", promhttp.Handler())
package metrics
