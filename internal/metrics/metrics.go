package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_editor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_editor_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_editor_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds by outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"type"}, // "commit", "rollback"
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_editor_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)

	DBInvariantViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_editor_db_invariant_violations_total",
			Help: "Total number of batch writes rejected because they would overlap clips on a lane",
		},
	)
)

// Drag session metrics
var (
	DragChannelsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_drag_channels_open",
			Help: "Number of open drag WebSocket connections",
		},
	)

	DragSessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_drag_sessions_started_total",
			Help: "Total number of drag sessions started by kind",
		},
		[]string{"kind"}, // "resize", "move"
	)

	DragSessionsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_drag_sessions_finished_total",
			Help: "Total number of drag sessions finished by kind and outcome",
		},
		[]string{"kind", "outcome"}, // "committed", "cancelled", "error"
	)

	DragSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_drag_sessions_active",
			Help: "Number of drag sessions currently holding pointer capture",
		},
	)

	DragSessionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_editor_drag_session_duration_seconds",
			Help:    "Time from pointer-down to session end",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	ResizeCascadeSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_editor_resize_cascade_size",
			Help:    "Number of downstream clips pushed by one resize event",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50},
		},
	)

	MoveDropsAdjusted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_editor_move_drops_adjusted_total",
			Help: "Total number of move drops that landed away from the raw pointer position",
		},
	)

	SnapGuideHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_snap_guide_hits_total",
			Help: "Total number of pointer events that showed a snap guide",
		},
		[]string{"kind"},
	)
)

// Positioning API metrics
var (
	PositioningRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_positioning_requests_total",
			Help: "Total number of stateless positioning computations by operation",
		},
		[]string{"operation"}, // "drop_time", "snap_position", "snap_guide"
	)

	PositioningAdjusted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_editor_positioning_adjusted_total",
			Help: "Total number of positioning computations that moved the candidate",
		},
		[]string{"operation"},
	)
)

// Project metrics
var (
	ProjectsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_projects_total",
			Help: "Total number of projects",
		},
	)

	LanesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_lanes_total",
			Help: "Total number of non-empty lanes across all projects",
		},
	)

	ElementsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_editor_elements_total",
			Help: "Total number of timeline clips by kind",
		},
		[]string{"kind"},
	)

	TimelineSecondsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_editor_timeline_seconds_total",
			Help: "Sum of clip durations across all projects",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_editor_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
