// Package main provides the entry point for the Video Editor server.
//
// The server stores projects in SQLite and exposes the timeline engine over
// HTTP: clip CRUD with lane-overlap enforcement, drop-time and snap queries,
// YAML import/export, PNG lane overviews, and a WebSocket drag channel that
// runs resize and move sessions against the stored timeline.
//
// # Application Lifecycle
//
//  1. Memory Configuration: sets GOMEMLIMIT from GOMEMLIMIT or MEMORY_LIMIT
//  2. Configuration Loading: reads environment variables, prepares DATABASE_DIR
//  3. Database Initialization: opens SQLite and runs migrations
//  4. Metrics: registers Prometheus metrics and starts the stats collector
//  5. HTTP Server Setup: routes, logging and metrics middleware
//  6. Graceful Shutdown: handles SIGINT/SIGTERM
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - /api/projects and nested element, lane and drag routes
//     - /health, /healthz, /livez, /readyz and /version
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// The main server sets no write timeout because drag channels stay open for
// the length of an editing session.
//
// # Environment Variables
//
//   - DATABASE_DIR: Directory for the SQLite database (default: /database)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - STATS_INTERVAL: How often database gauges refresh (default: 1m)
//   - PIXELS_PER_SECOND: Default timeline scale (default: 50)
//   - SNAP_TOLERANCE_PX: Default snap guide tolerance (default: 8)
//   - LOG_HEALTH_CHECKS: Log health probe requests (default: true)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see [video-editor/internal/memory]
//
// # Graceful Shutdown
//
//  1. Shutdown main HTTP server (30s timeout)
//  2. Shutdown metrics server (if running)
//  3. Stop metrics collector
//  4. Close database connections
//
// # Related Packages
//
//   - [video-editor/internal/timeline]: positioning engine and drag sessions
//   - [video-editor/internal/database]: SQLite project store
//   - [video-editor/internal/handlers]: HTTP and WebSocket handlers
//   - [video-editor/internal/project]: YAML project documents
//   - [video-editor/internal/overview]: PNG lane overviews
//   - [video-editor/internal/startup]: configuration and startup logging
package main
