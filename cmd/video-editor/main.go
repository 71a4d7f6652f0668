package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-editor/internal/database"
	"video-editor/internal/handlers"
	"video-editor/internal/logging"
	"video-editor/internal/memory"
	"video-editor/internal/metrics"
	"video-editor/internal/middleware"
	"video-editor/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// dbStatsAdapter exposes database.Stats to the metrics collector.
type dbStatsAdapter struct {
	db statsSource
}

type statsSource interface {
	GetStats(ctx context.Context) (database.Stats, error)
	UpdateDBMetrics()
}

// GetStats implements metrics.StatsProvider
func (a *dbStatsAdapter) GetStats() metrics.Stats {
	a.db.UpdateDBMetrics()
	stats, err := a.db.GetStats(context.Background())
	if err != nil {
		logging.Warn("Failed to collect database stats: %v", err)
	}
	return metrics.Stats{
		TotalProjects:   stats.TotalProjects,
		TotalLanes:      stats.TotalLanes,
		ElementsByKind:  stats.ElementsByKind,
		TimelineSeconds: stats.TimelineSeconds,
	}
}

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv(os.Getenv)

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogEditorDefaults(config.PixelsPerSecond, config.SnapTolerancePx)

	ctx := context.Background()

	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error("Failed to close database: %v", err)
		}
	}()
	startup.LogDatabaseInit(time.Since(dbStart))

	buildInfo := startup.GetBuildInfo()
	metrics.InitializeMetrics()
	metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)

	collector := metrics.NewCollector(&dbStatsAdapter{db: db}, db.Path(), config.StatsInterval)
	collector.Start()

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	h := handlers.New(db, config)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Drag channels are long-lived, so there is no write timeout.
	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector)
		close(done)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func newMetricsServer(port string) *http.Server {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	m.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{
		Addr:              ":" + port,
		Handler:           m,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Projects
	api.HandleFunc("/projects", h.ListProjects).Methods("GET")
	api.HandleFunc("/projects", h.CreateProject).Methods("POST")
	api.HandleFunc("/projects/import", h.ImportProject).Methods("POST")
	api.HandleFunc("/projects/{id}", h.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", h.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/export", h.ExportProject).Methods("GET")
	api.HandleFunc("/projects/{id}/overview.png", h.GetOverview).Methods("GET")

	// Elements
	api.HandleFunc("/projects/{id}/elements", h.ListElements).Methods("GET")
	api.HandleFunc("/projects/{id}/elements", h.AddElement).Methods("POST")
	api.HandleFunc("/projects/{id}/elements/{eid}", h.PatchElement).Methods("PATCH")
	api.HandleFunc("/projects/{id}/elements/{eid}", h.DeleteElement).Methods("DELETE")
	api.HandleFunc("/projects/{id}/elements/{eid}/split", h.SplitElement).Methods("POST")

	// Positioning
	api.HandleFunc("/projects/{id}/lanes/{lane}/drop-time", h.DropTime).Methods("POST")
	api.HandleFunc("/projects/{id}/lanes/{lane}/snap-position", h.SnapPosition).Methods("POST")
	api.HandleFunc("/projects/{id}/snap-guide", h.SnapGuide).Methods("GET")
	api.HandleFunc("/projects/{id}/drag", h.Drag).Methods("GET")

	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownComplete()
}
