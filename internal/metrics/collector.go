package metrics

import (
	"os"
	"time"

	"video-editor/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	TotalProjects   int
	TotalLanes      int
	ElementsByKind  map[string]int
	TimelineSeconds float64
}

// TotalElements sums ElementsByKind.
func (s Stats) TotalElements() int {
	total := 0
	for _, n := range s.ElementsByKind {
		total += n
	}
	return total
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
	doneChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath, when set, is used to
// report the size of the SQLite files.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit.
func (c *Collector) Stop() {
	close(c.stopChan)
	<-c.doneChan
}

func (c *Collector) collectLoop() {
	defer close(c.doneChan)

	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider != nil {
		stats := c.statsProvider.GetStats()

		ProjectsTotal.Set(float64(stats.TotalProjects))
		LanesTotal.Set(float64(stats.TotalLanes))
		TimelineSecondsTotal.Set(stats.TimelineSeconds)
		for _, kind := range ElementKinds {
			ElementsTotal.WithLabelValues(kind).Set(float64(stats.ElementsByKind[kind]))
		}

		logging.Debug("Metrics collected: projects=%d, lanes=%d, elements=%d",
			stats.TotalProjects, stats.TotalLanes, stats.TotalElements())
	}

	if c.dbPath != "" {
		c.collectDBSize()
	}
}

func (c *Collector) collectDBSize() {
	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}
	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}
