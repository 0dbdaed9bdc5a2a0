package metrics

import (
	"context"
	"sync"
	"time"

	"listify/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats(ctx context.Context) (Stats, error)
}

// DBMetricsUpdater refreshes connection pool metrics.
type DBMetricsUpdater interface {
	UpdateDBMetrics()
}

// Stats holds the current statistics
type Stats struct {
	ContainerPlaylists int
	StoredPlaylists    int
	StoredTracks       int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	db            DBMetricsUpdater
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewCollector creates a new metrics collector. db may be nil.
func NewCollector(provider StatsProvider, db DBMetricsUpdater, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		db:            db,
		interval:      interval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit.
// It must follow Start and is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	<-c.done
}

func (c *Collector) collectLoop() {
	defer close(c.done)

	// Collect immediately on start
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
	if c.db != nil {
		c.db.UpdateDBMetrics()
	}

	if c.statsProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	stats, err := c.statsProvider.GetStats(ctx)
	if err != nil {
		logging.Warn("Metrics collection failed: %v", err)
		return
	}

	ContainerPlaylists.Set(float64(stats.ContainerPlaylists))
	StoredPlaylists.Set(float64(stats.StoredPlaylists))
	StoredTracks.Set(float64(stats.StoredTracks))

	logging.Debug("Metrics collected: container=%d, playlists=%d, tracks=%d",
		stats.ContainerPlaylists, stats.StoredPlaylists, stats.StoredTracks)
}
