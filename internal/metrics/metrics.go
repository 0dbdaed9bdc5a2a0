package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolver and reconciler metrics
var (
	ResolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_resolves_total",
			Help: "Total number of identifier resolutions by expected kind and outcome",
		},
		[]string{"expected", "status"},
	)

	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_container_lookups_total",
			Help: "Total number of container index lookups",
		},
		[]string{"status"},
	)

	LookupScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listify_container_lookup_scanned",
			Help:    "Number of container members serialized per lookup",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	RemovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_container_removals_total",
			Help: "Total number of pin-and-remove operations by outcome",
		},
		[]string{"status"},
	)

	PinnedHandles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listify_pinned_handles",
			Help: "Number of playlist handles currently pinned after removal",
		},
	)
)

// Shell metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_commands_total",
			Help: "Total number of shell commands by name and outcome",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listify_command_duration_seconds",
			Help:    "Shell command duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"command"},
	)

	LibraryEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_library_events_total",
			Help: "Total number of library events delivered to callbacks",
		},
		[]string{"event"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listify_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listify_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_filesystem_retry_attempts_total",
			Help: "Total number of retries after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listify_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors seen",
		},
		[]string{"operation"},
	)
)

// Library contents
var (
	ContainerPlaylists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listify_container_playlists",
			Help: "Number of playlists in the logged-in user's container",
		},
	)

	StoredPlaylists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listify_stored_playlists",
			Help: "Number of playlists in the store",
		},
	)

	StoredTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listify_stored_tracks",
			Help: "Number of playlist track entries in the store",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listify_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
