// Package metrics provides Prometheus instrumentation for listify.
//
// All metrics are prefixed with "listify_" to avoid naming collisions with
// other applications.
//
// # Metric Categories
//
// ## Resolver and Reconciler Metrics
//
//   - ResolvesTotal: Counter of identifier resolutions by expected kind and outcome
//   - LookupsTotal: Counter of container lookups by outcome
//   - LookupScanned: Histogram of members serialized per lookup
//   - RemovalsTotal: Counter of pin-and-remove operations by outcome
//   - PinnedHandles: Gauge of handles pinned and not yet released
//
// NewReconcileObserver returns the playlist.Observer that feeds them.
//
// ## Shell Metrics
//
//   - CommandsTotal: Counter of commands by name and status
//   - CommandDuration: Histogram of command duration by name
//   - LibraryEventsTotal: Counter of library events delivered to callbacks
//
// ## Database Metrics
//
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open database connections
//
// ## Filesystem Metrics
//
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures:
//     Counters of stale file handle retries by operation
//   - FilesystemStaleErrors: Counter of stale file handle errors by operation
//
// ## Library Contents
//
// Refreshed periodically by a [Collector]:
//   - ContainerPlaylists: Gauge of playlists in the user's container
//   - StoredPlaylists: Gauge of playlists in the store
//   - StoredTracks: Gauge of playlist track entries in the store
//
// # Usage
//
//	metrics.InitializeMetrics()
//	c := metrics.NewCollector(provider, db, 30*time.Second)
//	c.Start()
//	defer c.Stop()
package metrics
