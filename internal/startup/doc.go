// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] starts from [DefaultConfig], overlays an optional YAML file
// and then environment variables:
//
//   - LISTIFY_USER: User to log in as (default: $USER)
//   - DATABASE_DIR: Directory holding listify.db (default: <user config dir>/listify)
//   - LISTIFY_EPHEMERAL: Keep the library in memory only (default: false)
//   - METRICS_ENABLED: Serve Prometheus metrics (default: false)
//   - METRICS_ADDR: Metrics listen address (default: 127.0.0.1:9090)
//   - STATS_INTERVAL: Library gauge refresh interval as Go duration (default: 30s)
//   - OPERATION_TIMEOUT: Timeout for each store operation (default: 5s)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//
// YAML keys use the same names in snake case (user, database_dir, ...).
// Unknown keys are rejected.
//
// [Config.Validate] checks the user name and creates the database directory,
// failing if it is not writable.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogStartup]: Banner and system information
//   - [LogDatabaseInit]: Database initialization timing
//   - [LogSessionStarted]: Login and container size
//   - [LogMetricsServer]: Metrics endpoint and routes (debug level)
//   - [LogShutdownInitiated], [LogShutdownStep], [LogShutdownComplete]
package startup
