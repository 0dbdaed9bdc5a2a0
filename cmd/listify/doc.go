// Package main provides the entry point for listify.
//
// listify manages a user's playlist container from a small command shell.
// Playlists and their tracks are kept in SQLite, or in memory with
// --ephemeral.
//
// # Application Lifecycle
//
//  1. Configuration Loading: YAML file, environment variables, then flags
//  2. Store Initialization: Opens the SQLite database in DATABASE_DIR
//  3. Login: Loads the user's container and records the login time
//  4. Metrics Server (optional): Collector plus HTTP endpoints
//  5. Shell: Reads commands until logout, end of input or a signal
//  6. Shutdown: Stops the metrics server, logs out and closes the store
//
// # Usage
//
//	listify [flags]                      start the interactive shell
//	listify exec "<line>" ["<line>"...]  run command lines and exit
//	listify version                      print build information
//
// # Flags
//
//	-c, --config        YAML configuration file
//	-u, --user          user to log in as
//	    --database-dir  directory holding listify.db
//	    --ephemeral     keep the library in memory only
//	    --metrics       serve Prometheus metrics
//	    --metrics-addr  metrics listen address (implies --metrics)
//	-v, --verbose       debug logging
//
// Flags override environment variables, which override the configuration
// file. See package startup for the variable names.
//
// # Metrics Server
//
// When enabled the server exposes:
//
//   - /metrics: Prometheus metrics
//   - /healthz: Store health and container size
//   - /livez: Liveness probe
//   - /version: Build information
package main
