// Package database provides SQLite storage for the playlist library.
//
// It persists:
//   - Playlists and their ordered track lists
//   - Each user's ordered playlist container
//   - Key/value metadata such as the schema version and last login times
//
// The database uses WAL mode and initializes its schema on open. Every
// query is recorded in the database metrics of package metrics.
package database
