package metrics

import "listify/internal/link"

// Label values shared by InitializeMetrics and the observers.
var (
	resolveStatuses = []string{"success", "invalid_identifier", "wrong_resource_kind"}
	lookupStatuses  = []string{"found", "not_found"}
	removalStatuses = []string{"success", "stale_index", "removal_failed"}

	// Commands lists every shell command name so they export from the
	// first scrape. The shell package keeps it in sync with its table.
	Commands = []string{
		"new_list", "new_hide", "add_list", "hide_list", "clear_list",
		"add_tracks", "count_tracks", "rename_list", "list", "export_list",
		"import_list", "help", "logout", "exit", "unknown",
	}

	libraryEvents = []string{
		"playlist_added", "playlist_removed", "container_loaded",
		"tracks_added", "tracks_removed", "playlist_renamed",
	}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Resolution by expected kind ---
	for k := link.KindInvalid; k <= link.KindPlaylist; k++ {
		label, _ := link.Label(k)
		for _, s := range resolveStatuses {
			ResolvesTotal.WithLabelValues(label, s)
		}
	}

	for _, s := range lookupStatuses {
		LookupsTotal.WithLabelValues(s)
	}
	for _, s := range removalStatuses {
		RemovalsTotal.WithLabelValues(s)
	}

	// --- Shell commands ---
	for _, c := range Commands {
		CommandsTotal.WithLabelValues(c, "success")
		CommandsTotal.WithLabelValues(c, "error")
		CommandDuration.WithLabelValues(c)
	}

	for _, e := range libraryEvents {
		LibraryEventsTotal.WithLabelValues(e)
	}

	for _, op := range []string{"open", "create"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "get_metadata", "set_metadata",
		"create_playlist", "get_playlist", "rename_playlist", "get_playlist_tracks",
		"insert_playlist_tracks", "delete_playlist_tracks", "list_container",
		"insert_container_entry", "delete_container_entry", "get_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
