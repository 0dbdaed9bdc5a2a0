// Package filesystem opens playlist files with retries for network mounts.
//
// Playlist exports and imports often live on NFS shares, where an open can
// fail with a stale file handle (ESTALE) after the server side changed.
// [OpenWithRetry] and [CreateWithRetry] retry only that error, with
// exponential backoff capped at [RetryConfig].MaxBackoff. Any other error
// is returned at once.
//
// # Metrics
//
// Retries are counted per operation ("open", "create") in
// listify_filesystem_retry_attempts_total, listify_filesystem_retry_success_total,
// listify_filesystem_retry_failures_total and listify_filesystem_stale_errors_total.
package filesystem
