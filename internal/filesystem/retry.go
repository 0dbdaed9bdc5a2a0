package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"listify/internal/logging"
	"listify/internal/metrics"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isStaleError checks if an error is an NFS stale file handle error
func isStaleError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}
	return false
}

// withRetry runs fn until it succeeds, fails with anything but a stale
// file handle, or runs out of retries.
func withRetry(operation, path string, config RetryConfig, fn func() error) error {
	backoff := config.InitialBackoff
	var err error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err = fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", operation, attempt, path)
				metrics.FilesystemRetrySuccess.WithLabelValues(operation).Inc()
			}
			return nil
		}

		if !isStaleError(err) {
			return err
		}
		metrics.FilesystemStaleErrors.WithLabelValues(operation).Inc()

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			metrics.FilesystemRetryAttempts.WithLabelValues(operation).Inc()
			logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
				operation, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("NFS %s failed after %d retries for %s: %v", operation, config.MaxRetries, path, err)
	metrics.FilesystemRetryFailures.WithLabelValues(operation).Inc()
	return err
}

// OpenWithRetry performs os.Open with retry logic for NFS stale file handle errors
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	var f *os.File
	err := withRetry("open", path, config, func() error {
		var err error
		f, err = os.Open(path)
		return err
	})
	return f, err
}

// CreateWithRetry performs os.Create with retry logic for NFS stale file handle errors
func CreateWithRetry(path string, config RetryConfig) (*os.File, error) {
	var f *os.File
	err := withRetry("create", path, config, func() error {
		var err error
		f, err = os.Create(path)
		return err
	})
	return f, err
}
