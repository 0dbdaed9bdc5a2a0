// Package logging provides a simple leveled logging interface for listify,
// backed by a zap console logger on stderr.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. The command line can override it with
// SetLevel. Shell output goes to stdout; log lines never mix into it.
package logging
