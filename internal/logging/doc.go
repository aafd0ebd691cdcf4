// Package logging provides structured, opt-in file-based logging with
// rotation for filex. When a log path is configured, JSON logs are written
// to that file (~/.filex/logs/filex.log by default) in addition to stderr.
package logging
