// Package logger provides a structured logging interface for c2dbscraper.
//
// It wraps the zerolog library to provide a small API with support for:
// - Multiple log levels (Debug, Info, Warn, Error)
// - Structured logging with fields
// - Colored console output on stderr
// - Optional JSON file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File:  "c2dbscraper.log",
//	}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//
//	log := logger.GetLogger()
//	log.WithField("slug", slug).Debug("skipping existing file")
//
// Testing:
//
// NewTestLogger captures messages in memory for assertions and NewNopLogger
// discards everything.
package logger
