// Package logging assembles structured slog loggers and formatting helpers used
// across truthsaver.
//
// It owns the configurable console/JSON handlers, tees every run into a JSON
// log file under log_dir, stamps each record with the run ID, and exposes
// context-aware helpers so phase code can tag log lines with the stage and
// entry being processed. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
