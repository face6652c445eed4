// Package logging provides the structured logger used across the directory.
//
// Logger wraps log/slog. Every record carries the component that emitted it
// and a session id generated once per process, so lines from one CLI run can
// be grouped together. Output is text by default or JSON on request.
//
// Usage Example:
//
//	log := logging.New("database", os.Stderr, logging.Options{Level: "debug"})
//	log.Info("loaded contacts", "count", 42)
//
//	storeLog := log.Component("storage")
//	storeLog.Warn("skipped malformed row", "line", 7)
package logging
