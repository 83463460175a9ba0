// Package cli implements the flowgraph command-line interface.
//
// The commands load graphs from the backend or from wire-format JSON files,
// edit them through the same graph store the HTTP surface uses, and write
// the result back as JSON. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - new, open, push: create graphs, fetch them to files, upload files
//   - check, strategy: backend analyses
//   - edit, inspect, render: local file operations
//   - serve: the HTTP session surface
//   - drafts: manage autosaved drafts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every backend request. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Fetched g1 (120ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHTTPHooks logs backend calls at debug level.
type logHTTPHooks struct {
	logger *log.Logger
}

func (h *logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("backend request", "method", method, "host", host, "path", path)
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	h.logger.Debug("backend response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHTTPHooks) OnError(_ context.Context, method, _, path string, err error) {
	h.logger.Debug("backend error", "method", method, "path", path, "err", err)
}
