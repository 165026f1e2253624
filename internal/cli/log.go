// Package cli implements the pedigree command-line interface.
//
// Every editing command works on a document file: it loads the file, applies
// one mutation through the editing session and writes the file back. A
// rejected mutation leaves the file untouched and exits non-zero with the
// notice text.
//
// # Commands
//
// The main commands are:
//   - new, add, connect, disconnect, child, set, restyle, delete: edit a chart
//   - arrange: place every individual by generation
//   - validate, show, select: inspect a chart
//   - browse: flip status flags in an interactive list
//   - export: write PNG, SVG, JSON or DOT artifacts
//   - serve: run the local bridge for a canvas front end
//   - recover: restore an autosaved document
//   - cache: manage cached export artifacts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level and
// timestamps can also be set in the config file. Loggers are passed through
// context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
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

// done logs msg along with the elapsed time, e.g. "Exported 3 artifacts (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
