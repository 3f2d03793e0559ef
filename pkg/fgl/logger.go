package fgl

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger shared by fgl and the packages built on it
// (hex, compose, renderer). By default nothing is logged. Pass nil to restore
// the silent default.
//
// Levels:
//   - [slog.LevelDebug]: resource creation, batch plans
//   - [slog.LevelInfo]: lifecycle events (context ready, resize)
//   - [slog.LevelWarn]: driver error codes collected after a frame
//   - [slog.LevelError]: allocation failures, right before the panic
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
