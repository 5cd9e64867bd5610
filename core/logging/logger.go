// Package logging defines the leveled logger used across the pipeline and
// the go-logger backed provider the CLI installs.
package logging

import (
	"context"
	"maps"
)

// Logger is the leveled logging contract. It mirrors the interface exposed by
// github.com/goliatone/go-logger so that package plugs in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is an optional extension for persistent structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// LoggerProvider hands out named module loggers.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// WithFields attaches fields when the logger supports it.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fl.WithFields(copied)
	}
	return logger
}

// OrNoOp returns logger, or a no-op logger when it is nil.
func OrNoOp(logger Logger) Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// Module returns the named logger from provider, falling back to no-op.
func Module(provider LoggerProvider, name string) Logger {
	if provider == nil {
		return NoOp()
	}
	return OrNoOp(provider.GetLogger(name))
}

type noopLogger struct{}

// NoOp returns a logger that discards everything.
func NoOp() Logger { return noopLogger{} }

func (noopLogger) Trace(string, ...any)                 {}
func (noopLogger) Debug(string, ...any)                 {}
func (noopLogger) Info(string, ...any)                  {}
func (noopLogger) Warn(string, ...any)                  {}
func (noopLogger) Error(string, ...any)                 {}
func (noopLogger) Fatal(string, ...any)                 {}
func (n noopLogger) WithContext(context.Context) Logger { return n }
func (n noopLogger) WithFields(map[string]any) Logger   { return n }
