// Package log wraps logrus with the field/context conventions used
// throughout this module: a package-level DefaultLogger for call sites that
// don't carry their own *Entry, and log.Ctx(ctx) for call sites that do.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Level re-exports logrus's level type so callers don't need to import
// logrus directly just to call SetLevel.
type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

// F is a map of structured fields attached to a log line.
type F logrus.Fields

// Entry is a single logger, optionally carrying a set of fields. It is
// exactly logrus.Entry, aliased so call sites can type their own Log
// *log.Entry fields without importing logrus.
type Entry = logrus.Entry

// Logger wraps a *logrus.Logger, giving it a package-level constructor
// separate from logrus's own global instance.
type Logger struct {
	*logrus.Logger
}

// New returns a Logger with this module's default formatting: text output,
// RFC3339 timestamps, level reported via Info by default.
func New() *Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	l.Level = logrus.InfoLevel
	return &Logger{Logger: l}
}

// DefaultLogger is used by every component that isn't handed an explicit
// *log.Entry - a corerunner Config with no Log field set falls back to it.
var DefaultLogger = New()

// WithField returns an Entry with a single extra field, taken off
// DefaultLogger.
func WithField(key string, value interface{}) *Entry {
	return DefaultLogger.WithField(key, value)
}

// WithFields returns an Entry with a set of extra fields, taken off
// DefaultLogger.
func WithFields(f F) *Entry {
	return DefaultLogger.WithFields(logrus.Fields(f))
}

type contextKey struct{}

// Context returns a copy of ctx carrying entry, retrievable with Ctx.
func Context(ctx context.Context, entry *Entry) context.Context {
	return context.WithValue(ctx, contextKey{}, entry)
}

// Ctx returns the Entry attached to ctx by Context, or DefaultLogger's base
// entry if none was attached. HTTP and RPC entry points use this to thread a
// request-scoped logger down through a call without passing it explicitly.
func Ctx(ctx context.Context) *Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(contextKey{}).(*Entry); ok && entry != nil {
			return entry
		}
	}
	return logrus.NewEntry(DefaultLogger.Logger)
}
