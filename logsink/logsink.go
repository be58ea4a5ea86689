// Package logsink lets any task emit leveled, formatted log lines without
// touching the USB transport. Records travel over the bus on log/<level>;
// services/logger is the single consumer that owns the wire.
package logsink

import (
	"strings"
	"sync/atomic"
	"time"

	"envmon-go/bus"
	"envmon-go/x/fmtx"
	"envmon-go/x/timex"
)

// Logger is the leveled, printf-style sink handed to components.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// ParseLevel accepts the String form, case-insensitively. ok is false for
// anything else.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Record is the bus payload for one log line.
type Record struct {
	Level  Level
	Source string
	Msg    string
	TS     time.Duration // uptime
}

// Topic returns log/<level>.
func Topic(l Level) bus.Topic { return bus.Topic{"log", l.String()} }

// TopicAll selects every level.
var TopicAll = bus.Topic{"log", bus.MultiWild}

// -----------------------------------------------------------------------------
// Bus-backed logger
// -----------------------------------------------------------------------------

// BusLogger publishes Records on a connection. Safe for concurrent use; the
// bus never blocks the caller.
type BusLogger struct {
	conn   *bus.Connection
	source string
	min    *atomic.Uint32
}

// New returns a logger that tags each record with source.
func New(conn *bus.Connection, source string) *BusLogger {
	min := new(atomic.Uint32)
	min.Store(uint32(LevelDebug))
	return &BusLogger{conn: conn, source: source, min: min}
}

// With returns a logger sharing the connection and level but tagged with
// another source.
func (l *BusLogger) With(source string) *BusLogger {
	return &BusLogger{conn: l.conn, source: source, min: l.min}
}

// SetLevel drops records below lvl before they are formatted. It applies to
// every logger derived with With.
func (l *BusLogger) SetLevel(lvl Level) { l.min.Store(uint32(lvl)) }

func (l *BusLogger) Debugf(format string, args ...any) { l.emit(LevelDebug, format, args) }
func (l *BusLogger) Infof(format string, args ...any)  { l.emit(LevelInfo, format, args) }
func (l *BusLogger) Warnf(format string, args ...any)  { l.emit(LevelWarn, format, args) }
func (l *BusLogger) Errorf(format string, args ...any) { l.emit(LevelError, format, args) }

func (l *BusLogger) emit(lvl Level, format string, args []any) {
	if l == nil || l.conn == nil || uint32(lvl) < l.min.Load() {
		return
	}
	rec := &Record{
		Level:  lvl,
		Source: l.source,
		Msg:    fmtx.Sprintf(format, args...),
		TS:     timex.Uptime(),
	}
	l.conn.Publish(l.conn.NewMessage(Topic(lvl), rec, false))
}

// -----------------------------------------------------------------------------
// Noop
// -----------------------------------------------------------------------------

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger { return noopLogger{} }

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
