package logsink

import (
	"strings"
	"sync"

	"envmon-go/x/fmtx"
)

// Entry is one captured line.
type Entry struct {
	Level Level
	Msg   string
}

// Buffer captures log lines for test assertions.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
}

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Debugf(format string, args ...any) { b.add(LevelDebug, format, args) }
func (b *Buffer) Infof(format string, args ...any)  { b.add(LevelInfo, format, args) }
func (b *Buffer) Warnf(format string, args ...any)  { b.add(LevelWarn, format, args) }
func (b *Buffer) Errorf(format string, args ...any) { b.add(LevelError, format, args) }

func (b *Buffer) add(lvl Level, format string, args []any) {
	msg := fmtx.Sprintf(format, args...)
	b.mu.Lock()
	b.entries = append(b.entries, Entry{Level: lvl, Msg: msg})
	b.mu.Unlock()
}

// Entries returns a copy of everything captured so far.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// At returns the captured messages of one level.
func (b *Buffer) At(lvl Level) []string {
	var out []string
	for _, e := range b.Entries() {
		if e.Level == lvl {
			out = append(out, e.Msg)
		}
	}
	return out
}

// Contains reports whether a message at lvl contains substr.
func (b *Buffer) Contains(lvl Level, substr string) bool {
	for _, m := range b.At(lvl) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Reset drops captured entries.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}
