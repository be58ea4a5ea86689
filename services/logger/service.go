// Package logger is the task that owns the serial transport. It drains log
// records from the bus, renders them as text lines and pumps the bytes to the
// USB CDC port (and any mirror UART) through a byte ring, so a slow or
// unplugged host never stalls the producers.
package logger

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"envmon-go/bus"
	"envmon-go/logsink"
	"envmon-go/x/shmring"
	"envmon-go/x/strconvx"
)

const (
	defaultRingSize = 1024
	defaultFlush    = 100 * time.Millisecond

	// lineCap bounds one rendered record, prefix and CRLF included. Longer
	// messages are cut.
	lineCap = 160
)

type Config struct {
	MinLevel logsink.Level
	RingSize int           // power of two; 0 selects 1024
	Flush    time.Duration // pump poll interval; 0 selects 100ms
}

type Service struct {
	cfg  Config
	outs []io.Writer
	ring *shmring.Ring

	dropped atomic.Uint32 // whole lines lost to a full ring
	pending uint32        // drops not yet reported; format loop only

	line      [lineCap]byte
	formatted chan struct{} // closed when the format loop exits
	wg        sync.WaitGroup
}

// New builds the service. Writers receive the byte stream in order; a write
// error on one writer does not affect the others.
func New(cfg Config, outs ...io.Writer) *Service {
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Flush <= 0 {
		cfg.Flush = defaultFlush
	}
	return &Service{
		cfg:       cfg,
		outs:      outs,
		ring:      shmring.New(cfg.RingSize),
		formatted: make(chan struct{}),
	}
}

// Start subscribes before returning, so records published after Start are
// never missed, then runs the format and pump loops until ctx is done.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(logsink.TopicAll)
	s.wg.Add(2)
	go s.formatLoop(ctx, conn, sub)
	go s.pumpLoop(ctx)
	return nil
}

// Wait blocks until both loops have exited and the ring has been drained.
func (s *Service) Wait() { s.wg.Wait() }

// Dropped is the total number of lines lost to ring overflow.
func (s *Service) Dropped() uint32 { return s.dropped.Load() }

func (s *Service) formatLoop(ctx context.Context, conn *bus.Connection, sub *bus.Subscription) {
	defer s.wg.Done()
	defer close(s.formatted)
	defer conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			rec, ok := msg.Payload.(*logsink.Record)
			if !ok || rec.Level < s.cfg.MinLevel {
				continue
			}
			if s.pending > 0 {
				note := AppendRecord(s.line[:0], &logsink.Record{
					Level:  logsink.LevelWarn,
					Source: "logger",
					Msg:    "dropped " + strconvx.FormatUint(uint64(s.pending)) + " lines",
					TS:     rec.TS,
				})
				if len(note) <= s.ring.Space() {
					s.ring.WriteFrom(note)
					s.pending = 0
				}
			}
			s.enqueue(AppendRecord(s.line[:0], rec))
		}
	}
}

// enqueue writes a whole line or nothing.
func (s *Service) enqueue(line []byte) bool {
	if len(line) > s.ring.Space() {
		s.pending++
		s.dropped.Add(1)
		return false
	}
	s.ring.WriteFrom(line)
	return true
}

// AppendRecord renders rec as "HH:MM:SS.mmm LEVEL [source] msg\r\n", at most
// lineCap bytes. The clock is uptime.
func AppendRecord(dst []byte, rec *logsink.Record) []byte {
	start := len(dst)
	dst = appendClock(dst, rec.TS)
	dst = append(dst, ' ')
	dst = append(dst, levelTag(rec.Level)...)
	dst = append(dst, ' ')
	if rec.Source != "" {
		dst = append(dst, '[')
		dst = append(dst, rec.Source...)
		dst = append(dst, "] "...)
	}
	room := lineCap - 2 - (len(dst) - start)
	msg := rec.Msg
	if room < 0 {
		room = 0
	}
	if len(msg) > room {
		for room > 0 && !utf8.RuneStart(msg[room]) {
			room--
		}
		msg = msg[:room]
	}
	dst = append(dst, msg...)
	return append(dst, '\r', '\n')
}

func appendClock(dst []byte, d time.Duration) []byte {
	if d < 0 {
		d = 0
	}
	ms := uint64(d / time.Millisecond)
	h := ms / 3_600_000
	dst = strconvx.AppendUintPad(dst, h, 2)
	dst = append(dst, ':')
	dst = strconvx.AppendUintPad(dst, ms/60_000%60, 2)
	dst = append(dst, ':')
	dst = strconvx.AppendUintPad(dst, ms/1000%60, 2)
	dst = append(dst, '.')
	return strconvx.AppendUintPad(dst, ms%1000, 3)
}

func levelTag(l logsink.Level) string {
	switch l {
	case logsink.LevelDebug:
		return "DEBUG"
	case logsink.LevelInfo:
		return "INFO "
	case logsink.LevelWarn:
		return "WARN "
	case logsink.LevelError:
		return "ERROR"
	}
	return "?????"
}

// pumpLoop moves ring bytes to the writers. Readable only signals the
// empty->non-empty edge, so a ticker covers a signal that raced a drain.
func (s *Service) pumpLoop(ctx context.Context) {
	defer s.wg.Done()

	tick := time.NewTicker(s.cfg.Flush)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			<-s.formatted
			s.drain()
			return
		case <-s.ring.Readable():
		case <-tick.C:
		}
		s.drain()
	}
}

func (s *Service) drain() {
	var chunk [64]byte
	for {
		n := s.ring.ReadInto(chunk[:])
		if n == 0 {
			return
		}
		for _, w := range s.outs {
			_, _ = w.Write(chunk[:n])
		}
	}
}
