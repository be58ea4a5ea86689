// Package framebuf is an in-memory monochrome panel for host builds. It
// satisfies the same driver contract as the SSD1306 and prints each flushed
// frame as text, two pixel rows per character row.
package framebuf

import (
	"errors"
	"image/color"
	"io"
	"strings"
	"sync"
)

var (
	ErrInjected   = errors.New("framebuf: injected flush failure")
	ErrBufferSize = errors.New("framebuf: buffer size mismatch")
)

type Config struct {
	Width, Height int16
	// FailEvery makes every Nth Display call fail; 0 disables.
	FailEvery int
	// Out receives rendered frames; nil keeps them in memory only.
	Out io.Writer
}

type Frame struct {
	mu      sync.Mutex
	w, h    int16
	pix     []bool
	shown   []bool
	flushes int
	cfg     Config
}

func New(cfg Config) *Frame {
	if cfg.Width <= 0 {
		cfg.Width = 128
	}
	if cfg.Height <= 0 {
		cfg.Height = 64
	}
	n := int(cfg.Width) * int(cfg.Height)
	return &Frame{
		w:     cfg.Width,
		h:     cfg.Height,
		pix:   make([]bool, n),
		shown: make([]bool, n),
		cfg:   cfg,
	}
}

func (f *Frame) Size() (x, y int16) { return f.w, f.h }

// SetPixel lights the pixel for any non-black colour, like the SSD1306.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.mu.Lock()
	f.pix[int(y)*int(f.w)+int(x)] = c.R != 0 || c.G != 0 || c.B != 0
	f.mu.Unlock()
}

func (f *Frame) ClearBuffer() {
	f.mu.Lock()
	clear(f.pix)
	f.mu.Unlock()
}

// GetBuffer packs the RAM frame in SSD1306 order: one byte per column of
// an 8-row page, LSB on top.
func (f *Frame) GetBuffer() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, int(f.w)*((int(f.h)+7)/8))
	for y := int16(0); y < f.h; y++ {
		for x := int16(0); x < f.w; x++ {
			if f.pix[int(y)*int(f.w)+int(x)] {
				buf[int(x)+int(y/8)*int(f.w)] |= 1 << (y % 8)
			}
		}
	}
	return buf
}

// SetBuffer loads a frame packed like GetBuffer's.
func (f *Frame) SetBuffer(buf []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(buf) != int(f.w)*((int(f.h)+7)/8) {
		return ErrBufferSize
	}
	for y := int16(0); y < f.h; y++ {
		for x := int16(0); x < f.w; x++ {
			f.pix[int(y)*int(f.w)+int(x)] = buf[int(x)+int(y/8)*int(f.w)]&(1<<(y%8)) != 0
		}
	}
	return nil
}

// Display latches the RAM frame into the visible one.
func (f *Frame) Display() error {
	f.mu.Lock()
	f.flushes++
	fail := f.cfg.FailEvery > 0 && f.flushes%f.cfg.FailEvery == 0
	if !fail {
		copy(f.shown, f.pix)
	}
	out := f.cfg.Out
	f.mu.Unlock()

	if fail {
		return ErrInjected
	}
	if out != nil {
		_, err := io.WriteString(out, f.Render())
		return err
	}
	return nil
}

// Pixel reports a RAM-frame pixel.
func (f *Frame) Pixel(x, y int16) bool {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pix[int(y)*int(f.w)+int(x)]
}

// Lit counts lit pixels in rows [y0, y1) of the visible frame.
func (f *Frame) Lit(y0, y1 int16) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for y := max(y0, 0); y < min(y1, f.h); y++ {
		for x := int16(0); x < f.w; x++ {
			if f.shown[int(y)*int(f.w)+int(x)] {
				n++
			}
		}
	}
	return n
}

// Flushes is the number of Display calls so far.
func (f *Frame) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// Render draws the visible frame with half-block characters inside a box.
func (f *Frame) Render() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sb strings.Builder
	border := strings.Repeat("-", int(f.w))
	sb.WriteString("+" + border + "+\n")
	for y := int16(0); y < f.h; y += 2 {
		sb.WriteByte('|')
		for x := int16(0); x < f.w; x++ {
			top := f.shown[int(y)*int(f.w)+int(x)]
			bot := y+1 < f.h && f.shown[int(y+1)*int(f.w)+int(x)]
			switch {
			case top && bot:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bot:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + border + "+\n")
	return sb.String()
}
