// Package oled renders status text onto a monochrome panel. Drawing only
// touches the driver's RAM frame; Flush is the single bus transaction.
package oled

import (
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"envmon-go/errcode"
	"envmon-go/types"
)

// Driver is what the panel needs from a controller: ssd1306.Device on the
// board, framebuf.Frame on the host.
type Driver interface {
	drivers.Displayer
	ClearBuffer()
}

// DefaultFont is used when a TextStyle carries no font.
var DefaultFont = &proggy.TinySZ8pt7b

type Panel struct {
	drv    Driver
	init   func() error
	width  int16
	height int16
	ready  bool
	inits  int
	keep   []byte
}

// framer is a driver whose RAM frame can be saved and put back. Bring-up
// blanks (ssd1306: reallocates) the frame, so a retry from Flush would
// otherwise push an empty panel.
type framer interface {
	GetBuffer() []byte
	SetBuffer(buf []byte) error
}

// New wraps drv. init configures the controller and should fail when the
// part does not answer; it is re-run by Flush until it succeeds.
func New(drv Driver, width, height int16, init func() error) *Panel {
	return &Panel{drv: drv, init: init, width: width, height: height}
}

// Init runs the controller bring-up.
func (p *Panel) Init() error {
	p.inits++
	if p.init != nil {
		if err := p.init(); err != nil {
			p.ready = false
			return errcode.Wrap(errcode.DisplayNotReady, "oled.init", err)
		}
	}
	p.ready = true
	return nil
}

func (p *Panel) Ready() bool        { return p.ready }
func (p *Panel) Size() (w, h int16) { return p.width, p.height }
func (p *Panel) InitAttempts() int  { return p.inits }

// Clear blanks the RAM frame. It never fails; the error is for the
// interface.
func (p *Panel) Clear() error {
	p.drv.ClearBuffer()
	return nil
}

// DrawText writes text with its baseline at at. Glyphs past the edge are
// clipped; an anchor outside the panel is rejected.
func (p *Panel) DrawText(at types.Point, style types.TextStyle, text string) error {
	if at.X < 0 || at.Y < 0 || at.X >= p.width || at.Y >= p.height {
		return errcode.OutOfBounds
	}
	font := style.Font
	if font == nil {
		font = DefaultFont
	}
	x := at.X
	for {
		i := strings.IndexRune(text, degree)
		if i < 0 {
			break
		}
		// The bundled fonts are 7-bit; the degree sign is drawn by hand.
		x = p.writeRun(font, x, at.Y, text[:i], style)
		x = p.drawDegree(font, x, at.Y, style)
		text = text[i+len(string(degree)):]
	}
	p.writeRun(font, x, at.Y, text, style)
	return nil
}

const degree = '°'

func (p *Panel) writeRun(font *tinyfont.Font, x, y int16, s string, style types.TextStyle) int16 {
	if s == "" {
		return x
	}
	tinyfont.WriteLine(p.drv, font, x, y, s, style.Color)
	_, w := tinyfont.LineWidth(font, s)
	return x + int16(w)
}

// drawDegree draws a 4x4 ring near the cap height and returns the next pen
// position.
func (p *Panel) drawDegree(font *tinyfont.Font, x, y int16, style types.TextStyle) int16 {
	top := y - int16(font.YAdvance)*2/3
	for _, d := range [...][2]int16{{1, 0}, {2, 0}, {0, 1}, {3, 1}, {0, 2}, {3, 2}, {1, 3}, {2, 3}} {
		p.drv.SetPixel(x+d[0], top+d[1], style.Color)
	}
	return x + 5
}

// Flush pushes the frame to the panel. A panel that failed bring-up is
// initialised again first.
func (p *Panel) Flush() error {
	if !p.ready {
		if err := p.reinit(); err != nil {
			return err
		}
	}
	if err := p.drv.Display(); err != nil {
		return errcode.Wrap(errcode.DisplayIO, "oled.flush", err)
	}
	return nil
}

// reinit re-runs bring-up, keeping the frame drawn this cycle.
func (p *Panel) reinit() error {
	fr, ok := p.drv.(framer)
	if !ok {
		return p.Init()
	}
	p.keep = append(p.keep[:0], fr.GetBuffer()...)
	err := p.Init()
	_ = fr.SetBuffer(p.keep)
	return err
}

// TextWidth is the advance width of text in font, for layout checks.
func TextWidth(font *tinyfont.Font, text string) int16 {
	if font == nil {
		font = DefaultFont
	}
	_, outbox := tinyfont.LineWidth(font, text)
	return int16(outbox)
}
