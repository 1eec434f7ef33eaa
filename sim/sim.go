// Package sim renders an embui display into a terminal window via tcell,
// standing in for an SPI panel during development. Each terminal cell
// shows two vertically stacked pixels using the upper-half-block rune, so
// a 320x240 UI needs a 320x120-cell terminal.
package sim

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"embui"
)

// Window is a simulated panel plus pointer input source. Drive it from a
// single goroutine: PollEvents, then TaskHandler (which pulls the pointer
// through a ReadFunc and flushes through Flush), then Render.
type Window struct {
	screen tcell.Screen
	width  int
	height int

	// frame is the RGB565 frame buffer, row-major.
	frame []uint16

	ptrX, ptrY int32
	pressed    bool
	quit       bool
}

// NewWindow opens a terminal window sized for width x height pixels.
func NewWindow(width, height int) (*Window, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("sim: create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("sim: init screen: %w", err)
	}
	return NewWindowScreen(s, width, height)
}

// NewWindowScreen builds a Window on an already initialized tcell screen.
// Tests use it with tcell.NewSimulationScreen.
func NewWindowScreen(s tcell.Screen, width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sim: invalid window size %dx%d", width, height)
	}
	s.EnableMouse()
	s.HideCursor()
	s.Clear()
	return &Window{
		screen: s,
		width:  width,
		height: height,
		frame:  make([]uint16, width*height),
	}, nil
}

// Size returns the window size in pixels.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// Flush copies one rectangle of RGB565 pixels into the frame buffer,
// clipping rows and columns that fall outside the window. It matches the
// embui flush contract; callers acknowledge with FlushReady themselves:
//
//	disp.SetFlushFunc(func(d *embui.Display, area embui.Rect, px []byte) {
//		win.Flush(area, px)
//		d.FlushReady()
//	})
func (w *Window) Flush(area embui.Rect, pixels []byte) {
	stride := area.W()
	for y := area.Y1; y <= area.Y2; y++ {
		if y < 0 || y >= w.height {
			continue
		}
		for x := area.X1; x <= area.X2; x++ {
			if x < 0 || x >= w.width {
				continue
			}
			off := ((y-area.Y1)*stride + (x - area.X1)) * 2
			if off+1 >= len(pixels) {
				return
			}
			w.frame[y*w.width+x] = uint16(pixels[off])<<8 | uint16(pixels[off+1])
		}
	}
}

// Pixel returns one frame buffer pixel, for tests and screenshots.
func (w *Window) Pixel(x, y int) uint16 {
	if x < 0 || x >= w.width || y < 0 || y >= w.height {
		return 0
	}
	return w.frame[y*w.width+x]
}

// Render pushes the frame buffer to the terminal. Two pixel rows share a
// cell: the top pixel is the foreground of '▀', the bottom pixel the
// background.
func (w *Window) Render() {
	for cy := 0; cy*2 < w.height; cy++ {
		for x := 0; x < w.width; x++ {
			top := cellColor(w.frame[cy*2*w.width+x])
			bottom := tcell.ColorBlack
			if cy*2+1 < w.height {
				bottom = cellColor(w.frame[(cy*2+1)*w.width+x])
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			w.screen.SetContent(x, cy, '▀', nil, style)
		}
	}
	w.screen.Show()
}

func cellColor(v uint16) tcell.Color {
	c := embui.ColorFromRGB565(v)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// PollEvents drains pending terminal events without blocking and returns
// false once the user asked to quit (q, Esc or Ctrl-C). Mouse position
// and button state become the current pointer sample; terminal rows map
// onto two pixel rows each. Resizes are tolerated, the pixel size never
// changes.
func (w *Window) PollEvents() bool {
	for w.screen.HasPendingEvent() {
		switch ev := w.screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
				w.quit = true
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				w.quit = true
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			w.ptrX = int32(x)
			w.ptrY = int32(y * 2)
			w.pressed = ev.Buttons()&tcell.Button1 != 0
		case *tcell.EventResize:
			w.screen.Sync()
		}
	}
	return !w.quit
}

// Pointer returns the last pointer sample, shaped for an input device's
// ReadFunc.
func (w *Window) Pointer() (x, y int32, pressed bool) {
	return w.ptrX, w.ptrY, w.pressed
}

// Close restores the terminal.
func (w *Window) Close() {
	w.screen.Fini()
}
