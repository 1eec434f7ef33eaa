// Package st7789 drives Sitronix ST7789/ST7789V TFT panels over SPI using
// periph.io, in pure Go. The driver covers the common integrated-panel
// wirings (raw 240x240 and 240x320 modules, LilyGO T-Display boards, the
// ESP32-S3-Box) and exposes a Flush method matching the embui display
// flush contract.
package st7789

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"embui"
)

// Command bytes from the ST7789V datasheet.
const (
	cmdSWRESET = 0x01
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// MADCTL bits.
const (
	madMY  = 0x80 // row address order
	madMX  = 0x40 // column address order
	madMV  = 0x20 // row/column exchange
	madML  = 0x10 // vertical refresh order
	madBGR = 0x08 // BGR subpixel order
	madMH  = 0x04 // horizontal refresh order
)

// colmod565 selects 16-bit RGB565 pixels.
const colmod565 = 0x55

// defaultChunk bounds one SPI transfer when the port does not report its
// own limit.
const defaultChunk = 4096

// Orientation selects how the panel's memory scan order maps onto the
// logical width and height.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
	PortraitInverted
	LandscapeInverted
)

func (o Orientation) madctl() byte {
	switch o {
	case Landscape:
		return madMV | madBGR
	case PortraitInverted:
		return madMY | madBGR
	case LandscapeInverted:
		return madMX | madMY | madMV | madBGR
	default:
		return madMX | madBGR
	}
}

// swapped reports whether the orientation exchanges rows and columns.
func (o Orientation) swapped() bool {
	return o == Landscape || o == LandscapeInverted
}

// Config describes one panel wiring. Width and Height are the panel's
// native (portrait) dimensions; OffsetX/OffsetY shift the window for
// modules whose glass does not start at column/row 0 of the controller
// RAM.
type Config struct {
	Width, Height    int
	OffsetX, OffsetY int
	Orientation      Orientation
	InvertColors     bool
}

// Presets for common ST7789 modules and dev boards.
var (
	// Square240 is the bare 240x240 1.3" module.
	Square240 = Config{Width: 240, Height: 240, InvertColors: true}
	// Rect240x320 is the bare 240x320 2" module.
	Rect240x320 = Config{Width: 240, Height: 320, InvertColors: true}
	// TDisplay is the LilyGO T-Display (135x240, panned into the
	// controller's 240x320 RAM).
	TDisplay = Config{Width: 135, Height: 240, OffsetX: 52, OffsetY: 40, InvertColors: true}
	// TDisplayS3 is the LilyGO T-Display-S3 (170x320).
	TDisplayS3 = Config{Width: 170, Height: 320, OffsetX: 35, InvertColors: true}
	// ESP32S3Box is the Espressif ESP32-S3-Box 2.4" panel, used in
	// landscape.
	ESP32S3Box = Config{Width: 320, Height: 240, Orientation: Landscape, InvertColors: true}
)

// Dev is one connected panel. Methods are not safe for concurrent use;
// drive the panel from the UI loop's goroutine.
type Dev struct {
	conn spi.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	bl   gpio.PinOut
	cfg  Config

	chunk int
}

// New connects to the panel on the given SPI port. dc is required; rst
// and bl may be nil when the board ties reset high or the backlight to
// power. The port is connected at up to 62.5 MHz, mode 0; the panel is
// not touched until Init.
func New(p spi.Port, dc, rst, bl gpio.PinOut, cfg Config) (*Dev, error) {
	if dc == nil {
		return nil, fmt.Errorf("st7789: data/command pin is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("st7789: invalid panel size %dx%d", cfg.Width, cfg.Height)
	}
	c, err := p.Connect(62500*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: SPI connect: %w", err)
	}
	d := &Dev{conn: c, dc: dc, rst: rst, bl: bl, cfg: cfg, chunk: defaultChunk}
	if l, ok := c.(conn.Limits); ok {
		if max := l.MaxTxSize(); max > 0 && max < d.chunk {
			d.chunk = max
		}
	}
	return d, nil
}

// Width returns the effective width for the configured orientation.
func (d *Dev) Width() int {
	if d.cfg.Orientation.swapped() {
		return d.cfg.Height
	}
	return d.cfg.Width
}

// Height returns the effective height for the configured orientation.
func (d *Dev) Height() int {
	if d.cfg.Orientation.swapped() {
		return d.cfg.Width
	}
	return d.cfg.Height
}

// Init resets the panel and runs the power-up sequence: sleep-out, 16-bit
// color mode, memory access order, inversion, normal mode, display on.
// The screen is cleared to black before the backlight comes up so the
// power-on noise is never visible.
func (d *Dev) Init() error {
	if err := d.hardReset(); err != nil {
		return err
	}
	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{cmdSWRESET, nil, 150 * time.Millisecond},
		{cmdSLPOUT, nil, 50 * time.Millisecond},
		{cmdCOLMOD, []byte{colmod565}, 10 * time.Millisecond},
		{cmdMADCTL, []byte{d.cfg.Orientation.madctl()}, 0},
		{d.invCmd(), nil, 10 * time.Millisecond},
		{cmdNORON, nil, 10 * time.Millisecond},
		{cmdDISPON, nil, 50 * time.Millisecond},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	if err := d.FillRect(embui.Rect{X2: d.Width() - 1, Y2: d.Height() - 1}, 0x0000); err != nil {
		return err
	}
	return d.Backlight(true)
}

func (d *Dev) invCmd() byte {
	if d.cfg.InvertColors {
		return cmdINVON
	}
	return cmdINVOFF
}

func (d *Dev) hardReset() error {
	if d.rst == nil {
		return nil
	}
	for _, s := range []struct {
		level gpio.Level
		delay time.Duration
	}{
		{gpio.High, 10 * time.Millisecond},
		{gpio.Low, 10 * time.Millisecond},
		{gpio.High, 120 * time.Millisecond},
	} {
		if err := d.rst.Out(s.level); err != nil {
			return fmt.Errorf("st7789: reset pin: %w", err)
		}
		time.Sleep(s.delay)
	}
	return nil
}

// command sends one command byte (DC low) followed by its parameter bytes
// (DC high).
func (d *Dev) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7789: dc pin: %w", err)
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("st7789: command %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7789: dc pin: %w", err)
	}
	if err := d.conn.Tx(data, nil); err != nil {
		return fmt.Errorf("st7789: command %#02x data: %w", cmd, err)
	}
	return nil
}

// SetWindow selects the RAM region the next WritePixels fills. The
// rectangle is in logical coordinates; the panel offsets are applied
// here, swapped for landscape orientations.
func (d *Dev) SetWindow(r embui.Rect) error {
	ox, oy := d.cfg.OffsetX, d.cfg.OffsetY
	if d.cfg.Orientation.swapped() {
		ox, oy = oy, ox
	}
	x1, x2 := r.X1+ox, r.X2+ox
	y1, y2 := r.Y1+oy, r.Y2+oy
	if err := d.command(cmdCASET, byte(x1>>8), byte(x1), byte(x2>>8), byte(x2)); err != nil {
		return err
	}
	if err := d.command(cmdRASET, byte(y1>>8), byte(y1), byte(y2>>8), byte(y2)); err != nil {
		return err
	}
	return d.command(cmdRAMWR)
}

// WritePixels streams RGB565 pixel data into the window selected by
// SetWindow, split into transfers the transport accepts. The
// concatenation of the chunks on the wire equals pixels exactly.
func (d *Dev) WritePixels(pixels []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7789: dc pin: %w", err)
	}
	for len(pixels) > 0 {
		n := len(pixels)
		if n > d.chunk {
			n = d.chunk
		}
		if err := d.conn.Tx(pixels[:n], nil); err != nil {
			return fmt.Errorf("st7789: pixel write: %w", err)
		}
		pixels = pixels[n:]
	}
	return nil
}

// Flush writes one rectangle of pixels, adapting the embui display flush
// contract. Wire it as the FlushFunc body:
//
//	disp.SetFlushFunc(func(disp *embui.Display, area embui.Rect, px []byte) {
//		if err := panel.Flush(area, px); err != nil { ... }
//		disp.FlushReady()
//	})
func (d *Dev) Flush(area embui.Rect, pixels []byte) error {
	if err := d.SetWindow(area); err != nil {
		return err
	}
	return d.WritePixels(pixels)
}

// FillRect floods a rectangle with one RGB565 color, generating pixel
// data in bounded chunks rather than allocating the full area.
func (d *Dev) FillRect(r embui.Rect, color uint16) error {
	if r.Empty() {
		return nil
	}
	if err := d.SetWindow(r); err != nil {
		return err
	}
	total := r.W() * r.H() * 2
	n := total
	if n > d.chunk {
		n = d.chunk
	}
	n &^= 1 // keep whole pixels per transfer
	buf := make([]byte, n)
	for i := 0; i < n; i += 2 {
		buf[i] = byte(color >> 8)
		buf[i+1] = byte(color)
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7789: dc pin: %w", err)
	}
	for total > 0 {
		w := total
		if w > len(buf) {
			w = len(buf)
		}
		if err := d.conn.Tx(buf[:w], nil); err != nil {
			return fmt.Errorf("st7789: fill write: %w", err)
		}
		total -= w
	}
	return nil
}

// Backlight switches the backlight pin, when one is wired.
func (d *Dev) Backlight(on bool) error {
	if d.bl == nil {
		return nil
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := d.bl.Out(level); err != nil {
		return fmt.Errorf("st7789: backlight pin: %w", err)
	}
	return nil
}

// Sleep blanks the backlight and puts the controller into sleep-in mode.
func (d *Dev) Sleep() error {
	if err := d.Backlight(false); err != nil {
		return err
	}
	if err := d.command(cmdSLPIN); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	return nil
}

// Wake leaves sleep mode and restores the backlight.
func (d *Dev) Wake() error {
	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return d.Backlight(true)
}

// Halt turns the display off. It implements conn.Resource-style shutdown
// without holding the bus.
func (d *Dev) Halt() error {
	if err := d.command(cmdDISPOFF); err != nil {
		return err
	}
	return d.Backlight(false)
}
