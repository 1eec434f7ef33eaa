// Package ili9341 drives ILITEK ILI9341 TFT panels over SPI using
// periph.io. The window, chunking and flush contract match the st7789
// driver so the two are interchangeable behind an embui display.
package ili9341

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"embui"
)

const (
	cmdSWRESET = 0x01
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdPASET   = 0x2B // page address, the ILI9341 name for row select
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

const colmod565 = 0x55

// madDefault is portrait with BGR order, the wiring of the common 2.8"
// modules.
const madDefault = 0x48

const defaultChunk = 4096

// Config describes the panel. The ILI9341 glass is always 240x320; the
// fields exist so rotated or panned clones can reuse the driver.
type Config struct {
	Width, Height    int
	OffsetX, OffsetY int
	MADCTL           byte
}

// Default is the standard 240x320 module in portrait.
var Default = Config{Width: 240, Height: 320, MADCTL: madDefault}

// Dev is one connected panel. Not safe for concurrent use.
type Dev struct {
	conn spi.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	bl   gpio.PinOut
	cfg  Config

	chunk int
}

// New connects to the panel on the given SPI port; rst and bl may be nil.
func New(p spi.Port, dc, rst, bl gpio.PinOut, cfg Config) (*Dev, error) {
	if dc == nil {
		return nil, fmt.Errorf("ili9341: data/command pin is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("ili9341: invalid panel size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MADCTL == 0 {
		cfg.MADCTL = madDefault
	}
	c, err := p.Connect(40*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ili9341: SPI connect: %w", err)
	}
	d := &Dev{conn: c, dc: dc, rst: rst, bl: bl, cfg: cfg, chunk: defaultChunk}
	if l, ok := c.(conn.Limits); ok {
		if max := l.MaxTxSize(); max > 0 && max < d.chunk {
			d.chunk = max
		}
	}
	return d, nil
}

// Width returns the panel width.
func (d *Dev) Width() int { return d.cfg.Width }

// Height returns the panel height.
func (d *Dev) Height() int { return d.cfg.Height }

// Init resets and powers up the panel, clears it to black and enables the
// backlight.
func (d *Dev) Init() error {
	if err := d.hardReset(); err != nil {
		return err
	}
	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{cmdSWRESET, nil, 120 * time.Millisecond},
		{cmdSLPOUT, nil, 120 * time.Millisecond},
		{cmdCOLMOD, []byte{colmod565}, 0},
		{cmdMADCTL, []byte{d.cfg.MADCTL}, 0},
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
	if err := d.FillRect(embui.Rect{X2: d.cfg.Width - 1, Y2: d.cfg.Height - 1}, 0x0000); err != nil {
		return err
	}
	return d.Backlight(true)
}

func (d *Dev) hardReset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("ili9341: reset pin: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("ili9341: reset pin: %w", err)
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

func (d *Dev) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("ili9341: dc pin: %w", err)
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("ili9341: command %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("ili9341: dc pin: %w", err)
	}
	if err := d.conn.Tx(data, nil); err != nil {
		return fmt.Errorf("ili9341: command %#02x data: %w", cmd, err)
	}
	return nil
}

// SetWindow selects the RAM region the next WritePixels fills.
func (d *Dev) SetWindow(r embui.Rect) error {
	x1, x2 := r.X1+d.cfg.OffsetX, r.X2+d.cfg.OffsetX
	y1, y2 := r.Y1+d.cfg.OffsetY, r.Y2+d.cfg.OffsetY
	if err := d.command(cmdCASET, byte(x1>>8), byte(x1), byte(x2>>8), byte(x2)); err != nil {
		return err
	}
	if err := d.command(cmdPASET, byte(y1>>8), byte(y1), byte(y2>>8), byte(y2)); err != nil {
		return err
	}
	return d.command(cmdRAMWR)
}

// WritePixels streams RGB565 pixel data into the selected window in
// transport-sized chunks.
func (d *Dev) WritePixels(pixels []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("ili9341: dc pin: %w", err)
	}
	for len(pixels) > 0 {
		n := len(pixels)
		if n > d.chunk {
			n = d.chunk
		}
		if err := d.conn.Tx(pixels[:n], nil); err != nil {
			return fmt.Errorf("ili9341: pixel write: %w", err)
		}
		pixels = pixels[n:]
	}
	return nil
}

// Flush writes one rectangle of pixels, adapting the embui display flush
// contract.
func (d *Dev) Flush(area embui.Rect, pixels []byte) error {
	if err := d.SetWindow(area); err != nil {
		return err
	}
	return d.WritePixels(pixels)
}

// FillRect floods a rectangle with one RGB565 color in bounded chunks.
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
	n &^= 1
	buf := make([]byte, n)
	for i := 0; i < n; i += 2 {
		buf[i] = byte(color >> 8)
		buf[i+1] = byte(color)
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("ili9341: dc pin: %w", err)
	}
	for total > 0 {
		w := total
		if w > len(buf) {
			w = len(buf)
		}
		if err := d.conn.Tx(buf[:w], nil); err != nil {
			return fmt.Errorf("ili9341: fill write: %w", err)
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
		return fmt.Errorf("ili9341: backlight pin: %w", err)
	}
	return nil
}

// Sleep blanks the backlight and enters sleep-in mode.
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

// Halt turns the display off.
func (d *Dev) Halt() error {
	if err := d.command(cmdDISPOFF); err != nil {
		return err
	}
	return d.Backlight(false)
}
