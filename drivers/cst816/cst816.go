// Package cst816 reads the Hynitron CST816S/CST816T capacitive touch
// controller over I2C using periph.io. The chip pushes at most one touch
// point; polling Read once per UI tick is the intended usage.
package cst816

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the CST816's fixed I2C address.
const DefaultAddr = 0x15

// Registers.
const (
	regGesture      = 0x01 // gesture, finger count, XY follow
	regChipID       = 0xA7
	regIRQCtl       = 0xFA
	regDisAutoSleep = 0xFE
)

// irqEnTouchChange enables touch and change interrupts, the mode the
// original firmware runs the chip in.
const irqEnTouchChange = 0x41

// Gesture is the controller's hardware gesture classification.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureSwipeUp
	GestureSwipeDown
	GestureSwipeLeft
	GestureSwipeRight
	GestureSingleClick
	GestureDoubleClick
	GestureLongPress
)

func (g Gesture) String() string {
	switch g {
	case GestureSwipeUp:
		return "swipe-up"
	case GestureSwipeDown:
		return "swipe-down"
	case GestureSwipeLeft:
		return "swipe-left"
	case GestureSwipeRight:
		return "swipe-right"
	case GestureSingleClick:
		return "single-click"
	case GestureDoubleClick:
		return "double-click"
	case GestureLongPress:
		return "long-press"
	default:
		return "none"
	}
}

// decodeGesture maps the raw register value; unknown codes read as none.
func decodeGesture(raw byte) Gesture {
	switch raw {
	case 0x01:
		return GestureSwipeUp
	case 0x02:
		return GestureSwipeDown
	case 0x03:
		return GestureSwipeLeft
	case 0x04:
		return GestureSwipeRight
	case 0x05:
		return GestureSingleClick
	case 0x0B:
		return GestureDoubleClick
	case 0x0C:
		return GestureLongPress
	default:
		return GestureNone
	}
}

// Config holds the panel geometry and the transform aligning the touch
// matrix with the display scan order.
type Config struct {
	// Width and Height are the display dimensions the coordinates are
	// mapped onto, after the swap.
	Width, Height int
	// SwapXY exchanges the axes before inversion.
	SwapXY bool
	// InvertX/InvertY mirror an axis against the panel dimension.
	InvertX, InvertY bool
}

// TouchData is one decoded sample.
type TouchData struct {
	Pressed bool
	X, Y    int
	Gesture Gesture
}

// Dev is one connected controller. Not safe for concurrent use.
type Dev struct {
	dev i2c.Dev
	rst gpio.PinOut
	cfg Config

	chipID byte
}

// New wraps the controller at DefaultAddr on the given bus. rst may be
// nil when the reset line is not wired. The chip is not touched until
// Init.
func New(bus i2c.Bus, rst gpio.PinOut, cfg Config) (*Dev, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("cst816: invalid panel size %dx%d", cfg.Width, cfg.Height)
	}
	return &Dev{dev: i2c.Dev{Bus: bus, Addr: DefaultAddr}, rst: rst, cfg: cfg}, nil
}

// Init resets the chip, reads the chip id for liveness, disables
// auto-sleep (a sleeping CST816 stops answering until the next touch) and
// enables touch/change interrupts.
func (d *Dev) Init() error {
	if err := d.hardReset(); err != nil {
		return err
	}
	var id [1]byte
	if err := d.dev.Tx([]byte{regChipID}, id[:]); err != nil {
		return fmt.Errorf("cst816: chip id read: %w", err)
	}
	d.chipID = id[0]
	if err := d.dev.Tx([]byte{regDisAutoSleep, 0x01}, nil); err != nil {
		return fmt.Errorf("cst816: disable auto sleep: %w", err)
	}
	if err := d.dev.Tx([]byte{regIRQCtl, irqEnTouchChange}, nil); err != nil {
		return fmt.Errorf("cst816: irq ctl: %w", err)
	}
	return nil
}

// ChipID returns the id byte read during Init.
func (d *Dev) ChipID() byte {
	return d.chipID
}

func (d *Dev) hardReset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("cst816: reset pin: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("cst816: reset pin: %w", err)
	}
	time.Sleep(50 * time.Millisecond)
	return nil
}

// Read fetches and decodes the current touch state in one 6-byte
// transaction: gesture, finger count, and the 12-bit X/Y coordinates.
func (d *Dev) Read() (TouchData, error) {
	var raw [6]byte
	if err := d.dev.Tx([]byte{regGesture}, raw[:]); err != nil {
		return TouchData{}, fmt.Errorf("cst816: touch read: %w", err)
	}
	x := int(raw[2]&0x0F)<<8 | int(raw[3])
	y := int(raw[4]&0x0F)<<8 | int(raw[5])
	x, y = d.transform(x, y)
	return TouchData{
		Pressed: raw[1] > 0,
		X:       x,
		Y:       y,
		Gesture: decodeGesture(raw[0]),
	}, nil
}

// transform applies axis swap, per-axis inversion and clamping, in that
// order. Inversion subtracts saturating at zero, so a raw coordinate at
// or past the panel edge lands on the opposite edge instead of wrapping.
func (d *Dev) transform(x, y int) (int, int) {
	if d.cfg.SwapXY {
		x, y = y, x
	}
	if d.cfg.InvertX {
		x = satInvert(x, d.cfg.Width)
	}
	if d.cfg.InvertY {
		y = satInvert(y, d.cfg.Height)
	}
	return clamp(x, d.cfg.Width), clamp(y, d.cfg.Height)
}

func satInvert(v, dim int) int {
	if v >= dim {
		return 0
	}
	return dim - 1 - v
}

func clamp(v, dim int) int {
	if v < 0 {
		return 0
	}
	if v > dim-1 {
		return dim - 1
	}
	return v
}

// Sleep re-enables the chip's auto-sleep so it powers down between
// touches.
func (d *Dev) Sleep() error {
	if err := d.dev.Tx([]byte{regDisAutoSleep, 0x00}, nil); err != nil {
		return fmt.Errorf("cst816: sleep: %w", err)
	}
	return nil
}

// Wake resets the chip and restores the Init register state.
func (d *Dev) Wake() error {
	if err := d.hardReset(); err != nil {
		return err
	}
	if err := d.dev.Tx([]byte{regDisAutoSleep, 0x01}, nil); err != nil {
		return fmt.Errorf("cst816: wake: %w", err)
	}
	if err := d.dev.Tx([]byte{regIRQCtl, irqEnTouchChange}, nil); err != nil {
		return fmt.Errorf("cst816: wake irq ctl: %w", err)
	}
	return nil
}
