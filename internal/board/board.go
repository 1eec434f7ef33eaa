// Package board wires the panel and touch drivers to the runtime from
// an appcfg configuration. Both hardware commands share this plumbing.
package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"

	"embui"
	"embui/drivers/cst816"
	"embui/drivers/ili9341"
	"embui/drivers/st7789"
	"embui/internal/appcfg"
	"embui/internal/applog"
)

// Panel is what both SPI drivers provide to the flush path.
type Panel interface {
	Init() error
	Flush(area embui.Rect, pixels []byte) error
	Width() int
	Height() int
	Backlight(on bool) error
	Sleep() error
}

// OpenPanel resolves pins and the SPI port from the config and builds
// the selected driver. The panel is returned uninitialized.
func OpenPanel(dc *appcfg.DisplayConfig) (Panel, error) {
	port, err := spireg.Open(dc.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("board: opening SPI port %q: %w", dc.SPIPort, err)
	}

	pinDC, err := requirePin(dc.PinDC)
	if err != nil {
		return nil, err
	}
	pinRst := OptionalPin(dc.PinReset)
	pinBl := OptionalPin(dc.PinBacklight)

	switch dc.Driver {
	case "ili9341":
		cfg := ili9341.Default
		if dc.Width > 0 && dc.Height > 0 {
			cfg.Width, cfg.Height = dc.Width, dc.Height
		}
		return ili9341.New(port, pinDC, pinRst, pinBl, cfg)

	default:
		cfg, err := st7789Preset(dc.Preset)
		if err != nil {
			return nil, err
		}
		if dc.Width > 0 && dc.Height > 0 {
			cfg.Width, cfg.Height = dc.Width, dc.Height
		}
		return st7789.New(port, pinDC, pinRst, pinBl, cfg)
	}
}

func st7789Preset(name string) (st7789.Config, error) {
	switch name {
	case "", "square240":
		return st7789.Square240, nil
	case "rect240x320":
		return st7789.Rect240x320, nil
	case "tdisplay":
		return st7789.TDisplay, nil
	case "tdisplay-s3":
		return st7789.TDisplayS3, nil
	case "esp32-s3-box":
		return st7789.ESP32S3Box, nil
	default:
		return st7789.Config{}, fmt.Errorf("board: unknown st7789 preset %q", name)
	}
}

func requirePin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, fmt.Errorf("board: pin name is empty")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("board: pin %q not found", name)
	}
	return p, nil
}

// OptionalPin resolves a pin name, returning nil for an empty name so
// unwired reset/backlight lines stay optional.
func OptionalPin(name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	return gpioreg.ByName(name)
}

// RotationFromDegrees maps the config's rotation to the runtime's.
func RotationFromDegrees(deg int) embui.Rotation {
	switch deg {
	case 90:
		return embui.Rotation90
	case 180:
		return embui.Rotation180
	case 270:
		return embui.Rotation270
	default:
		return embui.Rotation0
	}
}

// WireTouch opens the I2C bus, brings up the CST816 and registers it as
// a pointer device on the context.
func WireTouch(ui *embui.Context, tc *appcfg.TouchConfig, width, height int) error {
	bus, err := i2creg.Open(tc.I2CBus)
	if err != nil {
		return fmt.Errorf("board: opening I2C bus %q: %w", tc.I2CBus, err)
	}

	touch, err := cst816.New(bus, OptionalPin(tc.PinReset), cst816.Config{
		Width:   width,
		Height:  height,
		SwapXY:  tc.SwapXY,
		InvertX: tc.InvertX,
		InvertY: tc.InvertY,
	})
	if err != nil {
		return err
	}
	if err := touch.Init(); err != nil {
		return err
	}
	applog.Info("touch ready", "chip_id", fmt.Sprintf("0x%02X", touch.ChipID()))

	dev, err := ui.NewInputDevice(embui.InputPointer)
	if err != nil {
		return err
	}
	dev.SetReadFunc(touchReadFunc(touch))
	return nil
}

// touchSource is the slice of the touch driver the poll callback needs.
type touchSource interface {
	Read() (cst816.TouchData, error)
}

// touchReadFunc adapts polled touch samples to the runtime's input
// protocol, tracking the last pressed point so releases report it.
func touchReadFunc(src touchSource) embui.ReadFunc {
	var lastX, lastY int32
	return func(_ *embui.InputDevice, s *embui.InputSample) {
		td, err := src.Read()
		if err != nil {
			// Transient bus errors read as a release at the last point.
			s.X, s.Y = lastX, lastY
			return
		}
		if td.Pressed {
			lastX, lastY = int32(td.X), int32(td.Y)
			s.State = embui.InputPressed
		}
		s.X, s.Y = lastX, lastY
	}
}
