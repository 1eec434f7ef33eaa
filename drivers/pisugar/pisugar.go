// Package pisugar reads the PiSugar 3 battery controller over I2C. The
// controller exposes the pack voltage and a fuel-gauge percentage in
// plain registers, enough for a status gauge on a portable board.
package pisugar

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the controller's fixed I2C address.
const DefaultAddr = 0x57

// Registers.
const (
	regVoltageHigh = 0x22 // voltage millivolts, high byte
	regVoltageLow  = 0x23 // voltage millivolts, low byte
	regPercent     = 0x2A // charge percentage, 0..100
)

// Status is one battery reading.
type Status struct {
	// Percent is the charge level, 0..100.
	Percent int
	// MilliVolts is the pack voltage.
	MilliVolts int
}

// Dev is one connected controller. Methods are not safe for concurrent
// use.
type Dev struct {
	dev i2c.Dev
}

// New attaches to the controller on the given bus at DefaultAddr.
func New(bus i2c.Bus) *Dev {
	return &Dev{dev: i2c.Dev{Bus: bus, Addr: DefaultAddr}}
}

// Read returns the current battery status.
func (d *Dev) Read() (Status, error) {
	high, err := d.readReg(regVoltageHigh)
	if err != nil {
		return Status{}, err
	}
	low, err := d.readReg(regVoltageLow)
	if err != nil {
		return Status{}, err
	}
	pct, err := d.readReg(regPercent)
	if err != nil {
		return Status{}, err
	}
	if pct > 100 {
		pct = 100
	}
	return Status{
		Percent:    int(pct),
		MilliVolts: int(uint16(high)<<8 | uint16(low)),
	}, nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	buf := []byte{0}
	if err := d.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, fmt.Errorf("pisugar: reading reg 0x%02X: %w", reg, err)
	}
	return buf[0], nil
}
