package cst816

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestNewRejectsEmptyPanel(t *testing.T) {
	bus := &i2ctest.Playback{}
	_, err := New(bus, nil, Config{})
	assert.Error(t, err)
}

func TestInitRegisterSequence(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regChipID}, R: []byte{0xB4}},
			{Addr: DefaultAddr, W: []byte{regDisAutoSleep, 0x01}},
			{Addr: DefaultAddr, W: []byte{regIRQCtl, 0x41}},
		},
	}
	d, err := New(bus, &gpiotest.Pin{N: "TP_RST"}, Config{Width: 240, Height: 280})
	require.NoError(t, err)
	require.NoError(t, d.Init())
	assert.Equal(t, byte(0xB4), d.ChipID())
}

func TestReadDecodesTouch(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regGesture}, R: []byte{0x05, 0x01, 0x03, 0xFF, 0x02, 0xAA}},
		},
	}
	d, err := New(bus, nil, Config{Width: 1024, Height: 1024})
	require.NoError(t, err)

	td, err := d.Read()
	require.NoError(t, err)
	assert.True(t, td.Pressed)
	assert.Equal(t, 0x3FF, td.X)
	assert.Equal(t, 0x2AA, td.Y)
	assert.Equal(t, GestureSingleClick, td.Gesture)
}

func TestReadNoFinger(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regGesture}, R: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		},
	}
	d, err := New(bus, nil, Config{Width: 240, Height: 280})
	require.NoError(t, err)

	td, err := d.Read()
	require.NoError(t, err)
	assert.False(t, td.Pressed)
	assert.Equal(t, GestureNone, td.Gesture)
}

func TestGestureDecoding(t *testing.T) {
	cases := []struct {
		raw  byte
		want Gesture
	}{
		{0x00, GestureNone},
		{0x01, GestureSwipeUp},
		{0x02, GestureSwipeDown},
		{0x03, GestureSwipeLeft},
		{0x04, GestureSwipeRight},
		{0x05, GestureSingleClick},
		{0x0B, GestureDoubleClick},
		{0x0C, GestureLongPress},
		{0x07, GestureNone},
		{0xFF, GestureNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, decodeGesture(tc.raw), "raw %#02x", tc.raw)
	}
}

func TestTransformSwapThenInvert(t *testing.T) {
	d := &Dev{cfg: Config{Width: 240, Height: 320, SwapXY: true, InvertX: true}}

	// Raw (10, 20) swaps to (20, 10); X then mirrors against the width.
	x, y := d.transform(10, 20)
	assert.Equal(t, 240-1-20, x)
	assert.Equal(t, 10, y)
}

func TestTransformSaturatingInversion(t *testing.T) {
	d := &Dev{cfg: Config{Width: 240, Height: 320, InvertX: true}}

	// Raw 0 lands on the far edge.
	x, _ := d.transform(0, 0)
	assert.Equal(t, 239, x)

	// Raw at the panel dimension saturates to 0 instead of wrapping.
	x, _ = d.transform(240, 0)
	assert.Equal(t, 0, x)

	x, _ = d.transform(4095, 0)
	assert.Equal(t, 0, x)
}

func TestTransformClampsWithoutInversion(t *testing.T) {
	d := &Dev{cfg: Config{Width: 240, Height: 320}}

	x, y := d.transform(4095, 4095)
	assert.Equal(t, 239, x)
	assert.Equal(t, 319, y)
}
