package st7789

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"embui"
)

// recordPort is a fake spi.Port whose connection records every transfer
// together with the data/command line level at the time of the write.
type recordPort struct {
	dc    *gpiotest.Pin
	maxTx int

	writes []writeOp
}

type writeOp struct {
	data []byte
	dc   gpio.Level
}

func (p *recordPort) String() string { return "record" }

func (p *recordPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	return &recordConn{p: p}, nil
}

type recordConn struct {
	p *recordPort
}

func (c *recordConn) String() string      { return "record" }
func (c *recordConn) Duplex() conn.Duplex { return conn.Half }
func (c *recordConn) MaxTxSize() int      { return c.p.maxTx }
func (c *recordConn) Tx(w, r []byte) error {
	c.p.writes = append(c.p.writes, writeOp{data: append([]byte(nil), w...), dc: c.p.dc.L})
	return nil
}
func (c *recordConn) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

func newTestDev(t *testing.T, cfg Config, maxTx int) (*Dev, *recordPort) {
	t.Helper()
	dc := &gpiotest.Pin{N: "DC"}
	port := &recordPort{dc: dc, maxTx: maxTx}
	d, err := New(port, dc, &gpiotest.Pin{N: "RST"}, &gpiotest.Pin{N: "BL"}, cfg)
	require.NoError(t, err)
	return d, port
}

// commands filters the recorded stream down to command bytes only.
func (p *recordPort) commands() []byte {
	var cmds []byte
	for _, w := range p.writes {
		if w.dc == gpio.Low && len(w.data) == 1 {
			cmds = append(cmds, w.data[0])
		}
	}
	return cmds
}

func TestNewRequiresDCPin(t *testing.T) {
	port := &recordPort{dc: &gpiotest.Pin{N: "DC"}}
	_, err := New(port, nil, nil, nil, Square240)
	assert.Error(t, err)
}

func TestNewRejectsEmptyPanel(t *testing.T) {
	port := &recordPort{dc: &gpiotest.Pin{N: "DC"}}
	_, err := New(port, port.dc, nil, nil, Config{})
	assert.Error(t, err)
}

func TestOrientationMADCTL(t *testing.T) {
	assert.Equal(t, byte(madMX|madBGR), Portrait.madctl())
	assert.Equal(t, byte(madMV|madBGR), Landscape.madctl())
	assert.Equal(t, byte(madMY|madBGR), PortraitInverted.madctl())

	// Flipping the panel upside down in landscape must set row order,
	// column order, row/column exchange and BGR together.
	m := LandscapeInverted.madctl()
	assert.Equal(t, byte(madMX), m&madMX)
	assert.Equal(t, byte(madMY), m&madMY)
	assert.Equal(t, byte(madMV), m&madMV)
	assert.Equal(t, byte(madBGR), m&madBGR)
}

func TestEffectiveSizeSwapsInLandscape(t *testing.T) {
	d, _ := newTestDev(t, ESP32S3Box, 0)
	assert.Equal(t, 240, d.Width())
	assert.Equal(t, 320, d.Height())

	d, _ = newTestDev(t, TDisplay, 0)
	assert.Equal(t, 135, d.Width())
	assert.Equal(t, 240, d.Height())
}

func TestInitSequence(t *testing.T) {
	d, port := newTestDev(t, Square240, 0)
	require.NoError(t, d.Init())

	cmds := port.commands()
	require.GreaterOrEqual(t, len(cmds), 7)
	assert.Equal(t, []byte{cmdSWRESET, cmdSLPOUT, cmdCOLMOD, cmdMADCTL, cmdINVON, cmdNORON, cmdDISPON}, cmds[:7])

	// COLMOD parameter selects RGB565.
	for i, w := range port.writes {
		if w.dc == gpio.Low && len(w.data) == 1 && w.data[0] == cmdCOLMOD {
			require.Less(t, i+1, len(port.writes))
			assert.Equal(t, []byte{colmod565}, port.writes[i+1].data)
		}
	}
}

func TestSetWindowAppliesOffsets(t *testing.T) {
	d, port := newTestDev(t, TDisplay, 0)
	require.NoError(t, d.SetWindow(embui.Rect{X1: 0, Y1: 0, X2: 134, Y2: 239}))

	var caset, raset []byte
	for i, w := range port.writes {
		if w.dc == gpio.Low && len(w.data) == 1 {
			switch w.data[0] {
			case cmdCASET:
				caset = port.writes[i+1].data
			case cmdRASET:
				raset = port.writes[i+1].data
			}
		}
	}
	// Big-endian u16 pairs with the T-Display panning offsets applied.
	assert.Equal(t, []byte{0x00, 52, 0x00, 52 + 134}, caset)
	assert.Equal(t, []byte{0x00, 40, byte((40 + 239) >> 8), byte((40 + 239) & 0xff)}, raset)
}

func TestSetWindowSwapsOffsetsInLandscape(t *testing.T) {
	cfg := TDisplay
	cfg.Orientation = Landscape
	d, port := newTestDev(t, cfg, 0)
	require.NoError(t, d.SetWindow(embui.Rect{X1: 0, Y1: 0, X2: 239, Y2: 134}))

	var caset []byte
	for i, w := range port.writes {
		if w.dc == gpio.Low && len(w.data) == 1 && w.data[0] == cmdCASET {
			caset = port.writes[i+1].data
		}
	}
	// Columns use the Y offset once rows and columns are exchanged.
	assert.Equal(t, []byte{0x00, 40, byte((40 + 239) >> 8), byte((40 + 239) & 0xff)}, caset)
}

func TestWritePixelsChunking(t *testing.T) {
	d, port := newTestDev(t, Square240, 8)

	pixels := make([]byte, 20)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	require.NoError(t, d.WritePixels(pixels))

	var got []byte
	for _, w := range port.writes {
		require.LessOrEqual(t, len(w.data), 8)
		assert.Equal(t, gpio.High, w.dc)
		got = append(got, w.data...)
	}
	// Concatenation of the chunks equals the original buffer.
	assert.Equal(t, pixels, got)
}

func TestFlushWindowsThenStreams(t *testing.T) {
	d, port := newTestDev(t, Square240, 0)
	area := embui.Rect{X1: 10, Y1: 20, X2: 11, Y2: 21}
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, d.Flush(area, pixels))

	cmds := port.commands()
	assert.Equal(t, []byte{cmdCASET, cmdRASET, cmdRAMWR}, cmds)
	last := port.writes[len(port.writes)-1]
	assert.Equal(t, pixels, last.data)
	assert.Equal(t, gpio.High, last.dc)
}

func TestFillRectWholePixelChunks(t *testing.T) {
	d, port := newTestDev(t, Square240, 7)
	require.NoError(t, d.FillRect(embui.Rect{X1: 0, Y1: 0, X2: 4, Y2: 1}, 0xF800))

	// Only the writes after RAMWR carry pixel data.
	start := -1
	for i, w := range port.writes {
		if w.dc == gpio.Low && len(w.data) == 1 && w.data[0] == cmdRAMWR {
			start = i + 1
		}
	}
	require.GreaterOrEqual(t, start, 0)

	total := 0
	for _, w := range port.writes[start:] {
		// Every chunk carries whole pixels.
		assert.Zero(t, len(w.data)%2)
		for i := 0; i < len(w.data); i += 2 {
			assert.Equal(t, byte(0xF8), w.data[i])
			assert.Equal(t, byte(0x00), w.data[i+1])
		}
		total += len(w.data)
	}
	assert.Equal(t, 5*2*2, total)
}
