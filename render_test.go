package embui

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(w, h int) *canvas {
	return &canvas{
		pix:    make([]byte, w*h*2),
		clip:   Rect{X2: w - 1, Y2: h - 1},
		stride: w,
	}
}

func (cv *canvas) pixelAt(x, y int) uint16 {
	off := ((y-cv.clip.Y1)*cv.stride + (x - cv.clip.X1)) * 2
	return binary.BigEndian.Uint16(cv.pix[off:])
}

func TestCanvasPutGet(t *testing.T) {
	cv := newTestCanvas(4, 4)
	cv.put(1, 2, ColorRed)
	assert.Equal(t, ColorRed.RGB565(), cv.pixelAt(1, 2))
	assert.Equal(t, uint16(0), cv.pixelAt(0, 0))

	got := cv.get(1, 2)
	assert.Equal(t, ColorFromRGB565(ColorRed.RGB565()), got)
}

func TestCanvasClipsWrites(t *testing.T) {
	cv := &canvas{
		pix:    make([]byte, 2*2*2),
		clip:   Rect{X1: 10, Y1: 10, X2: 11, Y2: 11},
		stride: 2,
	}
	// Outside the clip: silently dropped.
	cv.put(9, 10, ColorWhite)
	cv.put(12, 11, ColorWhite)
	for _, b := range cv.pix {
		assert.Equal(t, byte(0), b)
	}
	cv.put(10, 10, ColorWhite)
	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(10, 10))
}

func TestCanvasBlend(t *testing.T) {
	cv := newTestCanvas(2, 1)
	cv.put(0, 0, ColorBlack)
	cv.blend(0, 0, ColorWhite, 255) // full opacity overwrites
	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(0, 0))

	cv.put(1, 0, ColorBlack)
	cv.blend(1, 0, ColorWhite, 0) // zero opacity leaves the pixel
	assert.Equal(t, uint16(0x0000), cv.pixelAt(1, 0))
}

func TestFillRoundRectSquareCorners(t *testing.T) {
	cv := newTestCanvas(6, 6)
	cv.fillRoundRect(Rect{X1: 1, Y1: 1, X2: 4, Y2: 4}, 0, ColorWhite, 255)

	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(1, 1))
	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(4, 4))
	assert.Equal(t, uint16(0x0000), cv.pixelAt(0, 0))
	assert.Equal(t, uint16(0x0000), cv.pixelAt(5, 5))
}

func TestFillRoundRectRoundedCornersClipped(t *testing.T) {
	cv := newTestCanvas(8, 8)
	cv.fillRoundRect(Rect{X1: 0, Y1: 0, X2: 7, Y2: 7}, 3, ColorWhite, 255)

	// Extreme corners fall outside the radius; the center is filled.
	assert.Equal(t, uint16(0x0000), cv.pixelAt(0, 0))
	assert.Equal(t, uint16(0x0000), cv.pixelAt(7, 7))
	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(3, 3))
	assert.Equal(t, uint16(0xFFFF), cv.pixelAt(3, 0))
}

func TestClampRadius(t *testing.T) {
	assert.Equal(t, 0, clampRadius(-1, 20, 20))
	assert.Equal(t, 5, clampRadius(5, 20, 20))
	// RadiusCircle and oversized radii clamp to half the short side.
	assert.Equal(t, 10, clampRadius(RadiusCircle, 20, 30))
	assert.Equal(t, 10, clampRadius(1000, 30, 20))
}

func TestTextSize(t *testing.T) {
	w, h := textSize("")
	assert.Equal(t, 0, w)
	assert.Equal(t, fontHeight, h)

	w, h = textSize("abcd")
	assert.Equal(t, 4*fontAdvance, w)
	assert.Equal(t, fontHeight, h)

	w, h = textSize("ab\nlonger")
	assert.Equal(t, 6*fontAdvance, w)
	assert.Equal(t, 2*fontHeight, h)
}

func TestWrapText(t *testing.T) {
	// Prefers breaking at spaces.
	assert.Equal(t, "hello\nworld", wrapText("hello world", 8))
	// Hard-breaks words longer than the line.
	assert.Equal(t, "abcd\nefgh", wrapText("abcdefgh", 4))
	// Fits: unchanged.
	assert.Equal(t, "short", wrapText("short", 10))
}

func TestDotText(t *testing.T) {
	assert.Equal(t, "hello", dotText("hello", 5))
	assert.Equal(t, "he...", dotText("hello there", 5))
	// Too narrow for an ellipsis: left alone.
	assert.Equal(t, "hello", dotText("hello", 3))
}

func TestPaintAreaWithoutActiveScreenClears(t *testing.T) {
	c := newTestContext(t)
	d, err := c.NewDisplay(4, 4)
	require.NoError(t, err)

	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	require.NoError(t, scr.Delete())

	pixels := make([]byte, 4*4*2)
	for i := range pixels {
		pixels[i] = 0xAA
	}
	c.paintArea(d, Rect{X2: 3, Y2: 3}, pixels, 4)
	for _, b := range pixels {
		assert.Equal(t, byte(0), b)
	}
}

func TestPaintAreaFillsScreenBackground(t *testing.T) {
	c := newTestContext(t)
	d, err := c.NewDisplay(4, 4)
	require.NoError(t, err)

	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	scr.SetBgColor(Hex(0x336699))

	pixels := make([]byte, 4*4*2)
	c.paintArea(d, Rect{X2: 3, Y2: 3}, pixels, 4)

	want := Hex(0x336699).RGB565()
	for i := 0; i < len(pixels); i += 2 {
		assert.Equal(t, want, binary.BigEndian.Uint16(pixels[i:]))
	}
}

func TestPaintAreaHiddenChildNotDrawn(t *testing.T) {
	c := newTestContext(t)
	d, err := c.NewDisplay(8, 8)
	require.NoError(t, err)

	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	scr.SetBgColor(ColorBlack)

	panel, err := scr.NewPanel()
	require.NoError(t, err)
	panel.RemoveStyle(nil)
	panel.SetPos(0, 0)
	panel.SetSize(8, 8)
	panel.SetBgColor(ColorWhite)
	panel.SetBgOpa(255)
	panel.SetRadius(0)

	pixels := make([]byte, 8*8*2)
	c.paintArea(d, Rect{X2: 7, Y2: 7}, pixels, 8)
	assert.Equal(t, uint16(0xFFFF), binary.BigEndian.Uint16(pixels[0:]))

	panel.SetHidden(true)
	c.paintArea(d, Rect{X2: 7, Y2: 7}, pixels, 8)
	assert.Equal(t, uint16(0x0000), binary.BigEndian.Uint16(pixels[0:]))
}

func TestMatrixCellAt(t *testing.T) {
	cells := []string{"1", "2", "3", "\n", "4", "5", "6"}
	r := Rect{X1: 0, Y1: 0, X2: 59, Y2: 39}

	assert.Equal(t, 0, matrixCellAt(cells, r, 5, 5))
	assert.Equal(t, 2, matrixCellAt(cells, r, 55, 5))
	assert.Equal(t, 3, matrixCellAt(cells, r, 5, 25))
	assert.Equal(t, 5, matrixCellAt(cells, r, 55, 35))
	assert.Equal(t, -1, matrixCellAt(cells, r, 70, 5))
	assert.Equal(t, -1, matrixCellAt(nil, r, 5, 5))
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(-3, "abc"))
	assert.Equal(t, 2, clampCursor(2, "abc"))
	assert.Equal(t, 3, clampCursor(9, "abc"))
}
