package embui

import "image/color"

// Color is a 24-bit RGB color. The renderer packs it to RGB565 at paint
// time, so two colors that collapse to the same 16-bit value are
// indistinguishable on screen.
type Color struct {
	R, G, B uint8
}

// RGB constructs a color from 8-bit channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex constructs a color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Hex3 constructs a color from a 0xRGB value, expanding each nibble
// (0xF08 becomes 0xFF0088).
func Hex3(v uint16) Color {
	r := uint8(v>>8) & 0x0F
	g := uint8(v>>4) & 0x0F
	b := uint8(v) & 0x0F
	return Color{
		R: r<<4 | r,
		G: g<<4 | g,
		B: b<<4 | b,
	}
}

// RGB565 packs the color into the wire format used by the flush protocol:
// 5 bits red, 6 bits green, 5 bits blue.
func (c Color) RGB565() uint16 {
	return (uint16(c.R)&0xF8)<<8 | (uint16(c.G)&0xFC)<<3 | uint16(c.B)>>3
}

// ColorFromRGB565 unpacks a 16-bit RGB565 value, replicating the high bits
// into the low bits so full-scale channels round-trip to 0xFF.
func ColorFromRGB565(v uint16) Color {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return Color{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
	}
}

// NRGBA returns the color as an image/color value with full alpha.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Blend mixes c toward other by ratio/255.
func (c Color) Blend(other Color, ratio uint8) Color {
	mix := func(a, b uint8) uint8 {
		return uint8((int(a)*(255-int(ratio)) + int(b)*int(ratio)) / 255)
	}
	return Color{
		R: mix(c.R, other.R),
		G: mix(c.G, other.G),
		B: mix(c.B, other.B),
	}
}

// Common palette values.
var (
	ColorBlack   = Hex(0x000000)
	ColorWhite   = Hex(0xFFFFFF)
	ColorRed     = Hex(0xFF0000)
	ColorGreen   = Hex(0x00FF00)
	ColorBlue    = Hex(0x0000FF)
	ColorYellow  = Hex(0xFFFF00)
	ColorCyan    = Hex(0x00FFFF)
	ColorMagenta = Hex(0xFF00FF)
	ColorOrange  = Hex(0xFFA500)
	ColorGray    = Hex(0x808080)
)

// Rect is an inclusive pixel rectangle: both corners are inside the area,
// so a single pixel is {X1: x, Y1: y, X2: x, Y2: y}.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// W returns the rectangle width in pixels.
func (r Rect) W() int { return r.X2 - r.X1 + 1 }

// H returns the rectangle height in pixels.
func (r Rect) H() int { return r.Y2 - r.Y1 + 1 }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.X2 < r.X1 || r.Y2 < r.Y1 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Intersect clips r against other. The result may be empty.
func (r Rect) Intersect(other Rect) Rect {
	out := r
	if other.X1 > out.X1 {
		out.X1 = other.X1
	}
	if other.Y1 > out.Y1 {
		out.Y1 = other.Y1
	}
	if other.X2 < out.X2 {
		out.X2 = other.X2
	}
	if other.Y2 < out.Y2 {
		out.Y2 = other.Y2
	}
	return out
}

// Union expands r to also cover other. An empty side is replaced by the
// other rectangle.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	out := r
	if other.X1 < out.X1 {
		out.X1 = other.X1
	}
	if other.Y1 < out.Y1 {
		out.Y1 = other.Y1
	}
	if other.X2 > out.X2 {
		out.X2 = other.X2
	}
	if other.Y2 > out.Y2 {
		out.Y2 = other.Y2
	}
	return out
}
