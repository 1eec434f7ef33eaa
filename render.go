package embui

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// The renderer paints the active screen's tree into RGB565 bands. It is
// purely software: no display list, no caching beyond the image widget's
// decoded bitmap. Each paintArea call receives one clip rectangle and a
// pixel buffer covering exactly that rectangle (or, for direct mode, the
// whole frame with a wider stride).

const (
	fontAdvance = 7
	fontHeight  = 13
	fontAscent  = 11
)

// textSize measures a (possibly multi-line) string in pixels.
func textSize(s string) (w, h int) {
	lines := strings.Split(s, "\n")
	for _, ln := range lines {
		if lw := utf8.RuneCountInString(ln) * fontAdvance; lw > w {
			w = lw
		}
	}
	return w, len(lines) * fontHeight
}

// canvas wraps one RGB565 band as a draw.Image so font.Drawer can target
// it directly. Coordinates are absolute screen coordinates; pixels
// outside the clip are dropped.
type canvas struct {
	pix    []byte
	clip   Rect
	stride int // pixels per buffer row
}

func (cv *canvas) ColorModel() color.Model { return color.NRGBAModel }

func (cv *canvas) Bounds() image.Rectangle {
	return image.Rect(cv.clip.X1, cv.clip.Y1, cv.clip.X2+1, cv.clip.Y2+1)
}

func (cv *canvas) offset(x, y int) int {
	return ((y-cv.clip.Y1)*cv.stride + (x - cv.clip.X1)) * 2
}

func (cv *canvas) At(x, y int) color.Color {
	if !cv.clip.Contains(x, y) {
		return color.NRGBA{}
	}
	return cv.get(x, y).NRGBA()
}

func (cv *canvas) Set(x, y int, c color.Color) {
	if !cv.clip.Contains(x, y) {
		return
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return
	}
	col := RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	cv.blend(x, y, col, uint8(a>>8))
}

func (cv *canvas) get(x, y int) Color {
	off := cv.offset(x, y)
	v := uint16(cv.pix[off])<<8 | uint16(cv.pix[off+1])
	return ColorFromRGB565(v)
}

func (cv *canvas) put(x, y int, c Color) {
	if !cv.clip.Contains(x, y) {
		return
	}
	off := cv.offset(x, y)
	v := c.RGB565()
	cv.pix[off] = byte(v >> 8)
	cv.pix[off+1] = byte(v)
}

func (cv *canvas) blend(x, y int, c Color, opa uint8) {
	if opa == 0 || !cv.clip.Contains(x, y) {
		return
	}
	if opa == 255 {
		cv.put(x, y, c)
		return
	}
	cv.put(x, y, cv.get(x, y).Blend(c, opa))
}

// paintArea renders the active screen tree into one clip rectangle.
func (c *Context) paintArea(d *Display, area Rect, pixels []byte, stride int) {
	cv := &canvas{pix: pixels, clip: area, stride: stride}
	root, ok := c.nodes[c.active]
	if !ok {
		for i := range pixels {
			pixels[i] = 0
		}
		return
	}
	c.paintNode(cv, root)
}

func (c *Context) paintNode(cv *canvas, n *node) {
	if n.hidden {
		return
	}
	r := c.absRect(n)
	if !r.Intersect(cv.clip).Empty() {
		c.drawWidget(cv, n, r)
	}
	for _, childID := range n.children {
		if child, ok := c.nodes[childID]; ok {
			c.paintNode(cv, child)
		}
	}
}

func (c *Context) drawWidget(cv *canvas, n *node, r Rect) {
	switch n.kind {
	case KindLabel:
		c.drawBackground(cv, n, r, PartMain)
		c.drawLabel(cv, n, r)
	case KindCheckbox:
		c.drawCheckbox(cv, n, r)
	case KindBar, KindSlider:
		c.drawBar(cv, n, r)
	case KindSwitch:
		c.drawSwitch(cv, n, r)
	case KindArc:
		c.drawArc(cv, n, r)
	case KindSpinner:
		c.drawSpinner(cv, n, r)
	case KindLED:
		c.drawLED(cv, n, r)
	case KindChart:
		c.drawChart(cv, n, r)
	case KindDropdown, KindSpinbox:
		c.drawField(cv, n, r)
	case KindRoller:
		c.drawRoller(cv, n, r)
	case KindTextarea:
		c.drawTextarea(cv, n, r)
	case KindImage:
		c.drawImage(cv, n, r)
	case KindLine:
		c.drawLine(cv, n, r)
	case KindButtonMatrix:
		c.drawMatrix(cv, n, r)
	default:
		// screen, panel, button, tabview, list, messagebox: plain box.
		c.drawBackground(cv, n, r, PartMain)
	}
}

// --- primitives ---

func clampRadius(radius, w, h int) int {
	max := w
	if h < w {
		max = h
	}
	max /= 2
	if radius > max {
		return max
	}
	if radius < 0 {
		return 0
	}
	return radius
}

// inRoundRect reports whether the pixel lies inside the rounded
// rectangle.
func inRoundRect(r Rect, radius, x, y int) bool {
	if !r.Contains(x, y) {
		return false
	}
	if radius <= 0 {
		return true
	}
	cx, cy := 0, 0
	switch {
	case x < r.X1+radius && y < r.Y1+radius:
		cx, cy = r.X1+radius, r.Y1+radius
	case x > r.X2-radius && y < r.Y1+radius:
		cx, cy = r.X2-radius, r.Y1+radius
	case x < r.X1+radius && y > r.Y2-radius:
		cx, cy = r.X1+radius, r.Y2-radius
	case x > r.X2-radius && y > r.Y2-radius:
		cx, cy = r.X2-radius, r.Y2-radius
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

func (cv *canvas) fillRoundRect(r Rect, radius int, c Color, opa uint8) {
	if opa == 0 {
		return
	}
	radius = clampRadius(radius, r.W(), r.H())
	vis := r.Intersect(cv.clip)
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			if inRoundRect(r, radius, x, y) {
				cv.blend(x, y, c, opa)
			}
		}
	}
}

func (cv *canvas) fillGradRect(r Rect, radius int, from, to Color, dir GradDir, opa uint8) {
	if dir == GradDirNone {
		cv.fillRoundRect(r, radius, from, opa)
		return
	}
	radius = clampRadius(radius, r.W(), r.H())
	vis := r.Intersect(cv.clip)
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			if !inRoundRect(r, radius, x, y) {
				continue
			}
			var ratio int
			if dir == GradDirVer && r.H() > 1 {
				ratio = (y - r.Y1) * 255 / (r.H() - 1)
			} else if dir == GradDirHor && r.W() > 1 {
				ratio = (x - r.X1) * 255 / (r.W() - 1)
			}
			cv.blend(x, y, from.Blend(to, uint8(ratio)), opa)
		}
	}
}

func (cv *canvas) strokeRoundRect(r Rect, radius, width int, c Color, opa uint8, side BorderSide) {
	if opa == 0 || width <= 0 {
		return
	}
	radius = clampRadius(radius, r.W(), r.H())
	inner := Rect{X1: r.X1 + width, Y1: r.Y1 + width, X2: r.X2 - width, Y2: r.Y2 - width}
	innerRadius := radius - width
	vis := r.Intersect(cv.clip)
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			if !inRoundRect(r, radius, x, y) {
				continue
			}
			if !inner.Empty() && inRoundRect(inner, innerRadius, x, y) {
				continue
			}
			if side != BorderSideFull {
				onSide := (side&BorderSideTop != 0 && y < r.Y1+width) ||
					(side&BorderSideBottom != 0 && y > r.Y2-width) ||
					(side&BorderSideLeft != 0 && x < r.X1+width) ||
					(side&BorderSideRight != 0 && x > r.X2-width)
				if !onSide {
					continue
				}
			}
			cv.blend(x, y, c, opa)
		}
	}
}

func (cv *canvas) fillCircle(cx, cy, radius int, c Color, opa uint8) {
	if opa == 0 || radius <= 0 {
		return
	}
	r := Rect{X1: cx - radius, Y1: cy - radius, X2: cx + radius, Y2: cy + radius}
	vis := r.Intersect(cv.clip)
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				cv.blend(x, y, c, opa)
			}
		}
	}
}

// drawRing fills the part of the ring [innerR, outerR] around (cx, cy)
// whose angle lies within sweep degrees clockwise from start (0 degrees
// at 3 o'clock, y axis pointing down).
func (cv *canvas) drawRing(cx, cy, innerR, outerR int, start, sweep int32, c Color, opa uint8) {
	if opa == 0 || outerR <= 0 || sweep <= 0 {
		return
	}
	r := Rect{X1: cx - outerR, Y1: cy - outerR, X2: cx + outerR, Y2: cy + outerR}
	vis := r.Intersect(cv.clip)
	in2, out2 := innerR*innerR, outerR*outerR
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			if d2 < in2 || d2 > out2 {
				continue
			}
			if sweep < 360 {
				ang := int32(math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi)
				if ((ang-start)%360+360)%360 > sweep {
					continue
				}
			}
			cv.blend(x, y, c, opa)
		}
	}
}

func (cv *canvas) drawThickLine(x1, y1, x2, y2, width int, c Color, opa uint8) {
	dx, dy := x2-x1, y2-y1
	steps := dx
	if steps < 0 {
		steps = -steps
	}
	if dy > steps {
		steps = dy
	}
	if -dy > steps {
		steps = -dy
	}
	if steps == 0 {
		steps = 1
	}
	half := width / 2
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		if width <= 1 {
			cv.blend(x, y, c, opa)
		} else {
			cv.fillCircle(x, y, half, c, opa)
		}
	}
}

// drawText renders (possibly multi-line) text with its top-left at x, y.
func (cv *canvas) drawText(x, y int, s string, c Color, opa uint8) {
	if opa == 0 || s == "" {
		return
	}
	col := c.NRGBA()
	col.A = opa
	d := &font.Drawer{
		Dst:  cv,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	for i, ln := range strings.Split(s, "\n") {
		d.Dot = fixed.P(x, y+fontAscent+i*fontHeight)
		d.DrawString(ln)
	}
}

// --- style resolution helpers ---

func (c *Context) partOpa(n *node, part Part) uint8 {
	whole := c.styleInt(n, propOpa, PartMain, 255)
	return uint8(clampI32(whole, 0, 255))
}

func scaleOpa(a, b uint8) uint8 {
	return uint8(int(a) * int(b) / 255)
}

// drawBackground paints shadow, background (optionally a gradient),
// border and outline for one part of a widget.
func (c *Context) drawBackground(cv *canvas, n *node, r Rect, part Part) {
	whole := c.partOpa(n, part)
	if whole == 0 {
		return
	}
	radius := int(c.styleInt(n, propRadius, part, 0))

	if sw := int(c.styleInt(n, propShadowWidth, part, 0)); sw > 0 {
		sOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propShadowOpa, part, 128), 0, 255)), whole)
		sp := int(c.styleInt(n, propShadowSpread, part, 0))
		sr := Rect{
			X1: r.X1 - sp + int(c.styleInt(n, propShadowOfsX, part, 0)),
			Y1: r.Y1 - sp + int(c.styleInt(n, propShadowOfsY, part, 0)),
			X2: r.X2 + sp + int(c.styleInt(n, propShadowOfsX, part, 0)),
			Y2: r.Y2 + sp + int(c.styleInt(n, propShadowOfsY, part, 0)),
		}
		cv.fillRoundRect(sr, radius+sp, c.styleColor(n, propShadowColor, part, ColorBlack), sOpa/2)
	}

	bgOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, part, 0), 0, 255)), whole)
	if bgOpa > 0 {
		bg := c.styleColor(n, propBgColor, part, ColorBlack)
		dir := GradDir(c.styleInt(n, propBgGradDir, part, int32(GradDirNone)))
		if dir != GradDirNone {
			grad := c.styleColor(n, propBgGradColor, part, bg)
			cv.fillGradRect(r, radius, bg, grad, dir, bgOpa)
		} else {
			cv.fillRoundRect(r, radius, bg, bgOpa)
		}
	}

	if bw := int(c.styleInt(n, propBorderWidth, part, 0)); bw > 0 {
		bOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBorderOpa, part, 255), 0, 255)), whole)
		side := BorderSide(c.styleInt(n, propBorderSide, part, int32(BorderSideFull)))
		cv.strokeRoundRect(r, radius, bw, c.styleColor(n, propBorderColor, part, ColorGray), bOpa, side)
	}

	if ow := int(c.styleInt(n, propOutlineWidth, part, 0)); ow > 0 {
		pad := int(c.styleInt(n, propOutlinePad, part, 0))
		oOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propOutlineOpa, part, 255), 0, 255)), whole)
		or := Rect{X1: r.X1 - pad - ow, Y1: r.Y1 - pad - ow, X2: r.X2 + pad + ow, Y2: r.Y2 + pad + ow}
		cv.strokeRoundRect(or, radius+pad+ow, ow, c.styleColor(n, propOutlineColor, part, ColorGray), oOpa, BorderSideFull)
	}
}

func (c *Context) textColorOpa(n *node, part Part) (Color, uint8) {
	col := c.styleColor(n, propTextColor, part, ColorWhite)
	opa := scaleOpa(uint8(clampI32(c.styleInt(n, propTextOpa, part, 255), 0, 255)), c.partOpa(n, part))
	return col, opa
}

func (c *Context) contentRect(n *node, r Rect) Rect {
	return Rect{
		X1: r.X1 + int(c.styleInt(n, propPadLeft, PartMain, 0)),
		Y1: r.Y1 + int(c.styleInt(n, propPadTop, PartMain, 0)),
		X2: r.X2 - int(c.styleInt(n, propPadRight, PartMain, 0)),
		Y2: r.Y2 - int(c.styleInt(n, propPadBottom, PartMain, 0)),
	}
}

// --- widgets ---

func (c *Context) drawLabel(cv *canvas, n *node, r Rect) {
	td, ok := n.data.(*textData)
	if !ok {
		return
	}
	col, opa := c.textColorOpa(n, PartMain)
	content := c.contentRect(n, r)
	text := td.text

	switch td.longMode {
	case LongModeWrap:
		text = wrapText(text, content.W()/fontAdvance)
	case LongModeDot:
		text = dotText(text, content.W()/fontAdvance)
	}

	tw, th := textSize(text)
	x, y := content.X1, content.Y1
	switch TextAlign(c.styleInt(n, propTextAlign, PartMain, int32(TextAlignAuto))) {
	case TextAlignCenter:
		x = content.X1 + (content.W()-tw)/2
	case TextAlignRight:
		x = content.X2 - tw + 1
	}
	if th < content.H() {
		y = content.Y1 + (content.H()-th)/2
	}
	cv.drawText(x, y, text, col, opa)
}

// wrapText hard-wraps at cols runes per line, preferring space breaks.
func wrapText(s string, cols int) string {
	if cols < 1 {
		return s
	}
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		for utf8.RuneCountInString(ln) > cols {
			runes := []rune(ln)
			cut := cols
			for i := cols; i > 0; i-- {
				if runes[i-1] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, strings.TrimRight(string(runes[:cut]), " "))
			ln = strings.TrimLeft(string(runes[cut:]), " ")
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}

// dotText truncates to cols runes with a trailing ellipsis.
func dotText(s string, cols int) string {
	if cols < 4 || utf8.RuneCountInString(s) <= cols {
		return s
	}
	runes := []rune(s)
	return string(runes[:cols-3]) + "..."
}

func (c *Context) drawCheckbox(cv *canvas, n *node, r Rect) {
	box := r.H() - 4
	if box < 8 {
		box = 8
	}
	br := Rect{X1: r.X1, Y1: r.Y1 + (r.H()-box)/2, X2: r.X1 + box - 1, Y2: r.Y1 + (r.H()-box)/2 + box - 1}
	c.drawBackground(cv, n, br, PartIndicator)
	if n.state&StateChecked != 0 {
		tick, opa := c.textColorOpa(n, PartIndicator)
		cv.drawThickLine(br.X1+box/5, br.Y1+box/2, br.X1+box*2/5, br.Y2-box/4, 2, tick, opa)
		cv.drawThickLine(br.X1+box*2/5, br.Y2-box/4, br.X2-box/6, br.Y1+box/4, 2, tick, opa)
	}
	if td, ok := n.data.(*textData); ok && td.text != "" {
		col, opa := c.textColorOpa(n, PartMain)
		_, th := textSize(td.text)
		cv.drawText(br.X2+6, r.Y1+(r.H()-th)/2, td.text, col, opa)
	}
}

func (c *Context) drawBar(cv *canvas, n *node, r Rect) {
	rd, ok := n.data.(*rangeData)
	if !ok {
		return
	}
	c.drawBackground(cv, n, r, PartMain)

	span := rd.max - rd.min
	if span <= 0 {
		return
	}
	frac := int(rd.value-rd.min) * 1000 / int(span)
	radius := int(c.styleInt(n, propRadius, PartIndicator, int32(RadiusCircle)))
	ic := c.styleColor(n, propBgColor, PartIndicator, ColorBlue)
	iOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartIndicator, 255), 0, 255)), c.partOpa(n, PartMain))

	var ind Rect
	var kx, ky int
	if r.H() > r.W() {
		// Vertical: fills bottom-up.
		fh := r.H() * frac / 1000
		ind = Rect{X1: r.X1, Y1: r.Y2 - fh + 1, X2: r.X2, Y2: r.Y2}
		kx, ky = r.X1+r.W()/2, ind.Y1
	} else {
		fw := r.W() * frac / 1000
		ind = Rect{X1: r.X1, Y1: r.Y1, X2: r.X1 + fw - 1, Y2: r.Y2}
		kx, ky = ind.X2, r.Y1+r.H()/2
	}
	if !ind.Empty() && frac > 0 {
		cv.fillRoundRect(ind, radius, ic, iOpa)
	}

	if n.kind == KindSlider {
		pad := int(c.styleInt(n, propPadTop, PartKnob, 4))
		kr := r.H()/2 + pad
		if r.H() > r.W() {
			kr = r.W()/2 + pad
		}
		kc := c.styleColor(n, propBgColor, PartKnob, ColorWhite)
		kOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartKnob, 255), 0, 255)), c.partOpa(n, PartMain))
		cv.fillCircle(kx, ky, kr, kc, kOpa)
	}
}

func (c *Context) drawSwitch(cv *canvas, n *node, r Rect) {
	c.drawBackground(cv, n, r, PartMain)
	d := r.H() - 4
	if d < 4 {
		d = 4
	}
	x := r.X1 + 2 + d/2
	if n.state&StateChecked != 0 {
		x = r.X2 - 2 - d/2
	}
	kc := c.styleColor(n, propBgColor, PartKnob, ColorWhite)
	kOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartKnob, 255), 0, 255)), c.partOpa(n, PartMain))
	cv.fillCircle(x, r.Y1+r.H()/2, d/2, kc, kOpa)
}

func (c *Context) arcGeometry(n *node, r Rect) (cx, cy, outer, width int) {
	outer = r.W() / 2
	if r.H() < r.W() {
		outer = r.H() / 2
	}
	def := outer / 5
	if def < 4 {
		def = 4
	}
	width = int(c.styleInt(n, propArcWidth, PartMain, int32(def)))
	return r.X1 + r.W()/2, r.Y1 + r.H()/2, outer, width
}

func (c *Context) drawArc(cv *canvas, n *node, r Rect) {
	rd, ok := n.data.(*rangeData)
	if !ok || rd.arc == nil {
		return
	}
	ad := rd.arc
	cx, cy, outer, width := c.arcGeometry(n, r)
	whole := c.partOpa(n, PartMain)

	bgStart := ad.bgStart + ad.rotation
	sweep := arcSweep(ad.bgStart, ad.bgEnd)
	track := c.styleColor(n, propBgColor, PartMain, ColorGray)
	tOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartMain, 255), 0, 255)), whole)
	cv.drawRing(cx, cy, outer-width, outer, bgStart, sweep, track, tOpa)

	span := rd.max - rd.min
	if span <= 0 {
		return
	}
	angleOf := func(v int32) int32 {
		return bgStart + sweep*(clampI32(v, rd.min, rd.max)-rd.min)/span
	}

	var iStart, iSweep int32
	switch ad.mode {
	case ArcModeReverse:
		iStart = angleOf(rd.value)
		iSweep = bgStart + sweep - iStart
	case ArcModeSymmetrical:
		mid := (rd.min + rd.max) / 2
		if rd.value >= mid {
			iStart = angleOf(mid)
			iSweep = angleOf(rd.value) - iStart
		} else {
			iStart = angleOf(rd.value)
			iSweep = angleOf(mid) - iStart
		}
	default:
		iStart = angleOf(rd.startValue)
		iSweep = angleOf(rd.value) - iStart
	}
	ic := c.styleColor(n, propBgColor, PartIndicator, ColorBlue)
	iOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartIndicator, 255), 0, 255)), whole)
	cv.drawRing(cx, cy, outer-width, outer, iStart, iSweep, ic, iOpa)

	// Knob at the free end of the indicator.
	end := float64(iStart+iSweep) * math.Pi / 180
	mr := float64(outer) - float64(width)/2
	kx := cx + int(mr*math.Cos(end))
	ky := cy + int(mr*math.Sin(end))
	pad := int(c.styleInt(n, propPadTop, PartKnob, 2))
	kc := c.styleColor(n, propBgColor, PartKnob, ColorWhite)
	kOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartKnob, 255), 0, 255)), whole)
	cv.fillCircle(kx, ky, width/2+pad, kc, kOpa)
}

func (c *Context) drawSpinner(cv *canvas, n *node, r Rect) {
	sd, ok := n.data.(*spinnerData)
	if !ok {
		return
	}
	cx, cy, outer, width := c.arcGeometry(n, r)
	whole := c.partOpa(n, PartMain)

	track := c.styleColor(n, propBgColor, PartMain, ColorGray)
	tOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartMain, 255), 0, 255)), whole)
	cv.drawRing(cx, cy, outer-width, outer, 0, 360, track, tOpa)

	phase := int32(uint64(c.tickMS%sd.periodMS) * 360 / uint64(sd.periodMS))
	ic := c.styleColor(n, propBgColor, PartIndicator, ColorBlue)
	iOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartIndicator, 255), 0, 255)), whole)
	cv.drawRing(cx, cy, outer-width, outer, phase, sd.arcLen, ic, iOpa)
}

func (c *Context) drawLED(cv *canvas, n *node, r Rect) {
	ld, ok := n.data.(*ledData)
	if !ok {
		return
	}
	cx, cy := r.X1+r.W()/2, r.Y1+r.H()/2
	radius := r.W() / 2
	if r.H() < r.W() {
		radius = r.H() / 2
	}
	whole := c.partOpa(n, PartMain)
	col := ld.color
	if !ld.on {
		col = col.Blend(ColorBlack, 200)
	} else if ld.brightness < 255 {
		col = col.Blend(ColorBlack, 255-ld.brightness)
	}
	if ld.on {
		cv.fillCircle(cx, cy, radius, col, scaleOpa(70, whole))
	}
	cv.fillCircle(cx, cy, radius-2, col, whole)
}

func (c *Context) drawChart(cv *canvas, n *node, r Rect) {
	cd, ok := n.data.(*chartData)
	if !ok {
		return
	}
	c.drawBackground(cv, n, r, PartMain)
	content := c.contentRect(n, r)
	if content.Empty() {
		return
	}
	whole := c.partOpa(n, PartMain)
	div := c.styleColor(n, propBorderColor, PartMain, ColorGray)
	for i := 1; i <= cd.hDiv; i++ {
		y := content.Y1 + content.H()*i/(cd.hDiv+1)
		cv.drawThickLine(content.X1, y, content.X2, y, 1, div, scaleOpa(128, whole))
	}
	for i := 1; i <= cd.vDiv; i++ {
		x := content.X1 + content.W()*i/(cd.vDiv+1)
		cv.drawThickLine(x, content.Y1, x, content.Y2, 1, div, scaleOpa(128, whole))
	}

	span := cd.max - cd.min
	if span <= 0 || cd.pointCount < 1 {
		return
	}
	yOf := func(v int32) int {
		v = clampI32(v, cd.min, cd.max)
		return content.Y2 - int(v-cd.min)*(content.H()-1)/int(span)
	}
	for si, s := range cd.series {
		count := len(s.points)
		if count == 0 {
			continue
		}
		switch cd.typ {
		case ChartTypeBar:
			slot := content.W() / count
			bw := slot / (len(cd.series) + 1)
			if bw < 1 {
				bw = 1
			}
			for i := 0; i < count; i++ {
				v := s.points[(s.next+i)%count]
				x := content.X1 + slot*i + bw*si
				bar := Rect{X1: x, Y1: yOf(v), X2: x + bw - 1, Y2: content.Y2}
				if !bar.Empty() {
					cv.fillRoundRect(bar, 0, s.color, whole)
				}
			}
		default:
			step := 0
			if count > 1 {
				step = (content.W() - 1) / (count - 1)
			}
			px, py := content.X1, yOf(s.points[s.next%count])
			for i := 1; i < count; i++ {
				v := s.points[(s.next+i)%count]
				x := content.X1 + step*i
				y := yOf(v)
				cv.drawThickLine(px, py, x, y, 2, s.color, whole)
				px, py = x, y
			}
		}
	}
}

func (c *Context) drawField(cv *canvas, n *node, r Rect) {
	c.drawBackground(cv, n, r, PartMain)
	col, opa := c.textColorOpa(n, PartMain)
	content := c.contentRect(n, r)

	var text string
	switch data := n.data.(type) {
	case *selectData:
		if data.selected < len(data.options) {
			text = data.options[data.selected]
		}
		// Drop arrow.
		cv.drawText(content.X2-fontAdvance, content.Y1+(content.H()-fontHeight)/2, "v", col, opa)
	case *rangeData:
		text = strconv.FormatInt(int64(data.value), 10)
	}
	text = dotText(text, content.W()/fontAdvance)
	cv.drawText(content.X1, content.Y1+(content.H()-fontHeight)/2, text, col, opa)
}

func (c *Context) drawRoller(cv *canvas, n *node, r Rect) {
	sd, ok := n.data.(*selectData)
	if !ok {
		return
	}
	c.drawBackground(cv, n, r, PartMain)
	col, opa := c.textColorOpa(n, PartMain)
	content := c.contentRect(n, r)

	rows := sd.visibleRows
	if rows < 1 {
		rows = 3
	}
	rowH := content.H() / rows
	if rowH < fontHeight {
		rowH = fontHeight
	}
	midRow := rows / 2

	selBg := c.styleColor(n, propBgColor, PartSelected, ColorBlue)
	selOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartSelected, 255), 0, 255)), c.partOpa(n, PartMain))
	selRect := Rect{X1: content.X1, Y1: content.Y1 + midRow*rowH, X2: content.X2, Y2: content.Y1 + (midRow+1)*rowH - 1}
	cv.fillRoundRect(selRect, 0, selBg, selOpa)

	for row := 0; row < rows; row++ {
		idx := sd.selected + row - midRow
		if idx < 0 || idx >= len(sd.options) {
			continue
		}
		tcol := col
		tOpa := opa
		if row == midRow {
			tcol, tOpa = c.textColorOpa(n, PartSelected)
		}
		text := dotText(sd.options[idx], content.W()/fontAdvance)
		tw, _ := textSize(text)
		y := content.Y1 + row*rowH + (rowH-fontHeight)/2
		cv.drawText(content.X1+(content.W()-tw)/2, y, text, tcol, tOpa)
	}
}

func (c *Context) drawTextarea(cv *canvas, n *node, r Rect) {
	td, ok := n.data.(*textData)
	if !ok {
		return
	}
	c.drawBackground(cv, n, r, PartMain)
	content := c.contentRect(n, r)

	text := td.text
	col, opa := c.textColorOpa(n, PartMain)
	if text == "" && td.placeholder != "" {
		cv.drawText(content.X1, content.Y1, td.placeholder, col, opa/2)
	} else {
		shown := text
		if !td.oneLine {
			shown = wrapText(text, content.W()/fontAdvance)
		}
		cv.drawText(content.X1, content.Y1, shown, col, opa)
	}

	// Blinking cursor while focused.
	if n.state&StateFocused != 0 && (c.tickMS/500)%2 == 0 {
		line := strings.Count(text[:clampCursor(td.cursor, text)], "\n")
		lastNL := strings.LastIndexByte(text[:clampCursor(td.cursor, text)], '\n')
		colRunes := utf8.RuneCountInString(text[lastNL+1 : clampCursor(td.cursor, text)])
		cx := content.X1 + colRunes*fontAdvance
		cy := content.Y1 + line*fontHeight
		cur := c.styleColor(n, propBgColor, PartCursor, col)
		cv.drawThickLine(cx, cy, cx, cy+fontHeight-1, 1, cur, opa)
	}
}

func clampCursor(cur int, s string) int {
	if cur < 0 {
		return 0
	}
	if cur > len(s) {
		return len(s)
	}
	return cur
}

func (c *Context) drawImage(cv *canvas, n *node, r Rect) {
	d, ok := n.data.(*imageData)
	if !ok || d.src == nil {
		return
	}
	if d.cache == nil || d.stale {
		img := imaging.Clone(d.src)
		if d.zoom != 256 && d.zoom > 0 {
			b := d.src.Bounds()
			w := b.Dx() * d.zoom / 256
			h := b.Dy() * d.zoom / 256
			if w > 0 && h > 0 {
				img = imaging.Resize(img, w, h, imaging.Linear)
			}
		}
		if d.angle%360 != 0 {
			img = imaging.Rotate(img, float64(-d.angle), color.Transparent)
		}
		d.cache = img
		d.stale = false
	}

	b := d.cache.Bounds()
	ox := r.X1 + (r.W()-b.Dx())/2
	oy := r.Y1 + (r.H()-b.Dy())/2
	vis := Rect{X1: ox, Y1: oy, X2: ox + b.Dx() - 1, Y2: oy + b.Dy() - 1}.Intersect(cv.clip)
	for y := vis.Y1; y <= vis.Y2; y++ {
		for x := vis.X1; x <= vis.X2; x++ {
			px := d.cache.NRGBAAt(b.Min.X+x-ox, b.Min.Y+y-oy)
			if px.A == 0 {
				continue
			}
			cv.blend(x, y, RGB(px.R, px.G, px.B), px.A)
		}
	}
}

func (c *Context) drawLine(cv *canvas, n *node, r Rect) {
	ld, ok := n.data.(*lineData)
	if !ok || len(ld.points) < 2 {
		return
	}
	width := int(c.styleInt(n, propLineWidth, PartMain, 2))
	col := c.styleColor(n, propBorderColor, PartMain, ColorWhite)
	opa := c.partOpa(n, PartMain)
	for i := 1; i < len(ld.points); i++ {
		p0, p1 := ld.points[i-1], ld.points[i]
		cv.drawThickLine(r.X1+p0.X, r.Y1+p0.Y, r.X1+p1.X, r.Y1+p1.Y, width, col, opa)
	}
}

// matrixRows splits a button-matrix map into rows at "\n" entries.
func matrixRows(cells []string) [][]string {
	var rows [][]string
	var row []string
	for _, cell := range cells {
		if cell == "\n" {
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
			continue
		}
		row = append(row, cell)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// matrixCellAt maps an absolute point onto a cell index, or -1.
func matrixCellAt(cells []string, r Rect, x, y int) int {
	rows := matrixRows(cells)
	if len(rows) == 0 || !r.Contains(x, y) {
		return -1
	}
	rowH := r.H() / len(rows)
	if rowH < 1 {
		return -1
	}
	row := (y - r.Y1) / rowH
	if row >= len(rows) {
		row = len(rows) - 1
	}
	cellW := r.W() / len(rows[row])
	if cellW < 1 {
		return -1
	}
	col := (x - r.X1) / cellW
	if col >= len(rows[row]) {
		col = len(rows[row]) - 1
	}
	idx := col
	for i := 0; i < row; i++ {
		idx += len(rows[i])
	}
	return idx
}

func (c *Context) drawMatrix(cv *canvas, n *node, r Rect) {
	md, ok := n.data.(*matrixData)
	if !ok {
		return
	}
	rows := matrixRows(md.cells)
	if len(rows) == 0 {
		c.drawBackground(cv, n, r, PartMain)
		return
	}
	whole := c.partOpa(n, PartMain)
	bg := c.styleColor(n, propBgColor, PartMain, ColorBlue)
	bgOpa := scaleOpa(uint8(clampI32(c.styleInt(n, propBgOpa, PartMain, 255), 0, 255)), whole)
	radius := int(c.styleInt(n, propRadius, PartMain, 4))
	col, tOpa := c.textColorOpa(n, PartMain)

	const gap = 2
	rowH := r.H() / len(rows)
	for ri, row := range rows {
		cellW := r.W() / len(row)
		for ci := range row {
			cell := Rect{
				X1: r.X1 + ci*cellW + gap,
				Y1: r.Y1 + ri*rowH + gap,
				X2: r.X1 + (ci+1)*cellW - 1 - gap,
				Y2: r.Y1 + (ri+1)*rowH - 1 - gap,
			}
			cv.fillRoundRect(cell, radius, bg, bgOpa)
			text := dotText(row[ci], cell.W()/fontAdvance)
			tw, _ := textSize(text)
			cv.drawText(cell.X1+(cell.W()-tw)/2, cell.Y1+(cell.H()-fontHeight)/2, text, col, tOpa)
		}
	}
}

var _ draw.Image = (*canvas)(nil)
