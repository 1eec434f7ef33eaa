package embui

import "fmt"

// RenderMode controls how the renderer uses the display's buffers.
type RenderMode uint8

const (
	// RenderModePartial redraws only dirty regions, band by band, into a
	// small draw buffer.
	RenderModePartial RenderMode = iota
	// RenderModeFull redraws the whole screen whenever anything is dirty.
	RenderModeFull
	// RenderModeDirect treats the primary buffer as the frame buffer: the
	// renderer paints in place and flushes the full frame.
	RenderModeDirect
)

// Rotation is the logical rotation of a display. Rotating by 90 or 270
// degrees swaps the reported resolution; rotating the pixel stream itself
// is the panel driver's job (MADCTL on the SPI panels in drivers/).
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// FlushFunc receives one dirty rectangle and its pixels: tightly packed
// row-major RGB565, 2 bytes per pixel high byte first (the order SPI
// panels consume), len == area.W()*area.H()*2. The
// callback must hand the bytes to the physical medium and call
// d.FlushReady() exactly once when the transfer is complete. A synchronous
// callback calls FlushReady before returning; an asynchronous one may call
// it later, in which case the renderer resumes remaining bands on a
// subsequent TaskHandler step. The pixel slice is only valid until
// FlushReady is called.
type FlushFunc func(d *Display, area Rect, pixels []byte)

// BufSize returns the byte size of a draw buffer covering the given number
// of full-width lines (RGB565, 2 bytes per pixel). For partial rendering a
// buffer of 1/10th the screen height is a reasonable starting point.
func BufSize(width, lines int) int {
	return width * lines * 2
}

// Display bridges the renderer's pixel output to a panel or window. The
// first display created on a context becomes the default one, which hosts
// the screen objects.
type Display struct {
	ctx *Context

	width, height int
	rotation      Rotation

	buf1, buf2 []byte
	useBuf2    bool
	mode       RenderMode

	flushFn FlushFunc

	dirty Rect

	// Flush job state. flushing is the 2-state machine (idle/flushing);
	// jobActive tracks a band job that may span several TaskHandler steps
	// when the callback acknowledges asynchronously.
	flushing  bool
	jobActive bool
	job       Rect
	jobY      int
}

// NewDisplay registers a new display with the given resolution. It fails
// before Init and for non-positive dimensions.
func (c *Context) NewDisplay(width, height int) (*Display, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("embui: display %dx%d: %w", width, height, ErrInvalidParameter)
	}
	d := &Display{
		ctx:    c,
		width:  width,
		height: height,
		dirty:  Rect{X2: width - 1, Y2: height - 1},
	}
	c.displays = append(c.displays, d)
	return d, nil
}

// SetBuffers registers the draw buffers. The caller owns them and must
// keep them valid until the display is destroyed or rebound; the renderer
// never copies them. primary is required and must hold at least one full
// row at any rotation, so the longer axis bounds the minimum; secondary is
// optional and enables double buffering so one band can be transferred
// while the next is painted. In RenderModeDirect the primary buffer must
// hold the full frame.
func (d *Display) SetBuffers(primary, secondary []byte, mode RenderMode) error {
	rowPx := d.width
	if d.height > rowPx {
		rowPx = d.height
	}
	minBytes := BufSize(rowPx, 1)
	if mode == RenderModeDirect {
		minBytes = BufSize(d.width, d.height)
	}
	if len(primary) < minBytes {
		return fmt.Errorf("embui: primary buffer %d bytes, need at least %d: %w",
			len(primary), minBytes, ErrInvalidParameter)
	}
	if secondary != nil && len(secondary) < len(primary) {
		return fmt.Errorf("embui: secondary buffer smaller than primary: %w", ErrInvalidParameter)
	}
	d.buf1 = primary
	d.buf2 = secondary
	d.useBuf2 = false
	d.mode = mode
	return nil
}

// SetFlushFunc registers the flush callback. It stays registered for the
// life of the display.
func (d *Display) SetFlushFunc(fn FlushFunc) {
	d.flushFn = fn
}

// FlushReady acknowledges the current flush. The registered callback must
// call it exactly once per invocation: without it the renderer stalls in
// the flushing state forever; calling it early, while the transfer is
// still on the wire, tears the frame because the buffer is reused
// immediately. Calling it while idle is a no-op.
func (d *Display) FlushReady() {
	d.flushing = false
}

// Flushing reports whether a flush is awaiting acknowledgement.
func (d *Display) Flushing() bool {
	return d.flushing
}

// Resolution returns the logical resolution, accounting for rotation.
func (d *Display) Resolution() (w, h int) {
	if d.rotation == Rotation90 || d.rotation == Rotation270 {
		return d.height, d.width
	}
	return d.width, d.height
}

// SetRotation sets the logical rotation and marks the full screen dirty.
func (d *Display) SetRotation(r Rotation) {
	d.rotation = r
	w, h := d.Resolution()
	d.markDirty(Rect{X2: w - 1, Y2: h - 1})
}

// Rotation returns the current logical rotation.
func (d *Display) Rotation() Rotation {
	return d.rotation
}

// markDirty accumulates a dirty rectangle for the next render step.
func (d *Display) markDirty(r Rect) {
	if r.Empty() {
		return
	}
	d.dirty = d.dirty.Union(r)
}

// render runs the flush protocol for one TaskHandler step. It returns true
// while work is pending (an unacknowledged flush or remaining bands), so
// the scheduler keeps polling at flush rate.
func (d *Display) render() bool {
	if d.flushing {
		// Previous band not yet acknowledged.
		return true
	}
	if !d.jobActive {
		if d.dirty.Empty() {
			return false
		}
		if d.flushFn == nil || len(d.buf1) == 0 {
			// Nowhere to flush; drop the dirty state instead of
			// accumulating it forever.
			d.dirty = Rect{X2: -1, Y2: -1}
			return false
		}
		w, h := d.Resolution()
		area := d.dirty.Intersect(Rect{X2: w - 1, Y2: h - 1})
		d.dirty = Rect{X2: -1, Y2: -1}
		if area.Empty() {
			return false
		}
		if d.mode != RenderModePartial {
			area = Rect{X2: w - 1, Y2: h - 1}
		}
		d.job = area
		d.jobY = area.Y1
		d.jobActive = true
	}

	if d.mode == RenderModeDirect {
		return d.renderDirect()
	}
	return d.renderBands()
}

// renderBands paints and flushes the job rectangle in horizontal bands
// sized to the draw buffer. With a secondary buffer the band buffers
// alternate so an asynchronous transfer can overlap the next paint.
func (d *Display) renderBands() bool {
	rowBytes := d.job.W() * 2
	if rowBytes > len(d.buf1) {
		// A buffer accepted by SetBuffers holds at least one full row at
		// any rotation; narrow the job rather than overrun the buffer.
		d.job.X2 = d.job.X1 + len(d.buf1)/2 - 1
		rowBytes = d.job.W() * 2
	}
	maxLines := len(d.buf1) / rowBytes

	for d.jobY <= d.job.Y2 {
		y2 := d.jobY + maxLines - 1
		if y2 > d.job.Y2 {
			y2 = d.job.Y2
		}
		band := Rect{X1: d.job.X1, Y1: d.jobY, X2: d.job.X2, Y2: y2}

		buf := d.buf1
		if d.buf2 != nil && d.useBuf2 {
			buf = d.buf2
		}
		if d.buf2 != nil {
			d.useBuf2 = !d.useBuf2
		}

		pixels := buf[:band.W()*band.H()*2]
		d.ctx.paintArea(d, band, pixels, band.W())

		d.flushing = true
		d.jobY = y2 + 1
		d.flushFn(d, band, pixels)
		if d.flushing {
			// Asynchronous callback: resume remaining bands once
			// FlushReady arrives.
			return true
		}
	}
	d.jobActive = false
	return false
}

// renderDirect paints the job area in place into the frame buffer and
// flushes the whole frame once.
func (d *Display) renderDirect() bool {
	w, h := d.Resolution()
	full := Rect{X2: w - 1, Y2: h - 1}
	d.ctx.paintArea(d, full, d.buf1, w)

	d.flushing = true
	d.jobActive = false
	d.flushFn(d, full, d.buf1[:w*h*2])
	return d.flushing
}
