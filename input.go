package embui

import (
	"math"
)

// InputType is the kind of physical input a device delivers.
type InputType uint8

const (
	// InputPointer is a touch screen or mouse delivering coordinates.
	InputPointer InputType = iota
	// InputKeypad is a keyboard delivering key codes.
	InputKeypad
	// InputEncoder is a rotary encoder with a push button.
	InputEncoder
	// InputButton is a set of physical buttons mapped to screen points.
	InputButton
)

// InputState is the pressed/released half of a sample.
type InputState uint8

const (
	InputReleased InputState = iota
	InputPressed
)

// InputSample is the record a read callback fills in. For pointer devices
// X/Y are screen coordinates; for keypads and encoders Key carries the
// code or the rotation delta.
type InputSample struct {
	X, Y  int32
	State InputState
	Key   uint32
}

// ReadFunc is an input read callback. TaskHandler polls each device once
// per step by invoking its callback, which must synchronously fill in the
// current sample before returning. There is no queue: only the latest
// sample at poll time is visible, so events between polls coalesce. That
// is fine for touch but means a full press+release strictly between two
// polls is lost.
type ReadFunc func(d *InputDevice, s *InputSample)

// InputDevice delivers poll-based samples to the runtime.
type InputDevice struct {
	ctx *Context
	typ InputType

	readFn ReadFunc

	// Pointer processing state.
	prev      InputSample
	pressedID NodeID
	pressTick uint32
	longFired bool
}

// NewInputDevice registers an input device of the given kind. It fails
// before Init.
func (c *Context) NewInputDevice(typ InputType) (*InputDevice, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	dev := &InputDevice{ctx: c, typ: typ}
	c.inputs = append(c.inputs, dev)
	return dev, nil
}

// Type returns the device kind.
func (d *InputDevice) Type() InputType {
	return d.typ
}

// SetReadFunc registers the read callback. It stays registered for the
// life of the device.
func (d *InputDevice) SetReadFunc(fn ReadFunc) {
	d.readFn = fn
}

// poll reads one sample and advances pointer state. Non-pointer devices
// currently only record the sample; keypad/encoder dispatch can be built
// on top by reading LastSample.
func (d *InputDevice) poll() {
	if d.readFn == nil {
		return
	}
	var s InputSample
	d.readFn(d, &s)

	if d.typ == InputPointer {
		d.processPointer(s)
	}
	d.prev = s
}

// LastSample returns the sample from the most recent poll.
func (d *InputDevice) LastSample() InputSample {
	return d.prev
}

// processPointer turns sample transitions into object events:
//
//	release->press  Pressed (and Focused on focus change)
//	press->press    Pressing, then LongPressed once after the long-press
//	                time, plus ValueChanged while dragging a value widget
//	press->release  Released, then Clicked when the release lands on the
//	                pressed object
func (d *InputDevice) processPointer(s InputSample) {
	c := d.ctx
	x, y := int(s.X), int(s.Y)

	switch {
	case s.State == InputPressed && d.prev.State == InputReleased:
		id := c.hitTest(x, y)
		d.pressedID = id
		d.pressTick = c.tickMS
		d.longFired = false
		if id != 0 {
			c.focus(id)
			if n, ok := c.nodes[id]; ok {
				n.state |= StatePressed
				c.invalidateNode(n)
			}
			c.dragValue(id, x, y)
			c.fire(id, EventPressed, 0)
		}

	case s.State == InputPressed && d.prev.State == InputPressed:
		if d.pressedID == 0 {
			return
		}
		c.dragValue(d.pressedID, x, y)
		c.fire(d.pressedID, EventPressing, 0)
		if !d.longFired && c.tickMS-d.pressTick >= c.longPressMS {
			d.longFired = true
			c.fire(d.pressedID, EventLongPressed, 0)
		}

	case s.State == InputReleased && d.prev.State == InputPressed:
		if d.pressedID == 0 {
			return
		}
		id := d.pressedID
		d.pressedID = 0
		if n, ok := c.nodes[id]; ok {
			n.state &^= StatePressed
			c.invalidateNode(n)
		}
		c.fire(id, EventReleased, 0)
		if c.hitTest(x, y) == id {
			c.toggleOnClick(id)
			c.matrixClick(id, x, y)
			c.fire(id, EventClicked, 0)
		}
	}
}

// focus moves keyboard/selection focus to id, firing Defocused and
// Focused as needed.
func (c *Context) focus(id NodeID) {
	if c.focused == id {
		return
	}
	if old, ok := c.nodes[c.focused]; ok {
		old.state &^= StateFocused
		c.invalidateNode(old)
		c.fire(c.focused, EventDefocused, 0)
	}
	c.focused = id
	if n, ok := c.nodes[id]; ok {
		n.state |= StateFocused
		c.invalidateNode(n)
		c.fire(id, EventFocused, 0)
	}
}

// hitTest returns the topmost clickable object under the point, walking
// the active screen in paint order so later siblings win.
func (c *Context) hitTest(x, y int) NodeID {
	root, ok := c.nodes[c.active]
	if !ok {
		return 0
	}
	return c.hitNode(root, x, y)
}

func (c *Context) hitNode(n *node, x, y int) NodeID {
	if n.hidden {
		return 0
	}
	if n.state&StateDisabled != 0 {
		return 0
	}
	var hit NodeID
	if n.clickable && c.absRect(n).Contains(x, y) {
		hit = n.id
	}
	for _, childID := range n.children {
		child, ok := c.nodes[childID]
		if !ok {
			continue
		}
		if h := c.hitNode(child, x, y); h != 0 {
			hit = h
		}
	}
	return hit
}

// toggleOnClick flips the checked state of toggle-capable widgets when a
// click completes on them.
func (c *Context) toggleOnClick(id NodeID) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	switch n.kind {
	case KindSwitch, KindCheckbox:
		n.state ^= StateChecked
		c.invalidateNode(n)
		val := int32(0)
		if n.state&StateChecked != 0 {
			val = 1
		}
		c.fire(id, EventValueChanged, val)
	}
}

// matrixClick resolves a click on a button matrix to a cell index and
// fires ValueChanged with it.
func (c *Context) matrixClick(id NodeID, x, y int) {
	n, ok := c.nodes[id]
	if !ok || n.kind != KindButtonMatrix {
		return
	}
	md, ok := n.data.(*matrixData)
	if !ok {
		return
	}
	if i := matrixCellAt(md.cells, c.absRect(n), x, y); i >= 0 {
		c.fire(id, EventValueChanged, int32(i))
	}
}

// dragValue maps a pointer position onto the value of a value-bearing
// widget (slider by horizontal travel, arc by angle) and fires
// ValueChanged when the value moves.
func (c *Context) dragValue(id NodeID, x, y int) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	rd, ok := n.data.(*rangeData)
	if !ok {
		return
	}
	r := c.absRect(n)

	var newVal int32
	switch n.kind {
	case KindSlider:
		if r.W() <= 1 {
			return
		}
		pos := x - r.X1
		if pos < 0 {
			pos = 0
		}
		if pos > r.W()-1 {
			pos = r.W() - 1
		}
		span := int64(rd.max - rd.min)
		newVal = rd.min + int32(span*int64(pos)/int64(r.W()-1))

	case KindArc:
		ad, ok := n.data.(*rangeData)
		if !ok || ad.arc == nil {
			return
		}
		cx := float64(r.X1+r.X2) / 2
		cy := float64(r.Y1+r.Y2) / 2
		deg := math.Atan2(float64(y)-cy, float64(x)-cx) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		sweep := arcSweep(ad.arc.bgStart, ad.arc.bgEnd)
		rel := math.Mod(deg-float64(ad.arc.bgStart)-float64(ad.arc.rotation)+720, 360)
		if rel > float64(sweep) {
			return // outside the background arc
		}
		span := int64(rd.max - rd.min)
		newVal = rd.min + int32(span*int64(rel)/int64(sweep))

	default:
		return
	}

	newVal = clampI32(newVal, rd.min, rd.max)
	if newVal != rd.value {
		rd.value = newVal
		c.invalidateNode(n)
		c.fire(id, EventValueChanged, newVal)
	}
}

// arcSweep returns the clockwise degrees from start to end.
func arcSweep(start, end int32) int32 {
	sweep := (end - start) % 360
	if sweep <= 0 {
		sweep += 360
	}
	return sweep
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
