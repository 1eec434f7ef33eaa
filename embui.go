// Package embui is a small embedded-UI runtime: an object tree with styles
// and events, a software renderer producing RGB565 pixel bands, a display
// flush protocol and a poll-based input protocol. It targets memory-mapped
// panels driven over SPI/I2C (see drivers/) and a terminal simulator (see
// sim/), but the core has no hardware dependency.
//
// The runtime is strictly single-threaded: every method on Context and on
// handles derived from it must be called from the same goroutine. The
// application loop is the only scheduler; it advances the clock with
// TickInc, runs one cooperative step with TaskHandler and sleeps until the
// recommended next call.
package embui

import (
	"errors"
	"fmt"
)

// Sentinel errors for the runtime's failure taxonomy.
var (
	ErrNotInitialized     = errors.New("embui: not initialized")
	ErrAlreadyInitialized = errors.New("embui: already initialized")
	ErrInvalidObject      = errors.New("embui: invalid object handle")
	ErrInvalidParameter   = errors.New("embui: invalid parameter")
	ErrUnsupported        = errors.New("embui: operation not supported by widget kind")
)

// Recommended TaskHandler periods in milliseconds. Flushing and animations
// want tight polling; an idle tree can relax.
const (
	periodFlush = 5
	periodAnim  = 16
	periodIdle  = 30
)

// defaultLongPressMS is how long a pointer must stay down on one object
// before LongPressed fires.
const defaultLongPressMS = 400

// Context owns all runtime state: the object arena, registered displays and
// input devices, the millisecond clock and the theme. It replaces what a
// typical embedded GUI keeps in process globals, so several independent
// contexts can coexist (one per test, for example).
//
// Context is not safe for concurrent use.
type Context struct {
	initialized bool

	nodes  map[NodeID]*node
	nextID NodeID

	displays []*Display
	inputs   []*InputDevice

	tickMS      uint32
	longPressMS uint32

	theme Theme

	screens []NodeID
	active  NodeID
	focused NodeID
}

// New allocates an empty, uninitialized context. Call Init before anything
// else.
func New() *Context {
	return &Context{
		nodes:       make(map[NodeID]*node),
		longPressMS: defaultLongPressMS,
	}
}

// Init performs the single transition from uninitialized to initialized:
// it installs the default theme and creates the initial active screen.
// A second call returns ErrAlreadyInitialized and changes nothing.
func (c *Context) Init() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	c.theme = DefaultTheme()
	c.initialized = true

	scr, err := c.NewScreen()
	if err != nil {
		c.initialized = false
		return fmt.Errorf("embui: creating initial screen: %w", err)
	}
	c.active = scr.id
	return nil
}

// Initialized reports whether Init has completed.
func (c *Context) Initialized() bool {
	return c.initialized
}

// TickInc advances the internal millisecond clock. Call it with the wall
// time elapsed since the previous call; animations and long-press
// detection are driven from this clock, not from the host clock.
func (c *Context) TickInc(ms uint32) {
	c.tickMS += ms
}

// Tick returns the current value of the internal clock.
func (c *Context) Tick() uint32 {
	return c.tickMS
}

// SetLongPressTime overrides the press duration, in milliseconds, after
// which LongPressed fires. Zero restores the default.
func (c *Context) SetLongPressTime(ms uint32) {
	if ms == 0 {
		ms = defaultLongPressMS
	}
	c.longPressMS = ms
}

// TaskHandler runs one cooperative scheduler step: it polls every
// registered input device, advances press/long-press state, steps
// animations and renders pending dirty regions through each display's
// flush protocol. It returns the recommended delay in milliseconds until
// the next call.
//
// On an uninitialized context TaskHandler is a no-op.
func (c *Context) TaskHandler() uint32 {
	if !c.initialized {
		return periodIdle
	}

	for _, dev := range c.inputs {
		dev.poll()
	}

	animating := c.stepAnimations()

	busy := false
	for _, d := range c.displays {
		if d.render() {
			busy = true
		}
	}

	switch {
	case busy:
		return periodFlush
	case animating:
		return periodAnim
	default:
		return periodIdle
	}
}

// ActiveScreen returns the screen currently being shown.
func (c *Context) ActiveScreen() (Object, error) {
	if !c.initialized {
		return Object{}, ErrNotInitialized
	}
	if _, ok := c.nodes[c.active]; !ok {
		return Object{}, ErrInvalidObject
	}
	return Object{ctx: c, id: c.active}, nil
}

// LoadScreen makes scr the active screen and marks the full resolution of
// every display dirty.
func (c *Context) LoadScreen(scr Object) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	n, ok := c.node(scr)
	if !ok {
		return ErrInvalidObject
	}
	if n.kind != KindScreen {
		return fmt.Errorf("embui: load screen: %w: kind %v", ErrInvalidParameter, n.kind)
	}
	c.active = scr.id
	c.invalidateAll()
	return nil
}

// NewScreen creates a detached screen object. The first screen created by
// Init is active; additional screens become visible via LoadScreen.
func (c *Context) NewScreen() (Object, error) {
	if !c.initialized {
		return Object{}, ErrNotInitialized
	}
	obj := c.newObject(0, KindScreen)
	c.screens = append(c.screens, obj.id)
	c.theme.apply(obj)
	return obj, nil
}

// invalidateAll marks the whole resolution of every display dirty.
func (c *Context) invalidateAll() {
	for _, d := range c.displays {
		w, h := d.Resolution()
		d.markDirty(Rect{X2: w - 1, Y2: h - 1})
	}
}

// stepAnimations advances time-driven widgets (spinners, blinking text
// cursors) and reports whether any are active, so the loop keeps polling
// at animation rate.
func (c *Context) stepAnimations() bool {
	animating := false
	for id, n := range c.nodes {
		switch n.kind {
		case KindSpinner:
			if !c.subtreeHidden(id) {
				c.invalidateNode(n)
				animating = true
			}
		case KindTextarea:
			if n.state&StateFocused != 0 && !c.subtreeHidden(id) {
				c.invalidateNode(n)
				animating = true
			}
		}
	}
	return animating
}
