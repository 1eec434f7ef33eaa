package embui

// NodeID is a stable identifier for one node in the object arena. IDs are
// monotonic and never reused, so a stale handle can be detected after its
// node is destroyed instead of dereferencing freed state.
type NodeID uint64

// Align positions an object relative to its parent's content area.
type Align uint8

const (
	AlignDefault Align = iota
	AlignTopLeft
	AlignTopMid
	AlignTopRight
	AlignBottomLeft
	AlignBottomMid
	AlignBottomRight
	AlignLeftMid
	AlignRightMid
	AlignCenter
)

// State holds the state flags of an object. Selectors match against these
// bits, so visual state (pressed, checked, ...) feeds directly into style
// resolution.
type State uint16

const (
	StateDefault  State = 0x0000
	StateChecked  State = 0x0001
	StateFocused  State = 0x0002
	StatePressed  State = 0x0004
	StateDisabled State = 0x0008
)

// EventKind identifies which interaction an event callback is registered
// for.
type EventKind uint8

const (
	EventPressed EventKind = iota
	EventPressing
	EventReleased
	EventClicked
	EventLongPressed
	EventValueChanged
	EventFocused
	EventDefocused
)

// Event is the payload delivered to event callbacks. Value is only
// meaningful for EventValueChanged.
type Event struct {
	Target Object
	Kind   EventKind
	Value  int32
}

// EventFunc is an event callback. It runs synchronously inside TaskHandler
// (input processing) or inside the setter that changed a value; it must not
// block.
type EventFunc func(e Event)

// EventToken identifies one registered event callback so it can later be
// released with RemoveEventFunc. Tokens are per-node and never reused.
type EventToken uint64

type eventEntry struct {
	token EventToken
	kind  EventKind
	fn    EventFunc
}

// node is the arena-owned state behind an Object handle.
type node struct {
	id     NodeID
	kind   Kind
	parent NodeID

	children []NodeID

	// Position is relative to the parent's content area. When alignSet is
	// true, x/y are offsets from the alignment anchor instead.
	x, y     int
	w, h     int
	align    Align
	alignSet bool

	state     State
	hidden    bool
	clickable bool

	local  *Style
	styles []styleRef

	events    []eventEntry
	nextToken EventToken

	// Per-kind widget payload, see widgets.go.
	data any
}

// Object is a copyable, non-owning handle to one node. It becomes stale
// when the node (or any ancestor) is destroyed; setters on a stale handle
// are silent no-ops, operations that return values report ErrInvalidObject.
type Object struct {
	ctx *Context
	id  NodeID
}

// ID returns the handle's node identifier. The zero value identifies no
// node.
func (o Object) ID() NodeID { return o.id }

// Valid reports whether the handle still refers to a live node.
func (o Object) Valid() bool {
	if o.ctx == nil {
		return false
	}
	_, ok := o.ctx.nodes[o.id]
	return ok
}

func (c *Context) node(o Object) (*node, bool) {
	if c == nil || o.ctx != c {
		return nil, false
	}
	n, ok := c.nodes[o.id]
	return n, ok
}

// newObject allocates a node in the arena under the given parent (0 for
// screens, which have no parent).
func (c *Context) newObject(parent NodeID, kind Kind) Object {
	c.nextID++
	n := &node{
		id:     c.nextID,
		kind:   kind,
		parent: parent,
		local:  NewStyle(),
	}
	c.nodes[n.id] = n
	if parent != 0 {
		if p, ok := c.nodes[parent]; ok {
			p.children = append(p.children, n.id)
		}
	}
	return Object{ctx: c, id: n.id}
}

// --- Position and size ---

// SetPos moves the object relative to its parent's content area and clears
// any alignment previously set.
func (o Object) SetPos(x, y int) {
	if n, ok := o.ctx.node(o); ok {
		o.ctx.invalidateNode(n)
		n.x, n.y = x, y
		n.alignSet = false
		o.ctx.invalidateNode(n)
	}
}

// SetX sets the horizontal position only.
func (o Object) SetX(x int) {
	if n, ok := o.ctx.node(o); ok {
		o.SetPos(x, n.y)
	}
}

// SetY sets the vertical position only.
func (o Object) SetY(y int) {
	if n, ok := o.ctx.node(o); ok {
		o.SetPos(n.x, y)
	}
}

// SetSize sets width and height. Values are stored as given; the renderer
// clamps at paint time, matching the forwarding contract of every setter
// here.
func (o Object) SetSize(w, h int) {
	if n, ok := o.ctx.node(o); ok {
		o.ctx.invalidateNode(n)
		n.w, n.h = w, h
		o.ctx.invalidateNode(n)
	}
}

// SetWidth sets the width only.
func (o Object) SetWidth(w int) {
	if n, ok := o.ctx.node(o); ok {
		o.SetSize(w, n.h)
	}
}

// SetHeight sets the height only.
func (o Object) SetHeight(h int) {
	if n, ok := o.ctx.node(o); ok {
		o.SetSize(n.w, h)
	}
}

// Pos returns the stored position (relative or alignment offset).
func (o Object) Pos() (x, y int, err error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return 0, 0, ErrInvalidObject
	}
	return n.x, n.y, nil
}

// Size returns the stored size.
func (o Object) Size() (w, h int, err error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return 0, 0, ErrInvalidObject
	}
	return n.w, n.h, nil
}

// SetAlign anchors the object inside its parent with no offset.
func (o Object) SetAlign(a Align) {
	o.Align(a, 0, 0)
}

// Align anchors the object inside its parent with pixel offsets from the
// anchor point.
func (o Object) Align(a Align, xOfs, yOfs int) {
	if n, ok := o.ctx.node(o); ok {
		o.ctx.invalidateNode(n)
		n.align = a
		n.alignSet = true
		n.x, n.y = xOfs, yOfs
		o.ctx.invalidateNode(n)
	}
}

// Center is shorthand for Align(AlignCenter, 0, 0).
func (o Object) Center() {
	o.Align(AlignCenter, 0, 0)
}

// --- State flags ---

// AddState sets state bits and redraws.
func (o Object) AddState(s State) {
	if n, ok := o.ctx.node(o); ok {
		n.state |= s
		o.ctx.invalidateNode(n)
	}
}

// ClearState clears state bits and redraws.
func (o Object) ClearState(s State) {
	if n, ok := o.ctx.node(o); ok {
		n.state &^= s
		o.ctx.invalidateNode(n)
	}
}

// HasState reports whether every bit of s is set.
func (o Object) HasState(s State) bool {
	n, ok := o.ctx.node(o)
	if !ok {
		return false
	}
	return n.state&s == s
}

// --- Flags ---

// SetHidden hides or shows the object and its subtree.
func (o Object) SetHidden(hidden bool) {
	if n, ok := o.ctx.node(o); ok {
		n.hidden = hidden
		o.ctx.invalidateNode(n)
	}
}

// Hidden reports the object's own hidden flag (not inherited).
func (o Object) Hidden() bool {
	n, ok := o.ctx.node(o)
	return ok && n.hidden
}

// SetClickable controls whether the object participates in pointer hit
// testing.
func (o Object) SetClickable(clickable bool) {
	if n, ok := o.ctx.node(o); ok {
		n.clickable = clickable
	}
}

// Clickable reports whether the object participates in hit testing.
func (o Object) Clickable() bool {
	n, ok := o.ctx.node(o)
	return ok && n.clickable
}

// --- Events ---

// AddEventFunc registers fn for the given event kind and returns a token
// the caller can later pass to RemoveEventFunc. The registry is owned by
// the node and released when the node is destroyed, so registration does
// not leak across the object's lifetime.
func (o Object) AddEventFunc(kind EventKind, fn EventFunc) (EventToken, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return 0, ErrInvalidObject
	}
	if fn == nil {
		return 0, ErrInvalidParameter
	}
	n.nextToken++
	n.events = append(n.events, eventEntry{token: n.nextToken, kind: kind, fn: fn})
	return n.nextToken, nil
}

// RemoveEventFunc releases one previously registered callback.
func (o Object) RemoveEventFunc(token EventToken) error {
	n, ok := o.ctx.node(o)
	if !ok {
		return ErrInvalidObject
	}
	for i, e := range n.events {
		if e.token == token {
			n.events = append(n.events[:i], n.events[i+1:]...)
			return nil
		}
	}
	return ErrInvalidParameter
}

// fire delivers an event to every matching callback registered on the
// node. Callbacks run synchronously on the caller's goroutine.
func (c *Context) fire(id NodeID, kind EventKind, value int32) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	ev := Event{Target: Object{ctx: c, id: id}, Kind: kind, Value: value}
	// Snapshot: a callback may register or remove callbacks on the same
	// node.
	entries := append([]eventEntry(nil), n.events...)
	for _, e := range entries {
		if e.kind == kind {
			e.fn(ev)
		}
	}
}

// --- Tree ---

// Parent returns the parent handle. Screens have no parent.
func (o Object) Parent() (Object, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return Object{}, ErrInvalidObject
	}
	if n.parent == 0 {
		return Object{}, ErrInvalidObject
	}
	return Object{ctx: o.ctx, id: n.parent}, nil
}

// ChildCount returns the number of direct children.
func (o Object) ChildCount() int {
	n, ok := o.ctx.node(o)
	if !ok {
		return 0
	}
	return len(n.children)
}

// Child returns the i-th direct child in creation order.
func (o Object) Child(i int) (Object, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return Object{}, ErrInvalidObject
	}
	if i < 0 || i >= len(n.children) {
		return Object{}, ErrInvalidParameter
	}
	return Object{ctx: o.ctx, id: n.children[i]}, nil
}

// Delete destroys the object and its whole subtree. Descendant handles
// become stale; their event registries and style references are released
// with the nodes.
func (o Object) Delete() error {
	n, ok := o.ctx.node(o)
	if !ok {
		return ErrInvalidObject
	}
	o.ctx.invalidateNode(n)
	if n.parent != 0 {
		if p, ok := o.ctx.nodes[n.parent]; ok {
			for i, id := range p.children {
				if id == n.id {
					p.children = append(p.children[:i], p.children[i+1:]...)
					break
				}
			}
		}
	}
	o.ctx.destroySubtree(n.id)
	return nil
}

// destroySubtree removes the node and all descendants from the arena.
func (c *Context) destroySubtree(id NodeID) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	for _, child := range n.children {
		c.destroySubtree(child)
	}
	n.children = nil
	n.events = nil
	n.styles = nil
	n.data = nil
	delete(c.nodes, id)

	for i, s := range c.screens {
		if s == id {
			c.screens = append(c.screens[:i], c.screens[i+1:]...)
			break
		}
	}
}

// Invalidate forces a redraw of the object's current area.
func (o Object) Invalidate() {
	if n, ok := o.ctx.node(o); ok {
		o.ctx.invalidateNode(n)
	}
}

// invalidateNode marks the node's absolute rectangle dirty on every
// display showing the active screen.
func (c *Context) invalidateNode(n *node) {
	if !c.onActiveScreen(n.id) {
		return
	}
	r := c.absRect(n)
	for _, d := range c.displays {
		w, h := d.Resolution()
		clipped := r.Intersect(Rect{X2: w - 1, Y2: h - 1})
		if !clipped.Empty() {
			d.markDirty(clipped)
		}
	}
}

// onActiveScreen reports whether the node's root ancestor is the active
// screen.
func (c *Context) onActiveScreen(id NodeID) bool {
	for {
		n, ok := c.nodes[id]
		if !ok {
			return false
		}
		if n.parent == 0 {
			return n.id == c.active
		}
		id = n.parent
	}
}

// subtreeHidden reports whether the node or any ancestor is hidden.
func (c *Context) subtreeHidden(id NodeID) bool {
	for {
		n, ok := c.nodes[id]
		if !ok {
			return true
		}
		if n.hidden {
			return true
		}
		if n.parent == 0 {
			return false
		}
		id = n.parent
	}
}

// absRect computes the node's absolute rectangle, resolving alignment
// against the parent's rectangle. Screens span the default display.
func (c *Context) absRect(n *node) Rect {
	if n.parent == 0 {
		w, h := 0, 0
		if len(c.displays) > 0 {
			w, h = c.displays[0].Resolution()
		}
		return Rect{X2: w - 1, Y2: h - 1}
	}
	p, ok := c.nodes[n.parent]
	if !ok {
		return Rect{X2: -1, Y2: -1}
	}
	pr := c.absRect(p)

	x, y := n.x, n.y
	if n.alignSet {
		ax, ay := anchor(n.align, pr.W(), pr.H(), n.w, n.h)
		x += ax
		y += ay
	}
	return Rect{
		X1: pr.X1 + x,
		Y1: pr.Y1 + y,
		X2: pr.X1 + x + n.w - 1,
		Y2: pr.Y1 + y + n.h - 1,
	}
}

// anchor returns the top-left offset of a w*h box aligned inside a pw*ph
// box.
func anchor(a Align, pw, ph, w, h int) (int, int) {
	var x, y int
	switch a {
	case AlignTopMid, AlignBottomMid, AlignCenter:
		x = (pw - w) / 2
	case AlignTopRight, AlignBottomRight, AlignRightMid:
		x = pw - w
	}
	switch a {
	case AlignLeftMid, AlignRightMid, AlignCenter:
		y = (ph - h) / 2
	case AlignBottomLeft, AlignBottomMid, AlignBottomRight:
		y = ph - h
	}
	return x, y
}
