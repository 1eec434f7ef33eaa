package embui

// Part selects which piece of a widget a style applies to. Plain objects
// only have PartMain; composite widgets expose additional parts (a
// slider's indicator and knob, a roller's selected row, ...).
type Part uint8

const (
	PartMain Part = iota
	PartScrollbar
	PartIndicator
	PartKnob
	PartSelected
	PartItems
	PartCursor
)

// Selector pairs a part with required state bits. A style attached with a
// selector only contributes to rendering when the part matches and the
// object's current state contains every bit of the selector's state.
type Selector struct {
	Part  Part
	State State
}

// SelDefault matches the main part in any state.
var SelDefault = Selector{Part: PartMain, State: StateDefault}

type styleRef struct {
	style *Style
	sel   Selector
}

// styleProp enumerates every style property. The Style stores a set-bit
// per property; resolution walks attached styles until it finds one with
// the bit set.
type styleProp uint8

const (
	propBgColor styleProp = iota
	propBgOpa
	propBgGradColor
	propBgGradDir
	propBorderColor
	propBorderWidth
	propBorderOpa
	propBorderSide
	propOutlineColor
	propOutlineWidth
	propOutlineOpa
	propOutlinePad
	propPadTop
	propPadBottom
	propPadLeft
	propPadRight
	propPadRow
	propPadColumn
	propWidth
	propHeight
	propMinWidth
	propMinHeight
	propMaxWidth
	propMaxHeight
	propRadius
	propOpa
	propTextColor
	propTextOpa
	propTextLetterSpace
	propTextLineSpace
	propTextAlign
	propShadowColor
	propShadowWidth
	propShadowOfsX
	propShadowOfsY
	propShadowSpread
	propShadowOpa
	propArcWidth
	propLineWidth
)

// GradDir selects the direction of a background gradient.
type GradDir uint8

const (
	GradDirNone GradDir = iota
	GradDirVer
	GradDirHor
)

// BorderSide is a bitmask of which edges a border is drawn on.
type BorderSide uint8

const (
	BorderSideNone   BorderSide = 0x00
	BorderSideBottom BorderSide = 0x01
	BorderSideTop    BorderSide = 0x02
	BorderSideLeft   BorderSide = 0x04
	BorderSideRight  BorderSide = 0x08
	BorderSideFull   BorderSide = 0x0F
)

// TextAlign controls horizontal text placement inside a widget.
type TextAlign uint8

const (
	TextAlignAuto TextAlign = iota
	TextAlignLeft
	TextAlignCenter
	TextAlignRight
)

type styleValue struct {
	num int32
	col Color
}

// Style bundles paint and layout properties for reuse across objects. A
// style is a plain Go value: construct it with NewStyle, mutate it through
// setters and attach it to any number of objects with Object.AddStyle.
// Attachment holds a reference, so later setter calls on a shared style
// affect every object it is attached to (invalidate the objects to see
// the change).
type Style struct {
	props map[styleProp]styleValue
}

// NewStyle returns an empty style: no property contributes until its
// setter has been called.
func NewStyle() *Style {
	return &Style{props: make(map[styleProp]styleValue)}
}

func (s *Style) setNum(p styleProp, v int32) {
	s.props[p] = styleValue{num: v}
}

func (s *Style) setColor(p styleProp, c Color) {
	s.props[p] = styleValue{col: c}
}

func (s *Style) has(p styleProp) bool {
	_, ok := s.props[p]
	return ok
}

// Background.

func (s *Style) SetBgColor(c Color)       { s.setColor(propBgColor, c) }
func (s *Style) SetBgOpa(opa uint8)       { s.setNum(propBgOpa, int32(opa)) }
func (s *Style) SetBgGradColor(c Color)   { s.setColor(propBgGradColor, c) }
func (s *Style) SetBgGradDir(dir GradDir) { s.setNum(propBgGradDir, int32(dir)) }

// Border.

func (s *Style) SetBorderColor(c Color)        { s.setColor(propBorderColor, c) }
func (s *Style) SetBorderWidth(w int)          { s.setNum(propBorderWidth, int32(w)) }
func (s *Style) SetBorderOpa(opa uint8)        { s.setNum(propBorderOpa, int32(opa)) }
func (s *Style) SetBorderSide(side BorderSide) { s.setNum(propBorderSide, int32(side)) }

// Outline.

func (s *Style) SetOutlineColor(c Color) { s.setColor(propOutlineColor, c) }
func (s *Style) SetOutlineWidth(w int)   { s.setNum(propOutlineWidth, int32(w)) }
func (s *Style) SetOutlineOpa(opa uint8) { s.setNum(propOutlineOpa, int32(opa)) }
func (s *Style) SetOutlinePad(p int)     { s.setNum(propOutlinePad, int32(p)) }

// Padding. PadAll/PadHor/PadVer are shortcuts over the four sides; PadRow
// and PadColumn are the gaps used by container layouts.

func (s *Style) SetPadTop(p int)    { s.setNum(propPadTop, int32(p)) }
func (s *Style) SetPadBottom(p int) { s.setNum(propPadBottom, int32(p)) }
func (s *Style) SetPadLeft(p int)   { s.setNum(propPadLeft, int32(p)) }
func (s *Style) SetPadRight(p int)  { s.setNum(propPadRight, int32(p)) }

func (s *Style) SetPadAll(p int) {
	s.SetPadTop(p)
	s.SetPadBottom(p)
	s.SetPadLeft(p)
	s.SetPadRight(p)
}

func (s *Style) SetPadHor(p int) {
	s.SetPadLeft(p)
	s.SetPadRight(p)
}

func (s *Style) SetPadVer(p int) {
	s.SetPadTop(p)
	s.SetPadBottom(p)
}

func (s *Style) SetPadRow(p int)    { s.setNum(propPadRow, int32(p)) }
func (s *Style) SetPadColumn(p int) { s.setNum(propPadColumn, int32(p)) }

// Size bounds.

func (s *Style) SetWidth(w int)     { s.setNum(propWidth, int32(w)) }
func (s *Style) SetHeight(h int)    { s.setNum(propHeight, int32(h)) }
func (s *Style) SetMinWidth(w int)  { s.setNum(propMinWidth, int32(w)) }
func (s *Style) SetMinHeight(h int) { s.setNum(propMinHeight, int32(h)) }
func (s *Style) SetMaxWidth(w int)  { s.setNum(propMaxWidth, int32(w)) }
func (s *Style) SetMaxHeight(h int) { s.setNum(propMaxHeight, int32(h)) }

// Appearance.

// RadiusCircle as a corner radius makes the background fully round
// regardless of the widget size.
const RadiusCircle = 0x7FFF

func (s *Style) SetRadius(r int)  { s.setNum(propRadius, int32(r)) }
func (s *Style) SetOpa(opa uint8) { s.setNum(propOpa, int32(opa)) }

// Text.

func (s *Style) SetTextColor(c Color)      { s.setColor(propTextColor, c) }
func (s *Style) SetTextOpa(opa uint8)      { s.setNum(propTextOpa, int32(opa)) }
func (s *Style) SetTextLetterSpace(sp int) { s.setNum(propTextLetterSpace, int32(sp)) }
func (s *Style) SetTextLineSpace(sp int)   { s.setNum(propTextLineSpace, int32(sp)) }
func (s *Style) SetTextAlign(a TextAlign)  { s.setNum(propTextAlign, int32(a)) }

// Shadow. The renderer draws shadows as a solid offset silhouette rather
// than a blur.

func (s *Style) SetShadowColor(c Color) { s.setColor(propShadowColor, c) }
func (s *Style) SetShadowWidth(w int)   { s.setNum(propShadowWidth, int32(w)) }
func (s *Style) SetShadowOfsX(x int)    { s.setNum(propShadowOfsX, int32(x)) }
func (s *Style) SetShadowOfsY(y int)    { s.setNum(propShadowOfsY, int32(y)) }
func (s *Style) SetShadowSpread(sp int) { s.setNum(propShadowSpread, int32(sp)) }
func (s *Style) SetShadowOpa(opa uint8) { s.setNum(propShadowOpa, int32(opa)) }

// Arc and line geometry.

func (s *Style) SetArcWidth(w int)  { s.setNum(propArcWidth, int32(w)) }
func (s *Style) SetLineWidth(w int) { s.setNum(propLineWidth, int32(w)) }

// --- Attachment (Object side) ---

// AddStyle attaches a style under the given selector. Order matters: the
// most recently attached style wins when several set the same property.
func (o Object) AddStyle(s *Style, sel Selector) error {
	n, ok := o.ctx.node(o)
	if !ok {
		return ErrInvalidObject
	}
	if s == nil {
		return ErrInvalidParameter
	}
	n.styles = append(n.styles, styleRef{style: s, sel: sel})
	o.ctx.invalidateNode(n)
	return nil
}

// RemoveStyle detaches every attachment of s, or every style when s is
// nil.
func (o Object) RemoveStyle(s *Style) error {
	n, ok := o.ctx.node(o)
	if !ok {
		return ErrInvalidObject
	}
	if s == nil {
		n.styles = nil
	} else {
		kept := n.styles[:0]
		for _, ref := range n.styles {
			if ref.style != s {
				kept = append(kept, ref)
			}
		}
		n.styles = kept
	}
	o.ctx.invalidateNode(n)
	return nil
}

// Local per-property shortcuts. These write into the object's own local
// style, which takes precedence over attached styles.

func (o Object) SetBgColor(c Color) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetBgColor(c)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetBgOpa(opa uint8) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetBgOpa(opa)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetTextColor(c Color) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetTextColor(c)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetBorderColor(c Color) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetBorderColor(c)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetBorderWidth(w int) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetBorderWidth(w)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetRadius(r int) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetRadius(r)
		o.ctx.invalidateNode(n)
	}
}

func (o Object) SetPadAll(p int) {
	if n, ok := o.ctx.node(o); ok {
		n.local.SetPadAll(p)
		o.ctx.invalidateNode(n)
	}
}

// --- Resolution ---

// resolveValue walks the object's styles for one property on one part:
// the local style first, then attached styles in reverse attachment
// order. A selector contributes only when its part matches and its state
// bits are all present in the node's current state.
func (c *Context) resolveValue(n *node, p styleProp, part Part) (styleValue, bool) {
	if part == PartMain && n.local.has(p) {
		return n.local.props[p], true
	}
	for i := len(n.styles) - 1; i >= 0; i-- {
		ref := n.styles[i]
		if ref.sel.Part != part {
			continue
		}
		if n.state&ref.sel.State != ref.sel.State {
			continue
		}
		if ref.style.has(p) {
			return ref.style.props[p], true
		}
	}
	return styleValue{}, false
}

func (c *Context) styleColor(n *node, p styleProp, part Part, def Color) Color {
	if v, ok := c.resolveValue(n, p, part); ok {
		return v.col
	}
	return def
}

func (c *Context) styleInt(n *node, p styleProp, part Part, def int32) int32 {
	if v, ok := c.resolveValue(n, p, part); ok {
		return v.num
	}
	return def
}
