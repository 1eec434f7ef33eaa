package embui

import (
	"fmt"
	"image"
	"strings"
)

// Capability views attach widget-specific operations to the generic
// handle. A view is retrieved from an Object and fails with
// ErrUnsupported when the kind lacks the capability; the view itself is a
// thin typed facade and stays valid exactly as long as the handle does.

func (o Object) viewNode(kinds ...Kind) (*node, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return nil, ErrInvalidObject
	}
	for _, k := range kinds {
		if n.kind == k {
			return n, nil
		}
	}
	return nil, fmt.Errorf("embui: %v: %w", n.kind, ErrUnsupported)
}

// --- Text ---

// TextView covers widgets that display or edit a string: labels,
// checkboxes, textareas, and buttons (through their label child).
type TextView struct {
	obj Object
}

// Text returns the text capability view. For a button it resolves to the
// button's first label child, creating one if the button has none yet.
func (o Object) Text() (TextView, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return TextView{}, ErrInvalidObject
	}
	switch n.kind {
	case KindLabel, KindCheckbox, KindTextarea:
		return TextView{obj: o}, nil
	case KindButton:
		for _, childID := range n.children {
			if child, ok := o.ctx.nodes[childID]; ok && child.kind == KindLabel {
				return TextView{obj: Object{ctx: o.ctx, id: childID}}, nil
			}
		}
		lbl, err := o.NewLabel()
		if err != nil {
			return TextView{}, err
		}
		lbl.Center()
		return TextView{obj: lbl}, nil
	}
	return TextView{}, fmt.Errorf("embui: %v: %w", n.kind, ErrUnsupported)
}

func (v TextView) data() (*textData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	td, ok := n.data.(*textData)
	return td, n, ok
}

// SetText replaces the text. Labels with no explicit size grow to fit.
func (v TextView) SetText(text string) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	if td.maxLen > 0 && len(text) > td.maxLen {
		text = text[:td.maxLen]
	}
	td.text = text
	td.cursor = len(text)
	if n.kind == KindLabel && !n.alignSet {
		w, h := textSize(text)
		if n.w < w {
			n.w = w
		}
		if n.h < h {
			n.h = h
		}
	}
	v.obj.ctx.invalidateNode(n)
	if n.kind == KindTextarea {
		v.obj.ctx.fire(n.id, EventValueChanged, int32(len(text)))
	}
}

// Text returns the current text.
func (v TextView) Text() string {
	td, _, ok := v.data()
	if !ok {
		return ""
	}
	return td.text
}

// SetLongMode controls overflow handling for labels.
func (v TextView) SetLongMode(mode LongMode) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	td.longMode = mode
	v.obj.ctx.invalidateNode(n)
}

// SetPlaceholder sets the hint text a textarea shows while empty.
func (v TextView) SetPlaceholder(text string) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	td.placeholder = text
	v.obj.ctx.invalidateNode(n)
}

// SetOneLine restricts a textarea to a single line.
func (v TextView) SetOneLine(oneLine bool) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	td.oneLine = oneLine
	v.obj.ctx.invalidateNode(n)
}

// SetMaxLength caps the text length in bytes; zero means unlimited.
func (v TextView) SetMaxLength(maxLen int) {
	td, _, ok := v.data()
	if !ok {
		return
	}
	td.maxLen = maxLen
}

// InsertText inserts at the cursor position.
func (v TextView) InsertText(text string) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	if td.cursor < 0 || td.cursor > len(td.text) {
		td.cursor = len(td.text)
	}
	out := td.text[:td.cursor] + text + td.text[td.cursor:]
	if td.maxLen > 0 && len(out) > td.maxLen {
		out = out[:td.maxLen]
	}
	inserted := len(out) - len(td.text)
	td.text = out
	td.cursor += inserted
	v.obj.ctx.invalidateNode(n)
	if n.kind == KindTextarea {
		v.obj.ctx.fire(n.id, EventValueChanged, int32(len(out)))
	}
}

// SetCursor moves the insertion cursor (clamped to the text).
func (v TextView) SetCursor(pos int) {
	td, n, ok := v.data()
	if !ok {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(td.text) {
		pos = len(td.text)
	}
	td.cursor = pos
	v.obj.ctx.invalidateNode(n)
}

// Cursor returns the insertion cursor position.
func (v TextView) Cursor() int {
	td, _, ok := v.data()
	if !ok {
		return 0
	}
	return td.cursor
}

// --- Range ---

// RangeView covers value-in-a-range widgets: bar, slider, arc, spinbox.
type RangeView struct {
	obj Object
}

// Range returns the range capability view.
func (o Object) Range() (RangeView, error) {
	_, err := o.viewNode(KindBar, KindSlider, KindArc, KindSpinbox)
	if err != nil {
		return RangeView{}, err
	}
	return RangeView{obj: o}, nil
}

func (v RangeView) data() (*rangeData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	rd, ok := n.data.(*rangeData)
	return rd, n, ok
}

// SetRange sets the bounds and re-clamps the current value.
func (v RangeView) SetRange(min, max int32) {
	rd, n, ok := v.data()
	if !ok {
		return
	}
	if max < min {
		min, max = max, min
	}
	rd.min, rd.max = min, max
	rd.value = clampI32(rd.value, min, max)
	v.obj.ctx.invalidateNode(n)
}

// SetValue sets the value, clamped to the range, and fires ValueChanged
// when it moves.
func (v RangeView) SetValue(value int32) {
	rd, n, ok := v.data()
	if !ok {
		return
	}
	value = clampI32(value, rd.min, rd.max)
	if value == rd.value {
		return
	}
	rd.value = value
	v.obj.ctx.invalidateNode(n)
	v.obj.ctx.fire(n.id, EventValueChanged, value)
}

// Value returns the current value.
func (v RangeView) Value() int32 {
	rd, _, ok := v.data()
	if !ok {
		return 0
	}
	return rd.value
}

// Range returns the current bounds.
func (v RangeView) Range() (min, max int32) {
	rd, _, ok := v.data()
	if !ok {
		return 0, 0
	}
	return rd.min, rd.max
}

// SetStartValue sets where a foreground arc begins (arcs only).
func (v RangeView) SetStartValue(value int32) {
	rd, n, ok := v.data()
	if !ok {
		return
	}
	rd.startValue = clampI32(value, rd.min, rd.max)
	v.obj.ctx.invalidateNode(n)
}

// --- Toggle ---

// ToggleView covers checked/unchecked widgets: switch and checkbox.
type ToggleView struct {
	obj Object
}

// Toggle returns the toggle capability view.
func (o Object) Toggle() (ToggleView, error) {
	_, err := o.viewNode(KindSwitch, KindCheckbox)
	if err != nil {
		return ToggleView{}, err
	}
	return ToggleView{obj: o}, nil
}

// SetChecked sets the checked state without firing ValueChanged (that is
// reserved for user interaction).
func (v ToggleView) SetChecked(checked bool) {
	if checked {
		v.obj.AddState(StateChecked)
	} else {
		v.obj.ClearState(StateChecked)
	}
}

// Checked reports the checked state.
func (v ToggleView) Checked() bool {
	return v.obj.HasState(StateChecked)
}

// --- Select ---

// SelectView covers option-list widgets: dropdown and roller.
type SelectView struct {
	obj Object
}

// Select returns the selection capability view.
func (o Object) Select() (SelectView, error) {
	_, err := o.viewNode(KindDropdown, KindRoller)
	if err != nil {
		return SelectView{}, err
	}
	return SelectView{obj: o}, nil
}

func (v SelectView) data() (*selectData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	sd, ok := n.data.(*selectData)
	return sd, n, ok
}

// SetOptions replaces the option list. The convenience form with a single
// newline-separated string is common in UI code, so both are accepted:
// a one-element slice containing '\n' is split.
func (v SelectView) SetOptions(options ...string) {
	sd, n, ok := v.data()
	if !ok {
		return
	}
	if len(options) == 1 && strings.Contains(options[0], "\n") {
		options = strings.Split(options[0], "\n")
	}
	sd.options = append([]string(nil), options...)
	if sd.selected >= len(sd.options) {
		sd.selected = 0
	}
	v.obj.ctx.invalidateNode(n)
}

// SetSelected selects option i (ignored when out of range).
func (v SelectView) SetSelected(i int) {
	sd, n, ok := v.data()
	if !ok {
		return
	}
	if i < 0 || i >= len(sd.options) {
		return
	}
	if sd.selected == i {
		return
	}
	sd.selected = i
	v.obj.ctx.invalidateNode(n)
	v.obj.ctx.fire(n.id, EventValueChanged, int32(i))
}

// Selected returns the selected index.
func (v SelectView) Selected() int {
	sd, _, ok := v.data()
	if !ok {
		return 0
	}
	return sd.selected
}

// SelectedText returns the selected option's text.
func (v SelectView) SelectedText() string {
	sd, _, ok := v.data()
	if !ok || sd.selected >= len(sd.options) {
		return ""
	}
	return sd.options[sd.selected]
}

// SetVisibleRows sets how many option rows a roller shows.
func (v SelectView) SetVisibleRows(rows int) {
	sd, n, ok := v.data()
	if !ok || rows < 1 {
		return
	}
	sd.visibleRows = rows
	v.obj.ctx.invalidateNode(n)
}

// --- Chart ---

// SeriesView covers the chart widget.
type SeriesView struct {
	obj Object
}

// Series returns the chart capability view.
func (o Object) Series() (SeriesView, error) {
	_, err := o.viewNode(KindChart)
	if err != nil {
		return SeriesView{}, err
	}
	return SeriesView{obj: o}, nil
}

func (v SeriesView) data() (*chartData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	cd, ok := n.data.(*chartData)
	return cd, n, ok
}

// SetType selects line or bar series drawing.
func (v SeriesView) SetType(t ChartType) {
	cd, n, ok := v.data()
	if !ok {
		return
	}
	cd.typ = t
	v.obj.ctx.invalidateNode(n)
}

// SetRange sets the value axis bounds.
func (v SeriesView) SetRange(min, max int32) {
	cd, n, ok := v.data()
	if !ok {
		return
	}
	if max < min {
		min, max = max, min
	}
	cd.min, cd.max = min, max
	v.obj.ctx.invalidateNode(n)
}

// SetPointCount resizes every series to hold count points.
func (v SeriesView) SetPointCount(count int) {
	cd, n, ok := v.data()
	if !ok || count < 1 {
		return
	}
	cd.pointCount = count
	for _, s := range cd.series {
		pts := make([]int32, count)
		copy(pts, s.points)
		s.points = pts
		if s.next >= count {
			s.next = 0
		}
	}
	v.obj.ctx.invalidateNode(n)
}

// SetDivLines sets the number of horizontal and vertical division lines.
func (v SeriesView) SetDivLines(h, vert int) {
	cd, n, ok := v.data()
	if !ok {
		return
	}
	cd.hDiv, cd.vDiv = h, vert
	v.obj.ctx.invalidateNode(n)
}

// AddSeries adds an empty series with the given color.
func (v SeriesView) AddSeries(c Color) (SeriesID, error) {
	cd, n, ok := v.data()
	if !ok {
		return 0, ErrInvalidObject
	}
	s := &chartSeries{color: c, points: make([]int32, cd.pointCount)}
	cd.series = append(cd.series, s)
	v.obj.ctx.invalidateNode(n)
	return SeriesID(len(cd.series) - 1), nil
}

// SetNext appends a value to the series' ring: the oldest point is
// overwritten once the series is full.
func (v SeriesView) SetNext(id SeriesID, value int32) {
	cd, n, ok := v.data()
	if !ok || int(id) < 0 || int(id) >= len(cd.series) {
		return
	}
	s := cd.series[id]
	if len(s.points) == 0 {
		return
	}
	s.points[s.next] = value
	s.next = (s.next + 1) % len(s.points)
	v.obj.ctx.invalidateNode(n)
}

// SetValues replaces the series contents from index 0.
func (v SeriesView) SetValues(id SeriesID, values ...int32) {
	cd, n, ok := v.data()
	if !ok || int(id) < 0 || int(id) >= len(cd.series) {
		return
	}
	s := cd.series[id]
	copy(s.points, values)
	s.next = 0
	if len(values) < len(s.points) {
		s.next = len(values)
	}
	v.obj.ctx.invalidateNode(n)
}

// --- Image ---

// ImageView covers the image widget.
type ImageView struct {
	obj Object
}

// Img returns the image capability view.
func (o Object) Img() (ImageView, error) {
	_, err := o.viewNode(KindImage)
	if err != nil {
		return ImageView{}, err
	}
	return ImageView{obj: o}, nil
}

func (v ImageView) data() (*imageData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	id, ok := n.data.(*imageData)
	return id, n, ok
}

// SetImage sets the source image. A widget with no explicit size adopts
// the image size.
func (v ImageView) SetImage(img image.Image) {
	d, n, ok := v.data()
	if !ok {
		return
	}
	d.src = img
	d.stale = true
	if n.w == 0 && img != nil {
		b := img.Bounds()
		n.w, n.h = b.Dx(), b.Dy()
	}
	v.obj.ctx.invalidateNode(n)
}

// SetZoom scales the image: 256 is 1:1, 128 half size, 512 double.
func (v ImageView) SetZoom(zoom int) {
	d, n, ok := v.data()
	if !ok || zoom <= 0 {
		return
	}
	d.zoom = zoom
	d.stale = true
	v.obj.ctx.invalidateNode(n)
}

// SetAngle rotates the image by whole degrees counter-clockwise.
func (v ImageView) SetAngle(deg int) {
	d, n, ok := v.data()
	if !ok {
		return
	}
	d.angle = deg
	d.stale = true
	v.obj.ctx.invalidateNode(n)
}

// --- Arc configuration ---

// ArcView covers arc geometry (value handling goes through Range).
type ArcView struct {
	obj Object
}

// ArcCfg returns the arc capability view.
func (o Object) ArcCfg() (ArcView, error) {
	_, err := o.viewNode(KindArc)
	if err != nil {
		return ArcView{}, err
	}
	return ArcView{obj: o}, nil
}

func (v ArcView) data() (*arcData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	rd, ok := n.data.(*rangeData)
	if !ok || rd.arc == nil {
		return nil, nil, false
	}
	return rd.arc, n, true
}

// SetBgAngles sets the background arc span in degrees (0 = 3 o'clock,
// clockwise).
func (v ArcView) SetBgAngles(start, end int32) {
	ad, n, ok := v.data()
	if !ok {
		return
	}
	ad.bgStart, ad.bgEnd = start, end
	v.obj.ctx.invalidateNode(n)
}

// SetRotation offsets both arcs by the given degrees.
func (v ArcView) SetRotation(deg int32) {
	ad, n, ok := v.data()
	if !ok {
		return
	}
	ad.rotation = deg
	v.obj.ctx.invalidateNode(n)
}

// SetMode selects how the value maps onto the indicator span.
func (v ArcView) SetMode(mode ArcMode) {
	ad, n, ok := v.data()
	if !ok {
		return
	}
	ad.mode = mode
	v.obj.ctx.invalidateNode(n)
}

// --- LED ---

// LedView covers the LED indicator.
type LedView struct {
	obj Object
}

// Led returns the LED capability view.
func (o Object) Led() (LedView, error) {
	_, err := o.viewNode(KindLED)
	if err != nil {
		return LedView{}, err
	}
	return LedView{obj: o}, nil
}

func (v LedView) data() (*ledData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	ld, ok := n.data.(*ledData)
	return ld, n, ok
}

// SetColor sets the lit color.
func (v LedView) SetColor(c Color) {
	ld, n, ok := v.data()
	if !ok {
		return
	}
	ld.color = c
	v.obj.ctx.invalidateNode(n)
}

// On lights the LED.
func (v LedView) On() { v.set(true) }

// Off darkens the LED.
func (v LedView) Off() { v.set(false) }

// Toggle flips the LED.
func (v LedView) Toggle() {
	ld, _, ok := v.data()
	if !ok {
		return
	}
	v.set(!ld.on)
}

// IsOn reports whether the LED is lit.
func (v LedView) IsOn() bool {
	ld, _, ok := v.data()
	return ok && ld.on
}

func (v LedView) set(on bool) {
	ld, n, ok := v.data()
	if !ok {
		return
	}
	ld.on = on
	v.obj.ctx.invalidateNode(n)
}

// --- Line ---

// LineView covers the polyline widget.
type LineView struct {
	obj Object
}

// Line returns the polyline capability view.
func (o Object) Line() (LineView, error) {
	_, err := o.viewNode(KindLine)
	if err != nil {
		return LineView{}, err
	}
	return LineView{obj: o}, nil
}

// SetPoints replaces the polyline vertices (widget-relative).
func (v LineView) SetPoints(points []Point) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return
	}
	ld, ok := n.data.(*lineData)
	if !ok {
		return
	}
	ld.points = append([]Point(nil), points...)
	for _, p := range ld.points {
		if p.X+1 > n.w {
			n.w = p.X + 1
		}
		if p.Y+1 > n.h {
			n.h = p.Y + 1
		}
	}
	v.obj.ctx.invalidateNode(n)
}

// --- Spinner ---

// SpinnerView covers the loading spinner.
type SpinnerView struct {
	obj Object
}

// Spin returns the spinner capability view.
func (o Object) Spin() (SpinnerView, error) {
	_, err := o.viewNode(KindSpinner)
	if err != nil {
		return SpinnerView{}, err
	}
	return SpinnerView{obj: o}, nil
}

// SetAnimParams sets the rotation period and the arc length in degrees.
func (v SpinnerView) SetAnimParams(periodMS uint32, arcLen int32) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return
	}
	sd, ok := n.data.(*spinnerData)
	if !ok {
		return
	}
	if periodMS == 0 {
		periodMS = 1000
	}
	sd.periodMS = periodMS
	sd.arcLen = arcLen
	v.obj.ctx.invalidateNode(n)
}

// --- Button matrix ---

// MatrixView covers the button matrix.
type MatrixView struct {
	obj Object
}

// Matrix returns the button-matrix capability view.
func (o Object) Matrix() (MatrixView, error) {
	_, err := o.viewNode(KindButtonMatrix)
	if err != nil {
		return MatrixView{}, err
	}
	return MatrixView{obj: o}, nil
}

// SetMap sets the cell texts. A "\n" entry starts a new row. Clicking a
// cell fires ValueChanged with the cell index (newline entries are not
// counted).
func (v MatrixView) SetMap(cells []string) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return
	}
	md, ok := n.data.(*matrixData)
	if !ok {
		return
	}
	md.cells = append([]string(nil), cells...)
	v.obj.ctx.invalidateNode(n)
}

// CellText returns the text of cell i (newline entries not counted).
func (v MatrixView) CellText(i int) string {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return ""
	}
	md, ok := n.data.(*matrixData)
	if !ok {
		return ""
	}
	idx := 0
	for _, cell := range md.cells {
		if cell == "\n" {
			continue
		}
		if idx == i {
			return cell
		}
		idx++
	}
	return ""
}

// --- Tabview ---

// TabsView covers the tab view composite.
type TabsView struct {
	obj Object
}

// Tabs returns the tab view capability view.
func (o Object) Tabs() (TabsView, error) {
	_, err := o.viewNode(KindTabview)
	if err != nil {
		return TabsView{}, err
	}
	return TabsView{obj: o}, nil
}

func (v TabsView) data() (*tabviewData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	tv, ok := n.data.(*tabviewData)
	return tv, n, ok
}

// AddTab appends a tab with the given bar title and returns its content
// panel. The first tab added becomes active.
func (v TabsView) AddTab(title string) (Object, error) {
	tv, n, ok := v.data()
	if !ok {
		return Object{}, ErrInvalidObject
	}
	c := v.obj.ctx

	bar := Object{ctx: c, id: tv.bar}
	btn, err := bar.NewButton()
	if err != nil {
		return Object{}, err
	}
	txt, err := btn.Text()
	if err != nil {
		return Object{}, err
	}
	txt.SetText(title)

	content := Object{ctx: c, id: tv.content}
	page, err := content.NewPanel()
	if err != nil {
		return Object{}, err
	}
	page.SetPos(0, 0)
	cn := c.nodes[tv.content]
	page.SetSize(cn.w, cn.h)
	page.SetHidden(true)

	idx := len(tv.tabs)
	tv.buttons = append(tv.buttons, btn.id)
	tv.tabs = append(tv.tabs, page.id)
	c.layoutTabview(n)

	if _, err := btn.AddEventFunc(EventClicked, func(Event) {
		_ = v.SetActiveTab(idx)
	}); err != nil {
		return Object{}, err
	}

	if tv.active < 0 {
		if err := v.SetActiveTab(0); err != nil {
			return Object{}, err
		}
	}
	return page, nil
}

// SetActiveTab switches which tab content is visible.
func (v TabsView) SetActiveTab(i int) error {
	tv, n, ok := v.data()
	if !ok {
		return ErrInvalidObject
	}
	if i < 0 || i >= len(tv.tabs) {
		return ErrInvalidParameter
	}
	tv.active = i
	c := v.obj.ctx
	for j, id := range tv.tabs {
		page := Object{ctx: c, id: id}
		page.SetHidden(j != i)
	}
	for j, id := range tv.buttons {
		btn := Object{ctx: c, id: id}
		if j == i {
			btn.AddState(StateChecked)
		} else {
			btn.ClearState(StateChecked)
		}
	}
	c.invalidateNode(n)
	c.fire(n.id, EventValueChanged, int32(i))
	return nil
}

// ActiveTab returns the index of the visible tab.
func (v TabsView) ActiveTab() int {
	tv, _, ok := v.data()
	if !ok {
		return -1
	}
	return tv.active
}

// SetBarSize sets the tab bar height in pixels.
func (v TabsView) SetBarSize(px int) {
	tv, n, ok := v.data()
	if !ok || px < 1 {
		return
	}
	tv.barSize = px
	v.obj.ctx.layoutTabview(n)
}

// TabBar returns the bar container for styling.
func (v TabsView) TabBar() (Object, error) {
	tv, _, ok := v.data()
	if !ok {
		return Object{}, ErrInvalidObject
	}
	return Object{ctx: v.obj.ctx, id: tv.bar}, nil
}

// --- List ---

// ListView covers the stacking list composite.
type ListView struct {
	obj Object
}

// ListOps returns the list capability view.
func (o Object) ListOps() (ListView, error) {
	_, err := o.viewNode(KindList)
	if err != nil {
		return ListView{}, err
	}
	return ListView{obj: o}, nil
}

func (v ListView) data() (*listData, *node, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, nil, false
	}
	ld, ok := n.data.(*listData)
	return ld, n, ok
}

// AddButton appends a full-width clickable row.
func (v ListView) AddButton(text string) (Object, error) {
	ld, n, ok := v.data()
	if !ok {
		return Object{}, ErrInvalidObject
	}
	btn, err := v.obj.NewButton()
	if err != nil {
		return Object{}, err
	}
	const rowH = 26
	btn.SetSize(n.w, rowH)
	btn.SetPos(0, ld.nextY)
	ld.nextY += rowH + 2
	txt, err := btn.Text()
	if err != nil {
		return Object{}, err
	}
	txt.SetText(text)
	return btn, nil
}

// AddText appends a non-clickable text row (a section header).
func (v ListView) AddText(text string) (Object, error) {
	ld, n, ok := v.data()
	if !ok {
		return Object{}, ErrInvalidObject
	}
	lbl, err := v.obj.NewLabel()
	if err != nil {
		return Object{}, err
	}
	const rowH = 18
	lbl.SetSize(n.w, rowH)
	lbl.SetPos(0, ld.nextY)
	ld.nextY += rowH + 2
	txt, err := lbl.Text()
	if err != nil {
		return Object{}, err
	}
	txt.SetText(text)
	return lbl, nil
}

// --- Message box ---

// MsgBoxView covers the message box composite.
type MsgBoxView struct {
	obj Object
}

// MsgBox returns the message box capability view.
func (o Object) MsgBox() (MsgBoxView, error) {
	_, err := o.viewNode(KindMessageBox)
	if err != nil {
		return MsgBoxView{}, err
	}
	return MsgBoxView{obj: o}, nil
}

func (v MsgBoxView) data() (*msgboxData, bool) {
	n, ok := v.obj.ctx.node(v.obj)
	if !ok {
		return nil, false
	}
	mb, ok := n.data.(*msgboxData)
	return mb, ok
}

// Button returns the i-th button object so callers can register Clicked
// handlers.
func (v MsgBoxView) Button(i int) (Object, error) {
	mb, ok := v.data()
	if !ok {
		return Object{}, ErrInvalidObject
	}
	if i < 0 || i >= len(mb.buttons) {
		return Object{}, ErrInvalidParameter
	}
	return Object{ctx: v.obj.ctx, id: mb.buttons[i]}, nil
}

// Close deletes the message box and its subtree.
func (v MsgBoxView) Close() error {
	return v.obj.Delete()
}
