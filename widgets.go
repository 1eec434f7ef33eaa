package embui

import (
	"fmt"
	"image"
)

// Kind identifies what a node draws and which capability views it
// supports. There is exactly one generic handle type (Object); widget
// behavior is selected by kind, not by wrapper type.
type Kind uint8

const (
	KindScreen Kind = iota
	KindPanel
	KindLabel
	KindButton
	KindButtonMatrix
	KindImage
	KindLine
	KindBar
	KindSlider
	KindSwitch
	KindCheckbox
	KindArc
	KindSpinner
	KindLED
	KindChart
	KindTabview
	KindDropdown
	KindRoller
	KindTextarea
	KindSpinbox
	KindList
	KindMessageBox
)

func (k Kind) String() string {
	names := [...]string{
		"screen", "panel", "label", "button", "buttonmatrix", "image",
		"line", "bar", "slider", "switch", "checkbox", "arc", "spinner",
		"led", "chart", "tabview", "dropdown", "roller", "textarea",
		"spinbox", "list", "messagebox",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kind returns the widget kind of the handle, or KindScreen for a stale
// handle alongside ErrInvalidObject.
func (o Object) Kind() (Kind, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return KindScreen, ErrInvalidObject
	}
	return n.kind, nil
}

// LongMode controls how a label treats text wider than its box.
type LongMode uint8

const (
	LongModeWrap LongMode = iota
	LongModeDot
	LongModeScroll
	LongModeClip
)

// ArcMode controls how an arc maps its value onto the drawn angle span.
type ArcMode uint8

const (
	ArcModeNormal ArcMode = iota
	ArcModeSymmetrical
	ArcModeReverse
)

// ChartType selects the series drawing primitive.
type ChartType uint8

const (
	ChartTypeLine ChartType = iota
	ChartTypeBar
)

// SeriesID identifies one data series on a chart.
type SeriesID int

// Point is a vertex of a Line widget, relative to the widget's top-left.
type Point struct {
	X, Y int
}

// --- per-kind payloads ---

type textData struct {
	text        string
	longMode    LongMode
	placeholder string
	oneLine     bool
	maxLen      int
	cursor      int
}

type arcData struct {
	bgStart, bgEnd int32
	rotation       int32
	mode           ArcMode
}

type rangeData struct {
	min, max   int32
	value      int32
	startValue int32
	arc        *arcData // non-nil for KindArc
}

type selectData struct {
	options     []string
	selected    int
	visibleRows int
	open        bool // dropdown list expanded
}

type chartSeries struct {
	color  Color
	points []int32
	next   int
}

type chartData struct {
	typ        ChartType
	min, max   int32
	pointCount int
	hDiv, vDiv int
	series     []*chartSeries
}

type imageData struct {
	src   image.Image
	zoom  int // 256 = 1:1
	angle int // degrees
	cache *image.NRGBA
	stale bool
}

type lineData struct {
	points []Point
}

type ledData struct {
	color      Color
	on         bool
	brightness uint8
}

type spinnerData struct {
	periodMS uint32
	arcLen   int32
}

type matrixData struct {
	cells []string
}

type tabviewData struct {
	barSize int
	bar     NodeID
	content NodeID
	buttons []NodeID
	tabs    []NodeID
	active  int
}

type listData struct {
	nextY int
}

type msgboxData struct {
	title   NodeID
	body    NodeID
	buttons []NodeID
}

// create is the common constructor path: parent validity check, arena
// allocation, theme defaults.
func (o Object) create(kind Kind) (Object, error) {
	n, ok := o.ctx.node(o)
	if !ok {
		return Object{}, ErrInvalidObject
	}
	child := o.ctx.newObject(n.id, kind)
	o.ctx.theme.apply(child)
	o.ctx.invalidateNode(o.ctx.nodes[child.id])
	return child, nil
}

// NewPanel creates a plain container.
func (o Object) NewPanel() (Object, error) {
	obj, err := o.create(KindPanel)
	if err != nil {
		return Object{}, err
	}
	obj.SetSize(100, 60)
	return obj, nil
}

// NewLabel creates a text label. Labels size themselves to their text
// until an explicit size is set.
func (o Object) NewLabel() (Object, error) {
	obj, err := o.create(KindLabel)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &textData{}
	return obj, nil
}

// NewButton creates a clickable button. Give it a label child for text.
func (o Object) NewButton() (Object, error) {
	obj, err := o.create(KindButton)
	if err != nil {
		return Object{}, err
	}
	obj.SetSize(80, 32)
	obj.SetClickable(true)
	return obj, nil
}

// NewButtonMatrix creates a grid of text buttons. Rows are separated by
// "\n" entries in the map, following the usual button-matrix convention.
func (o Object) NewButtonMatrix() (Object, error) {
	obj, err := o.create(KindButtonMatrix)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &matrixData{}
	obj.SetSize(200, 120)
	obj.SetClickable(true)
	return obj, nil
}

// NewImage creates an image widget.
func (o Object) NewImage() (Object, error) {
	obj, err := o.create(KindImage)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &imageData{zoom: 256}
	return obj, nil
}

// NewLine creates a polyline widget.
func (o Object) NewLine() (Object, error) {
	obj, err := o.create(KindLine)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &lineData{}
	return obj, nil
}

// NewBar creates a progress bar with range 0..100.
func (o Object) NewBar() (Object, error) {
	obj, err := o.create(KindBar)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &rangeData{min: 0, max: 100}
	obj.SetSize(160, 10)
	return obj, nil
}

// NewSlider creates a draggable slider with range 0..100.
func (o Object) NewSlider() (Object, error) {
	obj, err := o.create(KindSlider)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &rangeData{min: 0, max: 100}
	obj.SetSize(160, 10)
	obj.SetClickable(true)
	return obj, nil
}

// NewSwitch creates an on/off switch.
func (o Object) NewSwitch() (Object, error) {
	obj, err := o.create(KindSwitch)
	if err != nil {
		return Object{}, err
	}
	obj.SetSize(46, 24)
	obj.SetClickable(true)
	return obj, nil
}

// NewCheckbox creates a checkbox with a text label beside the box.
func (o Object) NewCheckbox() (Object, error) {
	obj, err := o.create(KindCheckbox)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &textData{}
	obj.SetSize(120, 20)
	obj.SetClickable(true)
	return obj, nil
}

// NewArc creates an arc gauge. The default background arc spans 135..45
// degrees (a 270 degree dial open at the bottom).
func (o Object) NewArc() (Object, error) {
	obj, err := o.create(KindArc)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &rangeData{
		min: 0, max: 100,
		arc: &arcData{bgStart: 135, bgEnd: 45},
	}
	obj.SetSize(80, 80)
	obj.SetClickable(true)
	return obj, nil
}

// NewSpinner creates an indefinite loading spinner. The arc phase is
// driven by the context clock.
func (o Object) NewSpinner() (Object, error) {
	obj, err := o.create(KindSpinner)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &spinnerData{periodMS: 1000, arcLen: 270}
	obj.SetSize(50, 50)
	return obj, nil
}

// NewLED creates an LED indicator.
func (o Object) NewLED() (Object, error) {
	obj, err := o.create(KindLED)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &ledData{color: Hex(0x00FF88), brightness: 255}
	obj.SetSize(20, 20)
	return obj, nil
}

// NewChart creates a chart with no series. Add series through the Series
// view.
func (o Object) NewChart() (Object, error) {
	obj, err := o.create(KindChart)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &chartData{typ: ChartTypeLine, min: 0, max: 100, pointCount: 10, hDiv: 3, vDiv: 5}
	obj.SetSize(200, 100)
	return obj, nil
}

// NewDropdown creates a dropdown selector.
func (o Object) NewDropdown() (Object, error) {
	obj, err := o.create(KindDropdown)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &selectData{visibleRows: 5}
	obj.SetSize(140, 28)
	obj.SetClickable(true)
	return obj, nil
}

// NewRoller creates a roller selector.
func (o Object) NewRoller() (Object, error) {
	obj, err := o.create(KindRoller)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &selectData{visibleRows: 3}
	obj.SetSize(100, 60)
	obj.SetClickable(true)
	return obj, nil
}

// NewTextarea creates a text input area.
func (o Object) NewTextarea() (Object, error) {
	obj, err := o.create(KindTextarea)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &textData{}
	obj.SetSize(180, 50)
	obj.SetClickable(true)
	return obj, nil
}

// NewSpinbox creates a numeric spinbox.
func (o Object) NewSpinbox() (Object, error) {
	obj, err := o.create(KindSpinbox)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &rangeData{min: 0, max: 100}
	obj.SetSize(100, 28)
	obj.SetClickable(true)
	return obj, nil
}

// NewTabview creates a tab view: a button bar plus one content panel per
// tab. Clicking a bar button activates its tab.
func (o Object) NewTabview() (Object, error) {
	obj, err := o.create(KindTabview)
	if err != nil {
		return Object{}, err
	}
	c := obj.ctx
	n := c.nodes[obj.id]
	obj.SetSize(200, 160)

	bar, err := obj.create(KindPanel)
	if err != nil {
		return Object{}, err
	}
	content, err := obj.create(KindPanel)
	if err != nil {
		return Object{}, err
	}
	tv := &tabviewData{barSize: 28, bar: bar.id, content: content.id, active: -1}
	n.data = tv
	c.layoutTabview(n)
	return obj, nil
}

// NewList creates a vertically stacking list container.
func (o Object) NewList() (Object, error) {
	obj, err := o.create(KindList)
	if err != nil {
		return Object{}, err
	}
	n := obj.ctx.nodes[obj.id]
	n.data = &listData{}
	obj.SetSize(160, 160)
	return obj, nil
}

// NewMessageBox creates a message box with a title, body text and a row
// of buttons. Button i fires Clicked on the object returned by the
// MsgBox view's Button(i).
func (o Object) NewMessageBox(title, text string, buttons []string) (Object, error) {
	obj, err := o.create(KindMessageBox)
	if err != nil {
		return Object{}, err
	}
	c := obj.ctx
	obj.SetSize(220, 130)
	obj.Center()

	titleLbl, err := obj.NewLabel()
	if err != nil {
		return Object{}, err
	}
	tv, _ := titleLbl.Text()
	tv.SetText(title)
	titleLbl.Align(AlignTopMid, 0, 6)

	bodyLbl, err := obj.NewLabel()
	if err != nil {
		return Object{}, err
	}
	bv, _ := bodyLbl.Text()
	bv.SetText(text)
	bodyLbl.Align(AlignTopMid, 0, 30)

	mb := &msgboxData{title: titleLbl.id, body: bodyLbl.id}
	bw := 60
	for i, label := range buttons {
		btn, err := obj.NewButton()
		if err != nil {
			return Object{}, err
		}
		btn.SetSize(bw, 26)
		btn.Align(AlignBottomLeft, 8+i*(bw+8), -8)
		lbl, err := btn.NewLabel()
		if err != nil {
			return Object{}, err
		}
		lv, _ := lbl.Text()
		lv.SetText(label)
		lbl.Center()
		mb.buttons = append(mb.buttons, btn.id)
	}
	c.nodes[obj.id].data = mb
	return obj, nil
}

// layoutTabview positions the bar and content panels and the tab buttons
// inside the bar.
func (c *Context) layoutTabview(n *node) {
	tv, ok := n.data.(*tabviewData)
	if !ok {
		return
	}
	if bar, ok := c.nodes[tv.bar]; ok {
		bar.x, bar.y = 0, 0
		bar.w, bar.h = n.w, tv.barSize
	}
	if content, ok := c.nodes[tv.content]; ok {
		content.x, content.y = 0, tv.barSize
		content.w, content.h = n.w, n.h-tv.barSize
	}
	if len(tv.buttons) > 0 {
		bw := n.w / len(tv.buttons)
		for i, id := range tv.buttons {
			if b, ok := c.nodes[id]; ok {
				b.x, b.y = i*bw, 0
				b.w, b.h = bw, tv.barSize
			}
		}
	}
	c.invalidateNode(n)
}
