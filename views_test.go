package embui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScreen(t *testing.T) (*Context, Object) {
	t.Helper()
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	return c, scr
}

func TestTextViewLabelGrowsToFit(t *testing.T) {
	_, scr := testScreen(t)
	lbl, err := scr.NewLabel()
	require.NoError(t, err)

	tv, err := lbl.Text()
	require.NoError(t, err)
	tv.SetText("hello")

	w, h, err := lbl.Size()
	require.NoError(t, err)
	assert.Equal(t, 5*fontAdvance, w)
	assert.Equal(t, fontHeight, h)
	assert.Equal(t, "hello", tv.Text())
}

func TestTextViewUnsupportedKind(t *testing.T) {
	_, scr := testScreen(t)
	panel, err := scr.NewPanel()
	require.NoError(t, err)

	_, err = panel.Text()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTextViewButtonResolvesToLabelChild(t *testing.T) {
	_, scr := testScreen(t)
	btn, err := scr.NewButton()
	require.NoError(t, err)
	assert.Equal(t, 0, btn.ChildCount())

	tv, err := btn.Text()
	require.NoError(t, err)
	tv.SetText("OK")
	assert.Equal(t, 1, btn.ChildCount())

	// A second lookup reuses the same label.
	tv2, err := btn.Text()
	require.NoError(t, err)
	assert.Equal(t, "OK", tv2.Text())
	assert.Equal(t, 1, btn.ChildCount())
}

func TestTextViewMaxLengthTruncates(t *testing.T) {
	_, scr := testScreen(t)
	ta, err := scr.NewTextarea()
	require.NoError(t, err)

	tv, err := ta.Text()
	require.NoError(t, err)
	tv.SetMaxLength(5)
	tv.SetText("abcdefgh")
	assert.Equal(t, "abcde", tv.Text())

	tv.InsertText("x")
	assert.Equal(t, "abcde", tv.Text())
}

func TestTextViewInsertAtCursor(t *testing.T) {
	_, scr := testScreen(t)
	ta, err := scr.NewTextarea()
	require.NoError(t, err)

	tv, err := ta.Text()
	require.NoError(t, err)
	tv.SetText("helloworld")
	tv.SetCursor(5)
	tv.InsertText(", ")
	assert.Equal(t, "hello, world", tv.Text())
	assert.Equal(t, 7, tv.Cursor())

	tv.SetCursor(-4)
	assert.Equal(t, 0, tv.Cursor())
	tv.SetCursor(999)
	assert.Equal(t, len("hello, world"), tv.Cursor())
}

func TestTextareaFiresValueChanged(t *testing.T) {
	_, scr := testScreen(t)
	ta, err := scr.NewTextarea()
	require.NoError(t, err)

	var got []int32
	_, err = ta.AddEventFunc(EventValueChanged, func(e Event) {
		got = append(got, e.Value)
	})
	require.NoError(t, err)

	tv, err := ta.Text()
	require.NoError(t, err)
	tv.SetText("ab")
	tv.InsertText("cd")
	assert.Equal(t, []int32{2, 4}, got)
}

func TestRangeViewClampsAndFires(t *testing.T) {
	_, scr := testScreen(t)
	sld, err := scr.NewSlider()
	require.NoError(t, err)

	var fired []int32
	_, err = sld.AddEventFunc(EventValueChanged, func(e Event) {
		fired = append(fired, e.Value)
	})
	require.NoError(t, err)

	rv, err := sld.Range()
	require.NoError(t, err)

	rv.SetValue(250)
	assert.Equal(t, int32(100), rv.Value())
	rv.SetValue(100) // unchanged: no event
	rv.SetValue(-5)
	assert.Equal(t, int32(0), rv.Value())
	assert.Equal(t, []int32{100, 0}, fired)
}

func TestRangeViewSetRangeSwapsAndReclamps(t *testing.T) {
	_, scr := testScreen(t)
	bar, err := scr.NewBar()
	require.NoError(t, err)

	rv, err := bar.Range()
	require.NoError(t, err)
	rv.SetValue(80)
	rv.SetRange(50, 10)

	min, max := rv.Range()
	assert.Equal(t, int32(10), min)
	assert.Equal(t, int32(50), max)
	assert.Equal(t, int32(50), rv.Value())
}

func TestRangeViewUnsupportedKind(t *testing.T) {
	_, scr := testScreen(t)
	lbl, err := scr.NewLabel()
	require.NoError(t, err)

	_, err = lbl.Range()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToggleViewDoesNotFire(t *testing.T) {
	_, scr := testScreen(t)
	sw, err := scr.NewSwitch()
	require.NoError(t, err)

	fired := 0
	_, err = sw.AddEventFunc(EventValueChanged, func(Event) { fired++ })
	require.NoError(t, err)

	tg, err := sw.Toggle()
	require.NoError(t, err)
	assert.False(t, tg.Checked())
	tg.SetChecked(true)
	assert.True(t, tg.Checked())
	tg.SetChecked(false)
	assert.False(t, tg.Checked())
	assert.Equal(t, 0, fired)
}

func TestSelectViewOptions(t *testing.T) {
	_, scr := testScreen(t)
	dd, err := scr.NewDropdown()
	require.NoError(t, err)

	sv, err := dd.Select()
	require.NoError(t, err)

	sv.SetOptions("red\ngreen\nblue")
	assert.Equal(t, 0, sv.Selected())
	assert.Equal(t, "red", sv.SelectedText())

	var fired []int32
	_, err = dd.AddEventFunc(EventValueChanged, func(e Event) {
		fired = append(fired, e.Value)
	})
	require.NoError(t, err)

	sv.SetSelected(2)
	assert.Equal(t, "blue", sv.SelectedText())
	sv.SetSelected(2) // unchanged: no event
	sv.SetSelected(7) // out of range: ignored
	assert.Equal(t, 2, sv.Selected())
	assert.Equal(t, []int32{2}, fired)

	// Shrinking the list resets a now-invalid selection.
	sv.SetOptions("one", "two")
	assert.Equal(t, 0, sv.Selected())
}

func TestSeriesViewRingBuffer(t *testing.T) {
	_, scr := testScreen(t)
	ch, err := scr.NewChart()
	require.NoError(t, err)

	sv, err := ch.Series()
	require.NoError(t, err)
	sv.SetPointCount(3)

	id, err := sv.AddSeries(ColorRed)
	require.NoError(t, err)

	for _, v := range []int32{10, 20, 30, 40} {
		sv.SetNext(id, v)
	}
	// The fourth write wrapped around and replaced the oldest point.
	cd := scr.ctx.nodes[ch.id].data.(*chartData)
	assert.Equal(t, []int32{40, 20, 30}, cd.series[id].points)

	sv.SetValues(id, 1, 2)
	assert.Equal(t, []int32{1, 2, 30}, cd.series[id].points)
	assert.Equal(t, 2, cd.series[id].next)
}

func TestSeriesViewUnknownSeriesIgnored(t *testing.T) {
	_, scr := testScreen(t)
	ch, err := scr.NewChart()
	require.NoError(t, err)

	sv, err := ch.Series()
	require.NoError(t, err)
	sv.SetNext(SeriesID(3), 42) // no series yet: no-op
}

func TestLedViewToggle(t *testing.T) {
	_, scr := testScreen(t)
	led, err := scr.NewLED()
	require.NoError(t, err)

	lv, err := led.Led()
	require.NoError(t, err)
	assert.False(t, lv.IsOn())
	lv.On()
	assert.True(t, lv.IsOn())
	lv.Toggle()
	assert.False(t, lv.IsOn())
}

func TestLineViewGrowsWidget(t *testing.T) {
	_, scr := testScreen(t)
	ln, err := scr.NewLine()
	require.NoError(t, err)

	lv, err := ln.Line()
	require.NoError(t, err)
	lv.SetPoints([]Point{{X: 0, Y: 0}, {X: 49, Y: 19}})

	w, h, err := ln.Size()
	require.NoError(t, err)
	assert.Equal(t, 50, w)
	assert.Equal(t, 20, h)
}

func TestMatrixViewCellTextSkipsRowBreaks(t *testing.T) {
	_, scr := testScreen(t)
	m, err := scr.NewButtonMatrix()
	require.NoError(t, err)

	mv, err := m.Matrix()
	require.NoError(t, err)
	mv.SetMap([]string{"1", "2", "\n", "3", "4"})

	assert.Equal(t, "2", mv.CellText(1))
	assert.Equal(t, "3", mv.CellText(2))
	assert.Equal(t, "", mv.CellText(9))
}

func TestTabsViewActivation(t *testing.T) {
	_, scr := testScreen(t)
	tabs, err := scr.NewTabview()
	require.NoError(t, err)

	tb, err := tabs.Tabs()
	require.NoError(t, err)
	assert.Equal(t, -1, tb.ActiveTab())

	page1, err := tb.AddTab("one")
	require.NoError(t, err)
	page2, err := tb.AddTab("two")
	require.NoError(t, err)

	// The first tab becomes active automatically.
	assert.Equal(t, 0, tb.ActiveTab())
	assert.False(t, page1.Hidden())
	assert.True(t, page2.Hidden())

	require.NoError(t, tb.SetActiveTab(1))
	assert.True(t, page1.Hidden())
	assert.False(t, page2.Hidden())

	bar, err := tb.TabBar()
	require.NoError(t, err)
	btn2, err := bar.Child(1)
	require.NoError(t, err)
	assert.True(t, btn2.HasState(StateChecked))

	assert.ErrorIs(t, tb.SetActiveTab(5), ErrInvalidParameter)
	assert.ErrorIs(t, tb.SetActiveTab(-1), ErrInvalidParameter)
}

func TestListViewStacksRows(t *testing.T) {
	_, scr := testScreen(t)
	list, err := scr.NewList()
	require.NoError(t, err)

	lv, err := list.ListOps()
	require.NoError(t, err)

	hdr, err := lv.AddText("Section")
	require.NoError(t, err)
	btn, err := lv.AddButton("Item")
	require.NoError(t, err)

	_, hy, err := hdr.Pos()
	require.NoError(t, err)
	_, by, err := btn.Pos()
	require.NoError(t, err)
	assert.Equal(t, 0, hy)
	assert.Equal(t, 20, by)

	bw, _, err := btn.Size()
	require.NoError(t, err)
	lw, _, err := list.Size()
	require.NoError(t, err)
	assert.Equal(t, lw, bw)
}

func TestMsgBoxButtonsAndClose(t *testing.T) {
	_, scr := testScreen(t)
	box, err := scr.NewMessageBox("Confirm", "Really?", []string{"Yes", "No"})
	require.NoError(t, err)

	mb, err := box.MsgBox()
	require.NoError(t, err)

	no, err := mb.Button(1)
	require.NoError(t, err)
	tv, err := no.Text()
	require.NoError(t, err)
	assert.Equal(t, "No", tv.Text())

	_, err = mb.Button(2)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	require.NoError(t, mb.Close())
	assert.False(t, box.Valid())
	assert.False(t, no.Valid())
}

func TestViewOnStaleHandle(t *testing.T) {
	_, scr := testScreen(t)
	sld, err := scr.NewSlider()
	require.NoError(t, err)
	rv, err := sld.Range()
	require.NoError(t, err)

	require.NoError(t, sld.Delete())
	rv.SetValue(50) // stale: silent no-op
	assert.Equal(t, int32(0), rv.Value())

	_, err = sld.Range()
	assert.True(t, errors.Is(err, ErrInvalidObject))
}
