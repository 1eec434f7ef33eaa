package embui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleUnsetPropertiesDoNotContribute(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	panel, err := scr.NewPanel()
	require.NoError(t, err)

	s := NewStyle()
	s.SetBorderWidth(3)
	require.NoError(t, panel.AddStyle(s, SelDefault))

	n, ok := c.node(panel)
	require.True(t, ok)

	assert.Equal(t, int32(3), c.styleInt(n, propBorderWidth, PartMain, 0))
	// Background color was never set on s; the default wins.
	assert.Equal(t, Hex(0xABCDEF), c.styleColor(n, propBgColor, PartMain, Hex(0xABCDEF)))
}

func TestStyleLatestAttachmentWins(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	panel, err := scr.NewPanel()
	require.NoError(t, err)
	panel.RemoveStyle(nil) // drop theme styles for a clean slate

	first := NewStyle()
	first.SetBgColor(Hex(0x111111))
	second := NewStyle()
	second.SetBgColor(Hex(0x222222))
	require.NoError(t, panel.AddStyle(first, SelDefault))
	require.NoError(t, panel.AddStyle(second, SelDefault))

	n, _ := c.node(panel)
	assert.Equal(t, Hex(0x222222), c.styleColor(n, propBgColor, PartMain, ColorBlack))

	// The later style doesn't set border width, so the earlier one still
	// serves that property.
	first.SetBorderWidth(2)
	assert.Equal(t, int32(2), c.styleInt(n, propBorderWidth, PartMain, 0))
}

func TestStyleLocalOverridesAttached(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	panel, err := scr.NewPanel()
	require.NoError(t, err)

	shared := NewStyle()
	shared.SetBgColor(Hex(0x111111))
	require.NoError(t, panel.AddStyle(shared, SelDefault))
	panel.SetBgColor(Hex(0xFF0000))

	n, _ := c.node(panel)
	assert.Equal(t, Hex(0xFF0000), c.styleColor(n, propBgColor, PartMain, ColorBlack))
}

func TestStyleStateSelector(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	btn, err := scr.NewButton()
	require.NoError(t, err)
	btn.RemoveStyle(nil)

	base := NewStyle()
	base.SetBgColor(Hex(0x101010))
	pressed := NewStyle()
	pressed.SetBgColor(Hex(0xEE0000))
	require.NoError(t, btn.AddStyle(base, SelDefault))
	require.NoError(t, btn.AddStyle(pressed, Selector{Part: PartMain, State: StatePressed}))

	n, _ := c.node(btn)
	assert.Equal(t, Hex(0x101010), c.styleColor(n, propBgColor, PartMain, ColorBlack))

	btn.AddState(StatePressed)
	assert.Equal(t, Hex(0xEE0000), c.styleColor(n, propBgColor, PartMain, ColorBlack))

	// The selector requires only the pressed bit; extra state bits still
	// match.
	btn.AddState(StateFocused)
	assert.Equal(t, Hex(0xEE0000), c.styleColor(n, propBgColor, PartMain, ColorBlack))

	btn.ClearState(StatePressed)
	assert.Equal(t, Hex(0x101010), c.styleColor(n, propBgColor, PartMain, ColorBlack))
}

func TestStylePartSelector(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	slider, err := scr.NewSlider()
	require.NoError(t, err)
	slider.RemoveStyle(nil)

	knob := NewStyle()
	knob.SetBgColor(Hex(0x00FF00))
	require.NoError(t, slider.AddStyle(knob, Selector{Part: PartKnob}))

	n, _ := c.node(slider)
	assert.Equal(t, Hex(0x00FF00), c.styleColor(n, propBgColor, PartKnob, ColorBlack))
	// A knob style never leaks into the main part.
	assert.Equal(t, ColorBlack, c.styleColor(n, propBgColor, PartMain, ColorBlack))
}

func TestSharedStyleMutationVisibleEverywhere(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	a, err := scr.NewPanel()
	require.NoError(t, err)
	b, err := scr.NewPanel()
	require.NoError(t, err)
	a.RemoveStyle(nil)
	b.RemoveStyle(nil)

	shared := NewStyle()
	shared.SetBgColor(Hex(0x111111))
	require.NoError(t, a.AddStyle(shared, SelDefault))
	require.NoError(t, b.AddStyle(shared, SelDefault))

	shared.SetBgColor(Hex(0x999999))
	na, _ := c.node(a)
	nb, _ := c.node(b)
	assert.Equal(t, Hex(0x999999), c.styleColor(na, propBgColor, PartMain, ColorBlack))
	assert.Equal(t, Hex(0x999999), c.styleColor(nb, propBgColor, PartMain, ColorBlack))
}

func TestRemoveStyle(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	panel, err := scr.NewPanel()
	require.NoError(t, err)
	panel.RemoveStyle(nil)

	s := NewStyle()
	s.SetBgColor(Hex(0x123456))
	require.NoError(t, panel.AddStyle(s, SelDefault))
	require.NoError(t, panel.RemoveStyle(s))

	n, _ := c.node(panel)
	assert.Equal(t, ColorBlack, c.styleColor(n, propBgColor, PartMain, ColorBlack))
}

func TestAddStyleNil(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	panel, err := scr.NewPanel()
	require.NoError(t, err)

	assert.ErrorIs(t, panel.AddStyle(nil, SelDefault), ErrInvalidParameter)
}

func TestPadAllSetsFourSides(t *testing.T) {
	s := NewStyle()
	s.SetPadAll(7)
	for _, p := range []styleProp{propPadTop, propPadBottom, propPadLeft, propPadRight} {
		assert.True(t, s.has(p))
		assert.Equal(t, int32(7), s.props[p].num)
	}
}
