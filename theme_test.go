package embui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func luma(c Color) int {
	return int(c.R) + int(c.G) + int(c.B)
}

func TestShadeMovesLightness(t *testing.T) {
	base := Hex(0x808080)
	assert.Greater(t, luma(shade(base, 0.2)), luma(base))
	assert.Less(t, luma(shade(base, -0.2)), luma(base))
}

func TestShadeClampsAtExtremes(t *testing.T) {
	assert.Equal(t, ColorWhite, shade(ColorWhite, 0.5))
	assert.Equal(t, ColorBlack, shade(ColorBlack, -0.5))
}

func TestDefaultThemePalettes(t *testing.T) {
	assert.True(t, DefaultTheme().Dark)
	assert.False(t, LightTheme().Dark)
	assert.Equal(t, DarkPalette().Primary, DefaultTheme().Palette.Primary)
	assert.Equal(t, LightPalette().Primary, LightTheme().Palette.Primary)
}

func TestThemeStylesScreen(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)

	n, ok := c.node(scr)
	require.True(t, ok)
	assert.Equal(t, DarkPalette().Background, c.styleColor(n, propBgColor, PartMain, ColorRed))
	assert.Equal(t, int32(255), c.styleInt(n, propBgOpa, PartMain, 0))
}

func TestThemeStylesButtonStates(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	btn, err := scr.NewButton()
	require.NoError(t, err)

	n, ok := c.node(btn)
	require.True(t, ok)
	rest := c.styleColor(n, propBgColor, PartMain, ColorBlack)
	assert.Equal(t, DarkPalette().Primary, rest)

	btn.AddState(StatePressed)
	pressed := c.styleColor(n, propBgColor, PartMain, ColorBlack)
	assert.NotEqual(t, rest, pressed)

	btn.ClearState(StatePressed)
	btn.AddState(StateChecked)
	assert.Equal(t, DarkPalette().Secondary, c.styleColor(n, propBgColor, PartMain, ColorBlack))
}

func TestThemeSliderPartsDiffer(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	sld, err := scr.NewSlider()
	require.NoError(t, err)

	n, ok := c.node(sld)
	require.True(t, ok)
	track := c.styleColor(n, propBgColor, PartMain, ColorBlack)
	indicator := c.styleColor(n, propBgColor, PartIndicator, ColorBlack)
	assert.Equal(t, DarkPalette().Primary, indicator)
	assert.NotEqual(t, track, indicator)
	assert.Equal(t, int32(RadiusCircle), c.styleInt(n, propRadius, PartKnob, 0))
}

func TestThemeStylesAreShared(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	a, err := scr.NewButton()
	require.NoError(t, err)
	b, err := scr.NewButton()
	require.NoError(t, err)

	// The per-kind styles are shared values: retinting the theme's button
	// style restyles every button built from it.
	c.theme.styles.button.SetBgColor(Hex(0x112233))

	na, _ := c.node(a)
	nb, _ := c.node(b)
	assert.Equal(t, Hex(0x112233), c.styleColor(na, propBgColor, PartMain, ColorBlack))
	assert.Equal(t, Hex(0x112233), c.styleColor(nb, propBgColor, PartMain, ColorBlack))
}

func TestSetThemeOnlyAffectsNewWidgets(t *testing.T) {
	c := newTestContext(t)
	scr, err := c.ActiveScreen()
	require.NoError(t, err)
	old, err := scr.NewButton()
	require.NoError(t, err)

	c.SetTheme(LightTheme())
	fresh, err := scr.NewButton()
	require.NoError(t, err)

	no, _ := c.node(old)
	nf, _ := c.node(fresh)
	assert.Equal(t, DarkPalette().Primary, c.styleColor(no, propBgColor, PartMain, ColorBlack))
	assert.Equal(t, LightPalette().Primary, c.styleColor(nf, propBgColor, PartMain, ColorBlack))
}
