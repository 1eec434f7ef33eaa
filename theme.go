package embui

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the base colors a theme derives every widget style from.
type Palette struct {
	Background Color
	Surface    Color
	Primary    Color
	Secondary  Color
	Text       Color
	Border     Color
}

// DarkPalette is the default palette.
func DarkPalette() Palette {
	return Palette{
		Background: Hex(0x141414),
		Surface:    Hex(0x232323),
		Primary:    Hex(0x2196F3),
		Secondary:  Hex(0xFF9800),
		Text:       Hex(0xEAEAEA),
		Border:     Hex(0x3C3C3C),
	}
}

// LightPalette mirrors DarkPalette for bright environments.
func LightPalette() Palette {
	return Palette{
		Background: Hex(0xF2F2F2),
		Surface:    Hex(0xFFFFFF),
		Primary:    Hex(0x1976D2),
		Secondary:  Hex(0xF57C00),
		Text:       Hex(0x202020),
		Border:     Hex(0xC8C8C8),
	}
}

// Theme assigns default styles to widgets at construction time. The
// per-kind styles are shared: every button created under the same theme
// references the same Style values, so tweaking a theme style after the
// fact restyles every widget built from it.
type Theme struct {
	Palette Palette
	Dark    bool

	styles themeStyles
	built  bool
}

type themeStyles struct {
	screen      *Style
	panel       *Style
	label       *Style
	button      *Style
	btnPressed  *Style
	btnChecked  *Style
	btnDisabled *Style
	track       *Style
	indicator   *Style
	knob        *Style
	swMain      *Style
	swChecked   *Style
	field       *Style
	selected    *Style
	cursor      *Style
	led         *Style
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return Theme{Palette: DarkPalette(), Dark: true}
}

// LightTheme returns the light theme.
func LightTheme() Theme {
	return Theme{Palette: LightPalette()}
}

// SetTheme replaces the context theme. Widgets created afterwards use the
// new theme; existing widgets keep the styles they were built with.
func (c *Context) SetTheme(t Theme) {
	c.theme = t
}

// shade moves the HSL lightness of a color by delta (-1..1).
func shade(c Color, delta float64) Color {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	l += delta
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	out := colorful.Hsl(h, s, l).Clamped()
	return RGB(uint8(out.R*255+0.5), uint8(out.G*255+0.5), uint8(out.B*255+0.5))
}

func (t *Theme) build() {
	p := t.Palette
	dir := -0.08
	if !t.Dark {
		dir = 0.08
	}

	screen := NewStyle()
	screen.SetBgColor(p.Background)
	screen.SetBgOpa(255)
	screen.SetTextColor(p.Text)
	screen.SetRadius(0)

	panel := NewStyle()
	panel.SetBgColor(p.Surface)
	panel.SetBgOpa(255)
	panel.SetBorderColor(p.Border)
	panel.SetBorderWidth(1)
	panel.SetRadius(6)
	panel.SetPadAll(8)
	panel.SetTextColor(p.Text)

	label := NewStyle()
	label.SetBgOpa(0)
	label.SetTextColor(p.Text)

	button := NewStyle()
	button.SetBgColor(p.Primary)
	button.SetBgOpa(255)
	button.SetRadius(4)
	button.SetPadHor(10)
	button.SetPadVer(6)
	button.SetTextColor(ColorWhite)
	button.SetBorderWidth(0)

	btnPressed := NewStyle()
	btnPressed.SetBgColor(shade(p.Primary, 2*dir))

	btnChecked := NewStyle()
	btnChecked.SetBgColor(p.Secondary)

	btnDisabled := NewStyle()
	btnDisabled.SetBgColor(shade(p.Surface, dir))
	btnDisabled.SetTextColor(shade(p.Text, 4*dir))

	track := NewStyle()
	track.SetBgColor(shade(p.Surface, 2*dir))
	track.SetBgOpa(255)
	track.SetRadius(RadiusCircle)

	indicator := NewStyle()
	indicator.SetBgColor(p.Primary)
	indicator.SetBgOpa(255)
	indicator.SetRadius(RadiusCircle)

	knob := NewStyle()
	knob.SetBgColor(shade(p.Primary, -2*dir))
	knob.SetBgOpa(255)
	knob.SetRadius(RadiusCircle)
	knob.SetPadAll(4)

	swMain := NewStyle()
	swMain.SetBgColor(shade(p.Surface, 2*dir))
	swMain.SetBgOpa(255)
	swMain.SetRadius(RadiusCircle)

	swChecked := NewStyle()
	swChecked.SetBgColor(p.Primary)

	field := NewStyle()
	field.SetBgColor(shade(p.Surface, -dir))
	field.SetBgOpa(255)
	field.SetBorderColor(p.Border)
	field.SetBorderWidth(1)
	field.SetRadius(4)
	field.SetPadAll(6)
	field.SetTextColor(p.Text)

	selected := NewStyle()
	selected.SetBgColor(p.Primary)
	selected.SetBgOpa(255)
	selected.SetTextColor(ColorWhite)

	cursor := NewStyle()
	cursor.SetBgColor(p.Text)
	cursor.SetBgOpa(255)

	led := NewStyle()
	led.SetBgColor(p.Primary)
	led.SetBgOpa(255)
	led.SetRadius(RadiusCircle)

	t.styles = themeStyles{
		screen:      screen,
		panel:       panel,
		label:       label,
		button:      button,
		btnPressed:  btnPressed,
		btnChecked:  btnChecked,
		btnDisabled: btnDisabled,
		track:       track,
		indicator:   indicator,
		knob:        knob,
		swMain:      swMain,
		swChecked:   swChecked,
		field:       field,
		selected:    selected,
		cursor:      cursor,
		led:         led,
	}
	t.built = true
}

// apply attaches the theme's default styles to a freshly created widget.
func (t *Theme) apply(o Object) {
	if !t.built {
		t.build()
	}
	st := t.styles
	n, ok := o.ctx.node(o)
	if !ok {
		return
	}
	switch n.kind {
	case KindScreen:
		o.AddStyle(st.screen, SelDefault)
	case KindPanel, KindList, KindMessageBox:
		o.AddStyle(st.panel, SelDefault)
	case KindLabel:
		o.AddStyle(st.label, SelDefault)
	case KindButton, KindButtonMatrix:
		o.AddStyle(st.button, SelDefault)
		o.AddStyle(st.btnPressed, Selector{Part: PartMain, State: StatePressed})
		o.AddStyle(st.btnChecked, Selector{Part: PartMain, State: StateChecked})
		o.AddStyle(st.btnDisabled, Selector{Part: PartMain, State: StateDisabled})
	case KindBar, KindSlider:
		o.AddStyle(st.track, SelDefault)
		o.AddStyle(st.indicator, Selector{Part: PartIndicator})
		if n.kind == KindSlider {
			o.AddStyle(st.knob, Selector{Part: PartKnob})
		}
	case KindSwitch:
		o.AddStyle(st.swMain, SelDefault)
		o.AddStyle(st.swChecked, Selector{Part: PartMain, State: StateChecked})
		o.AddStyle(st.knob, Selector{Part: PartKnob})
	case KindCheckbox:
		o.AddStyle(st.label, SelDefault)
		o.AddStyle(st.field, Selector{Part: PartIndicator})
		o.AddStyle(st.selected, Selector{Part: PartIndicator, State: StateChecked})
	case KindArc, KindSpinner:
		o.AddStyle(st.track, SelDefault)
		o.AddStyle(st.indicator, Selector{Part: PartIndicator})
		if n.kind == KindArc {
			o.AddStyle(st.knob, Selector{Part: PartKnob})
		}
	case KindLED:
		o.AddStyle(st.led, SelDefault)
	case KindChart:
		o.AddStyle(st.field, SelDefault)
	case KindDropdown, KindRoller, KindSpinbox:
		o.AddStyle(st.field, SelDefault)
		o.AddStyle(st.selected, Selector{Part: PartSelected})
	case KindTextarea:
		o.AddStyle(st.field, SelDefault)
		o.AddStyle(st.cursor, Selector{Part: PartCursor})
	case KindTabview:
		o.AddStyle(st.screen, SelDefault)
	}
}
