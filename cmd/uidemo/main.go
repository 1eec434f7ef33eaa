// Command uidemo runs the widget gallery in a terminal window. It needs
// no hardware: the simulator draws RGB565 pixels as half-block cells and
// feeds mouse input back as a pointer device. Quit with q or Esc.
package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"embui"
	"embui/internal/applog"
	"embui/sim"
)

const (
	demoWidth  = 320
	demoHeight = 240
	// Draw buffer covers 24 lines, a tenth of the screen.
	bufLines = 24
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	light := flag.Bool("light", false, "Use the light theme")
	sound := flag.Bool("sound", false, "Play a click tone on button presses")
	flag.Parse()

	applog.SetVerbose(*verbose)

	clicker := newClicker(*sound)

	win, err := sim.NewWindow(demoWidth, demoHeight)
	if err != nil {
		applog.Error("opening simulator window", err)
		os.Exit(1)
	}
	defer win.Close()

	ui := embui.New()
	if err := ui.Init(); err != nil {
		applog.Error("initializing UI runtime", err)
		os.Exit(1)
	}
	if *light {
		ui.SetTheme(embui.LightTheme())
	}

	disp, err := ui.NewDisplay(demoWidth, demoHeight)
	if err != nil {
		applog.Error("creating display", err)
		os.Exit(1)
	}
	buf1 := make([]byte, embui.BufSize(demoWidth, bufLines))
	buf2 := make([]byte, embui.BufSize(demoWidth, bufLines))
	if err := disp.SetBuffers(buf1, buf2, embui.RenderModePartial); err != nil {
		applog.Error("binding draw buffers", err)
		os.Exit(1)
	}
	disp.SetFlushFunc(func(d *embui.Display, area embui.Rect, pixels []byte) {
		win.Flush(area, pixels)
		d.FlushReady()
	})

	ptr, err := ui.NewInputDevice(embui.InputPointer)
	if err != nil {
		applog.Error("creating input device", err)
		os.Exit(1)
	}
	ptr.SetReadFunc(func(_ *embui.InputDevice, s *embui.InputSample) {
		x, y, pressed := win.Pointer()
		s.X, s.Y = x, y
		if pressed {
			s.State = embui.InputPressed
		}
	})

	if err := buildGallery(ui, clicker); err != nil {
		applog.Error("building demo UI", err)
		os.Exit(1)
	}

	applog.Info("uidemo running", "size", "320x240", "quit", "q / Esc")

	last := time.Now()
	for win.PollEvents() {
		now := time.Now()
		ui.TickInc(uint32(now.Sub(last).Milliseconds()))
		last = now

		wait := ui.TaskHandler()
		win.Render()

		if wait > 16 {
			wait = 16
		}
		time.Sleep(time.Duration(wait) * time.Millisecond)
	}
	applog.Info("uidemo exiting")
}

// buildGallery assembles the three demo tabs on the active screen.
func buildGallery(ui *embui.Context, click *clicker) error {
	scr, err := ui.ActiveScreen()
	if err != nil {
		return err
	}

	tv, err := scr.NewTabview()
	if err != nil {
		return err
	}
	tv.SetSize(demoWidth, demoHeight)
	tabs, err := tv.Tabs()
	if err != nil {
		return err
	}

	controls, err := tabs.AddTab("Ctl")
	if err != nil {
		return err
	}
	if err := buildControlsTab(controls, click); err != nil {
		return err
	}

	data, err := tabs.AddTab("Data")
	if err != nil {
		return err
	}
	if err := buildDataTab(data); err != nil {
		return err
	}

	input, err := tabs.AddTab("In")
	if err != nil {
		return err
	}
	return buildInputTab(input, click)
}

func buildControlsTab(tab embui.Object, click *clicker) error {
	led, err := tab.NewLED()
	if err != nil {
		return err
	}
	led.SetPos(250, 16)
	led.SetSize(24, 24)
	ledv, err := led.Led()
	if err != nil {
		return err
	}
	ledv.SetColor(embui.Hex(0x00C853))

	btn, err := tab.NewButton()
	if err != nil {
		return err
	}
	btn.SetPos(16, 12)
	btn.SetSize(100, 32)
	if tv, terr := btn.Text(); terr == nil {
		tv.SetText("Toggle LED")
	}
	if _, err := btn.AddEventFunc(embui.EventClicked, func(e embui.Event) {
		ledv.Toggle()
		click.play()
	}); err != nil {
		return err
	}

	valueLabel, err := tab.NewLabel()
	if err != nil {
		return err
	}
	valueLabel.SetPos(230, 64)
	if tv, terr := valueLabel.Text(); terr == nil {
		tv.SetText("50")
	}

	slider, err := tab.NewSlider()
	if err != nil {
		return err
	}
	slider.SetPos(16, 66)
	slider.SetSize(200, 12)
	sl, err := slider.Range()
	if err != nil {
		return err
	}
	sl.SetRange(0, 100)
	sl.SetValue(50)
	if _, err := slider.AddEventFunc(embui.EventValueChanged, func(e embui.Event) {
		if tv, terr := valueLabel.Text(); terr == nil {
			tv.SetText(strconv.Itoa(int(e.Value)))
		}
	}); err != nil {
		return err
	}

	sw, err := tab.NewSwitch()
	if err != nil {
		return err
	}
	sw.SetPos(16, 100)
	sw.SetSize(48, 24)

	cb, err := tab.NewCheckbox()
	if err != nil {
		return err
	}
	cb.SetPos(84, 102)
	if tv, terr := cb.Text(); terr == nil {
		tv.SetText("Enable")
	}

	spinner, err := tab.NewSpinner()
	if err != nil {
		return err
	}
	spinner.SetPos(16, 140)
	spinner.SetSize(48, 48)

	arc, err := tab.NewArc()
	if err != nil {
		return err
	}
	arc.SetPos(96, 136)
	arc.SetSize(56, 56)
	av, err := arc.Range()
	if err != nil {
		return err
	}
	av.SetRange(0, 100)
	av.SetValue(65)

	return nil
}

func buildDataTab(tab embui.Object) error {
	chart, err := tab.NewChart()
	if err != nil {
		return err
	}
	chart.SetPos(16, 12)
	chart.SetSize(180, 90)
	series, err := chart.Series()
	if err != nil {
		return err
	}
	series.SetRange(0, 100)
	series.SetPointCount(10)
	sid, err := series.AddSeries(embui.Hex(0x2196F3))
	if err != nil {
		return err
	}
	series.SetValues(sid, 10, 35, 20, 60, 45, 80, 55, 90, 70, 100)

	bar, err := tab.NewBar()
	if err != nil {
		return err
	}
	bar.SetPos(16, 116)
	bar.SetSize(180, 10)
	bv, err := bar.Range()
	if err != nil {
		return err
	}
	bv.SetRange(0, 100)
	bv.SetValue(72)

	dd, err := tab.NewDropdown()
	if err != nil {
		return err
	}
	dd.SetPos(210, 12)
	dd.SetSize(90, 24)
	sel, err := dd.Select()
	if err != nil {
		return err
	}
	sel.SetOptions("Red", "Green", "Blue")

	roller, err := tab.NewRoller()
	if err != nil {
		return err
	}
	roller.SetPos(210, 48)
	roller.SetSize(90, 72)
	rsel, err := roller.Select()
	if err != nil {
		return err
	}
	rsel.SetOptions("Mon", "Tue", "Wed", "Thu", "Fri")
	rsel.SetVisibleRows(3)
	rsel.SetSelected(2)

	return nil
}

func buildInputTab(tab embui.Object, click *clicker) error {
	ta, err := tab.NewTextarea()
	if err != nil {
		return err
	}
	ta.SetPos(16, 12)
	ta.SetSize(180, 60)
	tv, err := ta.Text()
	if err != nil {
		return err
	}
	tv.SetPlaceholder("Type here...")

	mtx, err := tab.NewButtonMatrix()
	if err != nil {
		return err
	}
	mtx.SetPos(16, 84)
	mtx.SetSize(284, 90)
	mv, err := mtx.Matrix()
	if err != nil {
		return err
	}
	mv.SetMap([]string{"1", "2", "3", "\n", "4", "5", "6", "\n", "7", "8", "9"})
	if _, err := mtx.AddEventFunc(embui.EventValueChanged, func(e embui.Event) {
		if text := mv.CellText(int(e.Value)); text != "" {
			tv.InsertText(text)
			click.play()
		}
	}); err != nil {
		return err
	}

	return nil
}

// clicker plays a short sine blip through the speaker when enabled.
type clicker struct {
	enabled bool
	rate    beep.SampleRate
}

func newClicker(enabled bool) *clicker {
	c := &clicker{enabled: enabled, rate: beep.SampleRate(48000)}
	if !enabled {
		return c
	}
	if err := speaker.Init(c.rate, c.rate.N(100*time.Millisecond)); err != nil {
		applog.Warn("speaker init failed, sound disabled", "err", err)
		c.enabled = false
	}
	return c
}

func (c *clicker) play() {
	if !c.enabled {
		return
	}
	tone, err := generators.SineTone(c.rate, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(c.rate.N(60*time.Millisecond), tone))
}
