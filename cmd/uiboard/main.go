// Command uiboard drives the widget runtime on real hardware: an ST7789
// or ILI9341 panel over SPI, optionally a CST816 touch controller over
// I2C. Wiring comes from a YAML config file; a missing file is created
// with defaults on first run.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"embui"
	"embui/drivers/pisugar"
	"embui/internal/appcfg"
	"embui/internal/applog"
	"embui/internal/board"
)

func main() {
	configPath := flag.String("config", "/etc/embui/config.yaml", "Path to config file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	applog.SetVerbose(*verbose)
	applog.Info("uiboard starting", "config", *configPath)

	cfg, err := appcfg.Load(*configPath)
	if err != nil {
		applog.Error("loading config", err, "path", *configPath)
		os.Exit(1)
	}

	if _, err := host.Init(); err != nil {
		applog.Error("initializing periph host", err)
		os.Exit(1)
	}

	panel, err := board.OpenPanel(&cfg.Display)
	if err != nil {
		applog.Error("opening panel", err)
		os.Exit(1)
	}
	if err := panel.Init(); err != nil {
		applog.Error("initializing panel", err)
		os.Exit(1)
	}
	width, height := panel.Width(), panel.Height()
	applog.Info("panel ready", "driver", cfg.Display.Driver, "width", width, "height", height)

	ui := embui.New()
	if err := ui.Init(); err != nil {
		applog.Error("initializing UI runtime", err)
		os.Exit(1)
	}
	if cfg.UI.Theme == "light" {
		ui.SetTheme(embui.LightTheme())
	}
	if cfg.UI.LongPressMS > 0 {
		ui.SetLongPressTime(uint32(cfg.UI.LongPressMS))
	}

	disp, err := ui.NewDisplay(width, height)
	if err != nil {
		applog.Error("creating display", err)
		os.Exit(1)
	}
	disp.SetRotation(board.RotationFromDegrees(cfg.Display.Rotation))

	lines := height / 10
	if lines < 1 {
		lines = 1
	}
	buf1 := make([]byte, embui.BufSize(width, lines))
	buf2 := make([]byte, embui.BufSize(width, lines))
	if err := disp.SetBuffers(buf1, buf2, embui.RenderModePartial); err != nil {
		applog.Error("binding draw buffers", err)
		os.Exit(1)
	}
	disp.SetFlushFunc(func(d *embui.Display, area embui.Rect, pixels []byte) {
		if err := panel.Flush(area, pixels); err != nil {
			applog.Error("panel flush failed", err)
		}
		d.FlushReady()
	})

	if cfg.Touch.Enabled {
		if err := board.WireTouch(ui, &cfg.Touch, width, height); err != nil {
			// Touch is optional; run output-only when it fails.
			applog.Error("touch init failed, continuing without touch", err)
		}
	}

	if err := buildBoardUI(ui, width, height); err != nil {
		applog.Error("building UI", err)
		os.Exit(1)
	}

	var gauge *batteryGauge
	if cfg.Battery.Enabled {
		gauge, err = wireBattery(ui, &cfg.Battery)
		if err != nil {
			applog.Error("battery gauge init failed, continuing without it", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	last := time.Now()
	running := true
	for running {
		select {
		case sig := <-sigCh:
			applog.Info("signal received, shutting down", "signal", sig.String())
			running = false
		default:
		}

		now := time.Now()
		ui.TickInc(uint32(now.Sub(last).Milliseconds()))
		last = now
		if gauge != nil {
			gauge.step(now)
		}

		wait := ui.TaskHandler()
		if wait > 5 {
			wait = 5
		}
		time.Sleep(time.Duration(wait) * time.Millisecond)
	}

	// Put the glass to sleep so a headless board doesn't stay lit.
	if err := panel.Backlight(false); err == nil {
		_ = panel.Sleep()
	}
	applog.Info("uiboard exiting")
}

// buildBoardUI assembles the hardware demo screen: an arc gauge fed by
// a slider, a switch and status labels.
func buildBoardUI(ui *embui.Context, width, height int) error {
	scr, err := ui.ActiveScreen()
	if err != nil {
		return err
	}

	title, err := scr.NewLabel()
	if err != nil {
		return err
	}
	title.Align(embui.AlignTopMid, 0, 6)
	if tv, terr := title.Text(); terr == nil {
		tv.SetText("embui board demo")
	}

	arc, err := scr.NewArc()
	if err != nil {
		return err
	}
	arcSize := height / 2
	arc.SetSize(arcSize, arcSize)
	arc.Align(embui.AlignCenter, 0, -height/12)
	av, err := arc.Range()
	if err != nil {
		return err
	}
	av.SetRange(0, 100)

	arcLabel, err := scr.NewLabel()
	if err != nil {
		return err
	}
	arcLabel.Align(embui.AlignCenter, 0, -height/12)
	arcText, err := arcLabel.Text()
	if err != nil {
		return err
	}
	arcText.SetText("50")
	if _, err := arc.AddEventFunc(embui.EventValueChanged, func(e embui.Event) {
		arcText.SetText(strconv.Itoa(int(e.Value)))
	}); err != nil {
		return err
	}

	slider, err := scr.NewSlider()
	if err != nil {
		return err
	}
	slider.SetSize(width*2/3, 12)
	slider.Align(embui.AlignBottomMid, 0, -height/6)
	sv, err := slider.Range()
	if err != nil {
		return err
	}
	sv.SetRange(0, 100)
	sv.SetValue(50)
	av.SetValue(50)
	if _, err := slider.AddEventFunc(embui.EventValueChanged, func(e embui.Event) {
		av.SetValue(e.Value)
	}); err != nil {
		return err
	}

	sw, err := scr.NewSwitch()
	if err != nil {
		return err
	}
	sw.SetSize(48, 24)
	sw.Align(embui.AlignBottomLeft, 12, -12)

	status, err := scr.NewLabel()
	if err != nil {
		return err
	}
	status.Align(embui.AlignBottomRight, -12, -12)
	statusText, err := status.Text()
	if err != nil {
		return err
	}
	statusText.SetText("off")
	if _, err := sw.AddEventFunc(embui.EventValueChanged, func(e embui.Event) {
		if e.Value != 0 {
			statusText.SetText("on")
		} else {
			statusText.SetText("off")
		}
	}); err != nil {
		return err
	}

	return nil
}

// batteryGaugePeriod is how often the fuel gauge is re-read; the
// controller updates its estimate far slower than the UI loop runs.
const batteryGaugePeriod = 30 * time.Second

// batteryGauge shows the PiSugar charge level in the screen corner.
type batteryGauge struct {
	dev  *pisugar.Dev
	text embui.TextView
	next time.Time
}

func wireBattery(ui *embui.Context, bc *appcfg.BatteryConfig) (*batteryGauge, error) {
	bus, err := i2creg.Open(bc.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("opening I2C bus %q: %w", bc.I2CBus, err)
	}

	scr, err := ui.ActiveScreen()
	if err != nil {
		return nil, err
	}
	label, err := scr.NewLabel()
	if err != nil {
		return nil, err
	}
	label.Align(embui.AlignTopRight, -6, 6)
	text, err := label.Text()
	if err != nil {
		return nil, err
	}
	text.SetText("--%")

	return &batteryGauge{dev: pisugar.New(bus), text: text}, nil
}

// step re-reads the gauge when the period elapsed. A failed read keeps
// the previous value; the next period retries.
func (g *batteryGauge) step(now time.Time) {
	if now.Before(g.next) {
		return
	}
	g.next = now.Add(batteryGaugePeriod)

	st, err := g.dev.Read()
	if err != nil {
		applog.Debug("battery read failed", "err", err)
		return
	}
	g.text.SetText(strconv.Itoa(st.Percent) + "%")
}
