// Command uical shows the next days of ICS calendar subscriptions as a
// board: items grouped by day with time labels and per-source color
// dots. Feeds refresh in the background on a cron schedule. It runs in
// the terminal simulator by default; -sim=false drives the configured
// panel instead.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"periph.io/x/host/v3"

	"embui"
	"embui/internal/agenda"
	"embui/internal/appcfg"
	"embui/internal/applog"
	"embui/internal/board"
	"embui/sim"
)

const (
	simWidth  = 320
	simHeight = 240
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	simulate := flag.Bool("sim", true, "Run in the terminal simulator instead of on hardware")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	applog.SetVerbose(*verbose)
	applog.Info("uical starting", "config", *configPath, "sim", *simulate)

	cfg, err := appcfg.Load(*configPath)
	if err != nil {
		applog.Error("loading config", err, "path", *configPath)
		os.Exit(1)
	}
	if len(cfg.Calendar.Sources) == 0 {
		applog.Warn("no calendar sources configured, the board will stay empty",
			"path", *configPath)
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		applog.Error("loading timezone, falling back to local", err, "tz", cfg.Calendar.Timezone)
		loc = time.Local
	}

	sources := make([]agenda.Source, 0, len(cfg.Calendar.Sources))
	for _, s := range cfg.Calendar.Sources {
		sources = append(sources, agenda.Source{
			ID: s.ID, URL: s.URL, Name: s.Name, Color: s.Color,
		})
	}
	svc := agenda.NewService(sources, cfg.Calendar.CacheDir, loc, cfg.Calendar.HorizonDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		applog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Background refresh: an immediate fetch at startup, then the cron
	// schedule. Items arrive on a channel so all UI work stays on the
	// loop goroutine.
	itemsCh := make(chan []agenda.Item, 1)
	refresh := func() {
		items, rerr := svc.Refresh(ctx)
		if rerr != nil {
			applog.Error("agenda refresh failed", rerr)
			return
		}
		select {
		case itemsCh <- items:
		default:
			// Loop hasn't consumed the previous batch yet; replace it.
			select {
			case <-itemsCh:
			default:
			}
			itemsCh <- items
		}
	}
	go refresh()

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Calendar.RefreshCron, func() { go refresh() }); err != nil {
		applog.Error("invalid refresh schedule", err, "cron", cfg.Calendar.RefreshCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if *simulate {
		err = runSim(ctx, cfg, loc, sources, itemsCh)
	} else {
		err = runPanel(ctx, cfg, loc, sources, itemsCh)
	}
	if err != nil {
		applog.Error("uical failed", err)
		os.Exit(1)
	}
	applog.Info("uical exiting")
}

func runSim(ctx context.Context, cfg *appcfg.Config, loc *time.Location,
	sources []agenda.Source, itemsCh <-chan []agenda.Item) error {

	win, err := sim.NewWindow(simWidth, simHeight)
	if err != nil {
		return err
	}
	defer win.Close()

	ui, disp, err := newRuntime(cfg, simWidth, simHeight)
	if err != nil {
		return err
	}
	disp.SetFlushFunc(func(d *embui.Display, area embui.Rect, pixels []byte) {
		win.Flush(area, pixels)
		d.FlushReady()
	})

	b, err := newBoardUI(ui, simWidth, simHeight, loc, sources)
	if err != nil {
		return err
	}

	last := time.Now()
	for win.PollEvents() {
		select {
		case <-ctx.Done():
			return nil
		case items := <-itemsCh:
			if err := b.setItems(items); err != nil {
				applog.Error("updating board", err)
			}
		default:
		}

		now := time.Now()
		ui.TickInc(uint32(now.Sub(last).Milliseconds()))
		last = now
		b.tickClock(now.In(loc))

		wait := ui.TaskHandler()
		win.Render()
		if wait > 16 {
			wait = 16
		}
		time.Sleep(time.Duration(wait) * time.Millisecond)
	}
	return nil
}

func runPanel(ctx context.Context, cfg *appcfg.Config, loc *time.Location,
	sources []agenda.Source, itemsCh <-chan []agenda.Item) error {

	if _, err := host.Init(); err != nil {
		return err
	}
	panel, err := board.OpenPanel(&cfg.Display)
	if err != nil {
		return err
	}
	if err := panel.Init(); err != nil {
		return err
	}
	width, height := panel.Width(), panel.Height()

	ui, disp, err := newRuntime(cfg, width, height)
	if err != nil {
		return err
	}
	disp.SetRotation(board.RotationFromDegrees(cfg.Display.Rotation))
	disp.SetFlushFunc(func(d *embui.Display, area embui.Rect, pixels []byte) {
		if ferr := panel.Flush(area, pixels); ferr != nil {
			applog.Error("panel flush failed", ferr)
		}
		d.FlushReady()
	})

	if cfg.Touch.Enabled {
		if terr := board.WireTouch(ui, &cfg.Touch, width, height); terr != nil {
			applog.Error("touch init failed, continuing without touch", terr)
		}
	}

	b, err := newBoardUI(ui, width, height, loc, sources)
	if err != nil {
		return err
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if berr := panel.Backlight(false); berr == nil {
				_ = panel.Sleep()
			}
			return nil
		case items := <-itemsCh:
			if err := b.setItems(items); err != nil {
				applog.Error("updating board", err)
			}
		default:
		}

		now := time.Now()
		ui.TickInc(uint32(now.Sub(last).Milliseconds()))
		last = now
		b.tickClock(now.In(loc))

		wait := ui.TaskHandler()
		if wait > 5 {
			wait = 5
		}
		time.Sleep(time.Duration(wait) * time.Millisecond)
	}
}

// newRuntime builds a context and a partial-mode display of the given
// size with a tenth-of-screen band buffer pair.
func newRuntime(cfg *appcfg.Config, width, height int) (*embui.Context, *embui.Display, error) {
	ui := embui.New()
	if err := ui.Init(); err != nil {
		return nil, nil, err
	}
	if cfg.UI.Theme == "light" {
		ui.SetTheme(embui.LightTheme())
	}

	disp, err := ui.NewDisplay(width, height)
	if err != nil {
		return nil, nil, err
	}
	lines := height / 10
	if lines < 1 {
		lines = 1
	}
	buf1 := make([]byte, embui.BufSize(width, lines))
	buf2 := make([]byte, embui.BufSize(width, lines))
	if err := disp.SetBuffers(buf1, buf2, embui.RenderModePartial); err != nil {
		return nil, nil, err
	}
	return ui, disp, nil
}

// boardUI owns the screen layout: a header with date and clock, and a
// body panel rebuilt on every refresh.
type boardUI struct {
	ui     *embui.Context
	width  int
	height int
	loc    *time.Location

	colors map[string]embui.Color

	dateText  embui.TextView
	clockText embui.TextView
	lastClock string

	body embui.Object
}

func newBoardUI(ui *embui.Context, width, height int, loc *time.Location,
	sources []agenda.Source) (*boardUI, error) {

	b := &boardUI{
		ui:     ui,
		width:  width,
		height: height,
		loc:    loc,
		colors: make(map[string]embui.Color, len(sources)),
	}
	for _, s := range sources {
		b.colors[s.ID] = parseHexColor(s.Color, embui.Hex(0x2196F3))
	}

	scr, err := ui.ActiveScreen()
	if err != nil {
		return nil, err
	}

	header, err := scr.NewPanel()
	if err != nil {
		return nil, err
	}
	header.SetPos(0, 0)
	header.SetSize(width, 22)

	date, err := header.NewLabel()
	if err != nil {
		return nil, err
	}
	date.Align(embui.AlignLeftMid, 6, 0)
	b.dateText, err = date.Text()
	if err != nil {
		return nil, err
	}

	clock, err := header.NewLabel()
	if err != nil {
		return nil, err
	}
	clock.Align(embui.AlignRightMid, -6, 0)
	b.clockText, err = clock.Text()
	if err != nil {
		return nil, err
	}

	if err := b.rebuildBody(nil); err != nil {
		return nil, err
	}
	b.tickClock(time.Now().In(loc))
	return b, nil
}

// tickClock refreshes the header labels; cheap enough to call every
// loop iteration since SetText only invalidates on change.
func (b *boardUI) tickClock(now time.Time) {
	hm := now.Format("15:04")
	if hm == b.lastClock {
		return
	}
	b.lastClock = hm
	b.clockText.SetText(hm)
	b.dateText.SetText(now.Format("Mon Jan 2"))
}

// setItems replaces the body with the new agenda.
func (b *boardUI) setItems(items []agenda.Item) error {
	return b.rebuildBody(items)
}

func (b *boardUI) rebuildBody(items []agenda.Item) error {
	if b.body.Valid() {
		if err := b.body.Delete(); err != nil {
			return err
		}
	}

	scr, err := b.ui.ActiveScreen()
	if err != nil {
		return err
	}
	body, err := scr.NewPanel()
	if err != nil {
		return err
	}
	body.SetPos(0, 22)
	body.SetSize(b.width, b.height-22)
	b.body = body

	if len(items) == 0 {
		empty, lerr := body.NewLabel()
		if lerr != nil {
			return lerr
		}
		empty.Center()
		if tv, terr := empty.Text(); terr == nil {
			tv.SetText("no upcoming events")
		}
		return nil
	}

	y := 4
	rowH := 18
	for _, day := range agenda.GroupByDay(items, b.loc) {
		if y+rowH > b.height-22 {
			break
		}
		hdr, herr := body.NewLabel()
		if herr != nil {
			return herr
		}
		hdr.SetPos(6, y)
		if tv, terr := hdr.Text(); terr == nil {
			tv.SetText(day.Date.Format("Mon Jan 2"))
		}
		y += rowH

		for i, it := range day.Items {
			if y+rowH > b.height-22 {
				break
			}
			if err := b.addItemRow(body, it, y); err != nil {
				return err
			}
			y += rowH
			// Cap very busy days so later days stay visible.
			if i >= 5 {
				break
			}
		}
		y += 4
	}
	return nil
}

func (b *boardUI) addItemRow(parent embui.Object, it agenda.Item, y int) error {
	dot, err := parent.NewLED()
	if err != nil {
		return err
	}
	dot.SetPos(12, y+4)
	dot.SetSize(8, 8)
	if lv, lerr := dot.Led(); lerr == nil {
		lv.SetColor(b.colors[it.SourceID])
		lv.On()
	}

	label, err := parent.NewLabel()
	if err != nil {
		return err
	}
	label.SetPos(26, y)
	tv, err := label.Text()
	if err != nil {
		return err
	}
	tv.SetLongMode(embui.LongModeDot)
	tv.SetText(it.TimeLabel() + "  " + it.Summary)
	// Pin the width after SetText so long summaries ellipsize instead of
	// growing past the row.
	label.SetWidth(b.width - 32)
	return nil
}

// parseHexColor parses "#RRGGBB" (or "RRGGBB"), falling back to def.
func parseHexColor(s string, def embui.Color) embui.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return embui.Hex(uint32(v))
}
