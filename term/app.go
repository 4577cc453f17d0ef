package term

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/serenade"
)

// DefaultTPS is the terminal tick rate.
const DefaultTPS = 30

// App runs a serenade Loop on a terminal Screen.
type App struct {
	Screen     *Screen
	Loop       *serenade.Loop
	Controller *serenade.Controller
	Scroll     *serenade.ScrollState
	// Banner is shown once the celebration starts.
	Banner string
	// ScreenshotDir receives PNG exports of the cell buffer.
	ScreenshotDir string
	TPS           int

	tcell  tcell.Screen
	shots  int
	notice string
	hold   int
}

// AppOptions configures NewApp.
type AppOptions struct {
	Counts serenade.Counts
	Pages  float64
	Panels map[serenade.SceneID]serenade.Panel
	// Audio is optional.
	Audio         *serenade.TrackScheduler
	Banner        string
	ScreenshotDir string
}

// NewApp builds the scene on an initialised tcell screen.
func NewApp(ts tcell.Screen, opts AppOptions) *App {
	if opts.Pages <= 0 {
		opts.Pages = serenade.SceneCount
	}
	scr := NewScreen(ts)
	scr.Overlay = NewOverlay(opts.Panels)
	_, rows := ts.Size()
	scroll := &serenade.ScrollState{Viewport: float64(rows * cellAspect), Pages: opts.Pages}

	ctx := serenade.NewSceneContext(scr, scroll, opts.Counts)
	ctx.Overlay = serenade.MultiSink{scr.Overlay, serenade.LogOverlay{}}
	ctx.Audio = opts.Audio
	loop := serenade.NewLoop(ctx)

	a := &App{
		Screen:        scr,
		Loop:          loop,
		Controller:    serenade.NewController(loop, scroll, scr.Camera),
		Scroll:        scroll,
		Banner:        opts.Banner,
		ScreenshotDir: opts.ScreenshotDir,
		TPS:           DefaultTPS,
		tcell:         ts,
	}
	a.Controller.Export = a.export
	a.Controller.OnConfirm = func() { scr.Banner = a.Banner }
	return a
}

func (a *App) export(label string) {
	dir := a.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	a.shots++
	path := filepath.Join(dir, fmt.Sprintf("serenade_%s_%03d.png", label, a.shots))
	if err := serenade.SavePNG(a.Screen, path); err != nil {
		a.notify("export failed: " + err.Error())
		return
	}
	a.notify("saved " + path)
}

// notify shows msg in the footer for a few seconds.
func (a *App) notify(msg string) {
	a.notice = msg
	a.hold = 3 * max(a.TPS, 1)
}

// HandleEvent applies one tcell event. It returns false when the user asked
// to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	viewport := a.Scroll.Viewport
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			a.Controller.ScrollBy(serenade.KeyStep * viewport)
		case tcell.KeyUp:
			a.Controller.ScrollBy(-serenade.KeyStep * viewport)
		case tcell.KeyPgDn:
			a.Controller.ScrollBy(viewport)
		case tcell.KeyPgUp:
			a.Controller.ScrollBy(-viewport)
		case tcell.KeyHome:
			a.Controller.SetFraction(0)
		case tcell.KeyEnd:
			a.Controller.SetFraction(1)
		case tcell.KeyEnter:
			a.confirm()
		case tcell.KeyRune:
			return a.handleRune(ev.Rune(), viewport)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := CellToPixel(x, y)
		btn := ev.Buttons()
		switch {
		case btn&tcell.WheelDown != 0:
			a.Controller.ScrollBy(serenade.WheelStep * viewport)
		case btn&tcell.WheelUp != 0:
			a.Controller.ScrollBy(-serenade.WheelStep * viewport)
		case btn&tcell.Button1 != 0:
			a.Controller.Click(px, py)
		default:
			a.Controller.Pointer(px, py)
		}
	case *tcell.EventResize:
		a.tcell.Sync()
		_, rows := a.tcell.Size()
		f := a.Scroll.Fraction()
		a.Scroll.Viewport = float64(rows * cellAspect)
		a.Scroll.SetFraction(f)
	}
	return true
}

func (a *App) handleRune(r rune, viewport float64) bool {
	switch r {
	case 'q':
		return false
	case 'j', ' ':
		a.Controller.ScrollBy(serenade.KeyStep * viewport)
	case 'k':
		a.Controller.ScrollBy(-serenade.KeyStep * viewport)
	case 'y', 'Y':
		a.confirm()
	case 'm':
		a.Controller.ToggleAudio()
	case '+', '=':
		a.Controller.AdjustVolume(serenade.VolumeStep)
	case '-':
		a.Controller.AdjustVolume(-serenade.VolumeStep)
	case 's':
		a.Controller.Screenshot("manual")
	}
	return true
}

func (a *App) confirm() {
	if a.Loop.State().Scene == serenade.SceneResponse {
		a.Controller.Confirm()
	}
}

// Step advances the scene by one tick.
func (a *App) Step(dt float64) {
	footer := ""
	if a.hold > 0 {
		a.hold--
		footer = a.notice
	} else if aud := a.Loop.Context().Audio; aud != nil {
		if t, ok := aud.NowPlaying(); ok {
			footer = t.String()
		}
	}
	a.Screen.Footer = footer
	a.Loop.Tick(dt)
}

// Run polls events on a goroutine and ticks the loop at TPS until the user
// quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	tps := a.TPS
	if tps <= 0 {
		tps = DefaultTPS
	}
	a.tcell.EnableMouse()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(a.tcell, events, done)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()
	dt := 1 / float64(tps)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Step(dt)
		}
	}
}

// pollEvents forwards screen events to events until the screen is finalized
// or done is closed.
func pollEvents(ts tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := ts.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
