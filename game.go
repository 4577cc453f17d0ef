package serenade

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultMaxPixelRatio caps the device scale factor used for the frame.
const DefaultMaxPixelRatio = 2

// GameOptions configures NewGame.
type GameOptions struct {
	// Width and Height are the initial window size in device-independent
	// pixels.
	Width, Height int
	Counts        Counts
	// Pages is the document length in viewport heights.
	Pages  float64
	Panels map[SceneID]Panel
	// Tracks is the playlist. Empty disables audio.
	Tracks []Track
	// Backend plays tracks. Nil uses EbitenAudio over Opener.
	Backend PlaybackBackend
	Opener  AssetOpener
	Volume  float64
	FadeIn  float64
	Bloom   bool
	// Banner is shown once the celebration starts.
	Banner string
	Keys   KeyBindings
	// MaxPixelRatio caps the device scale factor. Zero uses
	// DefaultMaxPixelRatio.
	MaxPixelRatio float64
	ScreenshotDir string
	ShowFPS       bool
	// Script, when set, drives the game from a test script.
	Script *TestRunner
	// ExitWhenDone ends the game once Script has run.
	ExitWhenDone bool
}

// Game is the ebiten.Game hosting a Loop on a Stage.
type Game struct {
	Loop       *Loop
	Stage      *Stage
	Overlays   *Overlays
	Controller *Controller
	Audio      *TrackScheduler

	scroll   *ScrollState
	input    inputState
	keys     KeyBindings
	fps      fpsWidget
	showFPS  bool
	script   *TestRunner
	exitDone bool
	banner   string

	maxRatio float64
	focused  bool
	ready    bool
	readyFn  func() bool
}

// NewGame builds the scene, overlays and audio for opts.
func NewGame(opts GameOptions) (*Game, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("new game: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Pages <= 0 {
		opts.Pages = float64(SceneCount)
	}
	if opts.Keys == (KeyBindings{}) {
		opts.Keys = DefaultKeyBindings()
	}
	g := &Game{
		keys:     opts.Keys,
		showFPS:  opts.ShowFPS,
		script:   opts.Script,
		exitDone: opts.ExitWhenDone,
		banner:   opts.Banner,
		maxRatio: opts.MaxPixelRatio,
		focused:  true,
	}
	if g.maxRatio <= 0 {
		g.maxRatio = DefaultMaxPixelRatio
	}

	g.Stage = NewStage(opts.Width, opts.Height)
	if !opts.Bloom {
		g.Stage.Bloom = nil
	}
	if opts.ScreenshotDir != "" {
		g.Stage.ScreenshotDir = opts.ScreenshotDir
	}
	g.scroll = &ScrollState{Viewport: float64(opts.Height), Pages: opts.Pages}
	g.Overlays = NewOverlays(opts.Panels)

	ctx := NewSceneContext(g.Stage, g.scroll, opts.Counts)
	ctx.Overlay = MultiSink{g.Overlays, LogOverlay{}}
	if len(opts.Tracks) > 0 {
		backend := opts.Backend
		if backend == nil {
			ea := NewEbitenAudio(opts.Opener)
			backend = ea
			g.readyFn = ea.Ready
		}
		sched, err := NewTrackScheduler(backend, opts.Tracks)
		if err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
		if opts.Volume > 0 {
			sched.SetVolume(opts.Volume)
		}
		if opts.FadeIn > 0 {
			sched.FadeIn = opts.FadeIn
		}
		g.Audio = sched
		ctx.Audio = sched
	}

	g.Loop = NewLoop(ctx)
	g.Controller = NewController(g.Loop, g.scroll, g.Stage.Camera)
	g.Controller.Export = g.Stage.Export
	g.Controller.OnConfirm = func() { g.Overlays.Banner = g.banner }
	return g, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.script != nil {
		g.script.Step(g.Controller)
		g.Controller.ProcessInjected()
		if g.exitDone && g.script.Done() && g.Controller.Pending() == 0 {
			return ebiten.Termination
		}
	} else {
		g.input.pollInput(g.Controller, g.scroll.Viewport, g.keys)
	}
	g.retryAudio()

	g.Loop.Tick(dt)
	g.Overlays.Update(dt)
	g.Overlays.Footer = g.footer()
	if g.showFPS {
		g.fps.update(dt, len(g.Loop.live), g.Stage.PointCount())
	}
	return nil
}

// retryAudio re-runs the autoplay ladder when the window regains focus or
// the audio device becomes ready.
func (g *Game) retryAudio() {
	if g.Audio == nil {
		return
	}
	focused := ebiten.IsFocused()
	regained := focused && !g.focused
	g.focused = focused

	becameReady := false
	if g.readyFn != nil {
		r := g.readyFn()
		becameReady = r && !g.ready
		g.ready = r
	}
	if regained || becameReady {
		g.Audio.Retry()
	}
}

func (g *Game) footer() string {
	if g.Audio == nil {
		return ""
	}
	t, ok := g.Audio.NowPlaying()
	if !ok {
		return ""
	}
	status := ""
	switch {
	case g.Audio.Paused():
		status = " (paused, M to play)"
	case g.Audio.Ladder() == AutoplayWaitingForGesture:
		status = " (click to start music)"
	}
	return t.String() + status
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Stage.Draw(screen)
	g.Overlays.Draw(screen)
	if g.showFPS {
		g.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. The frame is rendered at the device
// resolution capped by MaxPixelRatio.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := 1.0
	if m := ebiten.Monitor(); m != nil {
		ratio = m.DeviceScaleFactor()
	}
	ratio = math.Min(math.Max(ratio, 1), g.maxRatio)
	w := int(math.Ceil(float64(outsideWidth) * ratio))
	h := int(math.Ceil(float64(outsideHeight) * ratio))
	g.resize(w, h, ratio)
	return w, h
}

func (g *Game) resize(w, h int, ratio float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if int(g.Stage.Camera.Width) == w && int(g.Stage.Camera.Height) == h {
		return
	}
	f := g.scroll.Fraction()
	g.Stage.Resize(w, h)
	g.scroll.Viewport = float64(h)
	g.scroll.SetFraction(f)
	g.Overlays.Scale = 2 * ratio
}

// Close releases the audio playback.
func (g *Game) Close() error {
	if g.Audio == nil {
		return nil
	}
	return g.Audio.Close()
}

// Run opens a window titled title and runs g until the window closes or a
// script finishes.
func Run(title string, g *Game) error {
	w, h := int(g.Stage.Camera.Width), int(g.Stage.Camera.Height)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer func() {
		if err := g.Close(); err != nil {
			warnf("close: %v", err)
		}
	}()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
