package term

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/serenade"
)

var smallCounts = serenade.Counts{Hearts: 20, Petals: 10, Stars: 30}

func TestApp_QuitKeys(t *testing.T) {
	a := NewApp(newSim(t, 80, 24), AppOptions{Counts: smallCounts})
	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)) {
		t.Error("arrow key quit the app")
	}
	if a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q did not quit")
	}
	if a.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Esc did not quit")
	}
}

func TestApp_ScrollDrivesScenes(t *testing.T) {
	a := NewApp(newSim(t, 80, 24), AppOptions{Counts: smallCounts})
	a.Step(1.0 / 30)
	if got := a.Loop.State().Scene; got != serenade.SceneHero {
		t.Fatalf("initial scene = %v, want hero", got)
	}

	a.HandleEvent(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	a.Step(1.0 / 30)
	if got := a.Loop.State().Scene; got != serenade.SceneResponse {
		t.Errorf("scene after End = %v, want response", got)
	}

	a.HandleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	for i := 0; i < 3; i++ {
		a.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	}
	if f := a.Scroll.Fraction(); f <= 0 {
		t.Errorf("fraction after wheel = %v, want > 0", f)
	}
}

func TestApp_ConfirmOnlyInResponse(t *testing.T) {
	a := NewApp(newSim(t, 80, 24), AppOptions{Counts: smallCounts, Banner: "YES"})
	a.Step(1.0 / 30)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone))
	if got := a.Loop.Celebration().State(); got != serenade.CelebrationIdle {
		t.Errorf("celebration = %v before the response scene, want idle", got)
	}

	a.Scroll.SetFraction(1)
	a.Step(1.0 / 30)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone))
	if got := a.Loop.Celebration().State(); got != serenade.CelebrationRunning {
		t.Errorf("celebration = %v after confirm, want running", got)
	}
	if a.Screen.Banner != "YES" {
		t.Errorf("Banner = %q, want %q", a.Screen.Banner, "YES")
	}
}

func TestApp_Resize(t *testing.T) {
	sim := newSim(t, 80, 24)
	a := NewApp(sim, AppOptions{Counts: smallCounts})
	a.Scroll.SetFraction(0.5)
	sim.SetSize(100, 40)
	a.HandleEvent(tcell.NewEventResize(100, 40))
	if a.Scroll.Viewport != 80 {
		t.Errorf("Viewport = %v, want 80", a.Scroll.Viewport)
	}
	if f := a.Scroll.Fraction(); f < 0.49 || f > 0.51 {
		t.Errorf("fraction after resize = %v, want 0.5", f)
	}
}

func TestPollEvents_StopsWhenDone(t *testing.T) {
	sim := newSim(t, 10, 5)
	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pollEvents(sim, events, done)
		close(finished)
	}()

	if err := sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("poller blocked on a full channel after done")
	}
	if _, ok := <-events; ok {
		t.Error("events channel left open")
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	sim := newSim(t, 40, 12)
	a := NewApp(sim, AppOptions{Counts: smallCounts})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run = %v, want deadline exceeded", err)
	}
	if a.Loop.Frame() == 0 {
		t.Error("no ticks before the deadline")
	}
}
