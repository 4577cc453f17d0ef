package serenade

import (
	"math"
	"testing"
)

// timelineSpawner runs a Celebration against a bare Timeline.
type timelineSpawner struct {
	tl        Timeline
	batches   []*Batch
	animators []Animator
}

func (s *timelineSpawner) Register(b *Batch)              { s.batches = append(s.batches, b) }
func (s *timelineSpawner) After(delay float64, fn func()) { s.tl.After(delay, fn) }
func (s *timelineSpawner) Animate(a Animator)             { s.animators = append(s.animators, a) }

func TestCelebrationSchedule(t *testing.T) {
	quietLog(t)
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	var kinds []BurstKind
	var times []float64
	c.OnBurst = func(k BurstKind, _ *Batch) {
		kinds = append(kinds, k)
		times = append(times, sp.tl.Now())
	}
	c.Trigger()
	if c.Pending() != 15 {
		t.Fatalf("Pending = %d, want 15", c.Pending())
	}
	for i := 0; i < 700; i++ {
		sp.tl.Advance(0.01)
	}
	if len(kinds) != 15 {
		t.Fatalf("bursts = %d, want 15", len(kinds))
	}
	for i, k := range kinds {
		want := BurstConfetti
		if i >= 5 {
			want = BurstFirework
		}
		if k != want {
			t.Errorf("burst %d = %v, want %v", i, k, want)
		}
	}
	// Confetti every 200 ms from 0, fireworks every 500 ms from 1 s.
	if d := times[1] - times[0]; math.Abs(d-0.2) > 0.011 {
		t.Errorf("confetti spacing = %v, want 0.2", d)
	}
	if d := times[5]; math.Abs(d-1.0) > 0.011 {
		t.Errorf("first firework at %v, want 1.0", d)
	}
	if d := times[14] - times[13]; math.Abs(d-0.5) > 0.011 {
		t.Errorf("firework spacing = %v, want 0.5", d)
	}
	if c.State() != CelebrationDone || c.Pending() != 0 {
		t.Errorf("state = %v pending = %d, want done and 0", c.State(), c.Pending())
	}
	if len(sp.batches) != 15 {
		t.Errorf("registered = %d, want 15", len(sp.batches))
	}
}

func TestCelebrationStates(t *testing.T) {
	quietLog(t)
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	var seen []CelebrationState
	c.OnStateChange = func(_, to CelebrationState) { seen = append(seen, to) }

	c.Arm()
	c.Arm()
	c.Trigger()
	sp.tl.Advance(10)
	c.Arm()

	want := []CelebrationState{CelebrationArmed, CelebrationRunning, CelebrationDone, CelebrationArmed}
	if len(seen) != len(want) {
		t.Fatalf("states = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("state %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestCelebrationLayered(t *testing.T) {
	quietLog(t)
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	c.Trigger()
	sp.tl.Advance(0.5)
	c.Trigger()
	if c.State() != CelebrationRunning {
		t.Errorf("state = %v, want running", c.State())
	}
	sp.tl.Advance(20)
	if len(sp.batches) != 30 {
		t.Errorf("bursts = %d, want 30", len(sp.batches))
	}
	if c.State() != CelebrationDone {
		t.Errorf("state = %v, want done", c.State())
	}
}

func TestCelebrationCancel(t *testing.T) {
	quietLog(t)
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	c.Trigger()
	sp.tl.Advance(0.3)
	spawned := len(sp.batches)

	c.Cancel()
	if c.State() != CelebrationDone {
		t.Errorf("state after Cancel = %v, want done", c.State())
	}
	if c.Pending() != 0 {
		t.Errorf("Pending after Cancel = %d, want 0", c.Pending())
	}
	sp.tl.Advance(20)
	if len(sp.batches) != spawned {
		t.Errorf("bursts after Cancel = %d, want %d", len(sp.batches), spawned)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending after stale callbacks = %d, want 0", c.Pending())
	}

	c.Trigger()
	sp.tl.Advance(20)
	if got := len(sp.batches) - spawned; got != 15 {
		t.Errorf("bursts after retrigger = %d, want 15", got)
	}
	if c.State() != CelebrationDone {
		t.Errorf("state after retrigger = %v, want done", c.State())
	}
}

func TestCelebrationEmpty(t *testing.T) {
	quietLog(t)
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	c.ConfettiBursts, c.FireworkBursts = 0, 0
	c.Trigger()
	if c.State() != CelebrationDone {
		t.Errorf("state = %v, want done", c.State())
	}
}

func TestOpenRingBox(t *testing.T) {
	sp := &timelineSpawner{}
	c := NewCelebration(sp)
	rb := NewRingBox()
	if c.OpenRingBox(rb) || c.OpenRingBox(nil) {
		t.Fatal("opened a hidden ring box")
	}
	rb.Reveal()
	if !c.OpenRingBox(rb) {
		t.Fatal("OpenRingBox = false")
	}
	if len(sp.animators) != 2 || len(sp.batches) != 1 {
		t.Errorf("animators = %d batches = %d, want 2 and 1", len(sp.animators), len(sp.batches))
	}
}

func TestCelebrationStrings(t *testing.T) {
	if CelebrationRunning.String() != "running" || CelebrationState(9).String() != "unknown" {
		t.Error("CelebrationState.String mismatch")
	}
	if BurstFirework.String() != "firework" || BurstConfetti.String() != "confetti" {
		t.Error("BurstKind.String mismatch")
	}
}
