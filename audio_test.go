package serenade

import (
	"errors"
	"math"
	"testing"
)

// fakeBackend opens fakePlaybacks and tracks how many are open at once.
type fakeBackend struct {
	opened  []*fakePlayback
	policy  func(muted bool) error
	failFor string
	panics  bool
}

func (b *fakeBackend) Open(t Track) (Playback, error) {
	if t.Source == b.failFor {
		return nil, errors.New("missing")
	}
	pb := &fakePlayback{name: t.Source, policy: b.policy, panics: b.panics}
	b.opened = append(b.opened, pb)
	return pb, nil
}

func (b *fakeBackend) openCount() int {
	n := 0
	for _, pb := range b.opened {
		if !pb.closed {
			n++
		}
	}
	return n
}

func (b *fakeBackend) last() *fakePlayback { return b.opened[len(b.opened)-1] }

var testTracks = []Track{
	{Title: "One", Artist: "A", Source: "one.mp3"},
	{Title: "Two", Source: "two.ogg"},
	{Title: "Three", Artist: "C", Source: "three.wav"},
}

func newTestScheduler(t *testing.T, b *fakeBackend) *TrackScheduler {
	t.Helper()
	quietLog(t)
	s, err := NewTrackScheduler(b, testTracks)
	if err != nil {
		t.Fatal(err)
	}
	s.FadeIn = 0
	return s
}

// --- TrackIndex ---

func TestTrackIndex(t *testing.T) {
	tests := []struct {
		f    float64
		n    int
		want int
	}{
		{0, 3, 0},
		{0.33, 3, 0},
		{0.34, 3, 1},
		{0.99, 3, 2},
		{1, 3, 2},
		{-1, 3, 0},
		{math.NaN(), 3, 0},
		{0.5, 1, 0},
		{0.5, 0, -1},
		{0, 6, 0},
		{0.999, 6, 5},
		{1.0, 6, 5},
	}
	for _, tt := range tests {
		if got := TrackIndex(tt.f, tt.n); got != tt.want {
			t.Errorf("TrackIndex(%v, %d) = %d, want %d", tt.f, tt.n, got, tt.want)
		}
	}
}

func TestTrackString(t *testing.T) {
	if got := testTracks[0].String(); got != "♪ One - A" {
		t.Errorf("String = %q", got)
	}
	if got := testTracks[1].String(); got != "♪ Two" {
		t.Errorf("String = %q", got)
	}
}

// --- TrackScheduler ---

func TestNewTrackSchedulerErrors(t *testing.T) {
	if _, err := NewTrackScheduler(&fakeBackend{}, nil); !errors.Is(err, ErrNoTracks) {
		t.Errorf("err = %v, want ErrNoTracks", err)
	}
	if _, err := NewTrackScheduler(nil, testTracks); !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("err = %v, want ErrResourceUnavailable", err)
	}
}

func TestSchedulerNeverOverlaps(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	if _, ok := s.NowPlaying(); ok {
		t.Fatal("NowPlaying before the first Update")
	}
	fracs := []float64{0, 0.1, 0.5, 0.9, 0.2, 1, 0.66, 0}
	for _, f := range fracs {
		s.Update(f)
		if n := b.openCount(); n != 1 {
			t.Fatalf("f=%v: %d playbacks open, want 1", f, n)
		}
		tr, _ := s.NowPlaying()
		if tr != testTracks[TrackIndex(f, 3)] {
			t.Fatalf("f=%v: now playing %v", f, tr)
		}
	}
	for _, pb := range b.opened[:len(b.opened)-1] {
		if !pb.closed || pb.playing {
			t.Errorf("old playback %s still live", pb.name)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if b.openCount() != 0 || s.Live() {
		t.Error("Close left a playback open")
	}
}

func TestSchedulerUpdateSameTrack(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	if !s.Update(0.1) {
		t.Fatal("first Update reported no switch")
	}
	if s.Update(0.2) {
		t.Error("Update within the same track reported a switch")
	}
	if len(b.opened) != 1 {
		t.Errorf("opened = %d, want 1", len(b.opened))
	}
}

func TestSchedulerOpenFailure(t *testing.T) {
	b := &fakeBackend{failFor: "two.ogg"}
	s := newTestScheduler(t, b)
	s.Update(0)
	s.Update(0.5)
	if s.Live() {
		t.Error("failed open left a live playback")
	}
	if s.Index() != 1 {
		t.Errorf("Index = %d, want 1", s.Index())
	}
	s.Update(0.9)
	if !s.Playing() {
		t.Error("next track did not play")
	}
}

func TestSchedulerVolume(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	s.Update(0)
	tests := []struct {
		in, want float64
	}{
		{0.3, 0.3},
		{2, 1},
		{-1, 0},
	}
	for _, tt := range tests {
		s.SetVolume(tt.in)
		if s.Volume() != tt.want || b.last().volume != tt.want {
			t.Errorf("SetVolume(%v): volume %v gain %v, want %v", tt.in, s.Volume(), b.last().volume, tt.want)
		}
	}
	s.SetVolume(math.NaN())
	if s.Volume() != 0 {
		t.Errorf("NaN changed volume to %v", s.Volume())
	}
}

func TestSchedulerFadeIn(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	s.FadeIn = 1
	s.SetVolume(0.8)
	s.Update(0)
	if s.Gain() != 0 || b.last().volume != 0 {
		t.Fatalf("gain after switch = %v, want 0", s.Gain())
	}
	s.Advance(0.5)
	mid := s.Gain()
	if mid <= 0 || mid >= 0.8 {
		t.Errorf("gain mid-fade = %v, want in (0, 0.8)", mid)
	}
	s.Advance(0.6)
	if s.Gain() != 0.8 || b.last().volume != 0.8 {
		t.Errorf("gain after fade = %v, want 0.8", s.Gain())
	}
}

func TestSchedulerToggle(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	if s.Toggle() {
		t.Error("Toggle with nothing open reported playing")
	}
	s.Toggle() // resume with nothing open
	s.Update(0)
	if !s.Playing() {
		t.Fatal("not playing after Update")
	}
	if s.Toggle() || !s.Paused() || b.last().playing {
		t.Fatal("Toggle did not pause")
	}

	// A switch while paused queues the track without playing it.
	s.Update(0.9)
	if b.last().plays != 0 {
		t.Error("paused switch started playback")
	}
	s.Gesture()
	if b.last().plays != 0 {
		t.Error("gesture started a paused scheduler")
	}
	if !s.Toggle() || !b.last().playing {
		t.Error("Toggle did not resume")
	}
}

func TestSchedulerGestureAfterRejection(t *testing.T) {
	b := &fakeBackend{policy: rejectAll}
	s := newTestScheduler(t, b)
	s.Update(0)
	if s.Ladder() != AutoplayWaitingForGesture || s.Playing() {
		t.Fatalf("ladder = %v, want waiting", s.Ladder())
	}
	b.last().policy = nil
	s.Gesture()
	if !s.Playing() {
		t.Error("gesture did not start playback")
	}
}

func TestSchedulerRetry(t *testing.T) {
	b := &fakeBackend{policy: rejectAll}
	s := newTestScheduler(t, b)
	s.Update(0)
	b.last().policy = nil
	s.Retry()
	if !s.Playing() {
		t.Error("Retry did not start playback")
	}
}

func TestSchedulerSurvivesPanickingPlayback(t *testing.T) {
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	s.Update(0)
	b.panics = true
	s.Update(0.5)
	if s.Ladder() != AutoplayWaitingForGesture {
		t.Errorf("ladder = %v, want waiting", s.Ladder())
	}
}

// --- through the loop ---

func TestLoopDrivesAudio(t *testing.T) {
	l, _, _ := newTestLoop(t, 0)
	b := &fakeBackend{}
	s := newTestScheduler(t, b)
	l.Context().Audio = s
	for i := 0; i <= 100; i++ {
		l.Context().Scroll = FixedFraction(float64(i) / 100)
		l.Tick(frameDT)
		if b.openCount() != 1 {
			t.Fatalf("step %d: %d playbacks open", i, b.openCount())
		}
	}
	if len(b.opened) != 3 {
		t.Errorf("opened = %d, want 3", len(b.opened))
	}
	if s.Index() != 2 {
		t.Errorf("Index = %d, want 2", s.Index())
	}
}
