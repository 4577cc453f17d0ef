package serenade

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Track is one playlist entry.
type Track struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	Source string `yaml:"file"`
}

// String returns the "now playing" label for the track.
func (t Track) String() string {
	if t.Artist == "" {
		return "♪ " + t.Title
	}
	return "♪ " + t.Title + " - " + t.Artist
}

// AssetOpener opens an audio asset by name.
type AssetOpener func(name string) (io.ReadCloser, error)

// OpenFile is the default AssetOpener.
func OpenFile(name string) (io.ReadCloser, error) { return os.Open(name) }

// PlaybackBackend creates looping playbacks for tracks.
type PlaybackBackend interface {
	Open(t Track) (Playback, error)
}

// DefaultFadeIn is the gain ramp applied after each track switch, in seconds.
const DefaultFadeIn = 1.5

// TrackIndex maps a scroll fraction to a track index in [0, n-1]. It returns
// -1 when n is not positive.
func TrackIndex(f float64, n int) int {
	if n <= 0 {
		return -1
	}
	i := int(math.Floor(ClampFraction(f) * float64(n)))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// TrackScheduler keeps exactly one playlist track playing, chosen by scroll
// position. Switching stops and closes the old playback before the new one is
// opened, so tracks never overlap.
type TrackScheduler struct {
	backend PlaybackBackend
	tracks  []Track
	index   int
	live    Playback
	ladder  Autoplay
	paused  bool

	volume float64
	level  float64 // fade multiplier in [0, 1]
	fade   *gween.Tween

	// FadeIn is the gain ramp duration after a switch. Zero disables it.
	FadeIn float64
}

// NewTrackScheduler creates a scheduler over tracks. No playback is opened
// until the first Update.
func NewTrackScheduler(backend PlaybackBackend, tracks []Track) (*TrackScheduler, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	if backend == nil {
		return nil, fmt.Errorf("track scheduler: nil backend: %w", ErrResourceUnavailable)
	}
	s := &TrackScheduler{
		backend: backend,
		tracks:  append([]Track(nil), tracks...),
		index:   -1,
		volume:  0.5,
		level:   1,
		FadeIn:  DefaultFadeIn,
	}
	s.ladder.OnTransition = func(from, to AutoplayState, e AutoplayEvent) {
		debugf("audio: ladder %s -> %s (%s)", from, to, e)
	}
	return s, nil
}

// Tracks returns the playlist.
func (s *TrackScheduler) Tracks() []Track { return s.tracks }

// Index returns the current track index, or -1 before the first Update.
func (s *TrackScheduler) Index() int { return s.index }

// Ladder returns the autoplay ladder state of the live playback.
func (s *TrackScheduler) Ladder() AutoplayState { return s.ladder.State() }

// Live reports whether a playback is open.
func (s *TrackScheduler) Live() bool { return s.live != nil }

// Update selects the track for f and switches to it if it changed. It
// reports whether a switch happened.
func (s *TrackScheduler) Update(f float64) bool {
	idx := TrackIndex(f, len(s.tracks))
	if idx == s.index {
		return false
	}
	s.stopLive()
	s.index = idx
	t := s.tracks[idx]

	pb, err := s.backend.Open(t)
	if err != nil {
		warnf("audio: open %q: %v", t.Source, err)
		return true
	}
	s.live = pb
	s.startFade()
	s.applyGain()
	if s.paused {
		debugf("audio: %s queued (paused)", t)
		return true
	}
	debugf("audio: switching to %s", t)
	s.ladder.Start(pb)
	return true
}

// NowPlaying returns the current track. ok is false before the first Update.
func (s *TrackScheduler) NowPlaying() (t Track, ok bool) {
	if s.index < 0 {
		return Track{}, false
	}
	return s.tracks[s.index], true
}

// SetVolume sets the shared gain, clamped to [0, 1], and applies it to the
// live playback.
func (s *TrackScheduler) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.volume = clamp01(v)
	s.applyGain()
}

// Volume returns the shared gain.
func (s *TrackScheduler) Volume() float64 { return s.volume }

// Gain returns the effective gain: volume times the fade level.
func (s *TrackScheduler) Gain() float64 { return s.volume * s.level }

// Playing reports whether audio is audible or running muted.
func (s *TrackScheduler) Playing() bool {
	return !s.paused && s.live != nil && s.ladder.State() == AutoplayPlaying
}

// Paused reports whether the user paused playback.
func (s *TrackScheduler) Paused() bool { return s.paused }

// Toggle pauses a playing track or resumes a paused one. It returns the new
// Playing state.
func (s *TrackScheduler) Toggle() bool {
	if s.Playing() {
		s.paused = true
		s.guardLive("pause", func(pb Playback) { pb.Pause() })
		return false
	}
	s.paused = false
	if s.live == nil {
		return false
	}
	if s.ladder.State() == AutoplayWaitingForGesture {
		s.ladder.Gesture()
	} else {
		s.ladder.Start(s.live)
	}
	return s.Playing()
}

// Gesture forwards a user interaction to the autoplay ladder.
func (s *TrackScheduler) Gesture() {
	if s.paused {
		return
	}
	s.ladder.Gesture()
}

// Retry re-runs the ladder after the window regains visibility.
func (s *TrackScheduler) Retry() {
	if s.paused {
		return
	}
	s.ladder.Retry()
}

// Advance steps the gain fade by dt seconds.
func (s *TrackScheduler) Advance(dt float64) {
	if s.fade == nil {
		return
	}
	v, done := s.fade.Update(float32(dt))
	s.level = clamp01(float64(v))
	if done {
		s.level = 1
		s.fade = nil
	}
	s.applyGain()
}

// Close stops and releases the live playback.
func (s *TrackScheduler) Close() error {
	var err error
	if s.live != nil {
		s.ladder.Stop()
		err = s.live.Close()
		s.live = nil
	}
	return err
}

func (s *TrackScheduler) stopLive() {
	if s.live == nil {
		return
	}
	old := s.live
	s.live = nil
	s.ladder.Stop()
	s.guardPlayback(old, "stop", func(pb Playback) {
		pb.Pause()
		if err := pb.Close(); err != nil {
			warnf("audio: close: %v", err)
		}
	})
}

func (s *TrackScheduler) startFade() {
	if s.FadeIn <= 0 {
		s.level = 1
		s.fade = nil
		return
	}
	s.level = 0
	s.fade = gween.New(0, 1, float32(s.FadeIn), ease.OutQuad)
}

func (s *TrackScheduler) applyGain() {
	g := s.Gain()
	s.guardLive("volume", func(pb Playback) { pb.SetVolume(g) })
}

func (s *TrackScheduler) guardLive(op string, fn func(Playback)) {
	if s.live != nil {
		s.guardPlayback(s.live, op, fn)
	}
}

// guardPlayback runs fn against pb and logs instead of propagating a panic.
func (s *TrackScheduler) guardPlayback(pb Playback, op string, fn func(Playback)) {
	defer func() {
		if r := recover(); r != nil {
			warnf("audio %s: %v", op, r)
		}
	}()
	fn(pb)
}
