// Package beepaudio plays serenade tracks through the gopxl/beep speaker.
//
// Every track is decoded by extension, looped, resampled to the speaker
// rate and wrapped in a pause control and a volume effect. Playbacks share
// the one process-wide speaker; all mutation of a playing stream happens
// under the speaker lock.
package beepaudio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/phanxgames/serenade"
)

// DefaultSampleRate is the speaker rate.
const DefaultSampleRate = beep.SampleRate(48000)

// resampleQuality is the beep.Resample quality for tracks at other rates.
const resampleQuality = 4

// ErrUnsupportedFormat is returned for tracks with an unknown extension.
var ErrUnsupportedFormat = errors.New("beepaudio: unsupported format")

// Output is the sink playbacks are mixed into. The speaker package is the
// default; tests substitute their own.
type Output interface {
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Backend is a serenade.PlaybackBackend on beep.
type Backend struct {
	rate beep.SampleRate
	open serenade.AssetOpener
	out  Output
}

// New initialises the speaker at DefaultSampleRate with a 100 ms buffer and
// returns a backend opening tracks through open (serenade.OpenFile when
// nil). The speaker is initialised once per process.
func New(open serenade.AssetOpener) (*Backend, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(DefaultSampleRate, DefaultSampleRate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("beepaudio: speaker init: %w: %w", serenade.ErrResourceUnavailable, speakerErr)
	}
	return NewWithOutput(open, DefaultSampleRate, speakerOutput{}), nil
}

// NewWithOutput returns a backend mixing into out at rate.
func NewWithOutput(open serenade.AssetOpener, rate beep.SampleRate, out Output) *Backend {
	if open == nil {
		open = serenade.OpenFile
	}
	return &Backend{rate: rate, open: open, out: out}
}

// decode picks a decoder by file extension.
func decode(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Open implements serenade.PlaybackBackend. The playback starts paused.
func (b *Backend) Open(t serenade.Track) (serenade.Playback, error) {
	rc, err := b.open(t.Source)
	if err != nil {
		return nil, fmt.Errorf("beepaudio: open %s: %w", t.Source, err)
	}
	stream, format, err := decode(t.Source, rc)
	if err != nil {
		return nil, fmt.Errorf("beepaudio: decode %s: %w", t.Source, err)
	}

	var s beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != b.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, b.rate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	p := &playback{out: b.out, source: stream, ctrl: ctrl, vol: vol, volume: 1}
	p.apply()
	return p, nil
}

type playback struct {
	out    Output
	source beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	vol    *effects.Volume

	started bool
	closed  bool
	muted   bool
	volume  float64
}

func (p *playback) Play() error {
	if p.closed {
		return fmt.Errorf("beepaudio: play after close: %w", serenade.ErrPlaybackRejected)
	}
	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	if !p.started {
		p.started = true
		p.out.Play(p.vol)
	}
	return nil
}

func (p *playback) Pause() {
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
}

func (p *playback) SetMuted(muted bool) {
	p.muted = muted
	p.apply()
}

func (p *playback) SetVolume(v float64) {
	p.volume = math.Max(0, math.Min(1, v))
	p.apply()
}

// apply maps the linear gain onto the log2 volume effect.
func (p *playback) apply() {
	p.out.Lock()
	defer p.out.Unlock()
	if p.muted || p.volume <= 0 {
		p.vol.Silent = true
		return
	}
	p.vol.Silent = false
	p.vol.Volume = math.Log2(p.volume)
}

// Close drains the stream from the mixer and closes the decoder.
func (p *playback) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.out.Lock()
	p.ctrl.Streamer = nil
	p.out.Unlock()
	return p.source.Close()
}
