package serenade

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is the audio context rate used by NewEbitenAudio.
const DefaultSampleRate = 48000

// EbitenAudio is a PlaybackBackend on the ebiten audio context. Tracks are
// read fully into memory, decoded by extension (.mp3, .ogg, .wav) and
// wrapped in an infinite loop.
type EbitenAudio struct {
	ctx  *audio.Context
	open AssetOpener
}

// NewEbitenAudio returns a backend on the process audio context, creating it
// at DefaultSampleRate when none exists yet. open defaults to OpenFile.
func NewEbitenAudio(open AssetOpener) *EbitenAudio {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(DefaultSampleRate)
	}
	if open == nil {
		open = OpenFile
	}
	return &EbitenAudio{ctx: ctx, open: open}
}

// Ready reports whether the host allows audio output yet.
func (e *EbitenAudio) Ready() bool { return e.ctx.IsReady() }

// Open implements PlaybackBackend.
func (e *EbitenAudio) Open(t Track) (Playback, error) {
	rc, err := e.open(t.Source)
	if err != nil {
		return nil, fmt.Errorf("open track %s: %w", t.Source, err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read track %s: %w", t.Source, err)
	}

	var stream interface {
		io.ReadSeeker
		Length() int64
	}
	r := bytes.NewReader(data)
	sr := e.ctx.SampleRate()
	switch ext := strings.ToLower(filepath.Ext(t.Source)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sr, r)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sr, r)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sr, r)
	default:
		return nil, fmt.Errorf("unsupported audio format %q: %w", ext, ErrResourceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("decode track %s: %w", t.Source, err)
	}

	player, err := e.ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return nil, fmt.Errorf("create player for %s: %w", t.Source, err)
	}
	return &ebitenPlayback{ctx: e.ctx, player: player, volume: 1}, nil
}

// ebitenPlayback adapts an audio.Player to Playback. Muting is a zero
// volume on the player; the requested volume is restored on unmute.
type ebitenPlayback struct {
	ctx    *audio.Context
	player *audio.Player
	volume float64
	muted  bool
}

func (p *ebitenPlayback) Play() error {
	if !p.ctx.IsReady() {
		return fmt.Errorf("audio context not ready: %w", ErrPlaybackRejected)
	}
	p.player.Play()
	return nil
}

func (p *ebitenPlayback) Pause() { p.player.Pause() }

func (p *ebitenPlayback) SetMuted(muted bool) {
	p.muted = muted
	p.apply()
}

func (p *ebitenPlayback) SetVolume(v float64) {
	p.volume = clamp01(v)
	p.apply()
}

func (p *ebitenPlayback) apply() {
	if p.muted {
		p.player.SetVolume(0)
		return
	}
	p.player.SetVolume(p.volume)
}

func (p *ebitenPlayback) Close() error {
	p.player.Pause()
	return p.player.Close()
}
