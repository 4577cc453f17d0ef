package serenade

import "fmt"

// Playback is one live, looping audio stream created by a backend.
type Playback interface {
	// Play starts or resumes the stream. It returns an error wrapping
	// ErrPlaybackRejected when the host refuses to start audio.
	Play() error
	Pause()
	SetMuted(muted bool)
	// SetVolume sets the stream gain in [0, 1].
	SetVolume(v float64)
	Close() error
}

// AutoplayState is a stage of the autoplay retry ladder.
type AutoplayState uint8

const (
	AutoplayIdle AutoplayState = iota
	AutoplayAttemptingDirect
	AutoplayAttemptingMuted
	AutoplayWaitingForGesture
	AutoplayPlaying
)

var autoplayStateNames = [...]string{"idle", "attempting-direct", "attempting-muted", "waiting-for-gesture", "playing"}

func (s AutoplayState) String() string {
	if int(s) < len(autoplayStateNames) {
		return autoplayStateNames[s]
	}
	return "unknown"
}

// AutoplayEvent is an input to the ladder's transition function.
type AutoplayEvent uint8

const (
	// AutoplayStart begins a new attempt sequence for a fresh playback.
	AutoplayStart AutoplayEvent = iota
	// AutoplayPlayed reports that the current attempt succeeded.
	AutoplayPlayed
	// AutoplayRejected reports that the current attempt was refused.
	AutoplayRejected
	// AutoplayGesture reports a user interaction.
	AutoplayGesture
	// AutoplayRetry re-runs the ladder without a gesture (window regained
	// visibility).
	AutoplayRetry
	// AutoplayStop discards the playback.
	AutoplayStop
)

var autoplayEventNames = [...]string{"start", "played", "rejected", "gesture", "retry", "stop"}

func (e AutoplayEvent) String() string {
	if int(e) < len(autoplayEventNames) {
		return autoplayEventNames[e]
	}
	return "unknown"
}

// transition is the ladder's complete transition table. Pairs not listed
// leave the state unchanged.
func transition(s AutoplayState, e AutoplayEvent) AutoplayState {
	switch e {
	case AutoplayStart:
		return AutoplayAttemptingDirect
	case AutoplayStop:
		return AutoplayIdle
	}
	switch s {
	case AutoplayAttemptingDirect:
		switch e {
		case AutoplayPlayed:
			return AutoplayPlaying
		case AutoplayRejected:
			return AutoplayAttemptingMuted
		}
	case AutoplayAttemptingMuted:
		switch e {
		case AutoplayPlayed:
			return AutoplayPlaying
		case AutoplayRejected:
			return AutoplayWaitingForGesture
		}
	case AutoplayWaitingForGesture:
		switch e {
		case AutoplayGesture, AutoplayRetry:
			return AutoplayAttemptingDirect
		}
	}
	return s
}

// Autoplay drives one Playback through the retry ladder: a direct attempt,
// then a muted attempt that unmutes on the next gesture, then waiting for a
// gesture. Failures never escape: rejections and backend panics both count
// as a rejected attempt.
type Autoplay struct {
	state AutoplayState
	pb    Playback
	muted bool

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to AutoplayState, e AutoplayEvent)
}

// State returns the current ladder state.
func (a *Autoplay) State() AutoplayState { return a.state }

// Muted reports whether the playback is running muted, awaiting a gesture.
func (a *Autoplay) Muted() bool { return a.muted }

// Start runs the ladder for pb, replacing any previous playback. The caller
// keeps ownership of the previous playback.
func (a *Autoplay) Start(pb Playback) {
	a.pb = pb
	a.muted = false
	if pb == nil {
		a.fire(AutoplayStop)
		return
	}
	a.fire(AutoplayStart)
	a.run()
}

// Gesture reports a user interaction: it unmutes a muted playback or restarts
// the ladder when waiting.
func (a *Autoplay) Gesture() {
	switch a.state {
	case AutoplayPlaying:
		if a.muted {
			a.muted = false
			a.safe("unmute", func() error {
				a.pb.SetMuted(false)
				return nil
			})
			debugf("audio: unmuted on gesture")
		}
	case AutoplayWaitingForGesture:
		a.fire(AutoplayGesture)
		a.run()
	}
}

// Retry restarts the ladder when it is waiting for a gesture.
func (a *Autoplay) Retry() {
	if a.state != AutoplayWaitingForGesture {
		return
	}
	a.fire(AutoplayRetry)
	a.run()
}

// Stop returns the ladder to idle and forgets the playback.
func (a *Autoplay) Stop() {
	a.pb = nil
	a.muted = false
	a.fire(AutoplayStop)
}

func (a *Autoplay) fire(e AutoplayEvent) {
	from := a.state
	a.state = transition(from, e)
	if a.state != from && a.OnTransition != nil {
		a.OnTransition(from, a.state, e)
	}
}

// run performs attempts until the ladder leaves the attempting states.
func (a *Autoplay) run() {
	for a.state == AutoplayAttemptingDirect || a.state == AutoplayAttemptingMuted {
		muted := a.state == AutoplayAttemptingMuted
		err := a.safe("play", func() error {
			a.pb.SetMuted(muted)
			return a.pb.Play()
		})
		if err != nil {
			debugf("audio: %s attempt rejected: %v", a.state, err)
			a.fire(AutoplayRejected)
			continue
		}
		a.muted = muted
		a.fire(AutoplayPlayed)
	}
}

// safe calls fn and converts a panic into an ErrPlaybackRejected error.
func (a *Autoplay) safe(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audio %s panicked: %v: %w", op, r, ErrPlaybackRejected)
		}
	}()
	return fn()
}
