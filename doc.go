// Package serenade is a scroll-driven 3D proposal presentation for
// [Ebitengine].
//
// A single scroll fraction in [0, 1] selects one of six narrative scenes and
// a camera pose. Behind the scenes a point-sprite scene of hearts, falling
// petals, a starfield and a ring box is rendered with lighting, fog and
// bloom; a playlist follows the scroll position; and answering the proposal
// sets off a timed celebration of confetti and fireworks.
//
// # Quick start
//
// [NewGame] builds everything from [GameOptions] and [Run] opens the window:
//
//	g, err := serenade.NewGame(serenade.GameOptions{
//		Width: 1280, Height: 720,
//		Counts: serenade.DefaultCounts,
//		Panels: panels,
//		Tracks: tracks,
//		Bloom:  true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(serenade.Run("Serenade", g))
//
// The config subpackage loads all text, the playlist and the tuning knobs
// from YAML.
//
// # Frame loop
//
// [Loop] is the only per-frame driver. Each [Loop.Tick] fires due timers,
// updates and culls every registered [Batch], drops exhausted batches,
// resolves the scroll state through [ScrollStateMachine] and renders the
// [SceneGraph] exactly once. A failing step is logged and skipped for that
// frame only.
//
// Batches are plain particle arrays with a [UpdateRule] and a [Lifetime].
// Persistent batches (hearts, petals) never exhaust; burst batches
// (confetti, fireworks) leave the loop on their own once every particle has
// faded out.
//
// # Backends
//
// [Stage] is the Ebitengine scene graph: points are projected by [Camera],
// shaded by [Lighting], depth sorted and submitted as batched
// DrawTriangles32 quads, then composited through [Bloom]. The term
// subpackage renders the same scene into a terminal with tcell.
//
// Audio goes through [PlaybackBackend]. [EbitenAudio] plays through
// Ebitengine's audio context; the beepaudio subpackage plays through the
// beep speaker. [TrackScheduler] keeps at most one track live and walks the
// [Autoplay] ladder (direct, muted, then wait for a gesture) when the host
// blocks playback.
//
// # Scripted runs
//
// [LoadTestScript] reads a JSON script of scroll, click, confirm, wait and
// screenshot steps. Pass it as [GameOptions.Script] to drive the window
// without a person at the controls:
//
//	{"steps": [
//		{"action": "scroll", "fraction": 1},
//		{"action": "wait", "frames": 30},
//		{"action": "confirm"},
//		{"action": "screenshot", "label": "celebration"}
//	]}
//
// # Debug
//
// [SetDebugMode] turns on per-frame timing and draw call logging, written to
// the writer set by [SetLogOutput] (stderr by default).
//
// [Ebitengine]: https://ebitengine.org
package serenade
