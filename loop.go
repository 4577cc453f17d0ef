package serenade

import (
	"math"
	"slices"
	"time"
)

// Counts sizes the persistent scene content.
type Counts struct {
	Hearts int
	Petals int
	Stars  int
}

// DefaultCounts matches the full-quality scene.
var DefaultCounts = Counts{Hearts: 500, Petals: 200, Stars: 1000}

// SceneContext holds everything a Loop drives. There is no package-level
// scene state: every component is reached through the context.
type SceneContext struct {
	Graph   SceneGraph
	Scroll  ScrollInput
	Overlay OverlaySink
	// Audio is optional.
	Audio *TrackScheduler

	Hearts  *Batch
	Petals  *Batch
	RingBox *RingBox
	Stars   *Prop
}

// NewSceneContext builds the persistent scene content on g: heart field,
// petals, starfield and the hidden ring box.
func NewSceneContext(g SceneGraph, scroll ScrollInput, c Counts) *SceneContext {
	return &SceneContext{
		Graph:   g,
		Scroll:  scroll,
		Hearts:  NewHeartBatch(c.Hearts),
		Petals:  NewPetalBatch(c.Petals),
		RingBox: NewRingBox(),
		Stars:   NewStarfield(c.Stars),
	}
}

// Ring box hit area, in normalized device coordinates around the centre.
const ringBoxHitRadius = 0.3

// PointerTiltScale maps pointer NDC to heart field tilt in radians.
const PointerTiltScale = 0.1

// Loop is the central per-frame driver. Each Tick fires due timers, updates
// and culls every registered batch, drops exhausted ones, applies the scroll
// state and renders exactly once.
type Loop struct {
	ctx         *SceneContext
	machine     *ScrollStateMachine
	timeline    Timeline
	tweens      TweenSet
	celebration *Celebration

	live    []*Batch
	adds    []*Batch
	removes []*Batch
	inTick  bool
	frame   uint64
	elapsed float64
	state   SceneState
	stats   frameStats
}

// NewLoop wires ctx into a loop and inserts the persistent content into the
// scene graph.
func NewLoop(ctx *SceneContext) *Loop {
	l := &Loop{ctx: ctx}
	l.machine = NewScrollStateMachine(ctx.Overlay)
	l.celebration = NewCelebration(l)
	if ctx.Stars != nil {
		ctx.Graph.Insert(ctx.Stars)
	}
	if ctx.RingBox != nil {
		for _, r := range ctx.RingBox.Renderables() {
			ctx.Graph.Insert(r)
		}
	}
	if ctx.Hearts != nil {
		l.Register(ctx.Hearts)
	}
	if ctx.Petals != nil {
		l.Register(ctx.Petals)
	}
	return l
}

// Context returns the scene context.
func (l *Loop) Context() *SceneContext { return l.ctx }

// Celebration returns the loop's celebration trigger.
func (l *Loop) Celebration() *Celebration { return l.celebration }

// PendingTimers returns the number of scheduled callbacks not yet fired.
func (l *Loop) PendingTimers() int { return l.timeline.Pending() }

// ClearTimers drops every scheduled callback and cancels the bursts of a
// running celebration with them.
func (l *Loop) ClearTimers() {
	l.timeline.Clear()
	l.celebration.Cancel()
}

// State returns the scene state resolved by the last tick.
func (l *Loop) State() SceneState { return l.state }

// Frame returns the number of completed ticks.
func (l *Loop) Frame() uint64 { return l.frame }

// Elapsed returns the loop clock in seconds.
func (l *Loop) Elapsed() float64 { return l.elapsed }

// Live returns a snapshot of the registered batches.
func (l *Loop) Live() []*Batch { return slices.Clone(l.live) }

// Register adds b to the update path and the scene graph. During a tick the
// batch joins once the current step finishes.
func (l *Loop) Register(b *Batch) {
	if b == nil {
		return
	}
	if l.inTick {
		l.adds = append(l.adds, b)
		return
	}
	l.add(b)
}

// Deregister removes b from the update path and the scene graph.
func (l *Loop) Deregister(b *Batch) {
	if b == nil {
		return
	}
	if l.inTick {
		l.removes = append(l.removes, b)
		return
	}
	l.remove(b)
}

// After schedules fn on the loop timeline.
func (l *Loop) After(delay float64, fn func()) { l.timeline.After(delay, fn) }

// Animate runs a until it finishes. Animators advance during the side
// effect step.
func (l *Loop) Animate(a Animator) { l.tweens.Add(a) }

func (l *Loop) add(b *Batch) {
	if slices.Contains(l.live, b) {
		return
	}
	l.live = append(l.live, b)
	l.ctx.Graph.Insert(b)
}

func (l *Loop) remove(b *Batch) {
	i := slices.Index(l.live, b)
	if i < 0 {
		return
	}
	l.live = slices.Delete(l.live, i, i+1)
	l.ctx.Graph.Remove(b)
}

func (l *Loop) flush() {
	for _, b := range l.adds {
		l.add(b)
	}
	clear(l.adds)
	l.adds = l.adds[:0]
	for _, b := range l.removes {
		l.remove(b)
	}
	clear(l.removes)
	l.removes = l.removes[:0]
}

// Tick advances the scene by dt seconds and renders one frame. A failing
// step is logged and skipped for this frame only.
func (l *Loop) Tick(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	l.elapsed += dt
	l.frame++
	tick := Tick{Frame: l.frame, Time: l.elapsed, DT: dt}
	l.stats = frameStats{}

	l.inTick = true
	guard("timers", func() error {
		l.stats.timersFired = l.timeline.Advance(dt)
		return nil
	})
	l.flush()

	start := time.Now()
	batches := slices.Clone(l.live)
	guard("update", func() error {
		for _, b := range batches {
			b.Update(tick)
		}
		return nil
	})
	guard("cull", func() error {
		for _, b := range batches {
			b.Cull()
		}
		return nil
	})
	guard("sweep", func() error {
		for _, b := range batches {
			if b.Exhausted() {
				l.ctx.Graph.Remove(b)
			}
		}
		l.live = slices.DeleteFunc(l.live, func(b *Batch) bool {
			return b.Exhausted()
		})
		return nil
	})
	l.inTick = false
	l.flush()
	l.stats.updateTime = time.Since(start)

	start = time.Now()
	guard("scene", func() error {
		l.applyScene(dt)
		return nil
	})
	l.stats.effectTime = time.Since(start)

	start = time.Now()
	guard("render", l.ctx.Graph.Render)
	l.stats.renderTime = time.Since(start)
	if rs, ok := l.ctx.Graph.(renderStats); ok {
		l.stats.pointCount = rs.PointCount()
		l.stats.drawCalls = rs.DrawCalls()
	}
	l.stats.batchCount = len(l.live)
	l.stats.debugLog(l.frame)
}

// applyScene resolves the scroll state and applies every scroll-dependent
// side effect.
func (l *Loop) applyScene(dt float64) {
	f := 0.0
	if l.ctx.Scroll != nil {
		f = l.ctx.Scroll.Fraction()
	}
	st, changed := l.machine.Update(f)
	l.state = st
	l.ctx.Graph.SetCamera(st.Camera)
	if changed {
		debugf("scroll %.3f -> scene %s", st.Fraction, st.Scene)
	}

	if st.Scene == SceneReasons && l.ctx.Hearts != nil {
		l.ctx.Hearts.Rotation.Y += HeartYawStep
	}
	if rb := l.ctx.RingBox; rb != nil {
		if st.Scene >= SceneProposal {
			rb.Reveal()
		}
		rb.Spin()
	}
	if st.Scene == SceneResponse && l.celebration.State() == CelebrationIdle {
		l.celebration.Arm()
	}
	if a := l.ctx.Audio; a != nil {
		a.Update(st.Fraction)
		a.Advance(dt)
	}
	l.tweens.Update(dt)
}

// Gesture reports a user interaction to the audio ladder.
func (l *Loop) Gesture() {
	if l.ctx.Audio != nil {
		l.ctx.Audio.Gesture()
	}
}

// Pointer tilts the heart field toward a pointer at ndc.
func (l *Loop) Pointer(ndc Vec2) {
	if l.ctx.Hearts != nil {
		l.ctx.Hearts.Tilt = Vec2{X: ndc.Y * PointerTiltScale, Y: ndc.X * PointerTiltScale}
	}
}

// Click handles a primary click at ndc: it counts as a gesture and opens the
// ring box when the click lands near the centre while it is revealed.
func (l *Loop) Click(ndc Vec2) bool {
	l.Gesture()
	rb := l.ctx.RingBox
	if rb == nil || !rb.Revealed() {
		return false
	}
	if math.Abs(ndc.X) >= ringBoxHitRadius || math.Abs(ndc.Y) >= ringBoxHitRadius {
		return false
	}
	return l.celebration.OpenRingBox(rb)
}

// Confirm starts the celebration.
func (l *Loop) Confirm() {
	l.Gesture()
	l.celebration.Trigger()
}

// guard runs one step, converting a panic into a logged error. It reports
// whether the step completed.
func guard(step string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			warnOnce(step+"-panic", "%s step panicked: %v", step, r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		warnOnce(step, "%s step: %v", step, err)
		return false
	}
	return true
}
