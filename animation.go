package serenade

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously after an
// optional start delay. Create one via the convenience constructors and call
// Update(dt) each frame, or hand it to a TweenSet.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	to     [4]float64
	dur    float32
	fn     ease.TweenFunc
	delay  float64
	Done   bool
}

func newTweenGroup(duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenGroup{dur: duration, delay: delay, fn: fn}
}

func (g *TweenGroup) add(field *float64, to float64) {
	g.fields[g.count] = field
	g.to[g.count] = to
	g.count++
}

// start captures the current field values as the tween origins.
func (g *TweenGroup) start() {
	for i := 0; i < g.count; i++ {
		g.tweens[i] = gween.New(float32(*g.fields[i]), float32(g.to[i]), g.dur, g.fn)
	}
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Start values are read when the delay elapses, so a delayed tween
// picks up changes made while it waited.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.tweens[0] == nil {
		if g.delay > dt {
			g.delay -= dt
			return
		}
		dt -= g.delay
		g.delay = 0
		g.start()
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if finished {
			*g.fields[i] = g.to[i]
		} else {
			allDone = false
		}
	}
	g.Done = allDone
}

// Finished reports whether every tween reached its target.
func (g *TweenGroup) Finished() bool { return g.Done }

// TweenValue animates a single field.
func TweenValue(field *float64, to float64, duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(duration, delay, fn)
	g.add(field, to)
	return g
}

// TweenPosition animates a prop's position.
func TweenPosition(p *Prop, to Vec3, duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(duration, delay, fn)
	g.add(&p.Position.X, to.X)
	g.add(&p.Position.Y, to.Y)
	g.add(&p.Position.Z, to.Z)
	return g
}

// TweenRotationX animates a prop's pitch.
func TweenRotationX(p *Prop, to float64, duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	return TweenValue(&p.Rotation.X, to, duration, delay, fn)
}

// TweenOpacity animates a prop's opacity.
func TweenOpacity(p *Prop, to float64, duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	return TweenValue(&p.Opacity, to, duration, delay, fn)
}

// TweenColor animates all four components of a color.
func TweenColor(c *Color, to Color, duration float32, delay float64, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(duration, delay, fn)
	g.add(&c.R, to.R)
	g.add(&c.G, to.G)
	g.add(&c.B, to.B)
	g.add(&c.A, to.A)
	return g
}

// finisher is an Animator that can report completion.
type finisher interface {
	Animator
	Finished() bool
}

// TweenSet runs a collection of animators and drops finished ones.
type TweenSet struct {
	items []Animator
}

// Add schedules a.
func (s *TweenSet) Add(a Animator) {
	if a != nil {
		s.items = append(s.items, a)
	}
}

// Len returns the number of running animators.
func (s *TweenSet) Len() int { return len(s.items) }

// Update implements Animator.
func (s *TweenSet) Update(dt float64) {
	items := s.items
	for _, a := range items {
		a.Update(dt)
	}
	kept := s.items[:0]
	for _, a := range s.items {
		if f, ok := a.(finisher); ok && f.Finished() {
			continue
		}
		kept = append(kept, a)
	}
	clear(s.items[len(kept):])
	s.items = kept
}
