package serenade

import (
	"math"
	"math/rand/v2"
)

// Particle holds per-particle simulation state. Particles are owned by exactly
// one Batch and are never referenced outside it.
type Particle struct {
	Pos      Vec3
	Vel      Vec3
	Rotation Vec3 // accumulated Euler rotation in radians
	Spin     Vec3 // rotation added each tick
	Size     float64
	Alpha    float64
	Phase    float64 // per-particle phase offset for sinusoidal motion
	Speed    float64 // per-particle rate (drift frequency or fall speed)
	Color    Color
}

// RuleKind tags the update rule variant a Batch applies each tick.
type RuleKind uint8

const (
	// RuleDrift perturbs each particle by a small sinusoidal offset keyed by
	// its index and the global time. Used by the heart field.
	RuleDrift RuleKind = iota
	// RuleFallAndWrap moves particles down at a constant per-particle speed
	// with a horizontal wobble, wrapping them back to the ceiling at the floor.
	RuleFallAndWrap
	// RuleProjectile integrates velocity under constant gravity and fades
	// opacity by a fixed decrement. Used by confetti and fireworks.
	RuleProjectile
)

// String returns the rule's lowercase name.
func (k RuleKind) String() string {
	switch k {
	case RuleDrift:
		return "drift"
	case RuleFallAndWrap:
		return "fall-and-wrap"
	case RuleProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

const (
	// DriftAmplitude bounds the per-tick drift offset on each axis.
	DriftAmplitude = 0.01
	// WobbleAmplitude bounds the per-tick horizontal wobble of falling petals.
	WobbleAmplitude = 0.01
	// PetalFloor is the height below which a falling particle wraps.
	PetalFloor = -5.0
	// PetalCeiling is the height a wrapped particle restarts from.
	PetalCeiling = 10.0
	// PetalSpan is the horizontal extent wrapped particles are scattered across.
	PetalSpan = 10.0
	// ProjectileFloor is the height below which projectiles are culled.
	ProjectileFloor = -10.0
)

// UpdateRule is the shared per-tick behavior of every particle in a batch.
// Exactly one variant is active, selected by Kind; Gravity and Fade only
// apply to RuleProjectile.
type UpdateRule struct {
	Kind    RuleKind
	Gravity float64 // subtracted from Vel.Y every tick
	Fade    float64 // subtracted from Alpha every tick; zero disables fading
}

// Drift returns the rule used by the heart field.
func Drift() UpdateRule { return UpdateRule{Kind: RuleDrift} }

// FallAndWrap returns the rule used by the rose petals.
func FallAndWrap() UpdateRule { return UpdateRule{Kind: RuleFallAndWrap} }

// Projectile returns a projectile rule with the given gravity and fade.
func Projectile(gravity, fade float64) UpdateRule {
	return UpdateRule{Kind: RuleProjectile, Gravity: gravity, Fade: fade}
}

// Apply advances a single particle by one tick. i is the particle's index in
// its batch and feeds the drift phase.
func (r UpdateRule) Apply(p *Particle, i int, t Tick) {
	switch r.Kind {
	case RuleDrift:
		arg := t.Time*p.Speed + float64(i)
		p.Pos.X += math.Sin(arg) * DriftAmplitude
		p.Pos.Y += math.Cos(arg) * DriftAmplitude
	case RuleFallAndWrap:
		p.Pos.Y -= p.Speed
		p.Pos.X += math.Sin(t.Time+p.Phase) * WobbleAmplitude
		p.Rotation = p.Rotation.Add(p.Spin)
		if p.Pos.Y < PetalFloor {
			p.Pos.Y = PetalCeiling
			p.Pos.X = (rand.Float64() - 0.5) * PetalSpan
		}
	case RuleProjectile:
		p.Pos = p.Pos.Add(p.Vel)
		p.Vel.Y -= r.Gravity
		p.Rotation = p.Rotation.Add(p.Spin)
		if r.Fade > 0 {
			p.Alpha -= r.Fade
		}
	}
}

// retains reports whether a particle survives a cull pass.
func (r UpdateRule) retains(p *Particle) bool {
	if r.Kind != RuleProjectile {
		return true
	}
	return p.Alpha > 0 && p.Pos.Y >= ProjectileFloor
}

// Lifetime is a batch's retention policy.
type Lifetime uint8

const (
	// Persistent batches are never culled; out-of-bounds particles are
	// wrapped in place.
	Persistent Lifetime = iota
	// Transient batches shrink particle by particle until empty and are then
	// discarded.
	Transient
)

// Tick is the shared time input to a batch update.
type Tick struct {
	Frame uint64  // frames since the loop started
	Time  float64 // seconds since the loop started
	DT    float64 // seconds since the previous tick
}

// Generator initializes the i-th particle of a spawn call.
type Generator func(i int, p *Particle)

// Batch is a homogeneous set of particles sharing one update rule and one
// lifetime policy. A Batch is also a Renderable: the scene graph draws its
// particles as camera-facing sprites.
type Batch struct {
	Name      string
	Rule      UpdateRule
	Lifetime  Lifetime
	Shape     Shape
	BlendMode BlendMode

	// Rotation is a batch-level Euler rotation applied around the origin at
	// render time (heart field yaw).
	Rotation Vec3
	// Tilt is a pointer-driven offset: X is added to Rotation.X and Y to
	// Rotation.Y.
	Tilt Vec2
	// Opacity scales every particle's alpha at render time.
	Opacity float64
	Visible bool

	particles []Particle
}

// NewBatch creates an empty, visible batch.
func NewBatch(name string, rule UpdateRule, lifetime Lifetime) *Batch {
	return &Batch{
		Name:     name,
		Rule:     rule,
		Lifetime: lifetime,
		Opacity:  1,
		Visible:  true,
	}
}

// Spawn appends count particles, each initialized by gen. A count of zero or
// less is a no-op.
func (b *Batch) Spawn(count int, gen Generator) {
	if count <= 0 {
		return
	}
	start := len(b.particles)
	b.particles = append(b.particles, make([]Particle, count)...)
	for i := 0; i < count; i++ {
		p := &b.particles[start+i]
		p.Alpha = 1
		p.Size = 0.1
		p.Color = ColorWhite
		if gen != nil {
			gen(i, p)
		}
	}
}

// Update applies the batch rule to every particle in place.
func (b *Batch) Update(t Tick) {
	for i := range b.particles {
		b.Rule.Apply(&b.particles[i], i, t)
	}
}

// Cull removes particles that fail the rule's retention predicate. Persistent
// batches are left untouched: their rules wrap particles during Update.
// Surviving particles keep their relative order.
func (b *Batch) Cull() {
	if b.Lifetime != Transient {
		return
	}
	kept := b.particles[:0]
	for i := range b.particles {
		if b.Rule.retains(&b.particles[i]) {
			kept = append(kept, b.particles[i])
		}
	}
	// Zero the tail so culled particles don't linger in the backing array.
	clear(b.particles[len(kept):])
	b.particles = kept
}

// Exhausted reports whether the batch is transient and has no particles left.
func (b *Batch) Exhausted() bool {
	return b.Lifetime == Transient && len(b.particles) == 0
}

// Len returns the number of live particles.
func (b *Batch) Len() int {
	return len(b.particles)
}

// Particles returns the live particles. The returned slice MUST NOT be
// retained across ticks.
func (b *Batch) Particles() []Particle {
	return b.particles
}

// AppendPoints implements Renderable. The batch rotation plus tilt is applied
// around the origin; opacity scales every particle's alpha.
func (b *Batch) AppendPoints(dst []Point) []Point {
	if !b.Visible || b.Opacity <= 0 {
		return dst
	}
	rot := Vec3{b.Rotation.X + b.Tilt.X, b.Rotation.Y + b.Tilt.Y, b.Rotation.Z}
	var m Affine3
	rotated := rot != (Vec3{})
	if rotated {
		m = eulerMatrix(rot)
	}
	for i := range b.particles {
		p := &b.particles[i]
		a := clamp01(p.Alpha) * b.Opacity
		if a <= 0 {
			continue
		}
		pos := p.Pos
		if rotated {
			pos = transformPoint(m, pos)
		}
		dst = append(dst, Point{
			Pos:    pos,
			Size:   p.Size,
			Color:  p.Color.WithAlpha(p.Color.A * a),
			Shape:  b.Shape,
			Blend:  b.BlendMode,
			Angle:  p.Rotation.X + p.Rotation.Z,
			Squash: math.Abs(math.Cos(p.Rotation.Y)),
		})
	}
	return dst
}

// Random returns a random float64 in [Min, Max).
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}
