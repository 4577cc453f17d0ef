package serenade

import (
	"math"
	"math/rand/v2"
)

// Palettes shared by the celebration bursts.
var (
	ConfettiPalette = []Color{Hex(0xFF1744), Hex(0xF50057), Hex(0xFFD700), Hex(0xFF69B4), Hex(0xFFFFFF)}
	FireworkPalette = []Color{Hex(0xFF1744), Hex(0xF50057), Hex(0xFFD700), Hex(0xFF69B4)}
)

// heartScale maps the parametric heart curve (about 32 units wide) into world units.
const heartScale = 0.15

// HeartPoint returns the point on the parametric heart curve at t, in world units.
func HeartPoint(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x * heartScale, y * heartScale
}

// HeartField initializes particles scattered along a heart outline with a
// shallow random depth, pink-to-red colors and individual drift speeds.
func HeartField() Generator {
	return func(_ int, p *Particle) {
		x, y := HeartPoint(rand.Float64() * 2 * math.Pi)
		p.Pos = Vec3{x, y, (rand.Float64() - 0.5) * 2}
		p.Color = Color{R: 1, G: rand.Float64() * 0.3, B: rand.Float64() * 0.5, A: 1}
		p.Size = 0.3 * (Range{0.6, 1}).Random()
		p.Alpha = 0.9
		p.Speed = Range{0.01, 0.03}.Random()
	}
}

// NewHeartBatch creates the persistent heart field with count particles.
func NewHeartBatch(count int) *Batch {
	b := NewBatch("hearts", Drift(), Persistent)
	b.Shape = ShapeDisc
	b.BlendMode = BlendAdd
	b.Spawn(count, HeartField())
	return b
}

// PetalField initializes falling petals spread across the wrap volume. Petals
// start inside [PetalFloor, PetalCeiling] so the wrap bounds hold from the
// first tick.
func PetalField() Generator {
	return func(_ int, p *Particle) {
		p.Pos = Vec3{
			X: (rand.Float64() - 0.5) * PetalSpan,
			Y: Range{PetalFloor, PetalCeiling}.Random(),
			Z: (rand.Float64() - 0.5) * 5,
		}
		p.Rotation = Vec3{rand.Float64() * math.Pi, rand.Float64() * math.Pi, rand.Float64() * math.Pi}
		rs := rand.Float64() * 0.02
		p.Spin = Vec3{rs, rs, 0}
		p.Speed = Range{0.01, 0.03}.Random()
		p.Phase = rand.Float64() * 2 * math.Pi
		p.Color = Hex(0xFF1744)
		p.Alpha = 0.8
		p.Size = 0.12
	}
}

// NewPetalBatch creates the persistent rose petal batch with count particles.
func NewPetalBatch(count int) *Batch {
	b := NewBatch("petals", FallAndWrap(), Persistent)
	b.Shape = ShapeSquare
	b.Spawn(count, PetalField())
	return b
}

// BurstConfig parameterizes a celebration burst.
type BurstConfig struct {
	Count   int
	Gravity float64
	Fade    float64
	Size    float64
}

// DefaultConfetti is the burst used for each confetti shower.
var DefaultConfetti = BurstConfig{Count: 500, Gravity: 0.005, Size: 0.05}

// DefaultFirework is the burst used for each firework.
var DefaultFirework = BurstConfig{Count: 100, Gravity: 0.002, Fade: 0.01, Size: 0.04}

// ConfettiBurst scatters particles over a small square around the origin and
// throws them upward with a random sideways velocity.
func ConfettiBurst(size float64) Generator {
	return func(_ int, p *Particle) {
		p.Pos = Vec3{(rand.Float64() - 0.5) * 2, 0, (rand.Float64() - 0.5) * 2}
		p.Vel = Vec3{
			X: (rand.Float64() - 0.5) * 0.2,
			Y: Range{0.1, 0.4}.Random(),
			Z: (rand.Float64() - 0.5) * 0.2,
		}
		p.Spin = Vec3{rand.Float64() * 0.1, rand.Float64() * 0.1, rand.Float64() * 0.1}
		p.Color = ConfettiPalette[rand.IntN(len(ConfettiPalette))]
		p.Size = size
	}
}

// NewConfettiBatch creates one transient confetti burst.
func NewConfettiBatch(cfg BurstConfig) *Batch {
	b := NewBatch("confetti", Projectile(cfg.Gravity, cfg.Fade), Transient)
	b.Shape = ShapeSquare
	b.Spawn(cfg.Count, ConfettiBurst(cfg.Size))
	return b
}

// FireworkSpeed bounds the launch speed of firework sparks.
var FireworkSpeed = Range{0.05, 0.15}

// FireworkBurst launches n sparks from origin, evenly spaced in angle on the
// XY plane with a random speed and a small random depth component. All sparks
// share c.
func FireworkBurst(origin Vec3, n int, c Color, size float64) Generator {
	return func(i int, p *Particle) {
		angle := float64(i) / float64(n) * 2 * math.Pi
		speed := FireworkSpeed.Random()
		p.Pos = origin
		p.Vel = Vec3{
			X: math.Cos(angle) * speed,
			Y: math.Sin(angle) * speed,
			Z: (rand.Float64() - 0.5) * speed,
		}
		p.Color = c
		p.Size = size
	}
}

// RandomFireworkOrigin picks a launch point in the upper half of the view.
func RandomFireworkOrigin() Vec3 {
	return Vec3{
		X: (rand.Float64() - 0.5) * 10,
		Y: Range{2, 7}.Random(),
		Z: (rand.Float64() - 0.5) * 5,
	}
}

// NewFireworkBatch creates one transient firework burst at origin.
func NewFireworkBatch(origin Vec3, cfg BurstConfig) *Batch {
	b := NewBatch("firework", Projectile(cfg.Gravity, cfg.Fade), Transient)
	b.Shape = ShapeDisc
	b.BlendMode = BlendAdd
	c := FireworkPalette[rand.IntN(len(FireworkPalette))]
	b.Spawn(cfg.Count, FireworkBurst(origin, cfg.Count, c, cfg.Size))
	return b
}
