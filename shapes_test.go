package serenade

import (
	"math"
	"testing"
)

func TestHeartPoint(t *testing.T) {
	// t=0 is the top notch of the heart.
	x, y := HeartPoint(0)
	if !approxEqual(x, 0, 1e-12) || !approxEqual(y, 5*heartScale, 1e-12) {
		t.Errorf("HeartPoint(0) = (%v, %v), want (0, %v)", x, y, 5*heartScale)
	}
	// The curve is symmetric about the Y axis.
	for _, tt := range []float64{0.3, 1.1, 2.5} {
		x1, y1 := HeartPoint(tt)
		x2, y2 := HeartPoint(-tt)
		if !approxEqual(x1, -x2, 1e-12) || !approxEqual(y1, y2, 1e-12) {
			t.Errorf("HeartPoint(±%v) not mirrored", tt)
		}
	}
}

func TestNewHeartBatch(t *testing.T) {
	b := NewHeartBatch(500)
	if b.Len() != 500 || b.Lifetime != Persistent || b.Rule.Kind != RuleDrift {
		t.Fatalf("heart batch = len %d lifetime %v rule %v", b.Len(), b.Lifetime, b.Rule.Kind)
	}
	if b.BlendMode != BlendAdd {
		t.Errorf("BlendMode = %v, want additive", b.BlendMode)
	}
	for _, p := range b.Particles() {
		if math.Abs(p.Pos.Z) > 1 || p.Color.R != 1 || p.Color.G > 0.3 {
			t.Fatalf("heart particle %+v out of range", p)
		}
	}
}

func TestNewPetalBatch(t *testing.T) {
	b := NewPetalBatch(200)
	if b.Len() != 200 || b.Rule.Kind != RuleFallAndWrap || b.Shape != ShapeSquare {
		t.Fatalf("petal batch = len %d rule %v shape %v", b.Len(), b.Rule.Kind, b.Shape)
	}
	for _, p := range b.Particles() {
		if p.Pos.Y < PetalFloor || p.Pos.Y > PetalCeiling {
			t.Fatalf("petal spawned at y=%v", p.Pos.Y)
		}
		if p.Speed < 0.01 || p.Speed >= 0.03 {
			t.Fatalf("petal speed %v", p.Speed)
		}
	}
}

func TestNewConfettiBatch(t *testing.T) {
	b := NewConfettiBatch(DefaultConfetti)
	if b.Len() != 500 || b.Lifetime != Transient {
		t.Fatalf("confetti = len %d lifetime %v", b.Len(), b.Lifetime)
	}
	if b.Rule.Gravity != 0.005 || b.Rule.Fade != 0 {
		t.Errorf("rule = %+v", b.Rule)
	}
	for _, p := range b.Particles() {
		if p.Vel.Y < 0.1 || p.Vel.Y >= 0.4 {
			t.Fatalf("confetti launched with vy=%v", p.Vel.Y)
		}
	}
}

func TestNewFireworkBatch(t *testing.T) {
	origin := Vec3{1, 4, -2}
	b := NewFireworkBatch(origin, DefaultFirework)
	if b.Len() != 100 || b.Rule.Fade != 0.01 {
		t.Fatalf("firework = len %d fade %v", b.Len(), b.Rule.Fade)
	}
	first := b.Particles()[0].Color
	for i, p := range b.Particles() {
		if p.Pos != origin {
			t.Fatalf("spark %d starts at %v, want %v", i, p.Pos, origin)
		}
		if p.Color != first {
			t.Fatalf("spark %d colour differs", i)
		}
		speed := math.Hypot(p.Vel.X, p.Vel.Y)
		if !FireworkSpeed.Contains(speed) {
			t.Fatalf("spark %d planar speed %v outside %v", i, speed, FireworkSpeed)
		}
	}
	// Sparks are spaced evenly in angle.
	p1 := b.Particles()[25]
	if math.Abs(p1.Vel.X) > 1e-12 || p1.Vel.Y <= 0 {
		t.Errorf("spark 25 velocity %v, want straight up", p1.Vel)
	}
}

func TestRandomFireworkOrigin(t *testing.T) {
	for i := 0; i < 200; i++ {
		o := RandomFireworkOrigin()
		if math.Abs(o.X) > 5 || o.Y < 2 || o.Y >= 7 || math.Abs(o.Z) > 2.5 {
			t.Fatalf("origin %v out of range", o)
		}
	}
}
