package serenade

import (
	"math"
	"testing"
)

func TestFogFactor(t *testing.T) {
	f := Fog{Density: 0.02}
	if got := f.Factor(0); got != 0 {
		t.Errorf("Factor(0) = %f, want 0", got)
	}
	want := 1 - math.Exp(-1)
	if got := f.Factor(50); !approxEqual(got, want, 1e-12) {
		t.Errorf("Factor(50) = %f, want %f", got, want)
	}
	if got := (Fog{}).Factor(100); got != 0 {
		t.Errorf("zero density Factor = %f, want 0", got)
	}
	if a, b := f.Factor(10), f.Factor(20); a >= b {
		t.Errorf("fog not increasing with depth: %f >= %f", a, b)
	}
}

func TestApplyFog(t *testing.T) {
	l := &Lighting{Fog: Fog{Color: Hex(0x0000ff), Density: 1}}
	c := l.ApplyFog(Hex(0xff0000), 100)
	if !approxEqual(c.B, 1, 1e-6) || !approxEqual(c.R, 0, 1e-6) {
		t.Errorf("fully fogged colour = %+v, want fog blue", c)
	}
	if got := l.ApplyFog(Hex(0xff0000), 0); got != Hex(0xff0000) {
		t.Errorf("ApplyFog at depth 0 = %+v, want unchanged", got)
	}
}

func TestShadeKeepsAlphaAndRange(t *testing.T) {
	l := DefaultLighting()
	for _, pos := range []Vec3{{}, {5, 5, 5}, {-50, 20, 0}} {
		c := l.Shade(Color{R: 1, G: 0.5, B: 0.25, A: 0.3}, pos)
		if c.A != 0.3 {
			t.Errorf("alpha = %f, want 0.3", c.A)
		}
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Errorf("component %f out of range at %v", v, pos)
			}
		}
	}
}

func TestShadeDistanceCutoff(t *testing.T) {
	light := &Light{Pos: Vec3{}, Color: ColorWhite, Intensity: 4, Distance: 10, Enabled: true}
	l := &Lighting{Lights: []*Light{light}}
	near := l.Shade(ColorWhite, Vec3{X: 1})
	far := l.Shade(ColorWhite, Vec3{X: 20})
	if near.R <= 0 {
		t.Errorf("near shade = %f, want lit", near.R)
	}
	if far.R != 0 {
		t.Errorf("shade beyond cutoff = %f, want 0", far.R)
	}

	light.Enabled = false
	if got := l.Shade(ColorWhite, Vec3{X: 1}); got.R != 0 {
		t.Errorf("disabled light shade = %f, want 0", got.R)
	}
}

func TestAddRemoveLight(t *testing.T) {
	l := &Lighting{}
	a, b := &Light{}, &Light{}
	l.AddLight(a)
	l.AddLight(b)
	l.RemoveLight(a)
	if len(l.Lights) != 1 || l.Lights[0] != b {
		t.Errorf("lights after remove = %v", l.Lights)
	}
	l.RemoveLight(a)
	if len(l.Lights) != 1 {
		t.Errorf("removing a missing light changed the list")
	}
}

func TestDefaultLighting(t *testing.T) {
	l := DefaultLighting()
	if len(l.Lights) != 3 {
		t.Fatalf("lights = %d, want 3", len(l.Lights))
	}
	if l.Fog.Density != 0.02 || l.Fog.Color != Hex(0x0a0a2e) {
		t.Errorf("fog = %+v", l.Fog)
	}
}
