package serenade

import "math"

// Light is a point light. Intensity falls off linearly to zero at Distance.
type Light struct {
	Pos       Vec3
	Color     Color
	Intensity float64
	// Distance is the cutoff range; zero means unlimited.
	Distance float64
	Enabled  bool
}

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   Color
	Density float64
}

// Factor returns the fog amount in [0, 1] at a view depth.
func (f Fog) Factor(depth float64) float64 {
	if f.Density <= 0 || depth <= 0 {
		return 0
	}
	d := f.Density * depth
	return clamp01(1 - math.Exp(-d*d))
}

// Lighting holds the ambient term, point lights and fog applied to lit
// points.
type Lighting struct {
	Ambient          Color
	AmbientIntensity float64
	Lights           []*Light
	Fog              Fog
}

// DefaultLighting returns the romantic three-light rig: a red key light, a
// magenta fill below and a white front light, with deep blue fog.
func DefaultLighting() *Lighting {
	return &Lighting{
		Ambient:          ColorWhite,
		AmbientIntensity: 1,
		Lights: []*Light{
			{Pos: Vec3{5, 5, 5}, Color: Hex(0xFF1744), Intensity: 5, Distance: 100, Enabled: true},
			{Pos: Vec3{-5, -5, 5}, Color: Hex(0xF50057), Intensity: 3, Distance: 100, Enabled: true},
			{Pos: Vec3{0, 0, 10}, Color: ColorWhite, Intensity: 2, Distance: 100, Enabled: true},
		},
		Fog: Fog{Color: Hex(0x0a0a2e), Density: 0.02},
	}
}

// AddLight appends a light.
func (l *Lighting) AddLight(light *Light) {
	l.Lights = append(l.Lights, light)
}

// RemoveLight removes a light by identity.
func (l *Lighting) RemoveLight(light *Light) {
	for i, x := range l.Lights {
		if x == light {
			l.Lights = append(l.Lights[:i], l.Lights[i+1:]...)
			return
		}
	}
}

// lightNorm keeps the summed light contribution of the default rig near 1.
const lightNorm = 0.25

// Shade returns c lit at world position pos. The result is clamped to the
// displayable range; alpha is untouched.
func (l *Lighting) Shade(c Color, pos Vec3) Color {
	r := l.Ambient.R * l.AmbientIntensity
	g := l.Ambient.G * l.AmbientIntensity
	b := l.Ambient.B * l.AmbientIntensity
	for _, lt := range l.Lights {
		if !lt.Enabled || lt.Intensity <= 0 {
			continue
		}
		att := 1.0
		if lt.Distance > 0 {
			att = clamp01(1 - pos.Sub(lt.Pos).Len()/lt.Distance)
		}
		k := lt.Intensity * att * lightNorm
		r += lt.Color.R * k
		g += lt.Color.G * k
		b += lt.Color.B * k
	}
	// Map the accumulated irradiance back into [0, 1] around the ambient level.
	scale := 1 / (1 + l.AmbientIntensity*lightNorm*4)
	return Color{
		R: clamp01(c.R * r * scale * 2),
		G: clamp01(c.G * g * scale * 2),
		B: clamp01(c.B * b * scale * 2),
		A: c.A,
	}
}

// ApplyFog blends c toward the fog colour by the fog factor at depth.
func (l *Lighting) ApplyFog(c Color, depth float64) Color {
	f := l.Fog.Factor(depth)
	if f == 0 {
		return c
	}
	return Color{
		R: lerp(c.R, l.Fog.Color.R, f),
		G: lerp(c.G, l.Fog.Color.G, f),
		B: lerp(c.B, l.Fog.Color.B, f),
		A: c.A,
	}
}
