package serenade

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a full-frame post-processing effect.
type Filter interface {
	// Apply renders src into dst with the effect.
	Apply(src, dst *ebiten.Image)
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; shaders un-premultiply before processing
// and re-premultiply output where needed.

const brightPassShaderSrc = `//kage:unit pixels
package main

var Threshold float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	rgb := c.rgb / c.a
	lum := 0.2126*rgb.r + 0.7152*rgb.g + 0.0722*rgb.b
	// Soft knee above the threshold.
	k := smoothstep(Threshold, Threshold+0.1, lum)
	return vec4(rgb*c.a*k, c.a*k)
}
`

// compileShader compiles Kage source, wrapping failures as
// ErrResourceUnavailable.
func compileShader(name, src string) (*ebiten.Shader, error) {
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %v: %w", name, err, ErrResourceUnavailable)
	}
	return s, nil
}

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the work.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	return &BlurFilter{Radius: max(radius, 0)}
}

// Apply renders a blurred copy of src into dst.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	current := src
	for i := 0; i < passes; i++ {
		w, h = max(w/2, 1), max(h/2, 1)
		if t := f.temps[i]; t == nil || t.Bounds().Dx() != w || t.Bounds().Dy() != h {
			if t != nil {
				t.Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			t.Clear()
		}
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}
	f.scaleInto(dst, current)
}

// scaleInto draws src stretched over dst with linear filtering.
func (f *BlurFilter) scaleInto(dst, src *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// --- Bloom ---

// Bloom adds a glow around bright pixels: a bright pass, a blur of the
// result and an additive composite over the source.
type Bloom struct {
	Threshold float64
	Strength  float64
	Enabled   bool

	blur   *BlurFilter
	shader *ebiten.Shader
	failed bool
	pool   renderTexturePool
	imgOp  ebiten.DrawImageOptions
}

// NewBloom creates a bloom filter. The threshold and strength default to
// the soft look of the original presentation.
func NewBloom() *Bloom {
	return &Bloom{
		Threshold: 0.2,
		Strength:  1.2,
		Enabled:   true,
		blur:      NewBlurFilter(8),
	}
}

// Available reports whether the bloom shader compiled. Before the first Apply
// it reports true.
func (bl *Bloom) Available() bool { return !bl.failed }

func (bl *Bloom) ensureShader() bool {
	if bl.shader != nil {
		return true
	}
	if bl.failed {
		return false
	}
	s, err := compileShader("bright-pass", brightPassShaderSrc)
	if err != nil {
		bl.failed = true
		warnOnce("bloom", "bloom disabled, drawing directly: %v", err)
		return false
	}
	bl.shader = s
	return true
}

// Apply draws src into dst with bloom, or copies it directly when bloom is
// disabled or unavailable.
func (bl *Bloom) Apply(src, dst *ebiten.Image) {
	op := &bl.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendSourceOver
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(src, op)
	if !bl.Enabled || !bl.ensureShader() {
		return
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	brightPage := bl.pool.Acquire(w, h)
	blurPage := bl.pool.Acquire(w, h)
	defer bl.pool.Release(brightPage)
	defer bl.pool.Release(blurPage)
	bright := brightPage.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	blurred := blurPage.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)

	var sop ebiten.DrawRectShaderOptions
	sop.Images[0] = src
	sop.Uniforms = map[string]any{"Threshold": float32(bl.Threshold)}
	bright.DrawRectShader(w, h, bl.shader, &sop)

	bl.blur.Apply(bright, blurred)

	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.ColorScale.ScaleAlpha(float32(bl.Strength))
	op.Blend = ebiten.BlendLighter
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(blurred, op)
}
