package serenade

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// batchKey groups sprites that can be submitted in a single draw call.
type batchKey struct {
	shape Shape
	blend BlendMode
}

func spriteBatchKey(s *sprite) batchKey {
	return batchKey{shape: s.shape, blend: s.blend}
}

// spriteTextureRadius is the radius of the generated disc texture.
const spriteTextureRadius = 16

// spriteTextures holds one source image per Shape.
type spriteTextures [2]*ebiten.Image

func (t *spriteTextures) get(s Shape) *ebiten.Image {
	if int(s) >= len(t) {
		s = ShapeSquare
	}
	if t[s] == nil {
		switch s {
		case ShapeDisc:
			t[s] = generateCircle(spriteTextureRadius)
		default:
			img := ebiten.NewImage(4, 4)
			img.Fill(color.White)
			t[s] = img
		}
	}
	return t[s]
}

// generateCircle creates a feathered white circle image with the given radius.
// Uses smoothstep falloff and premultiplied alpha.
func generateCircle(radius float64) *ebiten.Image {
	size := max(int(math.Ceil(radius*2)), 1)
	img := ebiten.NewImage(size, size)
	img.WritePixels(circlePixels(radius, size))
	return img
}

// circlePixels returns premultiplied RGBA pixels of a feathered disc.
func circlePixels(radius float64, size int) []byte {
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			dist := math.Sqrt(dx*dx+dy*dy) / radius
			var alpha float64
			if dist < 1 {
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}
			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix
}

// quadCorners returns the four screen corners of a sprite in TL, TR, BL, BR
// order, rotated by its angle and squashed vertically.
func quadCorners(s *sprite) [4][2]float32 {
	hw := float64(s.half)
	hh := hw
	if s.shape == ShapeSquare && s.squash > 0 {
		hh = math.Max(hw*s.squash, 0.5)
	}
	lx := [4]float64{-hw, hw, -hw, hw}
	ly := [4]float64{-hh, -hh, hh, hh}
	sin, cos := 0.0, 1.0
	if s.shape == ShapeSquare && s.angle != 0 {
		sin, cos = math.Sincos(s.angle)
	}
	var out [4][2]float32
	for i := 0; i < 4; i++ {
		out[i][0] = s.x + float32(lx[i]*cos-ly[i]*sin)
		out[i][1] = s.y + float32(lx[i]*sin+ly[i]*cos)
	}
	return out
}

// submitSprites draws sorted sprites, coalescing runs that share a batch key
// into one DrawTriangles32 call. It returns the number of draw calls.
func (st *Stage) submitSprites(target *ebiten.Image) int {
	if len(st.sprites) == 0 {
		return 0
	}
	calls := 0
	key := spriteBatchKey(&st.sprites[0])
	for i := range st.sprites {
		s := &st.sprites[i]
		k := spriteBatchKey(s)
		if k != key {
			if st.flushSpriteBatch(target, key) {
				calls++
			}
			key = k
		}
		st.appendSpriteQuad(s)
	}
	if st.flushSpriteBatch(target, key) {
		calls++
	}
	return calls
}

func (st *Stage) appendSpriteQuad(s *sprite) {
	src := st.textures.get(s.shape)
	b := src.Bounds()
	su0, sv0 := float32(b.Min.X), float32(b.Min.Y)
	su1, sv1 := float32(b.Max.X), float32(b.Max.Y)
	psx := [4]float32{su0, su1, su0, su1}
	psy := [4]float32{sv0, sv0, sv1, sv1}

	corners := quadCorners(s)
	base := uint32(len(st.verts))
	for j := 0; j < 4; j++ {
		st.verts = append(st.verts, ebiten.Vertex{
			DstX:   corners[j][0],
			DstY:   corners[j][1],
			SrcX:   psx[j],
			SrcY:   psy[j],
			ColorR: s.r,
			ColorG: s.g,
			ColorB: s.b,
			ColorA: s.a,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	st.inds = append(st.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flushSpriteBatch submits accumulated vertices as a single DrawTriangles32
// call and reports whether anything was drawn.
func (st *Stage) flushSpriteBatch(target *ebiten.Image, key batchKey) bool {
	if len(st.verts) == 0 {
		return false
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = key.blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.Filter = ebiten.FilterLinear

	target.DrawTriangles32(st.verts, st.inds, st.textures.get(key.shape), &triOp)

	st.verts = st.verts[:0]
	st.inds = st.inds[:0]
	return true
}
