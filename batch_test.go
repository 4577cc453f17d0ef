package serenade

import (
	"math"
	"testing"
)

func assertVertexNear(t *testing.T, label string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > 0.01 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

// --- batchKey ---

func TestSpriteBatchKey(t *testing.T) {
	a := sprite{shape: ShapeDisc, blend: BlendAdd, depth: 1}
	b := sprite{shape: ShapeDisc, blend: BlendAdd, depth: 9}
	c := sprite{shape: ShapeDisc, blend: BlendNormal}
	d := sprite{shape: ShapeSquare, blend: BlendAdd}
	if spriteBatchKey(&a) != spriteBatchKey(&b) {
		t.Error("same shape and blend should share a key")
	}
	if spriteBatchKey(&a) == spriteBatchKey(&c) {
		t.Error("different blend should split the key")
	}
	if spriteBatchKey(&a) == spriteBatchKey(&d) {
		t.Error("different shape should split the key")
	}
}

// --- quadCorners ---

func TestQuadCornersAxisAligned(t *testing.T) {
	s := sprite{x: 100, y: 50, half: 10, shape: ShapeDisc, angle: 1, squash: 0.2}
	c := quadCorners(&s)
	// Discs ignore angle and squash.
	want := [4][2]float32{{90, 40}, {110, 40}, {90, 60}, {110, 60}}
	for i := range want {
		assertVertexNear(t, "x", c[i][0], want[i][0])
		assertVertexNear(t, "y", c[i][1], want[i][1])
	}
}

func TestQuadCornersRotatedSquare(t *testing.T) {
	s := sprite{x: 0, y: 0, half: 10, shape: ShapeSquare, angle: math.Pi / 2}
	c := quadCorners(&s)
	// A quarter turn moves TL (-10,-10) to (10,-10).
	assertVertexNear(t, "TL.x", c[0][0], 10)
	assertVertexNear(t, "TL.y", c[0][1], -10)
	assertVertexNear(t, "BR.x", c[3][0], -10)
	assertVertexNear(t, "BR.y", c[3][1], 10)
}

func TestQuadCornersSquash(t *testing.T) {
	s := sprite{half: 10, shape: ShapeSquare, squash: 0.25}
	c := quadCorners(&s)
	assertVertexNear(t, "TL.y", c[0][1], -2.5)
	assertVertexNear(t, "BL.y", c[2][1], 2.5)

	s.squash = 0.001
	c = quadCorners(&s)
	assertVertexNear(t, "flat TL.y", c[0][1], -0.5)
}

// --- circlePixels ---

func TestCirclePixels(t *testing.T) {
	const r, size = 8.0, 16
	pix := circlePixels(r, size)
	if len(pix) != size*size*4 {
		t.Fatalf("len = %d, want %d", len(pix), size*size*4)
	}
	alpha := func(x, y int) byte { return pix[(y*size+x)*4+3] }
	if alpha(0, 0) != 0 {
		t.Errorf("corner alpha = %d, want 0", alpha(0, 0))
	}
	centre := alpha(7, 7)
	if centre < 240 {
		t.Errorf("centre alpha = %d, want near 255", centre)
	}
	if edge := alpha(0, 7); edge >= centre {
		t.Errorf("edge alpha %d not below centre %d", edge, centre)
	}
	// Premultiplied white: rgb equals alpha.
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+3] || pix[i+1] != pix[i+3] || pix[i+2] != pix[i+3] {
			t.Fatalf("pixel %d not premultiplied white", i/4)
		}
	}
}

// --- appendSpriteQuad / submitSprites ---

func TestAppendSpriteQuad(t *testing.T) {
	st := NewStage(64, 64)
	s := sprite{x: 32, y: 32, half: 4, r: 0.5, g: 0.25, b: 0, a: 0.5, shape: ShapeSquare}
	st.appendSpriteQuad(&s)

	if len(st.verts) != 4 || len(st.inds) != 6 {
		t.Fatalf("verts = %d inds = %d, want 4 and 6", len(st.verts), len(st.inds))
	}
	assertVertexNear(t, "TL.DstX", st.verts[0].DstX, 28)
	assertVertexNear(t, "BR.DstY", st.verts[3].DstY, 36)
	assertVertexNear(t, "BR.SrcX", st.verts[3].SrcX, 4)
	for i, v := range st.verts {
		if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorA != 0.5 {
			t.Errorf("vertex %d colour = %v %v %v", i, v.ColorR, v.ColorG, v.ColorA)
		}
	}
	wantInds := []uint32{0, 1, 2, 1, 3, 2}
	for i, w := range wantInds {
		if st.inds[i] != w {
			t.Errorf("ind[%d] = %d, want %d", i, st.inds[i], w)
		}
	}

	st.appendSpriteQuad(&s)
	if st.inds[6] != 4 {
		t.Errorf("second quad base = %d, want 4", st.inds[6])
	}
}

func TestSubmitSpritesCoalesces(t *testing.T) {
	st := NewStage(64, 64)
	target := st.ensureFrame()
	st.sprites = []sprite{
		{x: 10, y: 10, half: 2, a: 1, shape: ShapeDisc, blend: BlendAdd},
		{x: 12, y: 10, half: 2, a: 1, shape: ShapeDisc, blend: BlendAdd},
		{x: 14, y: 10, half: 2, a: 1, shape: ShapeSquare},
		{x: 16, y: 10, half: 2, a: 1, shape: ShapeSquare},
		{x: 18, y: 10, half: 2, a: 1, shape: ShapeDisc, blend: BlendAdd},
	}
	if calls := st.submitSprites(target); calls != 3 {
		t.Errorf("draw calls = %d, want 3", calls)
	}
	if len(st.verts) != 0 || len(st.inds) != 0 {
		t.Error("vertex buffers not reset after flush")
	}
}

func TestSubmitSpritesEmpty(t *testing.T) {
	st := NewStage(64, 64)
	if calls := st.submitSprites(st.ensureFrame()); calls != 0 {
		t.Errorf("draw calls = %d, want 0", calls)
	}
}
