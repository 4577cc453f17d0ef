package serenade

import (
	"io"
	"testing"
)

// setupBenchLoop creates a loop over a fake graph with the full-quality
// scene content.
func setupBenchLoop(f float64) *Loop {
	SetLogOutput(io.Discard)
	ctx := NewSceneContext(&fakeGraph{}, FixedFraction(f), DefaultCounts)
	return NewLoop(ctx)
}

// --- Loop ---

func BenchmarkLoopTick_Idle(b *testing.B) {
	l := setupBenchLoop(0.4)
	l.Tick(frameDT) // warmup

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Tick(frameDT)
	}
}

func BenchmarkLoopTick_Celebration(b *testing.B) {
	l := setupBenchLoop(0.95)
	l.Tick(frameDT)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if i%600 == 0 {
			l.Confirm()
		}
		l.Tick(frameDT)
	}
}

// --- Particles ---

func BenchmarkBatchUpdate_Hearts(b *testing.B) {
	batch := NewHeartBatch(10000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		batch.Update(tickAt(uint64(i), frameDT))
	}
}

func BenchmarkBatchUpdate_Petals(b *testing.B) {
	batch := NewPetalBatch(10000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		batch.Update(tickAt(uint64(i), frameDT))
		batch.Cull()
	}
}

func BenchmarkBatchAppendPoints_Rotated(b *testing.B) {
	batch := NewHeartBatch(10000)
	batch.Rotation.Y = 0.3
	pts := batch.AppendPoints(nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pts = batch.AppendPoints(pts[:0])
	}
}

// --- Projection and sort ---

func benchPoints() []Point {
	var pts []Point
	pts = NewHeartBatch(DefaultCounts.Hearts).AppendPoints(pts)
	pts = NewPetalBatch(DefaultCounts.Petals).AppendPoints(pts)
	pts = NewStarfield(DefaultCounts.Stars).AppendPoints(pts)
	return pts
}

func BenchmarkProjectPoints(b *testing.B) {
	pts := benchPoints()
	cam := testCamera()
	light := DefaultLighting()
	sprites := projectPoints(nil, pts, cam, light)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sprites = projectPoints(sprites, pts, cam, light)
	}
}

func BenchmarkSortSprites(b *testing.B) {
	sprites := projectPoints(nil, benchPoints(), testCamera(), nil)
	work := make([]sprite, len(sprites))
	buf := sortSprites(append(work[:0], sprites...), nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		copy(work, sprites)
		buf = sortSprites(work, buf)
	}
}

// --- Scroll ---

func BenchmarkResolve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Resolve(float64(i%1000) / 1000)
	}
}

// --- Allocation guards ---

func TestProjectSortZeroAllocs(t *testing.T) {
	pts := benchPoints()
	cam := testCamera()
	sprites := projectPoints(nil, pts, cam, nil)
	buf := sortSprites(sprites, nil)
	allocs := testing.AllocsPerRun(10, func() {
		sprites = projectPoints(sprites, pts, cam, nil)
		buf = sortSprites(sprites, buf)
	})
	if allocs != 0 {
		t.Errorf("allocs per frame = %v, want 0", allocs)
	}
}
