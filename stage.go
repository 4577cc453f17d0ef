package serenade

import (
	"image"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultClearColor is the deep night blue behind the scene.
var DefaultClearColor = Hex(0x0a0a2e)

// Stage is the ebiten SceneGraph. Render draws the scene into an offscreen
// frame during Update; Draw composites that frame, through bloom when
// available, onto the screen.
type Stage struct {
	Camera     *Camera
	Lighting   *Lighting
	ClearColor Color
	// Bloom is applied when compositing. Nil draws the frame directly.
	Bloom *Bloom
	// ScreenshotDir receives PNG exports.
	ScreenshotDir string

	renderables []Renderable
	points      []Point
	sprites     []sprite
	sortBuf     []sprite
	verts       []ebiten.Vertex
	inds        []uint32
	textures    spriteTextures

	frame     *ebiten.Image
	composite *ebiten.Image
	rendered  bool
	exports   []string
	lastCalls int
}

// NewStage creates a stage with a w x h pixel frame, the default lights and
// bloom.
func NewStage(w, h int) *Stage {
	return &Stage{
		Camera:        NewCamera(float64(w), float64(h)),
		Lighting:      DefaultLighting(),
		ClearColor:    DefaultClearColor,
		Bloom:         NewBloom(),
		ScreenshotDir: "screenshots",
	}
}

// Insert implements SceneGraph. Inserting twice is a no-op.
func (st *Stage) Insert(r Renderable) {
	if r == nil || slices.Contains(st.renderables, r) {
		return
	}
	st.renderables = append(st.renderables, r)
}

// Remove implements SceneGraph.
func (st *Stage) Remove(r Renderable) {
	if i := slices.Index(st.renderables, r); i >= 0 {
		st.renderables = slices.Delete(st.renderables, i, i+1)
	}
}

// Len returns the number of inserted renderables.
func (st *Stage) Len() int { return len(st.renderables) }

// SetCamera implements SceneGraph.
func (st *Stage) SetCamera(pose CameraPose) { st.Camera.SetPose(pose) }

// Resize changes the frame size. The next Render reallocates the frame.
func (st *Stage) Resize(w, h int) {
	st.Camera.SetViewport(float64(w), float64(h))
}

// collect gathers, projects and sorts every visible point.
func (st *Stage) collect() {
	st.points = st.points[:0]
	for _, r := range st.renderables {
		st.points = r.AppendPoints(st.points)
	}
	debugCheckPointCount(len(st.points))
	st.sprites = projectPoints(st.sprites, st.points, st.Camera, st.Lighting)
	st.sortBuf = sortSprites(st.sprites, st.sortBuf)
}

func (st *Stage) ensureFrame() *ebiten.Image {
	w, h := int(st.Camera.Width), int(st.Camera.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	if st.frame != nil {
		b := st.frame.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return st.frame
		}
		st.frame.Deallocate()
		if st.composite != nil {
			st.composite.Deallocate()
			st.composite = nil
		}
	}
	st.frame = ebiten.NewImage(w, h)
	st.rendered = false
	return st.frame
}

// Render implements SceneGraph.
func (st *Stage) Render() error {
	start := time.Now()
	st.collect()
	frame := st.ensureFrame()
	if frame == nil {
		return nil
	}
	frame.Fill(st.ClearColor.toRGBA())
	st.lastCalls = st.submitSprites(frame)
	st.rendered = true
	debugf("render: %d points, %d sprites, %d draw calls in %v",
		len(st.points), len(st.sprites), st.lastCalls, time.Since(start))
	return nil
}

// Draw composites the last rendered frame onto screen and writes queued
// exports.
func (st *Stage) Draw(screen *ebiten.Image) {
	if !st.rendered || st.frame == nil {
		screen.Fill(st.ClearColor.toRGBA())
		return
	}
	src := st.frame
	if st.Bloom != nil && st.Bloom.Enabled {
		if st.composite == nil {
			b := st.frame.Bounds()
			st.composite = ebiten.NewImage(b.Dx(), b.Dy())
		}
		st.composite.Clear()
		st.Bloom.Apply(st.frame, st.composite)
		src = st.composite
	}
	var op ebiten.DrawImageOptions
	sb, db := src.Bounds(), screen.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(src, &op)
	st.flushExports(src)
}

// Snapshot implements SceneGraph. It returns the last rendered frame,
// without post-processing, as straight-alpha NRGBA.
func (st *Stage) Snapshot() (image.Image, error) {
	if !st.rendered || st.frame == nil {
		return nil, ErrNoFrame
	}
	return readNRGBA(st.frame), nil
}

// PointCount returns the number of points collected by the last Render.
func (st *Stage) PointCount() int { return len(st.points) }

// DrawCalls returns the number of draw calls issued by the last Render.
func (st *Stage) DrawCalls() int { return st.lastCalls }
