package serenade

import (
	"errors"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Hex builds an opaque Color from a 0xRRGGBB value.
func Hex(rgb uint32) Color {
	return Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
		A: 1,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for screen positions and pointer offsets.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector in world units. The coordinate system is right-handed
// with Y up and the default camera looking down -Z.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Range is a general-purpose min/max range.
// Used by particle generators to sample sizes, speeds and positions.
type Range struct {
	Min, Max float64
}

// SceneID names one of the six narrative scenes. The zero value means no
// scene has been activated yet.
type SceneID uint8

const (
	SceneNone     SceneID = iota
	SceneEntry            // names and title
	SceneMemories         // memory timeline
	SceneReasons          // reasons list, hearts spin
	SceneFuture           // looking ahead
	SceneProposal         // ring box revealed
	SceneResponse         // the answer
)

// SceneCount is the number of narrative scenes.
const SceneCount = 6

var sceneNames = [...]string{"none", "entry", "memories", "reasons", "future", "proposal", "response"}

// String returns a short lowercase name for the scene.
func (id SceneID) String() string {
	if int(id) < len(sceneNames) {
		return sceneNames[id]
	}
	return "unknown"
}

// BlendMode selects a compositing operation for particles and props.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if b == BlendAdd {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

// Shape selects the sprite drawn for a point.
type Shape uint8

const (
	ShapeDisc   Shape = iota // soft round sprite (hearts, sparks, stars)
	ShapeSquare              // flat quad (petals, confetti)
)

var (
	// ErrResourceUnavailable reports that a rendering or audio capability is
	// missing or failed to initialize. Callers degrade to a simpler path.
	ErrResourceUnavailable = errors.New("serenade: resource unavailable")
	// ErrPlaybackRejected reports that the host refused to start playback,
	// typically an autoplay policy. Consumed by the autoplay ladder.
	ErrPlaybackRejected = errors.New("serenade: playback rejected")
	// ErrNoTracks is returned when a scheduler is built without tracks.
	ErrNoTracks = errors.New("serenade: no tracks")
	// ErrNoFrame is returned by Snapshot before any frame was drawn.
	ErrNoFrame = errors.New("serenade: no frame rendered")
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
