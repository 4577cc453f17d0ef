package serenade

import "math"

// Perspective defaults.
const (
	DefaultFOV  = 75.0 // vertical field of view in degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Camera is a perspective camera. The pose comes from the scroll state; the
// viewport size comes from the host window.
type Camera struct {
	FOV       float64 // vertical, degrees
	Near, Far float64
	Width     float64 // viewport size in pixels
	Height    float64
	Pose      CameraPose

	right, up, forward Vec3
	focal              float64
	dirty              bool
}

// NewCamera creates a camera with the default projection looking down -Z
// from (0, 0, 5).
func NewCamera(width, height float64) *Camera {
	return &Camera{
		FOV:    DefaultFOV,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Width:  width,
		Height: height,
		Pose:   CameraPose{Pos: Vec3{0, 0, 5}},
		dirty:  true,
	}
}

// SetPose moves the camera.
func (c *Camera) SetPose(p CameraPose) {
	if p != c.Pose {
		c.Pose = p
		c.dirty = true
	}
}

// SetViewport resizes the projection.
func (c *Camera) SetViewport(w, h float64) {
	if w != c.Width || h != c.Height {
		c.Width, c.Height = w, h
		c.dirty = true
	}
}

// Aspect returns width / height, or 1 for a degenerate viewport.
func (c *Camera) Aspect() float64 {
	if c.Height <= 0 || c.Width <= 0 {
		return 1
	}
	return c.Width / c.Height
}

func (c *Camera) computeBasis() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.forward = Vec3{0, 0, -1}
	if c.Pose.LookAt {
		if d := c.Pose.Target.Sub(c.Pose.Pos); d.Len() > 0 {
			c.forward = d.Normalize()
		}
	}
	worldUp := Vec3{0, 1, 0}
	c.right = c.forward.Cross(worldUp)
	if c.right.Len() < 1e-9 {
		// Looking straight up or down: pick any perpendicular.
		c.right = Vec3{1, 0, 0}
	}
	c.right = c.right.Normalize()
	c.up = c.right.Cross(c.forward)
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
}

// ToView transforms a world point into camera space: X right, Y up, Z the
// distance in front of the camera.
func (c *Camera) ToView(p Vec3) Vec3 {
	c.computeBasis()
	d := p.Sub(c.Pose.Pos)
	return Vec3{d.Dot(c.right), d.Dot(c.up), d.Dot(c.forward)}
}

// ProjectNDC maps a world point to normalized device coordinates in
// [-1, 1]. ok is false outside the near/far range.
func (c *Camera) ProjectNDC(p Vec3) (ndc Vec2, depth float64, ok bool) {
	v := c.ToView(p)
	if v.Z < c.Near || v.Z > c.Far {
		return Vec2{}, v.Z, false
	}
	return Vec2{
		X: v.X * c.focal / (c.Aspect() * v.Z),
		Y: v.Y * c.focal / v.Z,
	}, v.Z, true
}

// Project maps a world point to screen pixels (origin top-left).
func (c *Camera) Project(p Vec3) (screen Vec2, depth float64, ok bool) {
	ndc, depth, ok := c.ProjectNDC(p)
	if !ok {
		return Vec2{}, depth, false
	}
	return c.NDCToScreen(ndc), depth, true
}

// PixelSize returns the on-screen diameter of a world-space size at depth.
func (c *Camera) PixelSize(size, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	c.computeBasis()
	return size * c.focal * c.Height / 2 / depth
}

// NDCToScreen converts normalized device coordinates to pixels.
func (c *Camera) NDCToScreen(ndc Vec2) Vec2 {
	return Vec2{(ndc.X + 1) / 2 * c.Width, (1 - ndc.Y) / 2 * c.Height}
}

// ScreenToNDC converts pixel coordinates to normalized device coordinates.
func (c *Camera) ScreenToNDC(x, y float64) Vec2 {
	if c.Width <= 0 || c.Height <= 0 {
		return Vec2{}
	}
	return Vec2{x/c.Width*2 - 1, -(y/c.Height*2 - 1)}
}
