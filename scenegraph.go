package serenade

import "image"

// Point is one projected-ready primitive produced by a Renderable: a
// camera-facing sprite at a world position.
type Point struct {
	Pos   Vec3
	Size  float64 // world-space diameter
	Color Color   // straight alpha
	Shape Shape
	Blend BlendMode
	Lit   bool // shaded by the scene lights

	// Angle is the in-plane rotation of a square sprite, in radians.
	Angle float64
	// Squash scales a square sprite's height to fake a tumble; 0 means
	// unsquashed.
	Squash float64
}

// Renderable is anything the scene graph can draw. Batches and props both
// flatten themselves into world-space points each frame.
type Renderable interface {
	// AppendPoints appends this renderable's points to dst and returns the
	// extended slice. Invisible renderables append nothing.
	AppendPoints(dst []Point) []Point
}

// SceneGraph is the rendering backend driven by the Loop. Implementations
// own their draw resources; the loop calls Render exactly once per tick.
type SceneGraph interface {
	Insert(r Renderable)
	Remove(r Renderable)
	SetCamera(pose CameraPose)
	Render() error
	// Snapshot returns the most recently rendered frame, or ErrNoFrame.
	Snapshot() (image.Image, error)
}

// ScrollInput reports the current normalized scroll position.
type ScrollInput interface {
	Fraction() float64
}

// FixedFraction is a ScrollInput with a constant value. Useful for scripted
// runs and tests.
type FixedFraction float64

// Fraction returns the clamped fraction.
func (f FixedFraction) Fraction() float64 { return ClampFraction(float64(f)) }

// ScrollState tracks a scrollable document: an offset into content that is
// Pages viewports tall.
type ScrollState struct {
	Offset   float64
	Viewport float64
	Pages    float64
}

// DocumentHeight returns the total content height.
func (s *ScrollState) DocumentHeight() float64 { return s.Viewport * s.Pages }

// ScrollBy moves the offset by delta, clamped to the scrollable range.
func (s *ScrollState) ScrollBy(delta float64) {
	s.Offset += delta
	max := s.DocumentHeight() - s.Viewport
	if s.Offset > max {
		s.Offset = max
	}
	if s.Offset < 0 {
		s.Offset = 0
	}
}

// SetFraction moves the offset so Fraction returns f.
func (s *ScrollState) SetFraction(f float64) {
	s.Offset = ClampFraction(f) * (s.DocumentHeight() - s.Viewport)
}

// Fraction implements ScrollInput.
func (s *ScrollState) Fraction() float64 {
	return ScrollFraction(s.Offset, s.DocumentHeight(), s.Viewport)
}

// OverlaySink receives scene activation changes. At most one scene is
// active at a time; Deactivate for the previous scene always precedes
// Activate for the next.
type OverlaySink interface {
	Activate(id SceneID)
	Deactivate(id SceneID)
}

// MultiSink fans activation changes out to several sinks in order.
type MultiSink []OverlaySink

// Activate implements OverlaySink.
func (m MultiSink) Activate(id SceneID) {
	for _, s := range m {
		s.Activate(id)
	}
}

// Deactivate implements OverlaySink.
func (m MultiSink) Deactivate(id SceneID) {
	for _, s := range m {
		s.Deactivate(id)
	}
}

// LogOverlay writes activation changes to the debug log.
type LogOverlay struct{}

// Activate implements OverlaySink.
func (LogOverlay) Activate(id SceneID) { debugf("scene %s active", id) }

// Deactivate implements OverlaySink.
func (LogOverlay) Deactivate(id SceneID) { debugf("scene %s inactive", id) }

// SceneEvent describes one activation change. It is the payload published by
// event-bus sinks.
type SceneEvent struct {
	Scene  SceneID
	Active bool
}

// Animator is a time-driven effect advanced by the loop during the side
// effect step (overlay fades, prop tweens).
type Animator interface {
	Update(dt float64)
}
