package serenade

import (
	"math"
	"math/rand/v2"
)

// Prop is a static, hierarchical scene object (ring box, ring, diamond,
// starfield). Its geometry is a fixed set of local-space points sampled
// from the shape's surface; the world transform is recomputed from the
// parent chain on every draw.
type Prop struct {
	Name     string
	Position Vec3
	Rotation Vec3 // Euler, XYZ order
	Scale    float64
	Visible  bool
	Opacity  float64
	Color    Color
	Shape    Shape
	Blend    BlendMode
	// Lit props are shaded by the scene lights and fog.
	Lit bool
	// PointSize is the world-space diameter of each sampled point.
	PointSize float64

	points   []Vec3
	parent   *Prop
	children []*Prop
}

// NewProp creates a visible prop from local-space points.
func NewProp(name string, points []Vec3, c Color, size float64) *Prop {
	return &Prop{
		Name:      name,
		Scale:     1,
		Visible:   true,
		Opacity:   1,
		Color:     c,
		PointSize: size,
		Lit:       true,
		points:    points,
	}
}

// AddChild attaches child below p, detaching it from any previous parent.
func (p *Prop) AddChild(child *Prop) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = p
	p.children = append(p.children, child)
}

// RemoveChild detaches child from p.
func (p *Prop) RemoveChild(child *Prop) {
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the parent prop, or nil.
func (p *Prop) Parent() *Prop { return p.parent }

// Children returns the direct children. The slice must not be modified.
func (p *Prop) Children() []*Prop { return p.children }

// Len returns the number of sampled points, excluding children.
func (p *Prop) Len() int { return len(p.points) }

func (p *Prop) localTransform() Affine3 {
	s := p.Scale
	if s == 0 {
		s = 1
	}
	return composeTransform(p.Position, p.Rotation, s)
}

// WorldTransform composes the transforms of p and all its ancestors.
func (p *Prop) WorldTransform() Affine3 {
	m := p.localTransform()
	for a := p.parent; a != nil; a = a.parent {
		m = multiplyAffine3(a.localTransform(), m)
	}
	return m
}

// WorldPosition returns the origin of p in world space.
func (p *Prop) WorldPosition() Vec3 {
	return transformPoint(p.WorldTransform(), Vec3{})
}

// AppendPoints implements Renderable. Children are drawn with p; an
// invisible prop hides its subtree.
func (p *Prop) AppendPoints(dst []Point) []Point {
	if !p.Visible {
		return dst
	}
	parent := identityTransform
	if p.parent != nil {
		parent = p.parent.WorldTransform()
	}
	return p.appendTree(dst, parent, 1)
}

func (p *Prop) appendTree(dst []Point, parent Affine3, alpha float64) []Point {
	if !p.Visible {
		return dst
	}
	world := multiplyAffine3(parent, p.localTransform())
	alpha *= p.Opacity
	c := p.Color.WithAlpha(p.Color.A * alpha)
	for _, lp := range p.points {
		dst = append(dst, Point{
			Pos:   transformPoint(world, lp),
			Size:  p.PointSize,
			Color: c,
			Shape: p.Shape,
			Blend: p.Blend,
			Lit:   p.Lit,
		})
	}
	for _, ch := range p.children {
		dst = ch.appendTree(dst, world, alpha)
	}
	return dst
}

// BoxPoints samples the edges of an axis-aligned box centred on the origin,
// n points per unit length.
func BoxPoints(w, h, d float64, n int) []Vec3 {
	hx, hy, hz := w/2, h/2, d/2
	corners := [8]Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	var pts []Vec3
	for _, e := range edges {
		pts = appendSegment(pts, corners[e[0]], corners[e[1]], n)
	}
	return pts
}

// TorusPoints samples a torus around the Z axis with the given ring and tube
// radii.
func TorusPoints(radius, tube float64, radial, tubular int) []Vec3 {
	pts := make([]Vec3, 0, radial*tubular)
	for j := 0; j < radial; j++ {
		v := float64(j) / float64(radial) * 2 * math.Pi
		for i := 0; i < tubular; i++ {
			u := float64(i) / float64(tubular) * 2 * math.Pi
			r := radius + tube*math.Cos(v)
			pts = append(pts, Vec3{r * math.Cos(u), r * math.Sin(u), tube * math.Sin(v)})
		}
	}
	return pts
}

// OctahedronPoints samples the edges of an octahedron with the given
// circumradius.
func OctahedronPoints(r float64, n int) []Vec3 {
	v := [6]Vec3{{r, 0, 0}, {-r, 0, 0}, {0, r, 0}, {0, -r, 0}, {0, 0, r}, {0, 0, -r}}
	var pts []Vec3
	for a := 0; a < 6; a++ {
		for b := a + 1; b < 6; b++ {
			// Opposite vertices are not joined by an edge.
			if a/2 == b/2 {
				continue
			}
			pts = appendSegment(pts, v[a], v[b], n)
		}
	}
	return pts
}

// appendSegment samples the segment [a, b) at n points per unit length.
func appendSegment(dst []Vec3, a, b Vec3, n int) []Vec3 {
	steps := int(math.Ceil(b.Sub(a).Len() * float64(n)))
	if steps < 1 {
		steps = 1
	}
	for s := 0; s < steps; s++ {
		t := float64(s) / float64(steps)
		dst = append(dst, Vec3{lerp(a.X, b.X, t), lerp(a.Y, b.Y, t), lerp(a.Z, b.Z, t)})
	}
	return dst
}

// StarPoints scatters count points uniformly in a cube of the given edge.
func StarPoints(count int, extent float64) []Vec3 {
	pts := make([]Vec3, count)
	for i := range pts {
		pts[i] = Vec3{
			(rand.Float64() - 0.5) * extent,
			(rand.Float64() - 0.5) * extent,
			(rand.Float64() - 0.5) * extent,
		}
	}
	return pts
}

// NewStarfield creates the static background point cloud.
func NewStarfield(count int) *Prop {
	p := NewProp("starfield", StarPoints(count, 100), ColorWhite, 0.1)
	p.Opacity = 0.8
	p.Lit = false
	return p
}

// RingBox groups the proposal props: the box, the gold ring and the diamond
// set on the ring.
type RingBox struct {
	Box     *Prop
	Ring    *Prop
	Diamond *Prop

	revealed bool
}

// NewRingBox builds the hidden ring box props.
func NewRingBox() *RingBox {
	box := NewProp("ringbox", BoxPoints(1.5, 0.8, 1, 24), Hex(0x8B4513), 0.05)
	box.Shape = ShapeSquare
	box.Visible = false

	ring := NewProp("ring", TorusPoints(0.3, 0.05, 8, 64), Hex(0xFFD700), 0.04)
	ring.Position = Vec3{0, 0.5, 0}
	ring.Rotation = Vec3{math.Pi / 2, 0, 0}
	ring.Visible = false

	diamond := NewProp("diamond", OctahedronPoints(0.1, 60), ColorWhite, 0.03)
	diamond.Position = Vec3{0.3, 0.5, 0}
	diamond.Opacity = 0.9
	diamond.Blend = BlendAdd
	ring.AddChild(diamond)

	return &RingBox{Box: box, Ring: ring, Diamond: diamond}
}

// Reveal makes the box and ring visible. Once revealed they stay visible.
func (rb *RingBox) Reveal() {
	rb.revealed = true
	rb.Box.Visible = true
	rb.Ring.Visible = true
}

// Revealed reports whether Reveal was called.
func (rb *RingBox) Revealed() bool { return rb.revealed }

// Spin advances the idle yaw of the box and ring. Hidden props do not spin.
func (rb *RingBox) Spin() {
	if !rb.revealed {
		return
	}
	rb.Box.Rotation.Y += PropSpinStep
	rb.Ring.Rotation.Y += PropSpinStep
}

// Renderables returns the top-level props to insert into a scene graph.
func (rb *RingBox) Renderables() []Renderable {
	return []Renderable{rb.Box, rb.Ring}
}
