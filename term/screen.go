// Package term renders a serenade scene into a terminal through tcell.
//
// Every projected point lands in one character cell. A cell is treated as
// one pixel wide and two pixels tall, so the camera sees the terminal at
// roughly its physical aspect.
package term

import (
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/serenade"
)

// cellAspect is the height of a character cell in camera pixels.
const cellAspect = 2

type cell struct {
	glyph rune
	color serenade.Color
	depth float64
	set   bool
}

// Screen is a serenade.SceneGraph drawing into a tcell.Screen.
type Screen struct {
	Camera     *serenade.Camera
	Lighting   *serenade.Lighting
	Background serenade.Color
	// Overlay supplies the scene panel drawn over the points. Optional.
	Overlay *Overlay
	// Footer is drawn on the last row while non-empty.
	Footer string
	// Banner is drawn in the upper third while non-empty.
	Banner string

	screen      tcell.Screen
	renderables []serenade.Renderable
	points      []serenade.Point
	cells       []cell
	cols, rows  int
	rendered    bool
}

// NewScreen wraps an initialised tcell screen.
func NewScreen(s tcell.Screen) *Screen {
	cols, rows := s.Size()
	return &Screen{
		Camera:     serenade.NewCamera(float64(cols), float64(rows*cellAspect)),
		Lighting:   serenade.DefaultLighting(),
		Background: serenade.DefaultClearColor,
		screen:     s,
	}
}

// Insert implements serenade.SceneGraph.
func (s *Screen) Insert(r serenade.Renderable) {
	if r == nil || slices.Contains(s.renderables, r) {
		return
	}
	s.renderables = append(s.renderables, r)
}

// Remove implements serenade.SceneGraph.
func (s *Screen) Remove(r serenade.Renderable) {
	if i := slices.Index(s.renderables, r); i >= 0 {
		s.renderables = slices.Delete(s.renderables, i, i+1)
	}
}

// Len returns the number of inserted renderables.
func (s *Screen) Len() int { return len(s.renderables) }

// SetCamera implements serenade.SceneGraph.
func (s *Screen) SetCamera(pose serenade.CameraPose) { s.Camera.SetPose(pose) }

// Viewport returns the camera viewport height in pixels.
func (s *Screen) Viewport() float64 { return float64(s.rows * cellAspect) }

// CellToPixel returns the camera pixel at the centre of a cell.
func CellToPixel(col, row int) (x, y float64) {
	return float64(col) + 0.5, (float64(row) + 0.5) * cellAspect
}

func (s *Screen) resize() {
	cols, rows := s.screen.Size()
	if cols == s.cols && rows == s.rows && s.cells != nil {
		return
	}
	s.cols, s.rows = cols, rows
	s.cells = make([]cell, max(cols*rows, 0))
	s.Camera.SetViewport(float64(cols), float64(rows*cellAspect))
}

// glyphFor picks a character by on-screen size.
func glyphFor(shape serenade.Shape, px float64) rune {
	if shape == serenade.ShapeSquare {
		if px >= 2 {
			return '■'
		}
		return '▪'
	}
	switch {
	case px >= 3:
		return '●'
	case px >= 1:
		return '•'
	default:
		return '·'
	}
}

// rasterize projects every point into the cell buffer. Normal points keep
// the nearest; additive points brighten whatever is already in the cell.
func (s *Screen) rasterize() {
	clear(s.cells)
	s.points = s.points[:0]
	for _, r := range s.renderables {
		s.points = r.AppendPoints(s.points)
	}
	for i := range s.points {
		p := &s.points[i]
		if p.Color.A <= 0 {
			continue
		}
		sp, depth, ok := s.Camera.Project(p.Pos)
		if !ok {
			continue
		}
		col, row := int(math.Floor(sp.X)), int(math.Floor(sp.Y/cellAspect))
		if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
			continue
		}
		c := p.Color
		if p.Lit && s.Lighting != nil {
			c = s.Lighting.Shade(c, p.Pos)
		}
		if s.Lighting != nil {
			c = s.Lighting.ApplyFog(c, depth)
		}
		c = mix(s.Background, c, c.A)

		dst := &s.cells[row*s.cols+col]
		glyph := glyphFor(p.Shape, s.Camera.PixelSize(p.Size, depth))
		switch {
		case !dst.set:
			*dst = cell{glyph: glyph, color: c, depth: depth, set: true}
		case p.Blend == serenade.BlendAdd:
			dst.color = add(dst.color, c, s.Background)
			if depth < dst.depth {
				dst.glyph, dst.depth = glyph, depth
			}
		case depth < dst.depth:
			*dst = cell{glyph: glyph, color: c, depth: depth, set: true}
		}
	}
}

// Render implements serenade.SceneGraph.
func (s *Screen) Render() error {
	s.resize()
	s.rasterize()

	bg := style(s.Background, s.Background)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			c := s.cells[row*s.cols+col]
			if !c.set {
				s.screen.SetContent(col, row, ' ', nil, bg)
				continue
			}
			s.screen.SetContent(col, row, c.glyph, nil, style(c.color, s.Background))
		}
	}
	if s.Overlay != nil {
		if p, ok := s.Overlay.Panel(); ok {
			s.drawBlock(strings.Split(p.Text(), "\n"), s.rows/2)
		}
	}
	if s.Banner != "" {
		s.drawBlock(strings.Split(s.Banner, "\n"), s.rows/4)
	}
	if s.Footer != "" && s.rows > 0 {
		s.drawText(1, s.rows-1, s.Footer, style(serenade.ColorWhite, s.Background))
	}
	s.screen.Show()
	s.rendered = true
	return nil
}

// drawBlock centres lines around row cy.
func (s *Screen) drawBlock(lines []string, cy int) {
	st := style(serenade.ColorWhite, s.Background).Bold(true)
	top := cy - len(lines)/2
	for i, l := range lines {
		n := len([]rune(l))
		s.drawText((s.cols-n)/2, top+i, l, st)
	}
}

func (s *Screen) drawText(x, y int, text string, st tcell.Style) {
	if y < 0 || y >= s.rows {
		return
	}
	for _, r := range text {
		if x >= s.cols {
			return
		}
		if x >= 0 {
			s.screen.SetContent(x, y, r, nil, st)
		}
		x++
	}
}

// Snapshot implements serenade.SceneGraph. Each cell becomes one pixel.
func (s *Screen) Snapshot() (image.Image, error) {
	if !s.rendered {
		return nil, serenade.ErrNoFrame
	}
	img := image.NewNRGBA(image.Rect(0, 0, s.cols, s.rows))
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			c := s.Background
			if cl := s.cells[row*s.cols+col]; cl.set {
				c = cl.color
			}
			img.SetNRGBA(col, row, toNRGBA(c))
		}
	}
	return img, nil
}

// PointCount returns the number of points collected by the last Render.
func (s *Screen) PointCount() int { return len(s.points) }

// DrawCalls returns 1 once a frame was shown: the whole cell buffer goes out
// in one Show.
func (s *Screen) DrawCalls() int {
	if s.rendered {
		return 1
	}
	return 0
}

// Cell returns the glyph and colour rasterized at (col, row) by the last
// Render.
func (s *Screen) Cell(col, row int) (rune, serenade.Color, bool) {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return 0, serenade.Color{}, false
	}
	c := s.cells[row*s.cols+col]
	return c.glyph, c.color, c.set
}

func mix(a, b serenade.Color, t float64) serenade.Color {
	t = math.Max(0, math.Min(1, t))
	return serenade.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

// add accumulates c over dst, both already mixed over bg.
func add(dst, c, bg serenade.Color) serenade.Color {
	return serenade.Color{
		R: math.Min(1, dst.R+c.R-bg.R),
		G: math.Min(1, dst.G+c.G-bg.G),
		B: math.Min(1, dst.B+c.B-bg.B),
		A: 1,
	}
}

func rgb(c serenade.Color) tcell.Color {
	n := toNRGBA(c)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func style(fg, bg serenade.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(bg))
}

func toNRGBA(c serenade.Color) color.NRGBA {
	ch := func(v float64) uint8 { return uint8(math.Max(0, math.Min(1, v))*255 + 0.5) }
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}
