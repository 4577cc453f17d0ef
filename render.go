package serenade

// sprite is one projected, shaded point ready for submission.
type sprite struct {
	x, y       float32 // centre in pixels
	half       float32 // half the on-screen size in pixels
	angle      float64
	squash     float64
	r, g, b, a float32 // premultiplied
	shape      Shape
	blend      BlendMode
	depth      float64
	order      int
}

// minSpritePixels keeps distant points visible.
const minSpritePixels = 1.0

// projectPoints projects, shades and culls pts through cam into dst. Points
// behind the camera, outside the viewport or fully transparent are dropped.
func projectPoints(dst []sprite, pts []Point, cam *Camera, light *Lighting) []sprite {
	dst = dst[:0]
	for i := range pts {
		p := &pts[i]
		if p.Color.A <= 0 {
			continue
		}
		scr, depth, ok := cam.Project(p.Pos)
		if !ok {
			continue
		}
		size := cam.PixelSize(p.Size, depth)
		if size < minSpritePixels {
			size = minSpritePixels
		}
		half := size / 2
		if scr.X+half < 0 || scr.Y+half < 0 || scr.X-half > cam.Width || scr.Y-half > cam.Height {
			continue
		}
		c := p.Color
		if light != nil {
			if p.Lit {
				c = light.Shade(c, p.Pos)
			}
			c = light.ApplyFog(c, depth)
		}
		a := clamp01(c.A)
		dst = append(dst, sprite{
			x:      float32(scr.X),
			y:      float32(scr.Y),
			half:   float32(half),
			angle:  p.Angle,
			squash: p.Squash,
			r:      float32(clamp01(c.R) * a),
			g:      float32(clamp01(c.G) * a),
			b:      float32(clamp01(c.B) * a),
			a:      float32(a),
			shape:  p.Shape,
			blend:  p.Blend,
			depth:  depth,
			order:  i,
		})
	}
	return dst
}

// spriteLessOrEqual orders far sprites first so nearer ones paint over them.
// Using <= on order keeps the sort stable.
func spriteLessOrEqual(a, b *sprite) bool {
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.order <= b.order
}

// sortSprites sorts s in place using buf as scratch space and returns the
// possibly grown buffer. Bottom-up merge sort: zero allocations once buf
// reaches the high-water mark.
func sortSprites(s, buf []sprite) []sprite {
	n := len(s)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]sprite, n)
	}
	buf = buf[:n]

	a, b := s, buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeSprites(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(s, buf)
	}
	return buf
}

// mergeSprites merges the sorted runs [lo, mid) and [mid, hi) of src into dst.
func mergeSprites(src, dst []sprite, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if spriteLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
