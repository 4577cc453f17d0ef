package serenade

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Export queues a labeled PNG of the composited frame, written at the end of
// the next Draw into ScreenshotDir with a timestamped file name.
func (st *Stage) Export(label string) {
	st.exports = append(st.exports, label)
}

// flushExports writes every queued export of img.
func (st *Stage) flushExports(img *ebiten.Image) {
	if len(st.exports) == 0 {
		return
	}
	defer func() { st.exports = st.exports[:0] }()

	if err := os.MkdirAll(st.ScreenshotDir, 0o755); err != nil {
		warnf("export: mkdir %s: %v", st.ScreenshotDir, err)
		return
	}
	nrgba := readNRGBA(img)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range st.exports {
		path := filepath.Join(st.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, nrgba); err != nil {
			warnf("export: %v", err)
			continue
		}
		logf("exported %s", path)
	}
}

// readNRGBA reads img back from the GPU and converts premultiplied RGBA to
// straight-alpha NRGBA.
func readNRGBA(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	img.ReadPixels(pixels)
	return unpremultiply(pixels, w, h)
}

// unpremultiply converts premultiplied RGBA bytes into an NRGBA image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(out.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		out.Pix[i] = r
		out.Pix[i+1] = g
		out.Pix[i+2] = b
		out.Pix[i+3] = a
	}
	return out
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG snapshots g and writes the frame to path.
func SavePNG(g SceneGraph, path string) error {
	img, err := g.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return writePNG(path, img)
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
