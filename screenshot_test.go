package serenade

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"manual", "manual"},
		{"after-confirm", "after-confirm"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"  padded  ", "padded"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportQueueAppend(t *testing.T) {
	st := NewStage(8, 8)
	st.Export("a")
	st.Export("b")
	st.Export("c")
	if len(st.exports) != 3 || st.exports[0] != "a" || st.exports[2] != "c" {
		t.Errorf("exports = %v, want [a b c]", st.exports)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	if st := NewStage(8, 8); st.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", st.ScreenshotDir)
	}
}

// --- unpremultiply ---

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half-alpha orange
		255, 255, 255, 255, // opaque white
		0, 0, 0, 0, // transparent
		200, 10, 10, 100, // over-bright channel clamps
	}
	img := unpremultiply(pixels, 2, 2)
	want := []byte{
		255, 127, 0, 128,
		255, 255, 255, 255,
		0, 0, 0, 0,
		255, 25, 25, 100,
	}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix = %v, want %v", img.Pix, want)
	}
}

func TestUnpremultiplyShortInput(t *testing.T) {
	img := unpremultiply([]byte{1, 2, 3}, 1, 1)
	if img.Bounds().Dx() != 1 || img.Pix[3] != 0 {
		t.Errorf("short input wrote pixels: %v", img.Pix)
	}
}

// --- PNG ---

func TestEncodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[0], src.Pix[3] = 255, 255
	var buf bytes.Buffer
	if err := EncodePNG(&buf, src); err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", dec.Bounds(), src.Bounds())
	}
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	g := &fakeGraph{}
	if err := SavePNG(g, path); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("err = %v, want ErrNoFrame", err)
	}
	g.Render()
	if err := SavePNG(g, path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat %s: %v", path, err)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestStageSnapshotBeforeRender(t *testing.T) {
	if _, err := NewStage(8, 8).Snapshot(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("err = %v, want ErrNoFrame", err)
	}
}
