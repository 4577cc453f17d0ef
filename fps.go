package serenade

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS readout is redrawn, in seconds.
const fpsRefresh = 0.5

// fpsWidget is a small corner readout of frame rate, tick rate and live
// batch count.
type fpsWidget struct {
	img   *ebiten.Image
	since float64
	text  string
}

// update refreshes the readout about twice a second.
func (w *fpsWidget) update(dt float64, batches, points int) {
	w.since += dt
	if w.text != "" && w.since < fpsRefresh {
		return
	}
	w.since = 0
	w.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nbatches: %d\npoints: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), batches, points)
	if w.img == nil {
		w.img = ebiten.NewImage(130, 68)
	}
	w.img.Clear()
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, w.text)
}

func (w *fpsWidget) draw(screen *ebiten.Image) {
	if w.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	screen.DrawImage(w.img, &op)
}
