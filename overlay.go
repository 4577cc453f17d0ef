package serenade

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Panel is the text shown while a scene is active.
type Panel struct {
	Title string
	Lines []string
}

// Text returns the panel as printable lines.
func (p Panel) Text() string {
	if len(p.Lines) == 0 {
		return p.Title
	}
	return p.Title + "\n\n" + strings.Join(p.Lines, "\n")
}

// Overlay fade durations in seconds.
const (
	overlayFadeIn  = 0.8
	overlayFadeOut = 0.5
)

type overlayPanel struct {
	panel Panel
	alpha float64
	fade  *gween.Tween
	img   *ebiten.Image
}

// Overlays is the ebiten OverlaySink: it fades scene panels in and out and
// draws them as debug-font text above the scene.
type Overlays struct {
	panels [SceneCount + 1]overlayPanel
	active SceneID
	// Scale multiplies the debug font size.
	Scale float64
	// Footer is drawn at the bottom of the screen while non-empty (now
	// playing label, hints).
	Footer string
	// Banner is drawn in the upper third while non-empty (celebration
	// message).
	Banner string

	banner    string
	bannerImg *ebiten.Image
}

// NewOverlays creates overlays with the given panels per scene.
func NewOverlays(panels map[SceneID]Panel) *Overlays {
	o := &Overlays{Scale: 2}
	for id, p := range panels {
		if id > SceneNone && int(id) <= SceneCount {
			o.panels[id].panel = p
		}
	}
	return o
}

// SetPanel replaces a scene's panel.
func (o *Overlays) SetPanel(id SceneID, p Panel) {
	if id <= SceneNone || int(id) > SceneCount {
		return
	}
	o.panels[id].panel = p
	if o.panels[id].img != nil {
		o.panels[id].img.Deallocate()
		o.panels[id].img = nil
	}
}

// Active returns the active scene.
func (o *Overlays) Active() SceneID { return o.active }

// Alpha returns the current fade level of a scene's panel.
func (o *Overlays) Alpha(id SceneID) float64 {
	if int(id) >= len(o.panels) {
		return 0
	}
	return o.panels[id].alpha
}

// Activate implements OverlaySink.
func (o *Overlays) Activate(id SceneID) {
	if int(id) >= len(o.panels) {
		return
	}
	o.active = id
	p := &o.panels[id]
	p.fade = gween.New(float32(p.alpha), 1, overlayFadeIn, ease.OutQuad)
}

// Deactivate implements OverlaySink.
func (o *Overlays) Deactivate(id SceneID) {
	if int(id) >= len(o.panels) {
		return
	}
	if o.active == id {
		o.active = SceneNone
	}
	p := &o.panels[id]
	p.fade = gween.New(float32(p.alpha), 0, overlayFadeOut, ease.InQuad)
}

// Update implements Animator.
func (o *Overlays) Update(dt float64) {
	for i := range o.panels {
		p := &o.panels[i]
		if p.fade == nil {
			continue
		}
		v, done := p.fade.Update(float32(dt))
		p.alpha = clamp01(float64(v))
		if done {
			p.fade = nil
		}
	}
}

// Draw renders every visible panel centred on screen.
func (o *Overlays) Draw(screen *ebiten.Image) {
	sb := screen.Bounds()
	for i := range o.panels {
		p := &o.panels[i]
		if p.alpha <= 0 || p.panel.Title == "" && len(p.panel.Lines) == 0 {
			continue
		}
		if p.img == nil {
			p.img = textImage(p.panel.Text())
		}
		o.drawCentered(screen, p.img, p.alpha, float64(sb.Dy())/2)
	}
	if o.Banner != "" {
		if o.bannerImg == nil || o.banner != o.Banner {
			if o.bannerImg != nil {
				o.bannerImg.Deallocate()
			}
			o.banner = o.Banner
			o.bannerImg = textImage(o.Banner)
		}
		o.drawCentered(screen, o.bannerImg, 1, float64(sb.Dy())/4)
	}
	if o.Footer != "" {
		ebitenutil.DebugPrintAt(screen, o.Footer, 8, sb.Dy()-20)
	}
}

func (o *Overlays) drawCentered(screen, img *ebiten.Image, alpha, cy float64) {
	sb, ib := screen.Bounds(), img.Bounds()
	scale := o.Scale
	if scale <= 0 {
		scale = 1
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(sb.Dx())-float64(ib.Dx())*scale)/2,
		cy-float64(ib.Dy())*scale/2,
	)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(img, &op)
}

// Debug font metrics of ebitenutil.DebugPrint.
const (
	debugGlyphW = 6
	debugLineH  = 16
)

// textImage renders text with the debug font into a tightly sized image.
func textImage(text string) *ebiten.Image {
	lines := strings.Split(text, "\n")
	w := 1
	for _, l := range lines {
		w = max(w, len([]rune(l))*debugGlyphW)
	}
	img := ebiten.NewImage(w+4, len(lines)*debugLineH+4)
	ebitenutil.DebugPrintAt(img, text, 2, 2)
	return img
}
