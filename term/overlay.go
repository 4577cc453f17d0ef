package term

import "github.com/phanxgames/serenade"

// Overlay is the terminal OverlaySink. Panels switch without fades.
type Overlay struct {
	panels map[serenade.SceneID]serenade.Panel
	active serenade.SceneID
}

// NewOverlay creates an overlay with the given panels per scene.
func NewOverlay(panels map[serenade.SceneID]serenade.Panel) *Overlay {
	return &Overlay{panels: panels}
}

// Activate implements serenade.OverlaySink.
func (o *Overlay) Activate(id serenade.SceneID) { o.active = id }

// Deactivate implements serenade.OverlaySink.
func (o *Overlay) Deactivate(id serenade.SceneID) {
	if o.active == id {
		o.active = serenade.SceneNone
	}
}

// Active returns the active scene.
func (o *Overlay) Active() serenade.SceneID { return o.active }

// Panel returns the active scene's panel.
func (o *Overlay) Panel() (serenade.Panel, bool) {
	if o.active == serenade.SceneNone {
		return serenade.Panel{}, false
	}
	p, ok := o.panels[o.active]
	return p, ok
}
