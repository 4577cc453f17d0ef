package serenade

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	defaultDragDeadZone = 8.0 // pixels
	// WheelStep is the scroll distance of one wheel notch as a fraction of
	// the viewport height.
	WheelStep = 0.1
	// KeyStep is the scroll distance of an arrow key press as a fraction of
	// the viewport height.
	KeyStep = 0.05
	// VolumeStep is the gain change of one +/- key press.
	VolumeStep = 0.1
)

// pointerAction is what a pointer sample resolved to.
type pointerAction uint8

const (
	pointerNone pointerAction = iota
	pointerHover
	pointerDrag
	pointerTap
)

// pointerState tracks one pointer between frames. A press that is released
// before leaving the dead zone is a tap; past it, vertical motion drags the
// document.
type pointerState struct {
	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	deadZone float64
}

// feed advances the pointer with one sample. For drags, delta is the
// vertical motion since the previous sample.
func (ps *pointerState) feed(x, y float64, pressed bool) (act pointerAction, delta float64) {
	dz := ps.deadZone
	if dz <= 0 {
		dz = defaultDragDeadZone
	}
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.dragging = false
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		return pointerNone, 0
	case !pressed && ps.down:
		ps.down = false
		wasDrag := ps.dragging
		ps.dragging = false
		ps.lastX, ps.lastY = x, y
		if wasDrag {
			return pointerNone, 0
		}
		return pointerTap, 0
	case pressed && ps.down:
		if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > dz {
			ps.dragging = true
		}
		delta = y - ps.lastY
		ps.lastX, ps.lastY = x, y
		if ps.dragging && delta != 0 {
			return pointerDrag, delta
		}
		return pointerNone, 0
	default:
		if x == ps.lastX && y == ps.lastY {
			return pointerNone, 0
		}
		ps.lastX, ps.lastY = x, y
		return pointerHover, 0
	}
}

// applyPointer routes a resolved pointer action to the controller. Dragging up
// scrolls the document down, as on a touch screen.
func (c *Controller) applyPointer(act pointerAction, delta, x, y float64) {
	switch act {
	case pointerHover:
		c.Pointer(x, y)
	case pointerDrag:
		c.ScrollBy(-delta)
	case pointerTap:
		c.Click(x, y)
	}
}

// inputState is the live device state polled once per Update.
type inputState struct {
	mouse    pointerState
	touch    pointerState
	touchID  ebiten.TouchID
	touches  []ebiten.TouchID
	tracking bool
}

// pollInput reads mouse, touch, wheel and keyboard and drives c. Positions
// are in layout pixels, which are the frame pixels.
func (in *inputState) pollInput(c *Controller, viewport float64, keys KeyBindings) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	act, d := in.mouse.feed(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	c.applyPointer(act, d, x, y)

	in.pollTouch(c)

	if _, wy := ebiten.Wheel(); wy != 0 {
		c.ScrollBy(-wy * WheelStep * viewport)
	}

	held := func(k ebiten.Key) bool {
		d := inpututil.KeyPressDuration(k)
		return d == 1 || d > 15 && d%3 == 0
	}
	switch {
	case held(ebiten.KeyArrowDown):
		c.ScrollBy(KeyStep * viewport)
	case held(ebiten.KeyArrowUp):
		c.ScrollBy(-KeyStep * viewport)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		c.ScrollBy(viewport)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		c.ScrollBy(-viewport)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		c.SetFraction(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		c.SetFraction(1)
	}

	if inpututil.IsKeyJustPressed(keys.Confirm) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if c.loop.State().Scene == SceneResponse {
			c.Confirm()
		}
	}
	if inpututil.IsKeyJustPressed(keys.Music) {
		c.ToggleAudio()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		c.AdjustVolume(VolumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		c.AdjustVolume(-VolumeStep)
	}
	if inpututil.IsKeyJustPressed(keys.Screenshot) {
		c.Screenshot("manual")
	}
	if inpututil.IsKeyJustPressed(keys.Debug) {
		SetDebugMode(!DebugMode())
	}
}

// pollTouch follows the first active touch only.
func (in *inputState) pollTouch(c *Controller) {
	in.touches = ebiten.AppendTouchIDs(in.touches[:0])
	if !in.tracking {
		if len(in.touches) == 0 {
			return
		}
		in.touchID = in.touches[0]
		in.tracking = true
	}
	for _, id := range in.touches {
		if id == in.touchID {
			tx, ty := ebiten.TouchPosition(id)
			x, y := float64(tx), float64(ty)
			act, d := in.touch.feed(x, y, true)
			c.applyPointer(act, d, x, y)
			return
		}
	}
	// Released: replay the last position as an up event.
	x, y := in.touch.lastX, in.touch.lastY
	act, d := in.touch.feed(x, y, false)
	c.applyPointer(act, d, x, y)
	in.tracking = false
}

// KeyBindings configures the single-key shortcuts.
type KeyBindings struct {
	Confirm    ebiten.Key
	Music      ebiten.Key
	Screenshot ebiten.Key
	Debug      ebiten.Key
}

// DefaultKeyBindings returns Y to confirm, M for music, S for screenshots
// and F3 for debug logging.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Confirm:    ebiten.KeyY,
		Music:      ebiten.KeyM,
		Screenshot: ebiten.KeyS,
		Debug:      ebiten.KeyF3,
	}
}
