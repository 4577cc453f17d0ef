package serenade

// inputKind is the type of a queued input event.
type inputKind uint8

const (
	inputScroll inputKind = iota
	inputFraction
	inputClick
	inputPointer
	inputConfirm
	inputToggleAudio
	inputVolume
	inputExport
)

// inputEvent is one queued user action. Screen coordinates are in frame
// pixels, the same space the camera projects into.
type inputEvent struct {
	kind  inputKind
	x, y  float64
	value float64
	label string
}

// Controller turns user actions into loop, scroll and audio calls. Live
// input calls the action methods directly; injected input is queued and
// consumed one event per frame, so scripted runs see the same frame pacing
// as a person would.
type Controller struct {
	loop   *Loop
	scroll *ScrollState
	camera *Camera
	// Export, when set, receives screenshot requests.
	Export func(label string)
	// OnConfirm, when set, runs after the celebration was triggered.
	OnConfirm func()

	queue []inputEvent
}

// NewController creates a controller driving loop. scroll and camera may be
// nil; scrolling and screen-space clicks are then ignored.
func NewController(loop *Loop, scroll *ScrollState, camera *Camera) *Controller {
	return &Controller{loop: loop, scroll: scroll, camera: camera}
}

// ScrollBy moves the document by delta pixels.
func (c *Controller) ScrollBy(delta float64) {
	if c.scroll != nil {
		c.scroll.ScrollBy(delta)
	}
	c.loop.Gesture()
}

// SetFraction jumps the document to fraction f.
func (c *Controller) SetFraction(f float64) {
	if c.scroll != nil {
		c.scroll.SetFraction(f)
	}
}

// Click handles a primary click at screen position (x, y). In the response
// scene a click away from the ring box confirms.
func (c *Controller) Click(x, y float64) {
	ndc := c.toNDC(x, y)
	if c.loop.Click(ndc) {
		return
	}
	if c.loop.State().Scene == SceneResponse {
		c.Confirm()
	}
}

// Pointer reports the pointer position for the heart tilt.
func (c *Controller) Pointer(x, y float64) {
	c.loop.Pointer(c.toNDC(x, y))
}

// Confirm answers the proposal and starts the celebration.
func (c *Controller) Confirm() {
	c.loop.Confirm()
	if c.OnConfirm != nil {
		c.OnConfirm()
	}
}

// ToggleAudio pauses or resumes the music.
func (c *Controller) ToggleAudio() {
	if a := c.loop.ctx.Audio; a != nil {
		playing := a.Toggle()
		debugf("audio toggled, playing=%v", playing)
	}
}

// AdjustVolume changes the shared gain by delta.
func (c *Controller) AdjustVolume(delta float64) {
	if a := c.loop.ctx.Audio; a != nil {
		a.SetVolume(a.Volume() + delta)
	}
}

// Screenshot requests an export of the current frame.
func (c *Controller) Screenshot(label string) {
	if c.Export != nil {
		c.Export(label)
	}
}

func (c *Controller) toNDC(x, y float64) Vec2 {
	if c.camera == nil {
		return Vec2{}
	}
	return c.camera.ScreenToNDC(x, y)
}

// InjectScroll queues a scroll by delta pixels.
func (c *Controller) InjectScroll(delta float64) {
	c.queue = append(c.queue, inputEvent{kind: inputScroll, value: delta})
}

// InjectFraction queues a jump to fraction f.
func (c *Controller) InjectFraction(f float64) {
	c.queue = append(c.queue, inputEvent{kind: inputFraction, value: f})
}

// InjectClick queues a click at screen position (x, y).
func (c *Controller) InjectClick(x, y float64) {
	c.queue = append(c.queue, inputEvent{kind: inputClick, x: x, y: y})
}

// InjectPointer queues a pointer move.
func (c *Controller) InjectPointer(x, y float64) {
	c.queue = append(c.queue, inputEvent{kind: inputPointer, x: x, y: y})
}

// InjectConfirm queues a confirmation.
func (c *Controller) InjectConfirm() {
	c.queue = append(c.queue, inputEvent{kind: inputConfirm})
}

// InjectToggleAudio queues a play/pause toggle.
func (c *Controller) InjectToggleAudio() {
	c.queue = append(c.queue, inputEvent{kind: inputToggleAudio})
}

// InjectVolume queues a volume change.
func (c *Controller) InjectVolume(delta float64) {
	c.queue = append(c.queue, inputEvent{kind: inputVolume, value: delta})
}

// InjectScreenshot queues an export.
func (c *Controller) InjectScreenshot(label string) {
	c.queue = append(c.queue, inputEvent{kind: inputExport, label: label})
}

// Pending returns the number of queued events.
func (c *Controller) Pending() int { return len(c.queue) }

// ProcessInjected pops and applies one queued event. It reports whether an
// event was consumed.
func (c *Controller) ProcessInjected() bool {
	if len(c.queue) == 0 {
		return false
	}
	evt := c.queue[0]
	copy(c.queue, c.queue[1:])
	c.queue = c.queue[:len(c.queue)-1]

	switch evt.kind {
	case inputScroll:
		c.ScrollBy(evt.value)
	case inputFraction:
		c.SetFraction(evt.value)
	case inputClick:
		c.Click(evt.x, evt.y)
	case inputPointer:
		c.Pointer(evt.x, evt.y)
	case inputConfirm:
		c.Confirm()
	case inputToggleAudio:
		c.ToggleAudio()
	case inputVolume:
		c.AdjustVolume(evt.value)
	case inputExport:
		c.Screenshot(evt.label)
	}
	return true
}
