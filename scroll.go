package serenade

import "math"

// Band boundaries of the scroll fraction. Band k covers [bandEdges[k-1],
// bandEdges[k]); the last band is closed at 1.
var bandEdges = [SceneCount + 1]float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1}

// CameraPose is a camera position plus an optional look-at target.
type CameraPose struct {
	Pos    Vec3
	Target Vec3
	LookAt bool
}

// Scene-specific camera constants.
const (
	// HeartYawStep is the heart field yaw added per tick in the reasons scene.
	HeartYawStep = 0.005
	// PropSpinStep is the yaw added per tick to the ring and box once revealed.
	PropSpinStep = 0.01
)

// SceneState is the pure function of the scroll fraction that drives every
// scroll-dependent side effect.
type SceneState struct {
	Fraction float64
	Scene    SceneID
	Camera   CameraPose
}

// ClampFraction maps any input into [0, 1]. NaN maps to 0.
func ClampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return clamp01(f)
}

// ScrollFraction computes offset / (docHeight - viewportHeight), clamped. A
// non-positive scroll range yields 0.
func ScrollFraction(offset, docHeight, viewportHeight float64) float64 {
	span := docHeight - viewportHeight
	if !(span > 0) || math.IsInf(span, 0) {
		return 0
	}
	return ClampFraction(offset / span)
}

// SceneFor returns the scene band containing f.
func SceneFor(f float64) SceneID {
	f = ClampFraction(f)
	for k := 1; k < SceneCount; k++ {
		if f < bandEdges[k] {
			return SceneID(k)
		}
	}
	return SceneResponse
}

// CameraFor returns the camera pose for f. Scene 6 holds scene 5's pose.
func CameraFor(f float64) CameraPose {
	f = ClampFraction(f)
	var p CameraPose
	switch SceneFor(f) {
	case SceneEntry:
		p.Pos = Vec3{0, 0, 5 - f*10}
	case SceneMemories:
		p.Pos = Vec3{0, (f - 0.1) * 5, 4 + math.Sin(f*math.Pi)*2}
	case SceneReasons:
		p.Pos = Vec3{0, 1, 5}
	case SceneFuture:
		p.Pos = Vec3{0, 1, 6}
	case SceneProposal, SceneResponse:
		p.Pos = Vec3{0, 1, 3}
	}
	return p
}

// Resolve computes the full SceneState for f.
func Resolve(f float64) SceneState {
	f = ClampFraction(f)
	return SceneState{Fraction: f, Scene: SceneFor(f), Camera: CameraFor(f)}
}

// ScrollStateMachine records the active scene and notifies an overlay sink
// when it changes.
type ScrollStateMachine struct {
	sink   OverlaySink
	active SceneID
}

// NewScrollStateMachine creates a machine with no active scene. sink may be
// nil.
func NewScrollStateMachine(sink OverlaySink) *ScrollStateMachine {
	return &ScrollStateMachine{sink: sink}
}

// Active returns the currently active scene, or SceneNone before the first
// update.
func (m *ScrollStateMachine) Active() SceneID { return m.active }

// Update resolves f and, on a scene change, deactivates the previous overlay
// before activating the new one.
func (m *ScrollStateMachine) Update(f float64) (SceneState, bool) {
	st := Resolve(f)
	if st.Scene == m.active {
		return st, false
	}
	prev := m.active
	m.active = st.Scene
	if m.sink != nil {
		if prev != SceneNone {
			m.sink.Deactivate(prev)
		}
		m.sink.Activate(st.Scene)
	}
	return st, true
}
