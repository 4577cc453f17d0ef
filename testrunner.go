package serenade

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string   `json:"action"`
	Label    string   `json:"label,omitempty"`
	X        float64  `json:"x,omitempty"`
	Y        float64  `json:"y,omitempty"`
	Delta    float64  `json:"delta,omitempty"`
	Fraction *float64 `json:"fraction,omitempty"`
	Frames   int      `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"scroll": true, "click": true, "pointer": true, "confirm": true,
	"wait": true, "screenshot": true, "toggleAudio": true, "volume": true,
}

// TestRunner sequences injected input and screenshots across frames for
// scripted runs of the presentation.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, queueing input on c.
func (r *TestRunner) Step(c *Controller) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if c.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		c.InjectScreenshot(st.Label)
	case "scroll":
		if st.Fraction != nil {
			c.InjectFraction(*st.Fraction)
		} else {
			c.InjectScroll(st.Delta)
		}
	case "click":
		c.InjectClick(st.X, st.Y)
	case "pointer":
		c.InjectPointer(st.X, st.Y)
	case "confirm":
		c.InjectConfirm()
	case "toggleAudio":
		c.InjectToggleAudio()
	case "volume":
		c.InjectVolume(st.Delta)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && c.Pending() == 0 {
		r.done = true
	}
}
