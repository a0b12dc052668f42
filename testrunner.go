package scrollfx

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Position float64 `json:"position,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Content  float64 `json:"content,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// Snapshot is a labeled scroll state captured by a "snapshot" step.
type Snapshot struct {
	Label       string
	TimestampMs float64
	Scroll      ScrollState
}

// TestRunner sequences scripted input across ticks for automated testing.
// Attach it to an Engine with SetTestRunner. Supported actions:
//
//	wheel     dx, dy
//	drag      fromX, fromY, toX, toY, frames (touch drag)
//	native    position
//	resize    width, height, content
//	scrollTo  position, duration (seconds, 0 jumps immediately)
//	wait      frames
//	snapshot  label
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	snapshots []Snapshot
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an Engine via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wheel", "drag", "native", "resize", "scrollTo", "wait", "snapshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the engine. The runner's step
// method is called at the start of every tick, before input is polled.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Snapshots returns the scroll states captured so far, in script order.
func (r *TestRunner) Snapshots() []Snapshot {
	return r.snapshots
}

// Snapshot returns the first capture with the given label.
func (r *TestRunner) Snapshot(label string) (Snapshot, bool) {
	for _, s := range r.snapshots {
		if s.Label == label {
			return s, true
		}
	}
	return Snapshot{}, false
}

// step advances the test runner by one tick. Called from Engine.frame.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	q, queued := e.input.(*InputQueue)
	// Wait for pending injections to drain before advancing.
	if queued && q.Pending() > 0 {
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
	case "wheel":
		r.inject(e, q, InputEvent{Kind: InputWheel, DeltaX: st.DX, DeltaY: st.DY})
	case "native":
		r.inject(e, q, InputEvent{Kind: InputNative, Position: st.Position})
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		if queued {
			q.InjectTouchDrag(0, st.FromX, st.FromY, st.ToX, st.ToY, frames)
		} else {
			tmp := NewInputQueue()
			cancel := tmp.Listen(e.handleInput)
			tmp.InjectTouchDrag(0, st.FromX, st.FromY, st.ToX, st.ToY, frames)
			tmp.Drain()
			cancel()
		}
	case "resize":
		e.Resize(st.Width, st.Height, st.Content)
	case "scrollTo":
		e.ScrollTo(st.Position, ScrollToOptions{Duration: st.Duration, Immediate: st.Duration <= 0})
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "snapshot":
		r.snapshots = append(r.snapshots, Snapshot{
			Label:       st.Label,
			TimestampMs: e.current.TimestampMs,
			Scroll:      e.current.Scroll,
		})
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && (!queued || q.Pending() == 0) {
		r.done = true
	}
}

// inject queues ev when the engine reads from an InputQueue, otherwise it
// applies ev directly.
func (r *TestRunner) inject(e *Engine, q *InputQueue, ev InputEvent) {
	if q != nil {
		q.Push(ev)
		return
	}
	e.handleInput(ev)
}
