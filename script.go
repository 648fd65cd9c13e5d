package dnd

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// script is the top-level JSON structure for an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// Runner sequences scripted pointer and keyboard input across ticks for
// automated interaction testing. Attach to a Driver via SetRunner, or step
// it manually against a Document with Document.Pump in between.
//
// Supported actions: "press", "move", "release", "click", "drag", "cancel",
// "leave", "key", "wait".
type Runner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script.
func LoadScript(jsonData []byte) (*Runner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse interaction script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse interaction script: no steps")
	}
	for _, st := range sc.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "cancel", "leave", "key", "wait":
		default:
			return nil, fmt.Errorf("parse interaction script: unknown action %q", st.Action)
		}
	}
	return &Runner{steps: sc.Steps}, nil
}

// Done reports whether all steps have been executed and drained.
func (r *Runner) Done() bool {
	return r.done
}

// Step advances the runner by one tick against the document, enqueueing
// injected input for the current step. Callers not using a Driver should
// follow each Step with Document.Pump.
func (r *Runner) Step(doc *Document) {
	r.step(doc)
}

// step advances the runner by one tick. Called from Driver.Update.
func (r *Runner) step(doc *Document) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if doc.InjectPending() > 0 {
		return
	}
	// Count down wait frames.
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
	case "press":
		doc.InjectPress(st.X, st.Y)
	case "move":
		doc.InjectMove(st.X, st.Y)
	case "release":
		doc.InjectRelease(st.X, st.Y)
	case "click":
		doc.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		doc.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "cancel":
		doc.InjectCancel(st.X, st.Y)
	case "leave":
		doc.InjectLeave(st.X, st.Y)
	case "key":
		doc.InjectKey(Key(st.Key))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && doc.InjectPending() == 0 {
		r.done = true
	}
}
