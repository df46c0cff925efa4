package pinview

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrInvalidScript is wrapped by every LoadTestScript failure.
var ErrInvalidScript = errors.New("pinview: invalid test script")

// scriptStep is one action of a test script. Coordinates are client pixels.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptActions applies each action to the scene and returns how many more
// frames to hold before the next step.
var scriptActions = map[string]func(s *Scene, st scriptStep) int{
	"move": func(s *Scene, st scriptStep) int {
		s.InjectHover(st.X, st.Y)
		return 0
	},
	"click": func(s *Scene, st scriptStep) int {
		s.InjectClick(st.X, st.Y)
		return 0
	},
	"drag": func(s *Scene, st scriptStep) int {
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
		return 0
	},
	"unlock": func(s *Scene, _ scriptStep) int {
		s.viewer.Unlock()
		return 0
	},
	"screenshot": func(s *Scene, st scriptStep) int {
		s.Screenshot(st.Label)
		return 0
	},
	// The step's own frame counts toward the wait.
	"wait": func(_ *Scene, st scriptStep) int {
		return max(st.Frames-1, 0)
	},
}

// TestRunner plays a hotspot script one step per frame: pointer moves,
// clicks and drags go through the injection queue, and a step only starts
// once the previous step's injected samples are consumed.
type TestRunner struct {
	steps []scriptStep
	next  int
	hold  int
	done  bool
}

// LoadTestScript parses a JSON script of the form
// {"steps": [{"action": "click", "x": 400, "y": 300}, ...]}. Unknown
// actions, unknown fields and empty scripts are errors.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&script); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	for i, st := range script.Steps {
		if _, ok := scriptActions[st.Action]; !ok {
			return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScript, i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the scene; Update steps it before
// reading input.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run and its effects were consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(s *Scene) {
	switch {
	case r.done, len(s.injectQueue) > 0:
		return
	case r.hold > 0:
		r.hold--
		return
	case r.next >= len(r.steps):
		r.done = true
		return
	}

	st := r.steps[r.next]
	r.next++
	r.hold = scriptActions[st.Action](s, st)
	r.done = r.next == len(r.steps) && r.hold == 0 && len(s.injectQueue) == 0
}
