package headless

import (
	"cmp"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/core"
)

// InputSource supplies the input frame for each tick. Ticks start at 1.
type InputSource interface {
	Frame(tick uint64) core.InputFrame
}

// ScriptStep triggers actions on one tick.
type ScriptStep struct {
	Tick    uint64        `yaml:"tick"`
	Actions []core.Action `yaml:"actions"`
}

// Script is a recorded or hand-written input timeline.
//
//	steps:
//	  - tick: 12
//	    actions: [left, rotate]
type Script struct {
	Steps []ScriptStep `yaml:"steps"`

	byTick map[uint64][]core.Action
}

// NewScript builds a script from steps.
func NewScript(steps ...ScriptStep) *Script {
	s := &Script{Steps: steps}
	s.index()
	return s
}

// ParseScript decodes a YAML script. Steps for the same tick are merged.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	for i, st := range s.Steps {
		if st.Tick == 0 {
			return nil, fmt.Errorf("script: step %d has no tick (ticks start at 1)", i)
		}
	}
	s.index()
	return &s, nil
}

// LoadScript reads a YAML script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: cannot read %s: %w", path, err)
	}
	return ParseScript(data)
}

func (s *Script) index() {
	s.byTick = make(map[uint64][]core.Action, len(s.Steps))
	for _, st := range s.Steps {
		s.byTick[st.Tick] = append(s.byTick[st.Tick], st.Actions...)
	}
}

// Frame returns the actions scheduled for tick.
func (s *Script) Frame(tick uint64) core.InputFrame {
	if s.byTick == nil {
		s.index()
	}
	return core.NewInputFrame(s.byTick[tick]...)
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.Steps)
}

// LastTick returns the highest scheduled tick, or 0 for an empty script.
func (s *Script) LastTick() uint64 {
	var last uint64
	for _, st := range s.Steps {
		last = max(last, st.Tick)
	}
	return last
}

// Marshal encodes the script as YAML, steps in tick order.
func (s *Script) Marshal() ([]byte, error) {
	out := Script{Steps: slices.Clone(s.Steps)}
	slices.SortStableFunc(out.Steps, func(a, b ScriptStep) int {
		return cmp.Compare(a.Tick, b.Tick)
	})
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return data, nil
}

// randomActions are the intents RandomSource picks from, weighted by repetition.
var randomActions = []core.Action{
	core.ActionLeft, core.ActionLeft, core.ActionLeft,
	core.ActionRight, core.ActionRight, core.ActionRight,
	core.ActionRotate, core.ActionRotate,
	core.ActionRotateCCW,
	core.ActionSoftDrop, core.ActionSoftDrop,
	core.ActionHardDrop,
}

// RandomSource generates reproducible random play.
type RandomSource struct {
	rng     *rand.Rand
	density float64
}

// NewRandomSource creates a generator that acts on roughly density of all ticks.
func NewRandomSource(seed int64, density float64) *RandomSource {
	return &RandomSource{
		rng:     rand.New(rand.NewSource(seed)),
		density: density,
	}
}

// Frame returns a random action or nothing.
func (r *RandomSource) Frame(uint64) core.InputFrame {
	if r.rng.Float64() >= r.density {
		return core.NewInputFrame()
	}
	return core.NewInputFrame(randomActions[r.rng.Intn(len(randomActions))])
}

// Recorder wraps a source and keeps every non-empty frame it yields.
type Recorder struct {
	src    InputSource
	script Script
}

// NewRecorder starts recording src.
func NewRecorder(src InputSource) *Recorder {
	return &Recorder{src: src}
}

// Frame forwards to the wrapped source and records the result.
func (r *Recorder) Frame(tick uint64) core.InputFrame {
	f := r.src.Frame(tick)
	if !f.Empty() {
		r.script.Steps = append(r.script.Steps, ScriptStep{Tick: tick, Actions: f.List()})
	}
	return f
}

// Script returns the recorded timeline.
func (r *Recorder) Script() *Script {
	s := &Script{Steps: slices.Clone(r.script.Steps)}
	s.index()
	return s
}

// idle is the source used when none is configured.
type idle struct{}

func (idle) Frame(uint64) core.InputFrame { return core.NewInputFrame() }
