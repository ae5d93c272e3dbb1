package core

import (
	"fmt"
	"strings"
)

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // Shift piece one column left
	ActionRight            // Shift piece one column right
	ActionSoftDrop         // Step piece one row down
	ActionHardDrop         // Drop piece to its landing row and lock
	ActionRotate           // Turn piece clockwise
	ActionRotateCCW        // Turn piece counter-clockwise
	ActionPause            // Pause/unpause
	ActionRestart          // Restart game after game over
	ActionQuit             // Exit session
)

var actionNames = map[Action]string{
	ActionNone:      "none",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionSoftDrop:  "soft_drop",
	ActionHardDrop:  "hard_drop",
	ActionRotate:    "rotate",
	ActionRotateCCW: "rotate_ccw",
	ActionPause:     "pause",
	ActionRestart:   "restart",
	ActionQuit:      "quit",
}

// String returns the script name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction converts a script name (case-insensitive) to an Action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// MarshalYAML encodes the action by name.
func (a Action) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML decodes an action name.
func (a *Action) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{
		Actions: make(map[Action]bool),
	}
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether no action is set.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}

// List returns the set actions in Action order.
func (f InputFrame) List() []Action {
	var out []Action
	for a := ActionNone + 1; a <= ActionQuit; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
