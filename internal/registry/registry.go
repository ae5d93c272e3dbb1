// Package registry maps game mode IDs to factories.
// Modes register from init(), so the CLI can list and build them by name.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Game is a deterministic, tick-driven simulation.
// It knows nothing about terminals, timing or storage.
type Game interface {
	ID() string

	// Reset starts a new round with the given tick rate and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick and returns the events it produced.
	Step(in core.InputFrame) core.StepResult

	// View returns a plain-text picture of the current state.
	View() string

	State() core.GameState
}

// Factory builds a fresh game instance.
type Factory func() Game

// Mode describes a registered game mode.
type Mode struct {
	ID    string
	Title string
}

type entry struct {
	title   string
	factory Factory
}

var (
	mu    sync.RWMutex
	modes = make(map[string]entry)
)

// Register adds a mode. Registering the same ID twice panics.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := modes[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	modes[id] = entry{title: title, factory: f}
}

// List returns the registered modes ordered by ID.
func List() []Mode {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Mode, 0, len(modes))
	for id, e := range modes {
		out = append(out, Mode{ID: id, Title: e.title})
	}
	slices.SortFunc(out, func(a, b Mode) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Create builds a new instance of mode id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := modes[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := modes[id]
	return ok
}
