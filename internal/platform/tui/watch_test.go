package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/headless"
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWatchModelShowsFrames(t *testing.T) {
	frames := make(chan headless.Frame, 1)
	frames <- headless.Frame{Tick: 3, View: "..@.\n....\nscore 0"}

	var m tea.Model = NewWatchModel("Blockfall", frames, func() {})
	if !strings.Contains(m.View(), "Waiting") {
		t.Errorf("initial view = %q", m.View())
	}

	m, next := m.Update(m.Init()())
	if next == nil {
		t.Fatal("frame should schedule the next read")
	}
	view := m.View()
	for _, want := range []string{"Blockfall", "..@.", "tick 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	close(frames)
	_, cmd := m.Update(next())
	if !isQuit(cmd) {
		t.Error("closed frame channel should quit")
	}
}

func TestWatchModelQuitCancelsRun(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			m := NewWatchModel("Blockfall", make(chan headless.Frame), cancel)
			updated, cmd := m.Update(tt.msg)
			if !isQuit(cmd) {
				t.Error("quit key should quit")
			}
			if ctx.Err() == nil {
				t.Error("quit key should cancel the run")
			}
			if !updated.(WatchModel).Stopped() {
				t.Error("Stopped() = false")
			}
		})
	}
}

func TestWatchModelIgnoresOtherKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewWatchModel("Blockfall", make(chan headless.Frame), cancel)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		t.Error("unbound key should do nothing")
	}
	if ctx.Err() != nil {
		t.Error("unbound key cancelled the run")
	}
}

type idleGame struct{}

func (idleGame) ID() string { return "idle" }
func (idleGame) Reset(core.RuntimeConfig) {}
func (idleGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (idleGame) View() string { return "" }
func (idleGame) State() core.GameState { return core.GameState{} }

func TestWatchNeedsFrames(t *testing.T) {
	r := headless.NewRunner(idleGame{}, headless.Options{MaxTicks: 1})
	if _, err := Watch(context.Background(), r, "idle"); err == nil {
		t.Error("Watch without a frame buffer should fail")
	}
}
