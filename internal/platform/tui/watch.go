// Package tui shows a running simulation in the terminal using Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/platform/headless"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WatchKeyMap defines the key bindings of the watch view.
type WatchKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "stop run"),
		),
	}
}

// frameMsg carries one frame from the runner.
type frameMsg headless.Frame

// runDoneMsg reports that the runner closed its frame channel.
type runDoneMsg struct{}

// WatchModel displays the frames a headless runner publishes.
type WatchModel struct {
	title   string
	frames  <-chan headless.Frame
	cancel  context.CancelFunc
	keys    WatchKeyMap
	help    help.Model
	frame   headless.Frame
	seen    bool
	stopped bool
}

// NewWatchModel creates a watch view reading frames. cancel stops the run
// when the user quits.
func NewWatchModel(title string, frames <-chan headless.Frame, cancel context.CancelFunc) WatchModel {
	return WatchModel{
		title:  title,
		frames: frames,
		cancel: cancel,
		keys:   DefaultWatchKeyMap(),
		help:   help.New(),
	}
}

// Init starts waiting for the first frame.
func (m WatchModel) Init() tea.Cmd {
	return m.waitForFrame()
}

// waitForFrame returns a command that blocks until the next frame.
func (m WatchModel) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		f, ok := <-m.frames
		if !ok {
			return runDoneMsg{}
		}
		return frameMsg(f)
	}
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopped = true
			m.cancel()
			return m, tea.Quit
		}
	case frameMsg:
		m.frame = headless.Frame(msg)
		m.seen = true
		return m, m.waitForFrame()
	case runDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View renders the latest frame.
func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if !m.seen {
		b.WriteString(statusStyle.Render("Waiting for the first tick..."))
	} else {
		b.WriteString(boardStyle.Render(m.frame.View))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("tick %d", m.frame.Tick)))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Stopped reports whether the user ended the run.
func (m WatchModel) Stopped() bool {
	return m.stopped
}

// Watch runs r on its own goroutine and shows its frames until the run ends
// or the user quits. r must be built with a frame buffer and views enabled.
func Watch(ctx context.Context, r *headless.Runner, title string) (headless.Result, error) {
	frames := r.Frames()
	if frames == nil {
		return headless.Result{}, errors.New("tui: runner publishes no frames")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		res headless.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.Run(ctx)
		done <- outcome{res: res, err: err}
	}()

	p := tea.NewProgram(
		NewWatchModel(title, frames, cancel),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return headless.Result{}, fmt.Errorf("tui: %w", err)
	}

	out := <-done
	return out.res, out.err
}
