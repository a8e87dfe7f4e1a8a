package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒) for Bubble Tea
// programs, matching the CLI spinner.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// ActionIndicator shows the progress of one dashboard write, e.g.
// "Pausing api...", and then its outcome until the next action starts.
type ActionIndicator struct {
	spinner spinner.Model
	Label   string
	Active  bool
	Err     error
	done    bool
}

// NewActionIndicator creates an idle indicator.
func NewActionIndicator() ActionIndicator {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return ActionIndicator{spinner: sp}
}

// Start shows label with an animated spinner.
func (a *ActionIndicator) Start(label string) tea.Cmd {
	a.Label = label
	a.Active = true
	a.Err = nil
	a.done = false
	return a.spinner.Tick
}

// Finish records the outcome of the running action.
func (a *ActionIndicator) Finish(err error) {
	a.Active = false
	a.Err = err
	a.done = true
}

// Update advances the animation while an action is running.
func (a ActionIndicator) Update(msg tea.Msg) (ActionIndicator, tea.Cmd) {
	if !a.Active {
		return a, nil
	}
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(tick)
		return a, cmd
	}
	return a, nil
}

// View renders the indicator, or "" when no action has run.
func (a ActionIndicator) View() string {
	switch {
	case a.Active:
		return a.spinner.View() + " " + a.Label + "..."
	case a.done && a.Err != nil:
		return ErrorStyle().Render(SymbolFail+" "+a.Label+" failed") + ": " + a.Err.Error()
	case a.done:
		return SuccessStyle().Render(SymbolSuccess) + " " + a.Label
	default:
		return ""
	}
}
