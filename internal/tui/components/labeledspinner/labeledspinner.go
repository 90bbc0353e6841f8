// Package labeledspinner renders a spinner with a title, subtitle and help line.
package labeledspinner

import (
	"fmt"
	"strings"
	"time"

	"github.com/alkime/writeablog/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is shown while a post is being written.
type Model struct {
	Spinner  spinner.Model
	Title    string
	Subtitle string
	Help     string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, title, subtitle, help string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner:  sp,
		Title:    title,
		Subtitle: subtitle,
		Help:     help,
	}
}

// Init starts the spinner ticking.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner on tick messages and ignores everything else.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	tickMsg, ok := teaMsg.(spinner.TickMsg)
	if !ok {
		return ls, nil
	}

	var cmd tea.Cmd
	ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

	return ls, cmd
}

// View renders the spinner with its static help text.
func (ls Model) View() string {
	return ls.ViewWithHelp(ls.Help)
}

// ViewElapsed renders the spinner with the time spent since started,
// rounded to the second, ahead of the help text.
func (ls Model) ViewElapsed(started, now time.Time) string {
	elapsed := now.Sub(started).Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	help := fmt.Sprintf("Elapsed %s", elapsed)
	if ls.Help != "" {
		help += " · " + ls.Help
	}

	return ls.ViewWithHelp(help)
}

// ViewWithHelp renders the spinner with help text computed by the caller.
func (ls Model) ViewWithHelp(help string) string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(ls.Title))
	sb.WriteString("\n\n")

	if ls.Subtitle != "" {
		sb.WriteString(style.Subtitle.Render(ls.Subtitle))
		sb.WriteString("\n\n")
	}

	sb.WriteString(style.Help.Render(help))

	return sb.String()
}
