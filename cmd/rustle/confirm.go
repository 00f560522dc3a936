// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// harmWarning is shown above the confirmation prompt before any mutating
// run. Both enable and disable can leave a machine unbootable when they go
// wrong, so the prompt defaults to No.
const harmWarning = "⚠️ rustle can cause harm to your system! ⚠️\n" +
	"Depending on your configuration and workload, rustle's\n" +
	"experiments could cause your machine to fail to boot, or\n" +
	"your workloads to fail. Use with caution."

// Prompt styling, shared by every render of the model.
var (
	confirmTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	confirmDescStyle     = lipgloss.NewStyle().Foreground(ColorWarning)
	confirmActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(ColorPrimary).Bold(true).Padding(0, 1)
	confirmInactiveStyle = lipgloss.NewStyle().Foreground(ColorVerbose).Padding(0, 1)
	confirmHelpStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
)

// confirmOptions configures the confirmation prompt.
type confirmOptions struct {
	// Title is the question to display.
	Title string
	// Description provides additional context below the title.
	Description string
	// Default preselects the answer (true for yes, false for no).
	Default bool
}

// confirmModel is the bubbletea model behind the prompt. selection is the
// highlighted option while the prompt is open and the answer once done.
type confirmModel struct {
	title       string
	description string
	selection   bool
	done        bool
	cancelled   bool
	width       int
}

func newConfirmModel(opts confirmOptions) *confirmModel {
	return &confirmModel{
		title:       opts.Title,
		description: opts.Description,
		selection:   opts.Default,
	}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// choose commits an answer and quits the program.
func (m *confirmModel) choose(answer bool) (tea.Model, tea.Cmd) {
	m.selection = answer
	m.done = true
	return m, tea.Quit
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case "y":
			return m.choose(true)
		case "n":
			return m.choose(false)
		case "enter", " ":
			return m.choose(m.selection)
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	option := func(label string, active bool) string {
		if active {
			return confirmActiveStyle.Render(label)
		}
		return confirmInactiveStyle.Render(label)
	}

	lines := make([]string, 0, 4)
	if m.title != "" {
		lines = append(lines, confirmTitleStyle.Render(m.title))
	}
	if m.description != "" {
		lines = append(lines, confirmDescStyle.Render(m.description))
	}
	lines = append(lines,
		option("Yes", m.selection)+"  "+option("No", !m.selection),
		confirmHelpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// confirmProceed runs the prompt and reports the user's answer. Cancelling
// with esc or ctrl+c counts as a decline, matching the prompt's default.
func confirmProceed(opts confirmOptions) (bool, error) {
	p := tea.NewProgram(newConfirmModel(opts))

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(*confirmModel)
	return m.selection && !m.cancelled, nil
}

// confirmOrAbort prompts before a mutating run. The yes flag skips the
// prompt entirely; declining aborts with exit code 1.
func confirmOrAbort(yes bool) error {
	if yes {
		return nil
	}

	confirmed, err := confirmProceed(confirmOptions{
		Title:       "Continue?",
		Description: harmWarning,
	})
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if !confirmed {
		return &ExitError{Code: 1}
	}
	return nil
}
