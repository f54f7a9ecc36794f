package ui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// RunOnceModel is a Bubble Tea model that renders its content once and
// exits. It is used for final result boxes so they go through the same
// rendering engine as interactive output, without requiring interaction.
type RunOnceModel struct {
	content string
}

// NewRunOnceModel creates a model that renders the given content and exits
func NewRunOnceModel(content string) RunOnceModel {
	return RunOnceModel{content: content}
}

// Init implements tea.Model
func (m RunOnceModel) Init() tea.Cmd {
	// Quit immediately after the first render
	return tea.Quit
}

// Update implements tea.Model
func (m RunOnceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View implements tea.Model
func (m RunOnceModel) View() string {
	return m.content + "\n"
}

// RenderOnce renders content through Bubble Tea and immediately exits.
func RenderOnce(content string) error {
	p := tea.NewProgram(NewRunOnceModel(content), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
