// Package ui asks the questions of an interactive session and reports the
// progress of a download.
//
// Two renditions exist for both concerns: a bubbletea one for terminals and a
// line-based one for pipes, dumb terminals and --plain.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#6b7280")
	colorPrompt  = lipgloss.Color("#2196F3")
	colorWarning = lipgloss.Color("#FFC107")
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	markStyle     = lipgloss.NewStyle().Foreground(colorPrompt).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(colorPrompt)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	invalidStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).PaddingLeft(2)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(4)
)

// answered is what stays on screen once a prompt is done.
func answered(title, answer string) string {
	return markStyle.Render("✔") + " " + promptStyle.Render(title) + " " +
		hintStyle.Render("·") + " " + answerStyle.Render(answer) + "\n"
}
