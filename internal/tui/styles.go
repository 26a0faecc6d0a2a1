package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	labelStyle = lipgloss.NewStyle().Bold(true).Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// distributionBar renders the completed/pending split as a single bar
// with one-decimal percentages, e.g. [████░░░░] 25.0% done / 75.0% pending.
func distributionBar(s model.Stats, width int) string {
	slices := model.ChartSlices(s)
	if slices == nil {
		return ""
	}
	if width <= 0 {
		width = 28
	}
	filled := int(float64(s.Completed) / float64(s.Total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s / %s", bar,
		successStyle.Render(fmt.Sprintf("%.1f%% done", slices[0].Percent)),
		pendingStyle.Render(fmt.Sprintf("%.1f%% pending", slices[1].Percent)),
	)
}
