package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// confirmModel is a blocking yes/no gate in front of destructive actions.
// The wrapped command runs only on explicit confirmation.
type confirmModel struct {
	title  string
	body   string
	focus  confirmFocus
	action tea.Cmd
}

func newConfirm(title, body string, action tea.Cmd) confirmModel {
	return confirmModel{title: title, body: body, focus: confirmFocusCancel, action: action}
}

// update returns (model, done, cmd). done means the modal closed, either
// confirmed (cmd non-nil) or cancelled.
func (c confirmModel) update(msg tea.Msg) (confirmModel, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false, nil
	}
	switch key.String() {
	case "esc", "n":
		return c, true, nil
	case "y":
		return c, true, c.action
	case "tab", "left", "right":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
		return c, false, nil
	case "enter":
		if c.focus == confirmFocusConfirm {
			return c, true, c.action
		}
		return c, true, nil
	}
	return c, false, nil
}

func (c confirmModel) view() string {
	// Avoid borders on the buttons themselves; nesting bordered components
	// inside the panel renders artifacts on some terminals.
	btnBase := lipgloss.NewStyle().Padding(0, 1).Faint(true)
	btnActive := lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)

	confirm := btnBase.Render("Confirm")
	cancel := btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render("Confirm")
	} else {
		cancel = btnActive.Render("Cancel")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	content := strings.Join([]string{
		titleStyle.Render(c.title),
		"",
		c.body,
		"",
		controls,
		"",
		helpStyle.Render("y/enter: confirm   n/esc: cancel   tab: focus"),
	}, "\n")
	return panelString(content)
}
