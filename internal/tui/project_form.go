package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type projectFormKind int

const (
	projectRename projectFormKind = iota
	projectRemove
)

type projectFormResult struct {
	kind    projectFormKind
	oldName string
	newName string
}

// projectForm is the structured replacement for the prompt-based bulk
// project flows: it carries the same one or two required names, and the
// destructive remove still goes through a confirm gate afterwards.
type projectForm struct {
	kind    projectFormKind
	oldName textinput.Model
	newName textinput.Model
	focus   int
	errText string
}

func newProjectForm(kind projectFormKind, current string) projectForm {
	f := projectForm{kind: kind}

	f.oldName = textinput.New()
	f.oldName.Prompt = "> "
	f.oldName.Placeholder = "Current project name"
	f.oldName.CharLimit = 100
	f.oldName.SetValue(current)

	f.newName = textinput.New()
	f.newName.Prompt = "> "
	f.newName.Placeholder = "New project name"
	f.newName.CharLimit = 100

	f.oldName.Focus()
	f.oldName.CursorEnd()
	return f
}

func (f projectForm) update(msg tea.Msg) (projectForm, *projectFormResult, bool, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch key.String() {
		case "esc":
			return f, nil, true, nil
		case "tab", "down", "shift+tab", "up":
			if f.kind == projectRename {
				if f.focus == 0 {
					f.focus = 1
					f.oldName.Blur()
					f.newName.Focus()
				} else {
					f.focus = 0
					f.newName.Blur()
					f.oldName.Focus()
				}
			}
			return f, nil, false, nil
		case "enter":
			old := strings.TrimSpace(f.oldName.Value())
			if old == "" {
				f.errText = "Project name is required."
				return f, nil, false, nil
			}
			res := &projectFormResult{kind: f.kind, oldName: old}
			if f.kind == projectRename {
				nn := strings.TrimSpace(f.newName.Value())
				if nn == "" {
					f.errText = "New project name cannot be empty."
					return f, nil, false, nil
				}
				res.newName = nn
			}
			return f, res, true, nil
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.oldName, cmd = f.oldName.Update(msg)
	} else {
		f.newName, cmd = f.newName.Update(msg)
	}
	return f, nil, false, cmd
}

func (f projectForm) view() string {
	heading := "Rename project"
	note := "Every task in the project moves to the new name."
	if f.kind == projectRemove {
		heading = "Remove project"
		note = "Tasks are kept; they only lose their project name."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading) + "\n")
	b.WriteString(mutedStyle.Render(note) + "\n\n")
	b.WriteString(labelStyle.Render("Project") + "\n" + f.oldName.View() + "\n")
	if f.kind == projectRename {
		b.WriteString(labelStyle.Render("New name") + "\n" + f.newName.View() + "\n")
	}
	if f.errText != "" {
		b.WriteString("\n" + errorStyle.Render(f.errText) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter: apply   tab: next   esc: cancel"))
	return panelString(b.String())
}
