package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

type projectChoice int

const (
	projNone projectChoice = iota
	projExisting
	projNew
)

const (
	formFieldTitle = iota
	formFieldDesc
	formFieldDeadline
	formFieldProject
	formFieldNewProj
	formFieldCount
)

// formResult carries the validated field values out of the form.
type formResult struct {
	title       string
	description string
	deadline    *string // nil when unset
	project     *string // nil when no project
}

// taskForm is the create/edit form. The project is one of three mutually
// exclusive inputs: none, an existing name, or a freshly typed one.
type taskForm struct {
	editing bool
	editID  int

	title    textinput.Model
	desc     textinput.Model
	deadline textinput.Model
	newProj  textinput.Model

	choice projectChoice
	names  []string
	nameIx int

	focus   int
	errText string
}

func newTaskForm(names []string) taskForm {
	f := taskForm{names: names}

	f.title = textinput.New()
	f.title.Prompt = "> "
	f.title.Placeholder = "Task title"
	f.title.CharLimit = 200

	f.desc = textinput.New()
	f.desc.Prompt = "> "
	f.desc.Placeholder = "Description (optional)"
	f.desc.CharLimit = 500

	f.deadline = textinput.New()
	f.deadline.Prompt = "> "
	f.deadline.Placeholder = "YYYY-MM-DD (optional)"
	f.deadline.CharLimit = 10

	f.newProj = textinput.New()
	f.newProj.Prompt = "> "
	f.newProj.Placeholder = "New project name"
	f.newProj.CharLimit = 100

	f.title.Focus()
	return f
}

// editTaskForm pre-fills the form from an existing todo. Cancelling the
// form simply discards it, which reverts to these pre-edit values.
func editTaskForm(t model.Todo, names []string) taskForm {
	f := newTaskForm(names)
	f.editing = true
	f.editID = t.ID
	f.title.SetValue(t.Title)
	if t.Description != nil {
		f.desc.SetValue(*t.Description)
	}
	f.deadline.SetValue(t.DeadlineDate())
	if p := t.Project(); p != "" {
		found := false
		for i, n := range names {
			if n == p {
				f.choice = projExisting
				f.nameIx = i
				found = true
				break
			}
		}
		// A project filtered out of the loaded page is still editable as
		// typed text.
		if !found {
			f.choice = projNew
			f.newProj.SetValue(p)
		}
	}
	f.title.CursorEnd()
	return f
}

func (f *taskForm) input(i int) *textinput.Model {
	switch i {
	case formFieldTitle:
		return &f.title
	case formFieldDesc:
		return &f.desc
	case formFieldDeadline:
		return &f.deadline
	case formFieldNewProj:
		return &f.newProj
	}
	return nil
}

func (f taskForm) fieldVisible(i int) bool {
	if i == formFieldNewProj {
		return f.choice == projNew
	}
	return true
}

// update returns (form, result, done, cmd). done without a result means
// the form was cancelled.
func (f taskForm) update(msg tea.Msg) (taskForm, *formResult, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	switch key.String() {
	case "esc":
		return f, nil, true, nil
	case "tab", "down":
		return f.cycleFocus(1), nil, false, nil
	case "shift+tab", "up":
		return f.cycleFocus(-1), nil, false, nil
	case "left", "right":
		if f.focus == formFieldProject {
			return f.cycleProject(key.String() == "right"), nil, false, nil
		}
	case "enter":
		res, ok := f.validate()
		if !ok {
			return f, nil, false, nil
		}
		return f, res, true, nil
	}
	return f.updateFocused(msg)
}

func (f taskForm) updateFocused(msg tea.Msg) (taskForm, *formResult, bool, tea.Cmd) {
	in := f.input(f.focus)
	if in == nil {
		return f, nil, false, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, nil, false, cmd
}

func (f taskForm) cycleFocus(dir int) taskForm {
	if in := f.input(f.focus); in != nil {
		in.Blur()
	}
	for {
		f.focus = (f.focus + dir + formFieldCount) % formFieldCount
		if f.fieldVisible(f.focus) {
			break
		}
	}
	if in := f.input(f.focus); in != nil {
		in.Focus()
	}
	return f
}

// cycleProject walks no-project -> each loaded name -> new-project.
func (f taskForm) cycleProject(forward bool) taskForm {
	type slot struct {
		choice projectChoice
		ix     int
	}
	slots := []slot{{projNone, 0}}
	for i := range f.names {
		slots = append(slots, slot{projExisting, i})
	}
	slots = append(slots, slot{projNew, 0})

	cur := 0
	for i, s := range slots {
		if s.choice == f.choice && (s.choice != projExisting || s.ix == f.nameIx) {
			cur = i
			break
		}
	}
	if forward {
		cur = (cur + 1) % len(slots)
	} else {
		cur = (cur - 1 + len(slots)) % len(slots)
	}
	f.choice = slots[cur].choice
	f.nameIx = slots[cur].ix
	if f.choice != projNew {
		f.newProj.Blur()
	}
	return f
}

// validate applies the client-side rules: non-empty title, strict
// YYYY-MM-DD deadline, non-empty new-project name.
func (f *taskForm) validate() (*formResult, bool) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.errText = "Title cannot be empty"
		return nil, false
	}
	dl := strings.TrimSpace(f.deadline.Value())
	if dl != "" && !model.ValidDeadline(dl) {
		f.errText = "Invalid deadline format. Please use YYYY-MM-DD."
		return nil, false
	}

	res := &formResult{
		title:       title,
		description: strings.TrimSpace(f.desc.Value()),
	}
	if dl != "" {
		res.deadline = &dl
	}
	switch f.choice {
	case projExisting:
		if f.nameIx >= 0 && f.nameIx < len(f.names) {
			name := f.names[f.nameIx]
			res.project = &name
		}
	case projNew:
		name := strings.TrimSpace(f.newProj.Value())
		if name == "" {
			f.errText = "New project name cannot be empty."
			return nil, false
		}
		res.project = &name
	}
	f.errText = ""
	return res, true
}

func (f taskForm) projectLabel() string {
	switch f.choice {
	case projExisting:
		if f.nameIx >= 0 && f.nameIx < len(f.names) {
			return f.names[f.nameIx]
		}
		return "No project"
	case projNew:
		return "New project..."
	}
	return "No project"
}

func (f taskForm) view() string {
	heading := "Add new task"
	if f.editing {
		heading = "Edit task"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading) + "\n\n")
	b.WriteString(labelStyle.Render("Title") + "\n" + f.title.View() + "\n")
	b.WriteString(labelStyle.Render("Description") + "\n" + f.desc.View() + "\n")
	b.WriteString(labelStyle.Render("Deadline") + "\n" + f.deadline.View() + "\n")

	proj := f.projectLabel()
	if f.focus == formFieldProject {
		proj = selectedStyle.Render("< " + proj + " >")
	} else {
		proj = accentStyle.Render(proj)
	}
	b.WriteString(labelStyle.Render("Project") + "\n  " + proj + "\n")
	if f.choice == projNew {
		b.WriteString(f.newProj.View() + "\n")
	}

	if f.errText != "" {
		b.WriteString("\n" + errorStyle.Render(f.errText) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab: next   ←/→: project   enter: save   esc: cancel"))
	return panelString(b.String())
}
