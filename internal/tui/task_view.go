package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/model"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

type taskModal int

const (
	modalNone taskModal = iota
	modalForm
	modalProject
	modalConfirm
)

// sortModes mirrors the backend's sortBy values and their labels.
var sortModes = []struct {
	value string
	label string
}{
	{"", "Recent"},
	{"deadline", "Deadline"},
	{"project", "Project"},
}

type todosLoadedMsg struct {
	seq   uint64
	todos []model.Todo
	err   error
}

type statsLoadedMsg struct {
	seq   uint64
	stats model.Stats
	err   error
}

type todoSavedMsg struct {
	todo    *model.Todo
	created bool
	err     error
}

type todoDeletedMsg struct {
	id  int
	err error
}

type bulkDoneMsg struct {
	verb  string
	count int
	err   error
}

// taskModel is the main view: the todo list plus its create/edit forms,
// filters, stats and bulk project operations.
type taskModel struct {
	session *session.Store
	client  *api.Client

	list  list.Model
	todos []model.Todo
	names []string
	stats *model.Stats

	filterIx int // 0 = all projects, then names[filterIx-1]
	sortIx   int

	// Monotonic fetch sequences; responses tagged with a stale sequence
	// are discarded so a slow fetch cannot overwrite a newer one.
	todosSeq uint64
	statsSeq uint64
	loading  bool

	status    string
	statusErr bool

	modal    taskModal
	form     taskForm
	projForm projectForm
	confirm  confirmModel

	spin   spinner.Model
	width  int
	height int
}

func newTaskList() list.Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("My Tasks")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	binds := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter project")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename project")),
		key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove project")),
		key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds[:4] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }
	return l
}

func newTaskModel(sess *session.Store, client *api.Client) taskModel {
	m := taskModel{session: sess, client: client}
	m.list = newTaskList()
	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	return m
}

func (m taskModel) filterProject() string {
	if m.filterIx <= 0 || m.filterIx > len(m.names) {
		return ""
	}
	return m.names[m.filterIx-1]
}

func (m taskModel) sortBy() string { return sortModes[m.sortIx].value }

// enter (re)loads the view. Todos and stats are independent fetches.
func (m taskModel) enter() (taskModel, tea.Cmd) {
	m.status = ""
	m.statusErr = false
	return m.reload()
}

func (m taskModel) reload() (taskModel, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.fetchTodos(), m.fetchStats(), m.spin.Tick)
}

func (m *taskModel) fetchTodos() tea.Cmd {
	m.todosSeq++
	seq := m.todosSeq
	client := m.client
	sortBy, project := m.sortBy(), m.filterProject()
	return func() tea.Msg {
		todos, err := client.ListTodos(context.Background(), sortBy, project)
		return todosLoadedMsg{seq: seq, todos: todos, err: err}
	}
}

func (m *taskModel) fetchStats() tea.Cmd {
	m.statsSeq++
	seq := m.statsSeq
	client := m.client
	return func() tea.Msg {
		s, err := client.Stats(context.Background())
		return statsLoadedMsg{seq: seq, stats: s, err: err}
	}
}

func (m *taskModel) setTodos(todos []model.Todo) {
	m.todos = todos
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	// Project names only reflect the currently loaded todos; the dropdown
	// narrows under a filter. Inherited behavior, kept as-is.
	m.names = model.ProjectNames(todos)
	if m.filterIx > len(m.names) {
		m.filterIx = 0
	}
}

func (m taskModel) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m taskModel) resize(w, h int) taskModel {
	m.width = w
	m.height = h
	m.list.SetSize(w-4, h-10)
	return m
}

func (m taskModel) update(msg tea.Msg) (taskModel, *view, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		if msg.seq != m.todosSeq {
			return m, nil, nil // stale response from an older fetch
		}
		m.loading = false
		if msg.err != nil {
			m.status = "Failed to fetch todos: " + apiDetail(msg.err)
			m.statusErr = true
			return m, nil, nil
		}
		m.setTodos(msg.todos)
		return m, nil, nil

	case statsLoadedMsg:
		if msg.seq != m.statsSeq {
			return m, nil, nil
		}
		if msg.err != nil {
			// Stats are auxiliary; the list stays usable without them.
			return m, nil, nil
		}
		s := msg.stats
		m.stats = &s
		return m, nil, nil

	case todoSavedMsg:
		if msg.err != nil {
			m.status = "Failed to save task: " + apiDetail(msg.err)
			m.statusErr = true
			return m, nil, nil
		}
		if msg.created {
			// Prepend locally, no reload; only the counters are refetched.
			m.setTodos(append([]model.Todo{*msg.todo}, m.todos...))
			m.status = "Task added."
		} else {
			m.reconcile(*msg.todo)
			m.status = "Task updated."
		}
		m.statusErr = false
		return m, nil, m.fetchStats()

	case todoDeletedMsg:
		if msg.err != nil {
			m.status = "Failed to delete task: " + apiDetail(msg.err)
			m.statusErr = true
			return m, nil, nil
		}
		rest := make([]model.Todo, 0, len(m.todos))
		for _, t := range m.todos {
			if t.ID != msg.id {
				rest = append(rest, t)
			}
		}
		m.setTodos(rest)
		m.status = "Task deleted."
		m.statusErr = false
		return m, nil, m.fetchStats()

	case bulkDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to %s: %s", msg.verb, apiDetail(msg.err))
			m.statusErr = true
			return m, nil, nil
		}
		m.status = fmt.Sprintf("%s: %d tasks affected.", msg.verb, msg.count)
		m.statusErr = false
		var cmd tea.Cmd
		m, cmd = m.reload()
		return m, nil, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, nil, cmd
	}

	switch m.modal {
	case modalForm:
		return m.updateForm(msg)
	case modalProject:
		return m.updateProjectForm(msg)
	case modalConfirm:
		var done bool
		var cmd tea.Cmd
		m.confirm, done, cmd = m.confirm.update(msg)
		if done {
			m.modal = modalNone
		}
		return m, nil, cmd
	}
	return m.updateList(msg)
}

func (m taskModel) updateForm(msg tea.Msg) (taskModel, *view, tea.Cmd) {
	form, res, done, cmd := m.form.update(msg)
	m.form = form
	if !done {
		return m, nil, cmd
	}
	m.modal = modalNone
	if res == nil {
		// Cancel reverts to the pre-edit values by dropping the buffers.
		return m, nil, nil
	}

	client := m.client
	if m.form.editing {
		id := m.form.editID
		edit := api.TodoEdit{Title: res.title, Deadline: res.deadline, ProjectName: res.project}
		desc := res.description
		edit.Description = &desc
		return m, nil, func() tea.Msg {
			t, err := client.UpdateTodo(context.Background(), id, edit)
			return todoSavedMsg{todo: t, err: err}
		}
	}
	nt := api.NewTodo{
		Title:       res.title,
		Description: res.description,
		Deadline:    res.deadline,
		ProjectName: res.project,
	}
	return m, nil, func() tea.Msg {
		t, err := client.CreateTodo(context.Background(), nt)
		return todoSavedMsg{todo: t, created: true, err: err}
	}
}

func (m taskModel) updateProjectForm(msg tea.Msg) (taskModel, *view, tea.Cmd) {
	form, res, done, cmd := m.projForm.update(msg)
	m.projForm = form
	if !done {
		return m, nil, cmd
	}
	m.modal = modalNone
	if res == nil {
		return m, nil, nil
	}

	client := m.client
	if res.kind == projectRename {
		oldName, newName := res.oldName, res.newName
		return m, nil, func() tea.Msg {
			n, err := client.RenameProject(context.Background(), oldName, newName)
			return bulkDoneMsg{verb: fmt.Sprintf("Renamed %q to %q", oldName, newName), count: n, err: err}
		}
	}

	// Removing the association is destructive enough to confirm first.
	name := res.oldName
	action := func() tea.Msg {
		n, err := client.RemoveProject(context.Background(), name)
		return bulkDoneMsg{verb: fmt.Sprintf("Removed project %q", name), count: n, err: err}
	}
	m.confirm = newConfirm(
		"Remove project",
		fmt.Sprintf("Remove the project association for every task in %q?\nTheir project will be set to none.", name),
		action,
	)
	m.modal = modalConfirm
	return m, nil, nil
}

func (m taskModel) updateList(msg tea.Msg) (taskModel, *view, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "q":
			return m, nil, tea.Quit

		case "p":
			profile := viewProfile
			return m, &profile, nil

		case "o":
			if err := m.session.Logout(); err != nil {
				m.status = "Logout failed: " + err.Error()
				m.statusErr = true
			}
			// The route guard notices the cleared session on this cycle.
			return m, nil, nil

		case "r":
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, nil, cmd

		case "a":
			m.form = newTaskForm(m.names)
			m.modal = modalForm
			return m, nil, nil

		case "e":
			if t, ok := m.selected(); ok {
				m.form = editTaskForm(t, m.names)
				m.modal = modalForm
			}
			return m, nil, nil

		case " ":
			t, ok := m.selected()
			if !ok {
				return m, nil, nil
			}
			client := m.client
			id, next := t.ID, !t.Completed
			return m, nil, func() tea.Msg {
				updated, err := client.ToggleTodo(context.Background(), id, next)
				return todoSavedMsg{todo: updated, err: err}
			}

		case "d":
			t, ok := m.selected()
			if !ok {
				return m, nil, nil
			}
			client := m.client
			id := t.ID
			action := func() tea.Msg {
				err := client.DeleteTodo(context.Background(), id)
				return todoDeletedMsg{id: id, err: err}
			}
			m.confirm = newConfirm("Delete task",
				fmt.Sprintf("Are you sure you want to delete %q?", t.Title), action)
			m.modal = modalConfirm
			return m, nil, nil

		case "f":
			m.filterIx = (m.filterIx + 1) % (len(m.names) + 1)
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, nil, cmd

		case "s":
			m.sortIx = (m.sortIx + 1) % len(sortModes)
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, nil, cmd

		case "R":
			m.projForm = newProjectForm(projectRename, m.currentProject())
			m.modal = modalProject
			return m, nil, nil

		case "X":
			m.projForm = newProjectForm(projectRemove, m.currentProject())
			m.modal = modalProject
			return m, nil, nil

		case "C":
			client := m.client
			action := func() tea.Msg {
				n, err := client.ClearCompleted(context.Background())
				return bulkDoneMsg{verb: "Cleared completed tasks", count: n, err: err}
			}
			m.confirm = newConfirm("Clear completed",
				"Are you sure you want to delete ALL completed tasks?", action)
			m.modal = modalConfirm
			return m, nil, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, nil, cmd
}

// currentProject picks the most useful prefill for the project forms:
// the selected task's project, else the active filter.
func (m taskModel) currentProject() string {
	if t, ok := m.selected(); ok && t.Project() != "" {
		return t.Project()
	}
	return m.filterProject()
}

// reconcile replaces the matching entry by id with the returned record.
func (m *taskModel) reconcile(updated model.Todo) {
	todos := make([]model.Todo, len(m.todos))
	copy(todos, m.todos)
	for i, t := range todos {
		if t.ID == updated.ID {
			todos[i] = updated
			break
		}
	}
	m.setTodos(todos)
}

func (m taskModel) view() string {
	switch m.modal {
	case modalForm:
		return m.form.view()
	case modalProject:
		return m.projForm.view()
	case modalConfirm:
		return m.confirm.view()
	}

	header := titleStyle.Render("TickIt")
	if m.stats != nil {
		header = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
			header,
			successStyle.Render("✔"), m.stats.Completed,
			pendingStyle.Render("•"), m.stats.Pending,
			accentStyle.Render("Total"), m.stats.Total,
		)
	}

	filterLabel := "All projects"
	if p := m.filterProject(); p != "" {
		filterLabel = p
	}
	controls := fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Filter:"), accentStyle.Render(filterLabel),
		labelStyle.Render("Sort:"), accentStyle.Render(sortModes[m.sortIx].label),
	)

	out := header + "\n" + controls + "\n"
	if m.stats != nil {
		if bar := distributionBar(*m.stats, 28); bar != "" {
			out += bar + "\n"
		}
	}
	out += "\n" + m.list.View()

	if m.loading {
		out += "\n" + m.spin.View() + mutedStyle.Render("Loading...")
	}
	if m.status != "" {
		line := successStyle.Render(m.status)
		if m.statusErr {
			line = errorStyle.Render(m.status)
		}
		out += "\n" + line
	}
	return panelString(out)
}
