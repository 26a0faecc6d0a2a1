// Package tui is the interactive client: a view router guarded by the
// session state, with one bubbletea sub-model per view.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

type view int

const (
	viewLanding view = iota
	viewLogin
	viewRegister
	viewApp
	viewProfile
)

func protected(v view) bool {
	return v == viewApp || v == viewProfile
}

func publicOnly(v view) bool {
	return v == viewLanding || v == viewLogin || v == viewRegister
}

// App is the root model. It owns the session and API client and hands
// them down to the per-view models (no ambient singletons).
type App struct {
	session *session.Store
	client  *api.Client
	log     *log.Logger

	width  int
	height int

	view    view
	auth    authModel
	tasks   taskModel
	profile profileModel

	initCmd tea.Cmd
}

// NewApp wires the root model. The initial view follows the guard: a
// persisted token lands directly in the task view.
func NewApp(sess *session.Store, client *api.Client, logger *log.Logger) App {
	a := App{
		session: sess,
		client:  client,
		log:     logger,
		view:    viewLanding,
	}
	a.auth = newAuthModel(sess, client)
	a.tasks = newTaskModel(sess, client)
	a.profile = newProfileModel(sess, client)
	a.view = a.guard(viewLanding)
	if a.view == viewApp {
		a.tasks, a.initCmd = a.tasks.enter()
	}
	return a
}

// guard applies the navigation contract: protected views require a
// session, public-only views reject one. Evaluated on every cycle with
// the current session state, never cached.
func (a App) guard(v view) view {
	authed := a.session.Authenticated()
	if protected(v) && !authed {
		return viewLogin
	}
	if publicOnly(v) && authed {
		return viewApp
	}
	return v
}

// navigate switches views through the guard and kicks off the entered
// view's initial fetches.
func (a App) navigate(v view) (App, tea.Cmd) {
	next := a.guard(v)
	if next == a.view {
		return a, nil
	}
	a.view = next
	switch next {
	case viewLogin:
		a.auth = a.auth.reset(modeLogin)
	case viewRegister:
		a.auth = a.auth.reset(modeRegister)
	case viewApp:
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.enter()
		return a, cmd
	case viewProfile:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.enter()
		return a, cmd
	}
	return a, nil
}

func (a App) Init() tea.Cmd { return a.initCmd }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.tasks = a.tasks.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLanding:
		return a.updateLanding(msg)
	case viewLogin, viewRegister:
		var nav *view
		a.auth, nav, cmd = a.auth.update(msg)
		if nav != nil {
			var navCmd tea.Cmd
			a, navCmd = a.navigate(*nav)
			return a, tea.Batch(cmd, navCmd)
		}
	case viewApp:
		var nav *view
		a.tasks, nav, cmd = a.tasks.update(msg)
		if nav != nil {
			var navCmd tea.Cmd
			a, navCmd = a.navigate(*nav)
			return a, tea.Batch(cmd, navCmd)
		}
	case viewProfile:
		var nav *view
		a.profile, nav, cmd = a.profile.update(msg)
		if nav != nil {
			var navCmd tea.Cmd
			a, navCmd = a.navigate(*nav)
			return a, tea.Batch(cmd, navCmd)
		}
	}

	// The session may have flipped underneath us (login stored a token, or
	// a 401 tore the session down mid-fetch). Re-apply the guard so the
	// next render lands on the right view.
	if next := a.guard(a.view); next != a.view {
		var navCmd tea.Cmd
		a, navCmd = a.navigate(next)
		return a, tea.Batch(cmd, navCmd)
	}
	return a, cmd
}

func (a App) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			return a, tea.Quit
		case "l", "enter":
			app, cmd := a.navigate(viewLogin)
			return app, cmd
		case "r":
			app, cmd := a.navigate(viewRegister)
			return app, cmd
		}
	}
	return a, nil
}

func (a App) View() string {
	switch a.view {
	case viewLanding:
		return a.viewLandingPage()
	case viewLogin, viewRegister:
		return a.auth.view()
	case viewApp:
		return a.tasks.view()
	case viewProfile:
		return a.profile.view()
	}
	return ""
}

func (a App) viewLandingPage() string {
	lines := []string{
		titleStyle.Render("TickIt"),
		"",
		"Tick off whatever you want to do, before tomorrow runs out.",
		"",
		fmt.Sprintf("%s log in    %s sign up    %s quit",
			accentStyle.Render("l/enter"),
			accentStyle.Render("r"),
			accentStyle.Render("q"),
		),
	}
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return panelString(out)
}

// Run starts the interactive client in the alternate screen.
func Run(sess *session.Store, client *api.Client, logger *log.Logger) error {
	p := tea.NewProgram(NewApp(sess, client, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
