package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	authFieldCount
)

type authResultMsg struct {
	mode  authMode
	token string
	err   error
}

// authModel is the login/register form. Semantic validation (email
// format, password rules, uniqueness) is entirely the backend's job.
type authModel struct {
	session *session.Store
	client  *api.Client

	mode       authMode
	inputs     [authFieldCount]textinput.Model
	focus      int
	submitting bool
	errText    string
	infoText   string
	spin       spinner.Model
}

func newAuthModel(sess *session.Store, client *api.Client) authModel {
	m := authModel{session: sess, client: client, mode: modeLogin}

	username := textinput.New()
	username.Prompt = "> "
	username.Placeholder = "Username"
	username.CharLimit = 64

	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "Email"
	email.CharLimit = 128

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	m.inputs[fieldUsername] = username
	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	return m.reset(modeLogin)
}

// reset clears transient state and focuses the first visible field.
// Filled-in values survive a login/register switch on purpose.
func (m authModel) reset(mode authMode) authModel {
	m.mode = mode
	m.submitting = false
	m.errText = ""
	m.infoText = ""
	m.focus = m.firstField()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m authModel) firstField() int {
	if m.mode == modeRegister {
		return fieldUsername
	}
	return fieldEmail
}

func (m authModel) fieldVisible(i int) bool {
	return i != fieldUsername || m.mode == modeRegister
}

func (m authModel) update(msg tea.Msg) (authModel, *view, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = apiDetail(msg.err)
			return m, nil, nil
		}
		if msg.mode == modeLogin {
			if msg.token != "" {
				// Store the token; the route guard performs the redirect on
				// the next cycle, not this success branch.
				if err := m.session.Login(msg.token); err != nil {
					m.errText = err.Error()
				}
			}
			return m, nil, nil
		}
		// Registration never auto-logs-in.
		m = m.reset(modeLogin)
		m.infoText = "Registration successful! Please log in."
		m.inputs[fieldPassword].SetValue("")
		return m, nil, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, nil, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			back := viewLanding
			return m, &back, nil
		case "ctrl+t":
			if m.mode == modeLogin {
				m = m.reset(modeRegister)
			} else {
				m = m.reset(modeLogin)
			}
			return m, nil, nil
		case "tab", "down":
			return m.cycleFocus(1), nil, nil
		case "shift+tab", "up":
			return m.cycleFocus(-1), nil, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, nil, cmd
}

func (m authModel) cycleFocus(dir int) authModel {
	m.inputs[m.focus].Blur()
	for {
		m.focus = (m.focus + dir + authFieldCount) % authFieldCount
		if m.fieldVisible(m.focus) {
			break
		}
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m authModel) submit() (authModel, *view, tea.Cmd) {
	// An already-authenticated session goes straight into the app without
	// emitting another request.
	if m.session.Authenticated() {
		app := viewApp
		return m, &app, nil
	}
	if m.submitting {
		return m, nil, nil
	}

	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" || (m.mode == modeRegister && username == "") {
		m.errText = "All fields are required."
		return m, nil, nil
	}

	m.submitting = true
	m.errText = ""
	m.infoText = ""
	mode := m.mode
	client := m.client

	req := func() tea.Msg {
		ctx := context.Background()
		if mode == modeLogin {
			token, err := client.Login(ctx, email, password)
			return authResultMsg{mode: mode, token: token, err: err}
		}
		err := client.Register(ctx, username, email, password)
		return authResultMsg{mode: mode, err: err}
	}
	return m, nil, tea.Batch(m.spin.Tick, req)
}

func (m authModel) view() string {
	heading := "Log in"
	if m.mode == modeRegister {
		heading = "Sign up"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("TickIt — " + heading))
	b.WriteString("\n\n")
	if m.mode == modeRegister {
		b.WriteString(labelStyle.Render("Username") + "\n")
		b.WriteString(m.inputs[fieldUsername].View() + "\n")
	}
	b.WriteString(labelStyle.Render("Email") + "\n")
	b.WriteString(m.inputs[fieldEmail].View() + "\n")
	b.WriteString(labelStyle.Render("Password") + "\n")
	b.WriteString(m.inputs[fieldPassword].View() + "\n")

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}
	if m.infoText != "" {
		b.WriteString("\n" + successStyle.Render(m.infoText) + "\n")
	}
	if m.submitting {
		verb := "Logging in"
		if m.mode == modeRegister {
			verb = "Signing up"
		}
		b.WriteString("\n" + m.spin.View() + mutedStyle.Render(verb+"...") + "\n")
	}

	other := "sign up"
	if m.mode == modeRegister {
		other = "log in"
	}
	b.WriteString("\n" + helpStyle.Render(fmt.Sprintf(
		"tab: next field   enter: submit   ctrl+t: %s   esc: back", other)))
	return panelString(b.String())
}

// apiDetail maps any error onto the most specific text the form can show.
func apiDetail(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}
