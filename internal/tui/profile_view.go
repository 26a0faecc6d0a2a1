package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/model"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

type profileFormKind int

const (
	formUsername profileFormKind = iota
	formEmail
	formPassword
	profileFormCount
)

const (
	pfUsername = iota
	pfEmail
	pfCurrent
	pfNew
	pfConfirm
	profileFieldCount
)

type profileLoadedMsg struct {
	profile *model.Profile
	err     error
}

type accountUpdatedMsg struct {
	kind    profileFormKind
	profile *model.Profile
	err     error
}

// formState is per-form so one in-flight update never blocks another.
type formState struct {
	inFlight bool
	errText  string
	okText   string
}

// profileModel holds the three independent account-update forms.
type profileModel struct {
	session *session.Store
	client  *api.Client

	loading bool
	loadErr string

	inputs [profileFieldCount]textinput.Model
	focus  int
	forms  [profileFormCount]formState

	spin spinner.Model
}

func newProfileModel(sess *session.Store, client *api.Client) profileModel {
	m := profileModel{session: sess, client: client}

	mk := func(placeholder string, password bool) textinput.Model {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholder
		in.CharLimit = 128
		if password {
			in.EchoMode = textinput.EchoPassword
		}
		return in
	}
	m.inputs[pfUsername] = mk("Username", false)
	m.inputs[pfEmail] = mk("Email", false)
	m.inputs[pfCurrent] = mk("Current password", true)
	m.inputs[pfNew] = mk("New password", true)
	m.inputs[pfConfirm] = mk("Confirm new password", true)

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	return m
}

// enter uses the cached profile when present, otherwise fetches it.
func (m profileModel) enter() (profileModel, tea.Cmd) {
	m.focus = pfUsername
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[m.focus].Focus()
	for i := range m.forms {
		m.forms[i] = formState{}
	}

	if p := m.session.Profile(); p != nil {
		m.prefill(p)
		return m, nil
	}

	m.loading = true
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		p, err := client.Profile(context.Background())
		return profileLoadedMsg{profile: p, err: err}
	})
}

func (m *profileModel) prefill(p *model.Profile) {
	m.inputs[pfUsername].SetValue(p.Username)
	m.inputs[pfEmail].SetValue(p.Email)
}

func (m profileModel) formFor(field int) profileFormKind {
	switch field {
	case pfUsername:
		return formUsername
	case pfEmail:
		return formEmail
	}
	return formPassword
}

func (m profileModel) update(msg tea.Msg) (profileModel, *view, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = "Failed to fetch profile: " + apiDetail(msg.err)
			return m, nil, nil
		}
		m.session.SetProfile(msg.profile)
		m.prefill(msg.profile)
		return m, nil, nil

	case accountUpdatedMsg:
		st := &m.forms[msg.kind]
		st.inFlight = false
		if msg.err != nil {
			st.errText = apiDetail(msg.err)
			return m, nil, nil
		}
		switch msg.kind {
		case formUsername:
			st.okText = "Username updated successfully!"
		case formEmail:
			st.okText = "Email updated successfully!"
		case formPassword:
			st.okText = "Password updated successfully!"
			// The password never appears in the profile shape; just clear
			// the local fields.
			m.inputs[pfCurrent].SetValue("")
			m.inputs[pfNew].SetValue("")
			m.inputs[pfConfirm].SetValue("")
		}
		if msg.profile != nil {
			m.session.SetProfile(msg.profile)
			m.prefill(msg.profile)
		}
		return m, nil, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, nil, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			back := viewApp
			return m, &back, nil
		case "tab", "down":
			return m.cycleFocus(1), nil, nil
		case "shift+tab", "up":
			return m.cycleFocus(-1), nil, nil
		case "enter":
			return m.submit(m.formFor(m.focus))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, nil, cmd
}

func (m profileModel) cycleFocus(dir int) profileModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + profileFieldCount) % profileFieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m profileModel) submit(kind profileFormKind) (profileModel, *view, tea.Cmd) {
	st := &m.forms[kind]
	if st.inFlight {
		return m, nil, nil
	}
	st.errText = ""
	st.okText = ""

	var upd api.AccountUpdate
	switch kind {
	case formUsername:
		username := strings.TrimSpace(m.inputs[pfUsername].Value())
		if username == "" {
			st.errText = "Username cannot be empty."
			return m, nil, nil
		}
		upd.Username = &username

	case formEmail:
		email := strings.TrimSpace(m.inputs[pfEmail].Value())
		if email == "" {
			st.errText = "Email cannot be empty."
			return m, nil, nil
		}
		if !model.ValidEmail(email) {
			st.errText = "Invalid email format."
			return m, nil, nil
		}
		upd.Email = &email

	case formPassword:
		current := m.inputs[pfCurrent].Value()
		next := m.inputs[pfNew].Value()
		confirm := m.inputs[pfConfirm].Value()
		if current == "" || next == "" || confirm == "" {
			st.errText = "All password fields are required."
			return m, nil, nil
		}
		if next != confirm {
			st.errText = "New password and confirmation do not match."
			return m, nil, nil
		}
		upd.CurrentPassword = &current
		upd.Password = &next
	}

	st.inFlight = true
	client := m.client
	return m, nil, tea.Batch(m.spin.Tick, func() tea.Msg {
		p, err := client.UpdateAccount(context.Background(), upd)
		return accountUpdatedMsg{kind: kind, profile: p, err: err}
	})
}

func (m profileModel) formLine(kind profileFormKind) string {
	st := m.forms[kind]
	switch {
	case st.inFlight:
		return m.spin.View() + mutedStyle.Render("Updating...")
	case st.errText != "":
		return errorStyle.Render(st.errText)
	case st.okText != "":
		return successStyle.Render(st.okText)
	}
	return ""
}

func (m profileModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile") + "\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + mutedStyle.Render("Loading profile...") + "\n")
		return panelString(b.String())
	}
	if m.loadErr != "" {
		b.WriteString(errorStyle.Render(m.loadErr) + "\n")
		b.WriteString("\n" + helpStyle.Render("esc: back"))
		return panelString(b.String())
	}

	b.WriteString(labelStyle.Render("Username") + "\n" + m.inputs[pfUsername].View() + "\n")
	if line := m.formLine(formUsername); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("Email") + "\n" + m.inputs[pfEmail].View() + "\n")
	if line := m.formLine(formEmail); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Change password") + "\n")
	b.WriteString(m.inputs[pfCurrent].View() + "\n")
	b.WriteString(m.inputs[pfNew].View() + "\n")
	b.WriteString(m.inputs[pfConfirm].View() + "\n")
	if line := m.formLine(formPassword); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab: next field   enter: update that form   esc: back"))
	return panelString(b.String())
}
