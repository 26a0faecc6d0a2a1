package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlsnlaurensius/tickit/internal/api"
)

func TestSubmitWhileAuthenticatedNavigatesWithoutRequest(t *testing.T) {
	sess, client := newTestDeps(t, true)
	m := newAuthModel(sess, client)
	m.inputs[fieldEmail].SetValue("a@b.co")
	m.inputs[fieldPassword].SetValue("pw")

	m, next, cmd := m.submit()
	if next == nil || *next != viewApp {
		t.Fatalf("next = %v, want the app view", next)
	}
	if cmd != nil {
		t.Fatal("no request command should be issued for a live session")
	}
	if m.submitting {
		t.Fatal("model must not enter the submitting state")
	}
}

func TestSubmitRequiresAllFields(t *testing.T) {
	sess, client := newTestDeps(t, false)
	m := newAuthModel(sess, client)
	m.inputs[fieldEmail].SetValue("a@b.co")

	m, next, cmd := m.submit()
	if next != nil || cmd != nil {
		t.Fatal("incomplete form must not submit")
	}
	if m.errText == "" {
		t.Fatal("expected a validation message")
	}
}

func TestLoginSuccessStoresTokenAndStaysPut(t *testing.T) {
	sess, client := newTestDeps(t, false)
	m := newAuthModel(sess, client)
	m.submitting = true

	m, next, _ := m.update(authResultMsg{mode: modeLogin, token: "tok-abc"})
	if next != nil {
		t.Fatal("the route guard owns the redirect, not the form")
	}
	if m.submitting {
		t.Fatal("submitting flag must clear")
	}
	if !sess.Authenticated() || sess.Token() != "tok-abc" {
		t.Fatalf("session token = %q, want tok-abc", sess.Token())
	}
}

func TestRegisterSuccessSwitchesToLogin(t *testing.T) {
	sess, client := newTestDeps(t, false)
	m := newAuthModel(sess, client).reset(modeRegister)
	m.inputs[fieldUsername].SetValue("nels")
	m.inputs[fieldEmail].SetValue("nels@b.co")
	m.inputs[fieldPassword].SetValue("secret")
	m.submitting = true

	m, next, _ := m.update(authResultMsg{mode: modeRegister})
	if next != nil {
		t.Fatal("registration must not navigate anywhere")
	}
	if m.mode != modeLogin {
		t.Fatal("registration success must land on the login form")
	}
	if sess.Authenticated() {
		t.Fatal("registration must not log the user in")
	}
	if !strings.Contains(m.infoText, "Please log in") {
		t.Fatalf("infoText = %q", m.infoText)
	}
	if m.inputs[fieldPassword].Value() != "" {
		t.Fatal("password must be cleared after registration")
	}
	if m.inputs[fieldEmail].Value() != "nels@b.co" {
		t.Fatal("email should carry over to the login form")
	}
}

func TestAuthErrorSurfacesDetails(t *testing.T) {
	sess, client := newTestDeps(t, false)
	m := newAuthModel(sess, client)
	m.submitting = true

	err := &api.Error{Message: "Login failed", Details: "Invalid credentials", Status: 401}
	m, _, _ = m.update(authResultMsg{mode: modeLogin, err: err})
	if m.errText != "Invalid credentials" {
		t.Fatalf("errText = %q, want the details field", m.errText)
	}
	if m.submitting {
		t.Fatal("submitting flag must clear on error")
	}
}

func TestModeSwitchClearsTransientText(t *testing.T) {
	sess, client := newTestDeps(t, false)
	m := newAuthModel(sess, client)
	m.errText = "old error"
	m.infoText = "old info"

	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != modeRegister {
		t.Fatalf("mode = %v, want register", m.mode)
	}
	if m.errText != "" || m.infoText != "" {
		t.Fatalf("errText=%q infoText=%q, want both cleared", m.errText, m.infoText)
	}
	if m.focus != fieldUsername {
		t.Fatalf("focus = %d, want the username field first in register mode", m.focus)
	}
}
