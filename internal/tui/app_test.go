package tui

import (
	"testing"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

func newTestDeps(t *testing.T, loggedIn bool) (*session.Store, *api.Client) {
	t.Helper()
	t.Setenv(session.EnvToken, "")
	sess := session.New(t.TempDir())
	if loggedIn {
		if err := sess.Login("token"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	// Points at a closed port; tests never execute the fetch commands.
	client := api.New("http://127.0.0.1:1", sess, nil, 0)
	return sess, client
}

func TestGuardRedirectsAnonymousFromProtectedViews(t *testing.T) {
	sess, client := newTestDeps(t, false)
	a := NewApp(sess, client, nil)

	if a.view != viewLanding {
		t.Fatalf("initial view = %v, want landing", a.view)
	}
	for _, v := range []view{viewApp, viewProfile} {
		if got := a.guard(v); got != viewLogin {
			t.Errorf("guard(%v) = %v, want login", v, got)
		}
	}
}

func TestGuardForwardsAuthenticatedFromPublicViews(t *testing.T) {
	sess, client := newTestDeps(t, true)
	a := NewApp(sess, client, nil)

	if a.view != viewApp {
		t.Fatalf("initial view = %v, want app for a persisted token", a.view)
	}
	for _, v := range []view{viewLanding, viewLogin, viewRegister} {
		if got := a.guard(v); got != viewApp {
			t.Errorf("guard(%v) = %v, want app", v, got)
		}
	}
	if got := a.guard(viewProfile); got != viewProfile {
		t.Errorf("guard(profile) = %v, want profile", got)
	}
}

func TestGuardReactsToSessionChanges(t *testing.T) {
	sess, client := newTestDeps(t, true)
	a := NewApp(sess, client, nil)

	// A forced logout (e.g. the gateway hit a 401) flips the guard result
	// for the current view on the very next evaluation.
	if err := sess.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := a.guard(a.view); got != viewLogin {
		t.Fatalf("guard after logout = %v, want login", got)
	}
}

func TestNavigateRunsThroughGuard(t *testing.T) {
	sess, client := newTestDeps(t, false)
	a := NewApp(sess, client, nil)

	a, _ = a.navigate(viewProfile)
	if a.view != viewLogin {
		t.Fatalf("view = %v, want login (protected view while anonymous)", a.view)
	}

	if err := sess.Login("token"); err != nil {
		t.Fatalf("login: %v", err)
	}
	a, _ = a.navigate(viewRegister)
	if a.view != viewApp {
		t.Fatalf("view = %v, want app (public-only view while authenticated)", a.view)
	}
}
