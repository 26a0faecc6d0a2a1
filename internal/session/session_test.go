package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

func TestLoginPersistsAndLoads(t *testing.T) {
	t.Setenv(EnvToken, "")
	dir := t.TempDir()

	s := New(dir)
	if s.Authenticated() {
		t.Fatal("fresh store should not be authenticated")
	}
	if err := s.Login("abc123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := s.Token(); got != "abc123" {
		t.Fatalf("token = %q, want abc123", got)
	}

	// A second store pointing at the same dir picks the token up.
	s2 := New(dir)
	if err := s2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s2.Token(); got != "abc123" {
		t.Fatalf("loaded token = %q, want abc123", got)
	}
	if got := s2.Source(); got != "file" {
		t.Fatalf("source = %q, want file", got)
	}
}

func TestLoginStripsBearerPrefix(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Login("Bearer abc123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := s.Token(); got != "abc123" {
		t.Fatalf("token = %q, want abc123", got)
	}
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Login("   "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Setenv(EnvToken, "")
	dir := t.TempDir()

	s := New(dir)
	if err := s.Login("abc123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.SetProfile(&model.Profile{ID: 1, Username: "nls", Email: "a@b.com"})

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("still authenticated after logout")
	}
	if s.Profile() != nil {
		t.Fatal("profile survived logout")
	}
	if _, err := os.Stat(filepath.Join(dir, credFileName)); !os.IsNotExist(err) {
		t.Fatalf("credentials file survived logout: %v", err)
	}

	// Logging out twice is fine.
	if err := s.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestSetProfileIgnoredWhenLoggedOut(t *testing.T) {
	s := New(t.TempDir())
	s.SetProfile(&model.Profile{ID: 1, Username: "nls"})
	if s.Profile() != nil {
		t.Fatal("profile cached without a token")
	}
}

func TestLoadPrefersEnvToken(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Login("from-file"); err != nil {
		t.Fatalf("login: %v", err)
	}

	t.Setenv(EnvToken, "Bearer from-env")
	s2 := New(dir)
	if err := s2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s2.Token(); got != "from-env" {
		t.Fatalf("token = %q, want from-env", got)
	}
	if got := s2.Source(); got != "env" {
		t.Fatalf("source = %q, want env", got)
	}

	// Logout of an env session drops memory but cannot delete anything.
	if err := s2.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, credFileName)); err != nil {
		t.Fatalf("env logout must not delete the credentials file: %v", err)
	}
}

func TestLoadMissingFileMeansLoggedOut(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := New(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("authenticated with no credentials")
	}
}
