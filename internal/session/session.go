// Package session owns the authentication token and cached user profile.
// The token survives restarts via a credentials file under ~/.tickit; the
// profile lives only in memory and is refetched on demand.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

const credFileName = "credentials.json"

// EnvToken overrides the credentials file when set.
const EnvToken = "TICKIT_TOKEN"

// credentials is the on-disk shape of a persisted login.
type credentials struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"` // "env" | "file"
	CreatedAt time.Time `json:"created_at"`
}

// Store holds the current session. API calls read the token per request;
// the only writers are Login/Logout (and the gateway's logout-on-401),
// so a RWMutex keeps writes visible to the next call.
type Store struct {
	mu      sync.RWMutex
	token   string
	source  string
	user    *model.Profile
	dir     string // credentials directory, defaults to ~/.tickit
	envOnly bool   // token came from the environment; nothing on disk to delete
}

// New returns an empty store persisting under dir. An empty dir means
// ~/.tickit.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) credPath() (string, error) {
	dir := s.dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home: %w", err)
		}
		dir = filepath.Join(home, ".tickit")
	}
	return filepath.Join(dir, credFileName), nil
}

// Load populates the store from the environment or the credentials file.
// A missing file is not an error: the user is simply not logged in.
func (s *Store) Load() error {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		s.mu.Lock()
		s.token = stripBearer(env)
		s.source = "env"
		s.envOnly = true
		s.mu.Unlock()
		return nil
	}

	p, err := s.credPath()
	if err != nil {
		return err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read credentials: %w", err)
	}
	var c credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}
	s.mu.Lock()
	s.token = stripBearer(c.Token)
	s.source = c.Source
	s.envOnly = false
	s.mu.Unlock()
	return nil
}

// Login stores the token in memory and persists it to the credentials file
// with owner-only permissions.
func (s *Store) Login(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}

	p, err := s.credPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(credentials{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.source = "file"
	s.envOnly = false
	s.mu.Unlock()
	return nil
}

// Logout clears the token and profile from memory and removes the
// credentials file. A token provided via the environment cannot be
// deleted from here; only the in-memory session is dropped.
func (s *Store) Logout() error {
	s.mu.Lock()
	envOnly := s.envOnly
	s.token = ""
	s.source = ""
	s.user = nil
	s.envOnly = false
	s.mu.Unlock()

	if envOnly {
		return nil
	}
	p, err := s.credPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Source reports where the token came from: "env", "file" or "".
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Authenticated reports whether a token is present. Validity is decided by
// the backend on the next request, never locally.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetProfile replaces the cached profile wholesale. Ignored when logged
// out so a late profile response cannot resurrect a torn-down session.
func (s *Store) SetProfile(p *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.user = p
}

// Profile returns the cached profile, or nil when none has been fetched.
func (s *Store) Profile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
