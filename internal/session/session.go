package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ciciliostudio/hub/internal/api"
)

// tokenLifetime mirrors the backend's access token expiry.
const tokenLifetime = 24 * time.Hour

// ErrExpired reports a stored session whose token has lapsed. The
// caller should prompt for a fresh login.
var ErrExpired = errors.New("session expired")

// Session is the persisted login state for one signed-in user.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	BaseURL   string    `json:"base_url"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager persists the login session under the config directory so the
// user stays signed in between runs.
type Manager struct {
	dir string
}

// NewManager creates a manager storing state under dir (the .hub
// directory).
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Start records a fresh login.
func (m *Manager) Start(user *api.User, token, baseURL string) (*Session, error) {
	now := time.Now()
	s := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Token:     token,
		BaseURL:   baseURL,
		StartedAt: now,
		ExpiresAt: now.Add(tokenLifetime),
	}
	if err := m.save(s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Load returns the stored session. A lapsed session comes back with
// ErrExpired alongside the stale record so callers can show who was
// signed in.
func (m *Manager) Load() (*Session, error) {
	data, err := os.ReadFile(m.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("not signed in")
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(time.Now()) {
		return &s, ErrExpired
	}

	return &s, nil
}

// Active reports whether a valid session exists.
func (m *Manager) Active() bool {
	_, err := m.Load()
	return err == nil
}

// End removes the stored session.
func (m *Manager) End() error {
	err := os.Remove(m.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (m *Manager) save(s *Session) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// The file holds a bearer token; keep it private to the user.
	return os.WriteFile(m.path(), data, 0600)
}

func (m *Manager) path() string {
	return filepath.Join(m.dir, "session.json")
}
