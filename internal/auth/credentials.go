// Package auth keeps the backend session (CSRF token + session id) the
// submission endpoints need. It does not log in: the values are copied from a
// browser session.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/tripmap/internal/store/jsonstore"
)

const credFileName = "credentials.json"

const (
	EnvCSRFToken = "TRIPMAP_CSRF_TOKEN"
	EnvSessionID = "TRIPMAP_SESSION_ID"
)

type Session struct {
	CSRFToken string    `json:"csrf_token"`
	SessionID string    `json:"session_id"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Store reads and writes the session file under Dir.
type Store struct {
	Dir string
}

// DefaultDir is ~/.tripmap.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tripmap"), nil
}

func NewStore(dir string) *Store { return &Store{Dir: dir} }

func (s *Store) path() string { return filepath.Join(s.Dir, credFileName) }

// Get returns the current session, nil when none is configured.
func (s *Store) Get() (*Session, error) {
	// 1) env override
	csrf := strings.TrimSpace(os.Getenv(EnvCSRFToken))
	if csrf != "" {
		return &Session{
			CSRFToken: csrf,
			SessionID: strings.TrimSpace(os.Getenv(EnvSessionID)),
			Source:    "env",
		}, nil
	}

	// 2) file
	var sess Session
	found, err := jsonstore.Load(s.path(), &sess)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found {
		return nil, nil // not logged in
	}
	return &sess, nil
}

func (s *Store) Set(csrfToken, sessionID string) error {
	csrfToken = strings.TrimSpace(csrfToken)
	if csrfToken == "" {
		return fmt.Errorf("empty csrf token")
	}
	sess := Session{
		CSRFToken: csrfToken,
		SessionID: strings.TrimSpace(sessionID),
		Source:    "file",
		CreatedAt: time.Now(),
	}
	// owner-only, the session id is a bearer credential
	if err := jsonstore.Save(s.path(), sess, 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *Store) Delete() error {
	return jsonstore.Remove(s.path())
}
