// Package session persists the client's authentication state and local
// settings in a single JSON file. The store serializes access and writes
// atomically (temp file + rename), so a crash never leaves a torn file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted state. Settings is a free-form bag for client
// preferences; the server never sees it.
type Session struct {
	Token    string            `json:"token,omitempty"`
	UserID   string            `json:"user_id,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

type Store struct {
	path string

	mu      sync.Mutex
	current Session
}

// NewStore loads the session from path, treating a missing file as an empty
// session.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return s, nil
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.current
	sess.Settings = copySettings(s.current.Settings)
	return sess
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Update applies fn to the session under the lock and persists the result.
// Last writer wins.
func (s *Store) Update(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.current)
	return s.flush()
}

// SetAuth stores a fresh token and its user binding.
func (s *Store) SetAuth(token, userID, phone string) error {
	return s.Update(func(sess *Session) {
		sess.Token = token
		sess.UserID = userID
		if phone != "" {
			sess.Phone = phone
		}
	})
}

// Clear wipes the authentication state but keeps local settings. Logout is
// purely local, the server keeps no session state beyond the token itself.
func (s *Store) Clear() error {
	return s.Update(func(sess *Session) {
		sess.Token = ""
		sess.UserID = ""
		sess.Phone = ""
	})
}

func (s *Store) SetSetting(key, value string) error {
	return s.Update(func(sess *Session) {
		if sess.Settings == nil {
			sess.Settings = map[string]string{}
		}
		sess.Settings[key] = value
	})
}

func (s *Store) Setting(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Settings[key]
}

// flush writes the session atomically. Callers must hold s.mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

func copySettings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
