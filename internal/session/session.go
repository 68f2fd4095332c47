// Package session owns the bearer token the client presents to the API.
// The fetch layer only ever sees the read-only TokenSource capability;
// writing and clearing stay with the auth flow.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type TokenSource interface {
	// Token returns the current bearer token, "" when logged out.
	Token() string
}

// Store is a file-backed token store. Reads are cached; Set and Clear
// write through to disk so a restart keeps the session.
type Store struct {
	mu     sync.Mutex
	path   string
	cached string
	loaded bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the token next to the client config.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "vassist-token"
	}
	return filepath.Join(base, "vassist", "token")
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.cached
	}
	s.loaded = true
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.cached = ""
		return ""
	}
	s.cached = strings.TrimSpace(string(raw))
	return s.cached
}

func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token = strings.TrimSpace(token)
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.cached = token
	s.loaded = true
	return nil
}

// Clear drops the session, both cache and file. Called on 401.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = ""
	s.loaded = true
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Static is a fixed-token source for tests and one-shot commands.
type Static string

func (s Static) Token() string { return string(s) }
