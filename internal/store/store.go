// Package store persists the client session across process lifetimes.
//
// The on-disk format is a single JSON file holding the bearer token under
// "access_token" and the cached profile under "user_data". A missing file
// reads as an empty session.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type state struct {
	AccessToken string          `json:"access_token,omitempty"`
	UserData    json.RawMessage `json:"user_data,omitempty"`
}

// FileStore is a file-backed session store. The file is written with 0600
// permissions since it holds a bearer token.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a session store at the given path. Parent directories
// are created as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return s.path
}

// Token returns the stored bearer token, or "" if none is stored.
func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.AccessToken, nil
}

// SetToken stores the bearer token. An empty token clears it.
func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.AccessToken = token
	return s.save(st)
}

// UserData returns the cached profile as raw JSON, or nil if none is cached.
func (s *FileStore) UserData() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(st.UserData) == 0 {
		return nil, nil
	}
	return st.UserData, nil
}

// SetUserData caches the profile. Nil or empty data clears it.
func (s *FileStore) SetUserData(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.UserData = data
	return s.save(st)
}

// Reset clears the whole session.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(state{})
}

func (s *FileStore) load() (state, error) {
	var st state
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("failed to decode session file: %w", err)
	}
	return st, nil
}

// save writes through a temp file and renames, so a crash mid-write never
// leaves a truncated session behind.
func (s *FileStore) save(st state) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
