package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/assistant-app/console/internal/model/account"
	"github.com/assistant-app/console/internal/observability"
)

// Persisted keys, matching the web client's local storage layout.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
	KeyTheme     = "theme"
)

// Store is a small file-backed key-value store standing in for browser local
// storage. Values are stored as JSON; writes are last-write-wins.
type Store struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open loads the store at path, starting empty when the file is missing or
// unreadable.
func Open(path string) *Store {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt store reads as empty rather than failing the caller.
		s.data = make(map[string]json.RawMessage)
	}
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Set stores value under key.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.persist()
}

// Get decodes the value stored under key into out. A missing key or a
// malformed stored value reads as absent.
func (s *Store) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		observability.WithFields("key", key).Warn("discarding malformed stored value", "error", err)
		return false
	}
	return true
}

// GetString returns the string stored under key.
func (s *Store) GetString(key string) (string, bool) {
	var value string
	if !s.Get(key, &value) {
		return "", false
	}
	return value, true
}

// Remove deletes key from the store.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persist()
}

// SaveSession persists the auth token and user record together.
func (s *Store) SaveSession(token string, user account.UserRecord) error {
	tokenRaw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	userRaw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[KeyAuthToken] = tokenRaw
	s.data[KeyUser] = userRaw
	return s.persist()
}

// ClearSession removes both session keys in one write.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, KeyAuthToken)
	delete(s.data, KeyUser)
	return s.persist()
}

// LoadSession restores the persisted session. A missing token or a malformed
// user record reads as no session; no expiry check happens locally.
func (s *Store) LoadSession() account.Session {
	token, ok := s.GetString(KeyAuthToken)
	if !ok || token == "" {
		return account.Session{}
	}

	var user account.UserRecord
	if !s.Get(KeyUser, &user) {
		return account.Session{}
	}

	return account.Session{User: &user, Token: token}
}
