package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"jyotikabilling/models"
)

// SessionKey is the fixed name the logged-in user is stored under.
const SessionKey = "user"

type TokenStore interface {
	Load() (*models.Session, error)
	Save(sess *models.Session) error
	Clear() error
}

// FileTokenStore persists the session in a small JSON file.
type FileTokenStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (s *FileTokenStore) read() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileTokenStore) write(entries map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0600)
}

// Load returns nil, nil when nobody is logged in.
func (s *FileTokenStore) Load() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := entries[SessionKey]
	if !ok {
		return nil, nil
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *FileTokenStore) Save(sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	entries[SessionKey] = raw
	return s.write(entries)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[SessionKey]; !ok {
		return nil
	}
	delete(entries, SessionKey)
	return s.write(entries)
}

// MemoryTokenStore keeps the session in memory only.
type MemoryTokenStore struct {
	mu   sync.Mutex
	sess *models.Session
}

func (m *MemoryTokenStore) Load() (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, nil
	}
	s := *m.sess
	return &s, nil
}

func (m *MemoryTokenStore) Save(sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *sess
	m.sess = &s
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}
