package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"jyotikabilling/models"
)

type fileData struct {
	LastSerial int                   `json:"lastSerial"`
	Bills      []models.Bill         `json:"bills"`
	Users      []models.AppUser      `json:"users"`
	Clinic     *models.ClinicProfile `json:"clinic,omitempty"`
}

// FileStore keeps every record in one JSON document on disk. It backs the
// file repositories and suits a single clinic machine without a database.
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileData
}

func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, b := range s.data.Bills {
		if b.SerialNumber > s.data.LastSerial {
			s.data.LastSerial = b.SerialNumber
		}
	}
	return s, nil
}

// update applies fn and writes the result. On any error the in-memory
// state is rolled back.
func (s *FileStore) update(fn func(d *fileData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	rollback := func() {
		s.data = fileData{}
		_ = json.Unmarshal(prev, &s.data)
	}

	if err := fn(&s.data); err != nil {
		rollback()
		return err
	}
	if err := s.persist(); err != nil {
		rollback()
		return err
	}
	return nil
}

func (s *FileStore) view(fn func(d *fileData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
