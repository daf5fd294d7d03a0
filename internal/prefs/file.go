package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// FileStore keeps all keys in one TOML document on disk
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the TOML file at path.
// The file is created lazily on the first Put.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("prefs file path is empty")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *FileStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read prefs file: %w", err)
	}

	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse prefs file: %w", err)
	}
	return values, nil
}

// write replaces the file atomically via a temp file + rename
func (s *FileStore) write(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, s.path)
}
