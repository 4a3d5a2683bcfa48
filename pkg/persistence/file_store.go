package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store on top of a JSON file.
// The file is re-read on every Get so writes from other processes are seen
// immediately; concurrent writers race and the last rename wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path.
// The file is created on first Register.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, key string) (any, error) {
	props, err := s.load()
	if err != nil {
		return nil, err
	}
	return props[key], nil
}

func (s *FileStore) Register(_ context.Context, props Properties) error {
	if _, ok := props[""]; ok {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	for k, v := range props {
		current[k] = v
	}
	return s.save(current)
}

func (s *FileStore) Unregister(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := current[key]; !ok {
		return nil
	}
	delete(current, key)
	return s.save(current)
}

func (s *FileStore) load() (Properties, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(Properties), nil
	}
	if err != nil {
		return nil, errors.Join(ErrStorageRead, err)
	}
	if len(data) == 0 {
		return make(Properties), nil
	}

	props := make(Properties)
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, errors.Join(ErrStorageRead, err)
	}
	return props, nil
}

// save writes through a temp file and rename so readers never see a partial file.
func (s *FileStore) save(props Properties) error {
	data, err := json.Marshal(props)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Join(ErrStorageWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrStorageWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrStorageWrite, err)
	}
	return nil
}
