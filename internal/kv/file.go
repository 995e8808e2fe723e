package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type fileData struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileStore persists every key in a single JSON file. Each write rewrites the
// whole file through a temp file + rename so readers never see a partial write.
type FileStore struct {
	path string
	data *fileData
}

// OpenFileStore loads the file at path, creating its directory if needed. A
// missing file starts empty and is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FileStore{
		path: path,
		data: &fileData{Version: 1, Entries: make(map[string]string)},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	if err := json.Unmarshal(raw, s.data); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if s.data.Entries == nil {
		s.data.Entries = make(map[string]string)
	}

	return s, nil
}

func (s *FileStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}

	return nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	v, ok := s.data.Entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *FileStore) Set(key string, value []byte) error {
	return s.SetAll(map[string][]byte{key: value})
}

func (s *FileStore) SetAll(values map[string][]byte) error {
	previous := make(map[string]*string, len(values))
	for k, v := range values {
		if old, ok := s.data.Entries[k]; ok {
			previous[k] = &old
		} else {
			previous[k] = nil
		}
		s.data.Entries[k] = string(v)
	}

	if err := s.save(); err != nil {
		// Roll the in-memory copy back so it keeps matching the file
		for k, old := range previous {
			if old == nil {
				delete(s.data.Entries, k)
			} else {
				s.data.Entries[k] = *old
			}
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(keys ...string) error {
	for _, k := range keys {
		delete(s.data.Entries, k)
	}
	return s.save()
}

func (s *FileStore) Close() error {
	return nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}
