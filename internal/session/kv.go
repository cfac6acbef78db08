package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is a string key-value store with single-slot overwrite semantics.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MemoryKV is an in-process KV, used by tests and when no session file is configured.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// FileKV keeps all slots in one JSON file. Every Set rewrites the file
// through a staged rename so a crash never leaves it half-written.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a KV backed by path. The file is created on first Set.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = value

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session.FileKV: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session.FileKV: create dir: %w", err)
	}
	stage := f.path + ".new"
	if err := os.WriteFile(stage, raw, 0o600); err != nil {
		return fmt.Errorf("session.FileKV: write: %w", err)
	}
	if err := os.Rename(stage, f.path); err != nil {
		return fmt.Errorf("session.FileKV: replace: %w", err)
	}
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session.FileKV: read: %w", err)
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("session.FileKV: decode %s: %w", f.path, err)
	}
	return data, nil
}
