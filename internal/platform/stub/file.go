package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend implements platform.SettingsBackend as a flat JSON object of
// key path to raw value.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend creates a backend persisting to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: filepath.Clean(path)}
}

// Path returns the settings file path.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return "", false, err
	}
	raw, ok := values[key]
	return raw, ok, nil
}

func (b *FileBackend) Write(ctx context.Context, key, raw string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return err
	}
	values[key] = raw
	return b.save(values)
}

func (b *FileBackend) Reset(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return b.save(values)
}

// Snapshot returns the current raw values of keys; unset keys are absent.
func (b *FileBackend) Snapshot(keys []string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (b *FileBackend) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return values, nil
}

// save replaces the file through a rename so watchers never observe a
// partially written document.
func (b *FileBackend) save(values map[string]string) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
