package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/readmedraft/readmed/internal/document"
)

const (
	draftFile    = "readme-draft.json"
	settingsFile = "store.json"
)

// FileBackend stores the draft and settings as JSON files in a data
// directory.
type FileBackend struct {
	mu  sync.Mutex
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) SaveDraft(_ context.Context, draft document.Draft) error {
	return b.write(draftFile, draft)
}

func (b *FileBackend) LoadDraft(_ context.Context) (*document.Draft, error) {
	var draft document.Draft
	ok, err := b.read(draftFile, &draft)
	if err != nil || !ok {
		return nil, err
	}
	return &draft, nil
}

func (b *FileBackend) ClearDraft(_ context.Context) error {
	return b.remove(draftFile)
}

func (b *FileBackend) SaveSettings(_ context.Context, s Settings) error {
	return b.write(settingsFile, s)
}

func (b *FileBackend) LoadSettings(_ context.Context) (Settings, error) {
	var s Settings
	ok, err := b.read(settingsFile, &s)
	if err != nil || !ok {
		return nil, err
	}
	return s, nil
}

func (b *FileBackend) ClearSettings(_ context.Context) error {
	return b.remove(settingsFile)
}

func (b *FileBackend) write(name string, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(b.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) read(name string, v any) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (b *FileBackend) remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := os.Remove(filepath.Join(b.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
