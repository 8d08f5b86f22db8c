package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileStore is the directory holding the flat JSON collections.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// InitFileStore makes sure dir exists on fsys.
func InitFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

// JSONFile is one collection stored as a JSON array. Every write rewrites
// the whole file. The mutex serializes writers in this process only; two
// processes sharing the file can still lose updates.
type JSONFile[T any] struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewJSONFile[T any](store *FileStore, name string) *JSONFile[T] {
	return &JSONFile[T]{
		fs:   store.fs,
		path: filepath.Join(store.dir, name),
	}
}

// Read returns every item. A missing file reads as an empty collection.
func (f *JSONFile[T]) Read() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Update runs fn on the current items and writes back what it returns.
// Nothing is written when fn fails.
func (f *JSONFile[T]) Update(fn func(items []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}

	return f.write(items)
}

func (f *JSONFile[T]) read() ([]T, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return items, nil
}

func (f *JSONFile[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
