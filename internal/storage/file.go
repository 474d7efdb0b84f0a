package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores each key as <directory>/<key>.json.
type FileKV struct {
	directory string
}

// NewFileKV creates the directory if needed.
func NewFileKV(directory string) (*FileKV, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	return &FileKV{directory: directory}, nil
}

// Path returns the file backing key.
func (f *FileKV) Path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.directory, name+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	contents, err := os.ReadFile(f.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", f.Path(key), err)
	}
	return contents, nil
}

// Set writes through a temporary file and renames it so readers never see a partial document.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	path := f.Path(key)
	tmp, err := os.CreateTemp(f.directory, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", f.directory, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}

var _ KV = (*FileKV)(nil)
