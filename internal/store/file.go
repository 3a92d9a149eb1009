package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps the document in a single JSON file. There is no cross-process
// locking: the last writer wins.
type File struct {
	path string
}

// NewFile returns a store writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Location() string {
	return f.path
}

// Load reads the document. A missing file is not an error.
func (f *File) Load() (*Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read favorites file: %w", err)
	}
	return Decode(data)
}

// Save writes the document through a temporary file and a rename so readers
// never observe a half-written file.
func (f *File) Save(doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write favorites file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace favorites file: %w", err)
	}
	return nil
}
