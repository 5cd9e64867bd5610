// Package output writes rendered documents under the content root.
// Writes are atomic and skipped when the file already holds the same bytes,
// so re-running a sync leaves unchanged documents untouched.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Result reports what a write did.
type Result struct {
	Path    string
	Changed bool
}

// Writer writes rendered output to disk.
type Writer struct {
	Root string
}

// New creates a Writer for root, creating the directory if needed.
func New(root string) (*Writer, error) {
	if root == "" {
		return nil, errors.New("output root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{Root: root}, nil
}

// EnsureDir creates dir and its parents.
func (w *Writer) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Write stores data at path. An existing file with identical content is
// left alone and reported as unchanged.
func (w *Writer) Write(path string, data []byte) (Result, error) {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, data) {
		return Result{Path: path}, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{Path: path}, fmt.Errorf("reading %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := w.EnsureDir(dir); err != nil {
		return Result{Path: path}, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Result{Path: path}, fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Result{Path: path}, fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Result{Path: path}, fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return Result{Path: path}, fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return Result{Path: path}, fmt.Errorf("writing file %s: %w", path, err)
	}
	return Result{Path: path, Changed: true}, nil
}
