// Package filestore persists uploaded file artifacts on the local file
// system. The database row owns the item; the artifact is secondary and its
// removal is best-effort.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FS stores artifacts under a single root directory.
type FS struct {
	root string
}

// NewFS creates a filestore rooted at the given directory, creating it if
// needed.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("filestore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Save writes data under a fresh uuid-prefixed name derived from the original
// filename and returns the stored name.
func (f *FS) Save(originalName string, data []byte) (string, error) {
	base := filepath.Base(originalName)
	if base == "." || base == string(os.PathSeparator) {
		base = "upload"
	}
	name := uuid.New().String() + "-" + base

	path, err := f.safePath(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("filestore: write: %w", err)
	}
	return name, nil
}

// Remove deletes a stored artifact by name. Removing a missing artifact is
// not an error.
func (f *FS) Remove(name string) error {
	path, err := f.safePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: remove: %w", err)
	}
	return nil
}

// safePath resolves a name against the root and rejects any result that
// escapes it.
func (f *FS) safePath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("filestore: absolute paths not allowed: %s", name)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("filestore: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("filestore: path escapes root: %s", name)
	}
	return abs, nil
}
