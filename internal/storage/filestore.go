package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore persists opaque blobs under a single directory. Names are
// supplied by the caller and must already be safe (uuid- or id-derived);
// anything containing a path separator is rejected.
type FileStore struct {
	root string
}

// NewFileStore creates the directory when missing.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid stored file name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

// Save writes the full contents of r to the named file, replacing any
// previous version.
func (s *FileStore) Save(name string, r io.Reader) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Open returns a reader over the named file. The caller closes it.
func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Exists reports whether the named file is present.
func (s *FileStore) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Remove deletes the named file. Missing files are not an error.
func (s *FileStore) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
