package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps objects as files under a base directory. Used for local
// development without S3. Keys may contain slashes; paths are confined to
// the base directory via os.Root.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem store rooted at baseDir.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	root, err := os.OpenRoot(s.baseDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	data, err := root.ReadFile(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

func (s *FSStore) Put(_ context.Context, key string, data []byte, _ string) error {
	root, err := os.OpenRoot(s.baseDir)
	if err != nil {
		return err
	}
	defer root.Close()

	if dir := filepath.Dir(key); dir != "." {
		if err := root.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return root.WriteFile(key, data, 0640)
}

func (s *FSStore) Delete(_ context.Context, key string) error {
	root, err := os.OpenRoot(s.baseDir)
	if err != nil {
		return err
	}
	defer root.Close()

	err = root.Remove(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}
