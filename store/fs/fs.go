// Package fs implements the file-backed blob store: one <key>.cache file per
// blob plus a manifest.json, all inside a single cache directory. Every write
// goes through a temp file and an atomic rename so readers never observe a
// half-written file.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	blobExt      = ".cache"
	manifestName = "manifest.json"
	dirPerm      = 0o755
	filePerm     = 0o644
)

type Store struct {
	dir string
}

// New creates (if needed) the cache directory and returns a store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("fs: cache directory is required")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.blobPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) (bool, error) {
	if err := writeAtomic(s.blobPath(key), value); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	err := os.Remove(s.blobPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Keys lists the stored blob keys by scanning the cache directory for
// *.cache files. Temp files and the manifest are not keys.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, blobExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, blobExt))
	}
	return keys, nil
}

func (s *Store) LoadManifest(_ context.Context) ([]byte, bool, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) SaveManifest(_ context.Context, raw []byte) error {
	return writeAtomic(filepath.Join(s.dir, manifestName), raw)
}

// Wipe deletes and recreates the cache directory.
func (s *Store) Wipe(_ context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.MkdirAll(s.dir, dirPerm)
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Close(_ context.Context) error { return nil }

func (s *Store) blobPath(key string) string {
	return filepath.Join(s.dir, key+blobExt)
}

// writeAtomic commits via write-temp-then-rename. The unique suffix keeps
// concurrent writers of the same path from clobbering each other's temp file;
// the rename makes the last completed write win as a whole.
func writeAtomic(path string, b []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, b, filePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
