package kv

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var _ types.KV = (*File)(nil)

// fileExt is appended to the escaped key to form the file name.
const fileExt = ".json"

// File stores each key as its own file in a directory. Writes go through a
// temp file that is synced and renamed over the target, so a crash leaves
// either the old value or the new one.
type File struct {
	dir    string
	closed bool
}

// OpenFile creates dir if needed and returns a store rooted there.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// path maps key to a file name that is safe on every platform.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

func (f *File) Get(key string) ([]byte, error) {
	if f.closed {
		return nil, types.ErrStoreClosed
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, types.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

func (f *File) Set(key string, value []byte) error {
	if f.closed {
		return types.ErrStoreClosed
	}
	return writeAtomic(f.path(key), value)
}

func (f *File) Delete(key string) error {
	if f.closed {
		return types.ErrStoreClosed
	}
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error {
	f.closed = true
	return nil
}

// writeAtomic writes data to path using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tally-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
