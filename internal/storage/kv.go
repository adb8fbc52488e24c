package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// KV is a byte-oriented key-value store.
type KV interface {
	// Load returns the value of key; ok is false when the key is absent.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// FileKV stores each key as a file in a directory.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

func (kv *FileKV) Dir() string {
	return kv.dir
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, url.PathEscape(key)+".json")
}

func (kv *FileKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Save writes data to a temp file and renames it over the key's file so a
// crash never leaves a truncated value behind.
func (kv *FileKV) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(kv.dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(kv.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, kv.path(key)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
