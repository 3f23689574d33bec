// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const fileSuffix = ".json.zst"

// fileEnvelope is the on-disk layout of one cache entry.
type fileEnvelope struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	Payload   []byte    `json:"payload"`
}

// FileStore keeps one zstd-compressed JSON file per key in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file cache: could not create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:16])+fileSuffix)
}

// Get reads and decompresses the entry for key. Unreadable or corrupt files
// are treated as misses.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	file, err := os.Open(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("file cache: could not open entry: %w", err)
	}
	defer func() { _ = file.Close() }()

	zr, err := zstd.NewReader(file)
	if err != nil {
		return nil, false, nil
	}
	defer zr.Close()

	var env fileEnvelope
	if err := json.NewDecoder(zr).Decode(&env); err != nil {
		return nil, false, nil
	}
	if env.Key != key || !nowFunc().Before(env.ExpiresAt) {
		return nil, false, nil
	}
	return env.Payload, true, nil
}

// Set writes the entry atomically through a temp file and rename.
func (f *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	tmp, err := os.CreateTemp(f.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("file cache: could not create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file cache: could not create zstd writer: %w", err)
	}
	env := fileEnvelope{Key: key, ExpiresAt: nowFunc().Add(ttl), Payload: value}
	if err := json.NewEncoder(zw).Encode(&env); err != nil {
		_ = zw.Close()
		_ = tmp.Close()
		return fmt.Errorf("file cache: could not encode entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file cache: could not flush zstd stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

// Clear removes every cache file in the directory and leaves other files.
func (f *FileStore) Clear(context.Context) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FileStore) Close() error { return nil }
