/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores objects as files below a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a filesystem backend rooted at cfg.Dir
func NewFileBackend(cfg FileConfig) (*FileBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("file backend directory is required")
	}
	return &FileBackend{dir: filepath.Clean(cfg.Dir)}, nil
}

func (b *FileBackend) Name() string { return BackendFile }

func (b *FileBackend) fullPath(p string) string {
	return filepath.Join(b.dir, filepath.FromSlash(p))
}

// Write writes data through a temporary file that is renamed into place.
func (b *FileBackend) Write(ctx context.Context, p string, reader io.Reader) error {
	fullPath := b.fullPath(p)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create file in %s: %w", dir, err)
	}
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write data to %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", fullPath, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move file into place at %s: %w", fullPath, err)
	}
	return nil
}

// Read opens the file at the specified path
func (b *FileBackend) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	file, err := os.Open(b.fullPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", p, err)
	}
	return file, nil
}

// Delete deletes the file at the specified path
func (b *FileBackend) Delete(ctx context.Context, p string) error {
	if err := os.Remove(b.fullPath(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", p, err)
	}
	return nil
}

// Exists checks if a file exists at the specified path
func (b *FileBackend) Exists(ctx context.Context, p string) (bool, error) {
	_, err := os.Stat(b.fullPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", p, err)
	}
	return true, nil
}

// List walks the directory and returns files whose relative path starts
// with prefix. Temporary files are skipped.
func (b *FileBackend) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	err := filepath.WalkDir(b.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".snapshot-") {
			return nil
		}
		rel, err := filepath.Rel(b.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Path:         rel,
			Size:         info.Size(),
			LastModified: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ObjectInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return objects, nil
}

func (b *FileBackend) Location(p string) string {
	return b.fullPath(p)
}

// Close is a no-op for the filesystem backend
func (b *FileBackend) Close() error {
	return nil
}
