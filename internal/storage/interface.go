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
	"io"
)

// ErrNotFound is returned by Read when no object exists at the path.
var ErrNotFound = errors.New("object not found")

// Backend stores snapshot objects under slash-separated keys.
type Backend interface {
	// Name identifies the backend kind, e.g. "s3".
	Name() string

	// Write stores data at the specified path, replacing any previous object
	Write(ctx context.Context, path string, reader io.Reader) error

	// Read opens the object at the specified path
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists at the specified path
	Exists(ctx context.Context, path string) (bool, error)

	// List lists objects whose path starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Location renders a human readable URL for path
	Location(path string) string

	// Close releases resources held by the backend
	Close() error
}

// ObjectInfo contains information about a stored object
type ObjectInfo struct {
	// Path is relative to the backend prefix
	Path string `json:"path"`

	// Size is the size in bytes
	Size int64 `json:"size"`

	// LastModified is the last modification time as Unix timestamp
	LastModified int64 `json:"lastModified"`
}
