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

package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fbdialect/internal/storage"
)

// MockBackend is an in-memory storage.Backend that records calls.
type MockBackend struct {
	mu sync.RWMutex

	objects map[string][]byte
	info    map[string]storage.ObjectInfo

	calls map[string]int

	// errs holds a per-method error; failures counts down before it clears
	errs     map[string]error
	failures map[string]int

	clock  func() time.Time
	closed bool
}

// NewMockBackend returns an empty mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		objects:  map[string][]byte{},
		info:     map[string]storage.ObjectInfo{},
		calls:    map[string]int{},
		errs:     map[string]error{},
		failures: map[string]int{},
		clock:    time.Now,
	}
}

// SetError makes every call to method fail with err; nil clears it.
func (m *MockBackend) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		delete(m.failures, method)
		return
	}
	m.errs[method] = err
	m.failures[method] = -1
}

// FailTimes makes the next n calls to method fail with err.
func (m *MockBackend) FailTimes(method string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[method] = err
	m.failures[method] = n
}

// SetClock replaces the time source used for LastModified.
func (m *MockBackend) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// CallCount reports how many times method was called.
func (m *MockBackend) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// Object returns a copy of the bytes stored at path.
func (m *MockBackend) Object(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Keys returns the stored paths in order.
func (m *MockBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsClosed reports whether Close was called.
func (m *MockBackend) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// record counts the call and returns the injected error, if any. The
// caller holds the lock.
func (m *MockBackend) record(method string) error {
	m.calls[method]++
	err, ok := m.errs[method]
	if !ok {
		return nil
	}
	switch n := m.failures[method]; {
	case n < 0:
		return err
	case n == 0:
		delete(m.errs, method)
		delete(m.failures, method)
		return nil
	default:
		m.failures[method] = n - 1
		return err
	}
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Write(ctx context.Context, path string, reader io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Write"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[path] = data
	m.info[path] = storage.ObjectInfo{Path: path, Size: int64(len(data)), LastModified: m.clock().Unix()}
	return nil
}

func (m *MockBackend) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Read"); err != nil {
		return nil, err
	}
	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}

func (m *MockBackend) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Delete"); err != nil {
		return err
	}
	delete(m.objects, path)
	delete(m.info, path)
	return nil
}

func (m *MockBackend) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Exists"); err != nil {
		return false, err
	}
	_, ok := m.objects[path]
	return ok, nil
}

func (m *MockBackend) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("List"); err != nil {
		return nil, err
	}
	out := []storage.ObjectInfo{}
	for path, info := range m.info {
		if strings.HasPrefix(path, prefix) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MockBackend) Location(path string) string {
	return "mock://" + path
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.record("Close")
}

var _ storage.Backend = (*MockBackend)(nil)
