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
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/util"
)

// ExportOptions selects how snapshots are encoded and stored.
type ExportOptions struct {
	Format      string `mapstructure:"format"`
	Compression string `mapstructure:"compression"`
	Level       int    `mapstructure:"level"`
	// EncryptionKey is a hex encoded AES-256 key; empty disables encryption
	EncryptionKey string `mapstructure:"encryptionKey"`
	Prefix        string `mapstructure:"prefix"`
}

// ExportResult describes a stored snapshot.
type ExportResult struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Location    string `json:"location"`
	Backend     string `json:"backend"`
	Format      string `json:"format"`
	Compression string `json:"compression"`
	Encrypted   bool   `json:"encrypted"`
	Size        int64  `json:"size"`
}

// Exporter writes schema snapshots to a backend.
type Exporter struct {
	backend    Backend
	codec      Codec
	compressor Compressor
	encryptor  *Encryptor
	prefix     string
	retry      util.RetryConfig
	log        logr.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExporterLogger sets the logger.
func WithExporterLogger(log logr.Logger) ExporterOption {
	return func(e *Exporter) { e.log = log.WithName("snapshot-exporter") }
}

// WithUploadRetry overrides the upload retry policy.
func WithUploadRetry(cfg util.RetryConfig) ExporterOption {
	return func(e *Exporter) { e.retry = cfg }
}

// NewExporter validates opts and builds an exporter for backend.
func NewExporter(backend Backend, opts ExportOptions, options ...ExporterOption) (*Exporter, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend is required")
	}
	codec, err := NewCodec(opts.Format)
	if err != nil {
		return nil, err
	}
	compressor, err := NewCompressor(opts.Compression, opts.Level)
	if err != nil {
		return nil, err
	}
	e := &Exporter{
		backend:    backend,
		codec:      codec,
		compressor: compressor,
		prefix:     strings.Trim(opts.Prefix, "/"),
		retry:      util.UploadRetryConfig(),
		log:        logr.Discard(),
	}
	if opts.EncryptionKey != "" {
		if e.encryptor, err = NewEncryptor(opts.EncryptionKey); err != nil {
			return nil, err
		}
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// Extension is the full suffix of objects written by the exporter.
func (e *Exporter) Extension() string {
	ext := e.codec.Extension() + e.compressor.Extension()
	if e.encryptor != nil {
		ext += EncryptedExtension
	}
	return ext
}

// Key returns <prefix>/<database>/<id><ext>.
func (e *Exporter) Key(database, id string) string {
	return joinKey(e.prefix, path.Join(DatabaseKey(database), id+e.Extension()))
}

// Export encodes snap and uploads it. An empty snapshot ID is replaced by
// a fresh UUID.
func (e *Exporter) Export(ctx context.Context, snap *types.SchemaSnapshot) (*ExportResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	payload, err := e.encode(snap)
	if err != nil {
		return nil, err
	}

	key := e.Key(snap.Database, snap.ID)
	e.log.V(1).Info("Uploading snapshot", "key", key, "bytes", len(payload))

	result := util.RetryWithBackoff(ctx, e.retry, func() error {
		return e.backend.Write(ctx, key, bytes.NewReader(payload))
	})
	if result.LastError != nil {
		return nil, fmt.Errorf("failed to upload snapshot after %d attempts: %w", result.Attempts, result.LastError)
	}

	e.log.Info("Snapshot exported", "id", snap.ID, "location", e.backend.Location(key), "attempts", result.Attempts)
	return &ExportResult{
		ID:          snap.ID,
		Key:         key,
		Location:    e.backend.Location(key),
		Backend:     e.backend.Name(),
		Format:      e.codec.Name(),
		Compression: e.compressor.Name(),
		Encrypted:   e.encryptor != nil,
		Size:        int64(len(payload)),
	}, nil
}

func (e *Exporter) encode(snap *types.SchemaSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := e.compressor.Compress(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", e.compressor.Name(), err)
	}
	if err := e.codec.Encode(zw, snap); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to encode snapshot as %s: %w", e.codec.Name(), err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s stream: %w", e.compressor.Name(), err)
	}
	if e.encryptor == nil {
		return buf.Bytes(), nil
	}
	return e.encryptor.Seal(buf.Bytes())
}

// Load reads the snapshot stored at key.
func (e *Exporter) Load(ctx context.Context, key string) (*types.SchemaSnapshot, error) {
	rc, err := e.backend.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadSnapshot(rc, key, e.encryptor)
}

// List returns the snapshots stored for database, newest first.
func (e *Exporter) List(ctx context.Context, database string) ([]ObjectInfo, error) {
	objects, err := e.backend.List(ctx, joinKey(e.prefix, DatabaseKey(database)+"/"))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified > objects[j].LastModified
	})
	return objects, nil
}

// ReadSnapshot decodes a snapshot whose encoding is named by the
// extensions of name, e.g. "x.json.zst.enc".
func ReadSnapshot(r io.Reader, name string, enc *Encryptor) (*types.SchemaSnapshot, error) {
	base := path.Base(name)

	if strings.HasSuffix(base, EncryptedExtension) {
		if enc == nil {
			return nil, fmt.Errorf("snapshot %s is encrypted and no key is configured", name)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		plain, err := enc.Open(data)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(plain)
		base = strings.TrimSuffix(base, EncryptedExtension)
	}

	if c, ok := compressorForExtension(path.Ext(base)); ok {
		dr, err := c.Decompress(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s stream: %w", c.Name(), err)
		}
		defer dr.Close()
		r = dr
		base = strings.TrimSuffix(base, c.Extension())
	}

	codec, ok := codecForExtension(path.Ext(base))
	if !ok {
		return nil, fmt.Errorf("cannot determine snapshot format of %s", name)
	}
	return codec.Decode(r)
}

// DatabaseKey reduces a database path or alias to a key segment:
// "/data/Employee.fdb" becomes "Employee".
func DatabaseKey(database string) string {
	name := strings.ReplaceAll(database, "\\", "/")
	name = path.Base(name)
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".fdb", ".gdb", ".ib":
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	if name == "" || name == "." || name == "/" {
		return "default"
	}
	return name
}
