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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/shared/eventbus"
	"github.com/fbdialect/internal/storage"
)

// SnapshotService reflects a database and stores the snapshot on a
// storage backend.
type SnapshotService struct {
	baseService
	inspect  *InspectService
	backend  storage.Backend
	exporter *storage.Exporter
	format   string
	config   *Config
}

// NewSnapshotService creates a SnapshotService writing to backend.
func NewSnapshotService(inspect *InspectService, backend storage.Backend, opts storage.ExportOptions) (*SnapshotService, error) {
	cfg := inspect.config
	exporter, err := storage.NewExporter(backend, opts,
		storage.WithExporterLogger(cfg.GetLogger()),
		storage.WithUploadRetry(cfg.Retry),
	)
	if err != nil {
		return nil, &ValidationError{Field: "snapshot", Message: err.Error()}
	}
	format := opts.Format
	if format == "" {
		format = storage.FormatJSON
	}
	return &SnapshotService{
		baseService: newBaseService(cfg, "SnapshotService"),
		inspect:     inspect,
		backend:     backend,
		exporter:    exporter,
		format:      format,
		config:      cfg,
	}, nil
}

// Export reflects the whole schema and stores it.
func (s *SnapshotService) Export(ctx context.Context) (*storage.ExportResult, error) {
	snap, err := s.inspect.ReflectSchema(ctx)
	if err != nil {
		return nil, err
	}
	return s.ExportSnapshot(ctx, snap)
}

// ExportSnapshot stores an already reflected snapshot.
func (s *SnapshotService) ExportSnapshot(ctx context.Context, snap *adapter.SchemaSnapshot) (*storage.ExportResult, error) {
	op := s.startOp("ExportSnapshot", s.config.Database)

	res, err := s.exporter.Export(ctx, snap)
	if err != nil {
		metrics.RecordSnapshotExport(s.backend.Name(), s.format, 0, err)
		op.Error(err, "failed to export snapshot")
		return nil, err
	}
	metrics.RecordSnapshotExport(res.Backend, res.Format, res.Size, nil)

	s.publish(ctx, eventbus.NewSnapshotExported(s.config.Database, res.ID, res.Backend, res.Location, res.Format, res.Compression, res.Size))
	op.Success("exported snapshot", "id", res.ID, "location", res.Location, "size", res.Size)
	return res, nil
}

// Load reads back the snapshot stored at key.
func (s *SnapshotService) Load(ctx context.Context, key string) (*adapter.SchemaSnapshot, error) {
	op := s.startOp("Load", key)

	snap, err := s.exporter.Load(ctx, key)
	if err != nil {
		op.Error(err, "failed to load snapshot")
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	op.Success("loaded snapshot", "id", snap.ID)
	return snap, nil
}

// List returns the stored snapshots of the configured database, newest first.
func (s *SnapshotService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	op := s.startOp("List", s.config.Database)

	objects, err := s.exporter.List(ctx, s.config.Database)
	if err != nil {
		op.Error(err, "failed to list snapshots")
		return nil, err
	}
	op.Success("listed snapshots", "count", len(objects))
	return objects, nil
}
