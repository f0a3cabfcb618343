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
	"time"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/shared/eventbus"
)

// InspectService reads the catalog of a connected database.
type InspectService struct {
	baseService
	adapter adapter.DatabaseAdapter
	config  *Config
}

// NewInspectService creates an InspectService on top of an InstanceService.
func NewInspectService(instance *InstanceService) *InspectService {
	return NewInspectServiceWithAdapter(instance.Adapter(), instance.Config())
}

// NewInspectServiceWithAdapter creates an InspectService with a pre-created adapter.
func NewInspectServiceWithAdapter(adp adapter.DatabaseAdapter, cfg *Config) *InspectService {
	return &InspectService{
		baseService: newBaseService(cfg, "InspectService"),
		adapter:     adp,
		config:      cfg,
	}
}

// Relation kinds accepted by List.
const (
	RelationTables          = "tables"
	RelationTemporaryTables = "temporary-tables"
	RelationViews           = "views"
	RelationSequences       = "sequences"
	RelationDomains         = "domains"
)

// List returns the names of every object of the given kind.
func (s *InspectService) List(ctx context.Context, kind string) ([]string, error) {
	op := s.startOp("List", kind)

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	var (
		names []string
		err   error
	)
	switch kind {
	case RelationTables:
		names, err = s.adapter.TableNames(ctx)
	case RelationTemporaryTables:
		names, err = s.adapter.TemporaryTableNames(ctx)
	case RelationViews:
		names, err = s.adapter.ViewNames(ctx)
	case RelationSequences:
		names, err = s.adapter.SequenceNames(ctx)
	case RelationDomains:
		var domains []adapter.DomainInfo
		domains, err = s.adapter.Domains(ctx)
		for _, d := range domains {
			names = append(names, d.Name)
		}
	default:
		return nil, &ValidationError{Field: "kind", Message: "unknown object kind " + kind}
	}
	if err != nil {
		op.Error(err, "failed to list objects")
		return nil, s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "list "+kind, s.config.Database, err)
	}

	op.Success("listed objects", "count", len(names))
	return names, nil
}

// ListTables returns the persistent user tables.
func (s *InspectService) ListTables(ctx context.Context) ([]string, error) {
	return s.List(ctx, RelationTables)
}

// ListViews returns the user views.
func (s *InspectService) ListViews(ctx context.Context) ([]string, error) {
	return s.List(ctx, RelationViews)
}

// ListSequences returns the user sequences.
func (s *InspectService) ListSequences(ctx context.Context) ([]string, error) {
	return s.List(ctx, RelationSequences)
}

// ListDomains returns the user domains.
func (s *InspectService) ListDomains(ctx context.Context) ([]adapter.DomainInfo, error) {
	op := s.startOp("ListDomains", s.config.Database)

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	domains, err := s.adapter.Domains(ctx)
	if err != nil {
		op.Error(err, "failed to list domains")
		return nil, s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "list domains", s.config.Database, err)
	}
	op.Success("listed domains", "count", len(domains))
	return domains, nil
}

// ViewDefinition returns the stored source of a view.
func (s *InspectService) ViewDefinition(ctx context.Context, name string) (string, error) {
	op := s.startOp("ViewDefinition", name)

	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	src, err := s.adapter.ViewDefinition(ctx, name)
	if err != nil {
		op.Error(err, "failed to read view definition")
		return "", s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "view definition", name, err)
	}
	op.Success("read view definition")
	return src, nil
}

// DescribeTable reflects one table. A missing table yields an error
// matched by IsNotFound.
func (s *InspectService) DescribeTable(ctx context.Context, name string) (*adapter.TableInfo, error) {
	op := s.startOp("DescribeTable", name)

	ctx, cancel := s.config.Timeouts.WithReflectTimeout(ctx)
	defer cancel()

	start := time.Now()
	info, err := s.adapter.ReflectTable(ctx, name)
	if err != nil {
		op.Error(err, "failed to reflect table")
		return nil, s.wrapError(ctx, s.config.Timeouts.ReflectTimeout.String(), "reflect table", name, err)
	}

	s.publish(ctx, eventbus.NewTableReflected(s.config.Database, info.Name, len(info.Columns), time.Since(start)))
	op.Success("reflected table", "columns", len(info.Columns))
	return info, nil
}

// ReflectSchema reflects the whole database into a snapshot.
func (s *InspectService) ReflectSchema(ctx context.Context) (*adapter.SchemaSnapshot, error) {
	op := s.startOp("ReflectSchema", s.config.Database)

	ctx, cancel := s.config.Timeouts.WithReflectTimeout(ctx)
	defer cancel()

	start := time.Now()
	snap, err := s.adapter.ReflectSchema(ctx)
	if err != nil {
		op.Error(err, "failed to reflect schema")
		return nil, s.wrapError(ctx, s.config.Timeouts.ReflectTimeout.String(), "reflect schema", s.config.Database, err)
	}
	elapsed := time.Since(start)

	metrics.RecordSchemaReflection(s.config.Database, elapsed.Seconds(), map[string]int{
		"table":    len(snap.Tables),
		"view":     len(snap.Views),
		"sequence": len(snap.Sequences),
		"domain":   len(snap.Domains),
	})
	s.publish(ctx, eventbus.NewSchemaReflected(s.config.Database, snap.ID, snap.ServerVersion.String(),
		len(snap.Tables), len(snap.Views), len(snap.Sequences), len(snap.Domains), elapsed))

	op.Success("reflected schema", "tables", len(snap.Tables), "views", len(snap.Views))
	return snap, nil
}
