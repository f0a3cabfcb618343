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
	"sort"
	"strings"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/shared/eventbus"
)

// DDLService renders declared objects into DDL and applies it.
type DDLService struct {
	baseService
	adapter adapter.DatabaseAdapter
	config  *Config
}

// NewDDLService creates a DDLService on top of an InstanceService.
func NewDDLService(instance *InstanceService) *DDLService {
	return NewDDLServiceWithAdapter(instance.Adapter(), instance.Config())
}

// NewDDLServiceWithAdapter creates a DDLService with a pre-created adapter.
func NewDDLServiceWithAdapter(adp adapter.DatabaseAdapter, cfg *Config) *DDLService {
	return &DDLService{
		baseService: newBaseService(cfg, "DDLService"),
		adapter:     adp,
		config:      cfg,
	}
}

// ApplyOptions controls Apply.
type ApplyOptions struct {
	// DryRun renders statements without executing them.
	DryRun bool
	// SkipExisting leaves objects that already exist untouched.
	SkipExisting bool
}

// ObjectResult is the outcome for one declared object.
type ObjectResult struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Statements []string `json:"statements"`
	Executed   bool     `json:"executed"`
	Skipped    bool     `json:"skipped,omitempty"`

	catalogName string
}

type dialectProvider interface {
	Dialect() *sqlbuilder.Firebird
}

// DialectFor returns the dialect of the connected server, or the default
// dialect when the release is unknown.
func DialectFor(ctx context.Context, adp adapter.DatabaseAdapter) *sqlbuilder.Firebird {
	if p, ok := adp.(dialectProvider); ok {
		if d := p.Dialect(); d != nil {
			return d
		}
	}
	if v, err := adp.ServerVersion(ctx); err == nil {
		return sqlbuilder.NewFirebird(v)
	}
	return sqlbuilder.DefaultFirebird()
}

var kindOrder = map[string]int{KindDomain: 0, KindSequence: 1, KindTable: 2}

// sortObjects orders domains before sequences before tables. Objects of
// the same kind keep their document order.
func sortObjects(objs []Object) []Object {
	out := append([]Object(nil), objs...)
	sort.SliceStable(out, func(i, j int) bool { return kindOrder[out[i].Kind] < kindOrder[out[j].Kind] })
	return out
}

// Render returns the statements for every object without touching the
// database.
func (s *DDLService) Render(ctx context.Context, objs []Object) ([]ObjectResult, error) {
	op := s.startOp("Render", s.config.Database)

	results, err := RenderObjects(DialectFor(ctx, s.adapter), objs)
	if err != nil {
		op.Error(err, "failed to render objects")
		return nil, err
	}

	op.Success("rendered objects", "count", len(results))
	return results, nil
}

// RenderObjects renders objs for dialect d, domains first, then sequences,
// then tables.
func RenderObjects(d *sqlbuilder.Firebird, objs []Object) ([]ObjectResult, error) {
	results := make([]ObjectResult, 0, len(objs))
	for _, o := range sortObjects(objs) {
		stmts, err := o.Statements(d)
		if err != nil {
			metrics.RecordDDLStatement(strings.ToLower(o.Kind), metrics.ModeRendered, metrics.StatusFailure)
			return nil, &ValidationError{Field: o.Kind + " " + o.Name, Message: err.Error()}
		}
		for range stmts {
			metrics.RecordDDLStatement(strings.ToLower(o.Kind), metrics.ModeRendered, metrics.StatusSuccess)
		}
		results = append(results, ObjectResult{Kind: o.Kind, Name: o.Name, Statements: stmts, catalogName: o.CatalogName(d)})
	}
	return results, nil
}

// Apply renders every object and, unless opts.DryRun, executes the
// statements of each object in one session.
func (s *DDLService) Apply(ctx context.Context, objs []Object, opts ApplyOptions) ([]ObjectResult, error) {
	op := s.startOp("Apply", s.config.Database)

	results, err := s.Render(ctx, objs)
	if err != nil {
		return nil, err
	}

	for i := range results {
		r := &results[i]
		if opts.SkipExisting && !opts.DryRun {
			exists, err := s.exists(ctx, r.Kind, r.catalogName)
			if err != nil {
				op.WithValues("name", r.Name).Error(err, "failed to check for existing object")
				return results, err
			}
			if exists {
				op.Info("object exists, skipping", "kind", r.Kind, "name", r.Name)
				r.Skipped = true
				continue
			}
		}
		if opts.DryRun {
			s.publish(ctx, eventbus.NewDDLExecuted(s.config.Database, r.Kind+"/"+r.Name, r.Statements, true))
			continue
		}
		if err := s.Exec(ctx, strings.ToLower(r.Kind), r.Statements...); err != nil {
			op.WithValues("kind", r.Kind, "name", r.Name).Error(err, "failed to apply object")
			return results, err
		}
		r.Executed = true
		s.publish(ctx, eventbus.NewDDLExecuted(s.config.Database, r.Kind+"/"+r.Name, r.Statements, false))
	}

	op.Success("applied objects", "count", len(results), "dryRun", opts.DryRun)
	return results, nil
}

// Exec runs statements under the exec timeout. kind labels the metrics.
func (s *DDLService) Exec(ctx context.Context, kind string, statements ...string) error {
	op := s.startOp("Exec", kind)

	ctx, cancel := s.config.Timeouts.WithExecTimeout(ctx)
	defer cancel()

	if err := s.adapter.Exec(ctx, statements...); err != nil {
		metrics.RecordDDLStatement(kind, metrics.ModeExecuted, metrics.StatusFailure)
		op.Error(err, "failed to execute statements")
		return s.wrapError(ctx, s.config.Timeouts.ExecTimeout.String(), "exec", kind, err)
	}
	for range statements {
		metrics.RecordDDLStatement(kind, metrics.ModeExecuted, metrics.StatusSuccess)
	}

	op.Success("executed statements", "count", len(statements))
	return nil
}

func (s *DDLService) exists(ctx context.Context, kind, name string) (bool, error) {
	ctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	var (
		found bool
		err   error
	)
	switch kind {
	case KindTable:
		for _, rt := range []types.RelationType{
			types.RelationTable,
			types.RelationTemporaryTablePreserve,
			types.RelationTemporaryTableDelete,
		} {
			found, err = s.adapter.HasTable(ctx, name, rt)
			if err != nil || found {
				break
			}
		}
	case KindSequence:
		found, err = s.adapter.HasSequence(ctx, name)
	case KindDomain:
		var domains []adapter.DomainInfo
		domains, err = s.adapter.Domains(ctx)
		for _, dom := range domains {
			if dom.Name == name {
				found = true
			}
		}
	}
	if err != nil {
		return false, s.wrapError(ctx, s.config.Timeouts.QueryTimeout.String(), "check "+strings.ToLower(kind), name, err)
	}
	return found, nil
}
