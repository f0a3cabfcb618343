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

package drift

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/fbdialect/internal/adapter"
	"github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/service"
	"github.com/fbdialect/internal/shared/eventbus"
	"github.com/fbdialect/internal/util"
)

// Service handles drift detection and correction operations.
// It compares declared objects with what the catalog reports and
// renders the ALTER statements that reconcile them.
//
// The service follows the same patterns as the other services:
// - Uses structured logging via logr
// - Returns typed results for callers to process
// - Only executes statements when asked to correct
type Service struct {
	adapter adapter.DatabaseAdapter
	config  *Config
	log     logr.Logger
}

// Config contains configuration for drift detection and correction.
type Config struct {
	// AllowDestructive allows destructive corrections such as dropping
	// columns.
	AllowDestructive bool

	// Database labels metrics and events
	Database string

	Timeouts util.TimeoutConfig

	// Logger is the logger to use for drift operations
	Logger logr.Logger

	// EventBus receives DriftDetected events; nil disables them
	EventBus eventbus.Bus
}

// NewService creates a new drift detection service.
func NewService(adp adapter.DatabaseAdapter, cfg *Config) *Service {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	return &Service{
		adapter: adp,
		config:  cfg,
		log:     log.WithName("DriftService"),
	}
}

// NewConfig creates a new drift service config with defaults.
func NewConfig(cfg *service.Config) *Config {
	return &Config{
		AllowDestructive: false,
		Database:         cfg.Database,
		Timeouts:         cfg.Timeouts,
		Logger:           cfg.GetLogger(),
		EventBus:         cfg.EventBus,
	}
}

// Detect checks every declared object and returns one result each.
func (s *Service) Detect(ctx context.Context, objs []service.Object) ([]*Result, error) {
	results := make([]*Result, 0, len(objs))
	for _, o := range objs {
		var (
			res *Result
			err error
		)
		switch o.Kind {
		case service.KindTable:
			res, err = s.DetectTableDrift(ctx, o.Name, o.Table)
		default:
			res, err = s.detectExistence(ctx, o)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// DetectTableDrift compares the declared table with the reflected one and
// renders the statements of every correctable difference. A missing table
// yields a single step that creates it.
func (s *Service) DetectTableDrift(ctx context.Context, name string, spec *service.TableSpec) (*Result, error) {
	log := s.log.WithValues("table", name)
	log.V(1).Info("Checking table drift")

	d := service.DialectFor(ctx, s.adapter)
	declared := spec.TableInfo(d, name)

	rctx, cancel := s.config.Timeouts.WithReflectTimeout(ctx)
	defer cancel()

	actual, err := s.adapter.ReflectTable(rctx, declared.Name)
	if types.IsNoSuchTable(err) {
		return s.missingResult(ctx, service.Object{Kind: service.KindTable, Name: name, Table: spec})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reflect table %s: %w", name, err)
	}

	res := Compare(d, declared, actual)
	if err := Render(d, declared, res); err != nil {
		return nil, err
	}
	s.report(ctx, res)
	return res, nil
}

// detectExistence handles sequences and domains, whose drift is limited
// to being absent.
func (s *Service) detectExistence(ctx context.Context, o service.Object) (*Result, error) {
	d := service.DialectFor(ctx, s.adapter)
	name := o.CatalogName(d)

	qctx, cancel := s.config.Timeouts.WithQueryTimeout(ctx)
	defer cancel()

	var found bool
	switch o.Kind {
	case service.KindSequence:
		ok, err := s.adapter.HasSequence(qctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check sequence %s: %w", o.Name, err)
		}
		found = ok
	case service.KindDomain:
		domains, err := s.adapter.Domains(qctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list domains: %w", err)
		}
		for _, dom := range domains {
			if dom.Name == name {
				found = true
				break
			}
		}
	default:
		return nil, &service.ValidationError{Field: "kind", Message: "unsupported kind " + o.Kind}
	}

	if !found {
		return s.missingResult(ctx, o)
	}
	res := NewResult(o.Kind, o.Name)
	s.report(ctx, res)
	return res, nil
}

func (s *Service) missingResult(ctx context.Context, o service.Object) (*Result, error) {
	d := service.DialectFor(ctx, s.adapter)
	stmts, err := o.Statements(d)
	if err != nil {
		return nil, err
	}
	res := NewResult(o.Kind, o.Name)
	res.Missing = true
	res.AddStep(Diff{Field: strings.ToLower(o.Kind), Expected: "present", Actual: missing}, nil)
	res.Steps[0].Statements = stmts
	s.report(ctx, res)
	return res, nil
}

func (s *Service) report(ctx context.Context, res *Result) {
	metrics.RecordDriftCheck(res.Name, len(res.Diffs))
	if !res.HasDrift() {
		s.log.V(1).Info("No drift detected", "object", res.Name)
		return
	}
	s.log.Info("Drift detected", "object", res.Name, "diffs", len(res.Diffs), "destructive", res.HasDestructiveDrift())
	if s.config.EventBus == nil {
		return
	}
	changes := make([]string, len(res.Diffs))
	for i, d := range res.Diffs {
		changes[i] = d.String()
	}
	event := eventbus.NewDriftDetected(s.config.Database, res.Name, changes, res.Statements())
	if err := s.config.EventBus.Publish(ctx, event); err != nil {
		s.log.Error(err, "event handler failed", "event", event.EventName())
	}
}

// CorrectDrift executes the statements of res step by step. Destructive
// steps are skipped unless AllowDestructive is set, and immutable
// differences are always skipped.
func (s *Service) CorrectDrift(ctx context.Context, res *Result) (*CorrectionResult, error) {
	log := s.log.WithValues("object", res.Name)
	out := NewCorrectionResult(res.Name)

	for _, step := range res.Steps {
		switch {
		case len(step.Statements) == 0:
			out.AddSkipped(step.Diff, "cannot be corrected in place; the object must be recreated")
			continue
		case step.Diff.Destructive && !s.config.AllowDestructive:
			out.AddSkipped(step.Diff, "destructive correction not allowed")
			continue
		}

		ectx, cancel := s.config.Timeouts.WithExecTimeout(ctx)
		err := s.adapter.Exec(ectx, step.Statements...)
		cancel()
		if err != nil {
			log.Error(err, "Failed to correct drift", "field", step.Diff.Field)
			metrics.RecordDDLStatement("drift", metrics.ModeExecuted, metrics.StatusFailure)
			out.AddFailed(step.Diff, err)
			continue
		}
		metrics.RecordDDLStatement("drift", metrics.ModeExecuted, metrics.StatusSuccess)
		log.Info("Corrected drift", "field", step.Diff.Field)
		out.AddCorrected(step.Diff)
	}

	if out.HasFailures() {
		return out, fmt.Errorf("%d of %d corrections failed", len(out.Failed), len(res.Steps))
	}
	return out, nil
}
