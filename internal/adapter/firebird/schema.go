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

package firebird

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fbdialect/internal/adapter/types"
)

// DefaultReflectConcurrency bounds the tables reflected at once.
const DefaultReflectConcurrency = 4

// WithReflectConcurrency sets how many tables ReflectSchema reflects in
// parallel. Values below one fall back to the default.
func (a *Adapter) WithReflectConcurrency(n int) *Adapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 {
		n = DefaultReflectConcurrency
	}
	a.concurrency = n
	return a
}

// ReflectTable aggregates every per-table query into one TableInfo.
func (a *Adapter) ReflectTable(ctx context.Context, table string) (*types.TableInfo, error) {
	cols, err := a.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	info := &types.TableInfo{Name: table, Columns: cols}

	if info.PrimaryKey, err = a.PrimaryKey(ctx, table); err != nil {
		return nil, err
	}
	if info.ForeignKeys, err = a.ForeignKeys(ctx, table); err != nil {
		return nil, err
	}
	if info.Indexes, err = a.Indexes(ctx, table); err != nil {
		return nil, err
	}
	if info.Comment, err = a.TableComment(ctx, table); err != nil {
		return nil, err
	}
	if info.CheckConstraints, err = a.CheckConstraints(ctx, table); err != nil {
		return nil, err
	}
	if info.UniqueConstraints, err = a.UniqueConstraints(ctx, table); err != nil {
		return nil, err
	}
	return info, nil
}

// ReflectSchema reflects every user table, view, sequence and domain.
// Tables and views are reflected concurrently.
func (a *Adapter) ReflectSchema(ctx context.Context) (*types.SchemaSnapshot, error) {
	version, err := a.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := a.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	temps, err := a.TemporaryTableNames(ctx)
	if err != nil {
		return nil, err
	}
	views, err := a.ViewNames(ctx)
	if err != nil {
		return nil, err
	}
	sequences, err := a.SequenceNames(ctx)
	if err != nil {
		return nil, err
	}
	domains, err := a.Domains(ctx)
	if err != nil {
		return nil, err
	}

	snap := &types.SchemaSnapshot{
		ID:            uuid.NewString(),
		Database:      a.config.Database,
		ServerVersion: version,
		TakenAt:       time.Now().UTC(),
		Tables:        make([]types.TableInfo, len(tables)+len(temps)),
		Views:         make([]types.ViewInfo, len(views)),
		Domains:       domains,
	}
	for _, s := range sequences {
		snap.Sequences = append(snap.Sequences, types.SequenceInfo{Name: s})
	}

	a.mu.RLock()
	limit := a.concurrency
	a.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range append(append([]string{}, tables...), temps...) {
		i, name := i, name
		temporary := i >= len(tables)
		g.Go(func() error {
			info, err := a.ReflectTable(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to reflect table %s: %w", name, err)
			}
			info.Temporary = temporary
			snap.Tables[i] = *info
			return nil
		})
	}
	for i, name := range views {
		i, name := i, name
		g.Go(func() error {
			def, err := a.ViewDefinition(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to reflect view %s: %w", name, err)
			}
			snap.Views[i] = types.ViewInfo{Name: name, Definition: def}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
