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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/service/testutil"
	"github.com/fbdialect/internal/shared/eventbus"
)

func TestInspectService_List(t *testing.T) {
	mock := testutil.NewMockAdapter()
	mock.TableNamesFunc = func(ctx context.Context) ([]string, error) { return []string{"customers", "orders"}, nil }
	mock.TemporaryTableNamesFunc = func(ctx context.Context) ([]string, error) { return []string{"scratch"}, nil }
	mock.ViewNamesFunc = func(ctx context.Context) ([]string, error) { return []string{"v_orders"}, nil }
	mock.SequenceNamesFunc = func(ctx context.Context) ([]string, error) { return []string{"seq_orders"}, nil }
	mock.DomainsFunc = func(ctx context.Context) ([]types.DomainInfo, error) {
		return []types.DomainInfo{{Name: "d_amount"}, {Name: "d_flag"}}, nil
	}
	svc := NewInspectServiceWithAdapter(mock, testConfig())
	ctx := context.Background()

	tests := map[string][]string{
		RelationTables:          {"customers", "orders"},
		RelationTemporaryTables: {"scratch"},
		RelationViews:           {"v_orders"},
		RelationSequences:       {"seq_orders"},
		RelationDomains:         {"d_amount", "d_flag"},
	}
	for kind, want := range tests {
		got, err := svc.List(ctx, kind)
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)

	views, err := svc.ListViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v_orders"}, views)

	seqs, err := svc.ListSequences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seq_orders"}, seqs)

	domains, err := svc.ListDomains(ctx)
	require.NoError(t, err)
	assert.Len(t, domains, 2)
}

func TestInspectService_ListUnknownKind(t *testing.T) {
	svc := NewInspectServiceWithAdapter(testutil.NewMockAdapter(), testConfig())

	_, err := svc.List(context.Background(), "procedures")
	assert.True(t, IsValidationError(err))
}

func TestInspectService_ListError(t *testing.T) {
	mock := testutil.NewMockAdapter()
	mock.ViewNamesFunc = func(ctx context.Context) ([]string, error) {
		return nil, errors.New("connection lost to database")
	}
	svc := NewInspectServiceWithAdapter(mock, testConfig())

	_, err := svc.ListViews(context.Background())
	require.Error(t, err)
	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "list views", dbErr.Operation)
}

func TestInspectService_ViewDefinition(t *testing.T) {
	mock := testutil.NewMockAdapter()
	mock.ViewDefinitionFunc = func(ctx context.Context, name string) (string, error) {
		return "SELECT id FROM orders", nil
	}
	svc := NewInspectServiceWithAdapter(mock, testConfig())

	src, err := svc.ViewDefinition(context.Background(), "v_orders")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM orders", src)
	assert.True(t, mock.WasCalledWith("ViewDefinition", "v_orders"))
}

func TestInspectService_DescribeTable(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	var got *eventbus.TableReflected
	bus.Subscribe(eventbus.EventTableReflected, "test", func(ctx context.Context, e eventbus.Event) error {
		got = e.(*eventbus.TableReflected)
		return nil
	})
	cfg := testConfig()
	cfg.EventBus = bus

	svc := NewInspectServiceWithAdapter(testutil.NewMockAdapter(), cfg)

	info, err := svc.DescribeTable(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", info.Name)

	require.NotNil(t, got)
	assert.Equal(t, "orders", got.Table)
	assert.Equal(t, 1, got.Columns)
	assert.Equal(t, "employee", got.Database())
}

func TestInspectService_DescribeMissingTable(t *testing.T) {
	mock := testutil.NewMockAdapter()
	mock.ReflectTableFunc = func(ctx context.Context, table string) (*types.TableInfo, error) {
		return nil, &types.NoSuchTableError{Name: table}
	}
	svc := NewInspectServiceWithAdapter(mock, testConfig())

	_, err := svc.DescribeTable(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsDatabaseError(err))
}

func TestInspectService_ReflectSchema(t *testing.T) {
	mock := testutil.NewMockAdapter()
	mock.ReflectSchemaFunc = func(ctx context.Context) (*types.SchemaSnapshot, error) {
		return &types.SchemaSnapshot{
			ID:            "snap-1",
			Database:      "employee",
			ServerVersion: types.ServerVersion{Major: 5, Minor: 0, Vendor: types.VendorFirebird},
			Tables:        []types.TableInfo{{Name: "orders"}, {Name: "customers"}},
			Views:         []types.ViewInfo{{Name: "v_orders"}},
			Domains:       []types.DomainInfo{{Name: "d_amount"}},
		}, nil
	}

	bus := eventbus.NewInMemoryBus()
	var got *eventbus.SchemaReflected
	bus.Subscribe(eventbus.EventSchemaReflected, "test", func(ctx context.Context, e eventbus.Event) error {
		got = e.(*eventbus.SchemaReflected)
		return nil
	})
	cfg := testConfig()
	cfg.EventBus = bus

	snap, err := NewInspectServiceWithAdapter(mock, cfg).ReflectSchema(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Tables, 2)

	require.NotNil(t, got)
	assert.Equal(t, "snap-1", got.SnapshotID)
	assert.Equal(t, snap.ServerVersion.String(), got.ServerVersion)
	assert.Equal(t, 2, got.Tables)
	assert.Equal(t, 1, got.Views)
	assert.Equal(t, 0, got.Sequences)
	assert.Equal(t, 1, got.Domains)
}

func TestInspectService_PublishFailureIsNotFatal(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	bus.Subscribe(eventbus.EventTableReflected, "broken", func(ctx context.Context, e eventbus.Event) error {
		return errors.New("handler failed")
	})
	cfg := testConfig()
	cfg.EventBus = bus

	_, err := NewInspectServiceWithAdapter(testutil.NewMockAdapter(), cfg).DescribeTable(context.Background(), "orders")
	assert.NoError(t, err)
}
