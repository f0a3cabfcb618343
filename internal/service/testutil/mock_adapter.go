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
	"context"
	"sync"
	"time"

	"github.com/fbdialect/internal/adapter/types"
)

// MockAdapter is a mock implementation of the DatabaseAdapter interface for testing.
// Each method has a configurable function field that can be set to customize behavior.
type MockAdapter struct {
	// Connection management
	ConnectFunc       func(ctx context.Context) error
	CloseFunc         func() error
	PingFunc          func(ctx context.Context) error
	GetVersionFunc    func(ctx context.Context) (string, error)
	ServerVersionFunc func(ctx context.Context) (types.ServerVersion, error)

	// Catalog introspection
	HasTableFunc            func(ctx context.Context, name string, relType types.RelationType) (bool, error)
	HasSequenceFunc         func(ctx context.Context, name string) (bool, error)
	TableNamesFunc          func(ctx context.Context) ([]string, error)
	TemporaryTableNamesFunc func(ctx context.Context) ([]string, error)
	ViewNamesFunc           func(ctx context.Context) ([]string, error)
	SequenceNamesFunc       func(ctx context.Context) ([]string, error)
	ViewDefinitionFunc      func(ctx context.Context, name string) (string, error)
	PrimaryKeyFunc          func(ctx context.Context, table string) (*types.PrimaryKeyInfo, error)
	ColumnsFunc             func(ctx context.Context, table string) ([]types.ColumnInfo, error)
	ForeignKeysFunc         func(ctx context.Context, table string) ([]types.ForeignKeyInfo, error)
	IndexesFunc             func(ctx context.Context, table string) ([]types.IndexInfo, error)
	TableCommentFunc        func(ctx context.Context, table string) (*string, error)
	CheckConstraintsFunc    func(ctx context.Context, table string) ([]types.CheckConstraintInfo, error)
	UniqueConstraintsFunc   func(ctx context.Context, table string) ([]types.UniqueConstraintInfo, error)
	DomainsFunc             func(ctx context.Context) ([]types.DomainInfo, error)
	ReflectTableFunc        func(ctx context.Context, table string) (*types.TableInfo, error)
	ReflectSchemaFunc       func(ctx context.Context) (*types.SchemaSnapshot, error)

	// Statement execution
	ExecFunc func(ctx context.Context, statements ...string) error

	mu sync.Mutex
	// Call tracking
	Calls []MethodCall
	// Executed collects every statement passed to Exec.
	Executed []string
}

// MethodCall records a method call for verification in tests.
type MethodCall struct {
	Method string
	Args   []interface{}
}

// NewMockAdapter creates a new MockAdapter with default no-op implementations.
// Tables reflect as a single "id" column; the catalog is otherwise empty.
func NewMockAdapter() *MockAdapter {
	m := &MockAdapter{
		Calls: make([]MethodCall, 0),
	}

	// Set default implementations
	m.ConnectFunc = func(ctx context.Context) error { return nil }
	m.CloseFunc = func() error { return nil }
	m.PingFunc = func(ctx context.Context) error { return nil }
	m.GetVersionFunc = func(ctx context.Context) (string, error) { return "4.0.2", nil }
	m.ServerVersionFunc = func(ctx context.Context) (types.ServerVersion, error) {
		return types.ServerVersion{Major: 4, Minor: 0, Build: 2, Vendor: types.VendorFirebird}, nil
	}

	m.HasTableFunc = func(ctx context.Context, name string, relType types.RelationType) (bool, error) { return false, nil }
	m.HasSequenceFunc = func(ctx context.Context, name string) (bool, error) { return false, nil }
	m.TableNamesFunc = func(ctx context.Context) ([]string, error) { return []string{}, nil }
	m.TemporaryTableNamesFunc = func(ctx context.Context) ([]string, error) { return []string{}, nil }
	m.ViewNamesFunc = func(ctx context.Context) ([]string, error) { return []string{}, nil }
	m.SequenceNamesFunc = func(ctx context.Context) ([]string, error) { return []string{}, nil }
	m.ViewDefinitionFunc = func(ctx context.Context, name string) (string, error) { return "", nil }
	m.PrimaryKeyFunc = func(ctx context.Context, table string) (*types.PrimaryKeyInfo, error) {
		return &types.PrimaryKeyInfo{ConstrainedColumns: []string{}}, nil
	}
	m.ColumnsFunc = func(ctx context.Context, table string) ([]types.ColumnInfo, error) { return nil, nil }
	m.ForeignKeysFunc = func(ctx context.Context, table string) ([]types.ForeignKeyInfo, error) { return nil, nil }
	m.IndexesFunc = func(ctx context.Context, table string) ([]types.IndexInfo, error) { return nil, nil }
	m.TableCommentFunc = func(ctx context.Context, table string) (*string, error) { return nil, nil }
	m.CheckConstraintsFunc = func(ctx context.Context, table string) ([]types.CheckConstraintInfo, error) { return nil, nil }
	m.UniqueConstraintsFunc = func(ctx context.Context, table string) ([]types.UniqueConstraintInfo, error) {
		return nil, nil
	}
	m.DomainsFunc = func(ctx context.Context) ([]types.DomainInfo, error) { return nil, nil }
	m.ReflectTableFunc = func(ctx context.Context, table string) (*types.TableInfo, error) {
		return &types.TableInfo{
			Name:    table,
			Columns: []types.ColumnInfo{{Name: "id", Type: types.ColumnType{Kind: types.KindInteger}}},
		}, nil
	}
	m.ReflectSchemaFunc = func(ctx context.Context) (*types.SchemaSnapshot, error) {
		return &types.SchemaSnapshot{
			ID:            "00000000-0000-0000-0000-000000000000",
			Database:      "employee",
			ServerVersion: types.ServerVersion{Major: 4, Minor: 0, Build: 2, Vendor: types.VendorFirebird},
			TakenAt:       time.Unix(0, 0).UTC(),
		}, nil
	}

	m.ExecFunc = func(ctx context.Context, statements ...string) error { return nil }

	return m
}

// record adds a method call to the call tracking list.
func (m *MockAdapter) record(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MethodCall{Method: method, Args: args})
}

// ResetCalls clears the call tracking list.
func (m *MockAdapter) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = make([]MethodCall, 0)
	m.Executed = nil
}

// GetCallCount returns the number of times a method was called.
func (m *MockAdapter) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// WasCalledWith checks if a method was called with specific arguments.
func (m *MockAdapter) WasCalledWith(method string, args ...interface{}) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Calls {
		if call.Method != method || len(call.Args) != len(args) {
			continue
		}
		match := true
		for i, arg := range args {
			if call.Args[i] != arg {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ExecutedStatements returns a copy of every statement passed to Exec.
func (m *MockAdapter) ExecutedStatements() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Executed...)
}

// Connection management implementations

func (m *MockAdapter) Connect(ctx context.Context) error {
	m.record("Connect")
	return m.ConnectFunc(ctx)
}

func (m *MockAdapter) Close() error {
	m.record("Close")
	return m.CloseFunc()
}

func (m *MockAdapter) Ping(ctx context.Context) error {
	m.record("Ping")
	return m.PingFunc(ctx)
}

func (m *MockAdapter) GetVersion(ctx context.Context) (string, error) {
	m.record("GetVersion")
	return m.GetVersionFunc(ctx)
}

func (m *MockAdapter) ServerVersion(ctx context.Context) (types.ServerVersion, error) {
	m.record("ServerVersion")
	return m.ServerVersionFunc(ctx)
}

// Catalog introspection implementations

func (m *MockAdapter) HasTable(ctx context.Context, name string, relType types.RelationType) (bool, error) {
	m.record("HasTable", name, relType)
	return m.HasTableFunc(ctx, name, relType)
}

func (m *MockAdapter) HasSequence(ctx context.Context, name string) (bool, error) {
	m.record("HasSequence", name)
	return m.HasSequenceFunc(ctx, name)
}

func (m *MockAdapter) TableNames(ctx context.Context) ([]string, error) {
	m.record("TableNames")
	return m.TableNamesFunc(ctx)
}

func (m *MockAdapter) TemporaryTableNames(ctx context.Context) ([]string, error) {
	m.record("TemporaryTableNames")
	return m.TemporaryTableNamesFunc(ctx)
}

func (m *MockAdapter) ViewNames(ctx context.Context) ([]string, error) {
	m.record("ViewNames")
	return m.ViewNamesFunc(ctx)
}

func (m *MockAdapter) SequenceNames(ctx context.Context) ([]string, error) {
	m.record("SequenceNames")
	return m.SequenceNamesFunc(ctx)
}

func (m *MockAdapter) ViewDefinition(ctx context.Context, name string) (string, error) {
	m.record("ViewDefinition", name)
	return m.ViewDefinitionFunc(ctx, name)
}

func (m *MockAdapter) PrimaryKey(ctx context.Context, table string) (*types.PrimaryKeyInfo, error) {
	m.record("PrimaryKey", table)
	return m.PrimaryKeyFunc(ctx, table)
}

func (m *MockAdapter) Columns(ctx context.Context, table string) ([]types.ColumnInfo, error) {
	m.record("Columns", table)
	return m.ColumnsFunc(ctx, table)
}

func (m *MockAdapter) ForeignKeys(ctx context.Context, table string) ([]types.ForeignKeyInfo, error) {
	m.record("ForeignKeys", table)
	return m.ForeignKeysFunc(ctx, table)
}

func (m *MockAdapter) Indexes(ctx context.Context, table string) ([]types.IndexInfo, error) {
	m.record("Indexes", table)
	return m.IndexesFunc(ctx, table)
}

func (m *MockAdapter) TableComment(ctx context.Context, table string) (*string, error) {
	m.record("TableComment", table)
	return m.TableCommentFunc(ctx, table)
}

func (m *MockAdapter) CheckConstraints(ctx context.Context, table string) ([]types.CheckConstraintInfo, error) {
	m.record("CheckConstraints", table)
	return m.CheckConstraintsFunc(ctx, table)
}

func (m *MockAdapter) UniqueConstraints(ctx context.Context, table string) ([]types.UniqueConstraintInfo, error) {
	m.record("UniqueConstraints", table)
	return m.UniqueConstraintsFunc(ctx, table)
}

func (m *MockAdapter) Domains(ctx context.Context) ([]types.DomainInfo, error) {
	m.record("Domains")
	return m.DomainsFunc(ctx)
}

func (m *MockAdapter) ReflectTable(ctx context.Context, table string) (*types.TableInfo, error) {
	m.record("ReflectTable", table)
	return m.ReflectTableFunc(ctx, table)
}

func (m *MockAdapter) ReflectSchema(ctx context.Context) (*types.SchemaSnapshot, error) {
	m.record("ReflectSchema")
	return m.ReflectSchemaFunc(ctx)
}

// Statement execution implementation

func (m *MockAdapter) Exec(ctx context.Context, statements ...string) error {
	m.record("Exec", len(statements))
	err := m.ExecFunc(ctx, statements...)
	if err == nil {
		m.mu.Lock()
		m.Executed = append(m.Executed, statements...)
		m.mu.Unlock()
	}
	return err
}

// Ensure MockAdapter implements DatabaseAdapter
var _ types.DatabaseAdapter = (*MockAdapter)(nil)
