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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

const ordersYAML = `
apiVersion: fbdialect/v1
kind: Domain
metadata:
  name: d_amount
spec:
  type: {kind: NUMERIC, precision: 10, scale: 2}
  default: "0"
  notNull: true
  check: VALUE >= 0
---
apiVersion: fbdialect/v1
kind: Sequence
metadata:
  name: seq_orders
spec:
  start: 100
  comment: order numbers
---
apiVersion: fbdialect/v1
kind: Table
metadata:
  name: orders
spec:
  comment: customer orders
  columns:
    - name: id
      type: {kind: BIGINT}
      identity: {always: true}
    - name: customer_id
      type: {kind: INTEGER}
      nullable: false
    - name: status
      type: {kind: VARCHAR, length: 20}
      default: "'new'"
      comment: lifecycle state
    - name: amount
      type: {kind: NUMERIC, precision: 10, scale: 2}
  primaryKey:
    columns: [id]
  unique:
    - name: uq_customer_status
      columns: [customer_id, status]
  foreignKeys:
    - name: fk_customer
      columns: [customer_id]
      refTable: customers
      refColumns: [id]
      onDelete: cascade
  checks:
    - name: ck_amount
      expr: amount >= 0
  indexes:
    - name: ix_status
      columns: [status]
      descending: true
`

func decodeOrders(t *testing.T) []Object {
	t.Helper()
	objs, err := DecodeObjects(strings.NewReader(ordersYAML))
	require.NoError(t, err)
	require.Len(t, objs, 3)
	return objs
}

func TestDecodeObjects(t *testing.T) {
	objs := decodeOrders(t)

	assert.Equal(t, KindDomain, objs[0].Kind)
	assert.Equal(t, "d_amount", objs[0].Name)
	require.NotNil(t, objs[0].Domain)
	assert.Equal(t, types.KindNumeric, objs[0].Domain.Type.Kind)
	assert.True(t, objs[0].Domain.NotNull)

	assert.Equal(t, KindSequence, objs[1].Kind)
	require.NotNil(t, objs[1].Sequence)
	require.NotNil(t, objs[1].Sequence.Start)
	assert.Equal(t, int64(100), *objs[1].Sequence.Start)
	assert.Nil(t, objs[1].Sequence.Increment)

	assert.Equal(t, KindTable, objs[2].Kind)
	table := objs[2].Table
	require.NotNil(t, table)
	assert.Len(t, table.Columns, 4)
	require.NotNil(t, table.Columns[0].Identity)
	assert.True(t, table.Columns[0].Identity.Always)
	assert.Equal(t, []string{"id"}, table.PrimaryKey.Columns)
	assert.Equal(t, "customers", table.ForeignKeys[0].RefTable)
	assert.Equal(t, "amount >= 0", table.Checks[0].Expr)
	assert.True(t, table.Indexes[0].Descending)
}

func TestDecodeObjects_SkipsEmptyDocuments(t *testing.T) {
	objs, err := DecodeObjects(strings.NewReader("---\n" + ordersYAML + "\n---\n"))
	require.NoError(t, err)
	assert.Len(t, objs, 3)
}

func TestDecodeObjects_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "wrong api version",
			doc:  "apiVersion: v2\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}]}",
			want: "unsupported apiVersion",
		},
		{
			name: "missing name",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nspec: {columns: [{name: a, type: {kind: INTEGER}}]}",
			want: "name is required",
		},
		{
			name: "unknown kind",
			doc:  "apiVersion: fbdialect/v1\nkind: Procedure\nmetadata: {name: p}",
			want: "unsupported kind",
		},
		{
			name: "unknown spec field",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {colums: []}",
			want: "invalid spec",
		},
		{
			name: "unknown envelope field",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetdata: {name: t}",
			want: "document 0",
		},
		{
			name: "no columns",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: []}",
			want: "at least one column",
		},
		{
			name: "duplicate column",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}, {name: a, type: {kind: INTEGER}}]}",
			want: "duplicate column a",
		},
		{
			name: "column without type",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a}]}",
			want: "needs a type",
		},
		{
			name: "unknown key column",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}], primaryKey: {columns: [b]}}",
			want: "unknown column b",
		},
		{
			name: "foreign key column count",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}], foreignKeys: [{columns: [a], refTable: p, refColumns: [x, y]}]}",
			want: "one refColumn per column",
		},
		{
			name: "empty check",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}], checks: [{name: c, expr: ' '}]}",
			want: "expression is required",
		},
		{
			name: "unnamed index",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {columns: [{name: a, type: {kind: INTEGER}}], indexes: [{columns: [a]}]}",
			want: "index name is required",
		},
		{
			name: "bad temporary",
			doc:  "apiVersion: fbdialect/v1\nkind: Table\nmetadata: {name: t}\nspec: {temporary: forever, columns: [{name: a, type: {kind: INTEGER}}]}",
			want: "unknown commit behaviour",
		},
		{
			name: "domain without type",
			doc:  "apiVersion: fbdialect/v1\nkind: Domain\nmetadata: {name: d}\nspec: {notNull: true}",
			want: "domain type is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeObjects(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestObject_Statements(t *testing.T) {
	d := sqlbuilder.DefaultFirebird()
	objs := decodeOrders(t)

	domain, err := objs[0].Statements(d)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE DOMAIN d_amount AS NUMERIC(10, 2) DEFAULT 0 NOT NULL CHECK (VALUE >= 0)",
	}, domain)

	seq, err := objs[1].Statements(d)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE SEQUENCE seq_orders START WITH 100",
		"COMMENT ON SEQUENCE seq_orders IS 'order numbers'",
	}, seq)

	table, err := objs[2].Statements(d)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE orders (id BIGINT GENERATED ALWAYS AS IDENTITY, customer_id INTEGER NOT NULL, " +
			"status VARCHAR(20) DEFAULT 'new', amount NUMERIC(10, 2), PRIMARY KEY (id), " +
			"CONSTRAINT uq_customer_status UNIQUE (customer_id, status), " +
			"CONSTRAINT fk_customer FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE, " +
			"CONSTRAINT ck_amount CHECK (amount >= 0))",
		"CREATE DESCENDING INDEX ix_status ON orders (status)",
		"COMMENT ON TABLE orders IS 'customer orders'",
		"COMMENT ON COLUMN orders.status IS 'lifecycle state'",
	}, table)
}

func TestObject_StatementsTemporaryTable(t *testing.T) {
	obj := Object{Kind: KindTable, Name: "scratch", Table: &TableSpec{
		Temporary: "delete_rows",
		Columns:   []ColumnSpec{{Name: "k", Type: types.ColumnType{Kind: types.KindInteger}}},
	}}

	stmts, err := obj.Statements(sqlbuilder.DefaultFirebird())
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATE GLOBAL TEMPORARY TABLE scratch (k INTEGER) ON COMMIT DELETE ROWS"}, stmts)
}

func TestObject_StatementsOldServer(t *testing.T) {
	d := sqlbuilder.NewFirebird(types.ServerVersion{Major: 2, Minor: 5, Vendor: types.VendorFirebird})
	obj := Object{Kind: KindTable, Name: "t", Table: &TableSpec{
		Columns: []ColumnSpec{{Name: "id", Type: types.ColumnType{Kind: types.KindInteger}, Identity: &IdentitySpec{}}},
	}}

	_, err := obj.Statements(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity columns require Firebird 3.0")
}

func TestTableSpec_TableInfo(t *testing.T) {
	d := sqlbuilder.DefaultFirebird()
	info := decodeOrders(t)[2].Table.TableInfo(d, "ORDERS")

	assert.Equal(t, "orders", info.Name)
	require.NotNil(t, info.Comment)
	assert.Equal(t, "customer orders", *info.Comment)

	id, ok := info.Column("id")
	require.True(t, ok)
	assert.False(t, id.Nullable)
	require.NotNil(t, id.Identity)
	assert.Equal(t, types.IdentityInfo{Always: true, Start: 0, Increment: 1}, *id.Identity)

	cust, _ := info.Column("customer_id")
	assert.False(t, cust.Nullable)

	status, _ := info.Column("status")
	assert.True(t, status.Nullable)
	require.NotNil(t, status.Default)
	assert.Equal(t, "'new'", *status.Default)

	assert.Equal(t, []string{"id"}, info.PrimaryKey.ConstrainedColumns)
	require.Len(t, info.UniqueConstraints, 1)
	assert.Equal(t, "uq_customer_status", info.UniqueConstraints[0].Name)
	require.Len(t, info.ForeignKeys, 1)
	assert.Equal(t, "CASCADE", info.ForeignKeys[0].Options[types.FKOptionOnDelete])
	require.Len(t, info.CheckConstraints, 1)
	assert.Equal(t, "ck_amount", info.CheckConstraints[0].Name)
	require.Len(t, info.Indexes, 1)
	assert.True(t, info.Indexes[0].Descending)
	assert.False(t, info.Temporary)
}

func TestTableSpec_TableInfoQuotedNames(t *testing.T) {
	d := sqlbuilder.DefaultFirebird()
	spec := &TableSpec{
		Quote: true,
		Columns: []ColumnSpec{
			{Name: "lowcol", Type: types.ColumnType{Kind: types.KindInteger}, Quote: true},
			{Name: "MixedCol", Type: types.ColumnType{Kind: types.KindInteger}, Quote: true},
			{Name: "plain", Type: types.ColumnType{Kind: types.KindInteger}},
		},
		PrimaryKey: &KeySpec{Columns: []string{"lowcol"}},
	}
	info := spec.TableInfo(d, "lowtab")

	assert.Equal(t, `"lowtab"`, info.Name)
	require.Len(t, info.Columns, 3)
	assert.Equal(t, `"lowcol"`, info.Columns[0].Name)
	assert.Equal(t, "MixedCol", info.Columns[1].Name)
	assert.Equal(t, "plain", info.Columns[2].Name)
	assert.Equal(t, []string{`"lowcol"`}, info.PrimaryKey.ConstrainedColumns)

	obj := Object{Kind: KindTable, Name: "lowtab", Table: spec}
	assert.Equal(t, `"lowtab"`, obj.CatalogName(d))
	assert.Equal(t, "gen_orders", Object{Kind: KindSequence, Name: "GEN_ORDERS"}.CatalogName(d))
}
