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

package types

import (
	"context"
	"time"
)

// DatabaseAdapter defines the interface for the Firebird adapter.
// It combines connection management, catalog introspection and
// statement execution.
type DatabaseAdapter interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	GetVersion(ctx context.Context) (string, error)
	ServerVersion(ctx context.Context) (ServerVersion, error)

	// Catalog introspection
	Inspector

	// Statement execution
	StatementExecutor
}

// Inspector reads the system catalog and reconstructs schema objects.
// Names are accepted and returned in normalized (lower case) form.
type Inspector interface {
	// HasTable reports whether a relation of the given type exists.
	HasTable(ctx context.Context, name string, relType RelationType) (bool, error)

	// HasSequence reports whether a sequence (generator) exists.
	HasSequence(ctx context.Context, name string) (bool, error)

	TableNames(ctx context.Context) ([]string, error)
	TemporaryTableNames(ctx context.Context) ([]string, error)
	ViewNames(ctx context.Context) ([]string, error)
	SequenceNames(ctx context.Context) ([]string, error)

	// ViewDefinition returns the stored source of a view.
	ViewDefinition(ctx context.Context, name string) (string, error)

	PrimaryKey(ctx context.Context, table string) (*PrimaryKeyInfo, error)
	Columns(ctx context.Context, table string) ([]ColumnInfo, error)
	ForeignKeys(ctx context.Context, table string) ([]ForeignKeyInfo, error)
	Indexes(ctx context.Context, table string) ([]IndexInfo, error)
	TableComment(ctx context.Context, table string) (*string, error)
	CheckConstraints(ctx context.Context, table string) ([]CheckConstraintInfo, error)
	UniqueConstraints(ctx context.Context, table string) ([]UniqueConstraintInfo, error)
	Domains(ctx context.Context) ([]DomainInfo, error)

	// ReflectTable aggregates every per-table query into one TableInfo.
	ReflectTable(ctx context.Context, table string) (*TableInfo, error)

	// ReflectSchema reflects every user table, view, sequence and domain.
	ReflectSchema(ctx context.Context) (*SchemaSnapshot, error)
}

// StatementExecutor runs rendered SQL statements.
type StatementExecutor interface {
	// Exec runs statements in order inside one session. Pending DDL is
	// committed before the first non-DDL statement that follows it.
	Exec(ctx context.Context, statements ...string) error
}

// RelationType mirrors RDB$RELATIONS.RDB$RELATION_TYPE.
type RelationType int

const (
	RelationTable                  RelationType = 0
	RelationView                   RelationType = 1
	RelationExternalTable          RelationType = 2
	RelationMonitoringTable        RelationType = 3
	RelationTemporaryTablePreserve RelationType = 4
	RelationTemporaryTableDelete   RelationType = 5
)

// String returns a readable relation type name.
func (r RelationType) String() string {
	switch r {
	case RelationTable:
		return "TABLE"
	case RelationView:
		return "VIEW"
	case RelationExternalTable:
		return "EXTERNAL TABLE"
	case RelationMonitoringTable:
		return "MONITORING TABLE"
	case RelationTemporaryTablePreserve:
		return "GLOBAL TEMPORARY (PRESERVE ROWS)"
	case RelationTemporaryTableDelete:
		return "GLOBAL TEMPORARY (DELETE ROWS)"
	default:
		return "UNKNOWN"
	}
}

// TypeKind is a portable column type family.
type TypeKind string

const (
	KindSmallInt        TypeKind = "SMALLINT"
	KindInteger         TypeKind = "INTEGER"
	KindBigInt          TypeKind = "BIGINT"
	KindInt128          TypeKind = "INT128"
	KindReal            TypeKind = "REAL"
	KindFloat           TypeKind = "FLOAT"
	KindDouble          TypeKind = "DOUBLE"
	KindDoublePrecision TypeKind = "DOUBLE PRECISION"
	KindDecfloat        TypeKind = "DECFLOAT"
	KindNumeric         TypeKind = "NUMERIC"
	KindDecimal         TypeKind = "DECIMAL"
	KindBoolean         TypeKind = "BOOLEAN"
	KindDate            TypeKind = "DATE"
	KindTime            TypeKind = "TIME"
	KindTimestamp       TypeKind = "TIMESTAMP"
	KindDateTime        TypeKind = "DATETIME"
	KindChar            TypeKind = "CHAR"
	KindVarchar         TypeKind = "VARCHAR"
	KindText            TypeKind = "TEXT"
	KindBlob            TypeKind = "BLOB"
	KindBinary          TypeKind = "BINARY"
	KindVarbinary       TypeKind = "VARBINARY"
	KindNull            TypeKind = "NULL"
)

// IsInteger reports whether the kind is one of the integer families.
func (k TypeKind) IsInteger() bool {
	switch k {
	case KindSmallInt, KindInteger, KindBigInt, KindInt128:
		return true
	}
	return false
}

// ColumnType describes a column type independently of how it is rendered.
type ColumnType struct {
	Kind      TypeKind `json:"kind" yaml:"kind" msgpack:"kind"`
	Length    *int     `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty"`
	Precision *int     `json:"precision,omitempty" yaml:"precision,omitempty" msgpack:"precision,omitempty"`
	Scale     *int     `json:"scale,omitempty" yaml:"scale,omitempty" msgpack:"scale,omitempty"`
	Charset   string   `json:"charset,omitempty" yaml:"charset,omitempty" msgpack:"charset,omitempty"`
	Timezone  bool     `json:"timezone,omitempty" yaml:"timezone,omitempty" msgpack:"timezone,omitempty"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// IdentityInfo describes an identity column.
type IdentityInfo struct {
	Always    bool  `json:"always" yaml:"always" msgpack:"always"`
	Start     int64 `json:"start" yaml:"start" msgpack:"start"`
	Increment int64 `json:"increment" yaml:"increment" msgpack:"increment"`
}

// ComputedInfo describes a computed (GENERATED ALWAYS AS) column.
type ComputedInfo struct {
	SQLText string `json:"sqltext" yaml:"sqltext" msgpack:"sqltext"`
}

// ColumnInfo is a reflected column.
type ColumnInfo struct {
	Name     string        `json:"name" yaml:"name" msgpack:"name"`
	Type     ColumnType    `json:"type" yaml:"type" msgpack:"type"`
	Nullable bool          `json:"nullable" yaml:"nullable" msgpack:"nullable"`
	Default  *string       `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Quote    bool          `json:"quote,omitempty" yaml:"quote,omitempty" msgpack:"quote,omitempty"`
	Computed *ComputedInfo `json:"computed,omitempty" yaml:"computed,omitempty" msgpack:"computed,omitempty"`
	Identity *IdentityInfo `json:"identity,omitempty" yaml:"identity,omitempty" msgpack:"identity,omitempty"`
}

// PrimaryKeyInfo lists the primary key columns. Firebird does not report
// a usable constraint name so Name is left empty.
type PrimaryKeyInfo struct {
	Name               string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	ConstrainedColumns []string `json:"constrainedColumns" yaml:"constrainedColumns" msgpack:"constrainedColumns"`
}

// ForeignKeyInfo is a reflected FOREIGN KEY constraint.
type ForeignKeyInfo struct {
	Name               string            `json:"name" yaml:"name" msgpack:"name"`
	ConstrainedColumns []string          `json:"constrainedColumns" yaml:"constrainedColumns" msgpack:"constrainedColumns"`
	ReferredTable      string            `json:"referredTable" yaml:"referredTable" msgpack:"referredTable"`
	ReferredColumns    []string          `json:"referredColumns" yaml:"referredColumns" msgpack:"referredColumns"`
	Options            map[string]string `json:"options,omitempty" yaml:"options,omitempty" msgpack:"options,omitempty"`
}

// Foreign key option keys.
const (
	FKOptionOnUpdate = "onupdate"
	FKOptionOnDelete = "ondelete"
)

// IndexInfo is a reflected index that does not back a constraint.
type IndexInfo struct {
	Name        string   `json:"name" yaml:"name" msgpack:"name"`
	ColumnNames []string `json:"columnNames" yaml:"columnNames" msgpack:"columnNames"`
	Expressions []string `json:"expressions,omitempty" yaml:"expressions,omitempty" msgpack:"expressions,omitempty"`
	Unique      bool     `json:"unique" yaml:"unique" msgpack:"unique"`
	Descending  bool     `json:"descending,omitempty" yaml:"descending,omitempty" msgpack:"descending,omitempty"`
	Where       string   `json:"where,omitempty" yaml:"where,omitempty" msgpack:"where,omitempty"`
}

// CheckConstraintInfo is a reflected CHECK constraint.
type CheckConstraintInfo struct {
	Name    string `json:"name" yaml:"name" msgpack:"name"`
	SQLText string `json:"sqltext" yaml:"sqltext" msgpack:"sqltext"`
}

// UniqueConstraintInfo is a reflected UNIQUE constraint.
type UniqueConstraintInfo struct {
	Name        string   `json:"name" yaml:"name" msgpack:"name"`
	ColumnNames []string `json:"columnNames" yaml:"columnNames" msgpack:"columnNames"`
}

// DomainInfo is a reflected domain.
type DomainInfo struct {
	Name     string  `json:"name" yaml:"name" msgpack:"name"`
	Nullable bool    `json:"nullable" yaml:"nullable" msgpack:"nullable"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Check    *string `json:"check,omitempty" yaml:"check,omitempty" msgpack:"check,omitempty"`
	Comment  *string `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
}

// SequenceInfo is a reflected sequence.
type SequenceInfo struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
}

// ViewInfo is a reflected view.
type ViewInfo struct {
	Name       string `json:"name" yaml:"name" msgpack:"name"`
	Definition string `json:"definition" yaml:"definition" msgpack:"definition"`
}

// TableInfo aggregates everything reflected about one table.
type TableInfo struct {
	Name              string                 `json:"name" yaml:"name" msgpack:"name"`
	Temporary         bool                   `json:"temporary,omitempty" yaml:"temporary,omitempty" msgpack:"temporary,omitempty"`
	Comment           *string                `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	Columns           []ColumnInfo           `json:"columns" yaml:"columns" msgpack:"columns"`
	PrimaryKey        *PrimaryKeyInfo        `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" msgpack:"primaryKey,omitempty"`
	ForeignKeys       []ForeignKeyInfo       `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty" msgpack:"foreignKeys,omitempty"`
	Indexes           []IndexInfo            `json:"indexes,omitempty" yaml:"indexes,omitempty" msgpack:"indexes,omitempty"`
	CheckConstraints  []CheckConstraintInfo  `json:"checkConstraints,omitempty" yaml:"checkConstraints,omitempty" msgpack:"checkConstraints,omitempty"`
	UniqueConstraints []UniqueConstraintInfo `json:"uniqueConstraints,omitempty" yaml:"uniqueConstraints,omitempty" msgpack:"uniqueConstraints,omitempty"`
}

// Column returns the named column, if present.
func (t *TableInfo) Column(name string) (*ColumnInfo, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// SchemaSnapshot is the result of reflecting a whole database.
type SchemaSnapshot struct {
	ID            string         `json:"id" yaml:"id" msgpack:"id"`
	Database      string         `json:"database" yaml:"database" msgpack:"database"`
	ServerVersion ServerVersion  `json:"serverVersion" yaml:"serverVersion" msgpack:"serverVersion"`
	TakenAt       time.Time      `json:"takenAt" yaml:"takenAt" msgpack:"takenAt"`
	Tables        []TableInfo    `json:"tables" yaml:"tables" msgpack:"tables"`
	Views         []ViewInfo     `json:"views,omitempty" yaml:"views,omitempty" msgpack:"views,omitempty"`
	Sequences     []SequenceInfo `json:"sequences,omitempty" yaml:"sequences,omitempty" msgpack:"sequences,omitempty"`
	Domains       []DomainInfo   `json:"domains,omitempty" yaml:"domains,omitempty" msgpack:"domains,omitempty"`
}

// Table returns the named table, if present.
func (s *SchemaSnapshot) Table(name string) (*TableInfo, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// ConnectionConfig contains everything needed to open a Firebird connection.
type ConnectionConfig struct {
	Host     string
	Port     int32
	Database string // database path or alias on the server
	Username string
	Password string

	// Firebird-specific
	Role          string
	Charset       string
	WireCrypt     *bool
	AuthPlugin    string
	Timezone      string
	ClientLibrary string // accepted for compatibility with native clients; unused by the pure Go driver

	// IsolationLevel is one of AUTOCOMMIT, READ COMMITTED, REPEATABLE READ, SERIALIZABLE.
	IsolationLevel string
	ReadOnly       bool

	// Params are passed through to the driver DSN.
	Params map[string]string
}
