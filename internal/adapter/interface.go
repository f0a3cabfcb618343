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

package adapter

import (
	"github.com/fbdialect/internal/adapter/types"
)

// Re-export the adapter types so callers can depend on this package alone
type (
	DatabaseAdapter      = types.DatabaseAdapter
	Inspector            = types.Inspector
	StatementExecutor    = types.StatementExecutor
	ConnectionConfig     = types.ConnectionConfig
	ServerVersion        = types.ServerVersion
	RelationType         = types.RelationType
	ColumnType           = types.ColumnType
	ColumnInfo           = types.ColumnInfo
	PrimaryKeyInfo       = types.PrimaryKeyInfo
	ForeignKeyInfo       = types.ForeignKeyInfo
	IndexInfo            = types.IndexInfo
	CheckConstraintInfo  = types.CheckConstraintInfo
	UniqueConstraintInfo = types.UniqueConstraintInfo
	DomainInfo           = types.DomainInfo
	TableInfo            = types.TableInfo
	SchemaSnapshot       = types.SchemaSnapshot
)
