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

package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/fbdialect/internal/adapter/types"
)

// RenderType renders a column type for DDL and CAST expressions.
func (d *Firebird) RenderType(t types.ColumnType) (string, error) {
	v := d.version
	switch t.Kind {
	case types.KindSmallInt, types.KindInteger, types.KindBigInt, types.KindReal,
		types.KindDouble, types.KindDoublePrecision, types.KindDate:
		return string(t.Kind), nil
	case types.KindBoolean:
		// Booleans are stored as SMALLINT on every release.
		return "SMALLINT", nil
	case types.KindInt128:
		if !v.SupportsInt128() {
			return "", fmt.Errorf("sqlbuilder: INT128 requires Firebird 4.0 or later")
		}
		return "INT128", nil
	case types.KindDecfloat:
		if !v.AtLeast(4, 0) {
			return "", fmt.Errorf("sqlbuilder: DECFLOAT requires Firebird 4.0 or later")
		}
		return withPrecision("DECFLOAT", t.Precision), nil
	case types.KindFloat:
		return withPrecision("FLOAT", t.Precision), nil
	case types.KindNumeric, types.KindDecimal:
		return renderNumeric(string(t.Kind), t.Precision, t.Scale), nil
	case types.KindDateTime:
		if !v.VersionTwo() {
			return "DATE", nil
		}
		return d.renderTemporal("TIMESTAMP", t)
	case types.KindTime, types.KindTimestamp:
		return d.renderTemporal(string(t.Kind), t)
	case types.KindChar:
		return extendString(withLength("CHAR", t.Length), t.Charset), nil
	case types.KindVarchar:
		if t.Length == nil || *t.Length == 0 {
			return "", fmt.Errorf("VARCHAR requires a length on dialect %s", DialectName)
		}
		return extendString(withLength("VARCHAR", t.Length), t.Charset), nil
	case types.KindText:
		return "BLOB SUB_TYPE 1", nil
	case types.KindBlob:
		return "BLOB SUB_TYPE 0", nil
	case types.KindBinary, types.KindVarbinary:
		return d.renderBinary(t)
	case types.KindNull, "":
		return "", fmt.Errorf("sqlbuilder: cannot render a column without a type")
	default:
		return "", fmt.Errorf("sqlbuilder: unsupported column type %q", t.Kind)
	}
}

// renderTemporal renders TIME and TIMESTAMP. Time zone qualifiers only
// exist from Firebird 4.0; older releases get the bare type name.
func (d *Firebird) renderTemporal(name string, t types.ColumnType) (string, error) {
	base := withPrecision(name, t.Precision)
	if !d.version.SupportsTimeZones() {
		if t.Timezone {
			return "", fmt.Errorf("sqlbuilder: %s WITH TIME ZONE requires Firebird 4.0 or later", name)
		}
		return base, nil
	}
	if t.Timezone {
		return base + " WITH TIME ZONE", nil
	}
	return base + " WITHOUT TIME ZONE", nil
}

// renderBinary uses the 4.0 BINARY types, falling back to OCTETS strings.
func (d *Firebird) renderBinary(t types.ColumnType) (string, error) {
	if t.Kind == types.KindVarbinary && (t.Length == nil || *t.Length == 0) {
		return "", fmt.Errorf("VARBINARY requires a length on dialect %s", DialectName)
	}
	if d.version.SupportsBinary() {
		return withLength(string(t.Kind), t.Length), nil
	}
	if t.Kind == types.KindVarbinary {
		return withLength("VARCHAR", t.Length) + " CHARACTER SET OCTETS", nil
	}
	return withLength("CHAR", t.Length) + " CHARACTER SET OCTETS", nil
}

func withLength(name string, length *int) string {
	if length == nil {
		return name
	}
	return fmt.Sprintf("%s(%d)", name, *length)
}

func withPrecision(name string, precision *int) string {
	if precision == nil {
		return name
	}
	return fmt.Sprintf("%s(%d)", name, *precision)
}

func renderNumeric(name string, precision, scale *int) string {
	switch {
	case precision == nil:
		return name
	case scale == nil:
		return fmt.Sprintf("%s(%d)", name, *precision)
	default:
		return fmt.Sprintf("%s(%d, %d)", name, *precision, *scale)
	}
}

func extendString(basic, charset string) string {
	if charset == "" {
		return basic
	}
	return basic + " CHARACTER SET " + charset
}

// catalogTypes maps RDB$TYPES names (and their SQL spellings) to kinds.
var catalogTypes = map[string]types.TypeKind{
	"SMALLINT":         types.KindSmallInt,
	"INTEGER":          types.KindInteger,
	"BIGINT":           types.KindBigInt,
	"INT128":           types.KindBigInt,
	"REAL":             types.KindReal,
	"FLOAT":            types.KindFloat,
	"DOUBLE PRECISION": types.KindDoublePrecision,
	"DECFLOAT":         types.KindFloat,
	"BOOLEAN":          types.KindBoolean,
	"DATE":             types.KindDate,

	"TIME":                        types.KindTime,
	"TIME WITH TIME ZONE":         types.KindTime,
	"TIME WITHOUT TIME ZONE":      types.KindTime,
	"TIME WITH TIMEZONE":          types.KindTime,
	"TIMESTAMP":                   types.KindTimestamp,
	"TIMESTAMP WITH TIME ZONE":    types.KindTimestamp,
	"TIMESTAMP WITHOUT TIME ZONE": types.KindTimestamp,
	"TIMESTAMP WITH TIMEZONE":     types.KindTimestamp,

	"DECIMAL":           types.KindNumeric,
	"NUMERIC":           types.KindNumeric,
	"VARCHAR":           types.KindVarchar,
	"CHAR VARYING":      types.KindVarchar,
	"CHARACTER VARYING": types.KindVarchar,
	"CHAR":              types.KindChar,
	"CHARACTER":         types.KindChar,
	"BINARY":            types.KindBinary,
	"VARBINARY":         types.KindVarbinary,
	"BINARY VARYING":    types.KindVarbinary,

	// Legacy RDB$TYPES names. TEXT is the catalog name of fixed CHAR.
	"SHORT":   types.KindSmallInt,
	"LONG":    types.KindInteger,
	"QUAD":    types.KindFloat,
	"TEXT":    types.KindChar,
	"INT64":   types.KindBigInt,
	"DOUBLE":  types.KindFloat,
	"VARYING": types.KindVarchar,
	"CSTRING": types.KindChar,
	"BLOB":    types.KindBlob,
}

// LookupCatalogType maps a catalog type name to a portable kind.
// Trailing blanks of CHAR catalog columns are ignored. Before Firebird
// 2.0 a TIMESTAMP is reported as DATE.
func (d *Firebird) LookupCatalogType(name string) (types.TypeKind, bool) {
	name = strings.ToUpper(strings.TrimRight(name, " "))
	kind, ok := catalogTypes[name]
	if !ok {
		return types.KindNull, false
	}
	if kind == types.KindTimestamp && !d.version.VersionTwo() {
		return types.KindDate, true
	}
	return kind, true
}

// CatalogTimezone reports whether a catalog type name carries a time zone.
func CatalogTimezone(name string) bool {
	name = strings.ToUpper(strings.TrimRight(name, " "))
	return strings.HasSuffix(name, "WITH TIME ZONE") || strings.HasSuffix(name, "WITH TIMEZONE")
}
