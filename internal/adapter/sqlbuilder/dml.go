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
)

// InsertBuilder builds INSERT statements.
type InsertBuilder struct {
	dialect *Firebird
	table   string

	columns       []string
	values        []string
	defaultValues bool
	fromSelect    *SelectBuilder
	returning     []string
}

// InsertInto starts an INSERT into table.
func (d *Firebird) InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{dialect: d, table: table}
}

// Columns sets the target columns. Without Values, each column is bound
// to a positional parameter.
func (b *InsertBuilder) Columns(cols ...string) *InsertBuilder {
	b.columns = cols
	return b
}

// Values sets the value expressions, one per column.
func (b *InsertBuilder) Values(exprs ...string) *InsertBuilder {
	b.values = exprs
	return b
}

// DefaultValues renders INSERT INTO t DEFAULT VALUES.
func (b *InsertBuilder) DefaultValues() *InsertBuilder {
	b.defaultValues = true
	return b
}

// FromSelect inserts the rows produced by a query.
func (b *InsertBuilder) FromSelect(sel *SelectBuilder) *InsertBuilder {
	b.fromSelect = sel
	return b
}

// Returning adds RETURNING for the given columns of the target table.
func (b *InsertBuilder) Returning(cols ...string) *InsertBuilder {
	b.returning = cols
	return b
}

// Build assembles the statement.
func (b *InsertBuilder) Build() (string, error) {
	if b.table == "" {
		return "", fmt.Errorf("sqlbuilder: INSERT requires a table")
	}
	d := b.dialect

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteIdentifier(b.table))

	switch {
	case b.defaultValues:
		if len(b.columns) > 0 || b.fromSelect != nil {
			return "", fmt.Errorf("sqlbuilder: DEFAULT VALUES cannot be combined with columns")
		}
		sb.WriteString(" DEFAULT VALUES")
	case len(b.columns) == 0:
		return "", fmt.Errorf("sqlbuilder: the %s dialect does not support empty inserts; use DefaultValues", DialectName)
	default:
		sb.WriteString(" (")
		sb.WriteString(quoteList(d, b.columns))
		sb.WriteByte(')')
		if b.fromSelect != nil {
			sub, err := b.fromSelect.Build()
			if err != nil {
				return "", err
			}
			sb.WriteByte(' ')
			sb.WriteString(sub)
			break
		}
		values := b.values
		if len(values) == 0 {
			values = placeholders(len(b.columns))
		}
		if len(values) != len(b.columns) {
			return "", fmt.Errorf("sqlbuilder: %d values for %d columns", len(values), len(b.columns))
		}
		sb.WriteString(" VALUES (")
		sb.WriteString(strings.Join(values, ", "))
		sb.WriteByte(')')
	}

	if len(b.returning) > 0 {
		if !d.version.SupportsInsertReturning() {
			return "", fmt.Errorf("sqlbuilder: INSERT ... RETURNING requires Firebird 2.0 or later")
		}
		sb.WriteByte(' ')
		sb.WriteString(returningClause(d, b.table, b.returning))
	}
	return sb.String(), nil
}

// UpdateBuilder builds UPDATE statements.
type UpdateBuilder struct {
	dialect   *Firebird
	table     string
	sets      []string
	where     []string
	returning []string
}

// Update starts an UPDATE of table.
func (d *Firebird) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d, table: table}
}

// Set assigns an expression to a column.
func (b *UpdateBuilder) Set(col, expr string) *UpdateBuilder {
	b.sets = append(b.sets, b.dialect.QuoteIdentifier(col)+"="+expr)
	return b
}

// SetParam binds a column to a positional parameter.
func (b *UpdateBuilder) SetParam(col string) *UpdateBuilder {
	return b.Set(col, "?")
}

// SetNamed binds a column to a named parameter of the same name.
func (b *UpdateBuilder) SetNamed(col string) *UpdateBuilder {
	return b.Set(col, ":"+col)
}

// Where adds a condition; multiple conditions are joined with AND.
func (b *UpdateBuilder) Where(cond string) *UpdateBuilder {
	if cond != "" {
		b.where = append(b.where, cond)
	}
	return b
}

// Returning adds RETURNING for the given columns.
func (b *UpdateBuilder) Returning(cols ...string) *UpdateBuilder {
	b.returning = cols
	return b
}

// Build assembles the statement.
func (b *UpdateBuilder) Build() (string, error) {
	if b.table == "" {
		return "", fmt.Errorf("sqlbuilder: UPDATE requires a table")
	}
	if len(b.sets) == 0 {
		return "", fmt.Errorf("sqlbuilder: UPDATE requires at least one SET clause")
	}
	d := b.dialect
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(d.QuoteIdentifier(b.table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(b.sets, ", "))
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.returning) > 0 {
		if !d.version.SupportsDMLReturning() {
			return "", fmt.Errorf("sqlbuilder: UPDATE ... RETURNING requires Firebird 2.1 or later")
		}
		sb.WriteByte(' ')
		sb.WriteString(returningClause(d, b.table, b.returning))
	}
	return sb.String(), nil
}

// DeleteBuilder builds DELETE statements.
type DeleteBuilder struct {
	dialect   *Firebird
	table     string
	where     []string
	returning []string
}

// DeleteFrom starts a DELETE from table.
func (d *Firebird) DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{dialect: d, table: table}
}

// Where adds a condition; multiple conditions are joined with AND.
func (b *DeleteBuilder) Where(cond string) *DeleteBuilder {
	if cond != "" {
		b.where = append(b.where, cond)
	}
	return b
}

// Returning adds RETURNING for the given columns.
func (b *DeleteBuilder) Returning(cols ...string) *DeleteBuilder {
	b.returning = cols
	return b
}

// Build assembles the statement.
func (b *DeleteBuilder) Build() (string, error) {
	if b.table == "" {
		return "", fmt.Errorf("sqlbuilder: DELETE requires a table")
	}
	d := b.dialect
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(d.QuoteIdentifier(b.table))
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.returning) > 0 {
		if !d.version.SupportsDMLReturning() {
			return "", fmt.Errorf("sqlbuilder: DELETE ... RETURNING requires Firebird 2.1 or later")
		}
		sb.WriteByte(' ')
		sb.WriteString(returningClause(d, b.table, b.returning))
	}
	return sb.String(), nil
}

func returningClause(d *Firebird, table string, cols []string) string {
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = d.Col(table, c)
	}
	return "RETURNING " + strings.Join(qualified, ", ")
}

func quoteList(d *Firebird, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "?"
	}
	return out
}
