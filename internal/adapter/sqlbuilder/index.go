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

// ExpressionSeparator joins the expressions of a COMPUTED BY index. The
// catalog stores the same text, which is split on it when reflecting.
const ExpressionSeparator = " || "

// IndexBuilder builds CREATE INDEX statements.
type IndexBuilder struct {
	dialect     *Firebird
	name        string
	table       string
	unique      bool
	descending  bool
	columns     []string
	expressions []string
	where       string
}

// CreateIndex starts a CREATE INDEX statement.
func (d *Firebird) CreateIndex(name, table string) *IndexBuilder {
	return &IndexBuilder{dialect: d, name: name, table: table}
}

// Unique adds UNIQUE.
func (b *IndexBuilder) Unique() *IndexBuilder {
	b.unique = true
	return b
}

// Descending adds DESCENDING.
func (b *IndexBuilder) Descending() *IndexBuilder {
	b.descending = true
	return b
}

// Columns sets the indexed columns.
func (b *IndexBuilder) Columns(cols ...string) *IndexBuilder {
	b.columns = cols
	return b
}

// Expressions makes the index an expression index (COMPUTED BY).
func (b *IndexBuilder) Expressions(exprs ...string) *IndexBuilder {
	b.expressions = exprs
	return b
}

// Where makes the index partial (Firebird 5.0+).
func (b *IndexBuilder) Where(cond string) *IndexBuilder {
	b.where = cond
	return b
}

// Build assembles the statement.
func (b *IndexBuilder) Build() (string, error) {
	d := b.dialect
	if b.name == "" {
		return "", fmt.Errorf("CREATE INDEX requires that the index have a name")
	}
	if err := d.CheckIdentifierLength(b.name); err != nil {
		return "", err
	}
	if b.table == "" {
		return "", fmt.Errorf("sqlbuilder: CREATE INDEX %s requires a table", b.name)
	}
	if len(b.columns) == 0 && len(b.expressions) == 0 {
		return "", fmt.Errorf("CREATE INDEX requires at least one column or expression")
	}
	if len(b.columns) > 0 && len(b.expressions) > 0 {
		return "", fmt.Errorf("sqlbuilder: index %s cannot mix columns and expressions", b.name)
	}
	if b.where != "" && !d.version.SupportsPartialIndexes() {
		return "", fmt.Errorf("sqlbuilder: partial indexes require Firebird 5.0 or later")
	}

	var sb strings.Builder
	sb.WriteString("CREATE ")
	if b.unique {
		sb.WriteString("UNIQUE ")
	}
	if b.descending {
		sb.WriteString("DESCENDING ")
	}
	sb.WriteString("INDEX ")
	sb.WriteString(d.QuoteIdentifier(b.name))
	sb.WriteString(" ON ")
	sb.WriteString(d.QuoteIdentifier(b.table))
	if len(b.expressions) > 0 {
		sb.WriteString(" COMPUTED BY (")
		sb.WriteString(strings.Join(b.expressions, ExpressionSeparator))
		sb.WriteByte(')')
	} else {
		sb.WriteString(" (")
		sb.WriteString(quoteList(d, b.columns))
		sb.WriteByte(')')
	}
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	return sb.String(), nil
}

// DropIndex renders DROP INDEX.
func (d *Firebird) DropIndex(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: DROP INDEX requires a name")
	}
	return "DROP INDEX " + d.QuoteIdentifier(name), nil
}
