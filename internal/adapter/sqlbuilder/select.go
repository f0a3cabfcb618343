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
	"strconv"
	"strings"
)

// EmptySetSelect is a query that returns no rows, used where a subquery
// must be present but can match nothing.
const EmptySetSelect = "SELECT 1 FROM RDB$DATABASE WHERE 0=1"

// defaultFrom is appended to SELECTs without a FROM clause.
const defaultFrom = " FROM rdb$database"

type lockMode int

const (
	lockNone lockMode = iota
	lockUpdate
	lockWithLock
	lockSkipLocked
)

// SelectBuilder builds SELECT statements.
type SelectBuilder struct {
	dialect *Firebird

	distinct bool
	columns  []string
	from     string
	joins    []string
	where    []string
	groupBy  []string
	having   string
	orderBy  []string

	limit  *int
	offset *int

	lock   lockMode
	lockOf []string

	err error // sticky first error
}

// Select starts a SELECT of the given column expressions.
func (d *Firebird) Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{dialect: d, columns: columns}
}

// FireSequence returns the statement that advances a sequence and
// returns the new value.
func (d *Firebird) FireSequence(seq string) string {
	return "SELECT " + d.NextValue(seq) + defaultFrom
}

// Distinct adds DISTINCT.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.distinct = true
	return b
}

// From sets the source table.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = b.dialect.QuoteIdentifier(table)
	return b
}

// FromAlias sets the source table with an alias. Firebird 1.x rejects
// AS in table aliases.
func (b *SelectBuilder) FromAlias(table, alias string) *SelectBuilder {
	b.from = b.aliased(table, alias)
	return b
}

// FromSubquery selects from a nested query.
func (b *SelectBuilder) FromSubquery(sub *SelectBuilder, alias string) *SelectBuilder {
	inner, err := sub.Build()
	if err != nil {
		b.setErr(err)
		return b
	}
	if b.dialect.version.VersionTwo() {
		b.from = "(" + inner + ") AS " + b.dialect.QuoteIdentifier(alias)
	} else {
		b.from = "(" + inner + ") " + b.dialect.QuoteIdentifier(alias)
	}
	return b
}

// Join adds an INNER JOIN.
func (b *SelectBuilder) Join(table, alias, on string) *SelectBuilder {
	return b.join("JOIN", table, alias, on)
}

// LeftJoin adds a LEFT OUTER JOIN.
func (b *SelectBuilder) LeftJoin(table, alias, on string) *SelectBuilder {
	return b.join("LEFT OUTER JOIN", table, alias, on)
}

func (b *SelectBuilder) join(kind, table, alias, on string) *SelectBuilder {
	if on == "" {
		b.setErr(fmt.Errorf("sqlbuilder: %s on %q requires a condition", kind, table))
		return b
	}
	b.joins = append(b.joins, fmt.Sprintf("%s %s ON %s", kind, b.aliased(table, alias), on))
	return b
}

// Where adds a condition; multiple conditions are joined with AND.
func (b *SelectBuilder) Where(cond string) *SelectBuilder {
	if cond != "" {
		b.where = append(b.where, cond)
	}
	return b
}

// GroupBy sets GROUP BY expressions.
func (b *SelectBuilder) GroupBy(exprs ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, exprs...)
	return b
}

// Having sets the HAVING condition.
func (b *SelectBuilder) Having(cond string) *SelectBuilder {
	b.having = cond
	return b
}

// OrderBy appends ORDER BY expressions.
func (b *SelectBuilder) OrderBy(exprs ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

// Limit caps the number of rows.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n < 0 {
		b.setErr(fmt.Errorf("sqlbuilder: negative limit %d", n))
		return b
	}
	b.limit = &n
	return b
}

// Offset skips rows.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	if n < 0 {
		b.setErr(fmt.Errorf("sqlbuilder: negative offset %d", n))
		return b
	}
	b.offset = &n
	return b
}

// ForUpdate adds FOR UPDATE, optionally restricted to columns.
func (b *SelectBuilder) ForUpdate(of ...string) *SelectBuilder {
	if b.lock < lockUpdate {
		b.lock = lockUpdate
	}
	b.lockOf = of
	return b
}

// WithLock adds FOR UPDATE WITH LOCK.
func (b *SelectBuilder) WithLock() *SelectBuilder {
	if b.lock < lockWithLock {
		b.lock = lockWithLock
	}
	return b
}

// SkipLocked adds FOR UPDATE WITH LOCK SKIP LOCKED (Firebird 5.0+).
func (b *SelectBuilder) SkipLocked() *SelectBuilder {
	b.lock = lockSkipLocked
	return b
}

// Build assembles the statement.
func (b *SelectBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("sqlbuilder: SELECT requires at least one column")
	}
	v := b.dialect.version
	if b.lock == lockSkipLocked && !v.SupportsSkipLocked() {
		return "", fmt.Errorf("sqlbuilder: SKIP LOCKED requires Firebird 5.0 or later")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")

	offsetFetch := v.SupportsOffsetFetch()
	if !offsetFetch {
		if b.limit != nil {
			sb.WriteString("FIRST " + strconv.Itoa(*b.limit) + " ")
		}
		if b.offset != nil {
			sb.WriteString("SKIP " + strconv.Itoa(*b.offset) + " ")
		}
	}
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(b.columns, ", "))

	if b.from == "" {
		sb.WriteString(defaultFrom)
	} else {
		sb.WriteString(" FROM ")
		sb.WriteString(b.from)
	}
	for _, j := range b.joins {
		sb.WriteByte(' ')
		sb.WriteString(j)
	}
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if b.having != "" {
		sb.WriteString(" HAVING ")
		sb.WriteString(b.having)
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if offsetFetch {
		if b.offset != nil {
			sb.WriteString(" \n OFFSET " + strconv.Itoa(*b.offset) + " ROWS")
		}
		if b.limit != nil {
			sb.WriteString(" \n FETCH NEXT " + strconv.Itoa(*b.limit) + " ROWS ONLY")
		}
	}

	switch b.lock {
	case lockUpdate, lockWithLock, lockSkipLocked:
		sb.WriteString(" FOR UPDATE")
		if len(b.lockOf) > 0 {
			quoted := make([]string, len(b.lockOf))
			for i, c := range b.lockOf {
				quoted[i] = b.dialect.QuoteIdentifier(c)
			}
			sb.WriteString(" OF ")
			sb.WriteString(strings.Join(quoted, ", "))
		}
		if b.lock >= lockWithLock {
			sb.WriteString(" WITH LOCK")
		}
		if b.lock == lockSkipLocked {
			sb.WriteString(" SKIP LOCKED")
		}
	}
	return sb.String(), nil
}

func (b *SelectBuilder) aliased(table, alias string) string {
	t := b.dialect.QuoteIdentifier(table)
	if alias == "" {
		return t
	}
	if b.dialect.version.VersionTwo() {
		return t + " AS " + b.dialect.QuoteIdentifier(alias)
	}
	return t + " " + b.dialect.QuoteIdentifier(alias)
}

func (b *SelectBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
