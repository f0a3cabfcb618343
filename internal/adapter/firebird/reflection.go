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
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

// QueryObserver is notified after every catalog query.
type QueryObserver func(operation string, duration time.Duration, err error)

// WithQueryObserver installs a catalog query observer.
func (a *Adapter) WithQueryObserver(obs QueryObserver) *Adapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = obs
	return a
}

func (a *Adapter) queryRows(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	db, err := a.getDB()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	a.observe(operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", operation, err)
	}
	return rows, nil
}

func (a *Adapter) observe(operation string, d time.Duration, err error) {
	a.mu.RLock()
	obs := a.observer
	a.mu.RUnlock()
	if obs != nil {
		obs(operation, d, err)
	}
}

const hasTableQuery = `
SELECT 1 AS has_table
FROM rdb$relations
WHERE rdb$relation_name = ?
  AND rdb$relation_type = ?`

// HasTable reports whether a relation of the given type exists. Names
// longer than the identifier limit cannot exist and are not looked up.
func (a *Adapter) HasTable(ctx context.Context, name string, relType types.RelationType) (bool, error) {
	d := a.Dialect()
	if d.CheckIdentifierLength(name) != nil {
		return false, nil
	}
	rows, err := a.queryRows(ctx, "has_table", hasTableQuery, d.DenormalizeName(name), int(relType))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}

const hasSequenceQuery = `
SELECT 1 AS has_sequence
FROM rdb$generators
WHERE rdb$generator_name = ?`

// HasSequence reports whether a sequence (generator) exists.
func (a *Adapter) HasSequence(ctx context.Context, name string) (bool, error) {
	rows, err := a.queryRows(ctx, "has_sequence", hasSequenceQuery, a.Dialect().DenormalizeName(name))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}

const (
	tableNamesQuery = `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)
  AND rdb$relation_type = 0`

	tempTableNamesQuery = `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)
  AND rdb$relation_type IN (4, 5)`

	viewNamesQuery = `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NOT NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)`

	sequenceNamesQuery = `
SELECT TRIM(rdb$generator_name) AS generator_name
FROM rdb$generators
WHERE (rdb$system_flag IS NULL OR rdb$system_flag = 0)`
)

// TableNames lists user tables.
func (a *Adapter) TableNames(ctx context.Context) ([]string, error) {
	return a.nameList(ctx, "table_names", tableNamesQuery)
}

// TemporaryTableNames lists global temporary tables.
func (a *Adapter) TemporaryTableNames(ctx context.Context) ([]string, error) {
	return a.nameList(ctx, "temp_table_names", tempTableNamesQuery)
}

// ViewNames lists user views.
func (a *Adapter) ViewNames(ctx context.Context) ([]string, error) {
	return a.nameList(ctx, "view_names", viewNamesQuery)
}

// SequenceNames lists user sequences.
func (a *Adapter) SequenceNames(ctx context.Context) ([]string, error) {
	return a.nameList(ctx, "sequence_names", sequenceNamesQuery)
}

func (a *Adapter) nameList(ctx context.Context, operation, query string) ([]string, error) {
	rows, err := a.queryRows(ctx, operation, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d := a.Dialect()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", operation, err)
		}
		names = append(names, d.NormalizeName(name))
	}
	return names, rows.Err()
}

const viewDefinitionQuery = `
SELECT rdb$view_source AS view_source
FROM rdb$relations
WHERE rdb$relation_name = ?
  AND rdb$relation_type = ?`

// ViewDefinition returns the stored source of a view.
func (a *Adapter) ViewDefinition(ctx context.Context, name string) (string, error) {
	rows, err := a.queryRows(ctx, "view_definition", viewDefinitionQuery,
		a.Dialect().DenormalizeName(name), int(types.RelationView))
	if err != nil {
		return "", err
	}
	var (
		source sql.NullString
		found  bool
	)
	if rows.Next() {
		found = true
		if err := rows.Scan(&source); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan view definition: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return "", err
	}
	rows.Close()
	if found {
		return source.String, nil
	}

	exists, err := a.HasTable(ctx, name, types.RelationView)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &types.NoSuchTableError{Name: name}
	}
	return "", nil
}

const keyColumnsQuery = `
SELECT TRIM(se.rdb$field_name) AS fname
FROM rdb$relation_constraints rc
     JOIN rdb$index_segments se ON rc.rdb$index_name = se.rdb$index_name
WHERE rc.rdb$constraint_type = ? AND rc.rdb$relation_name = ?
ORDER BY se.rdb$field_position`

// PrimaryKey returns the primary key columns, or nil when the table has
// no primary key.
func (a *Adapter) PrimaryKey(ctx context.Context, table string) (*types.PrimaryKeyInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "primary_key", keyColumnsQuery, "PRIMARY KEY", d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan primary key: %w", err)
		}
		cols = append(cols, d.NormalizeName(name))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}
	return &types.PrimaryKeyInfo{ConstrainedColumns: cols}, nil
}

const columnsQueryTemplate = `
SELECT TRIM(r.rdb$field_name) AS fname,
       r.rdb$null_flag AS null_flag,
       t.rdb$type_name AS ftype,
       f.rdb$field_sub_type AS stype,
       f.rdb$field_length / COALESCE(cs.rdb$bytes_per_character, 1) AS flen,
       f.rdb$field_precision AS fprec,
       f.rdb$field_scale AS fscale,
       COALESCE(r.rdb$default_source, f.rdb$default_source) AS fdefault,
       f.rdb$computed_source AS computed_source,
       %s
FROM rdb$relation_fields r
     JOIN rdb$fields f ON r.rdb$field_source = f.rdb$field_name
     JOIN rdb$types t ON t.rdb$type = f.rdb$field_type AND t.rdb$field_name = 'RDB$FIELD_TYPE'
     LEFT JOIN rdb$character_sets cs ON f.rdb$character_set_id = cs.rdb$character_set_id%s
WHERE f.rdb$system_flag = 0 AND r.rdb$relation_name = ?
ORDER BY r.rdb$field_position`

// columnsQuery returns the column query for the server release. Identity
// columns only exist from Firebird 3.0.
func columnsQuery(v types.ServerVersion) string {
	if v.SupportsIdentity() {
		return fmt.Sprintf(columnsQueryTemplate,
			`r.rdb$identity_type AS identity_type,
       g.rdb$initial_value AS identity_start,
       g.rdb$generator_increment AS identity_increment`,
			`
     LEFT JOIN rdb$generators g ON g.rdb$generator_name = r.rdb$generator_name`)
	}
	return fmt.Sprintf(columnsQueryTemplate,
		`NULL AS identity_type,
       NULL AS identity_start,
       NULL AS identity_increment`, "")
}

type columnRow struct {
	name           string
	nullFlag       sql.NullInt64
	typeName       string
	subType        sql.NullInt64
	length         sql.NullInt64
	precision      sql.NullInt64
	scale          sql.NullInt64
	defaultSource  sql.NullString
	computedSource sql.NullString
	identityType   sql.NullInt64
	identityStart  sql.NullInt64
	identityIncr   sql.NullInt64
}

// Columns reflects the columns of a table or view in position order.
func (a *Adapter) Columns(ctx context.Context, table string) ([]types.ColumnInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "columns", columnsQuery(d.Version()), d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	var raw []columnRow
	for rows.Next() {
		var r columnRow
		if err := rows.Scan(&r.name, &r.nullFlag, &r.typeName, &r.subType, &r.length,
			&r.precision, &r.scale, &r.defaultSource, &r.computedSource,
			&r.identityType, &r.identityStart, &r.identityIncr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	cols := make([]types.ColumnInfo, 0, len(raw))
	for _, r := range raw {
		col, err := a.columnFromRow(d, r)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) > 0 {
		return cols, nil
	}

	exists, err := a.HasTable(ctx, table, types.RelationTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &types.NoSuchTableError{Name: table}
	}
	return cols, nil
}

func (a *Adapter) columnFromRow(d *sqlbuilder.Firebird, r columnRow) (types.ColumnInfo, error) {
	name := d.NormalizeName(r.name)
	col := types.ColumnInfo{
		Name:     name,
		Type:     catalogColumnType(d, r, a.logger().WithValues("column", name)),
		Nullable: r.nullFlag.Int64 == 0,
		Quote:    strings.ToLower(r.name) == r.name,
	}

	if r.defaultSource.Valid {
		def, err := parseDefaultSource(r.defaultSource.String)
		if err != nil {
			return types.ColumnInfo{}, fmt.Errorf("column %s: %w", name, err)
		}
		col.Default = def
	}
	if r.computedSource.Valid {
		col.Computed = &types.ComputedInfo{SQLText: r.computedSource.String}
	}
	if r.identityType.Valid {
		col.Identity = &types.IdentityInfo{
			Always:    r.identityType.Int64 == 0,
			Start:     r.identityStart.Int64,
			Increment: r.identityIncr.Int64,
		}
	}
	return col, nil
}

func catalogColumnType(d *sqlbuilder.Firebird, r columnRow, log logr.Logger) types.ColumnType {
	spec := strings.TrimRight(r.typeName, " ")
	kind, ok := d.LookupCatalogType(spec)
	if !ok {
		log.Info("Did not recognize column type", "type", spec)
		return types.ColumnType{Kind: types.KindNull}
	}

	switch {
	case kind.IsInteger() && r.precision.Int64 != 0:
		return types.ColumnType{
			Kind:      types.KindNumeric,
			Precision: types.IntPtr(int(r.precision.Int64)),
			Scale:     types.IntPtr(int(-r.scale.Int64)),
		}
	case spec == "VARYING" || spec == "CSTRING":
		return types.ColumnType{Kind: kind, Length: types.IntPtr(int(r.length.Int64))}
	case spec == "TEXT":
		return types.ColumnType{Kind: types.KindChar, Length: types.IntPtr(int(r.length.Int64))}
	case spec == "BLOB":
		if r.subType.Int64 == 1 {
			return types.ColumnType{Kind: types.KindText}
		}
		return types.ColumnType{Kind: types.KindBlob}
	default:
		return types.ColumnType{Kind: kind, Timezone: sqlbuilder.CatalogTimezone(spec)}
	}
}

// parseDefaultSource strips the DEFAULT keyword from a stored default.
// An explicit NULL default is reported as no default.
func parseDefaultSource(src string) (*string, error) {
	expr := strings.TrimLeft(src, " \t\r\n")
	if len(expr) < 7 || !strings.EqualFold(expr[:7], "DEFAULT") {
		return nil, fmt.Errorf("unrecognized default value: %s", expr)
	}
	value := strings.TrimSpace(expr[7:])
	if value == "" || value == "NULL" {
		return nil, nil
	}
	return &value, nil
}

const foreignKeysQuery = `
SELECT TRIM(rc.rdb$constraint_name) AS cname,
       TRIM(cse.rdb$field_name) AS fname,
       TRIM(ix2.rdb$relation_name) AS targetrname,
       TRIM(se.rdb$field_name) AS targetfname,
       TRIM(rfc.rdb$update_rule) AS update_rule,
       TRIM(rfc.rdb$delete_rule) AS delete_rule
FROM rdb$relation_constraints rc
     JOIN rdb$ref_constraints rfc ON rfc.rdb$constraint_name = rc.rdb$constraint_name
     JOIN rdb$indices ix1 ON ix1.rdb$index_name = rc.rdb$index_name
     JOIN rdb$indices ix2 ON ix2.rdb$index_name = ix1.rdb$foreign_key
     JOIN rdb$index_segments cse ON cse.rdb$index_name = ix1.rdb$index_name
     JOIN rdb$index_segments se ON se.rdb$index_name = ix2.rdb$index_name
                               AND se.rdb$field_position = cse.rdb$field_position
WHERE rc.rdb$constraint_type = ? AND rc.rdb$relation_name = ?
ORDER BY se.rdb$index_name, se.rdb$field_position`

// ForeignKeys reflects FOREIGN KEY constraints grouped by name.
func (a *Adapter) ForeignKeys(ctx context.Context, table string) ([]types.ForeignKeyInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "foreign_keys", foreignKeysQuery, "FOREIGN KEY", d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		fks   []types.ForeignKeyInfo
		index = map[string]int{}
	)
	for rows.Next() {
		var cname, fname, target, targetField string
		var updateRule, deleteRule sql.NullString
		if err := rows.Scan(&cname, &fname, &target, &targetField, &updateRule, &deleteRule); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		name := d.NormalizeName(cname)
		i, ok := index[name]
		if !ok {
			i = len(fks)
			index[name] = i
			fks = append(fks, types.ForeignKeyInfo{
				Name:          name,
				ReferredTable: d.NormalizeName(target),
				Options:       map[string]string{},
			})
		}
		fk := &fks[i]
		fk.ConstrainedColumns = append(fk.ConstrainedColumns, d.NormalizeName(fname))
		fk.ReferredColumns = append(fk.ReferredColumns, d.NormalizeName(targetField))
		if rule := updateRule.String; isReportedRule(rule) {
			fk.Options[types.FKOptionOnUpdate] = rule
		}
		if rule := deleteRule.String; isReportedRule(rule) {
			fk.Options[types.FKOptionOnDelete] = rule
		}
	}
	return fks, rows.Err()
}

// isReportedRule reports whether a referential action differs from the
// implicit NO ACTION / RESTRICT behaviour.
func isReportedRule(rule string) bool {
	return rule != "" && rule != "NO ACTION" && rule != "RESTRICT"
}

const indexesQueryTemplate = `
SELECT TRIM(ix.rdb$index_name) AS index_name,
       ix.rdb$unique_flag AS unique_flag,
       ix.rdb$index_type AS index_type,
       TRIM(ic.rdb$field_name) AS field_name,
       TRIM(ix.rdb$expression_source) AS expression_source,
       %s AS condition_source
FROM rdb$indices ix
     LEFT JOIN rdb$index_segments ic ON ix.rdb$index_name = ic.rdb$index_name
     LEFT OUTER JOIN rdb$relation_constraints rc ON rc.rdb$index_name = ix.rdb$index_name
WHERE ix.rdb$relation_name = ? AND ix.rdb$foreign_key IS NULL
  AND rc.rdb$constraint_type IS NULL
ORDER BY index_name, ic.rdb$field_position`

// indexesQuery returns the index query for the server release. Partial
// index conditions are stored from Firebird 5.0.
func indexesQuery(v types.ServerVersion) string {
	if v.SupportsPartialIndexes() {
		return fmt.Sprintf(indexesQueryTemplate, "TRIM(ix.rdb$condition_source)")
	}
	return fmt.Sprintf(indexesQueryTemplate, "NULL")
}

// Indexes reflects indexes that do not back a constraint.
func (a *Adapter) Indexes(ctx context.Context, table string) ([]types.IndexInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "indexes", indexesQuery(d.Version()), d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		indexes []types.IndexInfo
		byName  = map[string]int{}
	)
	for rows.Next() {
		var (
			iname                      string
			uniqueFlag, indexType      sql.NullInt64
			field, expression, condSrc sql.NullString
		)
		if err := rows.Scan(&iname, &uniqueFlag, &indexType, &field, &expression, &condSrc); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		i, ok := byName[iname]
		if !ok {
			i = len(indexes)
			byName[iname] = i
			idx := types.IndexInfo{
				Name:        d.NormalizeName(iname),
				ColumnNames: []string{},
				Unique:      uniqueFlag.Int64 == 1,
				Descending:  indexType.Int64 == 1,
			}
			if expression.Valid && expression.String != "" {
				idx.Expressions = splitIndexExpression(expression.String)
			}
			if condSrc.Valid && condSrc.String != "" {
				idx.Where = stripKeyword(condSrc.String, "WHERE")
			}
			indexes = append(indexes, idx)
		}
		if field.Valid && field.String != "" {
			indexes[i].ColumnNames = append(indexes[i].ColumnNames, d.NormalizeName(field.String))
		}
	}
	return indexes, rows.Err()
}

// splitIndexExpression splits stored COMPUTED BY source on the separator
// used when the index was created.
func splitIndexExpression(src string) []string {
	src = stripKeyword(strings.TrimSpace(src), "COMPUTED BY")
	src = trimOuterParens(src)
	parts := strings.Split(src, sqlbuilder.ExpressionSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

const tableCommentQuery = `
SELECT rdb$description AS comment
FROM rdb$relations
WHERE rdb$relation_name = ?`

// TableComment returns the table description, or nil when unset.
func (a *Adapter) TableComment(ctx context.Context, table string) (*string, error) {
	rows, err := a.queryRows(ctx, "table_comment", tableCommentQuery, a.Dialect().DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var comment sql.NullString
	if err := rows.Scan(&comment); err != nil {
		return nil, fmt.Errorf("failed to scan table comment: %w", err)
	}
	if !comment.Valid {
		return nil, nil
	}
	return &comment.String, nil
}

const checkConstraintsQuery = `
SELECT TRIM(rc.rdb$constraint_name) AS cname,
       TRIM(SUBSTRING(tr.rdb$trigger_source FROM 8 FOR CHAR_LENGTH(tr.rdb$trigger_source) - 8)) AS sqltext
FROM rdb$relation_constraints rc
     JOIN rdb$check_constraints ck ON ck.rdb$constraint_name = rc.rdb$constraint_name
     JOIN rdb$triggers tr ON tr.rdb$trigger_name = ck.rdb$trigger_name
                         AND tr.rdb$trigger_type = 1
WHERE rc.rdb$constraint_type = ? AND rc.rdb$relation_name = ?
ORDER BY 1, 2`

// CheckConstraints reflects CHECK constraints, sorted by name.
func (a *Adapter) CheckConstraints(ctx context.Context, table string) ([]types.CheckConstraintInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "check_constraints", checkConstraintsQuery, "CHECK", d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		checks []types.CheckConstraintInfo
		seen   = map[string]bool{}
	)
	for rows.Next() {
		var cname string
		var text sql.NullString
		if err := rows.Scan(&cname, &text); err != nil {
			return nil, fmt.Errorf("failed to scan check constraint: %w", err)
		}
		name := d.NormalizeName(cname)
		if seen[name] {
			continue
		}
		seen[name] = true
		checks = append(checks, types.CheckConstraintInfo{Name: name, SQLText: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	return checks, nil
}

const uniqueConstraintsQuery = `
SELECT TRIM(c.rdb$constraint_name) AS cname,
       TRIM(s.rdb$field_name) AS column_name
FROM rdb$index_segments s
     JOIN rdb$relation_constraints c ON c.rdb$index_name = s.rdb$index_name
     JOIN rdb$relations r ON r.rdb$relation_name = c.rdb$relation_name
                         AND r.rdb$system_flag = 0
WHERE c.rdb$constraint_type = ? AND r.rdb$relation_name = ?
ORDER BY c.rdb$constraint_name, s.rdb$field_position`

// UniqueConstraints reflects UNIQUE constraints, sorted by name.
func (a *Adapter) UniqueConstraints(ctx context.Context, table string) ([]types.UniqueConstraintInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "unique_constraints", uniqueConstraintsQuery, "UNIQUE", d.DenormalizeName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		uniques []types.UniqueConstraintInfo
		byName  = map[string]int{}
	)
	for rows.Next() {
		var cname, column string
		if err := rows.Scan(&cname, &column); err != nil {
			return nil, fmt.Errorf("failed to scan unique constraint: %w", err)
		}
		name := d.NormalizeName(cname)
		i, ok := byName[name]
		if !ok {
			i = len(uniques)
			byName[name] = i
			uniques = append(uniques, types.UniqueConstraintInfo{Name: name})
		}
		uniques[i].ColumnNames = append(uniques[i].ColumnNames, d.NormalizeName(column))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(uniques, func(i, j int) bool { return uniques[i].Name < uniques[j].Name })
	return uniques, nil
}

const domainsQuery = `
SELECT TRIM(f.rdb$field_name) AS fname,
       f.rdb$null_flag AS null_flag,
       f.rdb$default_source AS default_source,
       f.rdb$validation_source AS validation_source,
       f.rdb$description AS description
FROM rdb$fields f
WHERE (f.rdb$system_flag IS NULL OR f.rdb$system_flag = 0)
  AND f.rdb$field_name NOT LIKE 'RDB$%'
ORDER BY f.rdb$field_name`

// Domains reflects user-defined domains, sorted by name.
func (a *Adapter) Domains(ctx context.Context) ([]types.DomainInfo, error) {
	d := a.Dialect()
	rows, err := a.queryRows(ctx, "domains", domainsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []types.DomainInfo
	for rows.Next() {
		var (
			fname                            string
			nullFlag                         sql.NullInt64
			defaultSrc, checkSrc, commentSrc sql.NullString
		)
		if err := rows.Scan(&fname, &nullFlag, &defaultSrc, &checkSrc, &commentSrc); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		dom := types.DomainInfo{
			Name:     d.NormalizeName(fname),
			Nullable: nullFlag.Int64 == 0,
		}
		if defaultSrc.Valid {
			def, err := parseDefaultSource(defaultSrc.String)
			if err != nil {
				return nil, fmt.Errorf("domain %s: %w", dom.Name, err)
			}
			dom.Default = def
		}
		if checkSrc.Valid && strings.TrimSpace(checkSrc.String) != "" {
			check := trimOuterParens(stripKeyword(checkSrc.String, "CHECK"))
			dom.Check = &check
		}
		if commentSrc.Valid {
			comment := commentSrc.String
			dom.Comment = &comment
		}
		domains = append(domains, dom)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Name < domains[j].Name })
	return domains, nil
}

// stripKeyword removes a leading keyword, ignoring case and surrounding
// blanks.
func stripKeyword(s, keyword string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(keyword) && strings.EqualFold(s[:len(keyword)], keyword) {
		return strings.TrimSpace(s[len(keyword):])
	}
	return s
}

// trimOuterParens removes one pair of parentheses enclosing the whole
// expression.
func trimOuterParens(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
