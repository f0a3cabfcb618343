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

// IdentityOptions configures GENERATED ... AS IDENTITY.
type IdentityOptions struct {
	Always    bool
	Start     *int64
	Increment *int64
}

// ComputedOptions configures GENERATED ALWAYS AS (expr). Persisted must
// stay nil; Firebird has no stored/virtual choice.
type ComputedOptions struct {
	SQLText   string
	Persisted *bool
}

// ColumnDef describes a column for CREATE TABLE and ALTER TABLE ADD.
type ColumnDef struct {
	Name string
	Type types.ColumnType

	// Nullable nil means "not stated": primary keys default to NOT NULL
	// and identity columns render no null constraint.
	Nullable       *bool
	PrimaryKey     bool
	Autoincrement  bool
	SequenceBacked bool

	// Default is a rendered SQL expression.
	Default  string
	Identity *IdentityOptions
	Computed *ComputedOptions

	// Quote forces quoting, for names stored in lower case.
	Quote bool
}

// ForeignKeyDef describes a FOREIGN KEY table constraint.
type ForeignKeyDef struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

type namedColumns struct {
	name    string
	columns []string
}

type checkDef struct {
	name string
	expr string
}

// ColumnSpec renders one column specification:
// name, type or computed expression, identity or default, NOT NULL.
func (d *Firebird) ColumnSpec(c ColumnDef) (string, error) {
	if c.Name == "" {
		return "", fmt.Errorf("sqlbuilder: column requires a name")
	}
	if err := d.CheckIdentifierLength(c.Name); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(d.quoteName(c.Name, c.Quote))

	if c.Computed != nil {
		if c.Computed.Persisted != nil {
			return "", fmt.Errorf("Firebird computed columns do not support a persistence method setting; " +
				"set the 'persisted' flag to None for Firebird support.")
		}
		if c.Type.Kind != "" {
			t, err := d.RenderType(c.Type)
			if err != nil {
				return "", err
			}
			sb.WriteString(" " + t)
		}
		sb.WriteString(" GENERATED ALWAYS AS (" + c.Computed.SQLText + ")")
	} else {
		t, err := d.RenderType(c.Type)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name, err)
		}
		sb.WriteString(" " + t)
	}

	if c.Identity != nil {
		ident, err := d.identityClause(*c.Identity)
		if err != nil {
			return "", err
		}
		sb.WriteString(" " + ident)
	} else if c.Default != "" {
		sb.WriteString(" DEFAULT " + c.Default)
	}

	nullable := c.Nullable
	if nullable == nil && c.Identity == nil {
		v := !c.PrimaryKey
		nullable = &v
	}
	if nullable != nil && (!*nullable || c.PrimaryKey || c.SequenceBacked || c.Autoincrement) {
		sb.WriteString(" NOT NULL")
	}
	return sb.String(), nil
}

// identityClause renders the identity clause for the server release.
// Firebird 3.0 only knows BY DEFAULT with an optional START WITH.
func (d *Firebird) identityClause(id IdentityOptions) (string, error) {
	v := d.version
	if !v.SupportsIdentity() {
		return "", fmt.Errorf("sqlbuilder: identity columns require Firebird 3.0 or later")
	}
	if id.Always && !v.SupportsIdentityAlways() {
		return "", fmt.Errorf("sqlbuilder: GENERATED ALWAYS AS IDENTITY requires Firebird 4.0 or later")
	}
	if id.Increment != nil && !v.SupportsIdentityAlways() {
		return "", fmt.Errorf("sqlbuilder: identity INCREMENT BY requires Firebird 4.0 or later")
	}

	text := "GENERATED BY DEFAULT AS IDENTITY"
	if id.Always {
		text = "GENERATED ALWAYS AS IDENTITY"
	}
	var opts []string
	if id.Start != nil {
		opts = append(opts, fmt.Sprintf("START WITH %d", *id.Start))
	}
	if id.Increment != nil {
		opts = append(opts, fmt.Sprintf("INCREMENT BY %d", *id.Increment))
	}
	if len(opts) > 0 {
		text += " (" + strings.Join(opts, " ") + ")"
	}
	return text, nil
}

// TableBuilder builds CREATE TABLE statements.
type TableBuilder struct {
	dialect *Firebird
	name    string
	quote   bool

	columns     []ColumnDef
	primaryKey  *namedColumns
	uniques     []namedColumns
	foreignKeys []ForeignKeyDef
	checks      []checkDef

	temporary bool
	onCommit  string

	err error // sticky first error
}

// CreateTable starts a CREATE TABLE statement.
func (d *Firebird) CreateTable(name string) *TableBuilder {
	return &TableBuilder{dialect: d, name: name}
}

// Quoted forces the table name to be quoted.
func (b *TableBuilder) Quoted() *TableBuilder {
	b.quote = true
	return b
}

// Column appends a column.
func (b *TableBuilder) Column(c ColumnDef) *TableBuilder {
	b.columns = append(b.columns, c)
	return b
}

// PrimaryKey sets an explicit (optionally named) primary key. Without it
// the key is taken from columns flagged PrimaryKey.
func (b *TableBuilder) PrimaryKey(name string, cols ...string) *TableBuilder {
	b.primaryKey = &namedColumns{name: name, columns: cols}
	return b
}

// Unique adds a UNIQUE constraint.
func (b *TableBuilder) Unique(name string, cols ...string) *TableBuilder {
	if len(cols) == 0 {
		b.setErr(fmt.Errorf("sqlbuilder: UNIQUE constraint requires columns"))
		return b
	}
	b.uniques = append(b.uniques, namedColumns{name: name, columns: cols})
	return b
}

// ForeignKey adds a FOREIGN KEY constraint.
func (b *TableBuilder) ForeignKey(fk ForeignKeyDef) *TableBuilder {
	if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) || fk.RefTable == "" {
		b.setErr(fmt.Errorf("sqlbuilder: foreign key %q needs matching columns and a referenced table", fk.Name))
		return b
	}
	b.foreignKeys = append(b.foreignKeys, fk)
	return b
}

// Check adds a CHECK constraint.
func (b *TableBuilder) Check(name, expr string) *TableBuilder {
	b.checks = append(b.checks, checkDef{name: name, expr: expr})
	return b
}

// GlobalTemporary makes the table a global temporary table. onCommit is
// e.g. "preserve_rows" or "DELETE ROWS"; empty leaves the server default.
func (b *TableBuilder) GlobalTemporary(onCommit string) *TableBuilder {
	b.temporary = true
	b.onCommit = onCommit
	return b
}

// Build assembles the statement.
func (b *TableBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	d := b.dialect
	if b.name == "" {
		return "", fmt.Errorf("sqlbuilder: CREATE TABLE requires a name")
	}
	if err := d.CheckIdentifierLength(b.name); err != nil {
		return "", err
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("sqlbuilder: CREATE TABLE %s requires at least one column", b.name)
	}
	if b.temporary && !d.version.AtLeast(2, 1) {
		return "", fmt.Errorf("sqlbuilder: global temporary tables require Firebird 2.1 or later")
	}

	parts := make([]string, 0, len(b.columns)+2)
	var pkCols []string
	for _, c := range b.columns {
		spec, err := d.ColumnSpec(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, spec)
		if c.PrimaryKey {
			pkCols = append(pkCols, c.Name)
		}
	}

	pk := b.primaryKey
	if pk == nil && len(pkCols) > 0 {
		pk = &namedColumns{columns: pkCols}
	}
	if pk != nil {
		parts = append(parts, constraintPrefix(d, pk.name)+"PRIMARY KEY ("+quoteList(d, pk.columns)+")")
	}
	for _, u := range b.uniques {
		parts = append(parts, constraintPrefix(d, u.name)+"UNIQUE ("+quoteList(d, u.columns)+")")
	}
	for _, fk := range b.foreignKeys {
		clause, err := foreignKeyClause(d, fk)
		if err != nil {
			return "", err
		}
		parts = append(parts, clause)
	}
	for _, c := range b.checks {
		parts = append(parts, constraintPrefix(d, c.name)+"CHECK ("+c.expr+")")
	}

	var sb strings.Builder
	sb.WriteString("CREATE ")
	if b.temporary {
		sb.WriteString("GLOBAL TEMPORARY ")
	}
	sb.WriteString("TABLE ")
	sb.WriteString(d.quoteName(b.name, b.quote))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteByte(')')
	if b.temporary && b.onCommit != "" {
		sb.WriteString(" ON COMMIT ")
		sb.WriteString(strings.ToUpper(strings.ReplaceAll(b.onCommit, "_", " ")))
	}
	return sb.String(), nil
}

func (b *TableBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func constraintPrefix(d *Firebird, name string) string {
	if name == "" {
		return ""
	}
	return "CONSTRAINT " + d.QuoteIdentifier(name) + " "
}

var referentialActions = map[string]bool{
	"NO ACTION":   true,
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
}

func foreignKeyClause(d *Firebird, fk ForeignKeyDef) (string, error) {
	var sb strings.Builder
	sb.WriteString(constraintPrefix(d, fk.Name))
	sb.WriteString("FOREIGN KEY (" + quoteList(d, fk.Columns) + ") REFERENCES ")
	sb.WriteString(d.QuoteIdentifier(fk.RefTable))
	sb.WriteString(" (" + quoteList(d, fk.RefColumns) + ")")
	for _, a := range []struct{ verb, action string }{{"ON DELETE", fk.OnDelete}, {"ON UPDATE", fk.OnUpdate}} {
		if a.action == "" {
			continue
		}
		action := strings.ToUpper(strings.TrimSpace(a.action))
		if !referentialActions[action] {
			return "", fmt.Errorf("sqlbuilder: invalid referential action %q", a.action)
		}
		sb.WriteString(" " + a.verb + " " + action)
	}
	return sb.String(), nil
}

// DropTable renders DROP TABLE.
func (d *Firebird) DropTable(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: DROP TABLE requires a name")
	}
	return "DROP TABLE " + d.QuoteIdentifier(name), nil
}

// DropView renders DROP VIEW.
func (d *Firebird) DropView(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: DROP VIEW requires a name")
	}
	return "DROP VIEW " + d.QuoteIdentifier(name), nil
}

// CreateView renders CREATE VIEW name [(cols)] AS query.
func (d *Firebird) CreateView(name string, columns []string, query string) (string, error) {
	if name == "" || query == "" {
		return "", fmt.Errorf("sqlbuilder: CREATE VIEW requires a name and a query")
	}
	if err := d.CheckIdentifierLength(name); err != nil {
		return "", err
	}
	stmt := "CREATE VIEW " + d.QuoteIdentifier(name)
	if len(columns) > 0 {
		stmt += " (" + quoteList(d, columns) + ")"
	}
	return stmt + " AS " + query, nil
}

// Comment targets for COMMENT ON.
const (
	CommentTable    = "TABLE"
	CommentView     = "VIEW"
	CommentSequence = "SEQUENCE"
	CommentDomain   = "DOMAIN"
	CommentIndex    = "INDEX"
)

// CommentOn renders COMMENT ON <kind> name IS 'text'. An empty text
// removes the comment.
func (d *Firebird) CommentOn(kind, name, text string) (string, error) {
	if !d.version.VersionTwo() {
		return "", fmt.Errorf("sqlbuilder: COMMENT ON requires Firebird 2.0 or later")
	}
	switch kind {
	case CommentTable, CommentView, CommentSequence, CommentDomain, CommentIndex:
	default:
		return "", fmt.Errorf("sqlbuilder: unsupported comment target %q", kind)
	}
	if kind == CommentSequence && !d.version.AtLeast(3, 0) {
		kind = "GENERATOR"
	}
	return fmt.Sprintf("COMMENT ON %s %s IS %s", kind, d.QuoteIdentifier(name), commentText(d, text)), nil
}

// CommentOnColumn renders COMMENT ON COLUMN table.column IS 'text'.
func (d *Firebird) CommentOnColumn(table, column, text string) (string, error) {
	if !d.version.VersionTwo() {
		return "", fmt.Errorf("sqlbuilder: COMMENT ON requires Firebird 2.0 or later")
	}
	return fmt.Sprintf("COMMENT ON COLUMN %s IS %s", d.Col(table, column), commentText(d, text)), nil
}

func commentText(d *Firebird, text string) string {
	if text == "" {
		return "NULL"
	}
	return d.EscapeLiteral(text)
}

// DomainDef describes CREATE DOMAIN.
type DomainDef struct {
	Name    string
	Type    types.ColumnType
	Default string
	NotNull bool
	Check   string // condition over VALUE
}

// CreateDomain renders CREATE DOMAIN.
func (d *Firebird) CreateDomain(def DomainDef) (string, error) {
	if def.Name == "" {
		return "", fmt.Errorf("sqlbuilder: CREATE DOMAIN requires a name")
	}
	if err := d.CheckIdentifierLength(def.Name); err != nil {
		return "", err
	}
	t, err := d.RenderType(def.Type)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("CREATE DOMAIN " + d.QuoteIdentifier(def.Name) + " AS " + t)
	if def.Default != "" {
		sb.WriteString(" DEFAULT " + def.Default)
	}
	if def.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if def.Check != "" {
		sb.WriteString(" CHECK (" + def.Check + ")")
	}
	return sb.String(), nil
}

// DropDomain renders DROP DOMAIN.
func (d *Firebird) DropDomain(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: DROP DOMAIN requires a name")
	}
	return "DROP DOMAIN " + d.QuoteIdentifier(name), nil
}

// AlterTableBuilder builds a single ALTER TABLE with comma separated
// operations.
type AlterTableBuilder struct {
	dialect *Firebird
	table   string
	ops     []string
	err     error
}

// AlterTable starts an ALTER TABLE statement.
func (d *Firebird) AlterTable(table string) *AlterTableBuilder {
	return &AlterTableBuilder{dialect: d, table: table}
}

// AddColumn adds ADD <column spec>.
func (b *AlterTableBuilder) AddColumn(c ColumnDef) *AlterTableBuilder {
	spec, err := b.dialect.ColumnSpec(c)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.ops = append(b.ops, "ADD "+spec)
	return b
}

// DropColumn adds DROP column.
func (b *AlterTableBuilder) DropColumn(name string) *AlterTableBuilder {
	b.ops = append(b.ops, "DROP "+b.dialect.QuoteIdentifier(name))
	return b
}

// AlterColumnType adds ALTER COLUMN c TYPE t.
func (b *AlterTableBuilder) AlterColumnType(name string, t types.ColumnType) *AlterTableBuilder {
	rendered, err := b.dialect.RenderType(t)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.ops = append(b.ops, "ALTER COLUMN "+b.dialect.QuoteIdentifier(name)+" TYPE "+rendered)
	return b
}

// SetDefault adds ALTER COLUMN c SET DEFAULT expr.
func (b *AlterTableBuilder) SetDefault(name, expr string) *AlterTableBuilder {
	b.ops = append(b.ops, "ALTER COLUMN "+b.dialect.QuoteIdentifier(name)+" SET DEFAULT "+expr)
	return b
}

// DropDefault adds ALTER COLUMN c DROP DEFAULT.
func (b *AlterTableBuilder) DropDefault(name string) *AlterTableBuilder {
	b.ops = append(b.ops, "ALTER COLUMN "+b.dialect.QuoteIdentifier(name)+" DROP DEFAULT")
	return b
}

// SetNullable adds ALTER COLUMN c {DROP|SET} NOT NULL (Firebird 3.0+).
func (b *AlterTableBuilder) SetNullable(name string, nullable bool) *AlterTableBuilder {
	if !b.dialect.version.AtLeast(3, 0) {
		b.setErr(fmt.Errorf("sqlbuilder: changing column nullability requires Firebird 3.0 or later"))
		return b
	}
	verb := "SET NOT NULL"
	if nullable {
		verb = "DROP NOT NULL"
	}
	b.ops = append(b.ops, "ALTER COLUMN "+b.dialect.QuoteIdentifier(name)+" "+verb)
	return b
}

// RenameColumn adds ALTER COLUMN old TO new.
func (b *AlterTableBuilder) RenameColumn(from, to string) *AlterTableBuilder {
	if err := b.dialect.CheckIdentifierLength(to); err != nil {
		b.setErr(err)
		return b
	}
	b.ops = append(b.ops, "ALTER COLUMN "+b.dialect.QuoteIdentifier(from)+" TO "+b.dialect.QuoteIdentifier(to))
	return b
}

// AddForeignKey adds ADD CONSTRAINT ... FOREIGN KEY.
func (b *AlterTableBuilder) AddForeignKey(fk ForeignKeyDef) *AlterTableBuilder {
	clause, err := foreignKeyClause(b.dialect, fk)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.ops = append(b.ops, "ADD "+clause)
	return b
}

// AddUnique adds ADD [CONSTRAINT name] UNIQUE (cols).
func (b *AlterTableBuilder) AddUnique(name string, cols ...string) *AlterTableBuilder {
	if len(cols) == 0 {
		b.setErr(fmt.Errorf("sqlbuilder: UNIQUE constraint requires at least one column"))
		return b
	}
	b.ops = append(b.ops, "ADD "+constraintPrefix(b.dialect, name)+"UNIQUE ("+quoteList(b.dialect, cols)+")")
	return b
}

// AddCheck adds ADD [CONSTRAINT name] CHECK (expr).
func (b *AlterTableBuilder) AddCheck(name, expr string) *AlterTableBuilder {
	if strings.TrimSpace(expr) == "" {
		b.setErr(fmt.Errorf("sqlbuilder: CHECK constraint requires an expression"))
		return b
	}
	b.ops = append(b.ops, "ADD "+constraintPrefix(b.dialect, name)+"CHECK ("+expr+")")
	return b
}

// DropConstraint adds DROP CONSTRAINT name.
func (b *AlterTableBuilder) DropConstraint(name string) *AlterTableBuilder {
	b.ops = append(b.ops, "DROP CONSTRAINT "+b.dialect.QuoteIdentifier(name))
	return b
}

// Empty reports whether no operation has been added.
func (b *AlterTableBuilder) Empty() bool {
	return len(b.ops) == 0
}

// Build assembles the statement.
func (b *AlterTableBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.table == "" {
		return "", fmt.Errorf("sqlbuilder: ALTER TABLE requires a table")
	}
	if len(b.ops) == 0 {
		return "", fmt.Errorf("sqlbuilder: ALTER TABLE %s has no operations", b.table)
	}
	return "ALTER TABLE " + b.dialect.QuoteIdentifier(b.table) + " " + strings.Join(b.ops, ", "), nil
}

func (b *AlterTableBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
